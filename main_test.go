package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/NickyBoy89/pharbuild/builder"
	"github.com/NickyBoy89/pharbuild/config"
	"github.com/NickyBoy89/pharbuild/parsing"
	"github.com/NickyBoy89/pharbuild/phar"
)

func TestReadPluginDescription(t *testing.T) {
	description, err := ReadPluginDescription("testfiles/plugin")
	if err != nil {
		t.Fatal(err)
	}
	if description.ArchiveName() != "Counter_v1.0.0.phar" {
		t.Errorf("Expected: %v, Actual: %v", "Counter_v1.0.0.phar", description.ArchiveName())
	}
	if !reflect.DeepEqual([]string(description.API), []string{"5.0.0"}) {
		t.Errorf("Expected a single api version to be read as a list, got %v", description.API)
	}

	meta := description.Metadata(time.Unix(1000, 0))
	if authors, _ := meta.Get("authors"); !reflect.DeepEqual(authors, []string{"acme"}) {
		t.Errorf("Expected: %v, Actual: %v", []string{"acme"}, authors)
	}
	if created, _ := meta.Get("creationDate"); created != int64(1000) {
		t.Errorf("Expected: %v, Actual: %v", 1000, created)
	}
}

func TestReadPluginDescriptionMissingFields(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/plugin.yml", []byte("main: Acme\\Main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPluginDescription(dir); err == nil {
		t.Errorf("Expected a plugin without a name to be rejected")
	}
}

func parseFile(t *testing.T, path string) []ClassDependencies {
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading file failed with err: %v", err)
	}
	stmts, err := parsing.Parse(source)
	if err != nil {
		t.Fatal(err)
	}
	return ExtractDependencies(stmts)
}

func TestExtractDependencies(t *testing.T) {
	expected := []ClassDependencies{{
		Namespace:    `Acme\Counter`,
		Name:         `Acme\Counter\Counter`,
		Dependencies: []string{`Acme\Counter\Base`, "Countable"},
	}}
	if actual := parseFile(t, "testfiles/Counter.php"); !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}

	expected = []ClassDependencies{
		{Namespace: `Acme\Shapes`, Name: `Acme\Shapes\Shape`},
		{Namespace: `Acme\Shapes`, Name: `Acme\Shapes\Circle`, Dependencies: []string{`Acme\Shapes\Shape`}},
		{Namespace: `Acme\Shapes`, Name: `Acme\Shapes\Named`},
		{Namespace: `Acme\Shapes`, Name: `Acme\Shapes\Kind`},
	}
	if actual := parseFile(t, "testfiles/Shapes.php"); !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}
}

func TestBuildPlugin(t *testing.T) {
	out := t.TempDir()
	result, err := BuildPlugin(context.Background(), "testfiles/plugin", out, config.View{}, 2)
	if err != nil {
		t.Fatalf("Building plugin failed with err: %v", err)
	}
	if !strings.HasSuffix(result.Archive, "Counter_v1.0.0.phar") {
		t.Errorf("Unexpected archive name %v", result.Archive)
	}

	data, err := os.ReadFile(result.Archive)
	if err != nil {
		t.Fatal(err)
	}
	archive, err := phar.Read(data)
	if err != nil {
		t.Fatalf("Reading archive failed with err: %v", err)
	}

	var names []string
	for _, file := range archive.Files {
		names = append(names, file.Name)
	}
	expected := []string{"plugin.yml", "resources/config.yml", "src/Acme/Shop/Counter.php", "src/Acme/Shop/Main.php"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, names)
	}
	if archive.Stub != phar.BareStub || archive.Metadata != "" {
		t.Errorf("Expected the default build to skip the stub and metadata")
	}
	if len(result.Processed) != 2 || len(result.Copied) != 2 || len(result.Skipped) != 0 {
		t.Errorf("Unexpected report: %+v", result.Report)
	}
}

func TestBuildPluginSkipsOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"plugin.yml":       "name: Inner\nversion: 2.0.0\nmain: Acme\\Main\n",
		"src/Acme/Main.php": "<?php\n\nnamespace Acme;\n\nclass Main\n{\n}\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.FromMap(map[string]interface{}{
		"build": map[string]interface{}{"include-minimal": false},
	})
	out := filepath.Join(dir, "out")
	var result *BuildResult
	// The second build runs with the first one's archive in place
	for i := 0; i < 2; i++ {
		var err error
		if result, err = BuildPlugin(context.Background(), dir, out, cfg, 1); err != nil {
			t.Fatalf("Building plugin failed with err: %v", err)
		}
	}

	data, err := os.ReadFile(result.Archive)
	if err != nil {
		t.Fatal(err)
	}
	archive, err := phar.Read(data)
	if err != nil {
		t.Fatalf("Reading archive failed with err: %v", err)
	}
	var names []string
	for _, file := range archive.Files {
		names = append(names, file.Name)
	}
	expected := []string{"plugin.yml", "src/Acme/Main.php"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, names)
	}
}

func TestDependencyGraph(t *testing.T) {
	inputs := []builder.Input{
		{Path: "src/Counter.php", Data: readTestFile(t, "testfiles/Counter.php")},
		{Path: "src/Broken.php", Data: readTestFile(t, "testfiles/Broken.php")},
		{Path: "plugin.yml", Data: []byte("name: Counter\n")},
	}

	var out strings.Builder
	if _, err := DependencyGraph(inputs).WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	expected := `"Acme\\Counter\\Counter" -> {"Acme\\Counter\\Base", "Countable"}`
	if !strings.Contains(out.String(), expected) {
		t.Errorf("Expected the graph to contain %s, got:\n%s", expected, out.String())
	}
}

func readTestFile(t *testing.T, path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading file failed with err: %v", err)
	}
	return data
}
