package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/NickyBoy89/pharbuild/config"
	"github.com/NickyBoy89/pharbuild/parsing"
	"github.com/NickyBoy89/pharbuild/phpast"
	"github.com/NickyBoy89/pharbuild/visitor"
)

func readFixture(t *testing.T, name string) []byte {
	data, err := os.ReadFile(filepath.Join("../testfiles", name))
	if err != nil {
		t.Fatalf("Reading file failed with err: %v", err)
	}
	return data
}

func newBuilder(settings map[string]interface{}) *Builder {
	b := New(config.FromMap(settings))
	b.Init()
	return b
}

// recorder notes down every time it runs
type recorder struct {
	visitor.Base
	name string
	runs *[]string
}

func (r *recorder) BeforeTraverse([]phpast.Stmt) []phpast.Stmt {
	*r.runs = append(*r.runs, r.name)
	return nil
}

func TestTierOrder(t *testing.T) {
	var runs []string
	group := NewTraverserGroup()
	// Registered out of order on purpose
	group.Register(Normal, &recorder{name: "normal", runs: &runs})
	group.Register(Highest, &recorder{name: "highest-1", runs: &runs})
	group.Register(BeforeSplit, &recorder{name: "before", runs: &runs})
	group.Register(High, &recorder{name: "high", runs: &runs})
	group.Register(Highest, &recorder{name: "highest-2", runs: &runs})

	b := newBuilder(nil)
	b.group = group
	outputs, err := b.Process("src/Shapes.php", readFixture(t, "Shapes.php"))
	if err != nil {
		t.Fatal(err)
	}

	unitRuns := []string{"highest-1", "highest-2", "high", "normal"}
	expected := []string{"before"}
	for range outputs {
		expected = append(expected, unitRuns...)
	}
	if !reflect.DeepEqual(runs, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, runs)
	}
}

func registered(b *Builder) map[Priority][]string {
	group := b.NewGroup()
	names := make(map[Priority][]string)
	for _, priority := range append([]Priority{BeforeSplit}, UnitPriorities...) {
		for _, v := range group.Visitors(priority) {
			names[priority] = append(names[priority], visitorName(v))
		}
	}
	return names
}

func TestInitDefaults(t *testing.T) {
	expected := map[Priority][]string{
		Highest: {"ImportGrouping", "ImportSorting"},
		High:    {"ImportRenaming"},
		Normal: {
			"CommentOptimizing",
			"LocalVariableRenaming",
			"MemberRenaming",
			"MemberRenaming",
			"MemberRenaming",
			"ImportForcing",
		},
	}
	if actual := registered(newBuilder(nil)); !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}
}

func TestInitResolveImports(t *testing.T) {
	b := newBuilder(map[string]interface{}{
		"preprocessing": map[string]interface{}{
			"comment-optimizing": false,
			"renaming": map[string]interface{}{
				"local-variable":   "unknown",
				"private-property": "md5",
			},
			"importing": map[string]interface{}{
				"renaming": "resolve",
			},
		},
	})

	expected := map[Priority][]string{
		High:   {"ImportRemoving"},
		Normal: {"MemberRenaming", "MemberRenaming", "MemberRenaming"},
	}
	if actual := registered(b); !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}
}

func TestGroupsDoNotShareVisitors(t *testing.T) {
	b := newBuilder(nil)
	first, second := b.NewGroup().Visitors(Normal), b.NewGroup().Visitors(Normal)
	for ind := range first {
		// Visitors without any state may share an address
		if reflect.TypeOf(first[ind]).Elem().Size() == 0 {
			continue
		}
		if first[ind] == second[ind] {
			t.Errorf("Expected each group to have its own %s", visitorName(first[ind]))
		}
	}
}

func TestProcessRenamesPrivateProperty(t *testing.T) {
	outputs, err := newBuilder(nil).Process("src/Counter.php", readFixture(t, "Counter.php"))
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 1 || outputs[0].Path != "src/Counter.php" {
		t.Fatalf("Expected a single output for Counter.php, got %v", outputs)
	}

	text := outputs[0].Text
	if strings.Contains(text, "$this->count") || strings.Contains(text, "int $count") {
		t.Errorf("Expected the private property to be renamed:\n%s", text)
	}
	for _, kept := range []string{"function count()", "function increment(", "$this->label"} {
		if !strings.Contains(text, kept) {
			t.Errorf("Expected %q to be kept:\n%s", kept, text)
		}
	}
	if _, err := parsing.Parse([]byte(text)); err != nil {
		t.Errorf("Output failed to parse: %v", err)
	}
}

const modernSource = `<?php

namespace Acme;

#[\Attribute]
final class Modern
{
    private int $x = 1;

    public function __construct(private ?Modern $next = null)
    {
    }

    public function f(int $v): int
    {
        $double = fn(int $n): int => $n * 2;
        $kind = match ($v) {
            1 => 'one',
            default => 'many',
        };
        return $double($this->x) + strlen($kind) + ($this->next?->f($v) ?? 0);
    }
}
`

func TestProcessModernSyntax(t *testing.T) {
	for _, format := range []string{"standard", "shorten"} {
		b := newBuilder(map[string]interface{}{
			"build": map[string]interface{}{"print-format": format},
		})
		outputs, err := b.Process("src/Modern.php", []byte(modernSource))
		if err != nil {
			t.Fatalf("Processing failed with err: %v", err)
		}
		if len(outputs) != 1 {
			t.Fatalf("Expected a single output, got %v", outputs)
		}

		text := outputs[0].Text
		if strings.Contains(text, "$this->x") {
			t.Errorf("Expected the typed private property to be renamed:\n%s", text)
		}
		for _, kept := range []string{"private int $", "match", "fn(", "?->f("} {
			if !strings.Contains(text, kept) {
				t.Errorf("Expected %q to be kept:\n%s", kept, text)
			}
		}
		if _, err := parsing.Parse([]byte(text)); err != nil {
			t.Errorf("Output in %s format failed to parse: %v", format, err)
		}
	}
}

func TestProcessOutputParsesInEveryMode(t *testing.T) {
	for _, mode := range New(config.View{}).Renamers().Modes() {
		b := newBuilder(map[string]interface{}{
			"preprocessing": map[string]interface{}{
				"renaming": map[string]interface{}{
					"local-variable":   mode,
					"private-property": mode,
					"private-method":   mode,
					"private-const":    mode,
				},
				"importing": map[string]interface{}{
					"renaming": mode,
				},
			},
		})
		outputs, err := b.Process("src/Counter.php", readFixture(t, "Counter.php"))
		if err != nil {
			t.Fatalf("Processing in %s mode failed with err: %v", mode, err)
		}
		for _, output := range outputs {
			if strings.Contains(output.Text, "$this->count") {
				t.Errorf("Expected the private property to be renamed in %s mode", mode)
			}
			if _, err := parsing.Parse([]byte(output.Text)); err != nil {
				t.Errorf("Output in %s mode failed to parse: %v\n%s", mode, err, output.Text)
			}
		}
	}
}

func TestProcessWithoutSplit(t *testing.T) {
	outputs, err := newBuilder(nil).Process("src/Acme/Shop/Main.php", readFixture(t, "plugin/src/Acme/Shop/Main.php"))
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 1 || outputs[0].Path != "src/Acme/Shop/Main.php" {
		t.Fatalf("Expected a single output named after the file, got %v", outputs)
	}
	if _, err := parsing.Parse([]byte(outputs[0].Text)); err != nil {
		t.Errorf("Output failed to parse: %v", err)
	}
}

func TestProcessSplits(t *testing.T) {
	outputs, err := newBuilder(nil).Process("src/Shapes.php", readFixture(t, "Shapes.php"))
	if err != nil {
		t.Fatal(err)
	}

	var paths []string
	for _, output := range outputs {
		paths = append(paths, output.Path)
		if _, err := parsing.Parse([]byte(output.Text)); err != nil {
			t.Errorf("Output %s failed to parse: %v", output.Path, err)
		}
	}
	expected := []string{"src/Shape.php", "src/Circle.php", "src/Named.php", "src/Kind.php"}
	if !reflect.DeepEqual(paths, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, paths)
	}

	split := newBuilder(map[string]interface{}{
		"preprocessing": map[string]interface{}{"spliting": false},
	})
	if outputs, _ := split.Process("src/Shapes.php", readFixture(t, "Shapes.php")); len(outputs) != 1 {
		t.Errorf("Expected splitting to be disabled, got %d outputs", len(outputs))
	}
}

func TestBuildSkipsBrokenFiles(t *testing.T) {
	inputs := []Input{
		{Path: "src/Counter.php", Data: readFixture(t, "Counter.php")},
		{Path: "src/Broken.php", Data: readFixture(t, "Broken.php")},
		{Path: "src/Main.php", Data: readFixture(t, "plugin/src/Acme/Shop/Main.php")},
		{Path: "resources/config.yml", Data: []byte("limit: 10\n")},
	}

	sink := MemorySink{}
	report, err := newBuilder(nil).Build(context.Background(), inputs, sink)
	if err != nil {
		t.Fatal(err)
	}

	expected := Report{
		Processed: []string{"src/Counter.php", "src/Main.php"},
		Outputs:   []string{"src/Counter.php", "src/Main.php"},
		Skipped:   []string{"src/Broken.php"},
		Copied:    []string{"resources/config.yml"},
	}
	if !reflect.DeepEqual(report, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, report)
	}
	if _, ok := sink["src/Broken.php"]; ok {
		t.Errorf("Expected the broken file to not be written")
	}
	if sink["resources/config.yml"] != "limit: 10\n" {
		t.Errorf("Expected resources to be copied unchanged, got %q", sink["resources/config.yml"])
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	inputs, err := DirSource("../testfiles/plugin", false)
	if err != nil {
		t.Fatal(err)
	}

	sequential := MemorySink{}
	sequentialReport, err := newBuilder(nil).Build(context.Background(), inputs, sequential)
	if err != nil {
		t.Fatal(err)
	}

	b := newBuilder(nil)
	b.Options.Jobs = 4
	parallel := MemorySink{}
	parallelReport, err := b.Build(context.Background(), inputs, parallel)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(sequentialReport, parallelReport) {
		t.Errorf("Expected: %v, Actual: %v", sequentialReport, parallelReport)
	}
	if !reflect.DeepEqual(sequential, parallel) {
		t.Errorf("Expected parallel builds to print the same files")
	}
}

type failingSink struct {
	MemorySink
}

var errDiskFull = errors.New("disk full")

func (failingSink) WriteSource(string, string) error {
	return errDiskFull
}

func TestBuildStopsOnSinkFailure(t *testing.T) {
	inputs := []Input{{Path: "src/Main.php", Data: readFixture(t, "plugin/src/Acme/Shop/Main.php")}}
	_, err := newBuilder(nil).Build(context.Background(), inputs, failingSink{MemorySink{}})
	if !errors.Is(err, errDiskFull) {
		t.Errorf("Expected: %v, Actual: %v", errDiskFull, err)
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []Input{{Path: "src/Main.php", Data: readFixture(t, "plugin/src/Acme/Shop/Main.php")}}
	for _, jobs := range []int{1, 4} {
		b := newBuilder(nil)
		b.Options.Jobs = jobs
		if _, err := b.Build(ctx, inputs, MemorySink{}); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected: %v, Actual: %v", context.Canceled, err)
		}
	}
}

func TestDirSource(t *testing.T) {
	paths := func(inputs []Input) []string {
		var paths []string
		for _, input := range inputs {
			paths = append(paths, input.Path)
		}
		return paths
	}

	minimal, err := DirSource("../testfiles/plugin", true)
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{
		"plugin.yml",
		"resources/config.yml",
		"src/Acme/Shop/Counter.php",
		"src/Acme/Shop/Main.php",
	}
	if !reflect.DeepEqual(paths(minimal), expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, paths(minimal))
	}

	everything, err := DirSource("../testfiles/plugin", false)
	if err != nil {
		t.Fatal(err)
	}
	expected = append([]string{"README.md"}, expected...)
	if !reflect.DeepEqual(paths(everything), expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, paths(everything))
	}
}

func TestDirSourceExclude(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"plugin.yml", "src/Main.php", "out/Plugin_v1.phar", "out/build/src/Main.php"} {
		file := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(file, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	inputs, err := DirSource(root, false, filepath.Join(root, "out"))
	if err != nil {
		t.Fatal(err)
	}
	var paths []string
	for _, input := range inputs {
		paths = append(paths, input.Path)
	}
	expected := []string{"plugin.yml", "src/Main.php"}
	if !reflect.DeepEqual(paths, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, paths)
	}
}

func TestDirSink(t *testing.T) {
	root := t.TempDir()
	sink := DirSink{Root: root}
	if err := sink.WriteSource("src/A/B.php", "<?php\n"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(root, "src", "A", "B.php"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<?php\n" {
		t.Errorf("Expected: %v, Actual: %v", "<?php\n", string(data))
	}
}
