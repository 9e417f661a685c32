package config

import (
	"os"
	"path/filepath"
	"testing"
)

const yamlConfig = `
preprocessing:
  comment-optimizing: false
  renaming:
    local-variable: shorten
    private-method: 12
  importing:
    renaming: resolve
build:
  print-format: shorten
`

const tomlConfig = `
[preprocessing]
comment-optimizing = false

[preprocessing.renaming]
local-variable = "shorten"
private-method = 12

[preprocessing.importing]
renaming = "resolve"

[build]
print-format = "shorten"
`

func writeConfig(t *testing.T, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func checkView(t *testing.T, view View) {
	if view.Bool("preprocessing.comment-optimizing", true) {
		t.Errorf("Expected comment optimizing to be disabled")
	}
	if mode := view.String("preprocessing.renaming.local-variable", "serial"); mode != "shorten" {
		t.Errorf("Expected: %v, Actual: %v", "shorten", mode)
	}
	// Mistyped values give back the default
	if mode := view.String("preprocessing.renaming.private-method", "serial"); mode != "serial" {
		t.Errorf("Expected: %v, Actual: %v", "serial", mode)
	}
	if mode := view.String("preprocessing.renaming.private-const", "serial"); mode != "serial" {
		t.Errorf("Expected: %v, Actual: %v", "serial", mode)
	}
	if !view.Bool("preprocessing.spliting", true) {
		t.Errorf("Expected missing keys to give back the default")
	}
	// A path through a scalar is missing too
	if !view.Bool("build.print-format.nested", true) {
		t.Errorf("Expected a path through a scalar to give back the default")
	}
	if mode := view.Sub("preprocessing.importing").String("renaming", "serial"); mode != "resolve" {
		t.Errorf("Expected: %v, Actual: %v", "resolve", mode)
	}
}

func TestLoadYAML(t *testing.T) {
	view, err := Load(writeConfig(t, "config.yml", yamlConfig))
	if err != nil {
		t.Fatalf("Loading config failed with err: %v", err)
	}
	checkView(t, view)
}

func TestLoadTOML(t *testing.T) {
	view, err := Load(writeConfig(t, "config.toml", tomlConfig))
	if err != nil {
		t.Fatalf("Loading config failed with err: %v", err)
	}
	checkView(t, view)
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load(writeConfig(t, "config.json", "{}")); err == nil {
		t.Errorf("Expected an error for an unsupported format")
	}
}

func TestEmptyView(t *testing.T) {
	var view View
	if view.String("build.print-format", "standard") != "standard" || !view.Bool("build.include-minimal", true) {
		t.Errorf("Expected an empty view to give back defaults")
	}

	view = FromMap(map[string]interface{}{
		"build": map[string]interface{}{"skip-stub": false},
	})
	if view.Bool("build.skip-stub", true) {
		t.Errorf("Expected skip-stub to be read from the map")
	}
}
