// Package config reads the build configuration, a tree of nested maps keyed by
// dotted paths such as `preprocessing.renaming.local-variable`
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// View answers lookups into a configuration tree. Lookups never fail: a
// missing key, or a value of the wrong type, gives back the default
type View struct {
	root interface{}
}

// FromMap wraps an already decoded configuration tree
func FromMap(root map[string]interface{}) View {
	return View{root: root}
}

// Load reads a YAML or TOML file, depending on its extension
func Load(path string) (View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return View{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		var root map[interface{}]interface{}
		if err := yaml.Unmarshal(data, &root); err != nil {
			return View{}, fmt.Errorf("%s: %w", path, err)
		}
		return View{root: root}, nil
	case ".toml":
		var root map[string]interface{}
		if _, err := toml.Decode(string(data), &root); err != nil {
			return View{}, fmt.Errorf("%s: %w", path, err)
		}
		return View{root: root}, nil
	}
	return View{}, fmt.Errorf("%s: unsupported configuration format", path)
}

// lookup follows a dotted path through the tree
func (v View) lookup(key string) (interface{}, bool) {
	current := v.root
	for _, part := range strings.Split(key, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[interface{}]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func (v View) Bool(key string, def bool) bool {
	value, ok := v.lookup(key)
	if !ok {
		return def
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return def
}

func (v View) String(key string, def string) string {
	value, ok := v.lookup(key)
	if !ok {
		return def
	}
	if s, ok := value.(string); ok {
		return s
	}
	return def
}

// Sub returns the view rooted at the key, which is empty if the key does not
// name a table
func (v View) Sub(key string) View {
	value, ok := v.lookup(key)
	if !ok {
		return View{}
	}
	return View{root: value}
}
