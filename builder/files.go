package builder

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// Input is a file of the plugin being built, with a slash-separated path
// relative to the plugin's root
type Input struct {
	Path string
	Data []byte
}

// minimalEntries are the parts of a plugin needed to run it
var minimalEntries = []string{"plugin.yml", "src/", "resources/"}

func isMinimal(rel string) bool {
	for _, entry := range minimalEntries {
		if rel == entry || (strings.HasSuffix(entry, "/") && strings.HasPrefix(rel, entry)) {
			return true
		}
	}
	return false
}

// DirSource reads every file under the root, sorted by path. In minimal mode,
// only the plugin's manifest, sources, and resources are read. Excluded
// directories, such as the build output, are never walked
func DirSource(root string, minimal bool, exclude ...string) ([]Input, error) {
	excluded := make(map[string]bool)
	for _, dir := range exclude {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		excluded[abs] = true
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path == root || len(excluded) == 0 {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if excluded[abs] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if minimal && !isMinimal(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	inputs := make([]Input, 0, len(paths))
	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, Input{Path: rel, Data: data})
	}
	return inputs, nil
}

// Sink receives the results of a build
type Sink interface {
	WriteSource(path, text string) error
	CopyFile(path string, data []byte) error
}

// DirSink writes the results of a build under a directory
type DirSink struct {
	Root string
}

func (s DirSink) write(path string, data []byte) error {
	target := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (s DirSink) WriteSource(path, text string) error {
	return s.write(path, []byte(text))
}

func (s DirSink) CopyFile(path string, data []byte) error {
	return s.write(path, data)
}

// MemorySink keeps the results of a build in memory, keyed by path
type MemorySink map[string]string

func (s MemorySink) WriteSource(path, text string) error {
	s[path] = text
	return nil
}

func (s MemorySink) CopyFile(path string, data []byte) error {
	s[path] = string(data)
	return nil
}
