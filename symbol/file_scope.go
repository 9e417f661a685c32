package symbol

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// FileScope represents every class-like declared in a single syntax tree
type FileScope struct {
	Classes []*ClassScope
	// Member names that code outside of their declaring class can reach,
	// keyed by kind. Method names are lowercase
	exposed map[Kind]map[string]bool
}

// FindClass searches for a class-like by name, ignoring case
func (fs *FileScope) FindClass(name string) *ClassScope {
	for _, class := range fs.Classes {
		if strings.EqualFold(class.Class.OriginalName, name) {
			return class
		}
	}
	return nil
}

// ClassOf returns the scope built for the given class node
func (fs *FileScope) ClassOf(node *phpast.Class) *ClassScope {
	for _, class := range fs.Classes {
		if class.Node == node {
			return class
		}
	}
	return nil
}

// IsExposed reports whether a member name is declared anywhere in the tree in
// a way that is not private to its class. Renaming an exposed name could
// break code that is not part of the tree
func (fs *FileScope) IsExposed(kind Kind, name string) bool {
	if kind == KindMethod {
		name = strings.ToLower(name)
	}
	return fs.exposed[kind][name]
}

func (fs *FileScope) expose(kind Kind, name string) {
	if kind == KindMethod {
		name = strings.ToLower(name)
	}
	if fs.exposed[kind] == nil {
		fs.exposed[kind] = make(map[string]bool)
	}
	fs.exposed[kind][name] = true
}
