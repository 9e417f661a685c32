package symbol

import "strings"

// Finder represents an object that can search through its contents for a given
// list of definitions that match a certian criteria
type Finder interface {
	By(criteria func(d *Definition) bool) []*Definition
	ByName(name string) []*Definition
	ByOriginalName(originalName string) []*Definition
}

// definitionFinder searches a list of definitions. Method names are compared
// case-insensitively, like PHP does
type definitionFinder struct {
	definitions     []*Definition
	caseInsensitive bool
}

func (df definitionFinder) By(criteria func(d *Definition) bool) []*Definition {
	results := []*Definition{}
	for _, definition := range df.definitions {
		if criteria(definition) {
			results = append(results, definition)
		}
	}
	return results
}

func (df definitionFinder) ByName(name string) []*Definition {
	return df.By(func(d *Definition) bool {
		return df.equal(d.Name, name)
	})
}

func (df definitionFinder) ByOriginalName(originalName string) []*Definition {
	return df.By(func(d *Definition) bool {
		return df.equal(d.OriginalName, originalName)
	})
}

func (df definitionFinder) equal(a, b string) bool {
	if df.caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}
