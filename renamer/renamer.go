// Package renamer generates replacement names for identifiers.
//
// A Renamer remembers every name it has generated a pseudonym for, so that a
// declaration and all of its usages end up with the same new name. Pseudonyms
// are always valid PHP labels, and never collide with each other, with a PHP
// keyword, or with any name reserved through Reserve.
package renamer

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/keywords"
)

type Renamer interface {
	// Init forgets every generated pseudonym and reservation
	Init()
	// Generate assigns a pseudonym to the name, if it does not have one yet
	Generate(name string)
	// Rename returns the pseudonym for the name, or false if the name was
	// never generated
	Rename(name string) (string, bool)
	// Reserve marks names that must never be used as a pseudonym
	Reserve(names ...string)
}

// mapping holds the state that every strategy shares
type mapping struct {
	names map[string]string
	// Pseudonyms already handed out, along with reserved names
	used map[string]bool
	// Set when names that only differ in case collide
	fold bool
}

// FoldCase makes the renamer treat pseudonyms that only differ in case as
// the same name, the way PHP compares class, function, and method names.
// It lasts across calls to Init
func FoldCase(r Renamer) {
	if folder, ok := r.(interface{ foldCase() }); ok {
		folder.foldCase()
	}
}

func (m *mapping) foldCase() {
	m.fold = true
	for name := range m.used {
		m.used[strings.ToLower(name)] = true
	}
}

func (m *mapping) key(name string) string {
	if m.fold {
		return strings.ToLower(name)
	}
	return name
}

func (m *mapping) Init() {
	m.names = make(map[string]string)
	m.used = make(map[string]bool)
}

func (m *mapping) Rename(name string) (string, bool) {
	pseudonym, ok := m.names[name]
	return pseudonym, ok
}

func (m *mapping) Reserve(names ...string) {
	if m.used == nil {
		m.Init()
	}
	for _, name := range names {
		m.used[m.key(name)] = true
	}
}

// generate assigns the first candidate that is free to the name. Candidates
// are requested with an increasing attempt number, starting at zero
func (m *mapping) generate(name string, candidate func(attempt int) string) {
	if m.names == nil {
		m.Init()
	}
	if _, ok := m.names[name]; ok {
		return
	}
	for attempt := 0; ; attempt++ {
		pseudonym := candidate(attempt)
		if m.taken(pseudonym) {
			continue
		}
		m.names[name] = pseudonym
		m.used[m.key(pseudonym)] = true
		return
	}
}

func (m *mapping) taken(pseudonym string) bool {
	return m.used[m.key(pseudonym)] || keywords.IsReserved(pseudonym) || keywords.IsBuiltinType(pseudonym)
}
