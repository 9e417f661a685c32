package symbol

import (
	"fmt"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// Kind is the kind of thing that a definition names
type Kind uint8

const (
	KindClass Kind = iota
	KindProperty
	KindMethod
	KindConstant
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindConstant:
		return "constant"
	case KindVariable:
		return "variable"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Definition represents the name and visibility of a single symbol
type Definition struct {
	// The name as it was written in the source
	OriginalName string
	// The display name of the definition, may be different from the original name
	Name      string
	Kind      Kind
	Modifiers phpast.Modifier
	// If the property was declared through a promoted constructor parameter
	Promoted bool
}

func newDefinition(name string, kind Kind, modifiers phpast.Modifier) *Definition {
	return &Definition{OriginalName: name, Name: name, Kind: kind, Modifiers: modifiers}
}

func (d Definition) String() string {
	if d.OriginalName != d.Name {
		return fmt.Sprintf("Name: %s (Was %s) Kind: %s", d.Name, d.OriginalName, d.Kind)
	}
	return fmt.Sprintf("Name: %s Kind: %s", d.Name, d.Kind)
}

// Rename changes the display name of a definition
func (d *Definition) Rename(name string) {
	d.Name = name
}

// IsPrivate reports whether the definition can only be seen from inside its
// declaring class
func (d Definition) IsPrivate() bool {
	return d.Modifiers.IsPrivate()
}
