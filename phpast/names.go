package phpast

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/keywords"
)

type NameKind uint8

const (
	NameClass NameKind = iota
	NameFunction
	NameConstant
)

// Name is a reference to a class, function, or constant by name, exactly as
// written in the source
// Ex: Foo, Foo\Bar, \Foo\Bar, namespace\Foo
type Name struct {
	Value string
	Kind  NameKind
}

// FullyQualified reports whether the name starts with a backslash
func (n *Name) FullyQualified() bool {
	return strings.HasPrefix(n.Value, `\`)
}

// Relative reports whether the name is relative to the current namespace,
// with the `namespace\` prefix
func (n *Name) Relative() bool {
	return len(n.Value) > len(`namespace\`) && strings.EqualFold(n.Value[:len(`namespace\`)], `namespace\`)
}

// Qualified reports whether the name contains a namespace separator, but is
// not fully qualified
func (n *Name) Qualified() bool {
	return !n.FullyQualified() && strings.Contains(n.Value, `\`)
}

// First returns the first segment of the name
func (n *Name) First() string {
	first, _, _ := strings.Cut(strings.TrimPrefix(n.Value, `\`), `\`)
	return first
}

// Rest returns everything after the first segment, including the leading
// separator, or an empty string for single-segment names
func (n *Name) Rest() string {
	_, rest, found := strings.Cut(strings.TrimPrefix(n.Value, `\`), `\`)
	if !found {
		return ""
	}
	return `\` + rest
}

// Last returns the final segment of the name
func (n *Name) Last() string {
	return LastSegment(n.Value)
}

// Special reports whether the name is a builtin type or a special class name
// (self, parent, static), which never resolve through imports
func (n *Name) Special() bool {
	return n.Kind == NameClass && !strings.Contains(n.Value, `\`) && keywords.IsBuiltinType(n.Value)
}

// LastSegment returns the final segment of a namespaced name
func LastSegment(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// FirstSegment returns the first segment of a namespaced name, ignoring any
// leading backslash
func FirstSegment(name string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(name, `\`), `\`)
	return first
}

// Local returns the name the clause makes available in the file
func (u *UseClause) Local() string {
	if u.Alias != "" {
		return u.Alias
	}
	return LastSegment(u.Name)
}

// TypeHint is a parameter, return, or property type. Union and intersection
// types list their members in Types, joined by Separator. Types that the tree
// does not model (such as DNF types) are kept in Raw
type TypeHint struct {
	Nullable  bool
	Types     []*Name
	Separator string
	Raw       string
}

// Modifier is a set of member and class modifiers
type Modifier uint8

const (
	ModPublic Modifier = 1 << iota
	ModProtected
	ModPrivate
	ModStatic
	ModAbstract
	ModFinal
	ModReadonly
	// `var`, the legacy way of declaring a public property
	ModVar
)

// ModifierFromKeyword converts a modifier keyword to its flag, returning 0
// for unknown keywords
func ModifierFromKeyword(keyword string) Modifier {
	switch strings.ToLower(keyword) {
	case "public":
		return ModPublic
	case "protected":
		return ModProtected
	case "private":
		return ModPrivate
	case "static":
		return ModStatic
	case "abstract":
		return ModAbstract
	case "final":
		return ModFinal
	case "readonly":
		return ModReadonly
	case "var":
		return ModVar
	}
	return 0
}

func (m Modifier) IsPrivate() bool {
	return m&ModPrivate != 0
}

func (m Modifier) IsStatic() bool {
	return m&ModStatic != 0
}

// Keywords lists the modifiers in the order they are printed
func (m Modifier) Keywords() []string {
	var words []string
	if m&ModVar != 0 && m&(ModPublic|ModProtected|ModPrivate) == 0 {
		words = append(words, "var")
	}
	for _, word := range keywords.NonAccessModifiers[:2] {
		if m&ModifierFromKeyword(word) != 0 {
			words = append(words, word)
		}
	}
	for _, word := range keywords.AccessModifiers {
		if m&ModifierFromKeyword(word) != 0 {
			words = append(words, word)
		}
	}
	for _, word := range keywords.NonAccessModifiers[2:] {
		if m&ModifierFromKeyword(word) != 0 {
			words = append(words, word)
		}
	}
	return words
}
