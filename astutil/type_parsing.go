package astutil

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/parsetools"
	"github.com/NickyBoy89/pharbuild/phpast"
	sitter "github.com/smacker/go-tree-sitter"
)

// ParseType converts a type node from the tree into a type hint
func ParseType(node *sitter.Node, source []byte) *phpast.TypeHint {
	switch node.Type() {
	case "optional_type":
		// Ex: ?Foo
		hint := ParseType(node.NamedChild(0), source)
		if hint.Raw != "" {
			return &phpast.TypeHint{Raw: node.Content(source)}
		}
		hint.Nullable = true
		return hint
	case "named_type", "primitive_type", "cast_type":
		return &phpast.TypeHint{Types: []*phpast.Name{typeName(node.Content(source))}}
	}
	// Union, intersection and normal form types share the same textual form
	return ParseTypeText(node.Content(source))
}

// ParseTypeText parses a type hint written as text
// Ex: ?Foo, int|string, A&B
func ParseTypeText(text string) *phpast.TypeHint {
	text = strings.TrimSpace(text)
	hint := &phpast.TypeHint{}

	// Disjunctive normal form types are kept exactly as written
	if strings.Contains(text, "(") {
		hint.Raw = text
		return hint
	}

	if strings.HasPrefix(text, "?") {
		hint.Nullable = true
		text = strings.TrimSpace(text[1:])
	}

	for _, separator := range []string{"|", "&"} {
		if strings.Contains(text, separator) {
			hint.Separator = separator
			for _, part := range parsetools.SplitTopLevel(text, separator[0]) {
				hint.Types = append(hint.Types, typeName(part))
			}
			return hint
		}
	}

	hint.Types = []*phpast.Name{typeName(text)}
	return hint
}

func typeName(text string) *phpast.Name {
	return &phpast.Name{Value: strings.TrimSpace(text), Kind: phpast.NameClass}
}
