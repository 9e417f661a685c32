package visitor

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/parsetools"
	"github.com/NickyBoy89/pharbuild/phpast"
)

// OpaqueWords collects every identifier that the tree mentions in a way that
// it does not model: the text of raw nodes, attributes, trait adaptations,
// raw type hints, strings that look like a name, and the variables and
// members read by interpolated strings
//
// A name in this set might be used in ways that a visitor can not see, so
// renaming it could break the program
func OpaqueWords(stmts []phpast.Stmt) map[string]bool {
	words := make(map[string]bool)
	addAll := func(source string) {
		for _, word := range parsetools.Identifiers(source) {
			words[word] = true
		}
	}

	Inspect(stmts, func(node phpast.Node) {
		switch n := node.(type) {
		case *phpast.RawStmt:
			addAll(n.Text)
		case *phpast.RawExpr:
			addAll(n.Text)
		case *phpast.TypeHint:
			addAll(n.Raw)
		case *phpast.TraitUse:
			addAll(n.Adaptations)
		case *phpast.Class:
			addAll(n.Attributes)
		case *phpast.Property:
			addAll(n.Attributes)
		case *phpast.ClassConst:
			addAll(n.Attributes)
		case *phpast.ClassMethod:
			addAll(n.Attributes)
		case *phpast.EnumCase:
			addAll(n.Attributes)
		case *phpast.Function:
			addAll(n.Attributes)
		case *phpast.Param:
			addAll(n.Attributes)
		case *phpast.Literal:
			switch n.Kind {
			case phpast.LitString, phpast.LitHeredoc:
				for _, word := range stringWords(n) {
					words[word] = true
				}
			}
		}
	})
	return words
}

// stringWords returns the names that a string literal could refer to
func stringWords(lit *phpast.Literal) []string {
	var words []string
	if IsInterpolated(lit) {
		words = parsetools.InterpolatedIdentifiers(lit.Value)
	}

	content := strings.TrimPrefix(lit.Value, "b")
	if len(content) < 2 || (content[0] != '\'' && content[0] != '"') {
		return words
	}
	content = content[1 : len(content)-1]
	// Ex: 'method', 'Foo::method', '$property'
	for _, part := range strings.Split(content, "::") {
		part = strings.TrimPrefix(part, "$")
		if parsetools.IsIdentifier(part) {
			words = append(words, part)
		}
	}
	return words
}

// IsInterpolated reports whether a string literal reads variables at runtime
func IsInterpolated(lit *phpast.Literal) bool {
	switch lit.Kind {
	case phpast.LitString:
		value := strings.TrimPrefix(lit.Value, "b")
		return strings.HasPrefix(value, `"`) && strings.Contains(value, "$")
	case phpast.LitHeredoc:
		// Nowdocs quote their label
		value := strings.TrimPrefix(strings.TrimPrefix(lit.Value, "b"), "<<<")
		return !strings.HasPrefix(strings.TrimLeft(value, " \t"), "'") &&
			strings.Contains(lit.Value, "$")
	}
	return false
}
