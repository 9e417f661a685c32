package parsing

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/nodeutil"
	"github.com/NickyBoy89/pharbuild/phpast"
	sitter "github.com/smacker/go-tree-sitter"
)

// namedChildren returns the named children of a node, without comments
func namedChildren(node *sitter.Node) []*sitter.Node {
	var children []*sitter.Node
	for _, child := range nodeutil.Children(node) {
		if child.Type() != "comment" {
			children = append(children, child)
		}
	}
	return children
}

func firstNamed(node *sitter.Node) *sitter.Node {
	if children := namedChildren(node); len(children) > 0 {
		return children[0]
	}
	return nil
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// cleanName removes any whitespace from a name
// Ex: `Foo \ Bar` -> `Foo\Bar`
func cleanName(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// parseExprSequence flattens comma-separated expressions, as they appear in
// `for` clauses and `echo` statements
func parseExprSequence(node *sitter.Node, source []byte) []phpast.Expr {
	if node.Type() != "sequence_expression" {
		return []phpast.Expr{ParseExpr(node, source)}
	}
	var exprs []phpast.Expr
	for _, child := range namedChildren(node) {
		exprs = append(exprs, parseExprSequence(child, source)...)
	}
	return exprs
}

// modifiersOf collects every modifier of a declaration, whether the grammar
// wraps them in `*_modifier` nodes or keeps them as keyword tokens
func modifiersOf(node *sitter.Node, source []byte) phpast.Modifier {
	var mods phpast.Modifier
	for _, child := range nodeutil.UnnamedChildren(node) {
		if child.IsNamed() && !strings.HasSuffix(child.Type(), "_modifier") {
			continue
		}
		mods |= phpast.ModifierFromKeyword(strings.TrimSpace(child.Content(source)))
	}
	return mods
}

// attributesOf joins every attribute group of a declaration
func attributesOf(node *sitter.Node, source []byte) string {
	var groups []string
	for _, child := range nodeutil.ChildrenOfType(node, "attribute_list") {
		groups = append(groups, child.Content(source))
	}
	return strings.Join(groups, " ")
}

func isTypeNode(node *sitter.Node) bool {
	switch node.Type() {
	case "union_type", "intersection_type", "optional_type", "named_type",
		"primitive_type", "disjunctive_normal_form_type", "bottom_type", "type":
		return true
	}
	return false
}

// returnTypeOf finds the type that follows the `:` in a function header
func returnTypeOf(node *sitter.Node, source []byte) *sitter.Node {
	if returnType := node.ChildByFieldName("return_type"); returnType != nil {
		return returnType
	}
	var afterColon bool
	for _, child := range nodeutil.UnnamedChildren(node) {
		if child.Type() == ":" {
			afterColon = true
			continue
		}
		if afterColon && isTypeNode(child) {
			return child
		}
	}
	return nil
}

// hasReference reports whether the function-like node returns by reference
func hasReference(node *sitter.Node) bool {
	for _, child := range nodeutil.UnnamedChildren(node) {
		switch child.Type() {
		case "&", "reference_modifier":
			return true
		case "formal_parameters":
			return false
		}
	}
	return false
}
