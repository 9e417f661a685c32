package nodeutil

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Children returns all the named children of a node
func Children(node *sitter.Node) []*sitter.Node {
	count := int(node.NamedChildCount())
	children := make([]*sitter.Node, count)
	for i := 0; i < count; i++ {
		children[i] = node.NamedChild(i)
	}
	return children
}

// UnnamedChildren returns every child of a node, including the anonymous
// tokens such as keywords and punctuation
func UnnamedChildren(node *sitter.Node) []*sitter.Node {
	count := int(node.ChildCount())
	children := make([]*sitter.Node, count)
	for i := 0; i < count; i++ {
		children[i] = node.Child(i)
	}
	return children
}

// ChildrenOfType returns the named children with the given type
func ChildrenOfType(node *sitter.Node, nodeType string) []*sitter.Node {
	var matched []*sitter.Node
	for _, child := range Children(node) {
		if child.Type() == nodeType {
			matched = append(matched, child)
		}
	}
	return matched
}

// FirstChildOfType returns the first named child with the given type, or nil
func FirstChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for _, child := range Children(node) {
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// HasToken reports whether any of the node's direct children, named or not,
// is the given token
func HasToken(node *sitter.Node, token string) bool {
	for _, child := range UnnamedChildren(node) {
		if child.Type() == token {
			return true
		}
	}
	return false
}
