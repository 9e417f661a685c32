package nodeutil

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// AssertTypeIs returns an error if the node is not of the expected type
func AssertTypeIs(node *sitter.Node, expectedType string) error {
	if node == nil {
		return fmt.Errorf("assertion failed: expected node of type %s, got nothing", expectedType)
	}
	if node.Type() != expectedType {
		return fmt.Errorf("assertion failed: Type of node differs from expected: %s, got: %s", expectedType, node.Type())
	}
	return nil
}

// FindErrorNode returns the first node in the tree that the parser could not
// make sense of, either an `ERROR` node or a node it had to insert
func FindErrorNode(root *sitter.Node) *sitter.Node {
	if !root.HasError() {
		return nil
	}
	if root.Type() == "ERROR" || root.IsMissing() {
		return root
	}
	for i := 0; i < int(root.ChildCount()); i++ {
		if found := FindErrorNode(root.Child(i)); found != nil {
			return found
		}
	}
	return root
}
