// Package visitor walks syntax trees and rewrites them.
//
// A Visitor is run over a whole tree by Traverse. Every node is offered to
// the visitor twice, once before its children are visited and once after,
// and the visitor answers with a Result describing what should happen to the
// node.
package visitor

import (
	"github.com/NickyBoy89/pharbuild/phpast"
)

type action uint8

const (
	actionNone action = iota
	actionReplace
	actionRemove
)

// Result is a visitor's decision about a single node
type Result struct {
	action action
	node   phpast.Node
}

var (
	// NoChange leaves the node as it is
	NoChange = Result{}
	// RemoveNode removes the node from the list that holds it. Nodes that are
	// not held in a list can not be removed, and are kept
	RemoveNode = Result{action: actionRemove}
)

// ReplaceWith puts the given node in place of the visited one. Returning the
// visited node itself marks it as modified in place
func ReplaceWith(node phpast.Node) Result {
	return Result{action: actionReplace, node: node}
}

type Visitor interface {
	// BeforeTraverse is called with the whole tree before any node is visited.
	// A non-nil result replaces the tree
	BeforeTraverse(stmts []phpast.Stmt) []phpast.Stmt
	EnterNode(node phpast.Node) Result
	LeaveNode(node phpast.Node) Result
	// AfterTraverse is called once every node has been visited. A non-nil
	// result replaces the tree
	AfterTraverse(stmts []phpast.Stmt) []phpast.Stmt
}

// Base implements every method of Visitor without doing anything, to be
// embedded by visitors that only need some of them
type Base struct{}

func (Base) BeforeTraverse([]phpast.Stmt) []phpast.Stmt { return nil }
func (Base) EnterNode(phpast.Node) Result                { return NoChange }
func (Base) LeaveNode(phpast.Node) Result                { return NoChange }
func (Base) AfterTraverse([]phpast.Stmt) []phpast.Stmt  { return nil }
