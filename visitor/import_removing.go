package visitor

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/phpast"
	"github.com/NickyBoy89/pharbuild/symbol"
)

// ImportRemoving resolves every name to its fully qualified form, and then
// removes the imports that are no longer needed
//
// Unqualified function and constant names that are not imported fall back to
// the global namespace at runtime, and are left alone
type ImportRemoving struct {
	scopes *symbol.ScopeStack
	// Lowercase names that are used in ways the tree does not model
	opaque map[string]bool
}

func NewImportRemoving() *ImportRemoving {
	return &ImportRemoving{}
}

func (v *ImportRemoving) BeforeTraverse(stmts []phpast.Stmt) []phpast.Stmt {
	v.scopes = symbol.NewScopeStack(stmts)
	v.opaque = make(map[string]bool)
	for word := range OpaqueWords(stmts) {
		v.opaque[strings.ToLower(word)] = true
	}
	return nil
}

func (v *ImportRemoving) EnterNode(node phpast.Node) Result {
	switch n := node.(type) {
	case *phpast.Namespace:
		v.scopes.Enter(n)
	case *phpast.Use:
		var kept []*phpast.UseClause
		for _, clause := range n.Uses {
			if v.opaque[strings.ToLower(clause.Local())] {
				kept = append(kept, clause)
			}
		}
		if len(kept) == 0 {
			return RemoveNode
		}
		n.Uses = kept
		return ReplaceWith(n)
	case *phpast.Name:
		if n.FullyQualified() {
			return NoChange
		}
		if full, ok := v.scopes.Current().Resolve(n); ok {
			n.Value = `\` + full
			return ReplaceWith(n)
		}
	}
	return NoChange
}

func (v *ImportRemoving) LeaveNode(node phpast.Node) Result {
	if _, ok := node.(*phpast.Namespace); ok {
		v.scopes.Leave()
	}
	return NoChange
}

func (v *ImportRemoving) AfterTraverse([]phpast.Stmt) []phpast.Stmt {
	return nil
}
