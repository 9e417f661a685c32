package symbol

import (
	"github.com/NickyBoy89/pharbuild/phpast"
)

// ScopeStack tracks which namespace a traversal is currently inside of.
// Namespaces never nest, so leaving one always returns to the global scope
type ScopeStack struct {
	global  *NamespaceScope
	current *NamespaceScope
}

// NewScopeStack starts in the global scope of the given tree
func NewScopeStack(stmts []phpast.Stmt) *ScopeStack {
	global := NewNamespaceScope("", stmts)
	return &ScopeStack{global: global, current: global}
}

func (s *ScopeStack) Enter(ns *phpast.Namespace) *NamespaceScope {
	s.current = NewNamespaceScope(ns.Name, ns.Stmts)
	return s.current
}

func (s *ScopeStack) Leave() {
	s.current = s.global
}

func (s *ScopeStack) Current() *NamespaceScope {
	return s.current
}
