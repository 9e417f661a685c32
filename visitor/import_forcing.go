package visitor

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/keywords"
	"github.com/NickyBoy89/pharbuild/phpast"
	"github.com/NickyBoy89/pharbuild/symbol"
)

// opaqueClass marks a local name that is used in ways the tree does not model,
// which no import can be added for
const opaqueClass = "\x00"

// ImportForcing replaces fully qualified class names with imports, such that
// `new \A\B\C()` becomes `new C()` along with `use A\B\C;`
type ImportForcing struct {
	opaque map[string]bool

	// Class names bound in the current namespace, lowercase local name to
	// lowercase full name
	used map[string]string
	// Imports to add to the current namespace
	added []*phpast.UseClause
	scope *symbol.NamespaceScope
}

func NewImportForcing() *ImportForcing {
	return &ImportForcing{}
}

func (v *ImportForcing) BeforeTraverse(stmts []phpast.Stmt) []phpast.Stmt {
	v.opaque = OpaqueWords(stmts)
	v.enterScope(symbol.NewNamespaceScope("", stmts), stmts)
	return nil
}

// enterScope collects every class name that is already bound in a namespace
func (v *ImportForcing) enterScope(scope *symbol.NamespaceScope, stmts []phpast.Stmt) {
	v.scope = scope
	v.added = nil
	v.used = make(map[string]string)

	for word := range v.opaque {
		v.used[strings.ToLower(word)] = opaqueClass
	}
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *phpast.Namespace:
			continue
		case *phpast.Use:
			if stmt.Kind == phpast.UseNormal {
				for _, clause := range stmt.Uses {
					v.used[strings.ToLower(clause.Local())] = strings.ToLower(clause.Name)
				}
			}
		case *phpast.Class:
			v.used[strings.ToLower(stmt.Name)] = strings.ToLower(scope.Qualify(stmt.Name))
		}
		inspectNode(stmt, func(node phpast.Node) {
			name, ok := node.(*phpast.Name)
			if !ok || name.FullyQualified() || name.Relative() || name.Special() {
				return
			}
			if name.Kind != phpast.NameClass && !name.Qualified() {
				return
			}
			local := strings.ToLower(name.First())
			if _, ok := v.used[local]; ok {
				return
			}
			if name.Qualified() {
				// Bound through an import, or relative to the namespace
				first := &phpast.Name{Value: name.First(), Kind: phpast.NameClass}
				full, _ := scope.Resolve(first)
				v.used[local] = strings.ToLower(full)
				return
			}
			full, _ := scope.Resolve(name)
			v.used[local] = strings.ToLower(full)
		})
	}
}

func (v *ImportForcing) EnterNode(node phpast.Node) Result {
	switch n := node.(type) {
	case *phpast.Namespace:
		v.enterScope(symbol.NewNamespaceScope(n.Name, n.Stmts), n.Stmts)
	case *phpast.Name:
		if n.Kind != phpast.NameClass || !n.FullyQualified() {
			return NoChange
		}
		full := n.Value[1:]
		local := phpast.LastSegment(full)
		if v.scope.Name == "" && !strings.Contains(full, `\`) {
			return NoChange
		}
		if keywords.IsBuiltinType(local) || keywords.IsReserved(local) {
			return NoChange
		}

		bound, ok := v.used[strings.ToLower(local)]
		switch {
		case ok && bound != strings.ToLower(full):
			log.WithField("name", full).Debug("Name is already bound to another class, keeping it qualified")
			return NoChange
		case !ok:
			v.used[strings.ToLower(local)] = strings.ToLower(full)
			v.added = append(v.added, &phpast.UseClause{Name: full})
		}
		n.Value = local
		return ReplaceWith(n)
	}
	return NoChange
}

func (v *ImportForcing) LeaveNode(node phpast.Node) Result {
	ns, ok := node.(*phpast.Namespace)
	if !ok {
		return NoChange
	}
	added := len(v.added) > 0
	ns.Stmts = insertImports(ns.Stmts, v.added, false)
	v.added = nil
	if added {
		return ReplaceWith(ns)
	}
	return NoChange
}

func (v *ImportForcing) AfterTraverse(stmts []phpast.Stmt) []phpast.Stmt {
	if len(v.added) == 0 {
		return nil
	}
	return insertImports(stmts, v.added, true)
}

// insertImports adds a use statement for every clause, after the last class
// import of the list. Function and constant imports are grouped after class
// imports, so without any class import the clauses go before the first
// import. Lists without imports get them at the start, after any directives
// at the top of the file
func insertImports(stmts []phpast.Stmt, clauses []*phpast.UseClause, global bool) []phpast.Stmt {
	if len(clauses) == 0 {
		return stmts
	}

	at, firstUse := -1, -1
	for ind, stmt := range stmts {
		use, ok := stmt.(*phpast.Use)
		if !ok {
			continue
		}
		if firstUse == -1 {
			firstUse = ind
		}
		if use.Kind == phpast.UseNormal {
			at = ind + 1
		}
	}
	if at == -1 {
		at = firstUse
	}
	if at == -1 {
		at = 0
		for global && at < len(stmts) && isPreamble(stmts[at]) {
			at++
		}
	}

	uses := make([]phpast.Stmt, len(clauses))
	for ind, clause := range clauses {
		uses[ind] = &phpast.Use{Kind: phpast.UseNormal, Uses: []*phpast.UseClause{clause}}
	}

	result := make([]phpast.Stmt, 0, len(stmts)+len(uses))
	result = append(result, stmts[:at]...)
	result = append(result, uses...)
	return append(result, stmts[at:]...)
}

func isPreamble(stmt phpast.Stmt) bool {
	switch stmt.(type) {
	case *phpast.Declare, *phpast.InlineHTML:
		return true
	}
	return false
}
