package visitor

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// ImportGrouping splits every import into its own statement, and gathers them
// into groups that share their kind and their root namespace. Groups keep the
// order they first appear in, and are separated by a blank line
type ImportGrouping struct {
	Base
}

func NewImportGrouping() *ImportGrouping {
	return &ImportGrouping{}
}

func (v *ImportGrouping) BeforeTraverse(stmts []phpast.Stmt) []phpast.Stmt {
	return groupImports(stmts)
}

func (v *ImportGrouping) EnterNode(node phpast.Node) Result {
	if ns, ok := node.(*phpast.Namespace); ok {
		ns.Stmts = groupImports(ns.Stmts)
		return ReplaceWith(ns)
	}
	return NoChange
}

// importBlock finds the first and last import of a list, or -1 if the list
// has no imports
func importBlock(stmts []phpast.Stmt) (int, int) {
	first, last := -1, -1
	for ind, stmt := range stmts {
		if _, ok := stmt.(*phpast.Use); ok {
			if first == -1 {
				first = ind
			}
			last = ind
		}
	}
	return first, last
}

func groupImports(stmts []phpast.Stmt) []phpast.Stmt {
	first, last := importBlock(stmts)
	if first == -1 {
		return stmts
	}

	type group struct {
		kind    phpast.UseKind
		clauses []*phpast.UseClause
	}
	var groups []*group
	byKey := make(map[string]*group)
	// Statements mixed into the imports, such as comments
	var others []phpast.Stmt

	for _, stmt := range stmts[first : last+1] {
		switch stmt := stmt.(type) {
		case *phpast.Use:
			for _, clause := range stmt.Uses {
				key := string(rune('0'+stmt.Kind)) + strings.ToLower(phpast.FirstSegment(clause.Name))
				g, ok := byKey[key]
				if !ok {
					g = &group{kind: stmt.Kind}
					byKey[key] = g
					groups = append(groups, g)
				}
				g.clauses = append(g.clauses, clause)
			}
		case *phpast.Blank:
		default:
			others = append(others, stmt)
		}
	}

	block := make([]phpast.Stmt, 0, last-first+len(groups))
	for ind, g := range groups {
		if ind > 0 {
			block = append(block, &phpast.Blank{})
		}
		for _, clause := range g.clauses {
			block = append(block, &phpast.Use{Kind: g.kind, Uses: []*phpast.UseClause{clause}})
		}
	}

	result := make([]phpast.Stmt, 0, len(stmts)+len(groups))
	result = append(result, stmts[:first]...)
	result = append(result, block...)
	result = append(result, others...)
	return append(result, stmts[last+1:]...)
}
