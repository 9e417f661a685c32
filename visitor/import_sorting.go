package visitor

import (
	"sort"
	"strings"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// ImportSorting sorts imports by kind, and then by their full name. Imports
// separated by a blank line are sorted separately, and the groups themselves
// are ordered by their first import
type ImportSorting struct {
	Base
}

func NewImportSorting() *ImportSorting {
	return &ImportSorting{}
}

func (v *ImportSorting) BeforeTraverse(stmts []phpast.Stmt) []phpast.Stmt {
	return sortImports(stmts)
}

func (v *ImportSorting) EnterNode(node phpast.Node) Result {
	if ns, ok := node.(*phpast.Namespace); ok {
		ns.Stmts = sortImports(ns.Stmts)
		return ReplaceWith(ns)
	}
	return NoChange
}

// importLess orders imports by kind, then by their lowercase full name, then
// by the exact full name. Aliases are never compared
func importLess(aKind phpast.UseKind, a string, bKind phpast.UseKind, b string) bool {
	if aKind != bKind {
		return aKind < bKind
	}
	if la, lb := strings.ToLower(a), strings.ToLower(b); la != lb {
		return la < lb
	}
	return a < b
}

func useLess(a, b *phpast.Use) bool {
	if len(a.Uses) == 0 || len(b.Uses) == 0 {
		return len(a.Uses) < len(b.Uses)
	}
	return importLess(a.Kind, a.Uses[0].Name, b.Kind, b.Uses[0].Name)
}

func sortImports(stmts []phpast.Stmt) []phpast.Stmt {
	first, last := importBlock(stmts)
	if first == -1 {
		return stmts
	}

	// Runs of imports that are directly next to each other
	var runs [][]*phpast.Use
	var run []*phpast.Use
	onlyImports := true
	for ind := first; ind <= last+1; ind++ {
		if ind <= last {
			if use, ok := stmts[ind].(*phpast.Use); ok {
				sort.SliceStable(use.Uses, func(i, j int) bool {
					return importLess(use.Kind, use.Uses[i].Name, use.Kind, use.Uses[j].Name)
				})
				run = append(run, use)
				continue
			}
			if _, ok := stmts[ind].(*phpast.Blank); !ok {
				onlyImports = false
			}
		}
		if len(run) > 0 {
			sort.SliceStable(run, func(i, j int) bool {
				return useLess(run[i], run[j])
			})
			runs = append(runs, run)
			run = nil
		}
	}

	if !onlyImports {
		// Other statements stay where they are, along with the runs around them
		ind := first
		for _, run := range runs {
			for ind <= last {
				if _, ok := stmts[ind].(*phpast.Use); ok {
					break
				}
				ind++
			}
			for _, use := range run {
				stmts[ind] = use
				ind++
			}
		}
		return stmts
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return useLess(runs[i][0], runs[j][0])
	})

	block := make([]phpast.Stmt, 0, last-first+1)
	for ind, run := range runs {
		if ind > 0 {
			block = append(block, &phpast.Blank{})
		}
		for _, use := range run {
			block = append(block, use)
		}
	}

	result := make([]phpast.Stmt, 0, len(stmts))
	result = append(result, stmts[:first]...)
	result = append(result, block...)
	return append(result, stmts[last+1:]...)
}
