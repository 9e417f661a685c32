package symbol

import (
	"github.com/NickyBoy89/pharbuild/phpast"
)

// ParseSymbols generates a symbol table for every class-like in a tree
func ParseSymbols(stmts []phpast.Stmt) *FileScope {
	scope := &FileScope{exposed: make(map[Kind]map[string]bool)}

	phpast.EachStmt(stmts, func(stmt phpast.Stmt) {
		class, ok := stmt.(*phpast.Class)
		if !ok {
			return
		}

		classScope := newClassScope(class)
		scope.Classes = append(scope.Classes, classScope)

		for _, kind := range []Kind{KindProperty, KindMethod, KindConstant} {
			for _, member := range classScope.Members(kind) {
				if isExposed(classScope, member) {
					scope.expose(kind, member.OriginalName)
				}
			}
		}
	})

	return scope
}

func isExposed(class *ClassScope, member *Definition) bool {
	switch {
	case !member.IsPrivate(), class.Shared:
		return true
	case member.Kind == KindProperty && (class.MagicAccess || member.Promoted):
		return true
	}
	return false
}
