package phpast

// StmtLists returns pointers to every statement-list field held directly by
// the node. Statement lists held by clause nodes (else branches, switch cases,
// catch blocks) are reported by the statement that owns the clauses, so that
// walking statement lists only ever needs statements
func StmtLists(n Node) []*[]Stmt {
	switch n := n.(type) {
	case *Namespace:
		return []*[]Stmt{&n.Stmts}
	case *Class:
		return []*[]Stmt{&n.Stmts}
	case *ClassMethod:
		if !n.HasBody {
			return nil
		}
		return []*[]Stmt{&n.Stmts}
	case *Function:
		return []*[]Stmt{&n.Stmts}
	case *Closure:
		return []*[]Stmt{&n.Stmts}
	case *If:
		lists := []*[]Stmt{&n.Stmts}
		for _, elseIf := range n.ElseIfs {
			lists = append(lists, &elseIf.Stmts)
		}
		if n.Else != nil {
			lists = append(lists, &n.Else.Stmts)
		}
		return lists
	case *ElseIf:
		return []*[]Stmt{&n.Stmts}
	case *Else:
		return []*[]Stmt{&n.Stmts}
	case *While:
		return []*[]Stmt{&n.Stmts}
	case *Do:
		return []*[]Stmt{&n.Stmts}
	case *For:
		return []*[]Stmt{&n.Stmts}
	case *Foreach:
		return []*[]Stmt{&n.Stmts}
	case *Switch:
		lists := make([]*[]Stmt, 0, len(n.Cases))
		for _, c := range n.Cases {
			lists = append(lists, &c.Stmts)
		}
		return lists
	case *Case:
		return []*[]Stmt{&n.Stmts}
	case *Try:
		lists := []*[]Stmt{&n.Stmts}
		for _, catch := range n.Catches {
			lists = append(lists, &catch.Stmts)
		}
		if n.Finally != nil {
			lists = append(lists, &n.Finally.Stmts)
		}
		return lists
	case *Catch:
		return []*[]Stmt{&n.Stmts}
	case *Finally:
		return []*[]Stmt{&n.Stmts}
	case *Block:
		return []*[]Stmt{&n.Stmts}
	}
	return nil
}

// EachStmt calls fn for every statement in the list, and recursively for
// every statement in their statement-list fields
func EachStmt(stmts []Stmt, fn func(Stmt)) {
	for _, stmt := range stmts {
		fn(stmt)
		for _, list := range StmtLists(stmt) {
			EachStmt(*list, fn)
		}
	}
}

// IsDeclaration reports whether a top-level statement declares a named
// symbol
func IsDeclaration(stmt Stmt) bool {
	switch stmt.(type) {
	case *Class, *Function, *Const:
		return true
	}
	return false
}
