package phpast

import "testing"

func TestStmtListsOfIf(t *testing.T) {
	stmt := &If{
		Stmts:   []Stmt{&Echo{}},
		ElseIfs: []*ElseIf{{Stmts: []Stmt{&Echo{}}}, {}},
		Else:    &Else{Stmts: []Stmt{&Echo{}}},
	}
	if lists := StmtLists(stmt); len(lists) != 4 {
		t.Errorf("Expected: %v, Actual: %v", 4, len(lists))
	}
}

func TestStmtListsOfAbstractMethod(t *testing.T) {
	if lists := StmtLists(&ClassMethod{Name: "run"}); lists != nil {
		t.Errorf("Expected no statement lists, got %v", lists)
	}
}

func TestStmtListsAreWritable(t *testing.T) {
	class := &Class{Name: "Foo"}
	*StmtLists(class)[0] = append(*StmtLists(class)[0], &Property{})
	if len(class.Stmts) != 1 {
		t.Errorf("Expected the class body to be updated through its list")
	}
}

func TestEachStmtIsRecursive(t *testing.T) {
	tree := []Stmt{
		&Namespace{Name: "a", Stmts: []Stmt{
			&Class{Name: "Foo", Stmts: []Stmt{
				&ClassMethod{Name: "run", HasBody: true, Stmts: []Stmt{
					&Try{
						Stmts:   []Stmt{&Return{}},
						Catches: []*Catch{{Stmts: []Stmt{&Return{}}}},
						Finally: &Finally{Stmts: []Stmt{&Return{}}},
					},
				}},
			}},
		}},
	}

	var returns int
	EachStmt(tree, func(stmt Stmt) {
		if _, ok := stmt.(*Return); ok {
			returns++
		}
	})
	if returns != 3 {
		t.Errorf("Expected: %v, Actual: %v", 3, returns)
	}
}
