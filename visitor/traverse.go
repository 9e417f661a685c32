package visitor

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/phpast"
)

type traverser struct {
	visitor Visitor
}

// Traverse runs a single visitor over the whole tree, and returns the
// resulting tree
//
// Every node is visited depth-first: EnterNode is called before the node's
// children, and LeaveNode after them. If EnterNode replaces a node, the
// children of the replacement are visited instead
func Traverse(v Visitor, stmts []phpast.Stmt) []phpast.Stmt {
	if replaced := v.BeforeTraverse(stmts); replaced != nil {
		stmts = replaced
	}

	t := &traverser{visitor: v}
	stmts = visitList(t, stmts)

	if replaced := v.AfterTraverse(stmts); replaced != nil {
		stmts = replaced
	}
	return stmts
}

type inspector struct {
	Base
	fn func(phpast.Node)
}

func (in inspector) EnterNode(node phpast.Node) Result {
	in.fn(node)
	return NoChange
}

// Inspect calls fn for every node of the tree, in the same order as Traverse,
// without changing anything
func Inspect(stmts []phpast.Stmt, fn func(phpast.Node)) {
	Traverse(inspector{fn: fn}, stmts)
}

// visit runs the visitor on a single node and all of its children, and reports
// the node that should take its place, or whether it should be removed
func (t *traverser) visit(node phpast.Node) (phpast.Node, bool) {
	result := t.visitor.EnterNode(node)
	switch result.action {
	case actionRemove:
		return nil, true
	case actionReplace:
		node = result.node
	}

	t.visitChildren(node)

	result = t.visitor.LeaveNode(node)
	switch result.action {
	case actionRemove:
		return nil, true
	case actionReplace:
		node = result.node
	}
	return node, false
}

// visitList visits every node in a list. The list is only copied if a node is
// removed from it
func visitList[T phpast.Node](t *traverser, list []T) []T {
	var kept []T
	for ind, item := range list {
		node, removed := t.visit(item)
		if removed {
			if kept == nil {
				kept = make([]T, ind, len(list))
				copy(kept, list[:ind])
			}
			continue
		}

		typed, ok := node.(T)
		if !ok {
			log.WithFields(log.Fields{
				"original":    fmt.Sprintf("%T", item),
				"replacement": fmt.Sprintf("%T", node),
			}).Warn("Replacement does not fit in the list, keeping the original")
			typed = item
		}

		if kept != nil {
			kept = append(kept, typed)
		} else {
			list[ind] = typed
		}
	}

	if kept != nil {
		return kept
	}
	return list
}

// visitField visits a node that is held directly by its parent, where it
// can be replaced but not removed
func visitField[T phpast.Node](t *traverser, field *T) {
	node, removed := t.visit(*field)
	if removed {
		log.WithField("type", fmt.Sprintf("%T", *field)).Warn("Node is not held in a list, and can not be removed")
		return
	}

	typed, ok := node.(T)
	if !ok {
		log.WithFields(log.Fields{
			"original":    fmt.Sprintf("%T", *field),
			"replacement": fmt.Sprintf("%T", node),
		}).Warn("Replacement does not fit in the field, keeping the original")
		return
	}
	*field = typed
}

// expr visits an optional expression
func (t *traverser) expr(field *phpast.Expr) {
	if *field != nil {
		visitField(t, field)
	}
}

func (t *traverser) typeHint(field **phpast.TypeHint) {
	if *field != nil {
		visitField(t, field)
	}
}

func (t *traverser) stmts(field *[]phpast.Stmt) {
	*field = visitList(t, *field)
}

func (t *traverser) exprs(field *[]phpast.Expr) {
	*field = visitList(t, *field)
}

func (t *traverser) names(field *[]*phpast.Name) {
	*field = visitList(t, *field)
}

func (t *traverser) params(field *[]*phpast.Param) {
	*field = visitList(t, *field)
}

func (t *traverser) args(field *[]*phpast.Arg) {
	*field = visitList(t, *field)
}

func (t *traverser) visitChildren(node phpast.Node) {
	switch n := node.(type) {
	// Leaves
	case *phpast.Comment, *phpast.Blank, *phpast.InlineHTML, *phpast.Declare,
		*phpast.RawStmt, *phpast.RawExpr, *phpast.Variable, *phpast.Literal,
		*phpast.Name, *phpast.UseClause, *phpast.ClosureUse:

	// Declarations
	case *phpast.Namespace:
		t.stmts(&n.Stmts)
	case *phpast.Use:
		n.Uses = visitList(t, n.Uses)
	case *phpast.Class:
		t.typeHint(&n.BackingType)
		t.names(&n.Extends)
		t.names(&n.Implements)
		t.stmts(&n.Stmts)
	case *phpast.Property:
		t.typeHint(&n.Type)
		n.Props = visitList(t, n.Props)
	case *phpast.PropertyItem:
		t.expr(&n.Default)
	case *phpast.ClassConst:
		n.Consts = visitList(t, n.Consts)
	case *phpast.ConstItem:
		t.expr(&n.Value)
	case *phpast.Const:
		n.Consts = visitList(t, n.Consts)
	case *phpast.ClassMethod:
		t.params(&n.Params)
		t.typeHint(&n.ReturnType)
		t.stmts(&n.Stmts)
	case *phpast.TraitUse:
		t.names(&n.Traits)
	case *phpast.EnumCase:
		t.expr(&n.Value)
	case *phpast.Function:
		t.params(&n.Params)
		t.typeHint(&n.ReturnType)
		t.stmts(&n.Stmts)
	case *phpast.Param:
		t.typeHint(&n.Type)
		t.expr(&n.Default)
	case *phpast.TypeHint:
		t.names(&n.Types)

	// Statements
	case *phpast.Expression:
		t.expr(&n.X)
	case *phpast.Echo:
		t.exprs(&n.Exprs)
	case *phpast.Return:
		t.expr(&n.X)
	case *phpast.If:
		t.expr(&n.Cond)
		t.stmts(&n.Stmts)
		n.ElseIfs = visitList(t, n.ElseIfs)
		if n.Else != nil {
			visitField(t, &n.Else)
		}
	case *phpast.ElseIf:
		t.expr(&n.Cond)
		t.stmts(&n.Stmts)
	case *phpast.Else:
		t.stmts(&n.Stmts)
	case *phpast.While:
		t.expr(&n.Cond)
		t.stmts(&n.Stmts)
	case *phpast.Do:
		t.stmts(&n.Stmts)
		t.expr(&n.Cond)
	case *phpast.For:
		t.exprs(&n.Init)
		t.exprs(&n.Cond)
		t.exprs(&n.Loop)
		t.stmts(&n.Stmts)
	case *phpast.Foreach:
		t.expr(&n.X)
		t.expr(&n.Key)
		t.expr(&n.Value)
		t.stmts(&n.Stmts)
	case *phpast.Switch:
		t.expr(&n.Cond)
		n.Cases = visitList(t, n.Cases)
	case *phpast.Case:
		t.expr(&n.Cond)
		t.stmts(&n.Stmts)
	case *phpast.Break:
		t.expr(&n.Num)
	case *phpast.Continue:
		t.expr(&n.Num)
	case *phpast.Try:
		t.stmts(&n.Stmts)
		n.Catches = visitList(t, n.Catches)
		if n.Finally != nil {
			visitField(t, &n.Finally)
		}
	case *phpast.Catch:
		t.names(&n.Types)
		t.stmts(&n.Stmts)
	case *phpast.Finally:
		t.stmts(&n.Stmts)
	case *phpast.Unset:
		t.exprs(&n.Vars)
	case *phpast.Block:
		t.stmts(&n.Stmts)

	// Expressions
	case *phpast.ConstFetch:
		visitField(t, &n.Name)
	case *phpast.FuncCall:
		t.expr(&n.Func)
		t.args(&n.Args)
	case *phpast.Arg:
		t.expr(&n.Value)
	case *phpast.New:
		t.expr(&n.Class)
		t.args(&n.Args)
	case *phpast.PropertyFetch:
		t.expr(&n.X)
		t.expr(&n.NameExpr)
	case *phpast.MethodCall:
		t.expr(&n.X)
		t.expr(&n.NameExpr)
		t.args(&n.Args)
	case *phpast.StaticPropertyFetch:
		t.expr(&n.Class)
	case *phpast.StaticCall:
		t.expr(&n.Class)
		t.expr(&n.NameExpr)
		t.args(&n.Args)
	case *phpast.ClassConstFetch:
		t.expr(&n.Class)
	case *phpast.Assign:
		t.expr(&n.Left)
		t.expr(&n.Right)
	case *phpast.Binary:
		t.expr(&n.Left)
		t.expr(&n.Right)
	case *phpast.Unary:
		t.expr(&n.X)
	case *phpast.IncDec:
		t.expr(&n.X)
	case *phpast.Cast:
		t.expr(&n.X)
	case *phpast.Ternary:
		t.expr(&n.Cond)
		t.expr(&n.Then)
		t.expr(&n.Else)
	case *phpast.Paren:
		t.expr(&n.X)
	case *phpast.Array:
		n.Items = visitList(t, n.Items)
	case *phpast.ArrayItem:
		t.expr(&n.Key)
		t.expr(&n.Value)
	case *phpast.Index:
		t.expr(&n.X)
		t.expr(&n.Index)
	case *phpast.Closure:
		t.params(&n.Params)
		n.Uses = visitList(t, n.Uses)
		t.typeHint(&n.ReturnType)
		t.stmts(&n.Stmts)
	case *phpast.ArrowFunc:
		t.params(&n.Params)
		t.typeHint(&n.ReturnType)
		t.expr(&n.X)
	case *phpast.ThrowExpr:
		t.expr(&n.X)
	default:
		log.WithField("type", fmt.Sprintf("%T", node)).Warn("Unknown node kind, children are not visited")
	}
}

// inspectNode calls fn for the node and everything below it
func inspectNode(node phpast.Node, fn func(phpast.Node)) {
	t := &traverser{visitor: inspector{fn: fn}}
	t.visit(node)
}

// hooks is a visitor made of plain functions, for walks that only need to
// look at the tree
type hooks struct {
	Base
	enter func(phpast.Node)
	leave func(phpast.Node)
}

func (h *hooks) EnterNode(node phpast.Node) Result {
	if h.enter != nil {
		h.enter(node)
	}
	return NoChange
}

func (h *hooks) LeaveNode(node phpast.Node) Result {
	if h.leave != nil {
		h.leave(node)
	}
	return NoChange
}

func nodeType(node phpast.Node) string {
	return fmt.Sprintf("%T", node)
}
