package printer

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// Keyword operators that need whitespace between them and their operand
var wordOperators = map[string]bool{
	"clone":        true,
	"print":        true,
	"include":      true,
	"include_once": true,
	"require":      true,
	"require_once": true,
}

func (p *printer) exprList(exprs []phpast.Expr) {
	for ind, expr := range exprs {
		p.comma(ind)
		p.expr(expr)
	}
}

func (p *printer) expr(expr phpast.Expr) {
	w := p.w
	switch e := expr.(type) {
	case *phpast.Variable:
		w.token("$" + e.Name)
	case *phpast.Literal:
		w.token(e.Value)
		if e.Kind == phpast.LitHeredoc {
			w.forceNewline()
		}
	case *phpast.Name:
		w.token(e.Value)
	case *phpast.ConstFetch:
		w.token(e.Name.Value)
	case *phpast.FuncCall:
		p.expr(e.Func)
		p.args(e.Args)
	case *phpast.New:
		w.token("new")
		w.space()
		p.expr(e.Class)
		if e.HasArgs {
			p.args(e.Args)
		}
	case *phpast.PropertyFetch:
		p.expr(e.X)
		p.arrow(e.Nullsafe)
		p.memberName(e.Name, e.NameExpr)
	case *phpast.MethodCall:
		p.expr(e.X)
		p.arrow(e.Nullsafe)
		p.memberName(e.Name, e.NameExpr)
		p.args(e.Args)
	case *phpast.StaticPropertyFetch:
		p.expr(e.Class)
		w.token("::$" + e.Name)
	case *phpast.StaticCall:
		p.expr(e.Class)
		w.token("::")
		p.memberName(e.Name, e.NameExpr)
		p.args(e.Args)
	case *phpast.ClassConstFetch:
		p.expr(e.Class)
		w.token("::" + e.Name)
	case *phpast.Assign:
		p.expr(e.Left)
		w.space()
		w.token(e.Op)
		w.space()
		if e.ByRef {
			w.token("&")
		}
		p.expr(e.Right)
	case *phpast.Binary:
		p.expr(e.Left)
		w.space()
		w.token(e.Op)
		w.space()
		p.expr(e.Right)
	case *phpast.Unary:
		w.token(e.Op)
		if wordOperators[e.Op] {
			w.space()
		}
		p.expr(e.X)
	case *phpast.IncDec:
		if e.Prefix {
			w.token(e.Op)
			p.expr(e.X)
		} else {
			p.expr(e.X)
			w.token(e.Op)
		}
	case *phpast.Cast:
		w.token("(" + e.Type + ")")
		w.space()
		p.expr(e.X)
	case *phpast.Ternary:
		p.expr(e.Cond)
		w.space()
		if e.Then == nil {
			w.token("?:")
		} else {
			w.token("?")
			w.space()
			p.expr(e.Then)
			w.space()
			w.token(":")
		}
		w.space()
		p.expr(e.Else)
	case *phpast.Paren:
		w.token("(")
		p.expr(e.X)
		w.token(")")
	case *phpast.Array:
		p.array(e)
	case *phpast.Index:
		p.expr(e.X)
		w.token("[")
		if e.Index != nil {
			p.expr(e.Index)
		}
		w.token("]")
	case *phpast.Closure:
		p.closure(e)
	case *phpast.ArrowFunc:
		if e.Static {
			w.token("static")
			w.space()
		}
		w.token("fn")
		if e.ByRef {
			w.space()
			w.token("&")
		}
		p.params(e.Params)
		p.returnType(e.ReturnType)
		w.space()
		w.token("=>")
		w.space()
		p.expr(e.X)
	case *phpast.ThrowExpr:
		w.token("throw")
		w.space()
		p.expr(e.X)
	case *phpast.RawExpr:
		p.raw(e.Text, false)
	default:
		log.WithField("type", fmt.Sprintf("%T", expr)).Warn("Unknown expression kind, leaving it out")
	}
}

func (p *printer) arrow(nullsafe bool) {
	if nullsafe {
		p.w.token("?->")
	} else {
		p.w.token("->")
	}
}

// memberName writes the name after `->` or `::`. Dynamic names are written as
// the variable holding them, or wrapped in braces for other expressions
func (p *printer) memberName(name string, nameExpr phpast.Expr) {
	if nameExpr == nil {
		p.w.token(name)
		return
	}
	if _, ok := nameExpr.(*phpast.Variable); ok {
		p.expr(nameExpr)
		return
	}
	p.w.token("{")
	p.expr(nameExpr)
	p.w.token("}")
}

func (p *printer) args(args []*phpast.Arg) {
	w := p.w
	w.token("(")
	for ind, arg := range args {
		p.comma(ind)
		if arg.Name != "" {
			w.token(arg.Name + ":")
			w.space()
		}
		if arg.Unpack {
			w.token("...")
		}
		p.expr(arg.Value)
	}
	w.token(")")
}

func (p *printer) array(array *phpast.Array) {
	w := p.w
	w.token("[")
	for ind, item := range array.Items {
		p.comma(ind)
		if item.Key != nil {
			p.expr(item.Key)
			w.space()
			w.token("=>")
			w.space()
		}
		if item.ByRef {
			w.token("&")
		}
		if item.Unpack {
			w.token("...")
		}
		p.expr(item.Value)
	}
	w.token("]")
}

func (p *printer) closure(closure *phpast.Closure) {
	w := p.w
	if closure.Static {
		w.token("static")
		w.space()
	}
	w.token("function")
	if closure.ByRef {
		w.space()
		w.token("&")
	}
	p.params(closure.Params)
	if len(closure.Uses) > 0 {
		w.space()
		w.token("use")
		w.space()
		uses := make([]string, len(closure.Uses))
		for ind, use := range closure.Uses {
			uses[ind] = "$" + use.Name
			if use.ByRef {
				uses[ind] = "&" + uses[ind]
			}
		}
		w.token("(")
		for ind, use := range uses {
			p.comma(ind)
			w.token(use)
		}
		w.token(")")
	}
	p.returnType(closure.ReturnType)
	p.block(closure.Stmts, false)
}
