package printer

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/phpast"
)

type printer struct {
	w *writer
}

func (p *printer) file(stmts []phpast.Stmt) {
	p.w.token("<?php")
	p.w.forceNewline()
	if len(stmts) > 0 {
		p.w.blankLine()
	}
	p.stmts(stmts)
	p.w.newline()
}

// isBlock reports whether a statement is a declaration that is set apart
// from its neighbours with empty lines
func isBlock(stmt phpast.Stmt) bool {
	switch stmt.(type) {
	case *phpast.Class, *phpast.Function, *phpast.ClassMethod, *phpast.Namespace, *phpast.Declare:
		return true
	}
	return false
}

// separated reports whether an empty line goes between two statements
func separated(prev, next phpast.Stmt) bool {
	_, prevBlank := prev.(*phpast.Blank)
	_, nextBlank := next.(*phpast.Blank)
	_, prevUse := prev.(*phpast.Use)
	_, nextUse := next.(*phpast.Use)
	switch {
	case prevBlank || nextBlank:
		return false
	case isBlock(prev) || isBlock(next):
		return true
	case prevUse != nextUse:
		return true
	}
	return false
}

func (p *printer) stmts(stmts []phpast.Stmt) {
	var prev phpast.Stmt
	for ind, stmt := range stmts {
		if _, ok := stmt.(*phpast.Comment); ok && prev != nil {
			// Comments stay attached to whatever comes after them
			next := stmt
			for _, after := range stmts[ind:] {
				if _, isComment := after.(*phpast.Comment); !isComment {
					next = after
					break
				}
			}
			if separated(prev, next) {
				p.w.blankLine()
			}
		} else if _, isComment := prev.(*phpast.Comment); !isComment && prev != nil && separated(prev, stmt) {
			p.w.blankLine()
		}
		p.stmt(stmt)
		prev = stmt
	}
}

func (p *printer) stmt(stmt phpast.Stmt) {
	w := p.w
	switch s := stmt.(type) {
	case *phpast.Comment:
		p.comment(s.Text)
	case *phpast.Blank:
		w.blankLine()
	case *phpast.InlineHTML:
		w.token(s.Text)
		w.forceNewline()
	case *phpast.Declare:
		w.token("declare(" + s.Directive + ");")
		w.newline()
	case *phpast.Namespace:
		p.namespace(s)
	case *phpast.Use:
		p.use(s)
	case *phpast.Class:
		p.class(s)
	case *phpast.Property:
		p.attributes(s.Attributes, true)
		p.modifiers(s.Modifiers)
		if s.Type != nil {
			p.typeHint(s.Type)
			w.space()
		}
		for ind, prop := range s.Props {
			p.comma(ind)
			w.token("$" + prop.Name)
			p.initializer(prop.Default)
		}
		w.token(";")
		w.newline()
	case *phpast.ClassConst:
		p.attributes(s.Attributes, true)
		p.modifiers(s.Modifiers)
		p.constItems(s.Consts)
	case *phpast.Const:
		p.constItems(s.Consts)
	case *phpast.ClassMethod:
		p.attributes(s.Attributes, true)
		p.modifiers(s.Modifiers)
		p.signature(s.ByRef, s.Name, s.Params, s.ReturnType)
		if !s.HasBody {
			w.token(";")
			w.newline()
			return
		}
		p.block(s.Stmts, true)
		w.newline()
	case *phpast.Function:
		p.attributes(s.Attributes, true)
		p.signature(s.ByRef, s.Name, s.Params, s.ReturnType)
		p.block(s.Stmts, true)
		w.newline()
	case *phpast.TraitUse:
		w.token("use")
		w.space()
		p.names(s.Traits, ",")
		if s.Adaptations != "" {
			w.space()
			w.token(s.Adaptations)
		} else {
			w.token(";")
		}
		w.newline()
	case *phpast.EnumCase:
		p.attributes(s.Attributes, true)
		w.token("case")
		w.space()
		w.token(s.Name)
		p.initializer(s.Value)
		w.token(";")
		w.newline()
	case *phpast.Expression:
		p.expr(s.X)
		w.token(";")
		w.newline()
	case *phpast.Echo:
		w.token("echo")
		w.space()
		p.exprList(s.Exprs)
		w.token(";")
		w.newline()
	case *phpast.Return:
		p.keywordStmt("return", s.X)
	case *phpast.Break:
		p.keywordStmt("break", s.Num)
	case *phpast.Continue:
		p.keywordStmt("continue", s.Num)
	case *phpast.Unset:
		w.token("unset(")
		p.exprList(s.Vars)
		w.token(");")
		w.newline()
	case *phpast.Block:
		p.block(s.Stmts, false)
		w.newline()
	case *phpast.If:
		p.ifStmt(s)
	case *phpast.While:
		p.condition("while", s.Cond)
		p.block(s.Stmts, false)
		w.newline()
	case *phpast.Do:
		w.token("do")
		p.block(s.Stmts, false)
		w.space()
		p.condition("while", s.Cond)
		w.token(";")
		w.newline()
	case *phpast.For:
		p.forStmt(s)
	case *phpast.Foreach:
		p.foreachStmt(s)
	case *phpast.Switch:
		p.switchStmt(s)
	case *phpast.Try:
		p.tryStmt(s)
	case *phpast.RawStmt:
		p.raw(s.Text, true)
	default:
		log.WithField("type", fmt.Sprintf("%T", stmt)).Warn("Unknown statement kind, leaving it out")
	}
}

// raw writes source text that the tree keeps verbatim. Text ending in a
// heredoc needs a line break after it
func (p *printer) raw(text string, always bool) {
	p.w.token(text)
	if always || strings.Contains(text, "<<<") {
		p.w.forceNewline()
	}
}

func (p *printer) comment(text string) {
	if strings.HasPrefix(text, "//") || strings.HasPrefix(text, "#") {
		p.w.token(text)
		p.w.forceNewline()
		return
	}
	if p.w.compact {
		p.w.token(text)
		return
	}

	for ind, line := range strings.Split(text, "\n") {
		if ind > 0 {
			p.w.newline()
			line = strings.TrimLeft(line, " \t")
			if strings.HasPrefix(line, "*") {
				line = " " + line
			}
		}
		p.w.token(line)
	}
	p.w.newline()
}

func (p *printer) namespace(ns *phpast.Namespace) {
	w := p.w
	w.token("namespace")
	if !ns.Braced {
		w.space()
		w.token(ns.Name + ";")
		w.newline()
		if len(ns.Stmts) > 0 {
			w.blankLine()
		}
		p.stmts(ns.Stmts)
		return
	}

	if ns.Name != "" {
		w.space()
		w.token(ns.Name)
	}
	p.block(ns.Stmts, false)
	w.newline()
}

func (p *printer) use(use *phpast.Use) {
	w := p.w
	w.token("use")
	w.space()
	switch use.Kind {
	case phpast.UseFunction:
		w.token("function")
		w.space()
	case phpast.UseConstant:
		w.token("const")
		w.space()
	}
	for ind, clause := range use.Uses {
		p.comma(ind)
		w.token(clause.Name)
		if clause.Alias != "" {
			w.space()
			w.token("as")
			w.space()
			w.token(clause.Alias)
		}
	}
	w.token(";")
	w.newline()
}

var classKeywords = map[phpast.ClassKind]string{
	phpast.KindClass:     "class",
	phpast.KindInterface: "interface",
	phpast.KindTrait:     "trait",
	phpast.KindEnum:      "enum",
}

func (p *printer) class(class *phpast.Class) {
	w := p.w
	p.attributes(class.Attributes, true)
	p.modifiers(class.Modifiers)
	w.token(classKeywords[class.Kind])
	w.space()
	w.token(class.Name)
	if class.BackingType != nil {
		w.token(":")
		w.space()
		p.typeHint(class.BackingType)
	}
	if len(class.Extends) > 0 {
		w.space()
		w.token("extends")
		w.space()
		p.names(class.Extends, ",")
	}
	if len(class.Implements) > 0 {
		w.space()
		w.token("implements")
		w.space()
		p.names(class.Implements, ",")
	}
	p.block(class.Stmts, true)
	w.newline()
}

// block writes a braced statement list. Declarations put their opening brace
// on its own line
func (p *printer) block(stmts []phpast.Stmt, ownLine bool) {
	w := p.w
	if ownLine {
		w.newline()
	} else {
		w.space()
	}
	w.token("{")
	w.newline()
	w.indent++
	p.stmts(stmts)
	w.indent--
	w.newline()
	w.token("}")
}

func (p *printer) attributes(attributes string, ownLine bool) {
	if attributes == "" {
		return
	}
	p.w.token(attributes)
	if ownLine {
		p.w.newline()
	} else {
		p.w.space()
	}
}

func (p *printer) modifiers(modifiers phpast.Modifier) {
	for _, keyword := range modifiers.Keywords() {
		p.w.token(keyword)
		p.w.space()
	}
}

func (p *printer) comma(ind int) {
	if ind > 0 {
		p.w.token(",")
		p.w.space()
	}
}

func (p *printer) names(names []*phpast.Name, separator string) {
	for ind, name := range names {
		if ind > 0 {
			p.w.token(separator)
			if separator == "," {
				p.w.space()
			}
		}
		p.w.token(name.Value)
	}
}

func (p *printer) initializer(value phpast.Expr) {
	if value == nil {
		return
	}
	p.w.space()
	p.w.token("=")
	p.w.space()
	p.expr(value)
}

func (p *printer) constItems(items []*phpast.ConstItem) {
	p.w.token("const")
	p.w.space()
	for ind, item := range items {
		p.comma(ind)
		p.w.token(item.Name)
		p.initializer(item.Value)
	}
	p.w.token(";")
	p.w.newline()
}

func (p *printer) keywordStmt(keyword string, x phpast.Expr) {
	p.w.token(keyword)
	if x != nil {
		p.w.space()
		p.expr(x)
	}
	p.w.token(";")
	p.w.newline()
}

// signature writes the part of a function or method before its body
func (p *printer) signature(byRef bool, name string, params []*phpast.Param, returnType *phpast.TypeHint) {
	p.w.token("function")
	p.w.space()
	if byRef {
		p.w.token("&")
	}
	p.w.token(name)
	p.params(params)
	p.returnType(returnType)
}

func (p *printer) params(params []*phpast.Param) {
	w := p.w
	w.token("(")
	for ind, param := range params {
		p.comma(ind)
		p.attributes(param.Attributes, false)
		p.modifiers(param.Promoted)
		if param.Type != nil {
			p.typeHint(param.Type)
			w.space()
		}
		if param.ByRef {
			w.token("&")
		}
		if param.Variadic {
			w.token("...")
		}
		w.token("$" + param.Name)
		p.initializer(param.Default)
	}
	w.token(")")
}

func (p *printer) returnType(returnType *phpast.TypeHint) {
	if returnType == nil {
		return
	}
	p.w.token(":")
	p.w.space()
	p.typeHint(returnType)
}

func (p *printer) typeHint(hint *phpast.TypeHint) {
	if hint.Raw != "" {
		p.w.token(hint.Raw)
		return
	}
	if hint.Nullable {
		p.w.token("?")
	}
	p.names(hint.Types, hint.Separator)
}

func (p *printer) condition(keyword string, cond phpast.Expr) {
	p.w.token(keyword)
	p.w.space()
	p.w.token("(")
	p.expr(cond)
	p.w.token(")")
}

func (p *printer) ifStmt(s *phpast.If) {
	w := p.w
	p.condition("if", s.Cond)
	p.block(s.Stmts, false)
	for _, elseIf := range s.ElseIfs {
		w.space()
		p.condition("elseif", elseIf.Cond)
		p.block(elseIf.Stmts, false)
	}
	if s.Else != nil {
		w.space()
		w.token("else")
		p.block(s.Else.Stmts, false)
	}
	w.newline()
}

func (p *printer) forStmt(s *phpast.For) {
	w := p.w
	w.token("for")
	w.space()
	w.token("(")
	for ind, part := range [][]phpast.Expr{s.Init, s.Cond, s.Loop} {
		if ind > 0 {
			w.token(";")
			if len(part) > 0 {
				w.space()
			}
		}
		p.exprList(part)
	}
	w.token(")")
	p.block(s.Stmts, false)
	w.newline()
}

func (p *printer) foreachStmt(s *phpast.Foreach) {
	w := p.w
	w.token("foreach")
	w.space()
	w.token("(")
	p.expr(s.X)
	w.space()
	w.token("as")
	w.space()
	if s.Key != nil {
		p.expr(s.Key)
		w.space()
		w.token("=>")
		w.space()
	}
	if s.ByRef {
		w.token("&")
	}
	p.expr(s.Value)
	w.token(")")
	p.block(s.Stmts, false)
	w.newline()
}

func (p *printer) switchStmt(s *phpast.Switch) {
	w := p.w
	p.condition("switch", s.Cond)
	w.space()
	w.token("{")
	w.newline()
	w.indent++
	for _, c := range s.Cases {
		if c.Cond != nil {
			w.token("case")
			w.space()
			p.expr(c.Cond)
			w.token(":")
		} else {
			w.token("default:")
		}
		w.newline()
		w.indent++
		p.stmts(c.Stmts)
		w.indent--
	}
	w.indent--
	w.newline()
	w.token("}")
	w.newline()
}

func (p *printer) tryStmt(s *phpast.Try) {
	w := p.w
	w.token("try")
	p.block(s.Stmts, false)
	for _, catch := range s.Catches {
		w.space()
		w.token("catch")
		w.space()
		w.token("(")
		p.names(catch.Types, "|")
		if catch.Var != "" {
			w.space()
			w.token("$" + catch.Var)
		}
		w.token(")")
		p.block(catch.Stmts, false)
	}
	if s.Finally != nil {
		w.space()
		w.token("finally")
		p.block(s.Finally.Stmts, false)
	}
	w.newline()
}
