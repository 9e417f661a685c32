package parsing

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/nodeutil"
	"github.com/NickyBoy89/pharbuild/parsetools"
	"github.com/NickyBoy89/pharbuild/phpast"
	log "github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"
)

// ParseStmtList converts a list of statement nodes. Semicolon-style
// namespaces take ownership of every statement that follows them
func ParseStmtList(nodes []*sitter.Node, source []byte) []phpast.Stmt {
	var stmts []phpast.Stmt
	var current *phpast.Namespace

	for _, node := range nodes {
		if node.Type() == "empty_statement" {
			continue
		}

		stmt := ParseStmt(node, source)
		if ns, ok := stmt.(*phpast.Namespace); ok && !ns.Braced {
			current = ns
			stmts = append(stmts, ns)
			continue
		}

		if current != nil {
			current.Stmts = append(current.Stmts, stmt)
		} else {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}

// ParseStmt converts a single statement, falling back to a raw statement for
// anything that the tree does not model
func ParseStmt(node *sitter.Node, source []byte) phpast.Stmt {
	if stmt := TryParseStmt(node, source); stmt != nil {
		return stmt
	}
	log.WithFields(log.Fields{
		"type": node.Type(),
		"line": node.StartPoint().Row + 1,
	}).Debug("Keeping statement as raw source")
	return &phpast.RawStmt{Text: node.Content(source)}
}

// TryParseStmt is the underlying function for ParseStmt, returning `nil` on
// any node that it cannot convert
func TryParseStmt(node *sitter.Node, source []byte) phpast.Stmt {
	if decl := TryParseDecl(node, source); decl != nil {
		return decl
	}

	switch node.Type() {
	case "comment":
		return &phpast.Comment{Text: node.Content(source)}
	case "text":
		return &phpast.InlineHTML{Text: "?>" + node.Content(source) + "<?php"}
	case "text_interpolation":
		return &phpast.InlineHTML{Text: node.Content(source)}
	case "expression_statement":
		x := firstNamed(node)
		if x == nil {
			return nil
		}
		return &phpast.Expression{X: ParseExpr(x, source)}
	case "echo_statement":
		var exprs []phpast.Expr
		for _, child := range namedChildren(node) {
			exprs = append(exprs, parseExprSequence(child, source)...)
		}
		return &phpast.Echo{Exprs: exprs}
	case "return_statement":
		if x := firstNamed(node); x != nil {
			return &phpast.Return{X: ParseExpr(x, source)}
		}
		return &phpast.Return{}
	case "throw_statement":
		// Before PHP 8, throw was only a statement
		return &phpast.Expression{X: &phpast.ThrowExpr{X: ParseExpr(firstNamed(node), source)}}
	case "break_statement":
		if x := firstNamed(node); x != nil {
			return &phpast.Break{Num: ParseExpr(x, source)}
		}
		return &phpast.Break{}
	case "continue_statement":
		if x := firstNamed(node); x != nil {
			return &phpast.Continue{Num: ParseExpr(x, source)}
		}
		return &phpast.Continue{}
	case "unset_statement":
		unset := &phpast.Unset{}
		for _, child := range namedChildren(node) {
			unset.Vars = append(unset.Vars, ParseExpr(child, source))
		}
		return unset
	case "compound_statement":
		return &phpast.Block{Stmts: ParseStmtList(nodeutil.Children(node), source)}
	case "declare_statement":
		// Only the directive form `declare(strict_types=1);` is modeled, the
		// block forms are kept as raw statements
		text := node.Content(source)
		open := strings.IndexByte(text, '(')
		closing := parsetools.IndexOfMatchingParenths(text, open)
		if open == -1 || closing == -1 || strings.TrimSpace(text[closing+1:]) != ";" {
			return nil
		}
		return &phpast.Declare{Directive: strings.Join(strings.Fields(text[open+1:closing]), "")}
	case "if_statement":
		return parseIf(node, source)
	case "while_statement":
		cond := node.ChildByFieldName("condition")
		if cond == nil {
			return nil
		}
		return &phpast.While{
			Cond:  parseCondition(cond, source),
			Stmts: parseBodyAfter(node, cond, source),
		}
	case "do_statement":
		body := node.ChildByFieldName("body")
		cond := node.ChildByFieldName("condition")
		if body == nil || cond == nil {
			return nil
		}
		return &phpast.Do{
			Stmts: parseBody(body, source),
			Cond:  parseCondition(cond, source),
		}
	case "for_statement":
		return parseFor(node, source)
	case "foreach_statement":
		return parseForeach(node, source)
	case "switch_statement":
		return parseSwitch(node, source)
	case "try_statement":
		return parseTry(node, source)
	}
	return nil
}

func parseIf(node *sitter.Node, source []byte) phpast.Stmt {
	cond := node.ChildByFieldName("condition")
	body := node.ChildByFieldName("body")
	if cond == nil || body == nil {
		return nil
	}

	stmt := &phpast.If{
		Cond:  parseCondition(cond, source),
		Stmts: parseBody(body, source),
	}

	for _, child := range nodeutil.Children(node) {
		switch child.Type() {
		case "else_if_clause", "else_if_clause_2":
			elseCond := child.ChildByFieldName("condition")
			if elseCond == nil {
				return nil
			}
			stmt.ElseIfs = append(stmt.ElseIfs, &phpast.ElseIf{
				Cond:  parseCondition(elseCond, source),
				Stmts: parseBodyAfter(child, elseCond, source),
			})
		case "else_clause", "else_clause_2":
			stmt.Else = &phpast.Else{Stmts: parseBodyAfter(child, nil, source)}
		}
	}

	return stmt
}

func parseFor(node *sitter.Node, source []byte) phpast.Stmt {
	stmt := &phpast.For{}

	// The three clauses are separated by semicolons, and the body starts
	// after the closing parenthesis
	var semicolons int
	var closed bool
	var body []*sitter.Node
	for _, child := range nodeutil.UnnamedChildren(node) {
		if !child.IsNamed() {
			switch child.Type() {
			case ";":
				if !closed {
					semicolons++
				}
			case ")":
				closed = true
			}
			continue
		}
		if child.Type() == "comment" {
			continue
		}

		if closed {
			body = append(body, child)
			continue
		}

		exprs := parseExprSequence(child, source)
		switch semicolons {
		case 0:
			stmt.Init = append(stmt.Init, exprs...)
		case 1:
			stmt.Cond = append(stmt.Cond, exprs...)
		default:
			stmt.Loop = append(stmt.Loop, exprs...)
		}
	}

	stmt.Stmts = parseBodyNodes(body, source)
	return stmt
}

func parseForeach(node *sitter.Node, source []byte) phpast.Stmt {
	stmt := &phpast.Foreach{}

	var closed bool
	var header, body []*sitter.Node
	for _, child := range nodeutil.UnnamedChildren(node) {
		if !child.IsNamed() {
			if child.Type() == ")" {
				closed = true
			}
			continue
		}
		if child.Type() == "comment" {
			continue
		}
		if closed {
			body = append(body, child)
		} else {
			header = append(header, child)
		}
	}

	if len(header) != 2 {
		return nil
	}
	stmt.X = ParseExpr(header[0], source)

	value := header[1]
	if value.Type() == "pair" {
		pair := namedChildren(value)
		if len(pair) != 2 {
			return nil
		}
		stmt.Key = ParseExpr(pair[0], source)
		value = pair[1]
	}
	if value.Type() == "by_ref" {
		stmt.ByRef = true
		value = firstNamed(value)
	}
	stmt.Value = ParseExpr(value, source)

	stmt.Stmts = parseBodyNodes(body, source)
	return stmt
}

func parseSwitch(node *sitter.Node, source []byte) phpast.Stmt {
	cond := node.ChildByFieldName("condition")
	block := node.ChildByFieldName("body")
	if cond == nil || block == nil {
		return nil
	}

	stmt := &phpast.Switch{Cond: parseCondition(cond, source)}
	for _, child := range nodeutil.Children(block) {
		switch child.Type() {
		case "case_statement":
			children := namedChildren(child)
			if len(children) == 0 {
				return nil
			}
			stmt.Cases = append(stmt.Cases, &phpast.Case{
				Cond:  ParseExpr(children[0], source),
				Stmts: ParseStmtList(children[1:], source),
			})
		case "default_statement":
			stmt.Cases = append(stmt.Cases, &phpast.Case{
				Stmts: ParseStmtList(namedChildren(child), source),
			})
		}
	}
	return stmt
}

func parseTry(node *sitter.Node, source []byte) phpast.Stmt {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	stmt := &phpast.Try{Stmts: parseBody(body, source)}
	for _, child := range nodeutil.Children(node) {
		switch child.Type() {
		case "catch_clause":
			types := child.ChildByFieldName("type")
			catchBody := child.ChildByFieldName("body")
			if types == nil || catchBody == nil {
				return nil
			}

			catch := &phpast.Catch{Stmts: parseBody(catchBody, source)}
			for _, typeName := range strings.Split(types.Content(source), "|") {
				catch.Types = append(catch.Types, &phpast.Name{Value: cleanName(typeName), Kind: phpast.NameClass})
			}
			if name := child.ChildByFieldName("name"); name != nil {
				catch.Var = strings.TrimPrefix(name.Content(source), "$")
			}
			stmt.Catches = append(stmt.Catches, catch)
		case "finally_clause":
			stmt.Finally = &phpast.Finally{Stmts: parseBodyAfter(child, nil, source)}
		}
	}
	return stmt
}

// parseCondition unwraps the parentheses around a control structure's
// condition
func parseCondition(node *sitter.Node, source []byte) phpast.Expr {
	if node.Type() == "parenthesized_expression" {
		if inner := firstNamed(node); inner != nil {
			return ParseExpr(inner, source)
		}
	}
	return ParseExpr(node, source)
}

// parseBody converts the body of a control structure, which is either a
// block, the statements of an alternative syntax block, or one statement
func parseBody(node *sitter.Node, source []byte) []phpast.Stmt {
	return parseBodyNodes([]*sitter.Node{node}, source)
}

func parseBodyNodes(nodes []*sitter.Node, source []byte) []phpast.Stmt {
	if len(nodes) == 1 {
		switch nodes[0].Type() {
		case "compound_statement", "colon_block":
			return ParseStmtList(nodeutil.Children(nodes[0]), source)
		}
	}
	return ParseStmtList(nodes, source)
}

// parseBodyAfter converts the `body` field of the node, or otherwise every
// named child that follows the given child, which is how clauses with
// alternative syntax hold their statements. A nil child takes every named
// child
func parseBodyAfter(node, after *sitter.Node, source []byte) []phpast.Stmt {
	if body := node.ChildByFieldName("body"); body != nil {
		return parseBody(body, source)
	}

	var body []*sitter.Node
	found := after == nil
	for _, child := range nodeutil.Children(node) {
		if found && child.Type() != "comment" {
			body = append(body, child)
		}
		if sameNode(child, after) {
			found = true
		}
	}
	return parseBodyNodes(body, source)
}
