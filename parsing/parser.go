// Package parsing converts PHP source code into the syntax tree declared in
// phpast, using the tree-sitter PHP grammar.
//
// Syntax the tree does not model is kept as raw source text (RawStmt and
// RawExpr), so that every successfully parsed file can be printed back out.
package parsing

import (
	"context"
	"fmt"
	"strings"

	"github.com/NickyBoy89/pharbuild/nodeutil"
	"github.com/NickyBoy89/pharbuild/phpast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

// ParseError is returned when the source is not valid PHP
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func newParseError(node *sitter.Node, source []byte) *ParseError {
	parseErr := &ParseError{
		Line:   int(node.StartPoint().Row) + 1,
		Column: int(node.StartPoint().Column) + 1,
	}
	if node.IsMissing() {
		parseErr.Message = fmt.Sprintf("missing %s", node.Type())
		return parseErr
	}

	unexpected := strings.TrimSpace(node.Content(source))
	if first, _, found := strings.Cut(unexpected, "\n"); found {
		unexpected = first
	}
	if len(unexpected) > 32 {
		unexpected = unexpected[:32] + "..."
	}
	parseErr.Message = fmt.Sprintf("unexpected %q", unexpected)
	return parseErr
}

// Parse parses a whole PHP file. Any syntax error in the file fails the
// whole parse with a *ParseError
func Parse(source []byte) ([]phpast.Stmt, error) {
	return ParseContext(context.Background(), source)
}

func ParseContext(ctx context.Context, source []byte) ([]phpast.Stmt, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(php.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	if bad := nodeutil.FindErrorNode(root); bad != nil {
		return nil, newParseError(bad, source)
	}

	if err := nodeutil.AssertTypeIs(root, "program"); err != nil {
		return nil, err
	}

	return ParseProgram(root, source), nil
}

// ParseProgram converts the root `program` node of a tree
func ParseProgram(node *sitter.Node, source []byte) []phpast.Stmt {
	var nodes []*sitter.Node
	for _, child := range nodeutil.Children(node) {
		switch child.Type() {
		case "php_tag":
			continue
		case "text":
			// Text before the opening tag is closed back into php mode, which
			// produces the same output once the file starts with `<?php`
			if child.Content(source) != "" {
				nodes = append(nodes, child)
			}
			continue
		}
		nodes = append(nodes, child)
	}
	return ParseStmtList(nodes, source)
}
