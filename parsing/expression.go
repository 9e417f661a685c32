package parsing

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/nodeutil"
	"github.com/NickyBoy89/pharbuild/phpast"
	log "github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"
)

// ParseExpr converts an expression, falling back to a raw expression for
// anything the tree does not model
func ParseExpr(node *sitter.Node, source []byte) phpast.Expr {
	if expr := TryParseExpr(node, source); expr != nil {
		return expr
	}
	log.WithFields(log.Fields{
		"type": node.Type(),
		"line": node.StartPoint().Row + 1,
	}).Debug("Keeping expression as raw source")
	return &phpast.RawExpr{Text: node.Content(source)}
}

// TryParseExpr is the underlying function for ParseExpr, returning `nil` on
// any node that it cannot convert
func TryParseExpr(node *sitter.Node, source []byte) phpast.Expr {
	switch node.Type() {
	case "variable_name":
		return &phpast.Variable{Name: strings.TrimPrefix(node.Content(source), "$")}
	case "name", "qualified_name":
		return &phpast.ConstFetch{Name: parseName(node, source, phpast.NameConstant)}
	case "integer", "float":
		return &phpast.Literal{Kind: phpast.LitNumber, Value: node.Content(source)}
	case "string", "encapsed_string":
		return &phpast.Literal{Kind: phpast.LitString, Value: node.Content(source)}
	case "heredoc", "nowdoc":
		return &phpast.Literal{Kind: phpast.LitHeredoc, Value: node.Content(source)}
	case "boolean":
		return &phpast.Literal{Kind: phpast.LitBool, Value: node.Content(source)}
	case "null":
		return &phpast.Literal{Kind: phpast.LitNull, Value: node.Content(source)}
	case "parenthesized_expression":
		inner := firstNamed(node)
		if inner == nil {
			return nil
		}
		return &phpast.Paren{X: ParseExpr(inner, source)}
	case "assignment_expression", "reference_assignment_expression":
		left := node.ChildByFieldName("left")
		right := node.ChildByFieldName("right")
		if left == nil || right == nil {
			return nil
		}
		return &phpast.Assign{
			Left:  parseAssignTarget(left, source),
			Op:    "=",
			ByRef: node.Type() == "reference_assignment_expression" || nodeutil.HasToken(node, "&"),
			Right: ParseExpr(right, source),
		}
	case "augmented_assignment_expression":
		left := node.ChildByFieldName("left")
		right := node.ChildByFieldName("right")
		op := operatorOf(node, source)
		if left == nil || right == nil || op == "" {
			return nil
		}
		return &phpast.Assign{
			Left:  ParseExpr(left, source),
			Op:    op,
			Right: ParseExpr(right, source),
		}
	case "binary_expression":
		left := node.ChildByFieldName("left")
		right := node.ChildByFieldName("right")
		op := operatorOf(node, source)
		if left == nil || right == nil || op == "" {
			return nil
		}
		binary := &phpast.Binary{
			Left:  ParseExpr(left, source),
			Op:    op,
			Right: ParseExpr(right, source),
		}
		// The right side of `instanceof` names a class
		if strings.EqualFold(op, "instanceof") {
			binary.Op = "instanceof"
			binary.Right = parseClassRef(right, source)
		}
		return binary
	case "unary_op_expression":
		op := operatorOf(node, source)
		x := firstNamed(node)
		if op == "" || x == nil {
			return nil
		}
		return &phpast.Unary{Op: op, X: ParseExpr(x, source)}
	case "error_suppression_expression":
		return parseKeywordUnary(node, source, "@")
	case "clone_expression":
		return parseKeywordUnary(node, source, "clone")
	case "print_intrinsic":
		return parseKeywordUnary(node, source, "print")
	case "include_expression":
		return parseKeywordUnary(node, source, "include")
	case "include_once_expression":
		return parseKeywordUnary(node, source, "include_once")
	case "require_expression":
		return parseKeywordUnary(node, source, "require")
	case "require_once_expression":
		return parseKeywordUnary(node, source, "require_once")
	case "update_expression":
		x := firstNamed(node)
		op := operatorOf(node, source)
		if x == nil || op == "" {
			return nil
		}
		// A post-update expression has the variable first, e.g. `i++`
		return &phpast.IncDec{
			Op:     op,
			Prefix: !node.Child(0).IsNamed(),
			X:      ParseExpr(x, source),
		}
	case "cast_expression":
		castType := node.ChildByFieldName("type")
		value := node.ChildByFieldName("value")
		if castType == nil || value == nil {
			return nil
		}
		return &phpast.Cast{
			Type: strings.ToLower(cleanName(castType.Content(source))),
			X:    ParseExpr(value, source),
		}
	case "conditional_expression":
		cond := node.ChildByFieldName("condition")
		alternative := node.ChildByFieldName("alternative")
		if cond == nil || alternative == nil {
			return nil
		}
		ternary := &phpast.Ternary{
			Cond: ParseExpr(cond, source),
			Else: ParseExpr(alternative, source),
		}
		if body := node.ChildByFieldName("body"); body != nil {
			ternary.Then = ParseExpr(body, source)
		}
		return ternary
	case "throw_expression":
		x := firstNamed(node)
		if x == nil {
			return nil
		}
		return &phpast.ThrowExpr{X: ParseExpr(x, source)}
	case "object_creation_expression":
		return parseNew(node, source)
	case "function_call_expression":
		function := node.ChildByFieldName("function")
		arguments := node.ChildByFieldName("arguments")
		if function == nil || arguments == nil {
			return nil
		}
		args, ok := parseArgs(arguments, source)
		if !ok {
			return nil
		}
		call := &phpast.FuncCall{Args: args}
		switch function.Type() {
		case "name", "qualified_name":
			call.Func = parseName(function, source, phpast.NameFunction)
		default:
			call.Func = ParseExpr(function, source)
		}
		return call
	case "member_access_expression", "nullsafe_member_access_expression":
		object := node.ChildByFieldName("object")
		name := node.ChildByFieldName("name")
		if object == nil || name == nil {
			return nil
		}
		fetch := &phpast.PropertyFetch{
			X:        ParseExpr(object, source),
			Nullsafe: node.Type() == "nullsafe_member_access_expression",
		}
		if !setMemberName(name, source, &fetch.Name, &fetch.NameExpr) {
			return nil
		}
		return fetch
	case "member_call_expression", "nullsafe_member_call_expression":
		object := node.ChildByFieldName("object")
		name := node.ChildByFieldName("name")
		arguments := node.ChildByFieldName("arguments")
		if object == nil || name == nil || arguments == nil {
			return nil
		}
		args, ok := parseArgs(arguments, source)
		if !ok {
			return nil
		}
		call := &phpast.MethodCall{
			X:        ParseExpr(object, source),
			Nullsafe: node.Type() == "nullsafe_member_call_expression",
			Args:     args,
		}
		if !setMemberName(name, source, &call.Name, &call.NameExpr) {
			return nil
		}
		return call
	case "scoped_call_expression":
		scope := node.ChildByFieldName("scope")
		name := node.ChildByFieldName("name")
		arguments := node.ChildByFieldName("arguments")
		if scope == nil || name == nil || arguments == nil {
			return nil
		}
		args, ok := parseArgs(arguments, source)
		if !ok {
			return nil
		}
		call := &phpast.StaticCall{Class: parseClassRef(scope, source), Args: args}
		if !setMemberName(name, source, &call.Name, &call.NameExpr) {
			return nil
		}
		return call
	case "scoped_property_access_expression":
		scope := node.ChildByFieldName("scope")
		name := node.ChildByFieldName("name")
		if scope == nil || name == nil || name.Type() != "variable_name" {
			return nil
		}
		return &phpast.StaticPropertyFetch{
			Class: parseClassRef(scope, source),
			Name:  strings.TrimPrefix(name.Content(source), "$"),
		}
	case "class_constant_access_expression":
		children := namedChildren(node)
		if len(children) == 0 {
			return nil
		}
		text := node.Content(source)
		separator := strings.LastIndex(text, "::")
		if separator == -1 {
			return nil
		}
		return &phpast.ClassConstFetch{
			Class: parseClassRef(children[0], source),
			Name:  strings.TrimSpace(text[separator+2:]),
		}
	case "subscript_expression":
		// The removed `$a{0}` syntax is not modeled
		if nodeutil.HasToken(node, "{") {
			return nil
		}
		children := namedChildren(node)
		switch len(children) {
		case 1:
			return &phpast.Index{X: ParseExpr(children[0], source)}
		case 2:
			return &phpast.Index{X: ParseExpr(children[0], source), Index: ParseExpr(children[1], source)}
		}
		return nil
	case "array_creation_expression":
		return parseArray(node, source)
	case "anonymous_function_creation_expression", "anonymous_function":
		return parseClosure(node, source)
	case "arrow_function":
		params := node.ChildByFieldName("parameters")
		body := node.ChildByFieldName("body")
		if params == nil || body == nil {
			return nil
		}
		return &phpast.ArrowFunc{
			Static:     isStaticFunction(node),
			ByRef:      hasReference(node),
			Params:     ParseParams(params, source),
			ReturnType: parseReturnType(node, source),
			X:          ParseExpr(body, source),
		}
	}
	return nil
}

func parseName(node *sitter.Node, source []byte, kind phpast.NameKind) *phpast.Name {
	return &phpast.Name{Value: cleanName(node.Content(source)), Kind: kind}
}

// parseClassRef converts the class part of `new`, `::`, or `instanceof`,
// which is either a class name or an expression evaluating to one
func parseClassRef(node *sitter.Node, source []byte) phpast.Expr {
	switch node.Type() {
	case "name", "qualified_name", "relative_scope", "named_type":
		return parseName(node, source, phpast.NameClass)
	}
	return ParseExpr(node, source)
}

// parseAssignTarget keeps destructuring targets as raw source, since elided
// entries such as `[, $b]` are not modeled
func parseAssignTarget(node *sitter.Node, source []byte) phpast.Expr {
	switch node.Type() {
	case "list_literal", "array_creation_expression":
		return &phpast.RawExpr{Text: node.Content(source)}
	}
	return ParseExpr(node, source)
}

func setMemberName(node *sitter.Node, source []byte, name *string, nameExpr *phpast.Expr) bool {
	switch node.Type() {
	case "name", "reserved_identifier":
		*name = node.Content(source)
		return true
	case "variable_name":
		*nameExpr = ParseExpr(node, source)
		return true
	}
	return false
}

// operatorOf returns the operator token of an operator expression
func operatorOf(node *sitter.Node, source []byte) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return op.Content(source)
	}
	for _, child := range nodeutil.UnnamedChildren(node) {
		if !child.IsNamed() {
			return child.Content(source)
		}
	}
	return ""
}

func parseKeywordUnary(node *sitter.Node, source []byte, op string) phpast.Expr {
	x := firstNamed(node)
	if x == nil {
		return nil
	}
	return &phpast.Unary{Op: op, X: ParseExpr(x, source)}
}

func parseNew(node *sitter.Node, source []byte) phpast.Expr {
	// Anonymous classes are not modeled
	if nodeutil.HasToken(node, "class") || nodeutil.FirstChildOfType(node, "declaration_list") != nil {
		return nil
	}

	children := namedChildren(node)
	if len(children) == 0 {
		return nil
	}

	expr := &phpast.New{Class: parseClassRef(children[0], source)}
	if arguments := nodeutil.FirstChildOfType(node, "arguments"); arguments != nil {
		args, ok := parseArgs(arguments, source)
		if !ok {
			return nil
		}
		expr.HasArgs = true
		expr.Args = args
	}
	return expr
}

// parseArgs converts an argument list. First-class callable syntax,
// `foo(...)`, is not modeled, and is reported as not ok
func parseArgs(node *sitter.Node, source []byte) ([]*phpast.Arg, bool) {
	var args []*phpast.Arg
	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "variadic_placeholder":
			return nil, false
		case "variadic_unpacking":
			args = append(args, &phpast.Arg{Unpack: true, Value: ParseExpr(firstNamed(child), source)})
		case "argument":
			arg := &phpast.Arg{}
			children := namedChildren(child)
			if len(children) == 0 {
				return nil, false
			}
			if name := child.ChildByFieldName("name"); name != nil {
				arg.Name = name.Content(source)
			}
			value := children[len(children)-1]
			if value.Type() == "variadic_unpacking" {
				arg.Unpack = true
				value = firstNamed(value)
			}
			arg.Unpack = arg.Unpack || nodeutil.HasToken(child, "...")
			arg.Value = ParseExpr(value, source)
			args = append(args, arg)
		default:
			args = append(args, &phpast.Arg{Value: ParseExpr(child, source)})
		}
	}
	return args, true
}

func parseArray(node *sitter.Node, source []byte) phpast.Expr {
	// Elided entries (`[, $b]`) are only valid when destructuring, and are
	// not modeled
	var previous string
	for _, child := range nodeutil.UnnamedChildren(node) {
		if child.Type() == "," && (previous == "," || previous == "[" || previous == "(") {
			return nil
		}
		previous = child.Type()
	}

	array := &phpast.Array{}
	for _, element := range nodeutil.ChildrenOfType(node, "array_element_initializer") {
		item := &phpast.ArrayItem{}
		children := namedChildren(element)
		if len(children) == 0 {
			return nil
		}

		if nodeutil.HasToken(element, "=>") {
			if len(children) != 2 {
				return nil
			}
			item.Key = ParseExpr(children[0], source)
		}

		value := children[len(children)-1]
		switch value.Type() {
		case "by_ref":
			item.ByRef = true
			value = firstNamed(value)
		case "variadic_unpacking":
			item.Unpack = true
			value = firstNamed(value)
		}
		item.ByRef = item.ByRef || nodeutil.HasToken(element, "&")
		item.Unpack = item.Unpack || nodeutil.HasToken(element, "...")
		if value == nil {
			return nil
		}
		item.Value = ParseExpr(value, source)
		array.Items = append(array.Items, item)
	}
	return array
}

func parseClosure(node *sitter.Node, source []byte) phpast.Expr {
	params := node.ChildByFieldName("parameters")
	body := node.ChildByFieldName("body")
	if params == nil || body == nil {
		return nil
	}

	closure := &phpast.Closure{
		Static:     isStaticFunction(node),
		ByRef:      hasReference(node),
		Params:     ParseParams(params, source),
		ReturnType: parseReturnType(node, source),
		Stmts:      ParseStmtList(nodeutil.Children(body), source),
	}

	if uses := nodeutil.FirstChildOfType(node, "anonymous_function_use_clause"); uses != nil {
		var byRef bool
		for _, child := range nodeutil.UnnamedChildren(uses) {
			switch child.Type() {
			case "&":
				byRef = true
			case "by_ref":
				variable := firstNamed(child)
				if variable == nil {
					return nil
				}
				closure.Uses = append(closure.Uses, &phpast.ClosureUse{ByRef: true, Name: strings.TrimPrefix(variable.Content(source), "$")})
			case "variable_name":
				closure.Uses = append(closure.Uses, &phpast.ClosureUse{ByRef: byRef, Name: strings.TrimPrefix(child.Content(source), "$")})
				byRef = false
			}
		}
	}

	return closure
}

func isStaticFunction(node *sitter.Node) bool {
	return nodeutil.HasToken(node, "static") || nodeutil.FirstChildOfType(node, "static_modifier") != nil
}
