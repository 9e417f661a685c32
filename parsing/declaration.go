package parsing

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/astutil"
	"github.com/NickyBoy89/pharbuild/nodeutil"
	"github.com/NickyBoy89/pharbuild/phpast"
	log "github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"
)

// TryParseDecl converts any top-level declaration: namespaces, imports,
// class-likes, functions, and constants. It returns `nil` for any other node
func TryParseDecl(node *sitter.Node, source []byte) phpast.Stmt {
	switch node.Type() {
	case "namespace_definition":
		ns := &phpast.Namespace{}
		if name := node.ChildByFieldName("name"); name != nil {
			ns.Name = cleanName(name.Content(source))
		}
		if body := node.ChildByFieldName("body"); body != nil {
			ns.Braced = true
			ns.Stmts = ParseStmtList(nodeutil.Children(body), source)
		}
		return ns
	case "namespace_use_declaration":
		return parseUse(node, source)
	case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
		return parseClass(node, source)
	case "function_definition":
		name := node.ChildByFieldName("name")
		body := node.ChildByFieldName("body")
		params := node.ChildByFieldName("parameters")
		if name == nil || body == nil || params == nil {
			return nil
		}
		return &phpast.Function{
			Attributes: attributesOf(node, source),
			ByRef:      hasReference(node),
			Name:       name.Content(source),
			Params:     ParseParams(params, source),
			ReturnType: parseReturnType(node, source),
			Stmts:      ParseStmtList(nodeutil.Children(body), source),
		}
	case "const_declaration":
		// Constants inside a class body are handled by the member parser
		consts := parseConstElements(node, source)
		if consts == nil {
			return nil
		}
		return &phpast.Const{Consts: consts}
	}
	return nil
}

func parseReturnType(node *sitter.Node, source []byte) *phpast.TypeHint {
	if returnType := returnTypeOf(node, source); returnType != nil {
		return astutil.ParseType(returnType, source)
	}
	return nil
}

func parseUse(node *sitter.Node, source []byte) phpast.Stmt {
	text := node.Content(source)
	if strings.Contains(text, "/*") || strings.Contains(text, "//") || strings.Contains(text, "#") {
		return nil
	}

	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimSpace(text[len("use"):])
	kind, text := parseUseKind(text)

	use := &phpast.Use{Kind: kind}

	// Group uses are flattened into their full names
	// Ex: use Foo\{Bar, Baz as Qux};
	if open := strings.IndexByte(text, '{'); open != -1 {
		prefix := strings.Trim(cleanName(text[:open]), `\`)
		inner := strings.TrimSuffix(strings.TrimSpace(text[open+1:]), "}")

		var clauseKinds []phpast.UseKind
		for _, clauseText := range strings.Split(inner, ",") {
			if strings.TrimSpace(clauseText) == "" {
				continue
			}
			clauseKind, clauseText := parseUseKind(strings.TrimSpace(clauseText))
			clauseKinds = append(clauseKinds, clauseKind)
			// Mixed kinds in one group cannot be flattened into a single
			// statement
			if clauseKind != clauseKinds[0] || (kind != phpast.UseNormal && clauseKind != phpast.UseNormal) {
				return nil
			}
			if kind == phpast.UseNormal {
				use.Kind = clauseKind
			}
			clause := parseUseClause(clauseText)
			if clause == nil {
				return nil
			}
			clause.Name = prefix + `\` + clause.Name
			use.Uses = append(use.Uses, clause)
		}
		if len(use.Uses) == 0 {
			return nil
		}
		return use
	}

	for _, clauseText := range strings.Split(text, ",") {
		clause := parseUseClause(clauseText)
		if clause == nil {
			return nil
		}
		use.Uses = append(use.Uses, clause)
	}
	return use
}

func parseUseKind(text string) (phpast.UseKind, string) {
	fields := strings.Fields(text)
	if len(fields) > 1 {
		switch strings.ToLower(fields[0]) {
		case "function":
			return phpast.UseFunction, strings.TrimSpace(text[len("function"):])
		case "const":
			return phpast.UseConstant, strings.TrimSpace(text[len("const"):])
		}
	}
	return phpast.UseNormal, text
}

// parseUseClause parses `Name` or `Name as Alias`
func parseUseClause(text string) *phpast.UseClause {
	fields := strings.Fields(text)
	switch {
	case len(fields) == 1:
		return &phpast.UseClause{Name: strings.TrimPrefix(fields[0], `\`)}
	case len(fields) == 3 && strings.EqualFold(fields[1], "as"):
		return &phpast.UseClause{Name: strings.TrimPrefix(fields[0], `\`), Alias: fields[2]}
	}
	log.WithField("clause", text).Debug("Unrecognized use clause")
	return nil
}

func parseClass(node *sitter.Node, source []byte) phpast.Stmt {
	class := &phpast.Class{
		Attributes: attributesOf(node, source),
		Modifiers:  modifiersOf(node, source),
	}

	switch node.Type() {
	case "interface_declaration":
		class.Kind = phpast.KindInterface
	case "trait_declaration":
		class.Kind = phpast.KindTrait
	case "enum_declaration":
		class.Kind = phpast.KindEnum
	}

	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return nil
	}
	class.Name = name.Content(source)

	for _, child := range nodeutil.Children(node) {
		switch child.Type() {
		case "base_clause":
			class.Extends = parseNameList(child, source)
		case "class_interface_clause":
			class.Implements = parseNameList(child, source)
		default:
			// Enums can be backed by a scalar type
			if isTypeNode(child) {
				class.BackingType = astutil.ParseType(child, source)
			}
		}
	}

	for _, member := range nodeutil.Children(body) {
		class.Stmts = append(class.Stmts, ParseMember(member, source))
	}

	return class
}

func parseNameList(node *sitter.Node, source []byte) []*phpast.Name {
	var names []*phpast.Name
	for _, child := range namedChildren(node) {
		names = append(names, &phpast.Name{Value: cleanName(child.Content(source)), Kind: phpast.NameClass})
	}
	return names
}

// ParseMember converts a single declaration inside of a class-like body
func ParseMember(node *sitter.Node, source []byte) phpast.Stmt {
	if member := TryParseMember(node, source); member != nil {
		return member
	}
	log.WithFields(log.Fields{
		"type": node.Type(),
		"line": node.StartPoint().Row + 1,
	}).Debug("Keeping class member as raw source")
	return &phpast.RawStmt{Text: node.Content(source)}
}

func TryParseMember(node *sitter.Node, source []byte) phpast.Stmt {
	switch node.Type() {
	case "comment":
		return &phpast.Comment{Text: node.Content(source)}
	case "property_declaration":
		prop := &phpast.Property{
			Attributes: attributesOf(node, source),
			Modifiers:  modifiersOf(node, source),
		}
		for _, child := range nodeutil.Children(node) {
			switch {
			case isTypeNode(child):
				prop.Type = astutil.ParseType(child, source)
			case child.Type() == "property_element":
				item := parsePropertyElement(child, source)
				if item == nil {
					return nil
				}
				prop.Props = append(prop.Props, item)
			}
		}
		if len(prop.Props) == 0 {
			return nil
		}
		return prop
	case "const_declaration", "class_const_declaration":
		consts := parseConstElements(node, source)
		if consts == nil {
			return nil
		}
		return &phpast.ClassConst{
			Attributes: attributesOf(node, source),
			Modifiers:  modifiersOf(node, source),
			Consts:     consts,
		}
	case "method_declaration":
		name := node.ChildByFieldName("name")
		params := node.ChildByFieldName("parameters")
		if name == nil || params == nil {
			return nil
		}
		method := &phpast.ClassMethod{
			Attributes: attributesOf(node, source),
			Modifiers:  modifiersOf(node, source),
			ByRef:      hasReference(node),
			Name:       name.Content(source),
			Params:     ParseParams(params, source),
			ReturnType: parseReturnType(node, source),
		}
		if body := node.ChildByFieldName("body"); body != nil {
			method.HasBody = true
			method.Stmts = ParseStmtList(nodeutil.Children(body), source)
		}
		return method
	case "use_declaration":
		use := &phpast.TraitUse{}
		for _, child := range namedChildren(node) {
			switch child.Type() {
			case "name", "qualified_name":
				use.Traits = append(use.Traits, &phpast.Name{Value: cleanName(child.Content(source)), Kind: phpast.NameClass})
			case "use_list":
				use.Adaptations = child.Content(source)
			default:
				return nil
			}
		}
		return use
	case "enum_case":
		enumCase := &phpast.EnumCase{Attributes: attributesOf(node, source)}
		name := node.ChildByFieldName("name")
		if name == nil {
			name = nodeutil.FirstChildOfType(node, "name")
		}
		if name == nil {
			return nil
		}
		enumCase.Name = name.Content(source)
		if value := node.ChildByFieldName("value"); value != nil {
			enumCase.Value = ParseExpr(value, source)
		} else {
			for _, child := range namedChildren(node) {
				if !sameNode(child, name) && child.Type() != "attribute_list" {
					enumCase.Value = ParseExpr(child, source)
				}
			}
		}
		return enumCase
	}
	return nil
}

func parsePropertyElement(node *sitter.Node, source []byte) *phpast.PropertyItem {
	item := &phpast.PropertyItem{}
	for _, child := range namedChildren(node) {
		switch child.Type() {
		case "variable_name":
			item.Name = strings.TrimPrefix(child.Content(source), "$")
		case "property_initializer":
			item.Default = ParseExpr(firstNamed(child), source)
		default:
			item.Default = ParseExpr(child, source)
		}
	}
	if item.Name == "" {
		return nil
	}
	return item
}

// parseConstElements converts every `NAME = value` pair of a constant
// declaration, returning nil if any of them is malformed
func parseConstElements(node *sitter.Node, source []byte) []*phpast.ConstItem {
	var consts []*phpast.ConstItem
	for _, element := range nodeutil.ChildrenOfType(node, "const_element") {
		children := namedChildren(element)
		if len(children) != 2 {
			return nil
		}
		consts = append(consts, &phpast.ConstItem{
			Name:  children[0].Content(source),
			Value: ParseExpr(children[1], source),
		})
	}
	return consts
}

// ParseParams converts a `formal_parameters` node
func ParseParams(node *sitter.Node, source []byte) []*phpast.Param {
	var params []*phpast.Param
	for _, child := range namedChildren(node) {
		params = append(params, parseParam(child, source))
	}
	return params
}

func parseParam(node *sitter.Node, source []byte) *phpast.Param {
	param := &phpast.Param{Attributes: attributesOf(node, source)}
	if node.Type() == "property_promotion_parameter" {
		param.Promoted = modifiersOf(node, source)
		if param.Promoted == 0 {
			param.Promoted = phpast.ModPublic
		}
	}

	var afterEquals bool
	for _, child := range nodeutil.UnnamedChildren(node) {
		switch {
		case child.Type() == "=":
			afterEquals = true
		case child.Type() == "&" || child.Type() == "reference_modifier":
			param.ByRef = true
		case child.Type() == "...":
			param.Variadic = true
		case !child.IsNamed() || child.Type() == "comment":
		case afterEquals:
			param.Default = ParseExpr(child, source)
		case isTypeNode(child):
			param.Type = astutil.ParseType(child, source)
		case child.Type() == "variable_name":
			param.Name = strings.TrimPrefix(child.Content(source), "$")
		}
	}

	if node.Type() == "variadic_parameter" {
		param.Variadic = true
	}
	return param
}
