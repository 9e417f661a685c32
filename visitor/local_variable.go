package visitor

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/keywords"
	"github.com/NickyBoy89/pharbuild/phpast"
	"github.com/NickyBoy89/pharbuild/renamer"
)

// nest is an outermost function-like node, together with every closure and
// arrow function declared inside of it. Closures only see variables of their
// parent through `use` clauses, and arrow functions share them, so renaming
// by name inside of a whole nest keeps every link intact
type nest struct {
	// Set when the nest reads variables in a way the tree does not model
	unsafe bool
	// Names that keep their original names inside of the nest
	keep map[string]bool
}

// LocalVariableRenaming renames parameters and local variables inside of
// functions, methods, and closures
type LocalVariableRenaming struct {
	renamer renamer.Renamer

	nests map[phpast.Node]*nest
	// The nest being visited, if it can be renamed
	current *nest
	depth   int
}

func NewLocalVariableRenaming(r renamer.Renamer) *LocalVariableRenaming {
	return &LocalVariableRenaming{renamer: r}
}

func isFunctionLike(node phpast.Node) bool {
	switch n := node.(type) {
	case *phpast.Function, *phpast.Closure, *phpast.ArrowFunc:
		return true
	case *phpast.ClassMethod:
		return n.HasBody
	}
	return false
}

func (v *LocalVariableRenaming) BeforeTraverse(stmts []phpast.Stmt) []phpast.Stmt {
	v.renamer.Init()
	v.nests = make(map[phpast.Node]*nest)
	v.current = nil
	v.depth = 0

	namedArgs := make(map[string]bool)
	var roots []phpast.Node
	depth := 0
	Traverse(&hooks{
		enter: func(node phpast.Node) {
			switch n := node.(type) {
			case *phpast.Variable:
				v.renamer.Reserve(n.Name)
			case *phpast.Param:
				v.renamer.Reserve(n.Name)
			case *phpast.ClosureUse:
				v.renamer.Reserve(n.Name)
			case *phpast.Catch:
				v.renamer.Reserve(n.Var)
			case *phpast.Arg:
				if n.Name != "" {
					namedArgs[n.Name] = true
				}
			}
			if isFunctionLike(node) {
				if depth == 0 {
					roots = append(roots, node)
				}
				depth++
			}
		},
		leave: func(node phpast.Node) {
			if isFunctionLike(node) {
				depth--
			}
		},
	}, stmts)

	for _, root := range roots {
		n := newNest(root)
		for name := range namedArgs {
			n.keep[name] = true
		}
		v.nests[root] = n
		if n.unsafe {
			log.WithField("type", nodeType(root)).Debug("Skipping local variables of a scope that reads variables by name")
		}
	}
	return nil
}

// newNest checks everything in a nest for dynamic variable access, and finds
// the names that belong to its signature
func newNest(root phpast.Node) *nest {
	n := &nest{keep: make(map[string]bool)}

	switch root := root.(type) {
	case *phpast.Function:
		// Parameter names are part of the signature since named arguments
		keepParams(n, root.Params)
	case *phpast.ClassMethod:
		if !root.Modifiers.IsPrivate() {
			keepParams(n, root.Params)
		}
		for _, param := range root.Params {
			if param.Promoted != 0 {
				n.keep[param.Name] = true
			}
		}
	case *phpast.Closure:
		// Imports variables from the file's scope
		if len(root.Uses) > 0 {
			n.unsafe = true
		}
	case *phpast.ArrowFunc:
		// Reads every variable of the file's scope
		n.unsafe = true
	}

	inspectNode(root, func(node phpast.Node) {
		switch node := node.(type) {
		case *phpast.RawStmt, *phpast.RawExpr:
			n.unsafe = true
		case *phpast.Literal:
			if IsInterpolated(node) {
				n.unsafe = true
			}
		case *phpast.FuncCall:
			if name, ok := node.Func.(*phpast.Name); ok && keywords.IsScopeIntrospection(name.Value) {
				n.unsafe = true
			}
		case *phpast.Unary:
			// Included files share the local scope
			if strings.HasPrefix(node.Op, "include") || strings.HasPrefix(node.Op, "require") {
				n.unsafe = true
			}
		}
	})
	return n
}

func keepParams(n *nest, params []*phpast.Param) {
	for _, param := range params {
		n.keep[param.Name] = true
	}
}

func (v *LocalVariableRenaming) EnterNode(node phpast.Node) Result {
	if isFunctionLike(node) {
		if v.depth == 0 {
			if n := v.nests[node]; n != nil && !n.unsafe {
				v.current = n
			}
		}
		v.depth++
	}
	if v.current == nil {
		return NoChange
	}

	switch n := node.(type) {
	case *phpast.Variable:
		return v.rewrite(n, &n.Name)
	case *phpast.Param:
		return v.rewrite(n, &n.Name)
	case *phpast.ClosureUse:
		return v.rewrite(n, &n.Name)
	case *phpast.Catch:
		if n.Var != "" {
			return v.rewrite(n, &n.Var)
		}
	}
	return NoChange
}

func (v *LocalVariableRenaming) LeaveNode(node phpast.Node) Result {
	if isFunctionLike(node) {
		v.depth--
		if v.depth == 0 {
			v.current = nil
		}
	}
	return NoChange
}

func (v *LocalVariableRenaming) AfterTraverse([]phpast.Stmt) []phpast.Stmt {
	return nil
}

func (v *LocalVariableRenaming) rewrite(node phpast.Node, name *string) Result {
	if keywords.IsReservedVariable(*name) || v.current.keep[*name] {
		return NoChange
	}
	v.renamer.Generate(*name)
	pseudonym, ok := v.renamer.Rename(*name)
	if !ok {
		return NoChange
	}
	*name = pseudonym
	return ReplaceWith(node)
}
