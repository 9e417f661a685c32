package visitor

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/keywords"
	"github.com/NickyBoy89/pharbuild/phpast"
	"github.com/NickyBoy89/pharbuild/renamer"
	"github.com/NickyBoy89/pharbuild/symbol"
)

// MemberRenaming renames the private members of a single kind (properties,
// methods, or class constants) of every class in the tree, along with every
// place they are accessed from inside of their class
//
// Usages are matched by name: `$other->name` inside of a class that declares
// a private `name` is renamed, whatever `$other` is
type MemberRenaming struct {
	kind    symbol.Kind
	renamer renamer.Renamer

	// The original names renamed in each class, by key
	renamed map[*phpast.Class]map[string]bool
	classes []*phpast.Class
}

// NewPrivatePropertyRenaming renames private properties, static or not
func NewPrivatePropertyRenaming(r renamer.Renamer) *MemberRenaming {
	return &MemberRenaming{kind: symbol.KindProperty, renamer: r}
}

// NewPrivateMethodRenaming renames private methods. Magic methods are called
// by name, and keep their names
func NewPrivateMethodRenaming(r renamer.Renamer) *MemberRenaming {
	renamer.FoldCase(r)
	return &MemberRenaming{kind: symbol.KindMethod, renamer: r}
}

func NewPrivateConstRenaming(r renamer.Renamer) *MemberRenaming {
	return &MemberRenaming{kind: symbol.KindConstant, renamer: r}
}

// key normalizes a name for the renamer. Method names are case-insensitive
func (v *MemberRenaming) key(name string) string {
	if v.kind == symbol.KindMethod {
		return strings.ToLower(name)
	}
	return name
}

func (v *MemberRenaming) BeforeTraverse(stmts []phpast.Stmt) []phpast.Stmt {
	v.renamer.Init()
	v.renamed = make(map[*phpast.Class]map[string]bool)
	v.classes = nil

	scope := symbol.ParseSymbols(stmts)
	opaque := OpaqueWords(stmts)

	// Names that stay in the tree can not be used as pseudonyms
	for _, name := range v.usedNames(stmts) {
		v.renamer.Reserve(name)
	}
	for word := range opaque {
		v.renamer.Reserve(word)
	}

	for _, class := range scope.Classes {
		renamed := make(map[string]bool)
		for _, def := range class.Members(v.kind) {
			if !def.IsPrivate() || scope.IsExposed(v.kind, def.OriginalName) || opaque[def.OriginalName] {
				continue
			}
			if v.kind == symbol.KindMethod && keywords.IsMagicMethod(def.OriginalName) {
				continue
			}

			key := v.key(def.OriginalName)
			v.renamer.Generate(key)
			pseudonym, ok := v.renamer.Rename(key)
			if !ok {
				continue
			}
			def.Rename(pseudonym)
			renamed[key] = true
		}
		v.renameDeclarations(class)
		v.renamed[class.Node] = renamed
	}

	return nil
}

// renameDeclarations applies the names chosen for the class's definitions to
// the declarations themselves
func (v *MemberRenaming) renameDeclarations(class *symbol.ClassScope) {
	renameTo := func(finder symbol.Finder, name *string) {
		for _, def := range finder.ByOriginalName(*name) {
			if def.Name != def.OriginalName && !def.Promoted {
				log.WithFields(log.Fields{
					"kind": v.kind,
					"from": def.OriginalName,
					"to":   def.Name,
				}).Debug("Renaming private member")
				*name = def.Name
				return
			}
		}
	}

	for _, member := range class.Node.Stmts {
		switch member := member.(type) {
		case *phpast.Property:
			if v.kind == symbol.KindProperty {
				for _, prop := range member.Props {
					renameTo(class.FindProperty(), &prop.Name)
				}
			}
		case *phpast.ClassMethod:
			if v.kind == symbol.KindMethod {
				renameTo(class.FindMethod(), &member.Name)
			}
		case *phpast.ClassConst:
			if v.kind == symbol.KindConstant {
				for _, constant := range member.Consts {
					renameTo(class.FindConstant(), &constant.Name)
				}
			}
		}
	}
}

// usedNames lists every name of the visitor's kind that the tree declares or
// accesses
func (v *MemberRenaming) usedNames(stmts []phpast.Stmt) []string {
	var names []string
	Inspect(stmts, func(node phpast.Node) {
		switch n := node.(type) {
		case *phpast.PropertyItem:
			if v.kind == symbol.KindProperty {
				names = append(names, n.Name)
			}
		case *phpast.Param:
			if v.kind == symbol.KindProperty && n.Promoted != 0 {
				names = append(names, n.Name)
			}
		case *phpast.PropertyFetch:
			if v.kind == symbol.KindProperty {
				names = append(names, n.Name)
			}
		case *phpast.StaticPropertyFetch:
			if v.kind == symbol.KindProperty {
				names = append(names, n.Name)
			}
		case *phpast.ClassMethod:
			if v.kind == symbol.KindMethod {
				names = append(names, n.Name)
			}
		case *phpast.MethodCall:
			if v.kind == symbol.KindMethod {
				names = append(names, n.Name)
			}
		case *phpast.StaticCall:
			if v.kind == symbol.KindMethod {
				names = append(names, n.Name)
			}
		case *phpast.ConstItem:
			if v.kind == symbol.KindConstant {
				names = append(names, n.Name)
			}
		case *phpast.ClassConstFetch:
			if v.kind == symbol.KindConstant {
				names = append(names, n.Name)
			}
		}
	})
	return names
}

func (v *MemberRenaming) EnterNode(node phpast.Node) Result {
	switch n := node.(type) {
	case *phpast.Class:
		v.classes = append(v.classes, n)
	case *phpast.PropertyFetch:
		if v.kind == symbol.KindProperty {
			return v.rewrite(n, &n.Name)
		}
	case *phpast.StaticPropertyFetch:
		if v.kind == symbol.KindProperty && !isParent(n.Class) {
			return v.rewrite(n, &n.Name)
		}
	case *phpast.MethodCall:
		if v.kind == symbol.KindMethod {
			return v.rewrite(n, &n.Name)
		}
	case *phpast.StaticCall:
		if v.kind == symbol.KindMethod && !isParent(n.Class) {
			return v.rewrite(n, &n.Name)
		}
	case *phpast.ClassConstFetch:
		if v.kind == symbol.KindConstant && !isParent(n.Class) && !strings.EqualFold(n.Name, "class") {
			return v.rewrite(n, &n.Name)
		}
	}
	return NoChange
}

func (v *MemberRenaming) LeaveNode(node phpast.Node) Result {
	if _, ok := node.(*phpast.Class); ok && len(v.classes) > 0 {
		v.classes = v.classes[:len(v.classes)-1]
	}
	return NoChange
}

func (v *MemberRenaming) AfterTraverse([]phpast.Stmt) []phpast.Stmt {
	return nil
}

// rewrite renames a member access, if the enclosing class renamed the member
func (v *MemberRenaming) rewrite(node phpast.Node, name *string) Result {
	// Dynamic access, such as `$a->$b`
	if *name == "" || len(v.classes) == 0 {
		return NoChange
	}
	key := v.key(*name)
	if !v.renamed[v.classes[len(v.classes)-1]][key] {
		return NoChange
	}

	pseudonym, ok := v.renamer.Rename(key)
	if !ok {
		return NoChange
	}
	*name = pseudonym
	return ReplaceWith(node)
}

// isParent reports whether a class reference is `parent`, whose members
// belong to another class
func isParent(class phpast.Expr) bool {
	name, ok := class.(*phpast.Name)
	return ok && strings.EqualFold(name.Value, "parent")
}
