package visitor

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/phpast"
	"github.com/NickyBoy89/pharbuild/renamer"
	"github.com/NickyBoy89/pharbuild/symbol"
)

// ImportRenaming gives every imported name a new alias, and rewrites the
// references that go through the import
//
// Each namespace has its own imports. The global scope is kept under the nil
// namespace
type ImportRenaming struct {
	renamer renamer.Renamer

	// New local names, keyed by namespace, then by symbol.ImportKey
	aliases map[*phpast.Namespace]map[string]string
	current map[string]string
}

func NewImportRenaming(r renamer.Renamer) *ImportRenaming {
	// Class and function names are case-insensitive
	renamer.FoldCase(r)
	return &ImportRenaming{renamer: r}
}

func (v *ImportRenaming) BeforeTraverse(stmts []phpast.Stmt) []phpast.Stmt {
	v.renamer.Init()
	v.aliases = make(map[*phpast.Namespace]map[string]string)

	opaque := make(map[string]bool)
	for word := range OpaqueWords(stmts) {
		opaque[strings.ToLower(word)] = true
	}

	for _, scope := range namespaceScopes(stmts) {
		taken := namesTakenIn(scope.stmts)
		for word := range opaque {
			taken[word] = true
		}
		for name := range taken {
			v.renamer.Reserve(name)
		}
		v.aliases[scope.namespace] = v.renameImports(scope.stmts, taken, opaque)
	}
	v.current = v.aliases[nil]
	return nil
}

// renameImports chooses new aliases for the imports of a single namespace, and
// applies them to the use statements
func (v *ImportRenaming) renameImports(stmts []phpast.Stmt, taken, opaque map[string]bool) map[string]string {
	aliases := make(map[string]string)
	for _, stmt := range stmts {
		use, ok := stmt.(*phpast.Use)
		if !ok {
			continue
		}
		for _, clause := range use.Uses {
			local := clause.Local()
			key := symbol.ImportKey(use.Kind, local)
			if opaque[strings.ToLower(local)] {
				continue
			}
			if alias, ok := aliases[key]; ok {
				clause.Alias = alias
				continue
			}

			v.renamer.Generate(key)
			alias, ok := v.renamer.Rename(key)
			if !ok || (taken[strings.ToLower(alias)] && !strings.EqualFold(alias, local)) {
				log.WithField("import", clause.Name).Debug("Import alias is already taken, keeping it")
				continue
			}
			taken[strings.ToLower(alias)] = true
			aliases[key] = alias
			clause.Alias = alias
		}
	}
	return aliases
}

func (v *ImportRenaming) EnterNode(node phpast.Node) Result {
	switch n := node.(type) {
	case *phpast.Namespace:
		v.current = v.aliases[n]
	case *phpast.Name:
		if n.FullyQualified() || n.Relative() || n.Special() {
			return NoChange
		}
		if n.Qualified() {
			// The first segment of a qualified name always goes through a class import
			if alias, ok := v.current[symbol.ImportKey(phpast.UseNormal, n.First())]; ok {
				n.Value = alias + n.Rest()
				return ReplaceWith(n)
			}
			return NoChange
		}
		if alias, ok := v.current[symbol.ImportKey(symbol.UseKindOf(n.Kind), n.Value)]; ok {
			n.Value = alias
			return ReplaceWith(n)
		}
	}
	return NoChange
}

func (v *ImportRenaming) LeaveNode(node phpast.Node) Result {
	if _, ok := node.(*phpast.Namespace); ok {
		v.current = v.aliases[nil]
	}
	return NoChange
}

func (v *ImportRenaming) AfterTraverse([]phpast.Stmt) []phpast.Stmt {
	return nil
}

// scope is a list of statements that share their imports
type scope struct {
	// nil for the statements outside of any namespace
	namespace *phpast.Namespace
	stmts     []phpast.Stmt
}

// namespaceScopes splits the tree into the statements of each namespace
func namespaceScopes(stmts []phpast.Stmt) []scope {
	scopes := []scope{{stmts: stmts}}
	for _, stmt := range stmts {
		if ns, ok := stmt.(*phpast.Namespace); ok {
			scopes = append(scopes, scope{namespace: ns, stmts: ns.Stmts})
		}
	}
	return scopes
}

// namesTakenIn collects every lowercase name that an alias in the statements
// could clash with: existing aliases, declared names, and names referenced
// without qualification
func namesTakenIn(stmts []phpast.Stmt) map[string]bool {
	taken := make(map[string]bool)
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *phpast.Namespace:
			continue
		case *phpast.Use:
			for _, clause := range stmt.Uses {
				taken[strings.ToLower(clause.Local())] = true
			}
		case *phpast.Class:
			taken[strings.ToLower(stmt.Name)] = true
		case *phpast.Function:
			taken[strings.ToLower(stmt.Name)] = true
		case *phpast.Const:
			for _, constant := range stmt.Consts {
				taken[strings.ToLower(constant.Name)] = true
			}
		}
		inspectNode(stmt, func(node phpast.Node) {
			if name, ok := node.(*phpast.Name); ok && !name.FullyQualified() && !name.Relative() {
				taken[strings.ToLower(name.First())] = true
			}
		})
	}
	return taken
}
