package symbol

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// NamespaceScope represents the names visible inside a single namespace: its
// imports, and the class-likes, functions, and constants it declares
type NamespaceScope struct {
	// The namespace's name, empty for the global namespace
	Name string

	// Imported full names, keyed by ImportKey
	imports map[string]string
	// Declared names, keyed by ImportKey
	declared map[string]bool
}

// ImportKey builds the key that an import's local name is looked up with.
// Class and function names are case-insensitive, constant names are not
func ImportKey(kind phpast.UseKind, local string) string {
	if kind != phpast.UseConstant {
		local = strings.ToLower(local)
	}
	return string(rune('0'+kind)) + local
}

// UseKindOf returns the kind of import that makes a name of the given kind
// available
func UseKindOf(kind phpast.NameKind) phpast.UseKind {
	switch kind {
	case phpast.NameFunction:
		return phpast.UseFunction
	case phpast.NameConstant:
		return phpast.UseConstant
	}
	return phpast.UseNormal
}

// NewNamespaceScope builds the scope for a namespace from the statements
// directly inside of it
func NewNamespaceScope(name string, stmts []phpast.Stmt) *NamespaceScope {
	scope := &NamespaceScope{
		Name:     name,
		imports:  make(map[string]string),
		declared: make(map[string]bool),
	}

	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *phpast.Use:
			for _, clause := range stmt.Uses {
				scope.AddImport(stmt.Kind, clause)
			}
		case *phpast.Class:
			scope.Declare(phpast.UseNormal, stmt.Name)
		case *phpast.Function:
			scope.Declare(phpast.UseFunction, stmt.Name)
		case *phpast.Const:
			for _, constant := range stmt.Consts {
				scope.Declare(phpast.UseConstant, constant.Name)
			}
		}
	}

	return scope
}

func (ns *NamespaceScope) AddImport(kind phpast.UseKind, clause *phpast.UseClause) {
	ns.imports[ImportKey(kind, clause.Local())] = clause.Name
}

// Import returns the full name imported under the given local name
func (ns *NamespaceScope) Import(kind phpast.UseKind, local string) (string, bool) {
	full, ok := ns.imports[ImportKey(kind, local)]
	return full, ok
}

func (ns *NamespaceScope) Declare(kind phpast.UseKind, name string) {
	ns.declared[ImportKey(kind, name)] = true
}

// IsDeclared reports whether the namespace itself declares the name
func (ns *NamespaceScope) IsDeclared(kind phpast.UseKind, name string) bool {
	return ns.declared[ImportKey(kind, name)]
}

// Qualify prefixes a name with the namespace
func (ns *NamespaceScope) Qualify(name string) string {
	if ns.Name == "" {
		return name
	}
	return ns.Name + `\` + name
}

// Resolve returns the fully qualified name that a name refers to, without the
// leading backslash. Unqualified functions and constants that are not
// imported fall back to the global namespace at runtime, so they cannot be
// resolved ahead of time
func (ns *NamespaceScope) Resolve(name *phpast.Name) (string, bool) {
	switch {
	case name.Special():
		return "", false
	case name.FullyQualified():
		return name.Value[1:], true
	case name.Relative():
		return ns.Qualify(name.Value[len(`namespace\`):]), true
	case name.Qualified():
		// The first segment of a qualified name is always a class-kind import
		if full, ok := ns.Import(phpast.UseNormal, name.First()); ok {
			return full + name.Rest(), true
		}
		return ns.Qualify(name.Value), true
	}

	if full, ok := ns.Import(UseKindOf(name.Kind), name.Value); ok {
		return full, true
	}
	if name.Kind == phpast.NameClass {
		return ns.Qualify(name.Value), true
	}
	return "", false
}
