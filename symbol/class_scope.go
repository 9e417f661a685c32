package symbol

import (
	"strings"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// ClassScope represents a single declared class-like, and the members in it
type ClassScope struct {
	// The definition for the class itself
	Class *Definition
	Node  *phpast.Class

	Properties []*Definition
	Methods    []*Definition
	Constants  []*Definition

	// Set when the class reads or writes properties by name at runtime,
	// through `__get`, `__set`, `__isset`, or `__unset`
	MagicAccess bool
	// Set for traits, and for classes that use traits. Members of a trait are
	// shared with classes in other files, so none of them are private to the
	// tree
	Shared bool
}

func newClassScope(class *phpast.Class) *ClassScope {
	scope := &ClassScope{
		Class:  newDefinition(class.Name, KindClass, class.Modifiers),
		Node:   class,
		Shared: class.Kind == phpast.KindTrait,
	}

	for _, member := range class.Stmts {
		switch member := member.(type) {
		case *phpast.Property:
			for _, prop := range member.Props {
				scope.Properties = append(scope.Properties, newDefinition(prop.Name, KindProperty, member.Modifiers))
			}
		case *phpast.ClassConst:
			for _, constant := range member.Consts {
				scope.Constants = append(scope.Constants, newDefinition(constant.Name, KindConstant, member.Modifiers))
			}
		case *phpast.ClassMethod:
			modifiers := member.Modifiers
			// Interface methods are always public
			if class.Kind == phpast.KindInterface {
				modifiers = phpast.ModPublic
			}
			scope.Methods = append(scope.Methods, newDefinition(member.Name, KindMethod, modifiers))

			switch strings.ToLower(member.Name) {
			case "__get", "__set", "__isset", "__unset":
				scope.MagicAccess = true
			case "__construct":
				for _, param := range member.Params {
					if param.Promoted == 0 {
						continue
					}
					promoted := newDefinition(param.Name, KindProperty, param.Promoted)
					promoted.Promoted = true
					scope.Properties = append(scope.Properties, promoted)
				}
			}
		case *phpast.TraitUse:
			scope.Shared = true
		}
	}

	return scope
}

// FindMethod searches through the class's methods to find a specific method
func (cs *ClassScope) FindMethod() Finder {
	return definitionFinder{definitions: cs.Methods, caseInsensitive: true}
}

// FindProperty searches through the class's properties, including promoted
// constructor parameters
func (cs *ClassScope) FindProperty() Finder {
	return definitionFinder{definitions: cs.Properties}
}

func (cs *ClassScope) FindConstant() Finder {
	return definitionFinder{definitions: cs.Constants}
}

// Members returns the class's definitions of the given kind
func (cs *ClassScope) Members(kind Kind) []*Definition {
	switch kind {
	case KindProperty:
		return cs.Properties
	case KindMethod:
		return cs.Methods
	case KindConstant:
		return cs.Constants
	}
	return nil
}
