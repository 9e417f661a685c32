// Package splitter breaks a single source file into one file per declared
// class, interface, trait, or enum.
package splitter

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/phpast"
)

// Unit is a single output file, named without its extension
type Unit struct {
	Name  string
	Stmts []phpast.Stmt
}

// declaration is a class-like, along with the comments directly before it
type declaration struct {
	name  string
	stmts []phpast.Stmt
}

// Split breaks the tree into one unit per type declaration. Every unit gets a
// copy of the file's header: its declare directives, namespace, imports,
// and free comments
//
// Files that can not be split without changing what they do are returned as a
// single unit named base, as are files with at most one declaration
func Split(stmts []phpast.Stmt, base string, enabled bool) []Unit {
	whole := []Unit{{Name: base, Stmts: stmts}}
	if !enabled {
		return whole
	}

	preamble, ns, body, ok := splitNamespace(stmts)
	if !ok {
		log.WithField("file", base).Debug("Not splitting a file with several namespaces")
		return whole
	}

	header, decls, reason := partition(body)
	if reason != "" {
		log.WithFields(log.Fields{"file": base, "reason": reason}).Debug("Not splitting file")
		return whole
	}
	if len(decls) <= 1 {
		return whole
	}

	seen := make(map[string]bool)
	for _, decl := range decls {
		if seen[strings.ToLower(decl.name)] {
			log.WithFields(log.Fields{"file": base, "name": decl.name}).Debug("Not splitting a file that declares a name twice")
			return whole
		}
		seen[strings.ToLower(decl.name)] = true
	}

	units := make([]Unit, len(decls))
	for ind, decl := range decls {
		unitBody := append(cloneAll(header), decl.stmts...)
		unitStmts := cloneAll(preamble)
		if ns != nil {
			shell := phpast.CloneHeader(ns).(*phpast.Namespace)
			shell.Stmts = unitBody
			unitStmts = append(unitStmts, shell)
		} else {
			unitStmts = append(unitStmts, unitBody...)
		}
		units[ind] = Unit{Name: decl.name, Stmts: unitStmts}
	}

	log.WithFields(log.Fields{"file": base, "units": len(units)}).Debug("Split file")
	return units
}

// splitNamespace finds the statements that come before a single
// semicolon-style namespace, and the statements inside of it. Files without
// a namespace have everything in their body
func splitNamespace(stmts []phpast.Stmt) (preamble []phpast.Stmt, ns *phpast.Namespace, body []phpast.Stmt, ok bool) {
	for ind, stmt := range stmts {
		namespace, isNamespace := stmt.(*phpast.Namespace)
		if !isNamespace {
			continue
		}
		if namespace.Braced || ind != len(stmts)-1 {
			return nil, nil, nil, false
		}
		for _, before := range stmts[:ind] {
			switch before.(type) {
			case *phpast.Declare, *phpast.Comment, *phpast.Blank:
			default:
				return nil, nil, nil, false
			}
		}
		return stmts[:ind], namespace, namespace.Stmts, true
	}
	return nil, nil, stmts, true
}

// partition sorts the statements of the body into the header and the type
// declarations. It returns the reason when the body holds anything else
func partition(body []phpast.Stmt) ([]phpast.Stmt, []declaration, string) {
	var header []phpast.Stmt
	var decls []declaration
	// Comments that might belong to the next declaration
	var pending []phpast.Stmt

	for _, stmt := range body {
		switch stmt := stmt.(type) {
		case *phpast.Comment:
			pending = append(pending, stmt)
			continue
		case *phpast.Class:
			decls = append(decls, declaration{
				name:  stmt.Name,
				stmts: append(pending, stmt),
			})
			pending = nil
			continue
		case *phpast.Declare, *phpast.Use, *phpast.Blank:
			header = append(header, pending...)
			header = append(header, stmt)
		case *phpast.Function:
			return nil, nil, "functions"
		case *phpast.Const:
			return nil, nil, "constants"
		case *phpast.InlineHTML:
			return nil, nil, "inline html"
		default:
			return nil, nil, "top-level code"
		}
		pending = nil
	}
	return append(header, pending...), decls, ""
}

func cloneAll(stmts []phpast.Stmt) []phpast.Stmt {
	cloned := make([]phpast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		cloned = append(cloned, phpast.CloneHeader(stmt))
	}
	return cloned
}
