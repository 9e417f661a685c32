// Package printer turns syntax trees back into PHP source code.
//
// Printers never try to preserve the formatting of the original source, only
// its meaning: parsing printed code again gives back the same tree.
package printer

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/NickyBoy89/pharbuild/phpast"
)

type Printer interface {
	Print(stmts []phpast.Stmt) string
}

// Standard prints one statement per line, indented with four spaces
type Standard struct{}

func (Standard) Print(stmts []phpast.Stmt) string {
	p := &printer{w: &writer{}}
	p.file(stmts)
	return p.w.String()
}

// Shorten prints as little whitespace as possible, only separating tokens that
// would otherwise merge into one
type Shorten struct{}

func (Shorten) Print(stmts []phpast.Stmt) string {
	p := &printer{w: &writer{compact: true}}
	p.file(stmts)
	return p.w.String()
}

const DefaultMode = "standard"

// Registry maps the print formats accepted in the configuration to printers
type Registry struct {
	printers map[string]Printer
}

func NewRegistry() *Registry {
	return &Registry{printers: make(map[string]Printer)}
}

// DefaultRegistry contains every built-in printer
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(DefaultMode, Standard{})
	registry.Register("shorten", Shorten{})
	return registry
}

func (r *Registry) Register(mode string, printer Printer) {
	r.printers[mode] = printer
}

// Get returns the printer for the mode, or false if the mode is unknown
func (r *Registry) Get(mode string) (Printer, bool) {
	printer, ok := r.printers[mode]
	return printer, ok
}

// Lookup returns the printer for the mode. Unknown modes fall back to the
// standard printer
func (r *Registry) Lookup(mode string) Printer {
	if printer, ok := r.Get(mode); ok {
		return printer
	}
	log.WithFields(log.Fields{
		"mode":  mode,
		"known": r.Modes(),
	}).Warn("Unknown print format, using the standard printer")
	if printer, ok := r.Get(DefaultMode); ok {
		return printer
	}
	return Standard{}
}

func (r *Registry) Modes() []string {
	modes := maps.Keys(r.printers)
	slices.Sort(modes)
	return modes
}
