package builder

import (
	log "github.com/sirupsen/logrus"

	"github.com/NickyBoy89/pharbuild/phpast"
	"github.com/NickyBoy89/pharbuild/visitor"
)

// Priority is a tier of visitors. Tiers always run in declaration order
type Priority int

const (
	// BeforeSplit runs once on every parsed file, before it is split
	BeforeSplit Priority = iota
	Highest
	High
	Normal
)

// UnitPriorities are the tiers that run on every output unit, in order
var UnitPriorities = []Priority{Highest, High, Normal}

func (p Priority) String() string {
	switch p {
	case BeforeSplit:
		return "before-split"
	case Highest:
		return "highest"
	case High:
		return "high"
	case Normal:
		return "normal"
	}
	return "unknown"
}

// TraverserGroup holds the visitors of every tier. Within a tier, visitors run
// in the order they were registered, and each one traverses the whole tree
// before the next one starts
type TraverserGroup struct {
	tiers map[Priority][]visitor.Visitor
}

func NewTraverserGroup() *TraverserGroup {
	return &TraverserGroup{tiers: make(map[Priority][]visitor.Visitor)}
}

func (g *TraverserGroup) Register(priority Priority, v visitor.Visitor) {
	g.tiers[priority] = append(g.tiers[priority], v)
}

// Visitors returns the visitors of a tier, in execution order
func (g *TraverserGroup) Visitors(priority Priority) []visitor.Visitor {
	return g.tiers[priority]
}

// Traverse runs every visitor of a tier over the statements
func (g *TraverserGroup) Traverse(priority Priority, stmts []phpast.Stmt) []phpast.Stmt {
	for _, v := range g.tiers[priority] {
		log.WithFields(log.Fields{
			"tier":    priority,
			"visitor": visitorName(v),
		}).Trace("Running visitor")
		stmts = visitor.Traverse(v, stmts)
	}
	return stmts
}
