// Package dot writes directed graphs in the Graphviz dot format.
package dot

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Dotfile is the root graph of a dot file
type Dotfile struct {
	SubGraph
}

type GraphPrinter interface {
	AsDot() (string, []Edge)
	Name() string
}

// GraphItem is any item in the graph
type GraphItem interface {
	GraphPrinter
	HasSubgraph(name string) bool         // Whether the item has the given subgraph
	Subgraph(name string) GraphItem       // Returns the named subgraph, adding it if necessary
	AddNode(name string, edges ...string) // Adds a node to the graph
}

type Edge struct {
	From string
	To   []string
}

type SubGraph struct {
	name      string
	nodes     map[string]Node
	subgraphs map[string]GraphItem
}

// Methods for GraphItem
func (g SubGraph) HasSubgraph(name string) bool {
	_, has := g.subgraphs[name]
	return has
}

func (g *SubGraph) Subgraph(name string) GraphItem {
	if g.subgraphs == nil {
		g.subgraphs = make(map[string]GraphItem)
	}
	if _, in := g.subgraphs[name]; !in {
		g.subgraphs[name] = &SubGraph{name: name}
	}
	return g.subgraphs[name]
}

func (g *SubGraph) AddNode(name string, edges ...string) {
	if g.nodes == nil {
		g.nodes = make(map[string]Node)
	}
	g.nodes[name] = Node{name: name, edges: edges}
}

func (g SubGraph) Name() string {
	return g.name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// AsDot lists the subgraph's nodes, and returns their edges so that they can
// be written after every node is declared
func (g SubGraph) AsDot() (string, []Edge) {
	totalEdges := []Edge{}
	var total strings.Builder
	fmt.Fprintf(&total, "subgraph %s {\n", quote("cluster_"+g.name))
	fmt.Fprintf(&total, "label=%s\n", quote(g.name))
	for _, name := range sortedKeys(g.nodes) {
		item := g.nodes[name]
		totalEdges = append(totalEdges, Edge{From: item.name, To: item.edges})
		total.WriteString(quote(item.Name()) + "\n")
	}
	for _, name := range sortedKeys(g.subgraphs) {
		sub, edges := g.subgraphs[name].AsDot()
		total.WriteString(sub + "\n")
		totalEdges = append(totalEdges, edges...)
	}
	total.WriteString("}")
	return total.String(), totalEdges
}

type Node struct {
	name  string
	edges []string
}

func (n Node) AsDot() (string, []Edge) {
	return "", []Edge{{From: n.name, To: n.edges}}
}

func (n Node) Name() string {
	return n.name
}

func New() *Dotfile {
	return &Dotfile{}
}

func (d *Dotfile) HasNode(name string) bool {
	_, in := d.nodes[name]
	return in
}

func (d *Dotfile) AddEdge(node string, edge string) {
	if d.nodes == nil {
		d.nodes = make(map[string]Node)
	}
	temp := d.nodes[node]
	// If the node doesn't exist, create it
	if temp.name == "" {
		temp = Node{name: node}
	}
	temp.edges = append(temp.edges, edge)
	d.nodes[node] = temp
}

func (d *Dotfile) HasEdge(node string, edge string) bool {
	return slices.Contains(d.nodes[node].edges, edge)
}

// quote escapes a name for use as a dot identifier. PHP names contain
// backslashes, which dot would otherwise read as escapes
func quote(name string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(name) + `"`
}

func commaSeparatedString(list []string) string {
	var total strings.Builder
	for ind, item := range list {
		total.WriteString(quote(item))
		if ind < len(list)-1 {
			total.WriteString(", ")
		}
	}
	return total.String()
}

// WriteTo writes out the whole graph
func (d *Dotfile) WriteTo(w io.Writer) (int64, error) {
	totalEdges := []Edge{}
	var out strings.Builder
	out.WriteString("digraph {\n")

	// First, write out all the subgraphs
	for _, name := range sortedKeys(d.subgraphs) {
		sub, edges := d.subgraphs[name].AsDot()
		totalEdges = append(totalEdges, edges...)
		out.WriteString(sub + "\n")
	}

	// Then, go through the nodes
	for _, name := range sortedKeys(d.nodes) {
		fmt.Fprintf(&out, "  %s -> {%s}\n", quote(name), commaSeparatedString(d.nodes[name].edges))
	}

	// Finally, connect all the edges from everything else
	for _, edge := range totalEdges {
		// Skip creating edges that don't point anywhere
		if len(edge.To) == 0 {
			continue
		}
		// Also skip empty nodes
		if edge.From == "" {
			continue
		}
		fmt.Fprintf(&out, "%s -> {%s}\n", quote(edge.From), commaSeparatedString(edge.To))
	}
	out.WriteString("}\n")

	n, err := io.WriteString(w, out.String())
	return int64(n), err
}
