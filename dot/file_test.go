package dot

import (
	"strings"
	"testing"
)

func TestWriteGraph(t *testing.T) {
	graph := New()
	graph.Subgraph(`Acme\Shop`).AddNode(`Acme\Shop\Main`, `Acme\Shop\Base`)
	graph.Subgraph(`Acme\Shop`).AddNode(`Acme\Shop\Base`)
	graph.AddEdge("Standalone", "Countable")

	if !graph.HasSubgraph(`Acme\Shop`) || !graph.HasEdge("Standalone", "Countable") {
		t.Fatalf("Expected the graph to keep its subgraph and edges")
	}

	var out strings.Builder
	if _, err := graph.WriteTo(&out); err != nil {
		t.Fatal(err)
	}

	expected := `digraph {
subgraph "cluster_Acme\\Shop" {
label="Acme\\Shop"
"Acme\\Shop\\Base"
"Acme\\Shop\\Main"
}
  "Standalone" -> {"Countable"}
"Acme\\Shop\\Main" -> {"Acme\\Shop\\Base"}
}
`
	if out.String() != expected {
		t.Errorf("Expected: %v, Actual: %v", expected, out.String())
	}
}
