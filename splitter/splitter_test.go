package splitter

import (
	"os"
	"reflect"
	"testing"

	"github.com/NickyBoy89/pharbuild/parsing"
	"github.com/NickyBoy89/pharbuild/phpast"
)

func parse(t *testing.T, source string) []phpast.Stmt {
	stmts, err := parsing.Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parsing failed with err: %v", err)
	}
	return stmts
}

func unitNames(units []Unit) []string {
	var names []string
	for _, unit := range units {
		names = append(names, unit.Name)
	}
	return names
}

func TestSplitShapes(t *testing.T) {
	source, err := os.ReadFile("../testfiles/Shapes.php")
	if err != nil {
		t.Fatalf("Reading file failed with err: %v", err)
	}
	stmts := parse(t, string(source))
	original := append([]phpast.Stmt{}, stmts[0].(*phpast.Namespace).Stmts...)

	units := Split(stmts, "Shapes", true)

	expected := []string{"Shape", "Circle", "Named", "Kind"}
	if actual := unitNames(units); !reflect.DeepEqual(actual, expected) {
		t.Fatalf("Expected: %v, Actual: %v", expected, actual)
	}

	// Every unit is the namespace, its import, and then the declaration
	var rest []phpast.Stmt
	for _, unit := range units {
		if len(unit.Stmts) != 1 {
			t.Fatalf("Expected a single namespace in %s, got %d statements", unit.Name, len(unit.Stmts))
		}
		ns := unit.Stmts[0].(*phpast.Namespace)
		if ns.Name != `Acme\Shapes` {
			t.Errorf("Expected: %v, Actual: %v", `Acme\Shapes`, ns.Name)
		}
		use, ok := ns.Stmts[0].(*phpast.Use)
		if !ok || use.Uses[0].Name != `Acme\Math\Vector` {
			t.Errorf("Expected the import to be copied into %s, got %#v", unit.Name, ns.Stmts[0])
		}
		rest = append(rest, ns.Stmts[1:]...)
	}

	// Without their headers, the units are exactly the original declarations
	if !reflect.DeepEqual(rest, original[1:]) {
		t.Errorf("Expected: %v, Actual: %v", original[1:], rest)
	}
	for ind := range rest {
		if rest[ind] != original[ind+1] {
			t.Errorf("Expected declaration %d to be moved, not copied", ind)
		}
	}

	// Headers are copies
	first := units[0].Stmts[0].(*phpast.Namespace).Stmts[0]
	second := units[1].Stmts[0].(*phpast.Namespace).Stmts[0]
	if first == second {
		t.Errorf("Expected every unit to get its own copy of the header")
	}
}

func TestSplitDisabled(t *testing.T) {
	stmts := parse(t, "<?php\nclass A {}\nclass B {}\n")
	units := Split(stmts, "Both", false)
	if len(units) != 1 || units[0].Name != "Both" || len(units[0].Stmts) != 2 {
		t.Errorf("Expected a single unit with the whole file, got %v", units)
	}
}

func TestSplitWithoutNamespace(t *testing.T) {
	stmts := parse(t, "<?php\ndeclare(strict_types=1);\n\nuse Foo\\Bar;\n\nclass A {}\n// B comes next\nclass B {}\n")
	units := Split(stmts, "Both", true)

	expected := []string{"A", "B"}
	if actual := unitNames(units); !reflect.DeepEqual(actual, expected) {
		t.Fatalf("Expected: %v, Actual: %v", expected, actual)
	}
	second := units[1].Stmts
	if len(second) != 4 {
		t.Fatalf("Expected the declare, the import, the comment, and the class, got %d statements", len(second))
	}
	if _, ok := second[2].(*phpast.Comment); !ok {
		t.Errorf("Expected the comment to stay with its class, got %#v", second[2])
	}
}

func TestSplitFailsClosed(t *testing.T) {
	tests := map[string]string{
		"top-level code":   "<?php\nclass A {}\nclass B {}\necho 1;\n",
		"functions":        "<?php\nclass A {}\nclass B {}\nfunction f() {}\n",
		"constants":        "<?php\nclass A {}\nclass B {}\nconst C = 1;\n",
		"inline html":      "<?php\nclass A {}\nclass B {}\n?>\n<p>Hello</p>\n",
		"braced namespace": "<?php\nnamespace A {\nclass A {}\nclass B {}\n}\n",
		"two namespaces":   "<?php\nnamespace A;\nclass A {}\nclass B {}\nnamespace B;\nclass C {}\n",
		"duplicate names":  "<?php\nclass A {}\nclass a {}\n",
		"single class":     "<?php\nclass A {}\n",
	}
	for name, source := range tests {
		stmts := parse(t, source)
		units := Split(stmts, "File", true)
		if len(units) != 1 || units[0].Name != "File" || !reflect.DeepEqual(units[0].Stmts, stmts) {
			t.Errorf("%s: Expected the file to be left whole, got %v", name, unitNames(units))
		}
	}
}
