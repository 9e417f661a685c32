package parsing

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/NickyBoy89/pharbuild/phpast"
)

func parseFixture(t *testing.T, name string) []phpast.Stmt {
	source, err := os.ReadFile("../testfiles/" + name)
	if err != nil {
		t.Fatalf("Reading file failed with err: %v", err)
	}
	stmts, err := Parse(source)
	if err != nil {
		t.Fatalf("Parsing %s failed with err: %v", name, err)
	}
	return stmts
}

func TestParseCounter(t *testing.T) {
	stmts := parseFixture(t, "Counter.php")

	if len(stmts) != 2 {
		t.Fatalf("Expected 2 top-level statements, got %d", len(stmts))
	}
	if declare, ok := stmts[0].(*phpast.Declare); !ok || declare.Directive != "strict_types=1" {
		t.Errorf("Expected strict types declare, got %#v", stmts[0])
	}

	ns, ok := stmts[1].(*phpast.Namespace)
	if !ok {
		t.Fatalf("Expected a namespace, got %#v", stmts[1])
	}
	if ns.Name != `Acme\Counter` || ns.Braced {
		t.Errorf("Expected: %v, Actual: %v", `Acme\Counter`, ns.Name)
	}
	if len(ns.Stmts) != 5 {
		t.Fatalf("Expected the namespace to own 5 statements, got %d", len(ns.Stmts))
	}

	group := ns.Stmts[1].(*phpast.Use)
	expectedUses := []*phpast.UseClause{
		{Name: `Acme\Storage\Reader`},
		{Name: `Acme\Storage\Writer`, Alias: "StoreWriter"},
	}
	if !reflect.DeepEqual(group.Uses, expectedUses) {
		t.Errorf("Expected: %v, Actual: %v", expectedUses, group.Uses)
	}
	if function := ns.Stmts[2].(*phpast.Use); function.Kind != phpast.UseFunction {
		t.Errorf("Expected a function import, got kind %v", function.Kind)
	}
	if _, ok := ns.Stmts[3].(*phpast.Comment); !ok {
		t.Errorf("Expected the doc comment to be kept, got %#v", ns.Stmts[3])
	}

	class := ns.Stmts[4].(*phpast.Class)
	if class.Name != "Counter" || class.Modifiers != phpast.ModFinal {
		t.Errorf("Expected final class Counter, got %v %v", class.Modifiers, class.Name)
	}
	if class.Extends[0].Value != "Base" || class.Implements[0].Value != `\Countable` {
		t.Errorf("Unexpected parents: %v %v", class.Extends[0], class.Implements[0])
	}
	if len(class.Stmts) != 8 {
		t.Fatalf("Expected 8 class members, got %d", len(class.Stmts))
	}

	limit := class.Stmts[0].(*phpast.ClassConst)
	if !limit.Modifiers.IsPrivate() || limit.Consts[0].Name != "LIMIT" {
		t.Errorf("Unexpected constant: %#v", limit)
	}

	count := class.Stmts[2].(*phpast.Property)
	expectedCount := &phpast.Property{
		Modifiers: phpast.ModPrivate,
		Type:      &phpast.TypeHint{Types: []*phpast.Name{{Value: "int"}}},
		Props:     []*phpast.PropertyItem{{Name: "count", Default: &phpast.Literal{Kind: phpast.LitNumber, Value: "0"}}},
	}
	if !reflect.DeepEqual(count, expectedCount) {
		t.Errorf("Expected: %#v, Actual: %#v", expectedCount, count)
	}

	constructor := class.Stmts[4].(*phpast.ClassMethod)
	store := constructor.Params[0]
	if store.Promoted != phpast.ModPrivate || store.Name != "store" || store.Type.Types[0].Value != "Store" {
		t.Errorf("Unexpected promoted parameter: %#v", store)
	}
	label := constructor.Params[1]
	if label.Default == nil || label.Promoted != 0 {
		t.Errorf("Unexpected parameter: %#v", label)
	}

	increment := class.Stmts[5].(*phpast.ClassMethod)
	branch := increment.Stmts[1].(*phpast.If)
	if len(branch.ElseIfs) != 1 || branch.Else == nil {
		t.Errorf("Expected one elseif and an else branch, got %#v", branch)
	}
}

func TestParseShapes(t *testing.T) {
	stmts := parseFixture(t, "Shapes.php")
	ns := stmts[0].(*phpast.Namespace)

	var kinds []phpast.ClassKind
	for _, stmt := range ns.Stmts {
		if class, ok := stmt.(*phpast.Class); ok {
			kinds = append(kinds, class.Kind)
		}
	}
	expected := []phpast.ClassKind{phpast.KindInterface, phpast.KindClass, phpast.KindTrait, phpast.KindEnum}
	if !reflect.DeepEqual(kinds, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, kinds)
	}

	enum := ns.Stmts[len(ns.Stmts)-1].(*phpast.Class)
	if enum.BackingType == nil || enum.BackingType.Types[0].Value != "string" {
		t.Errorf("Expected a string backed enum, got %#v", enum.BackingType)
	}
	if round := enum.Stmts[0].(*phpast.EnumCase); round.Name != "Round" || round.Value == nil {
		t.Errorf("Unexpected enum case: %#v", round)
	}
}

func TestParseError(t *testing.T) {
	source, err := os.ReadFile("../testfiles/Broken.php")
	if err != nil {
		t.Fatalf("Reading file failed with err: %v", err)
	}

	_, err = Parse(source)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected a parse error, got %v", err)
	}
	if parseErr.Line < 1 || parseErr.Message == "" {
		t.Errorf("Expected the error to have a position, got %v", parseErr)
	}
}

func TestSemicolonNamespaces(t *testing.T) {
	stmts, err := Parse([]byte("<?php\nnamespace A;\nclass X {}\nnamespace B;\nclass Y {}\nfunction f() {}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 2 {
		t.Fatalf("Expected 2 namespaces, got %d", len(stmts))
	}
	if second := stmts[1].(*phpast.Namespace); second.Name != "B" || len(second.Stmts) != 2 {
		t.Errorf("Expected namespace B to own 2 statements, got %#v", second)
	}
}

func TestRawFallback(t *testing.T) {
	stmts, err := Parse([]byte("<?php\n$x = match($a) { 1 => 2, default => 3 };\n"))
	if err != nil {
		t.Fatal(err)
	}
	assign := stmts[0].(*phpast.Expression).X.(*phpast.Assign)
	if _, ok := assign.Right.(*phpast.RawExpr); !ok {
		t.Errorf("Expected a raw expression, got %#v", assign.Right)
	}
}

func TestParseExpressions(t *testing.T) {
	stmts, err := Parse([]byte(`<?php
$a->b?->c(1, ...$rest);
Foo::$bar = new \Foo\Bar(name: 'x');
$f = static fn(int $x): int => $x * 2;
$g = function ($y) use (&$a, $b) { return $y; };
`))
	if err != nil {
		t.Fatal(err)
	}

	call := stmts[0].(*phpast.Expression).X.(*phpast.MethodCall)
	if !call.Nullsafe || call.Name != "c" || len(call.Args) != 2 || !call.Args[1].Unpack {
		t.Errorf("Unexpected method call: %#v", call)
	}

	assign := stmts[1].(*phpast.Expression).X.(*phpast.Assign)
	if fetch := assign.Left.(*phpast.StaticPropertyFetch); fetch.Name != "bar" {
		t.Errorf("Expected: %v, Actual: %v", "bar", fetch.Name)
	}
	created := assign.Right.(*phpast.New)
	if class := created.Class.(*phpast.Name); class.Value != `\Foo\Bar` || created.Args[0].Name != "name" {
		t.Errorf("Unexpected new expression: %#v", created)
	}

	arrow := stmts[2].(*phpast.Expression).X.(*phpast.Assign).Right.(*phpast.ArrowFunc)
	if !arrow.Static || arrow.Params[0].Name != "x" {
		t.Errorf("Unexpected arrow function: %#v", arrow)
	}

	closure := stmts[3].(*phpast.Expression).X.(*phpast.Assign).Right.(*phpast.Closure)
	expectedUses := []*phpast.ClosureUse{{ByRef: true, Name: "a"}, {Name: "b"}}
	if !reflect.DeepEqual(closure.Uses, expectedUses) {
		t.Errorf("Expected: %v, Actual: %v", expectedUses, closure.Uses)
	}
}
