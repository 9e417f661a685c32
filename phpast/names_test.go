package phpast

import (
	"reflect"
	"testing"
)

func TestNameSegments(t *testing.T) {
	name := &Name{Value: `\pocketmine\plugin\PluginBase`}
	if !name.FullyQualified() || name.Qualified() {
		t.Errorf("Expected %v to be fully qualified", name.Value)
	}
	if name.First() != "pocketmine" {
		t.Errorf("Expected: %v, Actual: %v", "pocketmine", name.First())
	}
	if name.Rest() != `\plugin\PluginBase` {
		t.Errorf("Expected: %v, Actual: %v", `\plugin\PluginBase`, name.Rest())
	}
	if name.Last() != "PluginBase" {
		t.Errorf("Expected: %v, Actual: %v", "PluginBase", name.Last())
	}

	single := &Name{Value: "Server"}
	if single.Rest() != "" || single.Qualified() {
		t.Errorf("Expected %v to be unqualified", single.Value)
	}
}

func TestRelativeName(t *testing.T) {
	if !(&Name{Value: `namespace\Foo`}).Relative() {
		t.Errorf("Expected namespace\\Foo to be relative")
	}
	if (&Name{Value: `namespaced\Foo`}).Relative() {
		t.Errorf("Expected namespaced\\Foo to not be relative")
	}
}

func TestSpecialNames(t *testing.T) {
	for _, value := range []string{"self", "static", "parent", "int", "String"} {
		if !(&Name{Value: value}).Special() {
			t.Errorf("Expected %v to be special", value)
		}
	}
	if (&Name{Value: "Foo"}).Special() {
		t.Errorf("Expected Foo to not be special")
	}
	// Functions called `int` are not types
	if (&Name{Value: "int", Kind: NameFunction}).Special() {
		t.Errorf("Expected a function name to never be special")
	}
}

func TestUseClauseLocal(t *testing.T) {
	if local := (&UseClause{Name: `a\b\C`}).Local(); local != "C" {
		t.Errorf("Expected: %v, Actual: %v", "C", local)
	}
	if local := (&UseClause{Name: `a\b\C`, Alias: "D"}).Local(); local != "D" {
		t.Errorf("Expected: %v, Actual: %v", "D", local)
	}
}

func TestModifierKeywords(t *testing.T) {
	expected := []string{"final", "public", "static"}
	actual := (ModStatic | ModPublic | ModFinal).Keywords()
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}

	if words := ModVar.Keywords(); !reflect.DeepEqual(words, []string{"var"}) {
		t.Errorf("Expected: %v, Actual: %v", []string{"var"}, words)
	}
	if ModifierFromKeyword("PRIVATE") != ModPrivate {
		t.Errorf("Expected modifiers to be case-insensitive")
	}
}
