package parsetools

import (
	"reflect"
	"testing"
)

func TestMatchingParenths(t *testing.T) {
	source := `(A&B)|(C&")")`
	if index := IndexOfMatchingParenths(source, 0); index != 4 {
		t.Errorf("Expected: %v, Actual: %v", 4, index)
	}
	if index := IndexOfMatchingParenths(source, 6); index != len(source)-1 {
		t.Errorf("Expected: %v, Actual: %v", len(source)-1, index)
	}
	if index := IndexOfMatchingParenths("((", 0); index != -1 {
		t.Errorf("Expected unbalanced parenths to return -1, got %v", index)
	}
}

func TestSplitTopLevel(t *testing.T) {
	expected := []string{"(A&B)", "null", "C"}
	actual := SplitTopLevel("(A&B)|null|C", '|')
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}
}

func TestIdentifiers(t *testing.T) {
	expected := []string{"global", "config", "cache"}
	actual := Identifiers("global $config, $cache;")
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}

	// Digits are not the start of an identifier
	if words := Identifiers("1abc"); len(words) != 0 {
		t.Errorf("Expected no identifiers, got %v", words)
	}
}

func TestIsIdentifier(t *testing.T) {
	if !IsIdentifier("_private") || !IsIdentifier("a1") {
		t.Errorf("Expected valid identifiers to be accepted")
	}
	if IsIdentifier("1a") || IsIdentifier("a-b") || IsIdentifier("") {
		t.Errorf("Expected invalid identifiers to be rejected")
	}
}

func TestInterpolatedIdentifiers(t *testing.T) {
	expected := []string{"name", "this", "count"}
	actual := InterpolatedIdentifiers(`"Hi {$name}, \$escaped {$this->count}"`)
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}
}
