package keywords

import "testing"

func TestReservedIsCaseInsensitive(t *testing.T) {
	for _, word := range []string{"class", "CLASS", "Function", "fn"} {
		if !IsReserved(word) {
			t.Errorf("Expected %v to be reserved", word)
		}
	}
	if IsReserved("foo") {
		t.Errorf("Expected foo to not be reserved")
	}
}

func TestReservedVariables(t *testing.T) {
	if !IsReservedVariable("this") || !IsReservedVariable("_GET") {
		t.Errorf("Expected this and _GET to be reserved variables")
	}
	// Variable names are case-sensitive
	if IsReservedVariable("This") {
		t.Errorf("Expected This to not be a reserved variable")
	}
}

func TestScopeIntrospection(t *testing.T) {
	if !IsScopeIntrospection(`\compact`) || !IsScopeIntrospection("Extract") {
		t.Errorf("Expected compact and extract to introspect the scope")
	}
	if IsScopeIntrospection("count") {
		t.Errorf("Expected count to not introspect the scope")
	}
}
