package astutil

import (
	"reflect"
	"testing"

	"github.com/NickyBoy89/pharbuild/phpast"
)

func TestParseTypeText(t *testing.T) {
	tests := []struct {
		text     string
		expected *phpast.TypeHint
	}{
		{"int", &phpast.TypeHint{Types: []*phpast.Name{{Value: "int"}}}},
		{"?\\Foo\\Bar", &phpast.TypeHint{Nullable: true, Types: []*phpast.Name{{Value: "\\Foo\\Bar"}}}},
		{"int | string", &phpast.TypeHint{Separator: "|", Types: []*phpast.Name{{Value: "int"}, {Value: "string"}}}},
		{"A&B", &phpast.TypeHint{Separator: "&", Types: []*phpast.Name{{Value: "A"}, {Value: "B"}}}},
		{"(A&B)|null", &phpast.TypeHint{Raw: "(A&B)|null"}},
	}

	for _, test := range tests {
		actual := ParseTypeText(test.text)
		if !reflect.DeepEqual(actual, test.expected) {
			t.Errorf("Expected: %+v, Actual: %+v", test.expected, actual)
		}
	}
}
