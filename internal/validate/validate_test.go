package validate

import "testing"

type sample struct {
	Name string `validate:"notblank"`
	Kind string `validate:"kind"`
}

func TestCustomTags(t *testing.T) {
	cases := []struct {
		in sample
		ok bool
	}{
		{sample{Name: "Food", Kind: "expense"}, true},
		{sample{Name: "Salary", Kind: "income"}, true},
		{sample{Name: "   ", Kind: "expense"}, false},
		{sample{Name: "Food", Kind: "transfer"}, false},
		{sample{Name: "", Kind: "income"}, false},
	}
	for i, tc := range cases {
		err := Struct(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
