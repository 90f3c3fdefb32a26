package domain

import "testing"

func TestIsComparable(t *testing.T) {
	type pair struct {
		key   string
		extra any
	}
	cases := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, true},
		{"string", "a", true},
		{"pointer", new(int), true},
		{"struct of scalars", pair{key: "k", extra: 1}, true},
		{"struct with nil interface", pair{key: "k"}, true},
		{"slice", []int{1}, false},
		{"map", map[string]int{}, false},
		{"func", func() {}, false},
		{"struct holding slice", pair{key: "k", extra: []string{"x"}}, false},
		{"array holding map", [1]any{map[string]int{}}, false},
	}
	for _, c := range cases {
		if got := IsComparable(c.v); got != c.want {
			t.Fatalf("%s: IsComparable=%v want %v", c.name, got, c.want)
		}
	}
}
