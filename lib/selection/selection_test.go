package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		expr     string
		n        int
		expected []int
	}{
		{expr: "", n: 4, expected: []int{1, 2, 3, 4}},
		{expr: "-", n: 4, expected: []int{1, 2, 3, 4}},
		{expr: " - ", n: 3, expected: []int{1, 2, 3}},
		{expr: "2-4", n: 5, expected: []int{2, 3, 4}},
		{expr: "2-", n: 5, expected: []int{2, 3, 4, 5}},
		{expr: "-3", n: 5, expected: []int{1, 2, 3}},
		{expr: "4-2", n: 5, expected: []int{2, 3, 4}},
		{expr: "0-99", n: 3, expected: []int{1, 2, 3}},
		{expr: "3", n: 5, expected: []int{3}},
		{expr: "6", n: 5, expected: nil},
		{expr: "0", n: 5, expected: nil},
		{expr: "x", n: 5, expected: nil},
		{expr: "a-b", n: 5, expected: nil},
		{expr: "1-2", n: 0, expected: nil},
	}

	for _, tc := range testCases {
		got := Parse(tc.expr, tc.n)
		if diff := cmp.Diff(tc.expected, got); diff != "" {
			t.Fatalf("Parse(%q, %d) mismatch (-want +got):\n%s", tc.expr, tc.n, diff)
		}
	}
}

func TestParseAscending(t *testing.T) {
	for _, expr := range []string{"", "-", "1-8", "8-1", "-5", "3-"} {
		got := Parse(expr, 8)
		for i := 1; i < len(got); i++ {
			if got[i] <= got[i-1] {
				t.Fatalf("Parse(%q, 8) is not strictly ascending: %v", expr, got)
			}
		}
	}
}
