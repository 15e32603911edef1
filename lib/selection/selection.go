// Package selection parses the 1-based range expressions used to pick
// entries out of numbered menu listings.
package selection

import (
	"strconv"
	"strings"
)

// Parse evaluates a range expression over n items. Supported shapes are
// "" or "-" (everything), "a-b", "a-", "-b" and a single number. The
// result is strictly ascending and duplicate free. Range ends are swapped
// when inverted and clamped to [1, n]; a single selection outside [1, n]
// or a non-numeric token yields nothing.
func Parse(expr string, n int) []int {
	if n <= 0 {
		return nil
	}

	s := strings.TrimSpace(expr)
	if s == "" || s == "-" {
		return sequence(1, n)
	}

	if before, after, found := strings.Cut(s, "-"); found {
		start := 1
		end := n
		if a := strings.TrimSpace(before); a != "" {
			v, err := strconv.Atoi(a)
			if err != nil {
				return nil
			}
			start = v
		}
		if b := strings.TrimSpace(after); b != "" {
			v, err := strconv.Atoi(b)
			if err != nil {
				return nil
			}
			end = v
		}
		if start > end {
			start, end = end, start
		}
		return sequence(clamp(start, n), clamp(end, n))
	}

	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > n {
		return nil
	}
	return []int{v}
}

func sequence(start, end int) []int {
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

func clamp(v, n int) int {
	if v < 1 {
		return 1
	}
	if v > n {
		return n
	}
	return v
}
