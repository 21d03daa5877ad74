package dims

import "fmt"

// Broadcast derives the common shape of shapes under the right-aligned
// broadcasting rule: for each suffix position, the output extent is the
// unique non-unit extent across inputs, or 1 if every input is 1.
// Left-padding with implicit leading 1s is automatic. The result has rank
// max(ranks). Broadcast fails when two inputs present distinct non-unit
// extents at the same right-aligned position.
//
// Per spec.md §9's note on ambiguous-dimension resolution, when several
// inputs disagree only by being 1 at a position, the maximal extent wins;
// extents equal to 1 are never themselves expanded into the output record,
// only matched against.
func Broadcast(shapes ...Dimensions) (Dimensions, error) {
	if len(shapes) == 0 {
		return Dimensions{}, fmt.Errorf("dims: broadcast requires at least one shape")
	}

	maxLen := 0
	for _, s := range shapes {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}

	out := make(Dimensions, maxLen)

	for i := 1; i <= maxLen; i++ {
		size := 1

		for _, s := range shapes {
			dim := 1
			if i <= len(s) {
				dim = s[len(s)-i]
			}

			if dim == 1 {
				continue
			}

			if size != 1 && dim != size {
				return nil, fmt.Errorf("dims: shapes %v are not broadcast compatible at right-aligned position %d (%d vs %d)", shapes, i, size, dim)
			}

			size = dim
		}

		out[maxLen-i] = size
	}

	return out, nil
}

// SameShape reports whether a and b have identical rank and extents.
func SameShape(a, b Dimensions) bool {
	return a.Equal(b)
}
