package compare

import (
	"context"

	"github.com/agnivade/levenshtein"

	"github.com/docuverify/fieldcheck/internal/normalize"
)

// FuzzyComparator scores similarity as 1 - editDistance/maxLen over the
// normalized strings. Bounded to [0,1] since edit distance never exceeds
// the longer string's length.
type FuzzyComparator struct{}

// NewFuzzyComparator returns the edit-distance comparator.
func NewFuzzyComparator() *FuzzyComparator {
	return &FuzzyComparator{}
}

// Name returns the comparator identifier.
func (c *FuzzyComparator) Name() string {
	return "fuzzy"
}

// Compare returns the normalized edit-distance similarity of the two values.
func (c *FuzzyComparator) Compare(_ context.Context, expected, actual any) float64 {
	e := normalize.Text(Stringify(expected))
	a := normalize.Text(Stringify(actual))

	maxLen := len([]rune(e))
	if l := len([]rune(a)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		// Both empty after normalization.
		return 1.0
	}

	d := levenshtein.ComputeDistance(e, a)
	return 1.0 - float64(d)/float64(maxLen)
}

var _ Comparator = (*FuzzyComparator)(nil)
