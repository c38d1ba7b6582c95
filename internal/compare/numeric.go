package compare

import (
	"context"

	"github.com/docuverify/fieldcheck/internal/normalize"
)

// NumericComparator parses both values as numbers and scores 1.0 on float
// equality. When either value fails numeric normalization it degrades to
// exact string comparison rather than erroring; mixed-format extractions
// ("$1,234.50" vs 1234.5) are the normal case, not the exception.
type NumericComparator struct {
	fallback *ExactComparator
}

// NewNumericComparator returns the numeric comparator with its exact-match
// fallback wired in.
func NewNumericComparator() *NumericComparator {
	return &NumericComparator{fallback: NewExactComparator()}
}

// Name returns the comparator identifier.
func (c *NumericComparator) Name() string {
	return "numeric"
}

// Compare runs the strict numeric strategy first, then the exact fallback.
func (c *NumericComparator) Compare(ctx context.Context, expected, actual any) float64 {
	if score, ok := c.compareStrict(expected, actual); ok {
		return score
	}
	return c.fallback.Compare(ctx, expected, actual)
}

// compareStrict reports (score, true) when both values parse as numbers.
func (c *NumericComparator) compareStrict(expected, actual any) (float64, bool) {
	e, err := normalize.Numeric(expected)
	if err != nil {
		return 0, false
	}
	a, err := normalize.Numeric(actual)
	if err != nil {
		return 0, false
	}
	if e == a {
		return 1.0, true
	}
	return 0.0, true
}

var _ Comparator = (*NumericComparator)(nil)
