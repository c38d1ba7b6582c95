package compare

import (
	"context"

	"github.com/docuverify/fieldcheck/internal/normalize"
)

// ExactComparator scores 1.0 when both values are equal after text
// normalization, 0.0 otherwise.
type ExactComparator struct{}

// NewExactComparator returns the exact-match comparator.
func NewExactComparator() *ExactComparator {
	return &ExactComparator{}
}

// Name returns the comparator identifier.
func (c *ExactComparator) Name() string {
	return "exact"
}

// Compare normalizes both values and checks equality.
func (c *ExactComparator) Compare(_ context.Context, expected, actual any) float64 {
	if normalize.Text(Stringify(expected)) == normalize.Text(Stringify(actual)) {
		return 1.0
	}
	return 0.0
}

var _ Comparator = (*ExactComparator)(nil)
