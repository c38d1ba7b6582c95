package eval

// Counts are binary-classification tallies for field evaluations.
// FP always equals FPSpurious + FPMismatch.
type Counts struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`

	// FPSpurious counts actual values present where nothing was expected.
	FPSpurious int `json:"fp_spurious"`
	// FPMismatch counts actual values that were present but wrong.
	FPMismatch int `json:"fp_value_mismatch"`
}

// Add returns the element-wise sum of two count records. Aggregation always
// sums raw counts first and recomputes ratios once; ratios are never averaged.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		TP:         c.TP + o.TP,
		FP:         c.FP + o.FP,
		FN:         c.FN + o.FN,
		TN:         c.TN + o.TN,
		FPSpurious: c.FPSpurious + o.FPSpurious,
		FPMismatch: c.FPMismatch + o.FPMismatch,
	}
}

// Metrics are the derived precision/recall ratios plus the raw counts they
// were computed from.
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Counts    Counts  `json:"counts"`
}

// ComputeMetrics derives precision, recall, and F1 from raw counts.
// The 0/0 cases resolve to perfect scores only when nothing was missed:
// zero tp+fp counts as perfect precision only when fn is also zero, and
// zero tp+fn counts as perfect recall only when fp is also zero.
func ComputeMetrics(c Counts) Metrics {
	m := Metrics{Counts: c}

	switch {
	case c.TP+c.FP > 0:
		m.Precision = float64(c.TP) / float64(c.TP+c.FP)
	case c.FN == 0:
		m.Precision = 1.0
	}

	switch {
	case c.TP+c.FN > 0:
		m.Recall = float64(c.TP) / float64(c.TP+c.FN)
	case c.FP == 0:
		m.Recall = 1.0
	}

	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}
