package compare

import (
	"context"
	"log/slog"
	"math"
)

// SemanticComparator embeds both values through an external embedding
// provider and scores their cosine similarity. Any embedding failure (call
// error, empty vector) degrades to fuzzy string comparison so a provider
// outage never blocks scoring.
type SemanticComparator struct {
	embedder EmbeddingProvider
	fallback *FuzzyComparator
	logger   *slog.Logger
}

// NewSemanticComparator returns the embedding comparator. A nil embedder is
// allowed; every comparison then takes the fuzzy fallback.
func NewSemanticComparator(opts Options) *SemanticComparator {
	return &SemanticComparator{
		embedder: opts.Embedder,
		fallback: NewFuzzyComparator(),
		logger:   opts.logger(),
	}
}

// Name returns the comparator identifier.
func (c *SemanticComparator) Name() string {
	return "semantic"
}

// Compare embeds both values and returns their cosine similarity, falling
// back to fuzzy comparison when embeddings are unavailable. Cosine ranges
// over [-1,1]; anti-correlated vectors clamp to 0 so scores stay in [0,1].
func (c *SemanticComparator) Compare(ctx context.Context, expected, actual any) float64 {
	if score, ok := c.compareEmbeddings(ctx, expected, actual); ok {
		return clampScore(score)
	}
	return c.fallback.Compare(ctx, expected, actual)
}

// compareEmbeddings reports (score, true) when both values embed successfully.
func (c *SemanticComparator) compareEmbeddings(ctx context.Context, expected, actual any) (float64, bool) {
	if c.embedder == nil {
		return 0, false
	}

	e, err := c.embedder.Embed(ctx, Stringify(expected))
	if err != nil || len(e) == 0 {
		c.logger.Warn("embedding failed, falling back to fuzzy", "error", err)
		return 0, false
	}
	a, err := c.embedder.Embed(ctx, Stringify(actual))
	if err != nil || len(a) == 0 {
		c.logger.Warn("embedding failed, falling back to fuzzy", "error", err)
		return 0, false
	}

	if len(e) != len(a) {
		c.logger.Warn("embedding length mismatch, truncating",
			"expected_len", len(e), "actual_len", len(a))
		if len(e) > len(a) {
			e = e[:len(a)]
		} else {
			a = a[:len(e)]
		}
	}

	return cosineSimilarity(e, a), true
}

// cosineSimilarity returns dot(a,b) / (|a|*|b|), or 0 when either vector
// has zero magnitude.
func cosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

var _ Comparator = (*SemanticComparator)(nil)
