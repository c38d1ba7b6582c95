// Package eval drives field-by-field evaluation of an extracted document
// against its ground truth and aggregates the per-field outcomes into
// section- and document-level metrics.
package eval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docuverify/fieldcheck/internal/compare"
	"github.com/docuverify/fieldcheck/internal/prompts/judge"
	"github.com/docuverify/fieldcheck/internal/schema"
)

// AttributeResult is the scored outcome for one field.
type AttributeResult struct {
	Name      string         `json:"name"`
	Expected  any            `json:"expected"`
	Actual    any            `json:"actual"`
	Matched   bool           `json:"matched"`
	Score     float64        `json:"score"`
	Reason    string         `json:"reason,omitempty"`
	Method    compare.Method `json:"evaluation_method"`
	Threshold float64        `json:"threshold"`
	Weight    float64        `json:"weight"`

	// Skipped marks fields with method NONE: reported but excluded from
	// counts and weighted scores.
	Skipped bool `json:"skipped,omitempty"`
}

// Evaluator scores individual attributes using the configured comparison
// strategies. Safe for concurrent use; it holds no mutable state.
type Evaluator struct {
	opts   compare.Options
	judge  *compare.LLMJudge
	logger *slog.Logger
}

// EvaluatorConfig wires the external providers into the evaluator.
type EvaluatorConfig struct {
	// Embedder backs the SEMANTIC comparator. Optional; semantic fields
	// fall back to fuzzy comparison without it.
	Embedder compare.EmbeddingProvider

	// Judge backs the LLM evaluation method. Optional; LLM fields score
	// 0.0 with an explanatory reason without it.
	Judge compare.Generator

	Logger *slog.Logger
}

// NewEvaluator builds an attribute evaluator.
func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		opts:   compare.Options{Embedder: cfg.Embedder, Logger: logger},
		judge:  compare.NewLLMJudge(cfg.Judge, logger),
		logger: logger,
	}
}

// EvaluateAttribute scores one field. The returned counts feed aggregation;
// they are zero for skipped fields.
func (e *Evaluator) EvaluateAttribute(ctx context.Context, documentClass string, spec schema.FieldSpec, expected, actual any) (AttributeResult, Counts) {
	result := AttributeResult{
		Name:      spec.Name,
		Expected:  expected,
		Actual:    actual,
		Method:    spec.EffectiveMethod(),
		Threshold: spec.EffectiveThreshold(),
		Weight:    spec.EffectiveWeight(),
	}

	if result.Method == compare.MethodNone {
		result.Skipped = true
		result.Reason = "Field excluded from scoring"
		return result, Counts{}
	}

	// Empty-value convention: enforced here for every method so no
	// comparator ever sees an absent value.
	expectedEmpty := compare.IsEmpty(expected)
	actualEmpty := compare.IsEmpty(actual)
	switch {
	case expectedEmpty && actualEmpty:
		result.Matched = true
		result.Score = 1.0
		result.Reason = "Both values are empty"
		return result, Counts{TN: 1}
	case expectedEmpty:
		result.Reason = "Expected value missing but actual value present"
		return result, Counts{FP: 1, FPSpurious: 1}
	case actualEmpty:
		result.Reason = "Actual value missing but expected value present"
		return result, Counts{FN: 1}
	}

	comparatorName := ""
	switch result.Method {
	case compare.MethodHungarian:
		inner := compare.InnerComparator(spec.Comparator)
		comparatorName = fmt.Sprintf("hungarian[%s]", inner.Name())

		expList := compare.ToList(expected)
		actList := compare.ToList(actual)
		if len(expList) == 0 && len(actList) == 0 {
			result.Matched = true
			result.Score = 1.0
			result.Reason = "Both lists are empty"
			return result, Counts{TN: 1}
		}

		match := compare.MatchLists(ctx, expected, actual, inner, result.Threshold)
		result.Score = match.AverageScore
		result.Matched = match.TruePositives > 0 && match.FalsePositives == 0

	case compare.MethodLLM:
		verdict := e.judge.Judge(ctx, judge.Vars{
			DocumentClass:        documentClass,
			AttributeName:        spec.Name,
			AttributeDescription: spec.Description,
			ExpectedValue:        compare.Stringify(expected),
			ActualValue:          compare.Stringify(actual),
		})
		result.Matched = verdict.Matched
		result.Score = verdict.Score
		result.Reason = verdict.Reason
		comparatorName = "llm"

	default:
		comparator := compare.ForMethod(result.Method, e.opts)
		comparatorName = comparator.Name()
		result.Score = comparator.Compare(ctx, expected, actual)
		if result.Method == compare.MethodExact {
			result.Matched = result.Score >= 1.0
		} else {
			result.Matched = result.Score >= result.Threshold
		}
	}

	if result.Reason == "" {
		result.Reason = synthesizeReason(result, comparatorName)
	}

	if result.Matched {
		return result, Counts{TP: 1}
	}
	return result, Counts{FP: 1, FPMismatch: 1}
}

// synthesizeReason builds a human-readable explanation for paths where the
// comparator did not supply one.
func synthesizeReason(r AttributeResult, comparatorName string) string {
	if r.Matched {
		switch {
		case r.Score >= 0.99:
			return "Exact match"
		case r.Score >= 0.9:
			return fmt.Sprintf("Very close match (score: %.2f)", r.Score)
		default:
			return fmt.Sprintf("Match above threshold (score: %.2f)", r.Score)
		}
	}
	return fmt.Sprintf("Values do not match (score: %.2f, comparator: %s)", r.Score, comparatorName)
}
