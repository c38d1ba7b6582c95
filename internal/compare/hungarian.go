package compare

import (
	"context"
	"encoding/json"
	"strings"
)

// ListMatchResult reports optimal-assignment statistics for two lists.
type ListMatchResult struct {
	TruePositives  int
	FalsePositives int
	AverageScore   float64
}

// MatchLists pairs expected and actual list items one-to-one so that total
// similarity under the given comparator is maximal, then derives
// true-positive and false-positive counts against the threshold.
//
// Empty-list handling is deliberately asymmetric and must stay that way:
// extra actual items with nothing expected are all false positives, but
// missing actual items are NOT counted here; they surface as false negatives
// at the attribute layer. Downstream aggregation depends on this split.
func MatchLists(ctx context.Context, expected, actual any, comparator Comparator, threshold float64) ListMatchResult {
	exp := ToList(expected)
	act := ToList(actual)

	switch {
	case len(exp) == 0 && len(act) == 0:
		// Vacuous full match.
		return ListMatchResult{AverageScore: 1.0}
	case len(exp) == 0:
		return ListMatchResult{FalsePositives: len(act)}
	case len(act) == 0:
		return ListMatchResult{}
	}

	// Single pair: no assignment machinery needed.
	if len(exp) == 1 && len(act) == 1 {
		score := comparator.Compare(ctx, exp[0], act[0])
		return tally([]float64{score}, len(act), threshold)
	}

	// similarity[i][j] scores expected[i] against actual[j]; the solver
	// minimizes cost = 1 - similarity, which maximizes total similarity.
	cost := make([][]float64, len(exp))
	similarity := make([][]float64, len(exp))
	for i, e := range exp {
		cost[i] = make([]float64, len(act))
		similarity[i] = make([]float64, len(act))
		for j, a := range act {
			s := comparator.Compare(ctx, e, a)
			similarity[i][j] = s
			cost[i][j] = 1.0 - s
		}
	}

	assignment := solveAssignment(cost)
	var scores []float64
	for i, j := range assignment {
		if j >= 0 {
			scores = append(scores, similarity[i][j])
		}
	}

	return tally(scores, len(act), threshold)
}

// tally converts assigned-pair scores into counts and the mean score.
func tally(scores []float64, actualLen int, threshold float64) ListMatchResult {
	var result ListMatchResult
	if len(scores) == 0 {
		result.FalsePositives = actualLen
		return result
	}

	var sum float64
	for _, s := range scores {
		sum += s
		if s >= threshold {
			result.TruePositives++
		}
	}
	result.FalsePositives = actualLen - result.TruePositives
	result.AverageScore = sum / float64(len(scores))
	return result
}

// ToList coerces a value for list matching: slices pass through, strings
// that parse as a JSON array are expanded, and anything else becomes a
// singleton list of its string form. Nil yields an empty list.
func ToList(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			var parsed []any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				return parsed
			}
		}
		return []any{val}
	default:
		return []any{Stringify(v)}
	}
}
