// Package compare implements the similarity strategies used to score an
// extracted field value against its ground-truth counterpart. Every
// comparator reduces two values to a score in [0,1]; boolean match decisions
// against thresholds belong to the caller.
package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Method selects the comparison strategy for a field.
type Method string

const (
	MethodExact        Method = "EXACT"
	MethodNumericExact Method = "NUMERIC_EXACT"
	MethodFuzzy        Method = "FUZZY"
	MethodHungarian    Method = "HUNGARIAN"
	MethodSemantic     Method = "SEMANTIC"
	MethodLLM          Method = "LLM"
	MethodNone         Method = "NONE"
)

// ParseMethod maps a schema string to a Method. Unknown or empty strings
// resolve to EXACT so a misconfigured field still gets scored.
func ParseMethod(s string) Method {
	switch Method(strings.ToUpper(strings.TrimSpace(s))) {
	case MethodExact:
		return MethodExact
	case MethodNumericExact:
		return MethodNumericExact
	case MethodFuzzy:
		return MethodFuzzy
	case MethodHungarian:
		return MethodHungarian
	case MethodSemantic:
		return MethodSemantic
	case MethodLLM:
		return MethodLLM
	case MethodNone:
		return MethodNone
	default:
		return MethodExact
	}
}

// KnownMethod reports whether s names a supported method. Used by schema
// validation, which fails fast instead of defaulting.
func KnownMethod(s string) bool {
	switch Method(strings.ToUpper(strings.TrimSpace(s))) {
	case MethodExact, MethodNumericExact, MethodFuzzy, MethodHungarian,
		MethodSemantic, MethodLLM, MethodNone:
		return true
	}
	return false
}

// Comparator scores the similarity of two values.
// Implementations never return errors to the caller: recoverable failures
// degrade to a weaker strategy internally (see the fallback chains).
type Comparator interface {
	// Name returns the comparator identifier used in reasons and logs.
	Name() string

	// Compare returns a similarity score in [0,1].
	Compare(ctx context.Context, expected, actual any) float64
}

// EmbeddingProvider produces a vector representation of text.
// Implemented by the providers package and by deterministic test fakes.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator produces a completion for a judge prompt.
// Implemented by the providers package and by test fakes.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, content string) (string, error)
}

// Options carries the external collaborators and logger some comparators need.
type Options struct {
	Embedder EmbeddingProvider
	Logger   *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// ForMethod returns the scalar comparator for a method. HUNGARIAN has no
// scalar comparator (it is a list strategy); requesting it, or LLM (which
// needs prompt context), returns the exact comparator as a safe default.
func ForMethod(m Method, opts Options) Comparator {
	switch m {
	case MethodNumericExact:
		return NewNumericComparator()
	case MethodFuzzy:
		return NewFuzzyComparator()
	case MethodSemantic:
		return NewSemanticComparator(opts)
	default:
		return NewExactComparator()
	}
}

// InnerComparator resolves the sub-strategy used inside HUNGARIAN list
// matching. Only EXACT, FUZZY, and NUMERIC are meaningful there; anything
// else defaults to exact.
func InnerComparator(name string) Comparator {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FUZZY":
		return NewFuzzyComparator()
	case "NUMERIC", "NUMERIC_EXACT":
		return NewNumericComparator()
	default:
		return NewExactComparator()
	}
}

// IsEmpty reports whether a value counts as absent: nil, or a string that is
// blank after trimming. Empty lists and maps are not "empty" here; the list
// matcher has its own vacuous-case rules.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Stringify renders a value for text comparison. Maps and slices serialize
// to canonical JSON (encoding/json sorts map keys) so structurally equal
// objects compare equal as strings.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		// Trim the ".0" that fmt would keep for whole floats; extracted
		// numbers arrive as float64 from JSON decoding.
		b, _ := json.Marshal(s)
		return string(b)
	case map[string]any, []any:
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprintf("%v", s)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}
