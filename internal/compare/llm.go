package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docuverify/fieldcheck/internal/prompts/judge"
)

// Judgment is the structured verdict from the LLM judge.
type Judgment struct {
	Matched bool
	Score   float64
	Reason  string
}

// LLMJudge asks an external model whether two values represent the same
// information. It never returns an error: call failures and unparseable
// output yield matched=false, score=0.0 with the failure captured in Reason,
// so one bad judge call degrades a single field instead of aborting the run.
type LLMJudge struct {
	generator Generator
	logger    *slog.Logger
}

// NewLLMJudge wraps a text-generation provider as a judge.
func NewLLMJudge(g Generator, logger *slog.Logger) *LLMJudge {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("judge prompt loaded", "sha256", judge.Fingerprint, "variables", judge.Variables)
	return &LLMJudge{generator: g, logger: logger}
}

// Judge renders the comparison prompt, calls the model, and parses its verdict.
func (j *LLMJudge) Judge(ctx context.Context, v judge.Vars) Judgment {
	if j.generator == nil {
		return Judgment{Reason: "no judge provider configured"}
	}

	prompt, err := judge.Render(v)
	if err != nil {
		return Judgment{Reason: fmt.Sprintf("failed to render judge prompt: %v", err)}
	}

	raw, err := j.generator.Generate(ctx, prompt.System, prompt.Content)
	if err != nil {
		j.logger.Warn("judge call failed", "attribute", v.AttributeName, "error", err)
		return Judgment{Reason: fmt.Sprintf("judge call failed: %v", err)}
	}

	verdict, err := ParseJudgment(raw)
	if err != nil {
		j.logger.Warn("judge output unparseable", "attribute", v.AttributeName, "error", err)
		return Judgment{Reason: fmt.Sprintf("failed to parse judge output: %v", err)}
	}
	return verdict
}

// judgeVerdict is the wire shape of the judge's JSON response.
type judgeVerdict struct {
	Match  bool    `json:"match"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// ParseJudgment parses a model response into a Judgment. Candidates are
// tried in order of preference: JSON inside a markdown code fence, the first
// balanced-brace substring, then the entire trimmed response. Each candidate
// must validate against the judge output schema. When no candidate parses,
// key/value pairs are scraped from the raw text as a last resort.
func ParseJudgment(content string) (Judgment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Judgment{}, fmt.Errorf("empty judge response")
	}

	candidates := []string{}
	if stripped := stripCodeFences(content); stripped != "" {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" {
		candidates = append(candidates, extracted)
	}
	candidates = append(candidates, content)

	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}

		var v judgeVerdict
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			continue
		}
		if err := validateVerdict([]byte(candidate)); err != nil {
			continue
		}
		return Judgment{Matched: v.Match, Score: clampScore(v.Score), Reason: v.Reason}, nil
	}

	if verdict, ok := scrapeVerdict(content); ok {
		return verdict, nil
	}

	return Judgment{}, fmt.Errorf("no valid JSON verdict in judge response")
}

// stripCodeFences extracts the body of a leading markdown code fence,
// returning "" when the content is not fenced.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	idx := strings.Index(trimmed, "```")
	if idx < 0 {
		return ""
	}
	rest := trimmed[idx+3:]
	// Drop the language tag line.
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// extractJSONCandidate returns the substring from the first '{' to the last
// '}', or "" when no brace pair exists.
func extractJSONCandidate(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}

var (
	matchPattern  = regexp.MustCompile(`(?i)["']?match["']?\s*[:=]\s*(true|false|yes|no)`)
	scorePattern  = regexp.MustCompile(`(?i)["']?score["']?\s*[:=]\s*([0-9]*\.?[0-9]+)`)
	reasonPattern = regexp.MustCompile(`(?i)["']?reason["']?\s*[:=]\s*"((?:[^"\\]|\\.)*)"`)
)

// scrapeVerdict pulls match/score/reason key-value pairs out of unstructured
// text. Requires at least a match or score value to count as a verdict.
func scrapeVerdict(content string) (Judgment, bool) {
	var (
		verdict Judgment
		found   bool
	)

	if m := matchPattern.FindStringSubmatch(content); m != nil {
		val := strings.ToLower(m[1])
		verdict.Matched = val == "true" || val == "yes"
		found = true
	}
	if m := scorePattern.FindStringSubmatch(content); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			verdict.Score = clampScore(f)
			found = true
		}
	}
	if m := reasonPattern.FindStringSubmatch(content); m != nil {
		verdict.Reason = m[1]
	}

	return verdict, found
}

func clampScore(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

var (
	verdictSchemaOnce sync.Once
	verdictSchema     *jsonschema.Schema
	verdictSchemaErr  error
)

// validateVerdict checks a parsed candidate against the judge output schema.
func validateVerdict(candidate []byte) error {
	verdictSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("judge.json", bytes.NewReader(judge.Schema)); err != nil {
			verdictSchemaErr = err
			return
		}
		verdictSchema, verdictSchemaErr = compiler.Compile("judge.json")
	})
	if verdictSchemaErr != nil {
		// Schema compile failure is a programming error; do not block parsing.
		return nil
	}

	var doc any
	if err := json.Unmarshal(candidate, &doc); err != nil {
		return err
	}
	return verdictSchema.Validate(doc)
}
