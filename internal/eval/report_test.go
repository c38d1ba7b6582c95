package eval

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func sampleResult() *DocumentResult {
	return &DocumentResult{
		RunID:         "run-abc",
		DocumentID:    "doc-42",
		DocumentClass: "invoice",
		Status:        StatusCompleted,
		Sections: []SectionResult{
			{
				SectionID:     "header",
				DocumentClass: "invoice",
				Attributes: []AttributeResult{
					{Name: "vendor", Expected: "ACME", Actual: "ACME", Matched: true, Score: 1.0, Method: "EXACT", Reason: "Exact match"},
					{Name: "date", Expected: "2024-01-15", Actual: "2024-02-20", Score: 0.0, Method: "EXACT", Reason: "Values do not match"},
					{Name: "internal_id", Skipped: true, Method: "NONE"},
				},
				Metrics:       ComputeMetrics(Counts{TP: 1, FP: 1, FPMismatch: 1}),
				WeightedScore: 0.5,
			},
		},
		Overall:       ComputeMetrics(Counts{TP: 1, FP: 1, FPMismatch: 1}),
		WeightedScore: 0.5,
		StartedAt:     time.Now(),
		CompletedAt:   time.Now(),
	}
}

func TestRenderMarkdown(t *testing.T) {
	report := RenderMarkdown(sampleResult())

	for _, fragment := range []string{
		"# Evaluation Report: doc-42",
		"**Document class:** invoice",
		"**Run:** run-abc",
		"**Status:** COMPLETED",
		"## Overall Metrics",
		"## Section: header",
		"## Errors Encountered",
		"None.",
		"vendor",
		"Exact match",
		"Precision",
		"Recall",
	} {
		if !strings.Contains(report, fragment) {
			t.Errorf("report missing %q", fragment)
		}
	}
}

func TestRenderMarkdownErrors(t *testing.T) {
	res := sampleResult()
	res.Errors = []string{`section "totals" missing from actual extraction, skipped`}

	report := RenderMarkdown(res)
	if !strings.Contains(report, "totals") {
		t.Error("report missing recorded error")
	}
	if strings.Contains(report, "None.") {
		t.Error("report claims no errors despite one recorded")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short"); got != "short" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("x", 200)
	got := truncate(long)
	if len(got) != maxCellWidth {
		t.Errorf("truncated length = %d, want %d", len(got), maxCellWidth)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated value %q missing ellipsis", got)
	}
	if got := truncate("line one\nline two"); strings.Contains(got, "\n") {
		t.Errorf("newlines must be flattened, got %q", got)
	}
}

func TestTruncateMultiByte(t *testing.T) {
	// Truncation must never split a rune.
	long := strings.Repeat("日本語テキスト", 30)
	got := truncate(long)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated value is not valid UTF-8: %q", got)
	}
	if runes := len([]rune(got)); runes != maxCellWidth {
		t.Errorf("truncated to %d runes, want %d", runes, maxCellWidth)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated value %q missing ellipsis", got)
	}
}
