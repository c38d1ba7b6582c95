package eval

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/docuverify/fieldcheck/internal/schema"
)

func invoiceClass() *schema.Class {
	return &schema.Class{
		Name: "invoice",
		Sections: []schema.SectionSpec{
			{ID: "totals", Fields: []schema.FieldSpec{
				{Name: "total", Method: "NUMERIC_EXACT"},
			}},
			{ID: "header", Fields: []schema.FieldSpec{
				{Name: "vendor", Method: "EXACT"},
				{Name: "date", Method: "EXACT"},
			}},
		},
	}
}

func TestDriverEvaluate(t *testing.T) {
	ctx := context.Background()
	driver := NewDriver(DriverConfig{})

	expected := map[string]map[string]any{
		"header": {"vendor": "ACME", "date": "2024-01-15"},
		"totals": {"total": 1500.0},
	}
	actual := map[string]map[string]any{
		"header": {"vendor": "ACME", "date": "2024-02-20"},
		"totals": {"total": "$1,500.00"},
	}

	res := driver.Evaluate(ctx, invoiceClass(), "doc-1", expected, actual)

	if res.Status != StatusCompleted {
		t.Errorf("Status = %v, want COMPLETED", res.Status)
	}
	if res.RunID == "" {
		t.Error("RunID not assigned")
	}
	if res.DocumentID != "doc-1" || res.DocumentClass != "invoice" {
		t.Errorf("identity fields wrong: %+v", res)
	}
	if res.JudgePrompt == "" {
		t.Error("judge prompt fingerprint not recorded")
	}
	if len(res.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(res.Sections))
	}

	// Sections sorted by id regardless of completion order.
	if !sort.SliceIsSorted(res.Sections, func(i, j int) bool {
		return res.Sections[i].SectionID < res.Sections[j].SectionID
	}) {
		t.Error("sections not sorted by id")
	}

	want := Counts{TP: 2, FP: 1, FPMismatch: 1}
	if res.Overall.Counts != want {
		t.Errorf("overall counts = %+v, want %+v", res.Overall.Counts, want)
	}
	if res.CompletedAt.Before(res.StartedAt) {
		t.Error("CompletedAt precedes StartedAt")
	}
	if len(res.Errors) != 0 {
		t.Errorf("unexpected errors: %v", res.Errors)
	}
}

func TestDriverMissingSections(t *testing.T) {
	ctx := context.Background()
	driver := NewDriver(DriverConfig{})

	expected := map[string]map[string]any{
		"header": {"vendor": "ACME", "date": "2024-01-15"},
	}
	actual := map[string]map[string]any{
		"header": {"vendor": "ACME", "date": "2024-01-15"},
		"totals": {"total": 1500.0},
	}

	res := driver.Evaluate(ctx, invoiceClass(), "doc-2", expected, actual)

	if res.Status != StatusCompleted {
		t.Errorf("Status = %v; one missing section must not fail the run", res.Status)
	}
	if len(res.Sections) != 1 || res.Sections[0].SectionID != "header" {
		t.Fatalf("sections = %+v, want only header", res.Sections)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "totals") {
		t.Errorf("errors = %v, want one naming the skipped section", res.Errors)
	}
	// Skipped section contributes nothing to the totals.
	if res.Overall.Counts != (Counts{TP: 2}) {
		t.Errorf("overall counts = %+v, want {TP:2}", res.Overall.Counts)
	}
}

func TestDriverFatalSectionErrors(t *testing.T) {
	ctx := context.Background()
	driver := NewDriver(DriverConfig{FatalSectionErrors: true})

	res := driver.Evaluate(ctx, invoiceClass(), "doc-3",
		map[string]map[string]any{"header": {"vendor": "ACME"}},
		map[string]map[string]any{"header": {"vendor": "ACME"}},
	)
	if res.Status != StatusFailed {
		t.Errorf("Status = %v, want FAILED when sections are missing and errors are fatal", res.Status)
	}
}

func TestDriverEmptyExtractions(t *testing.T) {
	ctx := context.Background()
	driver := NewDriver(DriverConfig{})

	res := driver.Evaluate(ctx, invoiceClass(), "doc-4", map[string]map[string]any{}, map[string]map[string]any{})
	if len(res.Sections) != 0 {
		t.Errorf("got %d sections, want 0", len(res.Sections))
	}
	if len(res.Errors) != 2 {
		t.Errorf("got %d errors, want one per missing section", len(res.Errors))
	}
}

func TestDocumentWeightedScore(t *testing.T) {
	sections := []SectionResult{
		{
			WeightedScore: 1.0,
			Attributes:    []AttributeResult{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		},
		{
			WeightedScore: 0.0,
			Attributes:    []AttributeResult{{Name: "d"}},
		},
		{
			// All-skipped sections carry no weight.
			WeightedScore: 0.5,
			Attributes:    []AttributeResult{{Name: "e", Skipped: true}},
		},
	}
	got := documentWeightedScore(sections)
	if got != 0.75 {
		t.Errorf("documentWeightedScore = %v, want 0.75", got)
	}

	if documentWeightedScore(nil) != 0.0 {
		t.Error("no sections should score 0")
	}
}
