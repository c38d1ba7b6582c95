package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docuverify/fieldcheck/internal/eval"
	"github.com/docuverify/fieldcheck/internal/home"
)

func TestLoadExtraction(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("envelope form", func(t *testing.T) {
		path := write("envelope.json", `{
			"document_id": "doc-7",
			"class": "invoice",
			"sections": {"header": {"vendor": "ACME"}}
		}`)
		ext, err := LoadExtraction(path)
		if err != nil {
			t.Fatal(err)
		}
		if ext.DocumentID != "doc-7" || ext.Class != "invoice" {
			t.Errorf("got %+v", ext)
		}
		if ext.Sections["header"]["vendor"] != "ACME" {
			t.Errorf("sections = %v", ext.Sections)
		}
	})

	t.Run("bare section map", func(t *testing.T) {
		path := write("bare.json", `{"header": {"vendor": "ACME", "total": 12.5}}`)
		ext, err := LoadExtraction(path)
		if err != nil {
			t.Fatal(err)
		}
		if ext.DocumentID != "" {
			t.Errorf("DocumentID = %q", ext.DocumentID)
		}
		if ext.Sections["header"]["total"] != 12.5 {
			t.Errorf("sections = %v", ext.Sections)
		}
	})

	t.Run("not an extraction", func(t *testing.T) {
		path := write("bad.json", `["just", "a", "list"]`)
		if _, err := LoadExtraction(path); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadExtraction(filepath.Join(dir, "nope.json")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestSaveResult(t *testing.T) {
	h, err := home.New(filepath.Join(t.TempDir(), "home"))
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(h, nil)

	res := &eval.DocumentResult{
		RunID:      "run-1",
		DocumentID: "doc-1",
		Status:     eval.StatusCompleted,
		Overall:    eval.ComputeMetrics(eval.Counts{TP: 1}),
	}

	resultPath, reportPath, err := s.SaveResult(res)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatal(err)
	}
	var decoded eval.DocumentResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.RunID != "run-1" || decoded.Overall.Counts.TP != 1 {
		t.Errorf("round-tripped result = %+v", decoded)
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(report), "# Evaluation Report: doc-1") {
		t.Error("report missing title")
	}
	if !strings.HasSuffix(reportPath, "doc-1_run-1.md") {
		t.Errorf("reportPath = %q", reportPath)
	}
}

func TestSaveResultFailureMarksResult(t *testing.T) {
	// A regular file where the home directory should be makes every write fail.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := home.New(blocker)
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(h, nil)

	res := &eval.DocumentResult{
		RunID:      "run-2",
		DocumentID: "doc-2",
		Status:     eval.StatusCompleted,
	}
	if _, _, err := s.SaveResult(res); err == nil {
		t.Fatal("expected persistence error")
	}
	if res.Status != eval.StatusFailed {
		t.Errorf("Status = %v, want FAILED after persistence failure", res.Status)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "persist") {
		t.Errorf("Errors = %v, want the persistence failure recorded", res.Errors)
	}
}
