// Package results is the storage collaborator around the comparison engine:
// it loads extraction field trees from disk and persists result JSON and
// Markdown report artifacts. The engine itself never touches storage.
package results

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/docuverify/fieldcheck/internal/eval"
	"github.com/docuverify/fieldcheck/internal/home"
)

// Extraction is a document's extracted field trees keyed by section id.
// Field values are arbitrary JSON-compatible structures: scalars, nested
// objects, or lists of objects.
type Extraction struct {
	DocumentID string                    `json:"document_id,omitempty"`
	Class      string                    `json:"class,omitempty"`
	Sections   map[string]map[string]any `json:"sections"`
}

// Store reads extractions and writes evaluation artifacts under the
// fieldcheck home directory.
type Store struct {
	home   *home.Dir
	logger *slog.Logger
}

// NewStore creates a results store.
func NewStore(h *home.Dir, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{home: h, logger: logger}
}

// LoadExtraction reads an extraction document from a JSON file. Files may
// either use the full envelope ({"document_id", "sections": {...}}) or be a
// bare map of section id to field tree.
func LoadExtraction(path string) (*Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction %s: %w", path, err)
	}

	var ext Extraction
	if err := json.Unmarshal(data, &ext); err == nil && ext.Sections != nil {
		return &ext, nil
	}

	var bare map[string]map[string]any
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("extraction %s is not a section map: %w", path, err)
	}
	return &Extraction{Sections: bare}, nil
}

// SaveResult persists the evaluation result JSON and its Markdown report and
// returns the two paths written. A persistence failure flips the result to
// FAILED and appends the error, so callers inspecting the in-memory result
// never see a COMPLETED evaluation whose artifacts were lost.
func (s *Store) SaveResult(res *eval.DocumentResult) (resultPath, reportPath string, err error) {
	resultPath, reportPath, err = s.write(res)
	if err != nil {
		res.Status = eval.StatusFailed
		res.Errors = append(res.Errors, fmt.Sprintf("failed to persist result: %v", err))
	}
	return resultPath, reportPath, err
}

func (s *Store) write(res *eval.DocumentResult) (resultPath, reportPath string, err error) {
	if err := s.home.EnsureExists(); err != nil {
		return "", "", err
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize result: %w", err)
	}

	resultPath = s.home.ResultPath(res.DocumentID, res.RunID)
	if err := os.WriteFile(resultPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write result: %w", err)
	}

	reportPath = s.home.ReportPath(res.DocumentID, res.RunID)
	if err := os.WriteFile(reportPath, []byte(eval.RenderMarkdown(res)), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write report: %w", err)
	}

	s.logger.Info("evaluation artifacts written", "result", resultPath, "report", reportPath)
	return resultPath, reportPath, nil
}
