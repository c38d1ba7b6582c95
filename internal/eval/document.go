package eval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docuverify/fieldcheck/internal/prompts/judge"
	"github.com/docuverify/fieldcheck/internal/schema"
)

// Status is the lifecycle state of one document evaluation.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// DocumentResult is the complete outcome of evaluating one document.
type DocumentResult struct {
	RunID         string `json:"run_id"`
	DocumentID    string `json:"document_id"`
	DocumentClass string `json:"document_class"`
	Status        Status `json:"status"`

	// JudgePrompt is the revision hash of the LLM judge prompt in effect for
	// this run, so results remain traceable across prompt edits.
	JudgePrompt string `json:"judge_prompt_sha256,omitempty"`

	Sections      []SectionResult `json:"sections"`
	Overall       Metrics         `json:"overall_metrics"`
	WeightedScore float64         `json:"weighted_score"`

	// Errors lists every recovered error message so partial results stay
	// inspectable. Sections that errored are excluded from Overall.
	Errors []string `json:"errors,omitempty"`

	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   time.Time     `json:"completed_at"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// Driver fans section evaluations out over a bounded worker pool and folds
// the results into document-level metrics.
type Driver struct {
	evaluator *Evaluator
	logger    *slog.Logger

	maxWorkers   int
	fieldWorkers int
	fatalErrors  bool
}

// DriverConfig configures a document evaluation driver.
type DriverConfig struct {
	Evaluator *Evaluator
	Logger    *slog.Logger

	// MaxWorkers bounds concurrent section evaluations (default 5).
	MaxWorkers int
	// FieldWorkers bounds concurrent field evaluations within one section
	// (default 5); keeps many LLM/embedding calls from overwhelming the
	// downstream provider.
	FieldWorkers int
	// FatalSectionErrors flips the document to FAILED when any section
	// errors. Off by default: one bad section should not void the rest.
	FatalSectionErrors bool
}

// NewDriver creates a document evaluation driver.
func NewDriver(cfg DriverConfig) *Driver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}
	fieldWorkers := cfg.FieldWorkers
	if fieldWorkers <= 0 {
		fieldWorkers = 5
	}
	evaluator := cfg.Evaluator
	if evaluator == nil {
		evaluator = NewEvaluator(EvaluatorConfig{Logger: logger})
	}
	return &Driver{
		evaluator:    evaluator,
		logger:       logger,
		maxWorkers:   maxWorkers,
		fieldWorkers: fieldWorkers,
		fatalErrors:  cfg.FatalSectionErrors,
	}
}

// Evaluate scores the actual extraction against the expected one for every
// section both documents share. Sections present on only one side are
// recorded as errors and skipped from scoring; a section that fails mid-
// evaluation is likewise excluded without aborting its siblings.
func (d *Driver) Evaluate(ctx context.Context, class *schema.Class, documentID string, expected, actual map[string]map[string]any) *DocumentResult {
	result := &DocumentResult{
		RunID:         uuid.NewString(),
		DocumentID:    documentID,
		DocumentClass: class.Name,
		Status:        StatusPending,
		JudgePrompt:   judge.Fingerprint,
	}

	logger := d.logger.With("document", documentID, "class", class.Name, "run", result.RunID)

	result.Status = StatusRunning
	result.StartedAt = time.Now()

	type sectionOutcome struct {
		result *SectionResult
		err    error
	}

	outcomes := make([]sectionOutcome, len(class.Sections))
	sem := make(chan struct{}, d.maxWorkers)
	var wg sync.WaitGroup

	for i, spec := range class.Sections {
		expTree, expOK := expected[spec.ID]
		actTree, actOK := actual[spec.ID]
		if !expOK || !actOK {
			msg := fmt.Sprintf("section %q missing from %s extraction, skipped", spec.ID, missingSide(expOK, actOK))
			logger.Warn("skipping section", "section", spec.ID, "in_expected", expOK, "in_actual", actOK)
			outcomes[i] = sectionOutcome{err: fmt.Errorf("%s", msg)}
			continue
		}

		wg.Add(1)
		go func(i int, spec schema.SectionSpec, expTree, actTree map[string]any) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = sectionOutcome{err: fmt.Errorf("section %q evaluation panicked: %v", spec.ID, r)}
				}
			}()

			sr := d.evaluator.evaluateSection(ctx, class.Name, spec, expTree, actTree, d.fieldWorkers)
			outcomes[i] = sectionOutcome{result: &sr}
		}(i, spec, expTree, actTree)
	}
	wg.Wait()

	var totals Counts
	for _, o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, o.err.Error())
			continue
		}
		if o.result != nil {
			result.Sections = append(result.Sections, *o.result)
			totals = totals.Add(o.result.Metrics.Counts)
		}
	}

	sort.Slice(result.Sections, func(i, j int) bool {
		return result.Sections[i].SectionID < result.Sections[j].SectionID
	})

	result.Overall = ComputeMetrics(totals)
	result.WeightedScore = documentWeightedScore(result.Sections)
	result.CompletedAt = time.Now()
	result.ExecutionTime = result.CompletedAt.Sub(result.StartedAt)

	if d.fatalErrors && len(result.Errors) > 0 {
		result.Status = StatusFailed
	} else {
		result.Status = StatusCompleted
	}

	logger.Info("document evaluation finished",
		"status", result.Status,
		"sections", len(result.Sections),
		"errors", len(result.Errors),
		"precision", result.Overall.Precision,
		"recall", result.Overall.Recall,
		"f1", result.Overall.F1,
		"duration", result.ExecutionTime,
	)

	return result
}

func missingSide(inExpected, inActual bool) string {
	switch {
	case !inExpected && !inActual:
		return "both"
	case !inExpected:
		return "expected"
	default:
		return "actual"
	}
}

// documentWeightedScore folds section weighted scores, weighting each
// section by its number of scored attributes.
func documentWeightedScore(sections []SectionResult) float64 {
	var sum, n float64
	for _, s := range sections {
		scored := 0
		for _, a := range s.Attributes {
			if !a.Skipped {
				scored++
			}
		}
		if scored == 0 {
			continue
		}
		sum += s.WeightedScore * float64(scored)
		n += float64(scored)
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
