package eval

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/docuverify/fieldcheck/internal/schema"
)

// SectionResult holds the ordered per-field outcomes and aggregate metrics
// for one document section.
type SectionResult struct {
	SectionID     string            `json:"section_id"`
	DocumentClass string            `json:"document_class"`
	Attributes    []AttributeResult `json:"attributes"`
	Metrics       Metrics           `json:"metrics"`

	// WeightedScore is the weight-averaged field score across scored
	// (non-skipped) attributes.
	WeightedScore float64 `json:"weighted_score"`
}

// fieldTask is one flattened field evaluation: nested object fields become
// dotted names with their sub-values resolved from both trees.
type fieldTask struct {
	name     string
	spec     schema.FieldSpec
	expected any
	actual   any
}

// flattenFields expands a section's field specs against the expected and
// actual trees. Object fields recurse with dotted names; list fields stay
// whole (Hungarian matching operates at the list level).
func flattenFields(specs []schema.FieldSpec, prefix string, expected, actual map[string]any) []fieldTask {
	var tasks []fieldTask
	for _, spec := range specs {
		name := spec.Name
		if prefix != "" {
			name = prefix + "." + spec.Name
		}

		expVal := lookup(expected, spec.Name)
		actVal := lookup(actual, spec.Name)

		if spec.EffectiveType() == schema.TypeObject {
			flat := spec
			flat.Name = name
			tasks = append(tasks, flattenFields(spec.Fields, name, asTree(expVal), asTree(actVal))...)
			continue
		}

		flat := spec
		flat.Name = name
		tasks = append(tasks, fieldTask{name: name, spec: flat, expected: expVal, actual: actVal})
	}
	return tasks
}

func lookup(tree map[string]any, key string) any {
	if tree == nil {
		return nil
	}
	return tree[key]
}

func asTree(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// evaluateSection scores every field of one section. Fields run concurrently
// under a bounded semaphore since SEMANTIC/LLM fields block on provider
// calls; each task returns its own immutable result and counts, folded after
// all workers finish, so no shared counters need locking. Results come back
// sorted by field name regardless of completion order.
func (e *Evaluator) evaluateSection(ctx context.Context, documentClass string, spec schema.SectionSpec, expected, actual map[string]any, workers int) SectionResult {
	tasks := flattenFields(spec.Fields, "", expected, actual)

	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	attrs := make([]AttributeResult, len(tasks))
	counts := make([]Counts, len(tasks))

	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task fieldTask) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					attrs[i] = AttributeResult{
						Name:      task.name,
						Expected:  task.expected,
						Actual:    task.actual,
						Method:    task.spec.EffectiveMethod(),
						Threshold: task.spec.EffectiveThreshold(),
						Weight:    task.spec.EffectiveWeight(),
						Reason:    fmt.Sprintf("evaluation panicked: %v", r),
					}
					counts[i] = Counts{FP: 1, FPMismatch: 1}
				}
			}()

			attrs[i], counts[i] = e.EvaluateAttribute(ctx, documentClass, task.spec, task.expected, task.actual)
		}(i, task)
	}
	wg.Wait()

	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

	var total Counts
	for _, c := range counts {
		total = total.Add(c)
	}

	return SectionResult{
		SectionID:     spec.ID,
		DocumentClass: documentClass,
		Attributes:    attrs,
		Metrics:       ComputeMetrics(total),
		WeightedScore: weightedScore(attrs),
	}
}

// weightedScore averages attribute scores by weight, skipping NONE fields.
func weightedScore(attrs []AttributeResult) float64 {
	var sum, weights float64
	for _, a := range attrs {
		if a.Skipped {
			continue
		}
		sum += a.Score * a.Weight
		weights += a.Weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}
