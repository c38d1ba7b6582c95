package eval

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/docuverify/fieldcheck/internal/compare"
)

// maxCellWidth truncates long extracted values in report tables.
const maxCellWidth = 60

// RenderMarkdown renders a document evaluation result as a Markdown report:
// overall metrics, per-section field tables, and every recovered error, so
// partial results stay inspectable.
func RenderMarkdown(res *DocumentResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Evaluation Report: %s\n\n", res.DocumentID)
	fmt.Fprintf(&b, "- **Document class:** %s\n", res.DocumentClass)
	fmt.Fprintf(&b, "- **Run:** %s\n", res.RunID)
	fmt.Fprintf(&b, "- **Status:** %s\n", res.Status)
	fmt.Fprintf(&b, "- **Execution time:** %s\n\n", res.ExecutionTime)

	b.WriteString("## Overall Metrics\n\n")
	writeMetricsTable(&b, res.Overall, res.WeightedScore)

	for _, section := range res.Sections {
		fmt.Fprintf(&b, "\n## Section: %s\n\n", section.SectionID)
		writeMetricsTable(&b, section.Metrics, section.WeightedScore)
		b.WriteString("\n")
		writeAttributeTable(&b, section.Attributes)
	}

	b.WriteString("\n## Errors Encountered\n\n")
	if len(res.Errors) == 0 {
		b.WriteString("None.\n")
	} else {
		for _, msg := range res.Errors {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}

	return b.String()
}

func writeMetricsTable(w io.Writer, m Metrics, weightedScore float64) {
	table := newMarkdownTable([]string{"Metric", "Value"}, w)
	_ = table.Append([]string{"Precision", fmt.Sprintf("%.3f", m.Precision)})
	_ = table.Append([]string{"Recall", fmt.Sprintf("%.3f", m.Recall)})
	_ = table.Append([]string{"F1", fmt.Sprintf("%.3f", m.F1)})
	_ = table.Append([]string{"Weighted score", fmt.Sprintf("%.3f", weightedScore)})
	_ = table.Append([]string{"True positives", fmt.Sprintf("%d", m.Counts.TP)})
	_ = table.Append([]string{"False positives", fmt.Sprintf("%d", m.Counts.FP)})
	_ = table.Append([]string{"  of which spurious", fmt.Sprintf("%d", m.Counts.FPSpurious)})
	_ = table.Append([]string{"  of which mismatched", fmt.Sprintf("%d", m.Counts.FPMismatch)})
	_ = table.Append([]string{"False negatives", fmt.Sprintf("%d", m.Counts.FN)})
	_ = table.Append([]string{"True negatives", fmt.Sprintf("%d", m.Counts.TN)})
	_ = table.Render()
}

func writeAttributeTable(w io.Writer, attrs []AttributeResult) {
	table := newMarkdownTable([]string{"Field", "Expected", "Actual", "Method", "Score", "Matched", "Reason"}, w)
	for _, a := range attrs {
		matched := "no"
		if a.Matched {
			matched = "yes"
		}
		if a.Skipped {
			matched = "-"
		}
		_ = table.Append([]string{
			a.Name,
			truncate(compare.Stringify(a.Expected)),
			truncate(compare.Stringify(a.Actual)),
			string(a.Method),
			fmt.Sprintf("%.2f", a.Score),
			matched,
			truncate(a.Reason),
		})
	}
	_ = table.Render()
}

// newMarkdownTable creates a table writer with consistent Markdown
// formatting across report sections.
func newMarkdownTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.On},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	// Cut on runes, not bytes, so multi-byte values stay valid UTF-8.
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-3]) + "..."
}
