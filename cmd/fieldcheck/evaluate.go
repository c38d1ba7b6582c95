package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/docuverify/fieldcheck/internal/config"
	"github.com/docuverify/fieldcheck/internal/eval"
	"github.com/docuverify/fieldcheck/internal/home"
	"github.com/docuverify/fieldcheck/internal/providers"
	"github.com/docuverify/fieldcheck/internal/results"
	"github.com/docuverify/fieldcheck/internal/schema"
)

var (
	schemaPath   string
	expectedPath string
	actualPath   string
	documentID   string
	offline      bool
	printReport  bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score an extraction against its ground truth",
	Long: `Evaluate compares an actual extraction against the expected one using
the document class schema, writes the result JSON and Markdown report
under the fieldcheck home directory, and prints a summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		ctx := cmd.Context()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		dir, err := home.New(homeDir)
		if err != nil {
			return err
		}

		class, err := schema.Load(schemaPath)
		if err != nil {
			return err
		}

		expected, err := results.LoadExtraction(expectedPath)
		if err != nil {
			return err
		}
		actual, err := results.LoadExtraction(actualPath)
		if err != nil {
			return err
		}
		if actual.Class != "" && actual.Class != class.Name {
			logger.Warn("extraction class does not match schema",
				"extraction_class", actual.Class, "schema_class", class.Name)
		}

		regCfg := cfg.ToRegistryConfig()
		if offline {
			regCfg = providers.RegistryConfig{Type: "mock"}
		}
		reg, err := providers.NewRegistry(regCfg)
		if err != nil {
			return err
		}

		// Config edits during a long run take effect where they safely can:
		// the provider rate limit adjusts in place.
		cm.OnChange(func(c *config.Config) {
			logger.Info("configuration reloaded", "rate_limit", c.Provider.RateLimit)
			if oc, ok := reg.LLM.(*providers.OpenAIClient); ok {
				oc.SetRateLimit(c.Provider.RateLimit)
			}
		})
		cm.WatchConfig()

		evaluator := eval.NewEvaluator(eval.EvaluatorConfig{
			Embedder: reg.Embedder,
			Judge:    &chatGenerator{client: reg.LLM},
			Logger:   logger,
		})
		driver := eval.NewDriver(eval.DriverConfig{
			Evaluator:          evaluator,
			Logger:             logger,
			MaxWorkers:         cfg.Evaluation.MaxWorkers,
			FieldWorkers:       cfg.Evaluation.FieldWorkers,
			FatalSectionErrors: cfg.Evaluation.FatalSectionErrors,
		})

		docID := resolveDocumentID(actual, expected)
		res := driver.Evaluate(ctx, class, docID, expected.Sections, actual.Sections)

		store := results.NewStore(dir, logger)
		resultPath, reportPath, err := store.SaveResult(res)
		if err != nil {
			return err
		}

		if printReport {
			fmt.Println(eval.RenderMarkdown(res))
		}

		fmt.Printf("document: %s (%s)\n", res.DocumentID, res.Status)
		fmt.Printf("precision: %.4f  recall: %.4f  f1: %.4f  weighted: %.4f\n",
			res.Overall.Precision, res.Overall.Recall, res.Overall.F1, res.WeightedScore)
		for _, e := range res.Errors {
			fmt.Printf("error: %s\n", e)
		}
		fmt.Printf("result: %s\n", resultPath)
		fmt.Printf("report: %s\n", reportPath)

		if res.Status == eval.StatusFailed {
			return fmt.Errorf("evaluation failed with %d error(s)", len(res.Errors))
		}
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&schemaPath, "schema", "", "document class schema file (required)")
	evaluateCmd.Flags().StringVar(&expectedPath, "expected", "", "ground truth extraction JSON (required)")
	evaluateCmd.Flags().StringVar(&actualPath, "actual", "", "model extraction JSON (required)")
	evaluateCmd.Flags().StringVar(&documentID, "document-id", "", "document identifier (default: derived from input)")
	evaluateCmd.Flags().BoolVar(&offline, "offline", false, "use mock providers; no network calls")
	evaluateCmd.Flags().BoolVar(&printReport, "stdout", false, "also print the Markdown report to stdout")

	_ = evaluateCmd.MarkFlagRequired("schema")
	_ = evaluateCmd.MarkFlagRequired("expected")
	_ = evaluateCmd.MarkFlagRequired("actual")
}

// resolveDocumentID picks an identifier for the run: the explicit flag, then
// the extractions' own ids, then the actual file's base name.
func resolveDocumentID(actual, expected *results.Extraction) string {
	switch {
	case documentID != "":
		return documentID
	case actual.DocumentID != "":
		return actual.DocumentID
	case expected.DocumentID != "":
		return expected.DocumentID
	}
	base := strings.TrimSuffix(filepath.Base(actualPath), filepath.Ext(actualPath))
	if base != "" && base != "." {
		return base
	}
	return uuid.NewString()
}

// chatGenerator adapts the chat client to the judge's generation interface.
type chatGenerator struct {
	client providers.LLMClient
}

func (g *chatGenerator) Generate(ctx context.Context, systemPrompt, content string) (string, error) {
	resp, err := g.client.Chat(ctx, &providers.ChatRequest{
		System:  systemPrompt,
		Content: content,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
