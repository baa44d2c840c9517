package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/resilience"
	"github.com/sells-group/esg-cli/pkg/docintel"
)

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <spreadsheet>",
	Short: "Analyze a spreadsheet via the document-analysis service and build the ESG report",
	Long:  "Submits the file to the configured document-analysis endpoint, then runs the extraction pipeline on the result. The spreadsheet binary itself is never parsed locally.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DocIntel.Endpoint == "" {
			return eris.New("docintel.endpoint is not configured")
		}

		engine, _, err := initEngine()
		if err != nil {
			return err
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read spreadsheet")
		}

		client := docintel.NewClient(cfg.DocIntel.Endpoint, cfg.DocIntel.APIKey,
			docintel.WithMaxFileSizeMB(cfg.DocIntel.MaxFileSizeMB),
			docintel.WithRateLimit(cfg.DocIntel.RequestsPerSecond),
			docintel.WithRetry(resilience.RetryConfig{
				MaxAttempts: cfg.DocIntel.MaxRetries,
				Service:     "docintel",
			}),
		)

		filename := filepath.Base(args[0])
		correlationID := uuid.NewString()

		ctx, cancel := contextWithTimeout(cmd, cfg.DocIntel.TimeoutSecs)
		defer cancel()

		payload, err := client.Analyze(ctx, filename, content)
		if err != nil {
			zap.L().Error("analyze: document analysis failed",
				zap.String("file", filename),
				zap.String("correlation_id", correlationID),
				zap.Error(err),
			)
			return writeJSON(errorEnvelope(err, filename, correlationID), analyzeOutput)
		}

		zap.L().Info("analyze: extraction complete",
			zap.String("file", filename),
			zap.Int("tables", len(payload.Tables)),
			zap.Int("kv_pairs", len(payload.KeyValuePairs)),
		)

		report, err := engine.Run(*payload, correlationID)
		if err != nil {
			return writeJSON(errorEnvelope(err, filename, correlationID), analyzeOutput)
		}

		return writeJSON(report, analyzeOutput)
	},
}

func contextWithTimeout(cmd *cobra.Command, secs int) (ctx context.Context, cancel context.CancelFunc) {
	if secs <= 0 {
		secs = 300
	}
	return context.WithTimeout(cmd.Context(), time.Duration(secs)*time.Second)
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "report output path (default stdout)")
	rootCmd.AddCommand(analyzeCmd)
}
