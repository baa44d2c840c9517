package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/export"
)

var (
	processOutput string
	processXLSX   string
)

var processCmd = &cobra.Command{
	Use:   "process <payload.json>",
	Short: "Process a document-analysis payload into an ESG report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, _, err := initEngine()
		if err != nil {
			return err
		}

		payload, err := readPayload(args[0])
		if err != nil {
			return err
		}

		correlationID := uuid.NewString()
		report, err := engine.Run(payload, correlationID)
		if err != nil {
			zap.L().Error("process: run aborted",
				zap.String("payload", args[0]),
				zap.String("correlation_id", correlationID),
				zap.Error(err),
			)
			return writeJSON(errorEnvelope(err, payload.Filename, correlationID), processOutput)
		}

		if processXLSX != "" {
			if err := export.WriteXLSX(report, processXLSX); err != nil {
				return err
			}
			zap.L().Info("process: workbook written", zap.String("path", processXLSX))
		}

		return writeJSON(report, processOutput)
	},
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "report output path (default stdout)")
	processCmd.Flags().StringVar(&processXLSX, "xlsx", "", "also export the report as an xlsx workbook")
	rootCmd.AddCommand(processCmd)
}
