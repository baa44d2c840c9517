package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var batchOutputDir string

var batchCmd = &cobra.Command{
	Use:   "batch <payload-dir>",
	Short: "Process a directory of analysis payloads concurrently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, _, err := initEngine()
		if err != nil {
			return err
		}

		entries, err := os.ReadDir(args[0])
		if err != nil {
			return eris.Wrap(err, "read payload dir")
		}

		outDir := batchOutputDir
		if outDir == "" {
			outDir = args[0]
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrap(err, "create output dir")
		}

		var processed, failed atomic.Int64

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrentDocuments)

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") ||
				strings.HasSuffix(entry.Name(), ".report.json") ||
				strings.HasSuffix(entry.Name(), ".error.json") {
				continue
			}

			entry := entry
			g.Go(func() error {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}

				inPath := filepath.Join(args[0], entry.Name())
				base := strings.TrimSuffix(entry.Name(), ".json")
				correlationID := uuid.NewString()

				payload, err := readPayload(inPath)
				if err == nil {
					var report any
					report, err = engine.Run(payload, correlationID)
					if err == nil {
						processed.Add(1)
						return writeJSON(report, filepath.Join(outDir, base+".report.json"))
					}
				}

				// A failed document gets an error document, not a failed batch.
				failed.Add(1)
				zap.L().Error("batch: document failed",
					zap.String("payload", inPath),
					zap.String("correlation_id", correlationID),
					zap.Error(err),
				)
				return writeJSON(errorEnvelope(err, entry.Name(), correlationID), filepath.Join(outDir, base+".error.json"))
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch processing")
		}

		zap.L().Info("batch: complete",
			zap.Int64("processed", processed.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "", "report output directory (default payload dir)")
	rootCmd.AddCommand(batchCmd)
}
