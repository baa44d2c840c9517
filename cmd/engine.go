package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-cli/internal/catalog"
	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/internal/pipeline"
)

// initEngine loads the configured catalog and builds a pipeline engine.
func initEngine() (*pipeline.Engine, *model.MetricRegistry, error) {
	reg, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.Extensions...)
	if err != nil {
		return nil, nil, err
	}

	engine := pipeline.New(reg, pipeline.Options{
		Scoring: pipeline.Scoring{
			MinPartial: cfg.Matcher.MinPartialConfidence,
			MaxPartial: cfg.Matcher.MaxPartialConfidence,
		},
		MinKVConfidence: cfg.Ingest.MinKVConfidence,
	})
	return engine, reg, nil
}

// readPayload loads an analysis payload from a JSON file.
func readPayload(path string) (model.AnalysisResult, error) {
	var payload model.AnalysisResult
	b, err := os.ReadFile(path)
	if err != nil {
		return payload, eris.Wrap(err, "read payload file")
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return payload, eris.Wrap(err, "parse payload json")
	}
	return payload, nil
}

// errorKind maps an aborting error to the envelope's error kind.
func errorKind(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrValidation):
		return "ValidationError"
	case errors.Is(err, catalog.ErrConfiguration):
		return "ConfigurationError"
	default:
		return "ProcessingError"
	}
}

// errorEnvelope builds the error document emitted instead of a report.
func errorEnvelope(err error, filename, correlationID string) model.ErrorEnvelope {
	return model.ErrorEnvelope{
		Status:        "error",
		Filename:      filename,
		CorrelationID: correlationID,
		Error:         errorKind(err),
		Details:       err.Error(),
	}
}

// writeJSON marshals v with indentation and writes it to path, or to
// stdout when path is empty.
func writeJSON(v any, path string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	b = append(b, '\n')

	if path == "" {
		_, err = os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrap(err, "write output file")
	}
	return nil
}
