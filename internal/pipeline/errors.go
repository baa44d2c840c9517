package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-cli/internal/model"
)

// ErrValidation marks a structurally unusable extraction payload. The run
// aborts; the collaborator layer surfaces it as an error document instead
// of a partial report.
var ErrValidation = eris.New("validation error")

// ValidatePayload rejects payloads with no extractable structure at all.
// Empty-but-present structure (e.g. tables with no usable cells) is not an
// error; it degrades to a warning during assembly.
func ValidatePayload(payload model.AnalysisResult) error {
	if len(payload.Tables) == 0 && len(payload.KeyValuePairs) == 0 && payload.Content == "" {
		return eris.Wrap(ErrValidation, "payload has neither tables nor key-value pairs")
	}
	return nil
}
