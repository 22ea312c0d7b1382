package runs

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotProcessed = errors.New("run has no standardized markdown yet")
	ErrInProgress   = errors.New("run is already processing")
)

// Error codes stored on failed runs and surfaced in API error bodies.
const (
	ErrorCodeExtraction = "extraction_failed"
	ErrorCodeModelCall  = "model_call_failed"
	ErrorCodeRender     = "render_failed"
	ErrorCodeStorage    = "storage_error"
)
