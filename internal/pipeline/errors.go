package pipeline

import "fmt"

// Stage names for the two model calls.
const (
	StageResearcher = "researcher"
	StageEditor     = "editor"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
