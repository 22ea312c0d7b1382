package extract

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a format tag is not one of the
// supported values.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ExtractionError wraps a parser failure for a supported format.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
