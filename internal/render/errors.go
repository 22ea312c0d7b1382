package render

import "fmt"

// Steps of the render flow.
const (
	StepMarkdown = "markdown"
	StepPDF      = "pdf"
)

// RenderError reports which render step failed.
type RenderError struct {
	Step string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Step, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
