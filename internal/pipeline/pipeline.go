package pipeline

import (
	"context"
	"fmt"
	"strings"

	"cv-standardizer/internal/llm"
	"cv-standardizer/internal/shared/telemetry"
)

// Standardizer runs the two-stage CV pipeline: a researcher call that
// restructures the raw text into the canonical markdown template, then an
// editor call that reviews and cleans the draft.
type Standardizer struct {
	LLM llm.Client
}

// Result carries the intermediate and final markdown.
type Result struct {
	Draft string
	Final string
}

// NewStandardizer wires a standardizer over the given client.
func NewStandardizer(client llm.Client) *Standardizer {
	return &Standardizer{LLM: client}
}

// Standardize converts extracted CV text into canonical markdown. A stage
// failure aborts the run; the editor never sees a failed draft.
func (s *Standardizer) Standardize(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, &StageError{Stage: StageResearcher, Err: fmt.Errorf("empty CV text")}
	}

	draft, err := s.LLM.Complete(ctx, llm.ResearcherPrompt(), text)
	if err != nil {
		return Result{}, &StageError{Stage: StageResearcher, Err: err}
	}
	draft = stripFences(draft)
	telemetry.Info("pipeline.researcher.complete", map[string]any{
		"draft_len": len(draft),
	})

	final, err := s.LLM.Complete(ctx, llm.EditorPrompt(), draft)
	if err != nil {
		return Result{}, &StageError{Stage: StageEditor, Err: err}
	}
	final = stripFences(final)
	telemetry.Info("pipeline.editor.complete", map[string]any{
		"final_len": len(final),
	})

	return Result{Draft: draft, Final: final}, nil
}

// stripFences removes a surrounding markdown code fence if the model
// ignored the no-fence instruction.
func stripFences(out string) string {
	trimmed := strings.TrimSpace(out)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		return trimmed
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}
