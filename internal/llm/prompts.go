package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/researcher.txt
var researcherPrompt string

//go:embed prompts/editor.txt
var editorPrompt string

// ResearcherPrompt returns the system instruction for the extraction stage.
func ResearcherPrompt() string {
	return strings.TrimSpace(researcherPrompt)
}

// EditorPrompt returns the system instruction for the review stage.
func EditorPrompt() string {
	return strings.TrimSpace(editorPrompt)
}
