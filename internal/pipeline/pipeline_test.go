package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cv-standardizer/internal/llm"
)

type fakeClient struct {
	calls     []call
	responses []string
	errs      []error
}

type call struct {
	system string
	user   string
}

func (f *fakeClient) Complete(ctx context.Context, system, user string) (string, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, call{system: system, user: user})
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return "", errors.New("no scripted response")
}

func TestStandardizeRunsBothStages(t *testing.T) {
	fake := &fakeClient{responses: []string{"# John Doe\ndraft", "# John Doe\nfinal"}}
	std := NewStandardizer(fake)

	result, err := std.Standardize(context.Background(), "john doe, engineer")
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	if result.Draft != "# John Doe\ndraft" {
		t.Errorf("unexpected draft %q", result.Draft)
	}
	if result.Final != "# John Doe\nfinal" {
		t.Errorf("unexpected final %q", result.Final)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(fake.calls))
	}
	if fake.calls[0].system != llm.ResearcherPrompt() {
		t.Error("first call should use researcher prompt")
	}
	if fake.calls[0].user != "john doe, engineer" {
		t.Errorf("researcher should receive raw text, got %q", fake.calls[0].user)
	}
	if fake.calls[1].system != llm.EditorPrompt() {
		t.Error("second call should use editor prompt")
	}
	if fake.calls[1].user != "# John Doe\ndraft" {
		t.Errorf("editor should receive researcher output, got %q", fake.calls[1].user)
	}
}

func TestStandardizeResearcherFailure(t *testing.T) {
	wantErr := errors.New("provider down")
	fake := &fakeClient{errs: []error{wantErr}}
	std := NewStandardizer(fake)

	_, err := std.Standardize(context.Background(), "some cv text")
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if stageErr.Stage != StageResearcher {
		t.Errorf("expected researcher stage, got %s", stageErr.Stage)
	}
	if !errors.Is(err, wantErr) {
		t.Error("expected wrapped provider error")
	}
	if len(fake.calls) != 1 {
		t.Fatalf("editor should not run after researcher failure, got %d calls", len(fake.calls))
	}
}

func TestStandardizeEditorFailure(t *testing.T) {
	wantErr := errors.New("provider down")
	fake := &fakeClient{responses: []string{"draft"}, errs: []error{nil, wantErr}}
	std := NewStandardizer(fake)

	_, err := std.Standardize(context.Background(), "some cv text")
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if stageErr.Stage != StageEditor {
		t.Errorf("expected editor stage, got %s", stageErr.Stage)
	}
}

func TestStandardizeEmptyText(t *testing.T) {
	fake := &fakeClient{}
	std := NewStandardizer(fake)
	_, err := std.Standardize(context.Background(), "   \n ")
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Error("no model call expected for empty text")
	}
}

func TestStandardizeStripsFences(t *testing.T) {
	fake := &fakeClient{responses: []string{
		"```markdown\n# John Doe\n```",
		"```\n# John Doe\nfinal\n```",
	}}
	std := NewStandardizer(fake)

	result, err := std.Standardize(context.Background(), "cv text")
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	if result.Draft != "# John Doe" {
		t.Errorf("draft fences not stripped: %q", result.Draft)
	}
	if result.Final != "# John Doe\nfinal" {
		t.Errorf("final fences not stripped: %q", result.Final)
	}
	if strings.HasPrefix(fake.calls[1].user, "```") {
		t.Error("editor should receive fence-stripped draft")
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"```\nbody\n```", "body"},
		{"```markdown\nbody\n```", "body"},
		{"``` only opening", "``` only opening"},
		{"  # Hi  ", "# Hi"},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
