package runs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"cv-standardizer/internal/extract"
	"cv-standardizer/internal/pipeline"
	"cv-standardizer/internal/render"
	"cv-standardizer/internal/shared/metrics"
	"cv-standardizer/internal/shared/storage/object"
	"cv-standardizer/internal/shared/telemetry"
)

// Service contains business logic for standardization runs.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	Pipeline *pipeline.Standardizer
	Renderer *render.Renderer
	LogoURL  string
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Upload saves the file to object storage and records a new run in the
// uploaded state. The format is decided by the file extension alone.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, r io.Reader) (Run, error) {
	if fileName == "" {
		return Run{}, ErrInvalidInput
	}
	format, err := extract.FormatForFile(fileName)
	if err != nil {
		return Run{}, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, sessionID, fileName, r)
	if err != nil {
		return Run{}, err
	}

	run := Run{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		FileName:   fileName,
		Format:     format,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		Status:     StatusUploaded,
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, run); err != nil {
		return Run{}, err
	}

	telemetry.Info("run.uploaded", map[string]any{
		"run_id":     run.ID,
		"session_id": sessionID,
		"format":     string(format),
		"size_bytes": size,
	})
	return run, nil
}

// Get returns a run owned by the session.
func (s *Service) Get(ctx context.Context, sessionID, runID string) (Run, error) {
	if sessionID == "" || runID == "" {
		return Run{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, sessionID, runID)
}

// List returns the session's runs, newest first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]Run, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}

// Process extracts the stored file and runs the standardization pipeline.
// Failures mark the run failed with an error code; a failed run may be
// processed again.
func (s *Service) Process(ctx context.Context, sessionID, runID string) (Run, error) {
	run, err := s.Get(ctx, sessionID, runID)
	if err != nil {
		return Run{}, err
	}
	if run.Status == StatusProcessing {
		return Run{}, ErrInProgress
	}

	started := s.now()
	run.Status = StatusProcessing
	run.ErrorCode = ""
	if err := s.Repo.Update(ctx, run); err != nil {
		return Run{}, err
	}
	metrics.IncRunStarted()

	text, err := s.extractStored(ctx, run)
	if err != nil {
		return s.fail(ctx, run, ErrorCodeExtraction, err)
	}
	run.ExtractedLen = len(text)

	result, err := s.Pipeline.Standardize(ctx, text)
	if err != nil {
		return s.fail(ctx, run, ErrorCodeModelCall, err)
	}
	run.DraftMarkdown = result.Draft
	run.FinalMarkdown = result.Final

	if err := s.saveMarkdown(ctx, run); err != nil {
		return s.fail(ctx, run, ErrorCodeStorage, err)
	}

	processedAt := s.now()
	run.Status = StatusCompleted
	run.ProcessedAt = &processedAt
	if err := s.Repo.Update(ctx, run); err != nil {
		return Run{}, err
	}

	metrics.IncRunCompleted()
	metrics.ObserveRunDurationMs(float64(processedAt.Sub(started).Milliseconds()))
	telemetry.Info("run.completed", map[string]any{
		"run_id":        run.ID,
		"session_id":    sessionID,
		"extracted_len": run.ExtractedLen,
		"duration_ms":   processedAt.Sub(started).Milliseconds(),
	})
	return run, nil
}

// UpdateMarkdown replaces the final markdown of a completed run with the
// caller's edited version.
func (s *Service) UpdateMarkdown(ctx context.Context, sessionID, runID, markdown string) (Run, error) {
	if markdown == "" {
		return Run{}, ErrInvalidInput
	}
	run, err := s.Get(ctx, sessionID, runID)
	if err != nil {
		return Run{}, err
	}
	if run.Status != StatusCompleted {
		return Run{}, ErrNotProcessed
	}

	run.FinalMarkdown = markdown
	if err := s.saveMarkdown(ctx, run); err != nil {
		return Run{}, err
	}
	if err := s.Repo.Update(ctx, run); err != nil {
		return Run{}, err
	}
	telemetry.Info("run.markdown.updated", map[string]any{
		"run_id":     run.ID,
		"session_id": sessionID,
	})
	return run, nil
}

// RenderPDF renders the run's final markdown to a styled PDF stamped with
// the current date.
func (s *Service) RenderPDF(ctx context.Context, sessionID, runID string) ([]byte, error) {
	run, err := s.Get(ctx, sessionID, runID)
	if err != nil {
		return nil, err
	}
	if run.Status != StatusCompleted || run.FinalMarkdown == "" {
		return nil, ErrNotProcessed
	}
	pdf, err := s.Renderer.Render(ctx, run.FinalMarkdown, s.LogoURL, s.now())
	if err != nil {
		return nil, err
	}
	// Keep the latest rendered PDF next to the upload; the response does not
	// depend on this write succeeding.
	if _, err := s.Store.SaveWithKey(ctx, run.StorageKey+".cv.pdf", "application/pdf", bytes.NewReader(pdf)); err != nil {
		telemetry.Warn("run.pdf.store", map[string]any{
			"run_id": run.ID,
			"error":  err.Error(),
		})
	}
	return pdf, nil
}

func (s *Service) extractStored(ctx context.Context, run Run) (string, error) {
	rc, err := s.Store.Open(ctx, run.StorageKey)
	if err != nil {
		return "", fmt.Errorf("open stored file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read stored file: %w", err)
	}
	return extract.Text(ctx, data, run.Format)
}

// saveMarkdown writes the final markdown next to the uploaded file so the
// canonical output survives restarts regardless of the repo backend.
func (s *Service) saveMarkdown(ctx context.Context, run Run) error {
	key := run.StorageKey + ".cv.md"
	_, err := s.Store.SaveWithKey(ctx, key, "text/markdown", bytes.NewReader([]byte(run.FinalMarkdown)))
	return err
}

func (s *Service) fail(ctx context.Context, run Run, code string, cause error) (Run, error) {
	run.Status = StatusFailed
	run.ErrorCode = code
	if updateErr := s.Repo.Update(ctx, run); updateErr != nil {
		telemetry.Error("run.fail.update", map[string]any{
			"run_id": run.ID,
			"error":  updateErr.Error(),
		})
	}
	metrics.IncRunFailed()
	telemetry.Error("run.failed", map[string]any{
		"run_id":     run.ID,
		"session_id": run.SessionID,
		"error_code": code,
		"error":      cause.Error(),
	})
	return Run{}, cause
}
