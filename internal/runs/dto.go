package runs

import "time"

// RunResponse is the outward-facing representation of a run.
type RunResponse struct {
	RunID         string     `json:"runId"`
	FileName      string     `json:"fileName"`
	Format        string     `json:"format"`
	MimeType      string     `json:"mimeType"`
	SizeBytes     int64      `json:"sizeBytes"`
	Status        string     `json:"status"`
	ErrorCode     string     `json:"errorCode,omitempty"`
	DraftMarkdown string     `json:"draftMarkdown,omitempty"`
	FinalMarkdown string     `json:"finalMarkdown,omitempty"`
	UploadedAt    time.Time  `json:"uploadedAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
}

func toResponse(run Run) RunResponse {
	return RunResponse{
		RunID:         run.ID,
		FileName:      run.FileName,
		Format:        string(run.Format),
		MimeType:      run.MimeType,
		SizeBytes:     run.SizeBytes,
		Status:        run.Status,
		ErrorCode:     run.ErrorCode,
		DraftMarkdown: run.DraftMarkdown,
		FinalMarkdown: run.FinalMarkdown,
		UploadedAt:    run.CreatedAt,
		ProcessedAt:   run.ProcessedAt,
	}
}
