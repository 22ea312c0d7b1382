package runs

import (
	"time"

	"cv-standardizer/internal/extract"
)

// Run statuses. A run moves uploaded -> processing -> completed or failed.
// A failed run may be re-processed.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Run is one standardization job: an uploaded CV file plus the pipeline
// outputs tied to it.
type Run struct {
	ID            string
	SessionID     string
	FileName      string
	Format        extract.Format
	MimeType      string
	SizeBytes     int64
	StorageKey    string
	ExtractedLen  int
	DraftMarkdown string
	FinalMarkdown string
	Status        string
	ErrorCode     string
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}
