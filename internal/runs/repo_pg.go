package runs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cv-standardizer/internal/extract"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const runColumns = `id, session_id, file_name, format, mime_type, size_bytes, storage_key, extracted_len, draft_markdown, final_markdown, status, error_code, created_at, processed_at`

// Create inserts a new run.
func (r *PGRepo) Create(ctx context.Context, run Run) error {
	const query = `
INSERT INTO runs (
    id,
    session_id,
    file_name,
    format,
    mime_type,
    size_bytes,
    storage_key,
    extracted_len,
    draft_markdown,
    final_markdown,
    status,
    error_code,
    created_at,
    processed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		run.ID,
		run.SessionID,
		run.FileName,
		string(run.Format),
		run.MimeType,
		run.SizeBytes,
		nullString(run.StorageKey),
		run.ExtractedLen,
		nullString(run.DraftMarkdown),
		nullString(run.FinalMarkdown),
		run.Status,
		nullString(run.ErrorCode),
		run.CreatedAt,
		nullTime(run.ProcessedAt),
	)
	return err
}

// GetByID returns a run by ID scoped to a session.
func (r *PGRepo) GetByID(ctx context.Context, sessionID, runID string) (Run, error) {
	const query = `
SELECT ` + runColumns + `
FROM runs
WHERE session_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, sessionID, runID)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	return run, nil
}

// Update overwrites the mutable columns of a run.
func (r *PGRepo) Update(ctx context.Context, run Run) error {
	const query = `
UPDATE runs
SET extracted_len = $1,
    draft_markdown = $2,
    final_markdown = $3,
    status = $4,
    error_code = $5,
    processed_at = $6
WHERE session_id = $7 AND id = $8`
	res, err := r.DB.ExecContext(
		ctx,
		query,
		run.ExtractedLen,
		nullString(run.DraftMarkdown),
		nullString(run.FinalMarkdown),
		run.Status,
		nullString(run.ErrorCode),
		nullTime(run.ProcessedAt),
		run.SessionID,
		run.ID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBySession lists runs ordered newest-first.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + runColumns + `
FROM runs
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var format string
	var storageKey sql.NullString
	var draft sql.NullString
	var final sql.NullString
	var errorCode sql.NullString
	var processedAt sql.NullTime
	err := row.Scan(
		&run.ID,
		&run.SessionID,
		&run.FileName,
		&format,
		&run.MimeType,
		&run.SizeBytes,
		&storageKey,
		&run.ExtractedLen,
		&draft,
		&final,
		&run.Status,
		&errorCode,
		&run.CreatedAt,
		&processedAt,
	)
	if err != nil {
		return Run{}, err
	}
	run.Format = extract.Format(format)
	if storageKey.Valid {
		run.StorageKey = storageKey.String
	}
	if draft.Valid {
		run.DraftMarkdown = draft.String
	}
	if final.Valid {
		run.FinalMarkdown = final.String
	}
	if errorCode.Valid {
		run.ErrorCode = errorCode.String
	}
	if processedAt.Valid {
		run.ProcessedAt = &processedAt.Time
	}
	return run, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
