package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/formrush/formrush/internal/gforms"
)

// DBTX is the subset of pgxpool.Pool the repositories need. Transactions
// satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FormLogRepository persists the form access log in Postgres.
type FormLogRepository struct {
	db DBTX
}

func NewFormLogRepository(db DBTX) *FormLogRepository {
	return &FormLogRepository{db: db}
}

const insertAccessLogSQL = `
INSERT INTO form_access_logs (form_id, url, title, question_count, accessed_at)
VALUES ($1, $2, $3, $4, $5)`

// RecordAccess inserts one access record. Satisfies gforms.AccessRecorder.
func (r *FormLogRepository) RecordAccess(ctx context.Context, rec gforms.AccessRecord) error {
	_, err := r.db.Exec(ctx, insertAccessLogSQL,
		rec.FormID, rec.URL, rec.Title, rec.QuestionCount, time.Now().UTC())
	return err
}

const listRecentSQL = `
SELECT id, form_id, url, title, question_count, accessed_at
FROM form_access_logs
ORDER BY accessed_at DESC
LIMIT $1`

// ListRecent returns the newest access records, newest first. Satisfies
// gforms.AccessLister.
func (r *FormLogRepository) ListRecent(ctx context.Context, limit int32) ([]gforms.AccessLogEntry, error) {
	rows, err := r.db.Query(ctx, listRecentSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []gforms.AccessLogEntry
	for rows.Next() {
		var log gforms.AccessLogEntry
		if err := rows.Scan(&log.ID, &log.FormID, &log.URL, &log.Title, &log.QuestionCount, &log.AccessedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

const purgeSQL = `DELETE FROM form_access_logs WHERE accessed_at < $1`

// PurgeOlderThan deletes records older than the cutoff and reports how many
// went away.
func (r *FormLogRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, purgeSQL, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
