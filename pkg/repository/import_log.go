package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedimport/pkg/domain"
)

// ImportLogRepository persists import attempts and enforces their status transitions
type ImportLogRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// importLogSQL is the database row for an import log
type importLogSQL struct {
	ImportID     string         `db:"import_id"`
	FeedURL      string         `db:"feed_url"`
	Category     string         `db:"category"`
	Status       string         `db:"status"`
	TotalFetched int            `db:"total_fetched"`
	NewJobs      int            `db:"new_jobs"`
	UpdatedJobs  int            `db:"updated_jobs"`
	FailedCount  int            `db:"failed_count"`
	FailedJobs   failedItemsSQL `db:"failed_jobs"`
	Error        string         `db:"error"`
	Logs         notesSQL       `db:"logs"`
	Attempts     int            `db:"attempts"`
	StartedAt    sql.NullTime   `db:"started_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
	CreatedAt    time.Time      `db:"created_at"`
}

// NewImportLogRepository creates a new import log repository
func NewImportLogRepository(db *sqlx.DB) *ImportLogRepository {
	return &ImportLogRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// CreateImportLog inserts a new pending import log
func (r *ImportLogRepository) CreateImportLog(ctx context.Context, log *domain.ImportLog) error {
	if log.ImportID == "" {
		return errors.New("create import log: empty import id")
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = r.now()
	}
	log.Status = domain.ImportPending

	row := importLogSQL{
		ImportID:  log.ImportID,
		FeedURL:   log.FeedURL,
		Category:  log.Category,
		Status:    string(log.Status),
		Logs:      notesSQL(log.Logs),
		CreatedAt: log.CreatedAt,
	}
	query := `
		INSERT INTO import_logs (import_id, feed_url, category, status, failed_jobs, logs, created_at)
		VALUES (:import_id, :feed_url, :category, :status, '[]', :logs, :created_at)
	`
	return withLockRetry(ctx, func() error {
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("create import log: %w", err)
		}
		return nil
	})
}

// GetImportLog returns an import log by id
func (r *ImportLogRepository) GetImportLog(ctx context.Context, importID string) (*domain.ImportLog, error) {
	var row importLogSQL
	err := r.db.GetContext(ctx, &row, "SELECT * FROM import_logs WHERE import_id = ?", importID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import log %s: %w", importID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get import log: %w", err)
	}
	res := row.toDomain()
	return &res, nil
}

// MarkProcessing moves a log into processing, counts the attempt and appends the note.
// The first transition stamps started_at.
func (r *ImportLogRepository) MarkProcessing(ctx context.Context, importID, note string) error {
	query := `
		UPDATE import_logs
		SET status = ?,
		    attempts = attempts + 1,
		    started_at = COALESCE(started_at, ?),
		    logs = json_insert(logs, '$[#]', ?)
		WHERE import_id = ? AND status IN (?)`
	return r.transition(ctx, importID, domain.ImportProcessing, query,
		domain.ImportProcessing, r.now(), note, importID)
}

// MarkCompleted writes the final counters and rejected items of a successful attempt
func (r *ImportLogRepository) MarkCompleted(ctx context.Context, importID string, sum domain.ImportSummary) error {
	query := `
		UPDATE import_logs
		SET status = ?,
		    total_fetched = ?,
		    new_jobs = ?,
		    updated_jobs = ?,
		    failed_count = ?,
		    failed_jobs = ?,
		    error = '',
		    completed_at = ?,
		    logs = json_insert(logs, '$[#]', ?)
		WHERE import_id = ? AND status IN (?)`
	return r.transition(ctx, importID, domain.ImportCompleted, query,
		domain.ImportCompleted, sum.TotalFetched, sum.NewJobs, sum.UpdatedJobs, len(sum.FailedJobs),
		failedItemsSQL(sum.FailedJobs), r.now(), sum.Note, importID)
}

// MarkFailed records a crashed attempt. Counters of failed items are reset.
func (r *ImportLogRepository) MarkFailed(ctx context.Context, importID, errMsg, note string) error {
	query := `
		UPDATE import_logs
		SET status = ?,
		    error = ?,
		    failed_count = 0,
		    failed_jobs = '[]',
		    completed_at = ?,
		    logs = json_insert(logs, '$[#]', ?)
		WHERE import_id = ? AND status IN (?)`
	return r.transition(ctx, importID, domain.ImportFailed, query,
		domain.ImportFailed, errMsg, r.now(), note, importID)
}

// AppendLog adds a note to a log that is not terminal yet
func (r *ImportLogRepository) AppendLog(ctx context.Context, importID, note string) error {
	query := `
		UPDATE import_logs
		SET logs = json_insert(logs, '$[#]', ?)
		WHERE import_id = ? AND status IN (?)`
	args := []interface{}{note, importID, []domain.ImportStatus{domain.ImportPending, domain.ImportProcessing}}
	q, qargs, err := sqlx.In(query, args...)
	if err != nil {
		return fmt.Errorf("build append log query: %w", err)
	}
	return r.execConditional(ctx, importID, r.db.Rebind(q), qargs)
}

// transition runs a conditional update allowed only from the source statuses of target
func (r *ImportLogRepository) transition(ctx context.Context, importID string, target domain.ImportStatus,
	query string, args ...interface{}) error {
	args = append(args, domain.SourcesFor(target))
	q, qargs, err := sqlx.In(query, args...)
	if err != nil {
		return fmt.Errorf("build %s transition: %w", target, err)
	}
	if err := r.execConditional(ctx, importID, r.db.Rebind(q), qargs); err != nil {
		return fmt.Errorf("mark %s: %w", target, err)
	}
	return nil
}

// execConditional runs an update guarded by status and tells a missing log from a rejected transition
func (r *ImportLogRepository) execConditional(ctx context.Context, importID, query string, args []interface{}) error {
	var affected int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("update import log: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var status string
	err = r.db.GetContext(ctx, &status, "SELECT status FROM import_logs WHERE import_id = ?", importID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("import log %s: %w", importID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check import log status: %w", err)
	}
	return fmt.Errorf("import log %s is %s: %w", importID, status, domain.ErrInvalidTransition)
}

// ListImportLogs returns a page of import logs, newest first. Page is 1-based.
func (r *ImportLogRepository) ListImportLogs(ctx context.Context, page, limit int) (*domain.HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM import_logs"); err != nil {
		return nil, fmt.Errorf("count import logs: %w", err)
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	// pages past the last one are empty, checked first so the offset stays below total
	var rows []importLogSQL
	if page <= totalPages {
		query := "SELECT * FROM import_logs ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?"
		if err := r.db.SelectContext(ctx, &rows, query, limit, (page-1)*limit); err != nil {
			return nil, fmt.Errorf("list import logs: %w", err)
		}
	}

	res := &domain.HistoryPage{
		Items:      make([]domain.ImportLog, 0, len(rows)),
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		Limit:      limit,
	}
	for i := range rows {
		res.Items = append(res.Items, rows[i].toDomain())
	}
	return res, nil
}

// ImportStats aggregates counters over all import logs
func (r *ImportLogRepository) ImportStats(ctx context.Context) (domain.ImportStats, error) {
	var stats domain.ImportStats
	query := `
		SELECT
			COUNT(*) AS total_imports,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed_imports,
			COALESCE(SUM(new_jobs), 0) AS total_new_jobs,
			COALESCE(SUM(updated_jobs), 0) AS total_updated_jobs,
			COALESCE(SUM(failed_count), 0) AS total_failed_jobs
		FROM import_logs`
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return domain.ImportStats{}, fmt.Errorf("import stats: %w", err)
	}
	return stats, nil
}

func (l *importLogSQL) toDomain() domain.ImportLog {
	res := domain.ImportLog{
		ImportID:     l.ImportID,
		FeedURL:      l.FeedURL,
		Category:     l.Category,
		Status:       domain.ImportStatus(l.Status),
		TotalFetched: l.TotalFetched,
		NewJobs:      l.NewJobs,
		UpdatedJobs:  l.UpdatedJobs,
		FailedCount:  l.FailedCount,
		FailedJobs:   []domain.FailedItem(l.FailedJobs),
		Error:        l.Error,
		Logs:         []string(l.Logs),
		Attempts:     l.Attempts,
		CreatedAt:    l.CreatedAt,
	}
	if res.FailedJobs == nil {
		res.FailedJobs = []domain.FailedItem{}
	}
	if res.Logs == nil {
		res.Logs = []string{}
	}
	if l.StartedAt.Valid {
		t := l.StartedAt.Time
		res.StartedAt = &t
	}
	if l.CompletedAt.Valid {
		t := l.CompletedAt.Time
		res.CompletedAt = &t
	}
	return res
}
