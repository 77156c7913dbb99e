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

// lookupChunk bounds the number of ids bound into one IN clause
const lookupChunk = 500

// StoreWriteError is returned when a batch upsert can't be written
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("store write %s: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// JobRepository handles job records
type JobRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// jobSQL is the database row for a job record
type jobSQL struct {
	JobID       string       `db:"job_id"`
	Title       string       `db:"title"`
	Company     string       `db:"company"`
	Location    string       `db:"location"`
	Description string       `db:"description"`
	JobType     string       `db:"job_type"`
	Published   sql.NullTime `db:"published"`
	URL         string       `db:"url"`
	Source      string       `db:"source"`
	Category    string       `db:"category"`
	Salary      string       `db:"salary"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// upsertJobQuery inserts a job or overwrites the mutable fields of an existing one.
// The row is left untouched, updated_at included, when nothing changed.
const upsertJobQuery = `
	INSERT INTO jobs (
		job_id, title, company, location, description, job_type,
		published, url, source, category, salary, created_at, updated_at
	) VALUES (
		:job_id, :title, :company, :location, :description, :job_type,
		:published, :url, :source, :category, :salary, :created_at, :updated_at
	)
	ON CONFLICT(job_id) DO UPDATE SET
		title = excluded.title,
		company = excluded.company,
		location = excluded.location,
		description = excluded.description,
		job_type = excluded.job_type,
		published = excluded.published,
		url = excluded.url,
		source = excluded.source,
		category = excluded.category,
		salary = excluded.salary,
		updated_at = excluded.updated_at
	WHERE jobs.title IS NOT excluded.title
		OR jobs.company IS NOT excluded.company
		OR jobs.location IS NOT excluded.location
		OR jobs.description IS NOT excluded.description
		OR jobs.job_type IS NOT excluded.job_type
		OR jobs.published IS NOT excluded.published
		OR jobs.url IS NOT excluded.url
		OR jobs.source IS NOT excluded.source
		OR jobs.category IS NOT excluded.category
		OR jobs.salary IS NOT excluded.salary
`

// Upsert writes a batch of job records keyed by job id in a single transaction.
// New counts ids that did not exist before the batch, every other record counts as updated.
func (r *JobRepository) Upsert(ctx context.Context, records []domain.JobRecord) (domain.UpsertResult, error) {
	if len(records) == 0 {
		return domain.UpsertResult{}, nil
	}

	var res domain.UpsertResult
	err := withLockRetry(ctx, func() error {
		var err error
		res, err = r.upsertTx(ctx, records)
		return err
	})
	if err != nil {
		var swe *StoreWriteError
		if errors.As(err, &swe) {
			return domain.UpsertResult{}, err
		}
		return domain.UpsertResult{}, &StoreWriteError{Op: "upsert jobs", Err: err}
	}
	return res, nil
}

func (r *JobRepository) upsertTx(ctx context.Context, records []domain.JobRecord) (res domain.UpsertResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.JobID)
	}
	existing, err := existingJobIDs(ctx, tx, ids)
	if err != nil {
		return res, err
	}

	stmt, err := tx.PrepareNamedContext(ctx, upsertJobQuery)
	if err != nil {
		return res, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := r.now()
	for _, rec := range records {
		row := toJobSQL(rec, now)
		if _, err = stmt.ExecContext(ctx, row); err != nil {
			return domain.UpsertResult{}, fmt.Errorf("upsert job %s: %w", rec.JobID, err)
		}
		if existing[rec.JobID] {
			res.Updated++
			continue
		}
		existing[rec.JobID] = true // later duplicates in the same batch are updates
		res.New++
	}

	if err = tx.Commit(); err != nil {
		return domain.UpsertResult{}, fmt.Errorf("commit upsert: %w", err)
	}
	return res, nil
}

// existingJobIDs returns the subset of ids already stored
func existingJobIDs(ctx context.Context, tx *sqlx.Tx, ids []string) (map[string]bool, error) {
	res := make(map[string]bool, len(ids))
	for start := 0; start < len(ids); start += lookupChunk {
		end := min(start+lookupChunk, len(ids))
		query, args, err := sqlx.In("SELECT job_id FROM jobs WHERE job_id IN (?)", ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("build existing ids query: %w", err)
		}
		var found []string
		if err := tx.SelectContext(ctx, &found, tx.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("select existing ids: %w", err)
		}
		for _, id := range found {
			res[id] = true
		}
	}
	return res, nil
}

// GetJob returns a job record by id
func (r *JobRepository) GetJob(ctx context.Context, jobID string) (*domain.JobRecord, error) {
	var row jobSQL
	err := r.db.GetContext(ctx, &row, "SELECT * FROM jobs WHERE job_id = ?", jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	rec := row.toDomain()
	return &rec, nil
}

// CountJobs returns the number of stored job records
func (r *JobRepository) CountJobs(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM jobs"); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return count, nil
}

func toJobSQL(rec domain.JobRecord, now time.Time) jobSQL {
	row := jobSQL{
		JobID:       rec.JobID,
		Title:       rec.Title,
		Company:     rec.Company,
		Location:    rec.Location,
		Description: rec.Description,
		JobType:     rec.JobType,
		URL:         rec.URL,
		Source:      rec.Source,
		Category:    rec.Category,
		Salary:      rec.Salary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !rec.Published.IsZero() {
		row.Published = sql.NullTime{Time: rec.Published.UTC(), Valid: true}
	}
	return row
}

func (j *jobSQL) toDomain() domain.JobRecord {
	rec := domain.JobRecord{
		JobID:       j.JobID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Description: j.Description,
		JobType:     j.JobType,
		URL:         j.URL,
		Source:      j.Source,
		Category:    j.Category,
		Salary:      j.Salary,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if j.Published.Valid {
		rec.Published = j.Published.Time
	}
	return rec
}
