package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedimport/pkg/domain"
)

// TaskRepository is a durable queue of import tasks over SQLite, for single-node deployments
type TaskRepository struct {
	db           *sqlx.DB
	now          func() time.Time
	pollInterval time.Duration
}

// taskSQL is the database row for a queued task
type taskSQL struct {
	ID          string    `db:"id"`
	ImportID    string    `db:"import_id"`
	FeedURL     string    `db:"feed_url"`
	Category    string    `db:"category"`
	State       string    `db:"state"`
	Attempt     int       `db:"attempt"`
	MaxAttempts int       `db:"max_attempts"`
	LastError   string    `db:"last_error"`
	RunAt       int64     `db:"run_at"`
	ReservedAt  int64     `db:"reserved_at"`
	CreatedAt   time.Time `db:"created_at"`
}

const (
	taskReady      = "ready"
	taskProcessing = "processing"
	taskFailed     = "failed"
)

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{
		db:           db,
		now:          func() time.Time { return time.Now().UTC() },
		pollInterval: 100 * time.Millisecond,
	}
}

// Push adds a task to the ready queue and returns its id
func (r *TaskRepository) Push(ctx context.Context, task domain.Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.MaxAttempts < 1 {
		task.MaxAttempts = 1
	}
	now := r.now()
	row := taskSQL{
		ID:          task.ID,
		ImportID:    task.ImportID,
		FeedURL:     task.FeedURL,
		Category:    task.Category,
		State:       taskReady,
		MaxAttempts: task.MaxAttempts,
		RunAt:       now.UnixMilli(),
		CreatedAt:   now,
	}
	query := `
		INSERT INTO tasks (id, import_id, feed_url, category, state, attempt, max_attempts, run_at, created_at)
		VALUES (:id, :import_id, :feed_url, :category, :state, 0, :max_attempts, :run_at, :created_at)
	`
	err := withLockRetry(ctx, func() error {
		_, err := r.db.NamedExecContext(ctx, query, row)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("push task: %w", err)
	}
	return task.ID, nil
}

// Reserve takes the oldest due task, marks it processing and counts the delivery.
// It polls until wait elapses and returns domain.ErrNoTask if nothing became due.
func (r *TaskRepository) Reserve(ctx context.Context, wait time.Duration) (*domain.Task, error) {
	deadline := time.Now().Add(wait)
	for {
		task, err := r.reserveOne(ctx)
		if err == nil {
			return task, nil
		}
		if !errors.Is(err, domain.ErrNoTask) {
			return nil, err
		}
		if !time.Now().Before(deadline) {
			return nil, domain.ErrNoTask
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.pollInterval):
		}
	}
}

func (r *TaskRepository) reserveOne(ctx context.Context) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET state = ?, attempt = attempt + 1, reserved_at = ?
		WHERE id = (
			SELECT id FROM tasks WHERE state = ? AND run_at <= ?
			ORDER BY run_at, rowid LIMIT 1
		)
		RETURNING *`
	var row taskSQL
	err := withLockRetry(ctx, func() error {
		now := r.now().UnixMilli()
		return r.db.GetContext(ctx, &row, query, taskProcessing, now, taskReady, now)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoTask
	}
	if err != nil {
		return nil, fmt.Errorf("reserve task: %w", err)
	}
	task := row.toDomain()
	return &task, nil
}

// Ack removes a completed task. Only the delivery holding the current reservation may ack it.
func (r *TaskRepository) Ack(ctx context.Context, task domain.Task) error {
	query := "DELETE FROM tasks WHERE id = ? AND attempt = ? AND state = ?"
	if err := r.execReserved(ctx, query, task.ID, task.Attempt, taskProcessing); err != nil {
		return fmt.Errorf("ack task %s: %w", task.ID, err)
	}
	return nil
}

// Retry returns a reserved task to the queue, due after delay
func (r *TaskRepository) Retry(ctx context.Context, task domain.Task, delay time.Duration, reason string) error {
	query := `
		UPDATE tasks SET state = ?, run_at = ?, reserved_at = 0, last_error = ?
		WHERE id = ? AND attempt = ? AND state = ?`
	err := r.execReserved(ctx, query, taskReady, r.now().Add(delay).UnixMilli(), reason,
		task.ID, task.Attempt, taskProcessing)
	if err != nil {
		return fmt.Errorf("retry task %s: %w", task.ID, err)
	}
	return nil
}

// Bury keeps an exhausted task in the failed set for inspection
func (r *TaskRepository) Bury(ctx context.Context, task domain.Task, reason string) error {
	query := `
		UPDATE tasks SET state = ?, reserved_at = 0, last_error = ?
		WHERE id = ? AND attempt = ? AND state = ?`
	if err := r.execReserved(ctx, query, taskFailed, reason, task.ID, task.Attempt, taskProcessing); err != nil {
		return fmt.Errorf("bury task %s: %w", task.ID, err)
	}
	return nil
}

// execReserved runs a statement fenced on the reservation, domain.ErrReservationLost if nothing matched
func (r *TaskRepository) execReserved(ctx context.Context, query string, args ...interface{}) error {
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
		return err
	}
	if affected == 0 {
		return domain.ErrReservationLost
	}
	return nil
}

// RequeueStale makes tasks reserved longer than olderThan ready again
func (r *TaskRepository) RequeueStale(ctx context.Context, olderThan time.Duration) (int, error) {
	now := r.now()
	query := "UPDATE tasks SET state = ?, run_at = ?, reserved_at = 0 WHERE state = ? AND reserved_at <= ?"
	var affected int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, taskReady, now.UnixMilli(), taskProcessing,
			now.Add(-olderThan).UnixMilli())
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("requeue stale tasks: %w", err)
	}
	return int(affected), nil
}

// Stats returns task counters by state, ready tasks not due yet are reported as delayed
func (r *TaskRepository) Stats(ctx context.Context) (domain.QueueStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN state = 'ready' AND run_at <= ? THEN 1 ELSE 0 END), 0) AS ready,
			COALESCE(SUM(CASE WHEN state = 'ready' AND run_at > ? THEN 1 ELSE 0 END), 0) AS delayed,
			COALESCE(SUM(CASE WHEN state = 'processing' THEN 1 ELSE 0 END), 0) AS processing,
			COALESCE(SUM(CASE WHEN state = 'failed' THEN 1 ELSE 0 END), 0) AS failed
		FROM tasks`
	var row struct {
		Ready      int `db:"ready"`
		Delayed    int `db:"delayed"`
		Processing int `db:"processing"`
		Failed     int `db:"failed"`
	}
	now := r.now().UnixMilli()
	if err := r.db.GetContext(ctx, &row, query, now, now); err != nil {
		return domain.QueueStats{}, fmt.Errorf("task stats: %w", err)
	}
	return domain.QueueStats{Ready: row.Ready, Delayed: row.Delayed, Processing: row.Processing, Failed: row.Failed}, nil
}

// Failed returns buried tasks, most recent first
func (r *TaskRepository) Failed(ctx context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []taskSQL
	query := "SELECT * FROM tasks WHERE state = ? ORDER BY created_at DESC, rowid DESC LIMIT ?"
	if err := r.db.SelectContext(ctx, &rows, query, taskFailed, limit); err != nil {
		return nil, fmt.Errorf("list failed tasks: %w", err)
	}
	res := make([]domain.Task, 0, len(rows))
	for i := range rows {
		res = append(res, rows[i].toDomain())
	}
	return res, nil
}

func (t *taskSQL) toDomain() domain.Task {
	return domain.Task{
		ID:          t.ID,
		ImportID:    t.ImportID,
		FeedURL:     t.FeedURL,
		Category:    t.Category,
		Attempt:     t.Attempt,
		MaxAttempts: t.MaxAttempts,
		LastError:   t.LastError,
		CreatedAt:   t.CreatedAt,
	}
}
