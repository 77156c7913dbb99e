// Package scheduler executes queued import tasks with a bounded pool of workers and
// triggers recurring imports on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/feedimport/pkg/domain"
)

//go:generate moq -out mocks/broker.go -pkg mocks -skip-ensure -fmt goimports . Broker
//go:generate moq -out mocks/handler.go -pkg mocks -skip-ensure -fmt goimports . Handler
//go:generate moq -out mocks/enqueuer.go -pkg mocks -skip-ensure -fmt goimports . Enqueuer

// Broker hands out tasks and records their outcome
type Broker interface {
	Reserve(ctx context.Context, wait time.Duration) (*domain.Task, error)
	Ack(ctx context.Context, task domain.Task) error
	Retry(ctx context.Context, task domain.Task, delay time.Duration, reason string) error
	Bury(ctx context.Context, task domain.Task, reason string) error
	RequeueStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// Handler executes one delivery of a task
type Handler interface {
	Handle(ctx context.Context, task domain.Task) domain.TaskResult
	GiveUp(ctx context.Context, task domain.Task, cause error) error
}

// Enqueuer queues imports of all configured feeds, used by the cron trigger
type Enqueuer interface {
	EnqueueAll(ctx context.Context) ([]domain.EnqueueResult, error)
}

// Config holds scheduler configuration
type Config struct {
	Concurrency   int           // number of workers, 5 by default
	MaxAttempts   int           // fallback for tasks without their own limit, 3 by default
	Backoff       time.Duration // first retry delay, doubled on every next attempt, 1s by default
	PollWait      time.Duration // how long a worker waits for a task per reservation, 1s by default
	ErrorDelay    time.Duration // pause after a broker failure, 1s by default
	StaleAfter    time.Duration // reservations older than this are redelivered, 10m by default
	StaleInterval time.Duration // how often stale reservations are checked, 1m by default
	CronSpec      string        // recurring import-all schedule, empty disables
}

// Scheduler runs the worker pool and the recurring trigger
type Scheduler struct {
	broker   Broker
	handler  Handler
	enqueuer Enqueuer
	cfg      Config
	cron     *Cron
	cancel   context.CancelFunc
	group    *errgroup.Group
}

// New creates a scheduler. The enqueuer may be nil when CronSpec is empty.
func New(broker Broker, handler Handler, enqueuer Enqueuer, cfg Config) *Scheduler {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.PollWait <= 0 {
		cfg.PollWait = time.Second
	}
	if cfg.ErrorDelay <= 0 {
		cfg.ErrorDelay = time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 10 * time.Minute
	}
	if cfg.StaleInterval <= 0 {
		cfg.StaleInterval = time.Minute
	}
	return &Scheduler{broker: broker, handler: handler, enqueuer: enqueuer, cfg: cfg}
}

// Start launches workers, the stale reservation sweeper and the cron trigger
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.CronSpec != "" {
		if s.enqueuer == nil {
			return errors.New("cron schedule set without enqueuer")
		}
		c, err := NewCron(s.cfg.CronSpec, s.enqueuer)
		if err != nil {
			return err
		}
		s.cron = c
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.group = &errgroup.Group{}
	for i := 0; i < s.cfg.Concurrency; i++ {
		id := i + 1
		s.group.Go(func() error {
			s.worker(ctx, id)
			return nil
		})
	}
	s.group.Go(func() error {
		s.staleSweeper(ctx)
		return nil
	})
	if s.cron != nil {
		s.cron.Start(ctx)
	}

	lgr.Printf("[INFO] scheduler started with %d workers, max attempts %d, backoff %v, cron %q",
		s.cfg.Concurrency, s.cfg.MaxAttempts, s.cfg.Backoff, s.cfg.CronSpec)
	return nil
}

// Stop cancels reservations and waits for in-flight tasks to finish
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.group != nil {
		_ = s.group.Wait()
	}
	lgr.Printf("[INFO] scheduler stopped")
}

// worker reserves tasks one at a time until the context is canceled
func (s *Scheduler) worker(ctx context.Context, id int) {
	lgr.Printf("[DEBUG] worker %d started", id)
	defer lgr.Printf("[DEBUG] worker %d stopped", id)

	for {
		if ctx.Err() != nil {
			return
		}
		task, err := s.broker.Reserve(ctx, s.cfg.PollWait)
		if errors.Is(err, domain.ErrNoTask) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			lgr.Printf("[WARN] worker %d failed to reserve task: %v", id, err)
			if !sleep(ctx, s.cfg.ErrorDelay) {
				return
			}
			continue
		}
		// a task in flight runs to completion even when the scheduler stops
		s.process(context.WithoutCancel(ctx), *task)
	}
}

// process runs the handler and decides between ack, retry and give-up
func (s *Scheduler) process(ctx context.Context, task domain.Task) {
	if task.MaxAttempts <= 0 {
		task.MaxAttempts = s.cfg.MaxAttempts
	}

	res := s.handle(ctx, task)
	switch {
	case res.Err == nil:
		if err := s.broker.Ack(ctx, task); err != nil {
			s.reportRelease(task, "ack", err)
		}
	case res.Retryable && task.Attempt < task.MaxAttempts:
		delay := s.backoff(task.Attempt)
		lgr.Printf("[INFO] retrying task %s (import %s) in %v, attempt %d/%d failed: %v",
			task.ID, task.ImportID, delay, task.Attempt, task.MaxAttempts, res.Err)
		if err := s.broker.Retry(ctx, task, delay, res.Err.Error()); err != nil {
			s.reportRelease(task, "retry", err)
		}
	default:
		// bury first, a redelivered task belongs to another worker and its import must stay open
		err := s.broker.Bury(ctx, task, res.Err.Error())
		if errors.Is(err, domain.ErrReservationLost) {
			s.reportRelease(task, "bury", err)
			return
		}
		if err != nil {
			lgr.Printf("[WARN] failed to bury task %s: %v", task.ID, err)
		}
		if err := s.handler.GiveUp(ctx, task, res.Err); err != nil {
			lgr.Printf("[WARN] failed to give up task %s: %v", task.ID, err)
		}
	}
}

// reportRelease logs a failed ack, retry or bury. A lost reservation is expected after a
// stale redelivery and is not a broker failure.
func (s *Scheduler) reportRelease(task domain.Task, op string, err error) {
	if errors.Is(err, domain.ErrReservationLost) {
		lgr.Printf("[INFO] task %s was redelivered, dropping %s of attempt %d", task.ID, op, task.Attempt)
		return
	}
	lgr.Printf("[WARN] failed to %s task %s: %v", op, task.ID, err)
}

// handle calls the handler and turns a panic into a retryable failure
func (s *Scheduler) handle(ctx context.Context, task domain.Task) (res domain.TaskResult) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] task %s panicked: %v", task.ID, r)
			res = domain.TaskResult{Err: fmt.Errorf("panic: %v", r), Retryable: true}
		}
	}()
	return s.handler.Handle(ctx, task)
}

// backoff returns the delay before the next delivery after the given failed attempt
func (s *Scheduler) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := s.cfg.Backoff
	for i := 1; i < attempt && delay < time.Hour; i++ {
		delay *= 2
	}
	return delay
}

// staleSweeper periodically redelivers tasks whose worker went away
func (s *Scheduler) staleSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.StaleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.broker.RequeueStale(ctx, s.cfg.StaleAfter)
			if err != nil {
				lgr.Printf("[WARN] failed to requeue stale tasks: %v", err)
				continue
			}
			if n > 0 {
				lgr.Printf("[INFO] requeued %d stale tasks", n)
			}
		}
	}
}

// sleep waits for d or until ctx is done, returns false if ctx is done
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
