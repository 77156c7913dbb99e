// Package importer runs the feed import pipeline. Enqueue records a pending import log and
// queues a task for it; Handle executes one delivery of a task (fetch, normalize, upsert)
// and moves the log through its states; GiveUp closes the log once retries are exhausted.
package importer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/umputun/feedimport/pkg/domain"
	"github.com/umputun/feedimport/pkg/feed"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . Parser
//go:generate moq -out mocks/job_store.go -pkg mocks -skip-ensure -fmt goimports . JobStore
//go:generate moq -out mocks/log_store.go -pkg mocks -skip-ensure -fmt goimports . LogStore
//go:generate moq -out mocks/producer.go -pkg mocks -skip-ensure -fmt goimports . Producer

// DefaultCategory is used when neither the request nor the feed item names a category
const DefaultCategory = "General"

// ErrEmptyURL returned when enqueueing without a feed url
var ErrEmptyURL = errors.New("feed url is required")

// Fetcher downloads raw feed documents
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]byte, error)
}

// Parser turns a raw feed document into valid records and rejected items
type Parser interface {
	Parse(data []byte, defaultCategory, source string) (feed.ParseResult, error)
}

// JobStore persists job records
type JobStore interface {
	Upsert(ctx context.Context, records []domain.JobRecord) (domain.UpsertResult, error)
}

// LogStore persists import logs and enforces their status transitions
type LogStore interface {
	CreateImportLog(ctx context.Context, log *domain.ImportLog) error
	GetImportLog(ctx context.Context, importID string) (*domain.ImportLog, error)
	MarkProcessing(ctx context.Context, importID, note string) error
	MarkCompleted(ctx context.Context, importID string, sum domain.ImportSummary) error
	MarkFailed(ctx context.Context, importID, errMsg, note string) error
	AppendLog(ctx context.Context, importID, note string) error
}

// Producer queues tasks for workers
type Producer interface {
	Push(ctx context.Context, task domain.Task) (string, error)
}

// StageError reports which pipeline stage failed
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Params holds importer dependencies
type Params struct {
	Fetcher     Fetcher
	Parser      Parser
	Jobs        JobStore
	Logs        LogStore
	Queue       Producer
	Feeds       []domain.FeedSource
	MaxAttempts int
}

// Importer orchestrates feed imports
type Importer struct {
	fetcher     Fetcher
	parser      Parser
	jobs        JobStore
	logs        LogStore
	queue       Producer
	feeds       []domain.FeedSource
	maxAttempts int
}

// New makes an importer. MaxAttempts below 1 means a single delivery.
func New(p Params) *Importer {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	return &Importer{
		fetcher:     p.Fetcher,
		parser:      p.Parser,
		jobs:        p.Jobs,
		logs:        p.Logs,
		queue:       p.Queue,
		feeds:       p.Feeds,
		maxAttempts: p.MaxAttempts,
	}
}

// Enqueue records a pending import for the feed and queues it, returning the import id
func (im *Importer) Enqueue(ctx context.Context, feedURL, category string) (string, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return "", ErrEmptyURL
	}
	if category == "" {
		category = DefaultCategory
	}

	importID := uuid.NewString()
	log := &domain.ImportLog{ImportID: importID, FeedURL: feedURL, Category: category}
	if err := im.logs.CreateImportLog(ctx, log); err != nil {
		return "", fmt.Errorf("create import log for %s: %w", feedURL, err)
	}

	task := domain.Task{ImportID: importID, FeedURL: feedURL, Category: category, MaxAttempts: im.maxAttempts}
	taskID, err := im.queue.Push(ctx, task)
	if err != nil {
		// pending can't go to failed, leave a trace on the log instead
		if aerr := im.logs.AppendLog(ctx, importID, "Enqueue failed: "+err.Error()); aerr != nil {
			lgr.Printf("[WARN] can't append enqueue failure to %s: %v", importID, aerr)
		}
		return importID, fmt.Errorf("queue import %s: %w", importID, err)
	}
	lgr.Printf("[INFO] queued import %s (task %s) for %s, category %q", importID, taskID, feedURL, category)
	return importID, nil
}

// EnqueueAll queues one import per configured feed. A failing feed doesn't stop the others,
// the joined error lists every failure.
func (im *Importer) EnqueueAll(ctx context.Context) ([]domain.EnqueueResult, error) {
	res := make([]domain.EnqueueResult, 0, len(im.feeds))
	var errs []error
	for _, f := range im.feeds {
		r := domain.EnqueueResult{URL: f.URL, Category: f.Category, Status: "queued"}
		id, err := im.Enqueue(ctx, f.URL, f.Category)
		r.ImportID = id
		if err != nil {
			lgr.Printf("[WARN] failed to queue %s: %v", f.URL, err)
			r.Status, r.Error = "error", err.Error()
			errs = append(errs, err)
		}
		res = append(res, r)
	}
	lgr.Printf("[INFO] queued %d of %d feeds", len(res)-len(errs), len(im.feeds))
	return res, errors.Join(errs...)
}

// Handle runs one delivery of a task. Stage failures keep the log in processing and are
// reported as retryable; the caller decides between redelivery and GiveUp.
func (im *Importer) Handle(ctx context.Context, task domain.Task) domain.TaskResult {
	log, err := im.logs.GetImportLog(ctx, task.ImportID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TaskResult{Err: err}
		}
		return domain.TaskResult{Err: fmt.Errorf("load import log: %w", err), Retryable: true}
	}
	if log.Status.IsTerminal() {
		lgr.Printf("[INFO] import %s already %s, skipping redelivered task %s", task.ImportID, log.Status, task.ID)
		return domain.TaskResult{Status: log.Status}
	}

	maxAttempts := max(task.MaxAttempts, 1)
	note := fmt.Sprintf("Attempt %d/%d started", task.Attempt, maxAttempts)
	if err := im.logs.MarkProcessing(ctx, task.ImportID, note); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// finished by another delivery in the meantime
			return domain.TaskResult{}
		}
		return domain.TaskResult{Err: fmt.Errorf("mark processing: %w", err), Retryable: true}
	}
	lgr.Printf("[INFO] import %s started, attempt %d/%d, %s", task.ImportID, task.Attempt, maxAttempts, task.FeedURL)

	sum, err := im.run(ctx, task)
	if err != nil {
		lgr.Printf("[WARN] import %s attempt %d/%d failed, %v", task.ImportID, task.Attempt, maxAttempts, err)
		note := fmt.Sprintf("Attempt %d/%d failed at %v", task.Attempt, maxAttempts, err)
		if aerr := im.logs.AppendLog(ctx, task.ImportID, note); aerr != nil {
			lgr.Printf("[WARN] can't append failure note to %s: %v", task.ImportID, aerr)
		}
		return domain.TaskResult{Status: domain.ImportProcessing, Err: err, Retryable: true}
	}

	if err := im.logs.MarkCompleted(ctx, task.ImportID, sum); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return domain.TaskResult{}
		}
		return domain.TaskResult{Status: domain.ImportProcessing, Err: fmt.Errorf("mark completed: %w", err), Retryable: true}
	}
	lgr.Printf("[INFO] import %s completed: fetched %d, new %d, updated %d, failed %d",
		task.ImportID, sum.TotalFetched, sum.NewJobs, sum.UpdatedJobs, len(sum.FailedJobs))
	return domain.TaskResult{Status: domain.ImportCompleted}
}

// GiveUp marks the import failed after its last attempt
func (im *Importer) GiveUp(ctx context.Context, task domain.Task, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	err := im.logs.MarkFailed(ctx, task.ImportID, msg, "Import crashed: "+msg)
	if errors.Is(err, domain.ErrInvalidTransition) {
		return im.giveUpUnstarted(ctx, task, msg)
	}
	if err != nil {
		return fmt.Errorf("mark import %s failed: %w", task.ImportID, err)
	}
	lgr.Printf("[WARN] import %s failed after %d attempts: %s", task.ImportID, task.Attempt, msg)
	return nil
}

// giveUpUnstarted handles a log MarkFailed refused: either it is finished already, or no attempt
// ever got it to processing and pending can't go to failed, so only a note is left
func (im *Importer) giveUpUnstarted(ctx context.Context, task domain.Task, msg string) error {
	log, err := im.logs.GetImportLog(ctx, task.ImportID)
	if err != nil {
		return fmt.Errorf("check import %s: %w", task.ImportID, err)
	}
	if log.Status.IsTerminal() {
		lgr.Printf("[DEBUG] import %s already %s, not marking failed", task.ImportID, log.Status)
		return nil
	}
	if err := im.logs.AppendLog(ctx, task.ImportID, "Gave up: "+msg); err != nil {
		return fmt.Errorf("append give-up note to %s: %w", task.ImportID, err)
	}
	lgr.Printf("[WARN] import %s gave up after %d attempts, never started: %s", task.ImportID, task.Attempt, msg)
	return nil
}

// run is the pipeline body: fetch, normalize, upsert
func (im *Importer) run(ctx context.Context, task domain.Task) (domain.ImportSummary, error) {
	category := task.Category
	if category == "" {
		category = DefaultCategory
	}

	data, err := im.fetcher.Fetch(ctx, task.FeedURL)
	if err != nil {
		return domain.ImportSummary{}, &StageError{Stage: "fetch", Err: err}
	}

	parsed, err := im.parser.Parse(data, category, im.sourceFor(task.FeedURL))
	if err != nil {
		return domain.ImportSummary{}, &StageError{Stage: "parse", Err: err}
	}
	for _, fi := range parsed.Invalid {
		lgr.Printf("[DEBUG] import %s rejected item %s: %s", task.ImportID, fi.ItemID, fi.Reason)
	}

	up, err := im.jobs.Upsert(ctx, parsed.Valid)
	if err != nil {
		return domain.ImportSummary{}, &StageError{Stage: "upsert", Err: err}
	}

	return domain.ImportSummary{
		TotalFetched: parsed.Total(),
		NewJobs:      up.New,
		UpdatedJobs:  up.Updated,
		FailedJobs:   parsed.Invalid,
		Note: fmt.Sprintf("Successfully processed %s. Valid: %d, Failed: %d.",
			task.FeedURL, len(parsed.Valid), len(parsed.Invalid)),
	}, nil
}

// sourceFor returns the configured source name of a feed, or a name derived from its host
func (im *Importer) sourceFor(feedURL string) string {
	for _, f := range im.feeds {
		if f.URL == feedURL && f.Source != "" {
			return f.Source
		}
	}
	u, err := url.Parse(feedURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if net.ParseIP(host) != nil {
		return host
	}
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}
