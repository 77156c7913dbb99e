package scheduler

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"
)

// DefaultCronSpec runs the import of all feeds at the top of every hour
const DefaultCronSpec = "0 * * * *"

// Cron triggers EnqueueAll on a standard five-field cron schedule
type Cron struct {
	cron     *cron.Cron
	spec     string
	enqueuer Enqueuer
}

// cronLogger routes cron errors to lgr
type cronLogger struct{}

func (cronLogger) Printf(format string, args ...interface{}) {
	lgr.Printf("[WARN] cron: "+format, args...)
}

// NewCron validates the schedule and makes a stopped trigger
func NewCron(spec string, enqueuer Enqueuer) (*Cron, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	c := cron.New(cron.WithLogger(cron.PrintfLogger(cronLogger{})), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Cron{cron: c, spec: spec, enqueuer: enqueuer}, nil
}

// Start schedules the trigger, runs use ctx for enqueueing
func (c *Cron) Start(ctx context.Context) {
	if _, err := c.cron.AddFunc(c.spec, func() { c.Run(ctx) }); err != nil {
		// spec is validated in NewCron
		lgr.Printf("[ERROR] can't schedule %q: %v", c.spec, err)
		return
	}
	c.cron.Start()
	lgr.Printf("[INFO] cron started, schedule %q", c.spec)
}

// Run enqueues all feeds once
func (c *Cron) Run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	lgr.Printf("[INFO] scheduled import of all feeds")
	res, err := c.enqueuer.EnqueueAll(ctx)
	if err != nil {
		lgr.Printf("[WARN] scheduled import of %d feeds had failures: %v", len(res), err)
	}
}

// Stop prevents new runs and waits for a running one to finish
func (c *Cron) Stop() {
	<-c.cron.Stop().Done()
}
