package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/feedimport/pkg/config"
	"github.com/umputun/feedimport/pkg/feed"
	"github.com/umputun/feedimport/pkg/importer"
	"github.com/umputun/feedimport/pkg/queue"
	"github.com/umputun/feedimport/pkg/repository"
	"github.com/umputun/feedimport/pkg/scheduler"
	"github.com/umputun/feedimport/server"
)

// Opts with all CLI options
type Opts struct {
	Config    string `short:"c" long:"config" env:"CONFIG" description:"configuration file, built-in defaults if not set"`
	Listen    string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	ImportNow bool   `long:"import-now" description:"queue imports of all feeds at startup"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// broker is the task queue as seen by producers, workers and the API
type broker interface {
	importer.Producer
	scheduler.Broker
	server.Queue
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	lgr.Printf("[INFO] starting feedimport version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Printf("[INFO] shutdown complete")
}

// run wires the application and blocks until ctx is canceled or the server fails
func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if cerr := repos.Close(); cerr != nil {
			lgr.Printf("[WARN] failed to close database: %v", cerr)
		}
	}()

	tasks, closeBroker, err := makeBroker(ctx, cfg, repos)
	if err != nil {
		return fmt.Errorf("failed to make %s queue: %w", cfg.Queue.Backend, err)
	}
	defer closeBroker()

	fetcher := feed.NewFetcher(feed.FetcherParams{
		Timeout:      cfg.Fetch.Timeout,
		ProxyTimeout: cfg.Fetch.ProxyTimeout,
		ProxyURL:     cfg.Fetch.ProxyURL,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodySize:  cfg.Fetch.MaxBodySize,
	})
	imp := importer.New(importer.Params{
		Fetcher:     fetcher,
		Parser:      feed.NewNormalizer(),
		Jobs:        repos.Job,
		Logs:        repos.ImportLog,
		Queue:       tasks,
		Feeds:       cfg.Feeds,
		MaxAttempts: cfg.Worker.MaxAttempts,
	})
	lgr.Printf("[INFO] %d feeds configured, %s queue %q", len(cfg.Feeds), cfg.Queue.Backend, cfg.Queue.Name)

	stop, err := startBackground(ctx, cfg, tasks, imp)
	if err != nil {
		return err
	}
	defer stop()

	if opts.ImportNow {
		res, err := imp.EnqueueAll(ctx)
		if err != nil {
			lgr.Printf("[WARN] startup import had failures: %v", err)
		}
		lgr.Printf("[INFO] startup import queued %d feeds", len(res))
	}

	if !cfg.Server.Enabled {
		<-ctx.Done()
		return nil
	}
	srv := server.New(cfg, imp, repos.ImportLog, tasks, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// loadConfig reads the config file, or returns defaults if no file is given
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New(), nil
	}
	return config.Load(path)
}

// makeBroker returns the configured task queue and its cleanup function
func makeBroker(ctx context.Context, cfg *config.Config, repos *repository.Repositories) (broker, func(), error) {
	switch cfg.Queue.Backend {
	case config.QueueRedis:
		client, err := queue.NewRedisClient(ctx, cfg.Queue.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := client.Close(); err != nil {
				lgr.Printf("[WARN] failed to close redis client: %v", err)
			}
		}
		return queue.NewRedis(client, cfg.Queue.Name), closer, nil
	case config.QueueSQLite, "":
		return repos.Task, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown queue backend %q", cfg.Queue.Backend)
}

// startBackground launches workers and the recurring trigger as configured, the returned
// function stops them and waits for in-flight imports
func startBackground(ctx context.Context, cfg *config.Config, tasks broker, imp *importer.Importer) (func(), error) {
	cronSpec := ""
	if cfg.Schedule.Enabled {
		cronSpec = cfg.Schedule.Cron
	}

	if cfg.Worker.Enabled {
		sched := scheduler.New(tasks, imp, imp, scheduler.Config{
			Concurrency: cfg.Worker.Concurrency,
			MaxAttempts: cfg.Worker.MaxAttempts,
			Backoff:     cfg.Worker.Backoff,
			PollWait:    cfg.Worker.PollWait,
			StaleAfter:  cfg.Worker.StaleAfter,
			CronSpec:    cronSpec,
		})
		if err := sched.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start scheduler: %w", err)
		}
		return sched.Stop, nil
	}

	lgr.Printf("[INFO] workers disabled, imports are only queued")
	if cronSpec == "" {
		return func() {}, nil
	}
	c, err := scheduler.NewCron(cronSpec, imp)
	if err != nil {
		return nil, fmt.Errorf("failed to start cron: %w", err)
	}
	c.Start(ctx)
	return c.Stop, nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
