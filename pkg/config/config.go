package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/umputun/feedimport/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// staleMargin is added to the fetch timeouts to leave room for parsing and storing an import
const staleMargin = 30 * time.Second

// queue backends
const (
	QueueSQLite = "sqlite"
	QueueRedis  = "redis"
)

// Config holds the application configuration
type Config struct {
	Server struct {
		Enabled bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Serve the REST API"`
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:feedimport.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Queue QueueConfig `yaml:"queue" json:"queue" jsonschema:"description=Task queue configuration"`

	Worker WorkerConfig `yaml:"worker" json:"worker" jsonschema:"description=Import worker pool configuration"`

	Schedule struct {
		Enabled bool   `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Import all feeds on schedule"`
		Cron    string `yaml:"cron" json:"cron" jsonschema:"default=0 * * * *,description=Five-field cron expression for importing all feeds"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Recurring import configuration"`

	Fetch FetchConfig `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching configuration"`

	Feeds []domain.FeedSource `yaml:"feeds" json:"feeds" jsonschema:"description=Feeds to import (built-in list used when empty)"`
}

// QueueConfig selects and configures the task broker
type QueueConfig struct {
	Backend  string `yaml:"backend" json:"backend" jsonschema:"default=sqlite,enum=sqlite,enum=redis,description=Queue backend"`
	RedisURL string `yaml:"redis_url" json:"redis_url" jsonschema:"default=redis://localhost:6379/0,description=Redis connection url (redis backend)"`
	Name     string `yaml:"name" json:"name" jsonschema:"default=import-jobs,description=Queue name used as redis key prefix"`
}

// WorkerConfig holds worker pool and retry settings
type WorkerConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Run import workers in this process"`
	Concurrency int           `yaml:"concurrency" json:"concurrency" jsonschema:"default=5,minimum=1,description=Number of concurrent import workers"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts" jsonschema:"default=3,minimum=1,description=Deliveries of a task before the import is marked failed"`
	Backoff     time.Duration `yaml:"backoff" json:"backoff" jsonschema:"default=1s,description=First retry delay doubled on each next attempt"`
	PollWait    time.Duration `yaml:"poll_wait" json:"poll_wait" jsonschema:"default=1s,description=How long a worker waits for a task per poll"`
	StaleAfter  time.Duration `yaml:"stale_after" json:"stale_after" jsonschema:"default=10m,description=Reserved tasks older than this are redelivered"`
}

// FetchConfig holds feed fetcher settings
type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Direct request timeout"`
	ProxyTimeout time.Duration `yaml:"proxy_timeout" json:"proxy_timeout" jsonschema:"default=20s,description=Proxy request timeout"`
	ProxyURL     string        `yaml:"proxy_url" json:"proxy_url" jsonschema:"default=https://api.allorigins.win/raw?url={url},description=Pass-through proxy template with {url} placeholder or - to disable"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for direct requests (browser-like by default)"`
	MaxBodySize  int64         `yaml:"max_body_size" json:"max_body_size" jsonschema:"default=10485760,description=Maximum feed size in bytes"`
}

// DefaultFeeds is the built-in list of job feeds
var DefaultFeeds = []domain.FeedSource{
	{URL: "https://jobicy.com/?feed=job_feed", Category: "General", Source: "jobicy"},
	{URL: "https://jobicy.com/?feed=job_feed&job_categories=smm&job_types=full-time", Category: "SMM", Source: "jobicy"},
	{URL: "https://jobicy.com/?feed=job_feed&job_categories=seller&job_types=full-time&search_region=france", Category: "Sales", Source: "jobicy"},
	{URL: "https://jobicy.com/?feed=job_feed&job_categories=design-multimedia", Category: "Design & Multimedia", Source: "jobicy"},
	{URL: "https://jobicy.com/?feed=job_feed&job_categories=data-science", Category: "Data Science", Source: "jobicy"},
	{URL: "https://jobicy.com/?feed=job_feed&job_categories=copywriting", Category: "Copywriting", Source: "jobicy"},
	{URL: "https://jobicy.com/?feed=job_feed&job_categories=business", Category: "Business", Source: "jobicy"},
	{URL: "https://jobicy.com/?feed=job_feed&job_categories=management", Category: "Management", Source: "jobicy"},
	{URL: "https://www.higheredjobs.com/rss/articleFeed.cfm", Category: "Education", Source: "higheredjobs"},
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expands environment variables, fills defaults and validates
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := New()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// New returns a configuration with defaults, as used without a config file
func New() *Config {
	cfg := &Config{}
	cfg.Server.Enabled = true
	cfg.Worker.Enabled = true
	cfg.Schedule.Enabled = true
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:feedimport.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// queue
	if c.Queue.Backend == "" {
		c.Queue.Backend = QueueSQLite
	}
	if c.Queue.RedisURL == "" {
		c.Queue.RedisURL = "redis://localhost:6379/0"
	}
	if c.Queue.Name == "" {
		c.Queue.Name = "import-jobs"
	}

	// worker
	if c.Worker.Concurrency == 0 {
		c.Worker.Concurrency = 5
	}
	if c.Worker.MaxAttempts == 0 {
		c.Worker.MaxAttempts = 3
	}
	if c.Worker.Backoff == 0 {
		c.Worker.Backoff = time.Second
	}
	if c.Worker.PollWait == 0 {
		c.Worker.PollWait = time.Second
	}
	if c.Worker.StaleAfter == 0 {
		c.Worker.StaleAfter = 10 * time.Minute
	}

	// schedule
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 * * * *"
	}

	// fetch
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 15 * time.Second
	}
	if c.Fetch.ProxyTimeout == 0 {
		c.Fetch.ProxyTimeout = 20 * time.Second
	}
	if c.Fetch.ProxyURL == "" {
		c.Fetch.ProxyURL = "https://api.allorigins.win/raw?url={url}"
	}
	if c.Fetch.MaxBodySize == 0 {
		c.Fetch.MaxBodySize = 10 * 1024 * 1024
	}

	// feeds
	if len(c.Feeds) == 0 {
		c.Feeds = append([]domain.FeedSource(nil), DefaultFeeds...)
	}
	for i := range c.Feeds {
		if c.Feeds[i].Category == "" {
			c.Feeds[i].Category = "General"
		}
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return errors.New("server timeout must be at least 1 second")
	}

	switch cfg.Queue.Backend {
	case QueueSQLite:
	case QueueRedis:
		if _, err := url.Parse(cfg.Queue.RedisURL); err != nil || !strings.HasPrefix(cfg.Queue.RedisURL, "redis") {
			return fmt.Errorf("queue.redis_url %q is not a redis url", cfg.Queue.RedisURL)
		}
	default:
		return fmt.Errorf("queue.backend must be %q or %q, got %q", QueueSQLite, QueueRedis, cfg.Queue.Backend)
	}

	if cfg.Worker.Concurrency < 1 {
		return errors.New("worker.concurrency must be at least 1")
	}
	if cfg.Worker.MaxAttempts < 1 {
		return errors.New("worker.max_attempts must be at least 1")
	}
	if cfg.Worker.Backoff < 0 || cfg.Worker.PollWait < 0 || cfg.Worker.StaleAfter < 0 {
		return errors.New("worker durations must not be negative")
	}

	if cfg.Schedule.Enabled {
		if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron %q: %w", cfg.Schedule.Cron, err)
		}
	}

	if cfg.Fetch.ProxyURL != "-" && !strings.Contains(cfg.Fetch.ProxyURL, "{url}") {
		return errors.New("fetch.proxy_url must contain {url} placeholder or be -")
	}
	if cfg.Fetch.MaxBodySize < 0 {
		return errors.New("fetch.max_body_size must not be negative")
	}

	// a reservation must outlive the slowest attempt, or a running import gets redelivered
	if budget := cfg.fetchBudget() + staleMargin; cfg.Worker.StaleAfter < budget {
		return fmt.Errorf("worker.stale_after %v must be at least %v (fetch timeouts plus %v)",
			cfg.Worker.StaleAfter, budget, staleMargin)
	}

	seen := make(map[string]bool, len(cfg.Feeds))
	for i, f := range cfg.Feeds {
		u, err := url.Parse(f.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("feeds[%d]: invalid url %q", i, f.URL)
		}
		if seen[f.URL] {
			return fmt.Errorf("feeds[%d]: duplicate url %q", i, f.URL)
		}
		seen[f.URL] = true
	}
	return nil
}

// fetchBudget is the longest a single fetch may take, direct request plus proxy fallback
func (c *Config) fetchBudget() time.Duration {
	if c.Fetch.ProxyURL == "-" {
		return c.Fetch.Timeout
	}
	return c.Fetch.Timeout + c.Fetch.ProxyTimeout
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
