package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedimport/pkg/domain"
	"github.com/umputun/feedimport/pkg/feed"
	"github.com/umputun/feedimport/pkg/repository"
)

const integrationFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:job_listing="https://jobicy.com/job_listing">
<channel>
	<title>Jobs</title>
	<item>
		<title>Go Engineer</title>
		<guid>job-1</guid>
		<link>https://jobs.example.com/1</link>
		<job_listing:company>Acme</job_listing:company>
	</item>
	<item>
		<title>%s</title>
		<guid>job-2</guid>
		<link>https://jobs.example.com/2</link>
	</item>
	<item>
		<description>nothing to identify me</description>
	</item>
</channel>
</rss>`

type integration struct {
	repos    *repository.Repositories
	importer *Importer
	direct   *httptest.Server
	proxy    *httptest.Server
	feed     atomic.Value // string served by both servers
	blocked  atomic.Bool  // direct server refuses
}

func newIntegration(t *testing.T) *integration {
	t.Helper()
	it := &integration{}
	it.feed.Store(fmt.Sprintf(integrationFeed, "Designer"))

	it.direct = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if it.blocked.Load() {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("<html>blocked</html>"))
			return
		}
		_, _ = w.Write([]byte(it.feed.Load().(string)))
	}))
	t.Cleanup(it.direct.Close)

	it.proxy = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Query().Get("url"), it.direct.URL) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(it.feed.Load().(string)))
	}))
	t.Cleanup(it.proxy.Close)

	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	it.repos = repos

	it.importer = New(Params{
		Fetcher: feed.NewFetcher(feed.FetcherParams{
			Timeout:      2 * time.Second,
			ProxyTimeout: 2 * time.Second,
			ProxyURL:     it.proxy.URL + "/raw?url={url}",
		}),
		Parser:      feed.NewNormalizer(),
		Jobs:        repos.Job,
		Logs:        repos.ImportLog,
		Queue:       repos.Task,
		Feeds:       []domain.FeedSource{{URL: it.direct.URL + "/feed", Category: "Engineering", Source: "testfeed"}},
		MaxAttempts: 1,
	})
	return it
}

// drain delivers queued tasks the way the worker pool does, without retries
func (it *integration) drain(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for {
		task, err := it.repos.Task.Reserve(ctx, 0)
		if errors.Is(err, domain.ErrNoTask) {
			return
		}
		require.NoError(t, err)
		res := it.importer.Handle(ctx, *task)
		if res.Err == nil {
			require.NoError(t, it.repos.Task.Ack(ctx, *task))
			continue
		}
		require.NoError(t, it.importer.GiveUp(ctx, *task, res.Err))
		require.NoError(t, it.repos.Task.Bury(ctx, *task, res.Err.Error()))
	}
}

func (it *integration) run(t *testing.T) *domain.ImportLog {
	t.Helper()
	id, err := it.importer.Enqueue(context.Background(), it.direct.URL+"/feed", "Engineering")
	require.NoError(t, err)
	it.drain(t)
	log, err := it.repos.ImportLog.GetImportLog(context.Background(), id)
	require.NoError(t, err)
	return log
}

func TestIntegration_ProxyFallback(t *testing.T) {
	it := newIntegration(t)
	it.blocked.Store(true)

	log := it.run(t)
	assert.Equal(t, domain.ImportCompleted, log.Status)
	assert.Equal(t, 3, log.TotalFetched)
	assert.Equal(t, 2, log.NewJobs)
	assert.Equal(t, 0, log.UpdatedJobs)
	assert.Equal(t, 1, log.FailedCount)
	require.Len(t, log.FailedJobs, 1)
	assert.Equal(t, "unknown", log.FailedJobs[0].ItemID)
	assert.Equal(t, domain.ReasonMissingFields, log.FailedJobs[0].Reason)
	assert.Contains(t, log.Logs[len(log.Logs)-1], "Valid: 2, Failed: 1.")

	job, err := it.repos.Job.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Remote", job.Location)
	assert.Equal(t, "testfeed", job.Source)
	assert.Equal(t, "Engineering", job.Category)
}

func TestIntegration_ReimportUpdates(t *testing.T) {
	it := newIntegration(t)

	first := it.run(t)
	assert.Equal(t, domain.ImportCompleted, first.Status)
	assert.Equal(t, 2, first.NewJobs)

	it.feed.Store(fmt.Sprintf(integrationFeed, "Senior Designer"))
	second := it.run(t)
	assert.Equal(t, domain.ImportCompleted, second.Status)
	assert.Equal(t, 0, second.NewJobs)
	assert.Equal(t, 2, second.UpdatedJobs)

	job, err := it.repos.Job.GetJob(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Equal(t, "Senior Designer", job.Title)

	count, err := it.repos.Job.CountJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stats, err := it.repos.ImportLog.ImportStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStats{TotalImports: 2, CompletedImports: 2, TotalNewJobs: 2,
		TotalUpdatedJobs: 2, TotalFailedJobs: 2}, stats)
}

func TestIntegration_EmptyFeed(t *testing.T) {
	it := newIntegration(t)
	it.feed.Store(`<?xml version="1.0"?><rss version="2.0"><channel><title>none</title></channel></rss>`)

	log := it.run(t)
	assert.Equal(t, domain.ImportCompleted, log.Status)
	assert.Equal(t, 0, log.TotalFetched)
	assert.Equal(t, 0, log.NewJobs)
	assert.Equal(t, 0, log.UpdatedJobs)
	assert.Equal(t, 0, log.FailedCount)
	assert.Empty(t, log.FailedJobs)
}

func TestIntegration_StoreFailure(t *testing.T) {
	it := newIntegration(t)
	_, err := it.repos.DB.Exec("DROP TABLE jobs")
	require.NoError(t, err)

	log := it.run(t)
	assert.Equal(t, domain.ImportFailed, log.Status)
	assert.Contains(t, log.Error, "upsert")
	assert.Equal(t, 0, log.FailedCount)
	assert.Empty(t, log.FailedJobs)
	assert.True(t, strings.HasPrefix(log.Logs[len(log.Logs)-1], "Import crashed: "))

	stats, err := it.repos.Task.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed, "exhausted task is kept")
}

func TestIntegration_BothFetchesFail(t *testing.T) {
	it := newIntegration(t)
	it.blocked.Store(true)
	it.feed.Store("<html>not a feed</html>")

	log := it.run(t)
	assert.Equal(t, domain.ImportFailed, log.Status)
	assert.Contains(t, log.Error, "fetch")
	assert.Equal(t, 1, log.Attempts)
}

func TestIntegration_GiveUpBeforeStart(t *testing.T) {
	it := newIntegration(t)
	ctx := context.Background()

	id, err := it.importer.Enqueue(ctx, it.direct.URL+"/feed", "Engineering")
	require.NoError(t, err)

	// every delivery failed before the log left pending
	task := domain.Task{ImportID: id, Attempt: 1, MaxAttempts: 1}
	require.NoError(t, it.importer.GiveUp(ctx, task, errors.New("mark processing: database is locked")))

	log, err := it.repos.ImportLog.GetImportLog(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportPending, log.Status)
	require.NotEmpty(t, log.Logs)
	assert.Equal(t, "Gave up: mark processing: database is locked", log.Logs[len(log.Logs)-1])
}
