package repository

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedimport/pkg/domain"
)

func createLog(t *testing.T, repos *Repositories, id string, createdAt time.Time) {
	t.Helper()
	err := repos.ImportLog.CreateImportLog(context.Background(), &domain.ImportLog{
		ImportID:  id,
		FeedURL:   "https://jobicy.com/?feed=job_feed",
		Category:  "General",
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestImportLogRepository_Lifecycle(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	createLog(t, repos, "imp-1", time.Time{})
	log, err := repos.ImportLog.GetImportLog(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ImportPending, log.Status)
	assert.Equal(t, "General", log.Category)
	assert.Empty(t, log.Logs)
	assert.Empty(t, log.FailedJobs)
	assert.Nil(t, log.StartedAt)
	assert.False(t, log.CreatedAt.IsZero())

	// completion straight from pending is rejected
	err = repos.ImportLog.MarkCompleted(ctx, "imp-1", domain.ImportSummary{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, repos.ImportLog.MarkProcessing(ctx, "imp-1", "Attempt 1/3 started"))
	log, err = repos.ImportLog.GetImportLog(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ImportProcessing, log.Status)
	assert.Equal(t, 1, log.Attempts)
	require.NotNil(t, log.StartedAt)
	startedAt := *log.StartedAt

	// redelivery keeps the log in processing and the original start time
	require.NoError(t, repos.ImportLog.AppendLog(ctx, "imp-1", "Attempt 1/3 failed at fetch: timeout"))
	require.NoError(t, repos.ImportLog.MarkProcessing(ctx, "imp-1", "Attempt 2/3 started"))
	log, err = repos.ImportLog.GetImportLog(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, log.Attempts)
	assert.True(t, log.StartedAt.Equal(startedAt))

	sum := domain.ImportSummary{
		TotalFetched: 5,
		NewJobs:      2,
		UpdatedJobs:  1,
		FailedJobs: []domain.FailedItem{
			{ItemID: "unknown", Reason: domain.ReasonMissingFields},
			{ItemID: "x-1", Reason: domain.ReasonMissingFields},
		},
		Note: "Successfully processed https://jobicy.com/?feed=job_feed. Valid: 3, Failed: 2.",
	}
	require.NoError(t, repos.ImportLog.MarkCompleted(ctx, "imp-1", sum))

	log, err = repos.ImportLog.GetImportLog(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCompleted, log.Status)
	assert.Equal(t, 5, log.TotalFetched)
	assert.Equal(t, 2, log.NewJobs)
	assert.Equal(t, 1, log.UpdatedJobs)
	assert.Equal(t, 2, log.FailedCount)
	assert.Equal(t, sum.FailedJobs, log.FailedJobs)
	assert.NotNil(t, log.CompletedAt)
	assert.Equal(t, []string{
		"Attempt 1/3 started",
		"Attempt 1/3 failed at fetch: timeout",
		"Attempt 2/3 started",
		sum.Note,
	}, log.Logs)

	// terminal state is immutable
	err = repos.ImportLog.MarkFailed(ctx, "imp-1", "boom", "Import crashed: boom")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	err = repos.ImportLog.MarkProcessing(ctx, "imp-1", "again")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	err = repos.ImportLog.AppendLog(ctx, "imp-1", "late note")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	log, err = repos.ImportLog.GetImportLog(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ImportCompleted, log.Status)
	assert.Len(t, log.Logs, 4)
}

func TestImportLogRepository_MarkFailed(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	createLog(t, repos, "imp-f", time.Time{})

	// pending can't fail directly
	err := repos.ImportLog.MarkFailed(ctx, "imp-f", "boom", "Import crashed: boom")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, repos.ImportLog.MarkProcessing(ctx, "imp-f", "Attempt 1/3 started"))
	require.NoError(t, repos.ImportLog.MarkFailed(ctx, "imp-f", "store unavailable", "Import crashed: store unavailable"))

	log, err := repos.ImportLog.GetImportLog(ctx, "imp-f")
	require.NoError(t, err)
	assert.Equal(t, domain.ImportFailed, log.Status)
	assert.Equal(t, "store unavailable", log.Error)
	assert.Equal(t, 0, log.FailedCount)
	assert.Empty(t, log.FailedJobs)
	assert.NotNil(t, log.CompletedAt)
	assert.Equal(t, []string{"Attempt 1/3 started", "Import crashed: store unavailable"}, log.Logs)

	err = repos.ImportLog.MarkCompleted(ctx, "imp-f", domain.ImportSummary{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestImportLogRepository_NotFound(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	_, err := repos.ImportLog.GetImportLog(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, repos.ImportLog.MarkProcessing(ctx, "missing", "x"), domain.ErrNotFound)
	require.ErrorIs(t, repos.ImportLog.AppendLog(ctx, "missing", "x"), domain.ErrNotFound)
}

func TestImportLogRepository_CreateValidation(t *testing.T) {
	repos := setupTestDB(t)
	err := repos.ImportLog.CreateImportLog(context.Background(), &domain.ImportLog{FeedURL: "https://example.com"})
	require.Error(t, err)

	createLog(t, repos, "dup", time.Time{})
	err = repos.ImportLog.CreateImportLog(context.Background(), &domain.ImportLog{ImportID: "dup", FeedURL: "x"})
	require.Error(t, err, "import id is unique")
}

func TestImportLogRepository_ListImportLogs(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		createLog(t, repos, fmt.Sprintf("imp-%02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	t.Run("first page newest first", func(t *testing.T) {
		page, err := repos.ImportLog.ListImportLogs(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 15, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
		require.Len(t, page.Items, 10)
		assert.Equal(t, "imp-14", page.Items[0].ImportID)
		assert.Equal(t, "imp-05", page.Items[9].ImportID)
	})

	t.Run("second page", func(t *testing.T) {
		page, err := repos.ImportLog.ListImportLogs(ctx, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, 15, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 5)
		assert.Equal(t, "imp-04", page.Items[0].ImportID)
		assert.Equal(t, "imp-00", page.Items[4].ImportID)
	})

	t.Run("page past the end", func(t *testing.T) {
		page, err := repos.ImportLog.ListImportLogs(ctx, 5, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 15, page.Total)
	})

	t.Run("huge page doesn't wrap to the first one", func(t *testing.T) {
		page, err := repos.ImportLog.ListImportLogs(ctx, math.MaxInt, 100)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, math.MaxInt, page.Page)
		assert.Equal(t, 15, page.Total)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("huge limit", func(t *testing.T) {
		page, err := repos.ImportLog.ListImportLogs(ctx, 1, math.MaxInt)
		require.NoError(t, err)
		assert.Len(t, page.Items, 15)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("invalid paging falls back to defaults", func(t *testing.T) {
		page, err := repos.ImportLog.ListImportLogs(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
		assert.Len(t, page.Items, 10)
	})
}

func TestImportLogRepository_ImportStats(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	stats, err := repos.ImportLog.ImportStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStats{}, stats)

	for i, id := range []string{"a", "b", "c"} {
		createLog(t, repos, id, time.Now().Add(time.Duration(i)*time.Second))
		require.NoError(t, repos.ImportLog.MarkProcessing(ctx, id, "start"))
	}
	require.NoError(t, repos.ImportLog.MarkCompleted(ctx, "a", domain.ImportSummary{
		TotalFetched: 4, NewJobs: 3, UpdatedJobs: 0,
		FailedJobs: []domain.FailedItem{{ItemID: "unknown", Reason: domain.ReasonMissingFields}},
	}))
	require.NoError(t, repos.ImportLog.MarkCompleted(ctx, "b", domain.ImportSummary{
		TotalFetched: 3, NewJobs: 0, UpdatedJobs: 3,
	}))
	require.NoError(t, repos.ImportLog.MarkFailed(ctx, "c", "boom", "Import crashed: boom"))
	createLog(t, repos, "d", time.Time{})

	stats, err = repos.ImportLog.ImportStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ImportStats{
		TotalImports:     4,
		CompletedImports: 2,
		TotalNewJobs:     3,
		TotalUpdatedJobs: 3,
		TotalFailedJobs:  1,
	}, stats)
}
