package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory database with all repositories
func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	cfg := Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	}
	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func TestRepositories_Init(t *testing.T) {
	repos := setupTestDB(t)
	require.NoError(t, repos.Ping(context.Background()))

	var tables []string
	err := repos.DB.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"import_logs", "jobs", "tasks"}, tables)

	// schema is idempotent
	require.NoError(t, initSchema(context.Background(), repos.DB))
}

func TestIsLockError(t *testing.T) {
	tbl := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{fmt.Errorf("SQLITE_BUSY: database is busy"), true},
		{fmt.Errorf("database is locked"), true},
		{fmt.Errorf("database table is locked (262)"), true},
		{fmt.Errorf("no such table: jobs"), false},
	}
	for i, tt := range tbl {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			assert.Equal(t, tt.want, isLockError(tt.err))
		})
	}
}

func TestWithLockRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("retries lock errors", func(t *testing.T) {
		calls := 0
		err := withLockRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("constraint failed")
		err := withLockRetry(ctx, func() error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up on persistent lock", func(t *testing.T) {
		calls := 0
		err := withLockRetry(ctx, func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		require.Error(t, err)
		assert.Greater(t, calls, 1)
	})
}

func TestJSONColumns(t *testing.T) {
	t.Run("notes", func(t *testing.T) {
		v, err := notesSQL(nil).Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)

		var n notesSQL
		require.NoError(t, n.Scan(`["a","b"]`))
		assert.Equal(t, notesSQL{"a", "b"}, n)

		require.NoError(t, n.Scan(nil))
		assert.Empty(t, n)

		assert.Error(t, n.Scan(42))
	})

	t.Run("failed items", func(t *testing.T) {
		var f failedItemsSQL
		require.NoError(t, f.Scan([]byte(`[{"jobId":"x","reason":"bad"}]`)))
		require.Len(t, f, 1)
		assert.Equal(t, "x", f[0].ItemID)
		assert.Equal(t, "bad", f[0].Reason)

		v, err := f.Value()
		require.NoError(t, err)
		assert.JSONEq(t, `[{"jobId":"x","reason":"bad"}]`, v.(string))
	})
}
