package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema()
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok, "top level struct is expanded")
	for _, name := range []string{"server", "database", "queue", "worker", "schedule", "fetch", "feeds"} {
		assert.Contains(t, props, name)
	}

	queue, ok := props["queue"].(map[string]any)
	require.True(t, ok)
	backend := queue["properties"].(map[string]any)["backend"].(map[string]any)
	assert.Equal(t, []any{"sqlite", "redis"}, backend["enum"])
}

func TestVerifyAgainstSchema(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, VerifyAgainstSchema(New()))
	})

	t.Run("bad backend", func(t *testing.T) {
		cfg := New()
		cfg.Queue.Backend = "kafka"
		err := VerifyAgainstSchema(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "queue.backend")
	})

	t.Run("below minimum", func(t *testing.T) {
		cfg := New()
		cfg.Worker.Concurrency = 0
		err := VerifyAgainstSchema(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "worker.concurrency")
	})

	t.Run("feeds are walked", func(t *testing.T) {
		cfg := New()
		cfg.Feeds[1].Source = "custom"
		require.NoError(t, VerifyAgainstSchema(cfg))
	})
}
