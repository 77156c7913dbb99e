package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to ImportStatus
		want     bool
	}{
		{ImportPending, ImportProcessing, true},
		{ImportProcessing, ImportProcessing, true},
		{ImportProcessing, ImportCompleted, true},
		{ImportProcessing, ImportFailed, true},
		{ImportPending, ImportCompleted, false},
		{ImportPending, ImportFailed, false},
		{ImportProcessing, ImportPending, false},
		{ImportCompleted, ImportProcessing, false},
		{ImportCompleted, ImportFailed, false},
		{ImportFailed, ImportProcessing, false},
		{ImportFailed, ImportCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestSourcesFor(t *testing.T) {
	assert.Equal(t, []ImportStatus{ImportPending, ImportProcessing}, SourcesFor(ImportProcessing))
	assert.Equal(t, []ImportStatus{ImportProcessing}, SourcesFor(ImportCompleted))
	assert.Equal(t, []ImportStatus{ImportProcessing}, SourcesFor(ImportFailed))
	assert.Empty(t, SourcesFor(ImportPending))
}

func TestImportStatus_IsTerminal(t *testing.T) {
	assert.False(t, ImportPending.IsTerminal())
	assert.False(t, ImportProcessing.IsTerminal())
	assert.True(t, ImportCompleted.IsTerminal())
	assert.True(t, ImportFailed.IsTerminal())
}
