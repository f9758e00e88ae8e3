package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusQueued, StatusDownloading, true},
		{StatusQueued, StatusImported, false},
		{StatusDownloading, StatusCompleted, true},
		{StatusCompleted, StatusImporting, true},
		{StatusCompleted, StatusImported, false},
		{StatusImporting, StatusImported, true},
		{StatusImporting, StatusCompleted, true},
		{StatusImported, StatusQueued, false},
		{StatusFailed, StatusQueued, true},
		{StatusFailed, StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusImported.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusImporting.IsTerminal())
	assert.False(t, StatusQueued.IsTerminal())
}
