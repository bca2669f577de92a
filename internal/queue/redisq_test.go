package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clackworks/fwq/internal/domain"
)

func TestJobFromHash(t *testing.T) {
	job := jobFromHash("job-1", map[string]string{
		"keyboard":    "acme/board1",
		"keymap":      "test_keyboard",
		"layout":      "LAYOUT",
		"status":      "queued",
		"enqueued_at": "2026-08-30T12:00:00Z",
	})

	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, "acme/board1", job.Keyboard)
	assert.Equal(t, "test_keyboard", job.Keymap)
	assert.Equal(t, "LAYOUT", job.Layout)
	assert.Equal(t, domain.Queued, job.State)
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), job.EnqueuedAt.UTC())
}

func TestJobFromHashExpired(t *testing.T) {
	// A job hash can expire between the list read and the hash read.
	job := jobFromHash("job-2", map[string]string{})

	assert.Equal(t, "job-2", job.ID)
	assert.Empty(t, job.Keyboard)
	assert.True(t, job.EnqueuedAt.IsZero())
}

func TestReverse(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", []string{}, []string{}},
		{"single", []string{"a"}, []string{"a"}},
		{"even", []string{"a", "b", "c", "d"}, []string{"d", "c", "b", "a"}},
		{"odd", []string{"a", "b", "c"}, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reverse(tt.in)
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestKeys(t *testing.T) {
	q := New(nil, "rq:", "default")

	assert.Equal(t, "rq:queue:default", q.queueKey())
	assert.Equal(t, "rq:job:job-1", q.jobKey("job-1"))
}
