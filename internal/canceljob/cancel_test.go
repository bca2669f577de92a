package canceljob

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clackworks/fwq/internal/domain"
)

type fakeQueue struct {
	pending    []domain.Job
	pendingErr error
	cancelled  []string
	cancelErr  error
}

func (q *fakeQueue) Submit(context.Context, domain.WorkRequest) (domain.Job, error) {
	return domain.Job{}, errors.New("not implemented")
}

func (q *fakeQueue) Pending(context.Context) ([]domain.Job, error) {
	return q.pending, q.pendingErr
}

func (q *fakeQueue) Depth(context.Context) (int64, error) {
	return int64(len(q.pending)), nil
}

func (q *fakeQueue) Status(context.Context, string) (domain.State, error) {
	return domain.Queued, nil
}

func (q *fakeQueue) Result(context.Context, string) (*domain.Outcome, error) {
	return nil, nil
}

func (q *fakeQueue) Cancel(_ context.Context, id string) error {
	if q.cancelErr != nil {
		return q.cancelErr
	}
	q.cancelled = append(q.cancelled, id)
	return nil
}

func pendingJobs(ids ...string) []domain.Job {
	jobs := make([]domain.Job, len(ids))
	for i, id := range ids {
		jobs[i] = domain.Job{ID: id, State: domain.Queued}
	}
	return jobs
}

func TestRunCancelsMatchAndReportsPosition(t *testing.T) {
	q := &fakeQueue{pending: pendingJobs("a", "b", "c", "d")}
	out := &bytes.Buffer{}
	r := &Runner{Queue: q, Log: zap.NewNop(), Out: out}

	n, err := r.Run(context.Background(), "c")

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"c"}, q.cancelled)
	assert.Contains(t, out.String(), "4 jobs in queue")
	assert.Contains(t, out.String(), "Cancelled job c, 2 jobs were ahead of it")
}

func TestRunNoMatch(t *testing.T) {
	q := &fakeQueue{pending: pendingJobs("a", "b")}
	out := &bytes.Buffer{}
	r := &Runner{Queue: q, Log: zap.NewNop(), Out: out}

	n, err := r.Run(context.Background(), "zzz")

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, q.cancelled)
	assert.Contains(t, out.String(), "No pending job matched zzz")
}

func TestRunEmptyQueue(t *testing.T) {
	q := &fakeQueue{}
	out := &bytes.Buffer{}
	r := &Runner{Queue: q, Log: zap.NewNop(), Out: out}

	n, err := r.Run(context.Background(), "a")

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "0 jobs in queue")
}

func TestRunCancelsEveryMatch(t *testing.T) {
	// Ids are expected unique, but the scan does not assume it.
	q := &fakeQueue{pending: pendingJobs("a", "b", "a")}
	out := &bytes.Buffer{}
	r := &Runner{Queue: q, Log: zap.NewNop(), Out: out}

	n, err := r.Run(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "a"}, q.cancelled)
	assert.Contains(t, out.String(), "Cancelled job a, 0 jobs were ahead of it")
	assert.Contains(t, out.String(), "Cancelled job a, 2 jobs were ahead of it")
}

func TestRunPendingError(t *testing.T) {
	q := &fakeQueue{pendingErr: errors.New("redis unreachable")}
	r := &Runner{Queue: q, Log: zap.NewNop(), Out: &bytes.Buffer{}}

	_, err := r.Run(context.Background(), "a")

	require.Error(t, err)
}

func TestRunCancelError(t *testing.T) {
	q := &fakeQueue{pending: pendingJobs("a"), cancelErr: errors.New("redis unreachable")}
	r := &Runner{Queue: q, Log: zap.NewNop(), Out: &bytes.Buffer{}}

	n, err := r.Run(context.Background(), "a")

	require.Error(t, err)
	assert.Zero(t, n)
}
