package queue

import (
	"context"

	"github.com/pkg/errors"

	"github.com/clackworks/fwq/internal/domain"
)

// ErrUnknownJob is returned when a job id has no record in the queue,
// either because it never existed or because it expired.
var ErrUnknownJob = errors.New("unknown job")

// Client is the narrow capability the tools need from the external queue.
// Every call is a single atomic interaction; the tools never hold locks or
// run multi-step transactions against the queue.
type Client interface {
	// Submit enqueues one work request and returns the resulting job.
	Submit(ctx context.Context, req domain.WorkRequest) (domain.Job, error)

	// Pending returns a snapshot of queued jobs in queue order;
	// position 0 is next to run. The snapshot is advisory only.
	Pending(ctx context.Context) ([]domain.Job, error)

	// Depth returns the number of jobs currently queued.
	Depth(ctx context.Context) (int64, error)

	// Status reads the current lifecycle state of a job.
	Status(ctx context.Context, id string) (domain.State, error)

	// Result reads a job's outcome. It returns nil with no error while
	// the job has not produced one yet.
	Result(ctx context.Context, id string) (*domain.Outcome, error)

	// Cancel removes a job from the pending queue and marks it canceled.
	Cancel(ctx context.Context, id string) error
}
