package canceljob

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clackworks/fwq/internal/queue"
)

// Runner removes pending jobs from the queue by id.
type Runner struct {
	Queue queue.Client
	Log   *zap.Logger

	// Out receives operator-facing report text.
	Out io.Writer
}

func New(q queue.Client, log *zap.Logger) *Runner {
	return &Runner{Queue: q, Log: log, Out: os.Stdout}
}

// Run cancels every pending job whose id matches jobID, reporting the
// zero-based queue position of each match at snapshot time. Job ids are
// expected unique but the scan deliberately does not stop at the first
// match. It returns the number of jobs cancelled.
func (r *Runner) Run(ctx context.Context, jobID string) (int, error) {
	jobs, err := r.Queue.Pending(ctx)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(r.Out, "%d jobs in queue\n", len(jobs))

	cancelled := 0
	for pos, job := range jobs {
		if job.ID != jobID {
			continue
		}
		if err := r.Queue.Cancel(ctx, job.ID); err != nil {
			return cancelled, errors.Wrapf(err, "cancel job %s", jobID)
		}
		r.Log.Info("job cancelled", zap.String("job_id", job.ID), zap.Int("position", pos))
		fmt.Fprintf(r.Out, "Cancelled job %s, %d jobs were ahead of it\n", job.ID, pos)
		cancelled++
	}

	if cancelled == 0 {
		fmt.Fprintf(r.Out, "No pending job matched %s\n", jobID)
	}
	return cancelled, nil
}
