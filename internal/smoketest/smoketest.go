package smoketest

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clackworks/fwq/internal/domain"
	"github.com/clackworks/fwq/internal/keyboards"
	"github.com/clackworks/fwq/internal/queue"
)

// TaskLabel marks jobs submitted by the smoke test so they are
// distinguishable from user compiles in the queue.
const TaskLabel = "test_keyboard"

const (
	noopKeycode  = "KC_NO"
	transKeycode = "KC_TRNS"
)

// ErrNoLayouts is returned when a keyboard's metadata record exists but
// defines no layouts to compile against.
var ErrNoLayouts = errors.New("keyboard has no layouts")

// CompileError reports a job that ran to completion and failed. It is the
// expected path for a broken build, not an infrastructure error.
type CompileError struct {
	Keyboard string
	Layout   string
	Outcome  domain.Outcome
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile of %s (%s) failed with return code %d",
		e.Keyboard, e.Layout, e.Outcome.ReturnCode)
}

// Runner submits one test compile job and polls it to a terminal state.
// The queue, metadata store, randomness, and clock are all injected so
// tests can drive a full lifecycle without Redis or real time.
type Runner struct {
	Queue     queue.Client
	Keyboards keyboards.Getter
	Log       *zap.Logger

	// Out receives operator-facing progress and report text.
	Out io.Writer

	// Interval is the fixed wait between status polls.
	Interval time.Duration

	// Rand picks the layout to compile.
	Rand *rand.Rand

	// Sleep suspends between polls. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

func New(q queue.Client, kb keyboards.Getter, log *zap.Logger) *Runner {
	return &Runner{
		Queue:     q,
		Keyboards: kb,
		Log:       log,
		Out:       os.Stdout,
		Interval:  2 * time.Second,
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		Sleep:     time.Sleep,
	}
}

// BuildLayers constructs the minimal two-layer test keymap for a layout
// with n key positions: a base layer of no-op keys and a second layer that
// is fully transparent to it.
func BuildLayers(n int) [][]string {
	base := make([]string, n)
	trans := make([]string, n)
	for i := 0; i < n; i++ {
		base[i] = noopKeycode
		trans[i] = transKeycode
	}
	return [][]string{base, trans}
}

// Run submits a test compile for the named keyboard and blocks until the
// job reaches a terminal state. It returns keyboards.ErrNotFound or
// ErrNoLayouts without submitting anything, a *CompileError for a failed
// build, and nil for a clean one.
func (r *Runner) Run(ctx context.Context, keyboard string) error {
	info, err := r.Keyboards.Get(ctx, keyboard)
	if err != nil {
		return err
	}

	names := info.LayoutNames()
	if len(names) == 0 {
		return errors.Wrap(ErrNoLayouts, keyboard)
	}
	layout := names[r.Rand.Intn(len(names))]
	layers := BuildLayers(len(info.Layouts[layout].Layout))

	job, err := r.Queue.Submit(ctx, domain.WorkRequest{
		Keyboard: keyboard,
		Keymap:   TaskLabel,
		Layout:   layout,
		Layers:   layers,
	})
	if err != nil {
		return err
	}
	r.Log.Info("job submitted",
		zap.String("job_id", job.ID),
		zap.String("keyboard", keyboard),
		zap.String("layout", layout))

	depth, err := r.Queue.Depth(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "Enqueued job %s: %s, layout %s\n", job.ID, keyboard, layout)
	fmt.Fprintf(r.Out, "%d jobs in queue\n", depth)

	outcome, err := r.poll(ctx, job.ID)
	if err != nil {
		return err
	}

	if outcome.OK() {
		fmt.Fprintf(r.Out, "Successfully compiled %s, layout %s\n", keyboard, layout)
		return nil
	}

	fmt.Fprintf(r.Out, "Failed to compile %s, layout %s\n", keyboard, layout)
	fmt.Fprintf(r.Out, "Return code: %d\n", outcome.ReturnCode)
	fmt.Fprintf(r.Out, "Output:\n%s\n", outcome.Output)
	return &CompileError{Keyboard: keyboard, Layout: layout, Outcome: outcome}
}

// poll blocks until the job has both a terminal state and an available
// outcome. Requiring both absorbs the race where the worker publishes one
// a moment before the other.
func (r *Runner) poll(ctx context.Context, id string) (domain.Outcome, error) {
	started := false
	for {
		if err := ctx.Err(); err != nil {
			return domain.Outcome{}, err
		}

		state, err := r.Queue.Status(ctx, id)
		if err != nil {
			return domain.Outcome{}, err
		}
		if state == domain.Started && !started {
			started = true
			fmt.Fprintf(r.Out, "\nCompile started\n")
		}

		outcome, err := r.Queue.Result(ctx, id)
		if err != nil {
			return domain.Outcome{}, err
		}
		if outcome != nil && state.Terminal() {
			fmt.Fprintln(r.Out)
			return *outcome, nil
		}

		fmt.Fprint(r.Out, ".")
		r.Sleep(r.Interval)
	}
}
