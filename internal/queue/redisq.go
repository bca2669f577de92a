package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	r "github.com/redis/go-redis/v9"

	"github.com/clackworks/fwq/internal/domain"
)

// RedisQ talks to the shared compile queue. Workers consume the queue list
// with BRPOP, so jobs are pushed at the head and the next job to run sits
// at the tail.
type RedisQ struct {
	rdb    *r.Client
	prefix string
	name   string
}

func New(rdb *r.Client, prefix, name string) *RedisQ {
	return &RedisQ{rdb: rdb, prefix: prefix, name: name}
}

func (q *RedisQ) queueKey() string        { return q.prefix + "queue:" + q.name }
func (q *RedisQ) jobKey(id string) string { return q.prefix + "job:" + id }

func (q *RedisQ) Submit(ctx context.Context, req domain.WorkRequest) (domain.Job, error) {
	layers, err := json.Marshal(req.Layers)
	if err != nil {
		return domain.Job{}, errors.Wrap(err, "encode layers")
	}

	job := domain.Job{
		ID:         uuid.NewString(),
		Keyboard:   req.Keyboard,
		Keymap:     req.Keymap,
		Layout:     req.Layout,
		State:      domain.Queued,
		EnqueuedAt: time.Now().UTC(),
	}

	pipe := q.rdb.TxPipeline()
	pipe.HSet(ctx, q.jobKey(job.ID), map[string]interface{}{
		"keyboard":    job.Keyboard,
		"keymap":      job.Keymap,
		"layout":      job.Layout,
		"layers":      string(layers),
		"status":      string(job.State),
		"enqueued_at": job.EnqueuedAt.Format(time.RFC3339),
	})
	pipe.LPush(ctx, q.queueKey(), job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Job{}, errors.Wrapf(err, "submit job %s", job.ID)
	}
	return job, nil
}

func (q *RedisQ) Depth(ctx context.Context) (int64, error) {
	n, err := q.rdb.LLen(ctx, q.queueKey()).Result()
	if err != nil {
		return 0, errors.Wrap(err, "queue depth")
	}
	return n, nil
}

func (q *RedisQ) Pending(ctx context.Context) ([]domain.Job, error) {
	ids, err := q.rdb.LRange(ctx, q.queueKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "list pending")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	// LRANGE returns head first; reverse so index 0 is next to run.
	reverse(ids)

	pipe := q.rdb.Pipeline()
	cmds := make([]*r.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, q.jobKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "fetch pending jobs")
	}

	jobs := make([]domain.Job, len(ids))
	for i, id := range ids {
		jobs[i] = jobFromHash(id, cmds[i].Val())
	}
	return jobs, nil
}

func (q *RedisQ) Status(ctx context.Context, id string) (domain.State, error) {
	status, err := q.rdb.HGet(ctx, q.jobKey(id), "status").Result()
	if err == r.Nil {
		return "", errors.Wrapf(ErrUnknownJob, "job %s", id)
	}
	if err != nil {
		return "", errors.Wrapf(err, "status of job %s", id)
	}
	return domain.State(status), nil
}

func (q *RedisQ) Result(ctx context.Context, id string) (*domain.Outcome, error) {
	raw, err := q.rdb.HGet(ctx, q.jobKey(id), "result").Bytes()
	if err == r.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "result of job %s", id)
	}

	var outcome domain.Outcome
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return nil, errors.Wrapf(err, "decode result of job %s", id)
	}
	return &outcome, nil
}

func (q *RedisQ) Cancel(ctx context.Context, id string) error {
	pipe := q.rdb.TxPipeline()
	pipe.LRem(ctx, q.queueKey(), 0, id)
	pipe.HSet(ctx, q.jobKey(id), "status", string(domain.Canceled))
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "cancel job %s", id)
	}
	return nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// jobFromHash rebuilds a Job from its Redis hash. An empty hash (a job
// expired between the list read and the hash read) yields a Job with only
// its id set.
func jobFromHash(id string, h map[string]string) domain.Job {
	job := domain.Job{
		ID:       id,
		Keyboard: h["keyboard"],
		Keymap:   h["keymap"],
		Layout:   h["layout"],
		State:    domain.State(h["status"]),
	}
	if ts, err := time.Parse(time.RFC3339, h["enqueued_at"]); err == nil {
		job.EnqueuedAt = ts
	}
	return job
}
