package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	r "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clackworks/fwq/internal/config"
	"github.com/clackworks/fwq/internal/queue"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	rdb := r.NewClient(&r.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer rdb.Close()

	q := queue.New(rdb, cfg.KeyPrefix, cfg.QueueName)
	jobs, err := q.Pending(context.Background())
	if err != nil {
		logger.Error("list pending jobs", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("%d jobs in queue\n", len(jobs))
	if len(jobs) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tJOB ID\tKEYBOARD\tKEYMAP\tENQUEUED")
	for pos, job := range jobs {
		enqueued := ""
		if !job.EnqueuedAt.IsZero() {
			enqueued = job.EnqueuedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", pos, job.ID, job.Keyboard, job.Keymap, enqueued)
	}
	if err := w.Flush(); err != nil {
		logger.Error("flush job table", zap.Error(err))
		os.Exit(1)
	}
}
