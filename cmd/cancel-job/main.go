package main

import (
	"context"
	"fmt"
	"os"

	r "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clackworks/fwq/internal/canceljob"
	"github.com/clackworks/fwq/internal/config"
	"github.com/clackworks/fwq/internal/queue"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <job_id>\n", os.Args[0])
		os.Exit(2)
	}
	jobID := os.Args[1]

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

	runner := canceljob.New(queue.New(rdb, cfg.KeyPrefix, cfg.QueueName), logger)
	if _, err := runner.Run(context.Background(), jobID); err != nil {
		logger.Error("cancel failed", zap.Error(err))
		os.Exit(1)
	}
}
