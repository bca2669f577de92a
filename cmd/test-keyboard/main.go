package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	r "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clackworks/fwq/internal/config"
	"github.com/clackworks/fwq/internal/keyboards"
	"github.com/clackworks/fwq/internal/queue"
	"github.com/clackworks/fwq/internal/smoketest"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <keyboard>\n", os.Args[0])
		os.Exit(2)
	}
	keyboard := os.Args[1]

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

	runner := smoketest.New(
		queue.New(rdb, cfg.KeyPrefix, cfg.QueueName),
		keyboards.New(rdb, cfg.KeyboardPrefix),
		logger,
	)
	runner.Interval = cfg.PollInterval

	err = runner.Run(context.Background(), keyboard)
	switch {
	case err == nil:
	case errors.Is(err, keyboards.ErrNotFound):
		fmt.Fprintf(os.Stderr, "No such keyboard: %s\n", keyboard)
		os.Exit(1)
	case errors.Is(err, smoketest.ErrNoLayouts):
		fmt.Fprintf(os.Stderr, "Keyboard %s has no layouts to test\n", keyboard)
		os.Exit(1)
	default:
		var compileErr *smoketest.CompileError
		if !errors.As(err, &compileErr) {
			logger.Error("test compile failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
