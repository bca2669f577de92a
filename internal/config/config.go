package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds everything the queue tools can be told from the environment.
type Config struct {
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// QueueName selects which queue the compile workers consume.
	QueueName string `env:"QUEUE_NAME" envDefault:"default"`

	// KeyPrefix namespaces all queue keys in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"rq:"`

	// KeyboardPrefix is prepended to a keyboard name to form its metadata key.
	KeyboardPrefix string `env:"KB_KEY_PREFIX" envDefault:"qmk_api_kb_"`

	// PollInterval is the fixed wait between job status checks.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
}

// Load reads configuration from the environment, layering in an optional
// .env file for development. A missing .env is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return c, nil
}
