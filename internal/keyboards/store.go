package keyboards

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	r "github.com/redis/go-redis/v9"

	"github.com/clackworks/fwq/internal/domain"
)

// ErrNotFound is returned when no metadata record exists for a keyboard.
var ErrNotFound = errors.New("keyboard not found")

// Getter is the metadata lookup capability the tools consume.
type Getter interface {
	Get(ctx context.Context, name string) (*domain.KeyboardInfo, error)
}

// Store reads keyboard metadata records maintained by the API's refresh job.
// Records are JSON blobs keyed by a fixed prefix plus the keyboard name.
type Store struct {
	rdb    *r.Client
	prefix string
}

func New(rdb *r.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, name string) (*domain.KeyboardInfo, error) {
	data, err := s.rdb.Get(ctx, s.prefix+name).Bytes()
	if err == r.Nil {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get keyboard %s", name)
	}

	var info domain.KeyboardInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrapf(err, "decode keyboard %s", name)
	}
	return &info, nil
}
