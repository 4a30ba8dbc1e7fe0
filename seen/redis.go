package seen

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisMirror stores the blob as a plain string value keyed by the path.
type RedisMirror struct {
	client redis.Cmdable
}

// NewRedisMirror creates a mirror on client.
func NewRedisMirror(client redis.Cmdable) *RedisMirror {
	return &RedisMirror{client: client}
}

// Download returns the value at path, or ErrNotFound.
func (r *RedisMirror) Download(ctx context.Context, path string) ([]byte, error) {
	data, err := r.client.Get(ctx, path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Upload overwrites the value at path. The key never expires.
func (r *RedisMirror) Upload(ctx context.Context, path string, data []byte) error {
	return r.client.Set(ctx, path, data, 0).Err()
}
