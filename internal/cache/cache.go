// Package cache provides the short-lived read caches used for catalog search
// and the scheduled-change log. Entries are stored JSON encoded so the memory
// and Redis backends behave the same.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores JSON encodable values under string keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func encode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cache value: %w", err)
	}
	return data, nil
}

func decode(data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cache value: %w", err)
	}
	return nil
}
