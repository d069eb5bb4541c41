package cache

import (
	"context"
	"fmt"
	"time"
)

// ReadThrough returns the list stored under key, loading and storing it on a
// miss. An empty list is never stored, so an empty source is reloaded on
// every call. Cache and load errors are returned as is, with no fallback.
func ReadThrough[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func(context.Context) ([]T, error)) ([]T, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	if ok {
		if items, isList := v.([]T); isList && len(items) > 0 {
			return items, nil
		}
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}
	if err := s.Set(ctx, key, items, ttl); err != nil {
		return nil, fmt.Errorf("cache set %s: %w", key, err)
	}
	return items, nil
}
