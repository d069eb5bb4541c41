package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingSource struct {
	items []string
	calls int
	err   error
}

func (s *countingSource) load(ctx context.Context) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.items...), nil
}

func TestReadThroughServesStaleUntilTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(WithClock(clock.Now))
	src := &countingSource{items: []string{"Books", "Games"}}

	got, err := ReadThrough(ctx, m, "categories_list", 900*time.Second, src.load)
	if err != nil || len(got) != 2 {
		t.Fatalf("ReadThrough() = %v, %v", got, err)
	}

	src.items = nil
	got, _ = ReadThrough(ctx, m, "categories_list", 900*time.Second, src.load)
	if len(got) != 2 || src.calls != 1 {
		t.Fatalf("Expected cached result without reload, got %v after %d loads", got, src.calls)
	}

	src.items = []string{"Toys"}
	clock.Advance(900 * time.Second)
	got, _ = ReadThrough(ctx, m, "categories_list", 900*time.Second, src.load)
	if len(got) != 1 || got[0] != "Toys" || src.calls != 2 {
		t.Fatalf("Expected reload after expiry, got %v", got)
	}
}

func TestReadThroughNeverStoresEmpty(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	src := &countingSource{}

	for i := 0; i < 2; i++ {
		got, err := ReadThrough(ctx, m, "categories_list", time.Minute, src.load)
		if err != nil || len(got) != 0 {
			t.Fatalf("ReadThrough() = %v, %v", got, err)
		}
	}
	if src.calls != 2 {
		t.Errorf("Expected both calls to hit the source, got %d", src.calls)
	}
	if m.Len() != 0 {
		t.Errorf("Expected nothing cached, got %d entries", m.Len())
	}
}

func TestReadThroughPropagatesErrors(t *testing.T) {
	m := NewMemory()
	boom := errors.New("connection refused")
	src := &countingSource{err: boom}

	if _, err := ReadThrough(context.Background(), m, "products_list", time.Minute, src.load); !errors.Is(err, boom) {
		t.Fatalf("Expected load error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src.err = nil
	if _, err := ReadThrough(ctx, m, "products_list", time.Minute, src.load); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cache error, got %v", err)
	}
	if src.calls != 1 {
		t.Errorf("Expected no load after a cache failure, got %d loads", src.calls)
	}
}
