package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoller_AppliesFirstFetchImmediately(t *testing.T) {
	applied := make(chan []string, 1)

	p := New("test", func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	}, time.Hour, func(result []string) {
		applied <- result
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	select {
	case result := <-applied:
		assert.Equal(t, []string{"a", "b"}, result)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the first snapshot")
	}
}

func TestPoller_RetainsStateOnError(t *testing.T) {
	fetchErr := errors.New("backend unreachable")
	errs := make(chan error, 1)

	p := New("test", func(ctx context.Context) (int, error) {
		return 0, fetchErr
	}, time.Hour, func(int) {
		t.Error("apply must not run for a failed fetch")
	}, func(err error) {
		errs <- err
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, fetchErr)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the fetch error")
	}
}

func TestPoller_DiscardsStaleResponse(t *testing.T) {
	var mu sync.Mutex
	var got []int

	p := New("test", func(ctx context.Context) (int, error) {
		return 0, nil
	}, time.Hour, func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	}, nil)

	// Simulate two overlapping in-flight requests completing out of
	// order: the response for tick 2 lands before the one for tick 1.
	p.deliver(2, 20)
	p.deliver(1, 10)
	p.deliver(3, 30)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{20, 30}, got, "the late tick-1 response must be discarded")
}

func TestPoller_NoApplyAfterStop(t *testing.T) {
	p := New("test", func(ctx context.Context) (int, error) {
		return 0, nil
	}, time.Hour, func(int) {
		t.Error("apply must not run after Stop")
	}, nil)

	p.Stop()
	p.deliver(1, 1)
}

func TestPoller_SecondStartIsANoOp(t *testing.T) {
	var mu sync.Mutex
	fetches := 0

	p := New("test", func(ctx context.Context) (int, error) {
		mu.Lock()
		fetches++
		mu.Unlock()
		return 0, nil
	}, time.Hour, func(int) {}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	p.Start(ctx) // must not spawn a second loop
	defer p.Stop()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, fetches, "only the first Start runs a startup fetch")
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := New("test", func(ctx context.Context) (int, error) {
		return 0, nil
	}, time.Hour, func(int) {}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Stop()
	p.Stop() // must not panic or block
}

func TestPoller_KickTriggersImmediateFetch(t *testing.T) {
	applied := make(chan struct{}, 4)

	p := New("test", func(ctx context.Context) (int, error) {
		return 0, nil
	}, time.Hour, func(int) {
		applied <- struct{}{}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	// First snapshot from startup.
	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the startup snapshot")
	}

	// The interval is an hour out; only Kick can produce another one.
	p.Kick()
	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the kicked snapshot")
	}
}
