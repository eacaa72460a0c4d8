package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dyike/SageDesk/config"
)

func TestWithRetrySucceedsOnSecondAttempt(t *testing.T) {
	calls := 0
	rc := RetryConfig{Retries: 1, Timeout: time.Second, Delay: time.Millisecond}

	err := WithRetry(context.Background(), rc, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	sentinel := errors.New("down")
	rc := RetryConfig{Retries: 1, Timeout: time.Second, Delay: time.Millisecond}

	err := WithRetry(context.Background(), rc, func(ctx context.Context) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", calls)
	}
}

func TestWithRetryAttemptTimeout(t *testing.T) {
	rc := RetryConfig{Retries: 0, Timeout: 10 * time.Millisecond}

	err := WithRetry(context.Background(), rc, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	rc := RetryConfig{Retries: 3, Timeout: time.Second, Delay: time.Millisecond}

	err := WithRetry(ctx, rc, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no retry after cancel, got %d calls", calls)
	}
}

func TestRetryConfigFrom(t *testing.T) {
	cfg := config.Defaults()
	cfg.RetryAttempts = 0
	cfg.RequestTimeout = 3 * time.Second

	rc := RetryConfigFrom(cfg)
	if rc.Retries != 0 || rc.Timeout != 3*time.Second || rc.Delay != 500*time.Millisecond {
		t.Fatalf("unexpected retry config %+v", rc)
	}
}
