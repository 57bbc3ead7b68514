package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacerSpacesFetches(t *testing.T) {
	t.Parallel()

	p := New(100 * time.Millisecond)
	ctx := context.Background()

	// First wait consumes the initial token immediately.
	start := time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Logf("warning: first wait took %v", time.Since(start))
	}

	// The second must wait roughly the interval.
	start = time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("second Wait() error = %v", err)
	}
	if dur := time.Since(start); dur < 80*time.Millisecond {
		t.Errorf("expected wait ~100ms, got %v", dur)
	}
}

func TestPacerDisabled(t *testing.T) {
	t.Parallel()

	p := New(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("disabled pacer should not block, took %v", time.Since(start))
	}
}

func TestPacerHonorsContext(t *testing.T) {
	t.Parallel()

	p := New(time.Hour)
	ctx := context.Background()

	if err := p.Wait(ctx); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := p.Wait(canceled); err == nil {
		t.Fatal("expected canceled context to abort the wait")
	}
}
