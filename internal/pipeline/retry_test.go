package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwrigley/docoutline/internal/parser"
)

func TestIsRetryable(t *testing.T) {
	extErr := &parser.ExtractionError{Op: "pdf read", Err: errors.New("short read")}
	if !IsRetryable(extErr) {
		t.Error("extraction errors must be retryable")
	}
	if !IsRetryable(fmt.Errorf("parse: %w", extErr)) {
		t.Error("wrapped extraction errors must be retryable")
	}
	if IsRetryable(errors.New("unsupported file extension")) {
		t.Error("plain errors must not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil must not be retryable")
	}
}

func TestRetryPolicy_RetriesTransientFailures(t *testing.T) {
	p := RetryPolicy{Attempts: 3, Base: time.Millisecond, Factor: 2}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &parser.ExtractionError{Op: "stream", Err: errors.New("flaky")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryPolicy_PermanentFailureRunsOnce(t *testing.T) {
	p := RetryPolicy{Attempts: 3, Base: time.Millisecond, Factor: 2}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return errors.New("malformed document")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected a single attempt for permanent failure, got %d", calls)
	}
}

func TestRetryPolicy_ExhaustedAttempts(t *testing.T) {
	p := RetryPolicy{Attempts: 2, Base: time.Millisecond, Factor: 2}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return &parser.ExtractionError{Op: "stream", Err: errors.New("still flaky")}
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
	var extErr *parser.ExtractionError
	if !errors.As(err, &extErr) {
		t.Errorf("expected the last extraction error, got %T: %v", err, err)
	}
}

func TestRetryPolicy_BackoffGrowsAndCaps(t *testing.T) {
	p := RetryPolicy{Base: time.Second, Factor: 2}

	if d := p.backoff(0, nil, nil); d != time.Second {
		t.Errorf("attempt 0: expected 1s, got %v", d)
	}
	if d := p.backoff(2, nil, nil); d != 4*time.Second {
		t.Errorf("attempt 2: expected 4s, got %v", d)
	}
	if d := p.backoff(20, nil, nil); d != 30*time.Second {
		t.Errorf("attempt 20: expected 30s cap, got %v", d)
	}
}
