package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger()}

	attempts := 0
	err := r.Do("flaky op", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success on the third attempt, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts: got %d, want 3", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewLogger()}

	sentinel := errors.New("boom")
	err := r.Do("doomed op", func() error { return sentinel })

	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("the last error must be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "doomed op") {
		t.Errorf("error must name the operation, got %v", err)
	}
}

func TestRetryFirstTrySuccess(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Second, Logger: NewLogger()}

	attempts := 0
	start := time.Now()
	if err := r.Do("instant op", func() error { attempts++; return nil }); err != nil {
		t.Fatal(err)
	}
	if attempts != 1 {
		t.Errorf("attempts: got %d, want 1", attempts)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("a first-try success must not sleep")
	}
}
