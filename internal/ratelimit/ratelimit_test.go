package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/fd1az/optrack/internal/apperror"
)

func TestNew_BurstIsTenPercent(t *testing.T) {
	l := New(20)
	if !l.Allow() || !l.Allow() {
		t.Fatal("expected burst of 2")
	}
	if l.Allow() {
		t.Error("third immediate event should be limited")
	}
}

func TestNew_NonPositiveIsUnlimited(t *testing.T) {
	l := New(0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatalf("event %d limited", i)
		}
	}
}

func TestWaitWithTimeout_ReturnsAppError(t *testing.T) {
	l := NewWithBurst(0.001, 1)
	l.Allow()

	err := l.WaitWithTimeout(context.Background(), 10*time.Millisecond)
	if !apperror.IsCode(err, apperror.CodeRateLimitExceeded) {
		t.Errorf("err = %v", err)
	}
}
