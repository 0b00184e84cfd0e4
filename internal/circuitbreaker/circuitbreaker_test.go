package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/optrack/internal/apperror"
)

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	var transitions []gobreaker.State

	cfg := DefaultConfig("opnet-test")
	cfg.ConsecutiveFailures = 2
	cfg.Timeout = time.Hour
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}
	cb := New[int](cfg)

	boom := errors.New("rpc down")
	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want boom", i, err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	called := false
	_, err := cb.Execute(func() (int, error) {
		called = true
		return 1, nil
	})
	if called {
		t.Error("fn must not run while open")
	}
	if apperror.GetCode(err) != apperror.CodeCircuitOpen {
		t.Errorf("code = %v, want %v", apperror.GetCode(err), apperror.CodeCircuitOpen)
	}
	if len(transitions) != 1 || transitions[0] != gobreaker.StateOpen {
		t.Errorf("transitions = %v", transitions)
	}
}

func TestCircuitBreaker_PassesResults(t *testing.T) {
	cb := New[string](DefaultConfig("ok"))
	got, err := cb.Execute(func() (string, error) { return "reserves", nil })
	if err != nil || got != "reserves" {
		t.Errorf("Execute = %q, %v", got, err)
	}
	if cb.Name() != "ok" {
		t.Errorf("Name = %q", cb.Name())
	}
}
