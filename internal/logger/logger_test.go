package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fd1az/optrack/internal/apperror"
)

func TestLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "optrack-test", nil)

	log.Info(context.Background(), "price checked", "symbol", "MOTO", "price", 1.5, "error", errors.New("boom"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	if rec["message"] != "price checked" {
		t.Errorf("message = %v", rec["message"])
	}
	if rec["service"] != "optrack-test" {
		t.Errorf("service = %v", rec["service"])
	}
	if rec["symbol"] != "MOTO" {
		t.Errorf("symbol = %v", rec["symbol"])
	}
	if rec["error"] != "boom" {
		t.Errorf("error = %v", rec["error"])
	}
	if _, ok := rec["caller"]; !ok {
		t.Error("expected caller field")
	}
}

func TestLogger_AppErrorCodeField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "optrack-test", nil)

	err := apperror.New(apperror.CodePoolNotFound, apperror.WithContext("MOTO"))
	log.Warn(context.Background(), "pool lookup", "error", err)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["error_code"] != string(apperror.CodePoolNotFound) {
		t.Errorf("error_code = %v", rec["error_code"])
	}
	if _, ok := rec["error"].(string); !ok {
		t.Errorf("error = %v", rec["error"])
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "svc", nil)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %s", buf.String())
	}

	log.Warn(context.Background(), "shown")
	if buf.Len() == 0 {
		t.Fatal("expected warn output")
	}
}

func TestLogger_EventsHook(t *testing.T) {
	var warned, errored string
	events := &Events{
		Warn:  func(_ context.Context, msg string, _ map[string]any) { warned = msg },
		Error: func(_ context.Context, msg string, _ map[string]any) { errored = msg },
	}
	log := New(&bytes.Buffer{}, LevelDebug, "svc", events)

	log.Warn(context.Background(), "w")
	log.Errorc(context.Background(), 2, "e")

	if warned != "w" || errored != "e" {
		t.Errorf("hooks got warn=%q error=%q", warned, errored)
	}
}

func TestToFields_DanglingKey(t *testing.T) {
	fields := toFields([]any{"a", 1, "b"})
	if fields["a"] != 1 {
		t.Errorf("a = %v", fields["a"])
	}
	if fields["b"] != "!MISSING" {
		t.Errorf("b = %v", fields["b"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
