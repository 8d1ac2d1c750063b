package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, lvl zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(lvl)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })
	return logs
}

func TestInfo_AddsRequestID(t *testing.T) {
	logs := observe(t, zap.InfoLevel)

	ctx := WithRequestID(context.Background(), "req-1")
	Info(ctx, "created %s", "abc")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "created abc" {
		t.Fatalf("message = %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-1" {
		t.Fatalf("request_id = %v", got)
	}
}

func TestDebug_FilteredByLevel(t *testing.T) {
	logs := observe(t, zap.WarnLevel)

	Debug(context.Background(), "hidden")
	Info(context.Background(), "hidden too")
	Error(context.Background(), "boom: %d", 1)

	if logs.Len() != 1 || logs.All()[0].Message != "boom: 1" {
		t.Fatalf("unexpected entries: %+v", logs.All())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zap.DebugLevel,
		"WARN":  zap.WarnLevel,
		"error": zap.ErrorLevel,
		"":      zap.InfoLevel,
		"bogus": zap.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
