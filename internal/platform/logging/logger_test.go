package logging

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerKVArgs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Info("slot booked",
		"venue_id", "venue-1",
		"err", errors.New("boom"),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["venue_id"] != "venue-1" {
		t.Fatalf("unexpected venue_id field: %v", fields["venue_id"])
	}
	if fields["err"] != "boom" {
		t.Fatalf("expected named error field, got %v", fields["err"])
	}
}

func TestLoggerOddArgs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.Warn("partial", "dangling")

	fields := logs.All()[0].ContextMap()
	if value, ok := fields["dangling"]; !ok || value != nil {
		t.Fatalf("expected dangling key with nil value, got %v", fields)
	}
}

func TestNewJSONServiceStamp(t *testing.T) {
	logger := NewJSON(LevelInfo, "matchday-api", "1.2.3")
	if logger == nil || logger.Zap() == nil {
		t.Fatal("expected a usable logger")
	}

	// Without identity the stamp fields stay off.
	plain := NewJSON(LevelInfo, "", "")
	if plain == nil {
		t.Fatal("expected a usable logger without identity")
	}
}

func TestDefaultNeverNil(t *testing.T) {
	SetDefault(nil)
	if Default() == nil {
		t.Fatal("expected a nop default logger")
	}

	var logger *Logger
	logger.Info("nil receivers are safe")
}
