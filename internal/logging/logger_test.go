package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromContext(t *testing.T) {
	// No request ID: the default logger comes back
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil")
	}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	if FromContext(ctx) == slog.Default() {
		t.Error("request-scoped logger should differ from the default")
	}
}
