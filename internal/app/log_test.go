package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFolioHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name      string
		sessionID string
		level     slog.Level
		message   string
		attrs     []slog.Attr
		want      string
	}{
		{
			name:      "basic info message",
			sessionID: "s-123",
			level:     slog.LevelInfo,
			message:   "logged in",
			want:      "2024-06-15T14:30:45Z\tINFO\ts-123\tlogged in\n",
		},
		{
			name:      "warn level",
			sessionID: "s-456",
			level:     slog.LevelWarn,
			message:   "snapshots disabled",
			want:      "2024-06-15T14:30:45Z\tWARN\ts-456\tsnapshots disabled\n",
		},
		{
			name:      "with record attrs",
			sessionID: "s-789",
			level:     slog.LevelInfo,
			message:   "design saved",
			attrs:     []slog.Attr{slog.String("email", "a@b.com"), slog.Int64("design_id", 3)},
			want:      "2024-06-15T14:30:45Z\tINFO\ts-789\tdesign saved\temail=a@b.com\tdesign_id=3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &folioHandler{w: &buf, sessionID: tt.sessionID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestFolioHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &folioHandler{w: &buf, sessionID: "s-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "seed")}).(*folioHandler)
	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "catalog seeded", 0)
	r.AddAttrs(slog.Int("inserted", 8))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "\ta=1\tcomponent=seed\tinserted=8\n") {
		t.Errorf("attrs not written in order: %q", got)
	}
}

func TestFolioHandler_Enabled(t *testing.T) {
	h := &folioHandler{level: slog.LevelWarn}
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}

	if !(&folioHandler{}).Enabled(context.Background(), slog.LevelDebug) {
		t.Error("handler without level should enable everything")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "test-session", slog.LevelInfo)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	logger.Debug("hidden")
	logger.Info("visible", "k", "v")

	data, err := os.ReadFile(filepath.Join(dir, "folio.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "hidden") {
		t.Errorf("debug record written at info level: %q", got)
	}
	if !strings.Contains(got, "\tINFO\ttest-session\tvisible\tk=v\n") {
		t.Errorf("log file = %q", got)
	}
}
