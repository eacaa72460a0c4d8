package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dyike/SageDesk/config"
)

func TestLevelFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	l := NewWithWriter(cfg, &buf)
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn line missing: %s", out)
	}
}

func TestTimedUsesContextLogger(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogLevel = "debug"

	var buf bytes.Buffer
	ctx := WithContext(context.Background(), NewWithWriter(cfg, &buf))

	err := errors.New("boom")
	Timed(ctx, "finnhub", "metrics", "AAPL")(&err)

	out := buf.String()
	for _, want := range []string{`"provider":"finnhub"`, `"symbol":"AAPL"`, `"error":"boom"`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
}

func TestFromWithoutLoggerIsSafe(t *testing.T) {
	From(context.Background()).Info().Msg("dropped")
}
