package logs

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestHandler(t *testing.T) {
	dscope.New(new(Module)).Call(func(
		logger Logger,
	) {
		logger.Info("test", "hello", "world!")
	})
}

func TestHandlerSpan(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		ctx := context.WithValue(context.Background(), SpanKey, Span("foo"))
		logger.With("vm", "main").InfoContext(ctx, "run")
		line := buf.String()
		if !strings.Contains(line, "logs.span=foo") {
			t.Fatalf("got %v", line)
		}
		if !strings.Contains(line, "vm=main") {
			t.Fatalf("got %v", line)
		}
	})
}

func TestSetLevel(t *testing.T) {
	defer SetLevel(slog.LevelInfo)
	buf := new(bytes.Buffer)
	dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	).Call(func(
		logger Logger,
	) {
		logger.Debug("hidden")
		SetLevel(slog.LevelDebug)
		logger.Debug("shown")
		if strings.Contains(buf.String(), "hidden") {
			t.Fatal("debug should be filtered")
		}
		if !strings.Contains(buf.String(), "shown") {
			t.Fatal("debug should pass")
		}
	})
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("logs.span"); got != "LOGS_SPAN" {
		t.Fatalf("got %s", got)
	}
}
