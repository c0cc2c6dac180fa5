package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/biopragmatics/orcidsync/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	logging.SetDefault(logger)

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	output := buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message in output, got: %s", output)
	}
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithPrefix(ctx, "uberon")
	ctx = logging.WithStage(ctx, "scan")

	logging.Ctx(ctx).Info().Msg("scanning nodes")

	testLogger.AssertContains(t, "uberon")
	testLogger.AssertContains(t, "scan")
	testLogger.AssertContains(t, "scanning nodes")
}

func TestFromContextFallback(t *testing.T) {
	if logging.FromContext(context.Background()) == nil {
		t.Error("FromContext should fall back to the default logger")
	}
	if logging.FromContext(nil) == nil { //nolint:staticcheck // nil context fallback is the point
		t.Error("FromContext(nil) should fall back to the default logger")
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	cfg := &logging.Config{
		Level:  "warn",
		Format: "json",
		Output: "discard",
	}
	logger := logging.NewLoggerFromConfig(cfg)
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("Expected warn level, got %v", logger.GetLevel())
	}
}

func TestTestLoggerCapture(t *testing.T) {
	tl := logging.NewTestLogger(t)
	tl.Info().Str("prefix", "go").Msg("first")
	tl.Warn().Msg("second")

	if tl.Count() != 2 {
		t.Errorf("Expected 2 entries, got %d", tl.Count())
	}
	if !tl.Contains("first") || !tl.Contains("second") {
		t.Errorf("Missing expected entries in output: %s", tl.Output())
	}

	tl.Clear()
	if tl.Count() != 0 {
		t.Errorf("Expected empty log after Clear, got %d entries", tl.Count())
	}
}
