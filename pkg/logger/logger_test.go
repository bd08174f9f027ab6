package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wishy-app/backend/pkg/logger"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewLoggerWithOutput(logger.WARNING, &buf)

	lg.Debugf("debug message")
	lg.Infof("info message")
	require.Zero(t, buf.Len())

	lg.Warnf("warn message")
	lg.Errorf("error %d", 42)

	out := buf.String()
	require.Contains(t, out, "[WARN] warn message")
	require.Contains(t, out, "[ERROR] error 42")
	require.NotContains(t, out, "info message")
}

func TestLoggerSilence(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewLoggerWithOutput(logger.SILENCE, &buf)

	lg.Errorf("error message")
	require.Zero(t, buf.Len())
}
