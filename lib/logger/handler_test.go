package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleHandler(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	log := slog.New(NewConsoleHandler(&buf, slog.LevelDebug)).With("component", "loader")

	log.Debug("module loaded", "path", "/a.js")
	assert.Contains(t, buf.String(), "DEBUG module loaded component: loader path: /a.js")

	buf.Reset()
	log.WithGroup("require").Info("hit", "id", "./a")
	assert.Contains(t, buf.String(), "INFO hit component: loader require.id: ./a")
}

func TestConsoleHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewConsoleHandler(&buf, slog.LevelWarn))

	log.Info("ignored")
	assert.Empty(t, buf.String())

	log.Error("failed")
	assert.Contains(t, buf.String(), "failed")
}
