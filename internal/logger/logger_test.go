package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/diag"
	"style-engine/internal/logger"
)

func TestLinesAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "style.txt")
	l, err := logger.New(path, false)
	require.NoError(t, err)

	l.Log("hello")
	l.Zap().Debug("hidden")
	errs := diag.NewErrors("a.scss", "x: 1;", l.Listener())
	errs.Warn(diag.Location{Line: 1, Column: 1}, "unknown property %q", "x")
	require.NoError(t, l.Close())

	lines := l.Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "hello")
	assert.Contains(t, lines[1], "WARN")
	assert.Contains(t, lines[1], `unknown property "x"`)
	assert.Contains(t, lines[1], `"at": "1:1"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestDebugLevel(t *testing.T) {
	l, err := logger.New("", true)
	require.NoError(t, err)
	l.Zap().Debug("shown")
	assert.Len(t, l.Lines(), 1)
}
