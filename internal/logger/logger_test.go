package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/georgemunganga/ustaz-catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	log, err := New(config.Log{Mode: "production", File: path})
	require.NoError(t, err)
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	log.Info("seeded", zap.Int("count", 6))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"seeded"`)
	assert.Contains(t, string(data), `"count":6`)
}

func TestNew_InstallsGlobal(t *testing.T) {
	log, err := New(config.Log{Mode: "development"})
	require.NoError(t, err)
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	assert.Same(t, log, zap.L())
}
