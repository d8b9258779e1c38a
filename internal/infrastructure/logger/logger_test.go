package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/xiebiao/sweetshop/internal/infrastructure/config"
)

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := &config.Config{
		Log:     config.LogConfig{Level: "warn", Format: "json", Output: path},
		Tracing: config.TracingConfig{ServiceName: "sweetshop"},
	}

	log, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log.Info("dropped")
	log.Warn("stock restored for missing sweet")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"msg":"stock restored for missing sweet"`)
	assert.Contains(t, string(data), `"service":"sweetshop"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&config.Config{Log: config.LogConfig{Level: "loud"}})
	assert.Error(t, err)
}
