package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestFromAppConfig(t *testing.T) {
	dev := FromAppConfig(config.LogConfig{Level: "debug"}, "development")
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, DefaultTimeFormat, dev.TimeFormat)

	prod := FromAppConfig(config.LogConfig{Level: "info"}, "production")
	assert.Equal(t, "json", prod.Format)

	explicit := FromAppConfig(config.LogConfig{Format: "console"}, "production")
	assert.Equal(t, "console", explicit.Format)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erp.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("invoice sent")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"invoice sent"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_UnwritablePath(t *testing.T) {
	_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "erp.log")})
	assert.Error(t, err)
}
