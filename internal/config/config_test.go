package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "mcp-pdf-spec", cfg.ServerName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, BackendLayout, cfg.Backend)
	assert.Equal(t, 1, cfg.Workers)
	assert.True(t, cfg.PreserveLines)

	currentDir, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, currentDir, cfg.Directory)
}

func TestConfigValidate(t *testing.T) {
	valid := func(mutate func(c *Config)) *Config {
		c := DefaultConfig()
		c.Directory = t.TempDir()
		mutate(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{name: "valid stdio mode", config: valid(func(*Config) {})},
		{name: "valid server mode", config: valid(func(c *Config) { c.Mode = ModeServer })},
		{name: "invalid mode", config: valid(func(c *Config) { c.Mode = "invalid" }), wantErr: "mode"},
		{name: "port ignored in stdio mode", config: valid(func(c *Config) { c.Port = 0 })},
		{name: "invalid port in server mode", config: valid(func(c *Config) { c.Mode = ModeServer; c.Port = 0 }), wantErr: "port"},
		{name: "empty directory", config: valid(func(c *Config) { c.Directory = "" }), wantErr: "directory"},
		{name: "unknown backend", config: valid(func(c *Config) { c.Backend = "ocr" }), wantErr: "backend"},
		{name: "no workers", config: valid(func(c *Config) { c.Workers = 0 }), wantErr: "workers"},
		{name: "no extensions", config: valid(func(c *Config) { c.Extensions = nil }), wantErr: "extension"},
		{name: "negative file size", config: valid(func(c *Config) { c.MaxFileSize = -1 }), wantErr: "file size"},
		{name: "invalid log level", config: valid(func(c *Config) { c.LogLevel = "trace" }), wantErr: "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidate_DirectoryIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sheet.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := DefaultConfig()
	cfg.Directory = filepath.Join(file, "sub")
	assert.Error(t, cfg.Validate())
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for level, want := range tests {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, want, cfg.SlogLevel(), level)
	}
}

func TestConfig_ModeHelpers(t *testing.T) {
	cfg := &Config{Mode: ModeStdio}
	assert.True(t, cfg.IsStdioMode())
	assert.False(t, cfg.IsServerMode())

	cfg.Mode = ModeServer
	assert.True(t, cfg.IsServerMode())
	assert.False(t, cfg.IsStdioMode())
}

func TestConfig_String(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()
	for _, want := range []string{"Mode: stdio", "Backend: layout", "Workers: 1", "Extensions: [.pdf]", "PreserveLines: true"} {
		assert.True(t, strings.Contains(s, want), want)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  []string
	}{
		{name: "slice", value: []string{".pdf", " .md "}, want: []string{".pdf", ".md"}},
		{name: "comma string", value: ".pdf, .xlsx,,", want: []string{".pdf", ".xlsx"}},
		{name: "interface slice", value: []interface{}{".pdf", ".html"}, want: []string{".pdf", ".html"}},
		{name: "nil", value: nil, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitList(tt.value))
		})
	}
}

func TestIsVersionArg(t *testing.T) {
	assert.True(t, IsVersionArg("--version"))
	assert.True(t, IsVersionArg("-v"))
	assert.False(t, IsVersionArg("--verbose"))
}
