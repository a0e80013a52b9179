package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-spec-scanner/internal/config"
	"github.com/a3tai/pdf-spec-scanner/internal/report"
)

const blackTeaSheet = `## Organic Black Tea
Botanical name: Camellia sinensis
Typical country of origin: India
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.Extensions = []string{".md", ".pdf"}
	require.NoError(t, cfg.Validate())
	return cfg
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_SingleDocument(t *testing.T) {
	cfg := testConfig(t)
	path := writeDoc(t, cfg.Directory, "black_tea.md", blackTeaSheet)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), cfg, path, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), report.EchoStart)
	assert.Contains(t, stdout.String(), `"Code": "IN"`)
	assert.Contains(t, stdout.String(), report.EchoEnd)
	assert.Contains(t, stderr.String(), "run complete")

	generated, err := filepath.Glob(filepath.Join(cfg.Directory, "*"+report.JSONSuffix))
	require.NoError(t, err)
	assert.Len(t, generated, 1)
}

func TestRun_DirectoryWithFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers = 2
	writeDoc(t, cfg.Directory, "black_tea.md", blackTeaSheet)
	writeDoc(t, cfg.Directory, "broken.pdf", "not a pdf")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), cfg, cfg.Directory, &stdout, &stderr)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "broken.pdf")
	assert.Contains(t, stderr.String(), "failed=1")
	assert.Contains(t, stdout.String(), report.EchoStart)
}

func TestRun_EchoDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Echo = false
	path := writeDoc(t, cfg.Directory, "black_tea.md", blackTeaSheet)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run(context.Background(), cfg, path, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRun_MissingTarget(t *testing.T) {
	cfg := testConfig(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), cfg, filepath.Join(cfg.Directory, "missing.pdf"), &stdout, &stderr)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "run failed")
}

func TestRun_Interrupted(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg.Directory, "black_tea.md", blackTeaSheet)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitFailure, run(ctx, cfg, cfg.Directory, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "run interrupted")
}

func TestRun_InvalidBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = "ocr"

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitFailure, run(context.Background(), cfg, cfg.Directory, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "failed to create scanner")
}

func TestNewLogger_Level(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	logger := newLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()
	version, buildTime, gitCommit = "1.2.3", "2024-03-07_09:05:00", "abc123"

	var buf bytes.Buffer
	printVersion(&buf)

	for _, want := range []string{
		"PDF Spec Scanner",
		"Version: 1.2.3",
		"Build Time: 2024-03-07_09:05:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		assert.Contains(t, buf.String(), want)
	}
}
