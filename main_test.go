package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLogsStartupFailure(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	logFile := filepath.Join(dir, "logs", "server.log")
	cfg := "database:\n  driver: sqlite\n  path: " + filepath.Join(blocker, "db", "invoice.db") + "\n" +
		"log:\n  file: " + logFile + "\n" +
		"backup:\n  dir: " + filepath.Join(dir, "backups") + "\n"
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	err := run(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init database")

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "init database")
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  driver: mysql\n"), 0o600))

	err := run(cfgPath)
	assert.ErrorContains(t, err, "load config")
}
