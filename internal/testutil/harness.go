package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/jobforge/internal/ctxlog"
)

// Context returns a context carrying a logger that swallows everything, for
// exercising code paths that require ctxlog wiring.
func Context() context.Context {
	return ctxlog.Discard()
}

// WriteManifests materializes the given files under a fresh temp dir and
// returns its path. Keys are relative paths, values are file contents.
func WriteManifests(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	return tmpDir
}
