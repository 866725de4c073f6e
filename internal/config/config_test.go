package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		"TFS_ENCODING", "TFS_WRITE_BOM", "TFS_AUTODETECT_BOM", "TFS_WORKER_COUNT",
		"TFS_LOG_LEVEL", "TFS_LANGUAGE", "TFS_CODEPAGE", "TFS_PREVIEW_LEN",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "utf16", cfg.Encoding)
	assert.True(t, cfg.WriteBOM)
	assert.True(t, cfg.AutodetectBOM)
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "e", cfg.Language)
	assert.Equal(t, "shift_jis", cfg.Codepage)
	assert.Equal(t, 40, cfg.PreviewLen)
}

func TestLoadEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TFS_ENCODING", "utf8")
	t.Setenv("TFS_WRITE_BOM", "false")
	t.Setenv("TFS_WORKER_COUNT", "4")
	t.Setenv("TFS_PREVIEW_LEN", "not a number")

	cfg := Load()
	assert.Equal(t, "utf8", cfg.Encoding)
	assert.False(t, cfg.WriteBOM)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 40, cfg.PreviewLen)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TFS_LANGUAGE=j\nTFS_AUTODETECT_BOM=0\n"), 0644))
	chdir(t, dir)
	for _, key := range []string{"TFS_LANGUAGE", "TFS_AUTODETECT_BOM"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()
	assert.Equal(t, "j", cfg.Language)
	assert.False(t, cfg.AutodetectBOM)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the previous one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
