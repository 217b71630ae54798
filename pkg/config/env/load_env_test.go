package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MICROBENCH_TEST_KEY=from-file\n"), 0o644))

	t.Run("default path", func(t *testing.T) {
		t.Setenv("ENV_PATH", "")
		t.Setenv("MICROBENCH_TEST_KEY", "")
		require.NoError(t, os.Unsetenv("MICROBENCH_TEST_KEY"))

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "from-file", os.Getenv("MICROBENCH_TEST_KEY"))
	})

	t.Run("does not override", func(t *testing.T) {
		t.Setenv("ENV_PATH", path)
		t.Setenv("MICROBENCH_TEST_KEY", "from-env")

		require.NoError(t, LoadDotEnv("unused"))
		assert.Equal(t, "from-env", os.Getenv("MICROBENCH_TEST_KEY"))
	})

	t.Run("missing default is skipped", func(t *testing.T) {
		t.Setenv("ENV_PATH", "")
		assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
	})

	t.Run("missing explicit path fails", func(t *testing.T) {
		t.Setenv("ENV_PATH", filepath.Join(dir, "missing.env"))
		assert.Error(t, LoadDotEnv(path))
	})
}
