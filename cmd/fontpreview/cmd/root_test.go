package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fontpreview.toml")
	require.NoError(t, os.WriteFile(path, []byte("addr = \"127.0.0.1:9999\"\nlog_level = \"off\"\nopen_browser = false\n"), 0644))

	configFile = path
	t.Cleanup(func() { configFile = "" })

	require.NoError(t, loadConfig())
	assert.Equal(t, "127.0.0.1:9999", cfg.Addr)
	assert.False(t, cfg.OpenBrowser)
	assert.Equal(t, path, cfg.File)
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"preview", "history", "config"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	assert.NotNil(t, previewCmd.Flags().Lookup("families-file"))
	assert.NotNil(t, previewCmd.Flags().Lookup("watch"))
}

func TestPreviewRequiresChar(t *testing.T) {
	assert.Error(t, previewCmd.Args(previewCmd, nil))
	assert.NoError(t, previewCmd.Args(previewCmd, []string{"A", "Noto Sans"}))
}
