package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", DefaultDBName), cfg.DBPath)
	assert.Equal(t, "q", cfg.Keys.Quit)
	assert.Equal(t, DefaultRefresh, cfg.Refresh())

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreate_RelativePathsAndMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	data := `
db_path = "lists.db"
refresh_interval = "5s"

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lists.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, DefaultLogName), cfg.LogPath)
	assert.Equal(t, 5*time.Second, cfg.Refresh())
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "A", cfg.Keys.AddList)
}

func TestLoadOrCreate_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("db_path = ["), 0o644))
	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	assert.Equal(t, DefaultRefresh, Config{RefreshInterval: "soon"}.Refresh())
	assert.Equal(t, DefaultRefresh, Config{RefreshInterval: "-1s"}.Refresh())
	assert.Equal(t, time.Duration(0), Config{RefreshInterval: "0"}.Refresh())
}

func TestResolveConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName, DefaultConfigFileName), ResolveConfigPath())
}
