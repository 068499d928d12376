package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultStorageRoot(home), cfg.StorageRoot)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.NotEmpty(t, cfg.Node)
	assert.False(t, cfg.ProjectSharing)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := Dir(home)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	content := `
[storage]
root = "~/cluster/sessions"
backend = "shared"
node = "node-7"

[sessions]
project_sharing = true

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "cluster", "sessions"), cfg.StorageRoot)
	assert.Equal(t, BackendShared, cfg.Backend)
	assert.Equal(t, "node-7", cfg.Node)
	assert.True(t, cfg.ProjectSharing)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "config.toml"), cfg.ConfigFile)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := Dir(home)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[storage]\nbackend = \"local\"\n"), 0o600))

	root := filepath.Join(t.TempDir(), "env-root")
	t.Setenv("RSESSIONS_STORAGE_BACKEND", "shared")
	t.Setenv("RSESSIONS_STORAGE_ROOT", root)

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, BackendShared, cfg.Backend)
	assert.Equal(t, root, cfg.StorageRoot)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	v := viper.New()
	v.Set(KeyStorageRoot, "relative/root")
	v.Set(KeyStorageBackend, "SHARED")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.StorageRoot))
	assert.Equal(t, "root", filepath.Base(cfg.StorageRoot))
	assert.Equal(t, BackendShared, cfg.Backend)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	v := viper.New()
	v.Set(KeyStorageBackend, "nfs4")
	_, err := Load(v)
	require.ErrorIs(t, err, ErrUnknownBackend)

	v = viper.New()
	v.Set(KeyLogLevel, "chatty")
	_, err = Load(v)
	require.Error(t, err)

	v = viper.New()
	v.Set(KeyStorageRoot, "  ")
	_, err = Load(v)
	require.Error(t, err)
}

func TestLoadRejectsMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := Dir(home)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[storage\nroot = "), 0o600))

	_, err := Load(viper.New())
	require.Error(t, err)
}
