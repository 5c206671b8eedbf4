package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFilePathEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigDir, "/custom/cfg")
	assert.Equal(t, "/custom/cfg/config.json", ConfigFilePath())
}

func TestDefaultStoreRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	assert.Equal(t, filepath.Join(home, "thoughts"), DefaultStoreRoot())
}

func TestOverlayDir(t *testing.T) {
	assert.Equal(t, "/home/alice/proj/thoughts", OverlayDir("/home/alice/proj"))
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "notes"), ExpandHome("~/notes"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~other/notes", ExpandHome("~other/notes"))
	assert.Equal(t, "", ExpandHome(""))
}

func TestNormalizePathResolvesSymlinkedAncestors(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "real")
	require.NoError(t, os.MkdirAll(real, 0755))
	alias := filepath.Join(base, "alias")
	require.NoError(t, os.Symlink(real, alias))

	viaAlias, err := NormalizePath(alias)
	require.NoError(t, err)
	viaReal, err := NormalizePath(real)
	require.NoError(t, err)
	assert.Equal(t, viaReal, viaAlias)
}

func TestNormalizePathEmpty(t *testing.T) {
	_, err := NormalizePath("")
	assert.Error(t, err)
}

func TestIsFilesystemSafe(t *testing.T) {
	assert.True(t, IsFilesystemSafe("notes"))
	assert.True(t, IsFilesystemSafe("my-notes_2"))
	assert.False(t, IsFilesystemSafe(""))
	assert.False(t, IsFilesystemSafe("."))
	assert.False(t, IsFilesystemSafe(".."))
	assert.False(t, IsFilesystemSafe("a/b"))
	assert.False(t, IsFilesystemSafe(`a\b`))
}
