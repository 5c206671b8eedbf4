// Package testutil provides isolated filesystem environments for tests:
// a real temp-dir store, working directories, and a private config file,
// so every test runs against genuine symlink and hard-link behavior.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/filesystem"
	"github.com/arthur-debert/thoughts/pkg/paths"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// TestEnvironment is a complete isolated setup for one test.
type TestEnvironment struct {
	// StoreRoot is the central store directory.
	StoreRoot string

	// ConfigPath is a private config file; pass it as ConfigPath in
	// command options so tests never touch the user's real config.
	ConfigPath string

	// HomeDir backs $HOME for the duration of the test.
	HomeDir string

	// FS is the OS filesystem.
	FS types.FS

	t       *testing.T
	workDir string
}

// NewTestEnvironment creates temp directories and redirects $HOME and $USER.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tempDir := t.TempDir()
	env := &TestEnvironment{
		StoreRoot:  filepath.Join(tempDir, "store"),
		ConfigPath: filepath.Join(tempDir, "config", "config.json"),
		HomeDir:    filepath.Join(tempDir, "home"),
		FS:         filesystem.NewOS(),
		t:          t,
		workDir:    filepath.Join(tempDir, "work"),
	}

	require.NoError(t, os.MkdirAll(env.StoreRoot, 0755))
	require.NoError(t, os.MkdirAll(env.HomeDir, 0755))
	require.NoError(t, os.MkdirAll(env.workDir, 0755))

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("USER", "testuser")

	return env
}

// NewConfig returns a config pointing at the environment's store, with the
// test user.
func (env *TestEnvironment) NewConfig() *config.Config {
	cfg := config.Default()
	cfg.ThoughtsRepo = env.StoreRoot
	cfg.User = "testuser"
	return cfg
}

// SaveConfig persists cfg to the environment's config file.
func (env *TestEnvironment) SaveConfig(cfg *config.Config) {
	env.t.Helper()
	store := config.NewStore(env.ConfigPath, env.FS)
	require.NoError(env.t, store.Save(cfg))
}

// LoadConfig reads the environment's config file back.
func (env *TestEnvironment) LoadConfig() *config.Config {
	env.t.Helper()
	store := config.NewStore(env.ConfigPath, env.FS)
	cfg, err := store.Load()
	require.NoError(env.t, err)
	return cfg
}

// NewWorkingDir creates a working directory with the given basename and
// returns its canonical path.
func (env *TestEnvironment) NewWorkingDir(name string) string {
	env.t.Helper()
	dir := filepath.Join(env.workDir, name)
	require.NoError(env.t, os.MkdirAll(dir, 0755))
	canonical, err := paths.NormalizePath(dir)
	require.NoError(env.t, err)
	return canonical
}

// NewWorkingDirAt creates a working directory under an extra subpath, for
// basename-collision scenarios.
func (env *TestEnvironment) NewWorkingDirAt(parent, name string) string {
	env.t.Helper()
	dir := filepath.Join(env.workDir, parent, name)
	require.NoError(env.t, os.MkdirAll(dir, 0755))
	canonical, err := paths.NormalizePath(dir)
	require.NoError(env.t, err)
	return canonical
}

// WriteStoreFile writes content at rel under the store root, creating
// parents.
func (env *TestEnvironment) WriteStoreFile(rel, content string) string {
	env.t.Helper()
	path := filepath.Join(env.StoreRoot, rel)
	require.NoError(env.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(env.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReplaceStoreFile deletes and recreates a store file so it gets a new
// inode, simulating replace-then-rename editors.
func (env *TestEnvironment) ReplaceStoreFile(rel, content string) string {
	env.t.Helper()
	path := filepath.Join(env.StoreRoot, rel)
	require.NoError(env.t, os.Remove(path))
	require.NoError(env.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// SameFile reports whether two paths name the same inode.
func (env *TestEnvironment) SameFile(a, b string) bool {
	env.t.Helper()
	ai, err := os.Lstat(a)
	require.NoError(env.t, err)
	bi, err := os.Lstat(b)
	require.NoError(env.t, err)
	return os.SameFile(ai, bi)
}
