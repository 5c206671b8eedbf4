package uninit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/thoughts/pkg/commands/initialize"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/testutil"
)

func TestUninitRemovesOverlayKeepsStore(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")
	storeFile := env.WriteStoreFile("repos/proj/testuser/todo.md", "todo")

	_, err := initialize.Initialize(initialize.Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)

	result, err := Uninit(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath})
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "shared", "global", "searchable"}, result.RemovedEntries)
	assert.True(t, result.MappingRemoved)
	assert.Equal(t, "proj", result.Slug)
	assert.Equal(t, env.StoreRoot, result.StoreRepo)

	// Overlay is gone entirely.
	_, err = os.Lstat(filepath.Join(workDir, "thoughts"))
	assert.True(t, os.IsNotExist(err))

	// Store content survives untouched.
	content, err := os.ReadFile(storeFile)
	require.NoError(t, err)
	assert.Equal(t, "todo", string(content))

	// Mapping dropped from the persisted config.
	assert.NotContains(t, env.LoadConfig().RepoMappings, workDir)
}

func TestUninitKeepsForeignFilesInOverlayDir(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	_, err := initialize.Initialize(initialize.Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)

	foreign := filepath.Join(workDir, "thoughts", "stray.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("stray"), 0644))

	_, err = Uninit(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath})
	require.NoError(t, err)

	// thoughts/ stays because it is not empty.
	assert.FileExists(t, foreign)
}

func TestUninitNotInitialized(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	_, err := Uninit(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotInitialized))
}

func TestUninitForceIsNoOpWhenNotInitialized(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	result, err := Uninit(Options{WorkingDir: workDir, Force: true, ConfigPath: env.ConfigPath})
	require.NoError(t, err)
	assert.Empty(t, result.RemovedEntries)
	assert.False(t, result.MappingRemoved)
}

func TestUninitThenInitAgain(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")
	env.WriteStoreFile("repos/proj/testuser/todo.md", "todo")

	_, err := initialize.Initialize(initialize.Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)
	_, err = Uninit(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath})
	require.NoError(t, err)

	result, err := initialize.Initialize(initialize.Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)
	assert.Equal(t, "proj", result.Slug)

	content, err := os.ReadFile(filepath.Join(workDir, "thoughts", "user", "todo.md"))
	require.NoError(t, err)
	assert.Equal(t, "todo", string(content))
}
