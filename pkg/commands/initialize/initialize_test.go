package initialize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/testutil"
)

func TestInitializeCreatesOverlayAndStoreLayout(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	result, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)
	assert.Equal(t, "proj", result.Slug)
	assert.Equal(t, 3, result.Reconcile.SymlinksCreated)

	// Store layout: per-repo user and shared dirs plus the global dir.
	assert.DirExists(t, filepath.Join(env.StoreRoot, "repos", "proj", "testuser"))
	assert.DirExists(t, filepath.Join(env.StoreRoot, "repos", "proj", "shared"))
	assert.DirExists(t, filepath.Join(env.StoreRoot, "global"))

	// Overlay symlinks resolve into the store.
	target, err := os.Readlink(filepath.Join(workDir, "thoughts", "user"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.StoreRoot, "repos", "proj", "testuser"), target)
	assert.DirExists(t, filepath.Join(workDir, "thoughts", "searchable"))

	// Mapping persisted.
	cfg := env.LoadConfig()
	assert.Equal(t, "proj", cfg.RepoMappings[workDir].Repo)
}

func TestInitializeTwiceIsNoOp(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	first, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)

	second, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)
	assert.Equal(t, first.Slug, second.Slug)
	assert.Equal(t, 0, second.Reconcile.SymlinksCreated)
	assert.Equal(t, 3, second.Reconcile.SymlinksKept)
}

func TestInitializeWithExplicitDirectory(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	result, err := Initialize(Options{
		WorkingDir: workDir,
		Directory:  "My Notes",
		ConfigPath: env.ConfigPath,
		Git:        &testutil.StubGit{Repo: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "my-notes", result.Slug)
	assert.DirExists(t, filepath.Join(env.StoreRoot, "repos", "my-notes", "testuser"))
}

func TestInitializeRebindWithoutForceFails(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	_, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)

	_, err = Initialize(Options{
		WorkingDir: workDir,
		Directory:  "other-name",
		ConfigPath: env.ConfigPath,
		Git:        &testutil.StubGit{Repo: true},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyInitialized))

	// The original binding is untouched.
	cfg := env.LoadConfig()
	assert.Equal(t, "proj", cfg.RepoMappings[workDir].Repo)
}

func TestInitializeForceRebinds(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	_, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)

	result, err := Initialize(Options{
		WorkingDir: workDir,
		Directory:  "other-name",
		Force:      true,
		ConfigPath: env.ConfigPath,
		Git:        &testutil.StubGit{Repo: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "other-name", result.Slug)

	target, err := os.Readlink(filepath.Join(workDir, "thoughts", "user"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.StoreRoot, "repos", "other-name", "testuser"), target)
}

func TestInitializeBasenameCollisionGetsDistinctSlugs(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	first := env.NewWorkingDirAt("a", "proj")
	second := env.NewWorkingDirAt("b", "proj")

	res1, err := Initialize(Options{WorkingDir: first, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)
	res2, err := Initialize(Options{WorkingDir: second, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)

	assert.Equal(t, "proj", res1.Slug)
	assert.NotEqual(t, res1.Slug, res2.Slug)
	assert.DirExists(t, filepath.Join(env.StoreRoot, "repos", res2.Slug, "testuser"))
}

func TestInitializeWithProfile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := env.NewConfig()
	workStore := filepath.Join(env.HomeDir, "work-store")
	cfg.Profiles["work"] = config.Profile{ThoughtsRepo: workStore}
	env.SaveConfig(cfg)
	workDir := env.NewWorkingDir("proj")

	result, err := Initialize(Options{
		WorkingDir: workDir,
		Profile:    "work",
		ConfigPath: env.ConfigPath,
		Git:        &testutil.StubGit{Repo: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "work", result.Effective.ProfileName)
	assert.DirExists(t, filepath.Join(workStore, "repos", "proj", "testuser"))

	loaded := env.LoadConfig()
	assert.Equal(t, "work", loaded.RepoMappings[workDir].Profile)
}

func TestInitializeUnknownProfileFails(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	_, err := Initialize(Options{
		WorkingDir: workDir,
		Profile:    "nope",
		ConfigPath: env.ConfigPath,
		Git:        &testutil.StubGit{Repo: true},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestInitializeInvalidUserFails(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := env.NewConfig()
	cfg.User = "global"
	env.SaveConfig(cfg)
	workDir := env.NewWorkingDir("proj")

	_, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestInitializeReportsAndPrunesOrphans(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := env.NewConfig()
	cfg.RepoMappings["/nonexistent/gone"] = config.RepoMapping{Repo: "gone"}
	env.SaveConfig(cfg)
	workDir := env.NewWorkingDir("proj")

	result, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/nonexistent/gone"}, result.Orphaned)
	assert.False(t, result.Pruned)
	assert.Contains(t, env.LoadConfig().RepoMappings, "/nonexistent/gone")

	result, err = Initialize(Options{WorkingDir: workDir, Prune: true, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)
	assert.True(t, result.Pruned)
	assert.NotContains(t, env.LoadConfig().RepoMappings, "/nonexistent/gone")
}

func TestInitializeWithoutConfigFileUsesDefaults(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	workDir := env.NewWorkingDir("proj")

	result, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: &testutil.StubGit{Repo: true}})
	require.NoError(t, err)

	// $HOME is redirected, so the default store lands under the test home.
	defaultStore := filepath.Join(env.HomeDir, "thoughts")
	assert.Equal(t, defaultStore, result.Effective.ThoughtsRepo)
	assert.DirExists(t, filepath.Join(defaultStore, "repos", "proj"))
	assert.FileExists(t, env.ConfigPath)
}

func TestInitializeBootstrapsStoreGit(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	stub := &testutil.StubGit{Dirty: true}
	result, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: stub})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, []string{"init", "add", "commit:Initialize thoughts repository"}, stub.Calls)
	assert.FileExists(t, filepath.Join(env.StoreRoot, ".gitignore"))
}

func TestInitializeSkipsBootstrapForExistingRepo(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())
	workDir := env.NewWorkingDir("proj")

	stub := &testutil.StubGit{Repo: true}
	_, err := Initialize(Options{WorkingDir: workDir, ConfigPath: env.ConfigPath, Git: stub})
	require.NoError(t, err)
	assert.Empty(t, stub.Calls)
}
