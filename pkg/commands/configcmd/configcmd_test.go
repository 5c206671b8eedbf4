package configcmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/testutil"
)

func TestShowMissingFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	result, err := Show(Options{ConfigPath: env.ConfigPath})
	require.NoError(t, err)
	assert.Equal(t, env.ConfigPath, result.Path)
	assert.False(t, result.Exists)
	assert.Nil(t, result.Config)
}

func TestShowLoadedConfig(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	cfg := env.NewConfig()
	cfg.RepoMappings["/nonexistent/gone"] = config.RepoMapping{Repo: "gone"}
	env.SaveConfig(cfg)

	result, err := Show(Options{ConfigPath: env.ConfigPath})
	require.NoError(t, err)
	assert.True(t, result.Exists)
	require.NotNil(t, result.Config)
	assert.Equal(t, "testuser", result.Config.User)
	assert.Equal(t, []string{"/nonexistent/gone"}, result.Orphaned)
}

func TestShowCorruptFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.ConfigPath), 0755))
	require.NoError(t, os.WriteFile(env.ConfigPath, []byte("{broken"), 0644))

	_, err := Show(Options{ConfigPath: env.ConfigPath})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigCorrupt))
}

func TestRawJSONPreservesSiblingKeys(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.SaveConfig(env.NewConfig())

	// Another tool's key alongside ours.
	data, err := os.ReadFile(env.ConfigPath)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["otherTool"] = json.RawMessage(`{"enabled":true}`)
	merged, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(env.ConfigPath, merged, 0644))

	out, err := RawJSON(Options{ConfigPath: env.ConfigPath})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"otherTool"`)
	assert.Contains(t, string(out), `"thoughts"`)
}

func TestRawJSONMissingFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	_, err := RawJSON(Options{ConfigPath: env.ConfigPath})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}
