package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/thoughts/pkg/errors"
)

func TestRepoMappingJSONStringForm(t *testing.T) {
	var m RepoMapping
	require.NoError(t, json.Unmarshal([]byte(`"myproject"`), &m))
	assert.Equal(t, "myproject", m.Repo)
	assert.Empty(t, m.Profile)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `"myproject"`, string(out))
}

func TestRepoMappingJSONObjectForm(t *testing.T) {
	var m RepoMapping
	require.NoError(t, json.Unmarshal([]byte(`{"repo":"myproject","profile":"work"}`), &m))
	assert.Equal(t, "myproject", m.Repo)
	assert.Equal(t, "work", m.Profile)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"repo":"myproject","profile":"work"}`, string(out))
}

func TestResolveProfileMergesFieldByField(t *testing.T) {
	cfg := Default()
	cfg.ThoughtsRepo = "/store"
	cfg.ReposDir = "repos"
	cfg.GlobalDir = "global"
	cfg.User = "alice"
	cfg.Profiles["work"] = Profile{ThoughtsRepo: "/work-store"}

	eff, err := cfg.ResolveProfile("work")
	require.NoError(t, err)

	// Profile field wins where set, global value where not.
	assert.Equal(t, "/work-store", eff.ThoughtsRepo)
	assert.Equal(t, "repos", eff.ReposDir)
	assert.Equal(t, "global", eff.GlobalDir)
	assert.Equal(t, "alice", eff.User)
	assert.Equal(t, "work", eff.ProfileName)
}

func TestResolveProfileNotFound(t *testing.T) {
	cfg := Default()
	_, err := cfg.ResolveProfile("nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestResolveProfileEmptyNameIsGlobal(t *testing.T) {
	cfg := Default()
	cfg.ThoughtsRepo = "/store"

	eff, err := cfg.ResolveProfile("")
	require.NoError(t, err)
	assert.Equal(t, "/store", eff.ThoughtsRepo)
	assert.Empty(t, eff.ProfileName)
}

func TestEffectiveConfigForHonorsMappingProfile(t *testing.T) {
	cfg := Default()
	cfg.ThoughtsRepo = "/store"
	cfg.Profiles["work"] = Profile{ThoughtsRepo: "/work-store"}
	cfg.RepoMappings["/home/alice/proj"] = RepoMapping{Repo: "proj", Profile: "work"}

	eff := cfg.EffectiveConfigFor("/home/alice/proj")
	assert.Equal(t, "proj", eff.MappedName)
	assert.Equal(t, "work", eff.ProfileName)
	assert.Equal(t, "/work-store", eff.ThoughtsRepo)
}

func TestEffectiveConfigForIgnoresDeletedProfile(t *testing.T) {
	cfg := Default()
	cfg.ThoughtsRepo = "/store"
	cfg.RepoMappings["/home/alice/proj"] = RepoMapping{Repo: "proj", Profile: "gone"}

	eff := cfg.EffectiveConfigFor("/home/alice/proj")
	assert.Equal(t, "proj", eff.MappedName)
	assert.Empty(t, eff.ProfileName)
	assert.Equal(t, "/store", eff.ThoughtsRepo)
}

func TestValidateUser(t *testing.T) {
	cfg := Default()

	cfg.User = "alice"
	assert.NoError(t, cfg.ValidateUser())

	cfg.User = ""
	assert.Error(t, cfg.ValidateUser())

	cfg.User = "a/b"
	assert.Error(t, cfg.ValidateUser())

	cfg.User = "global"
	assert.Error(t, cfg.ValidateUser())

	cfg.User = "Global"
	assert.Error(t, cfg.ValidateUser())
}

func TestSlugInUseBy(t *testing.T) {
	cfg := Default()
	cfg.RepoMappings["/home/alice/proj"] = RepoMapping{Repo: "proj"}

	assert.Equal(t, "/home/alice/proj", cfg.SlugInUseBy("proj"))
	assert.Empty(t, cfg.SlugInUseBy("other"))
}
