// Package config implements the persisted thoughts configuration: global
// defaults, named profiles, and per-repo mappings. The on-disk form is a
// JSON object under a top-level "thoughts" key, kept backward-readable
// (unknown fields ignored, missing fields defaulted).
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/paths"
)

// Profile is an alternate set of store-location settings layered over the
// global defaults. Empty fields inherit the global value.
type Profile struct {
	ThoughtsRepo string `json:"thoughtsRepo"`
	ReposDir     string `json:"reposDir"`
	GlobalDir    string `json:"globalDir"`
}

// RepoMapping associates a working directory with its slug in the store and,
// optionally, the profile it was initialized with. The JSON form is either a
// plain string (no profile) or {"repo": ..., "profile": ...}, matching the
// historical format.
type RepoMapping struct {
	Repo    string
	Profile string
}

type repoMappingObject struct {
	Repo    string `json:"repo"`
	Profile string `json:"profile,omitempty"`
}

// UnmarshalJSON accepts both the string and object forms.
func (m *RepoMapping) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.Repo = s
		m.Profile = ""
		return nil
	}
	var obj repoMappingObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	m.Repo = obj.Repo
	m.Profile = obj.Profile
	return nil
}

// MarshalJSON writes the compact string form when no profile is recorded.
func (m RepoMapping) MarshalJSON() ([]byte, error) {
	if m.Profile == "" {
		return json.Marshal(m.Repo)
	}
	return json.Marshal(repoMappingObject{Repo: m.Repo, Profile: m.Profile})
}

// Config is the process-wide thoughts configuration.
type Config struct {
	ThoughtsRepo string                 `json:"thoughtsRepo"`
	ReposDir     string                 `json:"reposDir"`
	GlobalDir    string                 `json:"globalDir"`
	User         string                 `json:"user"`
	RepoMappings map[string]RepoMapping `json:"repoMappings,omitempty"`
	Profiles     map[string]Profile     `json:"profiles,omitempty"`
}

// EffectiveConfig is the store location settings that apply to one
// operation after profile resolution.
type EffectiveConfig struct {
	ThoughtsRepo string
	ReposDir     string
	GlobalDir    string
	User         string
	ProfileName  string
	MappedName   string
}

// configFile is the top-level shape of the persisted file. Sibling keys
// belonging to other tools are preserved on save.
type configFile struct {
	Thoughts *Config `json:"thoughts,omitempty"`
}

// Default returns a configuration with every field at its default value.
func Default() *Config {
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	return &Config{
		ThoughtsRepo: paths.DefaultStoreRoot(),
		ReposDir:     paths.DefaultReposDir,
		GlobalDir:    paths.DefaultGlobalDir,
		User:         user,
		RepoMappings: make(map[string]RepoMapping),
		Profiles:     make(map[string]Profile),
	}
}

// applyDefaults fills any missing field so older files keep loading.
func (c *Config) applyDefaults() {
	def := Default()
	if c.ThoughtsRepo == "" {
		c.ThoughtsRepo = def.ThoughtsRepo
	}
	if c.ReposDir == "" {
		c.ReposDir = def.ReposDir
	}
	if c.GlobalDir == "" {
		c.GlobalDir = def.GlobalDir
	}
	if c.User == "" {
		c.User = def.User
	}
	if c.RepoMappings == nil {
		c.RepoMappings = make(map[string]RepoMapping)
	}
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
}

// ValidateUser checks the user identity invariant: non-empty,
// filesystem-safe, and not the reserved name "global".
func (c *Config) ValidateUser() error {
	if c.User == "" {
		return errors.New(errors.ErrInvalidInput, "user must not be empty")
	}
	if !paths.IsFilesystemSafe(c.User) {
		return errors.Newf(errors.ErrInvalidInput, "user %q is not filesystem-safe", c.User)
	}
	if strings.EqualFold(c.User, paths.GlobalLinkName) {
		return errors.Newf(errors.ErrInvalidInput,
			"user cannot be %q, it is reserved for cross-project thoughts", c.User)
	}
	return nil
}

// ResolveProfile merges the named profile's overrides onto the global
// defaults field-by-field. An empty name resolves to the global settings.
func (c *Config) ResolveProfile(name string) (EffectiveConfig, error) {
	eff := EffectiveConfig{
		ThoughtsRepo: c.ThoughtsRepo,
		ReposDir:     c.ReposDir,
		GlobalDir:    c.GlobalDir,
		User:         c.User,
	}
	if name == "" {
		return eff, nil
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return EffectiveConfig{}, errors.Newf(errors.ErrProfileNotFound, "profile %q does not exist", name)
	}

	eff.ProfileName = name
	if profile.ThoughtsRepo != "" {
		eff.ThoughtsRepo = profile.ThoughtsRepo
	}
	if profile.ReposDir != "" {
		eff.ReposDir = profile.ReposDir
	}
	if profile.GlobalDir != "" {
		eff.GlobalDir = profile.GlobalDir
	}
	return eff, nil
}

// EffectiveConfigFor resolves the settings for a working directory, honoring
// the profile recorded in its mapping when that profile still exists.
func (c *Config) EffectiveConfigFor(workingDir string) EffectiveConfig {
	mapping, mapped := c.RepoMappings[workingDir]

	profileName := ""
	if mapped && mapping.Profile != "" {
		if _, ok := c.Profiles[mapping.Profile]; ok {
			profileName = mapping.Profile
		}
	}

	// Profile came from the mapping, so it is known to exist.
	eff, _ := c.ResolveProfile(profileName)
	if mapped {
		eff.MappedName = mapping.Repo
	}
	return eff
}

// FindOrphanedMappings returns mapping keys whose working directories no
// longer exist on disk.
func (c *Config) FindOrphanedMappings() []string {
	var orphaned []string
	for path := range c.RepoMappings {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			orphaned = append(orphaned, path)
		}
	}
	return orphaned
}

// RemoveMappings deletes the given mapping keys.
func (c *Config) RemoveMappings(keys []string) {
	for _, key := range keys {
		delete(c.RepoMappings, key)
	}
}

// SlugInUseBy returns the working directory currently mapped to the given
// slug, or "" if the slug is unclaimed.
func (c *Config) SlugInUseBy(slug string) string {
	for dir, mapping := range c.RepoMappings {
		if mapping.Repo == slug {
			return dir
		}
	}
	return ""
}
