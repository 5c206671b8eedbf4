// Package profile manages named profiles: alternate store-location settings
// layered over the global defaults.
package profile

import (
	"sort"

	goslug "github.com/gosimple/slug"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/logging"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// Options is shared by all profile subcommands.
type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string

	// FS defaults to the OS filesystem.
	FS types.FS
}

// CreateOptions configures profile creation. Unset fields inherit the
// global value at resolution time.
type CreateOptions struct {
	Options
	ThoughtsRepo string
	ReposDir     string
	GlobalDir    string
}

// Info pairs a profile with its name for listing.
type Info struct {
	Name    string
	Profile config.Profile

	// InUseBy lists working directories whose mappings reference this
	// profile.
	InUseBy []string
}

// Create adds a new named profile and returns the name it was stored under.
// Names are slugified like repo names, so "My Profile" becomes "my-profile";
// callers should tell the user when the stored name differs from the input.
func Create(name string, opts CreateOptions) (string, error) {
	logger := logging.GetLogger("commands.profile")

	name = goslug.Make(name)
	if name == "" {
		return "", errors.New(errors.ErrInvalidInput, "profile name is empty after sanitization")
	}

	cfgStore := config.NewStore(opts.ConfigPath, opts.FS)
	cfg, err := cfgStore.Load()
	if err != nil {
		return "", err
	}

	if _, exists := cfg.Profiles[name]; exists {
		return "", errors.Newf(errors.ErrProfileExists, "profile %q already exists", name)
	}

	cfg.Profiles[name] = config.Profile{
		ThoughtsRepo: opts.ThoughtsRepo,
		ReposDir:     opts.ReposDir,
		GlobalDir:    opts.GlobalDir,
	}
	if err := cfgStore.Save(cfg); err != nil {
		return "", err
	}

	logger.Info().Str("profile", name).Msg("Profile created")
	return name, nil
}

// List returns all profiles sorted by name.
func List(opts Options) ([]Info, error) {
	cfgStore := config.NewStore(opts.ConfigPath, opts.FS)
	cfg, err := cfgStore.Load()
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(cfg.Profiles))
	for name, p := range cfg.Profiles {
		infos = append(infos, Info{Name: name, Profile: p, InUseBy: usedBy(cfg, name)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Show returns one profile with its effective (merged) settings.
func Show(name string, opts Options) (Info, config.EffectiveConfig, error) {
	cfgStore := config.NewStore(opts.ConfigPath, opts.FS)
	cfg, err := cfgStore.Load()
	if err != nil {
		return Info{}, config.EffectiveConfig{}, err
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		return Info{}, config.EffectiveConfig{},
			errors.Newf(errors.ErrProfileNotFound, "profile %q does not exist", name)
	}

	eff, err := cfg.ResolveProfile(name)
	if err != nil {
		return Info{}, config.EffectiveConfig{}, err
	}
	return Info{Name: name, Profile: p, InUseBy: usedBy(cfg, name)}, eff, nil
}

// Delete removes a profile. Mappings still referencing the profile block
// deletion unless force is set; affected mappings then fall back to the
// global settings.
func Delete(name string, force bool, opts Options) error {
	logger := logging.GetLogger("commands.profile")

	cfgStore := config.NewStore(opts.ConfigPath, opts.FS)
	cfg, err := cfgStore.Load()
	if err != nil {
		return err
	}

	if _, ok := cfg.Profiles[name]; !ok {
		return errors.Newf(errors.ErrProfileNotFound, "profile %q does not exist", name)
	}

	if users := usedBy(cfg, name); len(users) > 0 && !force {
		return errors.Newf(errors.ErrInvalidInput,
			"profile %q is still used by %d mapped repo(s) (use force to delete anyway)",
			name, len(users))
	}

	delete(cfg.Profiles, name)
	if err := cfgStore.Save(cfg); err != nil {
		return err
	}

	logger.Info().Str("profile", name).Msg("Profile deleted")
	return nil
}

func usedBy(cfg *config.Config, name string) []string {
	var dirs []string
	for dir, mapping := range cfg.RepoMappings {
		if mapping.Profile == name {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}
