// Package status reports the overlay and store state for a working
// directory. Strictly read-only: it reuses the reconciler's comparison
// logic without performing any mutation.
package status

import (
	"os"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/filesystem"
	"github.com/arthur-debert/thoughts/pkg/git"
	"github.com/arthur-debert/thoughts/pkg/logging"
	"github.com/arthur-debert/thoughts/pkg/overlay"
	"github.com/arthur-debert/thoughts/pkg/paths"
	"github.com/arthur-debert/thoughts/pkg/reconcile"
	"github.com/arthur-debert/thoughts/pkg/store"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// Options configures the status query.
type Options struct {
	// WorkingDir defaults to the cwd.
	WorkingDir string

	// ConfigPath overrides the config file location.
	ConfigPath string

	// FS defaults to the OS filesystem.
	FS types.FS

	// Git overrides the VCS collaborator; nil uses the git binary against
	// the store root.
	Git git.Client
}

// StoreState is the store repository's VCS health.
type StoreState struct {
	Root       string
	Exists     bool
	IsRepo     bool
	LastCommit string
	HasRemote  bool
	Dirty      bool
}

// Result is everything status reports.
type Result struct {
	WorkingDir string
	ConfigPath string
	Mapped     bool
	Slug       string
	Effective  config.EffectiveConfig

	Entries []reconcile.EntryStatus
	Mirror  reconcile.MirrorStatus

	Store StoreState

	MappingCount int
}

// Status resolves the working directory's slug and effective config and
// checks each overlay entry against the plan.
func Status(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.status")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	workingDir, err := resolveWorkingDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	cfgStore := config.NewStore(opts.ConfigPath, fsys)
	cfg, err := cfgStore.Load()
	if err != nil {
		return nil, err
	}

	result := &Result{
		WorkingDir:   workingDir,
		ConfigPath:   cfgStore.Path(),
		MappingCount: len(cfg.RepoMappings),
	}

	eff := cfg.EffectiveConfigFor(workingDir)
	result.Effective = eff
	if eff.MappedName != "" {
		result.Mapped = true
		result.Slug = eff.MappedName

		plan, err := overlay.Compute(result.Slug, eff, workingDir, fsys)
		if err != nil {
			return nil, err
		}

		checker := reconcile.New(fsys, false)
		result.Entries = checker.CheckSymlinks(plan)
		result.Mirror, err = checker.CheckMirror(plan)
		if err != nil {
			return nil, err
		}
	}

	result.Store = storeState(opts.Git, fsys, eff)

	logger.Debug().
		Str("dir", workingDir).
		Bool("mapped", result.Mapped).
		Str("slug", result.Slug).
		Msg("Status collected")
	return result, nil
}

func storeState(client git.Client, fsys types.FS, eff config.EffectiveConfig) StoreState {
	state := StoreState{Root: store.Root(eff)}

	if _, err := fsys.Stat(state.Root); err != nil {
		return state
	}
	state.Exists = true

	if client == nil {
		client = git.New(state.Root)
	}
	if !client.IsRepo() {
		return state
	}
	state.IsRepo = true

	if commit, err := client.LastCommit(); err == nil {
		state.LastCommit = commit
	}
	state.HasRemote = client.HasRemote()
	if dirty, err := client.HasChanges(); err == nil {
		state.Dirty = dirty
	}
	return state
}

func resolveWorkingDir(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine current directory")
		}
		dir = cwd
	}
	return paths.NormalizePath(dir)
}
