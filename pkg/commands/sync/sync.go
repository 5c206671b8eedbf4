// Package sync commits and pushes the central store after reconciling the
// local overlay, so uncommitted overlay drift does not silently diverge
// from disk before the commit is taken.
package sync

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

// Options configures the sync operation.
type Options struct {
	// WorkingDir defaults to the cwd.
	WorkingDir string

	// Message is the commit message; empty picks a timestamped default.
	Message string

	// ConfigPath overrides the config file location.
	ConfigPath string

	// FS defaults to the OS filesystem.
	FS types.FS

	// Git overrides the VCS collaborator; nil uses the git binary against
	// the store root.
	Git git.Client
}

// Result reports what sync did.
type Result struct {
	Slug      string
	Reconcile *reconcile.Result

	// Warnings aggregates non-fatal conditions: plan warnings, per-file
	// mirror errors, and pull/push failures.
	Warnings []string
}

// Sync reconciles the overlay, then delegates commit-and-push of the store
// root to the VCS collaborator.
func Sync(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.sync")

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
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			return nil, errors.New(errors.ErrNotInitialized,
				"no thoughts configuration found, run 'thoughts init' first")
		}
		return nil, err
	}

	eff := cfg.EffectiveConfigFor(workingDir)
	if eff.MappedName == "" {
		return nil, errors.Newf(errors.ErrNotInitialized,
			"thoughts not initialized for %s, run 'thoughts init' first", workingDir)
	}

	if err := store.CheckRoot(fsys, eff); err != nil {
		return nil, err
	}

	plan, err := overlay.Compute(eff.MappedName, eff, workingDir, fsys)
	if err != nil {
		return nil, err
	}

	result := &Result{Slug: eff.MappedName}
	result.Warnings = append(result.Warnings, plan.Warnings...)

	recResult, err := reconcile.New(fsys, false).Apply(plan)
	result.Reconcile = recResult
	if err != nil {
		return result, err
	}
	result.Warnings = append(result.Warnings, recResult.FileErrors...)

	client := opts.Git
	if client == nil {
		client = git.New(store.Root(eff))
	}
	gitWarnings, err := client.CommitAndPush(opts.Message)
	result.Warnings = append(result.Warnings, gitWarnings...)
	if err != nil {
		return result, err
	}

	logger.Info().
		Str("slug", result.Slug).
		Int("warnings", len(result.Warnings)).
		Msg("Thoughts synchronized")
	return result, nil
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
