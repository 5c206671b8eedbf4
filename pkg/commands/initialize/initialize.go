// Package initialize implements the init command: bind a working directory
// to its store subtree and materialize the overlay. Idempotent by
// construction; running it twice with identical arguments is a no-op second
// time around.
package initialize

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/filesystem"
	"github.com/arthur-debert/thoughts/pkg/git"
	"github.com/arthur-debert/thoughts/pkg/logging"
	"github.com/arthur-debert/thoughts/pkg/overlay"
	"github.com/arthur-debert/thoughts/pkg/paths"
	"github.com/arthur-debert/thoughts/pkg/reconcile"
	"github.com/arthur-debert/thoughts/pkg/repomap"
	"github.com/arthur-debert/thoughts/pkg/store"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// Options configures the init operation.
type Options struct {
	// WorkingDir is the directory to initialize; defaults to the cwd.
	WorkingDir string

	// Directory is an explicit slug for this repo's store subtree.
	Directory string

	// Profile selects a named profile's store settings.
	Profile string

	// Force rebinds an existing mapping and replaces conflicting overlay
	// entries.
	Force bool

	// Prune drops mappings whose working directories no longer exist.
	Prune bool

	// ConfigPath overrides the config file location.
	ConfigPath string

	// FS defaults to the OS filesystem.
	FS types.FS

	// Git overrides the VCS collaborator; nil uses the git binary against
	// the store root.
	Git git.Client
}

// Result reports what init did.
type Result struct {
	Slug       string
	WorkingDir string
	Effective  config.EffectiveConfig
	Reconcile  *reconcile.Result
	Warnings   []string
	Orphaned   []string
	Pruned     bool
}

// Initialize binds the working directory to a slug, ensures the store
// subtrees exist (the only structural store mutation in the system), and
// applies the overlay.
func Initialize(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.init")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	workingDir, err := resolveWorkingDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	cfgStore := config.NewStore(opts.ConfigPath, fsys)
	cfg, err := cfgStore.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateUser(); err != nil {
		return nil, err
	}
	if opts.Profile != "" {
		if _, err := cfg.ResolveProfile(opts.Profile); err != nil {
			return nil, err
		}
	}

	result := &Result{WorkingDir: workingDir}

	result.Orphaned = cfg.FindOrphanedMappings()
	if opts.Prune && len(result.Orphaned) > 0 {
		cfg.RemoveMappings(result.Orphaned)
		result.Pruned = true
	}

	if err := checkRebind(cfg, fsys, workingDir, opts); err != nil {
		return nil, err
	}

	res, err := repomap.Resolve(cfg, workingDir, opts.Directory, opts.Profile, opts.Force)
	if err != nil {
		return nil, err
	}
	result.Slug = res.Slug

	profileName := opts.Profile
	if profileName == "" {
		profileName = res.Profile
	}
	eff, err := cfg.ResolveProfile(profileName)
	if err != nil {
		return nil, err
	}
	result.Effective = eff

	if err := store.EnsureLayout(fsys, eff, res.Slug); err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, bootstrapStoreRepo(fsys, opts.Git, store.Root(eff))...)

	plan, err := overlay.Compute(res.Slug, eff, workingDir, fsys)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, plan.Warnings...)

	recResult, err := reconcile.New(fsys, opts.Force).Apply(plan)
	result.Reconcile = recResult
	if err != nil {
		return result, err
	}

	if err := cfgStore.Save(cfg); err != nil {
		return result, err
	}

	logger.Info().
		Str("dir", workingDir).
		Str("slug", res.Slug).
		Str("profile", profileName).
		Msg("Initialized thoughts overlay")
	return result, nil
}

// storeGitignore keeps editor and OS droppings out of the shared store.
const storeGitignore = ".DS_Store\n*.swp\n*~\n"

// bootstrapStoreRepo turns a fresh store into a git repository with an
// initial commit. The store works fine without git, so every failure here
// is a warning rather than an error.
func bootstrapStoreRepo(fsys types.FS, client git.Client, root string) []string {
	logger := logging.GetLogger("commands.init")

	if client == nil {
		client = git.New(root)
	}
	if client.IsRepo() {
		return nil
	}

	if err := client.Init(); err != nil {
		return []string{"could not initialize git in store: " + err.Error()}
	}

	gitignore := filepath.Join(root, ".gitignore")
	if _, err := fsys.Stat(gitignore); os.IsNotExist(err) {
		if err := fsys.WriteFile(gitignore, []byte(storeGitignore), 0644); err != nil {
			return []string{"could not write store .gitignore: " + err.Error()}
		}
	}

	if err := client.AddAll(); err != nil {
		return []string{"could not stage initial store content: " + err.Error()}
	}
	if dirty, err := client.HasChanges(); err == nil && dirty {
		if err := client.Commit("Initialize thoughts repository"); err != nil {
			return []string{"could not create initial store commit: " + err.Error()}
		}
	}

	logger.Info().Str("root", root).Msg("Initialized git repository in store")
	return nil
}

// checkRebind rejects an init that would change an existing binding while a
// valid overlay is in place, unless force is set. Re-running init with the
// same binding stays a success so the operation is idempotent.
func checkRebind(cfg *config.Config, fsys types.FS, workingDir string, opts Options) error {
	existing, mapped := cfg.RepoMappings[workingDir]
	if !mapped || opts.Force {
		return nil
	}

	sameSlug := opts.Directory == "" || repomap.Candidate(workingDir, opts.Directory) == existing.Repo
	sameProfile := opts.Profile == existing.Profile
	if sameSlug && sameProfile {
		return nil
	}

	if !overlayPresent(fsys, workingDir) {
		return nil
	}
	return errors.Newf(errors.ErrAlreadyInitialized,
		"%s already has a valid overlay bound to slug %q (use force to rebind)",
		workingDir, existing.Repo)
}

func overlayPresent(fsys types.FS, workingDir string) bool {
	_, err := fsys.Lstat(paths.OverlayDir(workingDir))
	return err == nil
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
