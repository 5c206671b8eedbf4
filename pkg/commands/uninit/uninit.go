// Package uninit removes the overlay projected into a working directory.
// Only the four top-level overlay entries are touched; store content is
// never deleted by any command.
package uninit

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/filesystem"
	"github.com/arthur-debert/thoughts/pkg/logging"
	"github.com/arthur-debert/thoughts/pkg/overlay"
	"github.com/arthur-debert/thoughts/pkg/paths"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// Options configures the uninit operation.
type Options struct {
	// WorkingDir defaults to the cwd.
	WorkingDir string

	// Force turns "nothing to remove" into a no-op success.
	Force bool

	// ConfigPath overrides the config file location.
	ConfigPath string

	// FS defaults to the OS filesystem.
	FS types.FS
}

// Result reports what uninit removed.
type Result struct {
	WorkingDir     string
	RemovedEntries []string
	MappingRemoved bool

	// Slug and StoreRepo point at the untouched store content, so the
	// caller can tell the user where their notes still live.
	Slug      string
	StoreRepo string
}

// Uninit removes the overlay entries and the repo's mapping. Fails with
// NotInitialized when no overlay is present, unless force.
func Uninit(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.uninit")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	workingDir, err := resolveWorkingDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	overlayDir := paths.OverlayDir(workingDir)
	result := &Result{WorkingDir: workingDir}

	if _, err := fsys.Lstat(overlayDir); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", overlayDir)
		}
		if opts.Force {
			logger.Debug().Str("dir", workingDir).Msg("No overlay present, nothing to do")
			return result, nil
		}
		return nil, errors.Newf(errors.ErrNotInitialized,
			"thoughts not initialized for %s", workingDir)
	}

	for _, name := range overlay.EntryNames() {
		entry := filepath.Join(overlayDir, name)
		if _, err := fsys.Lstat(entry); err != nil {
			continue
		}
		// searchable is a real directory of hard links; the other three
		// are symlinks, where Remove drops only the link itself.
		if err := fsys.RemoveAll(entry); err != nil {
			return result, errors.Wrapf(err, errors.ErrFileAccess, "cannot remove overlay entry %s", entry)
		}
		result.RemovedEntries = append(result.RemovedEntries, name)
	}

	// Drop the thoughts/ directory when nothing else lives in it.
	if entries, err := fsys.ReadDir(overlayDir); err == nil && len(entries) == 0 {
		_ = fsys.Remove(overlayDir)
	}

	cfgStore := config.NewStore(opts.ConfigPath, fsys)
	if cfg, err := cfgStore.Load(); err == nil {
		if mapping, ok := cfg.RepoMappings[workingDir]; ok {
			result.Slug = mapping.Repo
			eff := cfg.EffectiveConfigFor(workingDir)
			result.StoreRepo = eff.ThoughtsRepo
			delete(cfg.RepoMappings, workingDir)
			if err := cfgStore.Save(cfg); err != nil {
				return result, err
			}
			result.MappingRemoved = true
		}
	} else if !errors.IsErrorCode(err, errors.ErrNotFound) && !opts.Force {
		return result, err
	}

	logger.Info().
		Str("dir", workingDir).
		Strs("removed", result.RemovedEntries).
		Msg("Removed thoughts overlay")
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
