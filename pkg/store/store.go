// Package store manages the central thoughts store's directory layout. The
// store is only ever mutated structurally here: subtrees are created lazily
// on init and never deleted by any command.
package store

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/logging"
	"github.com/arthur-debert/thoughts/pkg/paths"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// Root returns the expanded store root for an effective config.
func Root(eff config.EffectiveConfig) string {
	return paths.ExpandHome(eff.ThoughtsRepo)
}

// CheckRoot verifies the store root exists and is a directory.
func CheckRoot(fsys types.FS, eff config.EffectiveConfig) error {
	root := Root(eff)
	info, err := fsys.Stat(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStoreUnavailable, "store root %s is not available", root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrStoreUnavailable, "store root %s is not a directory", root)
	}
	return nil
}

// EnsureLayout creates the store subtrees a slug needs: the per-repo user
// and shared directories plus the cross-repo global directory. Creation is
// idempotent; a root that cannot be created is StoreUnavailable.
func EnsureLayout(fsys types.FS, eff config.EffectiveConfig, slug string) error {
	logger := logging.GetLogger("store")
	root := Root(eff)

	if _, err := fsys.Stat(root); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrStoreUnavailable, "store root %s is not readable", root)
		}
		if err := fsys.MkdirAll(root, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrStoreUnavailable, "cannot create store root %s", root)
		}
		logger.Info().Str("root", root).Msg("Created thoughts store")
	}

	repoDir := filepath.Join(root, eff.ReposDir, slug)
	dirs := []string{
		filepath.Join(repoDir, eff.User),
		filepath.Join(repoDir, paths.SharedDirName),
		filepath.Join(root, eff.GlobalDir),
	}
	for _, dir := range dirs {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrStoreUnavailable, "cannot create store directory %s", dir)
		}
	}

	logger.Debug().Str("slug", slug).Str("root", root).Msg("Store layout ensured")
	return nil
}
