// Package paths provides centralized path handling for thoughts.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/thoughts/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for thoughts
	EnvConfigDir = "THOUGHTS_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: these constants define the on-disk overlay structure and are
// NOT user-configurable. They must remain consistent across installations
// so that shared stores line up between machines.
const (
	// AppDirName is the directory name for thoughts-specific files
	AppDirName = "thoughts"

	// ConfigFileName is the name of the persisted configuration file
	ConfigFileName = "config.json"

	// OverlayDirName is the directory projected into a working directory
	OverlayDirName = "thoughts"

	// SearchableDirName is the hard-linked mirror inside the overlay
	SearchableDirName = "searchable"

	// SharedDirName is the team-notes subdirectory of a repo's store subtree
	SharedDirName = "shared"

	// GlobalLinkName is the overlay entry for cross-repo notes
	GlobalLinkName = "global"

	// DefaultReposDir is the default store subpath for per-repo content
	DefaultReposDir = "repos"

	// DefaultGlobalDir is the default store subpath for cross-repo content
	DefaultGlobalDir = "global"
)

// ConfigFilePath returns the path to the persisted configuration file,
// honoring THOUGHTS_CONFIG_DIR over the XDG config home.
func ConfigFilePath() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(ExpandHome(dir), ConfigFileName)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// DefaultStoreRoot returns the default location of the central store.
func DefaultStoreRoot() string {
	home := GetHomeDirectoryWithDefault(".")
	return filepath.Join(home, "thoughts")
}

// OverlayDir returns the overlay directory for a working directory.
func OverlayDir(workingDir string) string {
	return filepath.Join(workingDir, OverlayDirName)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it. Symlinks in ancestors are resolved when possible so
// that mapping keys are stable regardless of how a directory was reached.
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := ExpandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	return filepath.Clean(abs), nil
}

// IsFilesystemSafe reports whether a name can be used as a single path
// segment: non-empty, no separators, no parent references.
func IsFilesystemSafe(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return true
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// GetHomeDirectoryWithDefault returns the home directory or a default value
func GetHomeDirectoryWithDefault(defaultDir string) string {
	homeDir, err := GetHomeDirectory()
	if err != nil {
		return defaultDir
	}
	return homeDir
}
