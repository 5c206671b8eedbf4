// Package repomap resolves the stable logical slug a working directory maps
// to inside the shared store. Slugs are idempotent for a given directory and
// never alias two different directories to the same store subtree.
package repomap

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	goslug "github.com/gosimple/slug"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/logging"
)

// Suffix lengths tried when a candidate slug is already claimed by another
// directory. The suffix is a prefix of the sha256 of the canonical working
// directory path, so independent machines sharing a store agree on it.
var suffixLengths = []int{8, 12, 16}

// Result describes a resolved slug and whether the mapping table changed.
type Result struct {
	Slug    string
	Profile string
	Changed bool
}

// Resolve maps workingDir to a slug, recording the mapping in cfg. An
// existing mapping wins over the explicit name unless force is set, in which
// case the mapping is recomputed and overwritten. workingDir must already be
// canonicalized (paths.NormalizePath).
func Resolve(cfg *config.Config, workingDir, explicit, profile string, force bool) (Result, error) {
	logger := logging.GetLogger("repomap")

	if existing, ok := cfg.RepoMappings[workingDir]; ok && !force {
		logger.Debug().Str("dir", workingDir).Str("slug", existing.Repo).Msg("Using existing mapping")
		return Result{Slug: existing.Repo, Profile: existing.Profile}, nil
	}

	candidate := Candidate(workingDir, explicit)

	slug, err := disambiguate(cfg, workingDir, candidate)
	if err != nil {
		return Result{}, err
	}

	cfg.RepoMappings[workingDir] = config.RepoMapping{Repo: slug, Profile: profile}
	logger.Info().Str("dir", workingDir).Str("slug", slug).Msg("Recorded repo mapping")
	return Result{Slug: slug, Profile: profile, Changed: true}, nil
}

// Candidate returns the sanitized slug candidate for a directory, before any
// collision handling: the explicit name if given, else the basename.
func Candidate(workingDir, explicit string) string {
	name := explicit
	if name == "" {
		name = filepath.Base(workingDir)
	}
	s := goslug.Make(name)
	if s == "" {
		s = "unnamed-repo"
	}
	return s
}

// disambiguate finds a slug derived from candidate that no other directory
// claims, appending progressively longer path-hash suffixes.
func disambiguate(cfg *config.Config, workingDir, candidate string) (string, error) {
	if ok := claimable(cfg, workingDir, candidate); ok {
		return candidate, nil
	}

	hash := fmt.Sprintf("%x", sha256.Sum256([]byte(workingDir)))
	for _, n := range suffixLengths {
		slug := fmt.Sprintf("%s-%s", candidate, hash[:n])
		if claimable(cfg, workingDir, slug) {
			return slug, nil
		}
	}

	// Exhausting every suffix length means some other directory claims the
	// full-entropy variants too; do not silently merge the subtrees.
	return "", errors.Newf(errors.ErrAmbiguousRepo,
		"cannot find a unique slug for %s (candidate %q is taken at every suffix length)",
		workingDir, candidate)
}

func claimable(cfg *config.Config, workingDir, slug string) bool {
	owner := cfg.SlugInUseBy(slug)
	return owner == "" || owner == workingDir
}
