// Package overlay computes the desired link layout for a working directory:
// three symlinks into the central store plus a hard-linked searchable mirror
// of every file reachable through them. A Plan is pure data, computed fresh
// each run and never persisted; it is the single source of truth for what
// should exist on disk.
package overlay

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/logging"
	"github.com/arthur-debert/thoughts/pkg/paths"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// LinkKind distinguishes the two link flavors a plan can request.
type LinkKind string

const (
	Symlink  LinkKind = "symlink"
	Hardlink LinkKind = "hardlink"
)

// LinkSpec is one desired link: Source lives in the store, Dest in the
// working tree.
type LinkSpec struct {
	Kind   LinkKind
	Source string
	Dest   string
}

// Entries are the overlay names materialized under <workingDir>/thoughts/.
// UserLinkName is fixed; the store side is namespaced by the configured user.
const (
	UserLinkName   = "user"
	SharedLinkName = "shared"
)

// EntryNames lists the four top-level overlay entries in reconcile order.
func EntryNames() []string {
	return []string{UserLinkName, SharedLinkName, paths.GlobalLinkName, paths.SearchableDirName}
}

// Plan is the full desired state for one (slug, effective config) pair.
type Plan struct {
	Slug          string
	WorkingDir    string
	OverlayDir    string
	SearchableDir string

	// Symlinks are reconciled before Mirror is rebuilt: the mirror's
	// content is discovered by reading through the store targets those
	// symlinks expose.
	Symlinks []LinkSpec

	// Mirror holds one hardlink spec per regular file under the store
	// targets, keyed off the searchable-relative destination path.
	Mirror []LinkSpec

	// Warnings records non-fatal oddities found while enumerating the
	// store, such as directory symlinks that were not recursed into.
	Warnings []string
}

// MirrorByDest indexes the mirror specs by destination path.
func (p *Plan) MirrorByDest() map[string]LinkSpec {
	out := make(map[string]LinkSpec, len(p.Mirror))
	for _, spec := range p.Mirror {
		out[spec.Dest] = spec
	}
	return out
}

// maxSymlinkDepth bounds symlink resolution inside the store.
const maxSymlinkDepth = 8

// Compute builds the plan for a resolved slug and effective config. Missing
// store directories are treated as empty, not an error.
func Compute(slug string, eff config.EffectiveConfig, workingDir string, fsys types.FS) (*Plan, error) {
	logger := logging.GetLogger("overlay")

	storeRoot := paths.ExpandHome(eff.ThoughtsRepo)
	repoDir := filepath.Join(storeRoot, eff.ReposDir, slug)
	globalDir := filepath.Join(storeRoot, eff.GlobalDir)
	overlayDir := paths.OverlayDir(workingDir)
	searchableDir := filepath.Join(overlayDir, paths.SearchableDirName)

	plan := &Plan{
		Slug:          slug,
		WorkingDir:    workingDir,
		OverlayDir:    overlayDir,
		SearchableDir: searchableDir,
		Symlinks: []LinkSpec{
			{Kind: Symlink, Source: filepath.Join(repoDir, eff.User), Dest: filepath.Join(overlayDir, UserLinkName)},
			{Kind: Symlink, Source: filepath.Join(repoDir, paths.SharedDirName), Dest: filepath.Join(overlayDir, SharedLinkName)},
			{Kind: Symlink, Source: globalDir, Dest: filepath.Join(overlayDir, paths.GlobalLinkName)},
		},
	}

	// Mirror the union of the three store targets, one subtree per overlay
	// entry, so searchable/user/x.md shadows thoughts/user/x.md.
	for _, link := range plan.Symlinks {
		entry := filepath.Base(link.Dest)
		if err := walkStoreTree(fsys, link.Source, filepath.Join(searchableDir, entry), plan); err != nil {
			return nil, err
		}
	}

	sort.Slice(plan.Mirror, func(i, j int) bool { return plan.Mirror[i].Dest < plan.Mirror[j].Dest })

	logger.Debug().
		Str("slug", slug).
		Int("mirrorFiles", len(plan.Mirror)).
		Int("warnings", len(plan.Warnings)).
		Msg("Computed overlay plan")
	return plan, nil
}

// walkStoreTree enumerates regular files under srcDir and appends one
// hardlink spec per file under destDir, mirroring directory structure.
// File symlinks are resolved and included; directory symlinks are skipped
// with a warning so store-internal cycles cannot recurse forever.
func walkStoreTree(fsys types.FS, srcDir, destDir string, plan *Plan) error {
	entries, err := fsys.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		src := filepath.Join(srcDir, name)
		dest := filepath.Join(destDir, name)

		info, err := fsys.Lstat(src)
		if err != nil {
			plan.Warnings = append(plan.Warnings, "cannot stat "+src+": "+err.Error())
			continue
		}

		switch {
		case info.IsDir():
			if err := walkStoreTree(fsys, src, dest, plan); err != nil {
				return err
			}
		case info.Mode()&fs.ModeSymlink != 0:
			resolved, rerr := resolveLink(fsys, src, 0)
			if rerr != nil {
				plan.Warnings = append(plan.Warnings, "skipping symlink "+src+": "+rerr.Error())
				continue
			}
			rinfo, serr := fsys.Lstat(resolved)
			if serr != nil {
				plan.Warnings = append(plan.Warnings, "skipping dangling symlink "+src)
				continue
			}
			if rinfo.IsDir() {
				plan.Warnings = append(plan.Warnings, "not recursing into directory symlink "+src)
				continue
			}
			if rinfo.Mode().IsRegular() {
				plan.Mirror = append(plan.Mirror, LinkSpec{Kind: Hardlink, Source: resolved, Dest: dest})
			}
		case info.Mode().IsRegular():
			plan.Mirror = append(plan.Mirror, LinkSpec{Kind: Hardlink, Source: src, Dest: dest})
		}
	}
	return nil
}

// resolveLink follows a chain of symlinks to its target path, bounded to
// avoid cycles. Relative targets resolve against the link's directory.
func resolveLink(fsys types.FS, link string, depth int) (string, error) {
	if depth >= maxSymlinkDepth {
		return "", &os.PathError{Op: "resolve", Path: link, Err: os.ErrInvalid}
	}
	target, err := fsys.Readlink(link)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	info, err := fsys.Lstat(target)
	if err != nil {
		return "", err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return resolveLink(fsys, target, depth+1)
	}
	return target, nil
}
