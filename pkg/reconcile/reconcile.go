// Package reconcile brings a working directory's on-disk overlay in line
// with an overlay.Plan: create missing symlinks, refuse to clobber foreign
// ones without force, and converge the hard-linked searchable mirror against
// the live store content. Every step is independently safe to interrupt and
// re-run.
package reconcile

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/logging"
	"github.com/arthur-debert/thoughts/pkg/overlay"
	"github.com/arthur-debert/thoughts/pkg/types"
)

// Result summarizes what one reconciliation pass did.
type Result struct {
	SymlinksCreated  int
	SymlinksKept     int
	SymlinksReplaced int

	MirrorLinked  int
	MirrorCopied  int
	MirrorRemoved int
	MirrorKept    int

	// FileErrors collects per-file mirror failures. One bad file does not
	// abort the pass; callers surface these as a summary.
	FileErrors []string
}

// Degraded reports whether any mirror entry fell back to a plain copy.
func (r *Result) Degraded() bool {
	return r.MirrorCopied > 0
}

// Reconciler applies overlay plans to a filesystem.
type Reconciler struct {
	fs    types.FS
	force bool
}

// New creates a Reconciler. force allows replacing overlay entries that
// exist but do not match the plan.
func New(fsys types.FS, force bool) *Reconciler {
	return &Reconciler{fs: fsys, force: force}
}

// Apply reconciles the filesystem against the plan. Symlinks are handled
// first because the mirror content was discovered through them.
func (r *Reconciler) Apply(plan *overlay.Plan) (*Result, error) {
	logger := logging.GetLogger("reconcile")
	result := &Result{}

	if err := r.fs.MkdirAll(plan.OverlayDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create overlay directory %s", plan.OverlayDir)
	}

	for _, spec := range plan.Symlinks {
		if err := r.applySymlink(spec, result); err != nil {
			return result, err
		}
	}

	if err := r.applyMirror(plan, result); err != nil {
		return result, err
	}

	logger.Info().
		Int("created", result.SymlinksCreated).
		Int("linked", result.MirrorLinked).
		Int("copied", result.MirrorCopied).
		Int("removed", result.MirrorRemoved).
		Int("fileErrors", len(result.FileErrors)).
		Msg("Reconciliation finished")
	return result, nil
}

// applySymlink creates, keeps, or (under force) replaces one overlay
// symlink. A destination that exists but points elsewhere is an
// OverlayConflict, never silently overwritten.
func (r *Reconciler) applySymlink(spec overlay.LinkSpec, result *Result) error {
	info, err := r.fs.Lstat(spec.Dest)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", spec.Dest)
		}
		if err := r.fs.Symlink(spec.Source, spec.Dest); err != nil {
			// Lost a race against a concurrent run; correct content wins.
			if current, rerr := r.fs.Readlink(spec.Dest); rerr == nil && current == spec.Source {
				result.SymlinksKept++
				return nil
			}
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create symlink %s", spec.Dest)
		}
		result.SymlinksCreated++
		return nil
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		current, err := r.fs.Readlink(spec.Dest)
		if err == nil && current == spec.Source {
			result.SymlinksKept++
			return nil
		}
	}

	if !r.force {
		return errors.Newf(errors.ErrOverlayConflict,
			"destination %s exists and points elsewhere than %s (use force to replace)",
			spec.Dest, spec.Source).
			WithDetail("dest", spec.Dest).
			WithDetail("want", spec.Source)
	}

	if err := r.fs.RemoveAll(spec.Dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", spec.Dest)
	}
	if err := r.fs.Symlink(spec.Source, spec.Dest); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create symlink %s", spec.Dest)
	}
	result.SymlinksReplaced++
	return nil
}

// applyMirror converges searchable/ on the plan's hardlink set: stale
// entries go, missing entries are linked, and entries whose inode no longer
// matches the source are re-linked. That last comparison is what keeps the
// mirror convergent under delete+recreate edit patterns.
func (r *Reconciler) applyMirror(plan *overlay.Plan, result *Result) error {
	logger := logging.GetLogger("reconcile")

	if err := r.fs.MkdirAll(plan.SearchableDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create mirror directory %s", plan.SearchableDir)
	}

	desired := plan.MirrorByDest()
	present, err := r.listMirrorFiles(plan.SearchableDir)
	if err != nil {
		return err
	}

	for _, dest := range present {
		if _, want := desired[dest]; want {
			continue
		}
		if err := r.fs.Remove(dest); err != nil && !os.IsNotExist(err) {
			result.FileErrors = append(result.FileErrors, "remove "+dest+": "+err.Error())
			continue
		}
		result.MirrorRemoved++
		r.pruneEmptyDirs(filepath.Dir(dest), plan.SearchableDir)
	}

	presentSet := make(map[string]struct{}, len(present))
	for _, dest := range present {
		presentSet[dest] = struct{}{}
	}

	for _, spec := range plan.Mirror {
		if _, ok := presentSet[spec.Dest]; ok {
			same, err := r.sameInode(spec.Source, spec.Dest)
			if err != nil {
				result.FileErrors = append(result.FileErrors, "compare "+spec.Dest+": "+err.Error())
				continue
			}
			if same {
				result.MirrorKept++
				continue
			}
			// Source was replaced under the same path; drop the stale link.
			if err := r.fs.Remove(spec.Dest); err != nil && !os.IsNotExist(err) {
				result.FileErrors = append(result.FileErrors, "remove stale "+spec.Dest+": "+err.Error())
				continue
			}
		}

		if err := r.createMirrorEntry(spec, result); err != nil {
			result.FileErrors = append(result.FileErrors, spec.Dest+": "+err.Error())
			logger.Warn().Str("dest", spec.Dest).Err(err).Msg("Mirror entry failed")
		}
	}

	return nil
}

// createMirrorEntry hard-links one file into the mirror. "Already exists
// with the correct inode" is success so concurrent reconciliations do not
// trip over each other; a wrong inode is retried once before surfacing.
// EXDEV degrades to a plain copy for that entry.
func (r *Reconciler) createMirrorEntry(spec overlay.LinkSpec, result *Result) error {
	if err := r.fs.MkdirAll(filepath.Dir(spec.Dest), 0755); err != nil {
		return err
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := r.fs.Link(spec.Source, spec.Dest)
		if err == nil {
			result.MirrorLinked++
			return nil
		}

		if os.IsExist(err) {
			same, serr := r.sameInode(spec.Source, spec.Dest)
			if serr == nil && same {
				result.MirrorKept++
				return nil
			}
			if rerr := r.fs.Remove(spec.Dest); rerr != nil && !os.IsNotExist(rerr) {
				return rerr
			}
			continue
		}

		if isCrossDevice(err) || isNotSupported(err) {
			return r.copyMirrorEntry(spec, result, err)
		}

		return err
	}

	return errors.Newf(errors.ErrOverlayConflict,
		"mirror entry %s keeps reappearing with a different inode", spec.Dest)
}

// copyMirrorEntry is the recoverable CrossDeviceLink path: the mirror's
// read-only contract tolerates a copy instead of a link, at the cost of
// staleness until the next sync.
func (r *Reconciler) copyMirrorEntry(spec overlay.LinkSpec, result *Result, cause error) error {
	logger := logging.GetLogger("reconcile")

	data, err := r.fs.ReadFile(spec.Source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCrossDeviceLink, "copy fallback failed for %s", spec.Source)
	}
	if err := r.fs.WriteFile(spec.Dest, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrCrossDeviceLink, "copy fallback failed for %s", spec.Dest)
	}

	result.MirrorCopied++
	logger.Warn().
		Str("source", spec.Source).
		Str("dest", spec.Dest).
		AnErr("cause", cause).
		Msg("Hard link crossed a device boundary, degraded to copy")
	return nil
}

// listMirrorFiles returns every file currently present under the mirror.
func (r *Reconciler) listMirrorFiles(dir string) ([]string, error) {
	var files []string
	var walk func(string) error
	walk = func(current string) error {
		entries, err := r.fs.ReadDir(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read mirror directory %s", current)
		}
		for _, entry := range entries {
			path := filepath.Join(current, entry.Name())
			if entry.IsDir() {
				if err := walk(path); err != nil {
					return err
				}
				continue
			}
			files = append(files, path)
		}
		return nil
	}
	if err := walk(dir); err != nil {
		return nil, err
	}
	return files, nil
}

// pruneEmptyDirs removes now-empty directories between a removed entry and
// the mirror root. Failures mean "not empty" and are fine.
func (r *Reconciler) pruneEmptyDirs(dir, stop string) {
	for dir != stop && strings.HasPrefix(dir, stop) {
		if err := r.fs.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// sameInode reports whether source and dest are the same file on disk.
func (r *Reconciler) sameInode(source, dest string) (bool, error) {
	srcInfo, err := r.fs.Lstat(source)
	if err != nil {
		return false, err
	}
	destInfo, err := r.fs.Lstat(dest)
	if err != nil {
		return false, err
	}
	return r.fs.SameFile(srcInfo, destInfo), nil
}

func isCrossDevice(err error) bool {
	return errorIsErrno(err, syscall.EXDEV)
}

func isNotSupported(err error) bool {
	return errorIsErrno(err, syscall.ENOTSUP)
}

func errorIsErrno(err error, errno syscall.Errno) bool {
	for err != nil {
		if e, ok := err.(syscall.Errno); ok {
			return e == errno
		}
		switch e := err.(type) {
		case *os.LinkError:
			err = e.Err
		case *os.PathError:
			err = e.Err
		default:
			return false
		}
	}
	return false
}
