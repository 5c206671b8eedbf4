package reconcile

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/thoughts/pkg/overlay"
)

// EntryState classifies one overlay entry against the plan.
type EntryState string

const (
	StateOK       EntryState = "ok"
	StateMissing  EntryState = "missing"
	StateConflict EntryState = "conflict"
)

// EntryStatus is the read-only health of one overlay symlink.
type EntryStatus struct {
	Name         string
	Dest         string
	WantSource   string
	ActualTarget string
	State        EntryState
}

// MirrorStatus is the read-only health of the searchable mirror.
type MirrorStatus struct {
	Desired int
	Present int
	Missing int
	Stale   int
	Extra   int
}

// InSync reports whether the mirror needs no work.
func (m MirrorStatus) InSync() bool {
	return m.Missing == 0 && m.Stale == 0 && m.Extra == 0
}

// CheckSymlinks compares the plan's symlinks against disk without mutating
// anything. It applies the same comparison Apply uses.
func (r *Reconciler) CheckSymlinks(plan *overlay.Plan) []EntryStatus {
	var statuses []EntryStatus
	for _, spec := range plan.Symlinks {
		status := EntryStatus{
			Name:       filepath.Base(spec.Dest),
			Dest:       spec.Dest,
			WantSource: spec.Source,
		}

		info, err := r.fs.Lstat(spec.Dest)
		switch {
		case os.IsNotExist(err):
			status.State = StateMissing
		case err != nil:
			status.State = StateConflict
		case info.Mode()&fs.ModeSymlink == 0:
			status.State = StateConflict
		default:
			target, rerr := r.fs.Readlink(spec.Dest)
			status.ActualTarget = target
			if rerr == nil && target == spec.Source {
				status.State = StateOK
			} else {
				status.State = StateConflict
			}
		}

		statuses = append(statuses, status)
	}
	return statuses
}

// CheckMirror compares the plan's mirror set against disk without mutating
// anything.
func (r *Reconciler) CheckMirror(plan *overlay.Plan) (MirrorStatus, error) {
	status := MirrorStatus{Desired: len(plan.Mirror)}

	present, err := r.listMirrorFiles(plan.SearchableDir)
	if err != nil {
		return status, err
	}
	status.Present = len(present)

	presentSet := make(map[string]struct{}, len(present))
	for _, dest := range present {
		presentSet[dest] = struct{}{}
	}

	desired := plan.MirrorByDest()
	for _, dest := range present {
		if _, want := desired[dest]; !want {
			status.Extra++
		}
	}
	for _, spec := range plan.Mirror {
		if _, ok := presentSet[spec.Dest]; !ok {
			status.Missing++
			continue
		}
		same, err := r.sameInode(spec.Source, spec.Dest)
		if err != nil || !same {
			status.Stale++
		}
	}

	return status, nil
}
