// Package git is the VCS collaborator: an opaque commit-and-push surface
// over the git binary. Failures are surfaced, never retried here.
package git

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/thoughts/pkg/errors"
	"github.com/arthur-debert/thoughts/pkg/logging"
)

// Client runs git operations against one repository directory.
type Client interface {
	IsRepo() bool
	Init() error
	AddAll() error
	HasChanges() (bool, error)
	Commit(message string) error
	HasRemote() bool
	PullRebase() error
	Push() error
	LastCommit() (string, error)

	// CommitAndPush stages everything, commits when dirty, then pulls and
	// pushes when a remote is configured. Pull/push failures come back as
	// warnings, not errors.
	CommitAndPush(message string) ([]string, error)
}

type client struct {
	dir string
}

// New creates a Client for the given directory.
func New(dir string) Client {
	return &client{dir: dir}
}

// IsRepoAt reports whether path is inside a git work tree.
func IsRepoAt(path string) bool {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

func (c *client) run(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", c.dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrGit, "git %s failed in %s: %s",
			strings.Join(args, " "), c.dir, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *client) IsRepo() bool {
	return IsRepoAt(c.dir)
}

func (c *client) Init() error {
	_, err := c.run("init")
	return err
}

func (c *client) AddAll() error {
	_, err := c.run("add", "-A")
	return err
}

func (c *client) HasChanges() (bool, error) {
	out, err := c.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

func (c *client) Commit(message string) error {
	_, err := c.run("commit", "-m", message)
	return err
}

func (c *client) HasRemote() bool {
	out, err := c.run("remote")
	return err == nil && out != ""
}

func (c *client) PullRebase() error {
	_, err := c.run("pull", "--rebase")
	return err
}

func (c *client) Push() error {
	_, err := c.run("push")
	return err
}

func (c *client) LastCommit() (string, error) {
	return c.run("log", "-1", "--format=%h %s (%cr)")
}

func (c *client) CommitAndPush(message string) ([]string, error) {
	logger := logging.GetLogger("git")
	var warnings []string

	if message == "" {
		message = fmt.Sprintf("Sync thoughts - %s", time.Now().Format("2006-01-02 15:04:05"))
	}

	if err := c.AddAll(); err != nil {
		return nil, err
	}

	dirty, err := c.HasChanges()
	if err != nil {
		return nil, err
	}
	if dirty {
		if err := c.Commit(message); err != nil {
			return nil, err
		}
		logger.Info().Str("dir", c.dir).Str("message", message).Msg("Committed store changes")
	} else {
		logger.Debug().Str("dir", c.dir).Msg("No store changes to commit")
	}

	if !c.HasRemote() {
		warnings = append(warnings, "no remote configured for thoughts repository")
		return warnings, nil
	}

	if err := c.PullRebase(); err != nil {
		warnings = append(warnings, "could not pull latest changes: "+err.Error())
	}
	if err := c.Push(); err != nil {
		warnings = append(warnings, "could not push to remote: "+err.Error())
	}

	return warnings, nil
}
