package testutil

import "github.com/arthur-debert/thoughts/pkg/git"

var _ git.Client = (*StubGit)(nil)

// StubGit is a git.Client whose answers are fixed fields, for tests that
// must not shell out. The zero value behaves like a directory that is not
// a repository yet; Init flips it.
type StubGit struct {
	Repo   bool
	Remote bool
	Dirty  bool
	Head   string

	// Calls records the mutating operations in order.
	Calls []string
}

func (g *StubGit) IsRepo() bool { return g.Repo }

func (g *StubGit) Init() error {
	g.Repo = true
	g.Calls = append(g.Calls, "init")
	return nil
}

func (g *StubGit) AddAll() error {
	g.Calls = append(g.Calls, "add")
	return nil
}

func (g *StubGit) HasChanges() (bool, error) { return g.Dirty, nil }

func (g *StubGit) Commit(message string) error {
	g.Calls = append(g.Calls, "commit:"+message)
	g.Dirty = false
	return nil
}

func (g *StubGit) HasRemote() bool { return g.Remote }

func (g *StubGit) PullRebase() error {
	g.Calls = append(g.Calls, "pull")
	return nil
}

func (g *StubGit) Push() error {
	g.Calls = append(g.Calls, "push")
	return nil
}

func (g *StubGit) LastCommit() (string, error) { return g.Head, nil }

func (g *StubGit) CommitAndPush(message string) ([]string, error) {
	g.Calls = append(g.Calls, "commitAndPush:"+message)
	return nil, nil
}
