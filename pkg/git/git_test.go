package git

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestIsRepoAt(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	assert.False(t, IsRepoAt(dir))

	client := New(dir)
	require.NoError(t, client.Init())
	assert.True(t, IsRepoAt(dir))
	assert.True(t, client.IsRepo())
}

func TestHasChangesAndRemote(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	client := New(dir)
	require.NoError(t, client.Init())

	dirty, err := client.HasChanges()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.False(t, client.HasRemote())
}
