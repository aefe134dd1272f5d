package git_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/frinkifail/dreamcpp/internal/git"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary git repository for testing
func setupTestRepo(t *testing.T) (*git.OSGitClient, string) {
	t.Helper()

	// Check if git is available
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}

	tmpDir := t.TempDir()
	repoPath := filepath.Join(tmpDir, "upstream")
	require.NoError(t, os.MkdirAll(repoPath, 0755))

	// Initialize git repo with main as default branch
	runGitCmd(t, repoPath, "init", "-b", "main")
	runGitCmd(t, repoPath, "config", "user.name", "Test User")
	runGitCmd(t, repoPath, "config", "user.email", "test@example.com")

	writeFile(t, repoPath, filepath.Join("include", "fmt", "core.h"), "#pragma once\n")
	runGitCmd(t, repoPath, "add", ".")
	runGitCmd(t, repoPath, "commit", "-m", "Initial commit")

	runGitCmd(t, repoPath, "checkout", "-b", "dev")
	writeFile(t, repoPath, "DEV.md", "dev only\n")
	runGitCmd(t, repoPath, "add", ".")
	runGitCmd(t, repoPath, "commit", "-m", "Dev commit")
	runGitCmd(t, repoPath, "checkout", "main")

	return git.NewOSGitClient(), repoPath
}

// runGitCmd runs a git command in the specified directory
func runGitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v failed\nOutput: %s", args, output)
}

// writeFile writes content to a file, creating parent directories
func writeFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoErrorf(t, os.WriteFile(path, []byte(content), 0644), "failed to write file %s", path)
}

func TestOSGit_Version(t *testing.T) {
	client, _ := setupTestRepo(t)

	version, err := client.Version()
	require.NoError(t, err)
	require.Contains(t, version, "git version")
}

func TestOSGit_Clone(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client, repoPath := setupTestRepo(t)
	dest := filepath.Join(t.TempDir(), "fmt")

	_, err := client.Clone(repoPath, dest, git.CloneOptions{})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dest, "include", "fmt", "core.h"))
	require.NoFileExists(t, filepath.Join(dest, "DEV.md"))
}

func TestOSGit_CloneBranch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client, repoPath := setupTestRepo(t)
	dest := filepath.Join(t.TempDir(), "fmt")

	_, err := client.Clone(repoPath, dest, git.CloneOptions{Branch: "dev"})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dest, "DEV.md"))
}

func TestOSGit_CloneFailureCapturesOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client, _ := setupTestRepo(t)
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	out, err := client.Clone(missing, filepath.Join(t.TempDir(), "dest"), git.CloneOptions{})
	require.Error(t, err)

	var cmdErr *git.CommandError
	require.True(t, errors.As(err, &cmdErr))
	require.NotZero(t, cmdErr.ExitCode)
	require.NotEmpty(t, out)
	require.Equal(t, out, cmdErr.Output)
}
