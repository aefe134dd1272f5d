package git

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
)

// MockGitClient implements GitClient for testing. Clones are served from an
// in-memory table of remotes and materialized into a MockFileSystem.
type MockGitClient struct {
	mu       sync.RWMutex
	fs       *filesystem.MockFileSystem
	remotes  map[string]*MockRemote // key: clone URL
	clones   []MockClone
	versions int
	ctx      context.Context

	// Hooks for testing error scenarios
	VersionError error
}

// MockRemote is a repository the mock can clone.
type MockRemote struct {
	URL string

	// Files maps repository-relative paths to contents
	Files map[string]string

	// Branches lists branches accepted by --branch (empty accepts any)
	Branches []string

	// FailOutput makes every clone fail with this output and exit code 128
	FailOutput string
}

// MockClone records one Clone call.
type MockClone struct {
	URL    string
	Dest   string
	Branch string
}

// NewMockGitClient creates a MockGitClient writing clones into fs
func NewMockGitClient(fs *filesystem.MockFileSystem) *MockGitClient {
	return &MockGitClient{
		fs:      fs,
		remotes: make(map[string]*MockRemote),
		ctx:     context.Background(),
	}
}

// WithContext returns a new client with the given context
func (m *MockGitClient) WithContext(ctx context.Context) GitClient {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Share state so clones made through the derived client stay visible.
	return &mockWithContext{MockGitClient: m, ctx: ctx}
}

type mockWithContext struct {
	*MockGitClient
	ctx context.Context
}

func (m *mockWithContext) Clone(url, dest string, opts CloneOptions) (string, error) {
	if err := m.ctx.Err(); err != nil {
		return "", &CommandError{Args: opts.Args(url, dest), ExitCode: -1, Err: err}
	}
	return m.MockGitClient.Clone(url, dest, opts)
}

// AddRemote registers a clonable repository
func (m *MockGitClient) AddRemote(remote *MockRemote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remotes[remote.URL] = remote
}

// Version reports a fixed git version unless VersionError is set
func (m *MockGitClient) Version() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.versions++
	if m.VersionError != nil {
		return "", m.VersionError
	}
	return "git version 2.43.0", nil
}

// Clone copies the registered remote's files below dest
func (m *MockGitClient) Clone(url, dest string, opts CloneOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	args := opts.Args(url, dest)
	m.clones = append(m.clones, MockClone{URL: url, Dest: dest, Branch: opts.Branch})

	remote, ok := m.remotes[url]
	if !ok {
		out := fmt.Sprintf("fatal: repository '%s' not found\n", url)
		return out, &CommandError{Args: args, Output: out, ExitCode: 128}
	}

	if remote.FailOutput != "" {
		return remote.FailOutput, &CommandError{Args: args, Output: remote.FailOutput, ExitCode: 128}
	}

	if opts.Branch != "" && len(remote.Branches) > 0 && !contains(remote.Branches, opts.Branch) {
		out := fmt.Sprintf("fatal: Remote branch %s not found in upstream origin\n", opts.Branch)
		return out, &CommandError{Args: args, Output: out, ExitCode: 128}
	}

	if m.fs.Exists(dest) {
		out := fmt.Sprintf("fatal: destination path '%s' already exists and is not an empty directory.\n", dest)
		return out, &CommandError{Args: args, Output: out, ExitCode: 128}
	}

	m.fs.AddDir(dest)
	m.fs.AddFile(filepath.Join(dest, ".git", "HEAD"), []byte("ref: refs/heads/main\n"))
	for rel, content := range remote.Files {
		m.fs.AddFile(filepath.Join(dest, rel), []byte(content))
	}

	return fmt.Sprintf("Cloning into '%s'...\n", dest), nil
}

// VersionCalls returns how often Version was called
func (m *MockGitClient) VersionCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions
}

// Clones returns every recorded Clone call in order
func (m *MockGitClient) Clones() []MockClone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MockClone{}, m.clones...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
