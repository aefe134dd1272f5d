package git

import (
	"context"
	"fmt"
	"strings"
)

// GitClient provides an abstraction over git operations for testability
//
// Only the two operations the dependency core needs are exposed: checking
// that a git binary is usable, and cloning a remote into a directory.
type GitClient interface {
	// Version returns the output of `git --version`
	Version() (string, error)

	// Clone clones url into dest and returns git's combined output.
	// A non-zero exit is reported as a *CommandError.
	Clone(url, dest string, opts CloneOptions) (string, error)

	// Context support for network operations
	WithContext(ctx context.Context) GitClient
}

// CloneOptions tunes a clone.
type CloneOptions struct {
	// Branch checks out this branch instead of the remote HEAD
	Branch string
}

// Args returns the git arguments for cloning url into dest.
func (o CloneOptions) Args(url, dest string) []string {
	args := []string{"clone"}
	if o.Branch != "" {
		args = append(args, "--branch", o.Branch)
	}
	return append(args, url, dest)
}

// CommandError describes a git invocation that exited non-zero or could not start.
type CommandError struct {
	Args     []string
	Output   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git %s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
