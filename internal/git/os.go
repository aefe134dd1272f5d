package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// OSGitClient implements GitClient using real git commands
type OSGitClient struct {
	ctx context.Context
}

// NewOSGitClient creates a new OSGitClient
func NewOSGitClient() *OSGitClient {
	return &OSGitClient{
		ctx: context.Background(),
	}
}

// WithContext returns a new client with the given context
func (g *OSGitClient) WithContext(ctx context.Context) GitClient {
	return &OSGitClient{
		ctx: ctx,
	}
}

// Version returns the installed git version string
func (g *OSGitClient) Version() (string, error) {
	args := []string{"--version"}
	cmd := exec.CommandContext(g.ctx, "git", args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", commandError(args, out.String(), err)
	}

	return strings.TrimSpace(out.String()), nil
}

// Clone clones url into dest, capturing stdout and stderr together
func (g *OSGitClient) Clone(url, dest string, opts CloneOptions) (string, error) {
	args := opts.Args(url, dest)
	cmd := exec.CommandContext(g.ctx, "git", args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return out.String(), commandError(args, out.String(), err)
	}

	return out.String(), nil
}

func commandError(args []string, output string, err error) *CommandError {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return &CommandError{
		Args:     args,
		Output:   output,
		ExitCode: exitCode,
		Err:      err,
	}
}
