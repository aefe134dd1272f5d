package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Executor runs external programs: the compiler and the built binary.
type Executor interface {
	// Output runs name in dir and returns its combined stdout and stderr.
	// A non-zero exit is reported as a *ExecError.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)

	// Attach runs name in dir connected to the given streams.
	Attach(ctx context.Context, dir string, streams Streams, name string, args ...string) error
}

// Streams are the standard streams handed to an attached program.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ExecError describes a program that exited non-zero or could not start.
type ExecError struct {
	Program  string
	Args     []string
	Output   string
	ExitCode int
	Err      error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s %s exited with code %d", e.Program, strings.Join(e.Args, " "), e.ExitCode)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// OSExecutor implements Executor with os/exec.
type OSExecutor struct{}

// NewOSExecutor creates a new OSExecutor
func NewOSExecutor() *OSExecutor {
	return &OSExecutor{}
}

func (e *OSExecutor) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return out.String(), execError(name, args, out.String(), err)
	}

	return out.String(), nil
}

func (e *OSExecutor) Attach(ctx context.Context, dir string, streams Streams, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = streams.In
	cmd.Stdout = streams.Out
	cmd.Stderr = streams.Err

	if err := cmd.Run(); err != nil {
		return execError(name, args, "", err)
	}

	return nil
}

func execError(name string, args []string, output string, err error) *ExecError {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return &ExecError{
		Program:  name,
		Args:     args,
		Output:   output,
		ExitCode: exitCode,
		Err:      err,
	}
}
