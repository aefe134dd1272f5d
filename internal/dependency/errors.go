package dependency

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	ErrUnresolved         = eris.New("dependency could not be resolved")
	ErrCloneFailed        = eris.New("dependency clone failed")
	ErrPrecondition       = eris.New("project precondition not met")
	ErrDependencyNotFound = eris.New("dependency not found")
)

// UnresolvedError reports a name no index source knows about.
type UnresolvedError struct {
	Name string
	Err  error
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("couldn't find dependency '%s' in remote index: %v", e.Name, e.Err)
}

func (e *UnresolvedError) Is(target error) bool {
	return target == ErrUnresolved
}

func (e *UnresolvedError) Unwrap() error {
	return e.Err
}

// CloneError reports a git clone that exited non-zero. Output is git's
// combined stdout and stderr.
type CloneError struct {
	Name     string
	URL      string
	Output   string
	ExitCode int
	Err      error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("couldn't clone dependency '%s' from %s (exit code %d)", e.Name, e.URL, e.ExitCode)
}

func (e *CloneError) Is(target error) bool {
	return target == ErrCloneFailed
}

func (e *CloneError) Unwrap() error {
	return e.Err
}
