package build

import (
	"context"
	"fmt"
	"sync"
)

// MockExecutor implements Executor for testing. Programs are not run; each
// call is recorded and answered from Results.
type MockExecutor struct {
	mu    sync.Mutex
	calls []MockCall

	// Results maps a program name to the answer for every call of it
	Results map[string]MockResult
}

// MockResult is a canned answer for one program.
type MockResult struct {
	Output   string
	ExitCode int

	// OnRun is invoked with the call before it is answered
	OnRun func(call MockCall)
}

// MockCall records one Executor call.
type MockCall struct {
	Dir      string
	Name     string
	Args     []string
	Attached bool
}

// NewMockExecutor creates a MockExecutor where every program succeeds silently.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{Results: make(map[string]MockResult)}
}

func (m *MockExecutor) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	return m.run(ctx, MockCall{Dir: dir, Name: name, Args: args})
}

func (m *MockExecutor) Attach(ctx context.Context, dir string, streams Streams, name string, args ...string) error {
	out, err := m.run(ctx, MockCall{Dir: dir, Name: name, Args: args, Attached: true})
	if streams.Out != nil && out != "" {
		_, _ = fmt.Fprint(streams.Out, out)
	}
	return err
}

func (m *MockExecutor) run(ctx context.Context, call MockCall) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	result := m.Results[call.Name]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", &ExecError{Program: call.Name, Args: call.Args, ExitCode: -1, Err: err}
	}

	if result.OnRun != nil {
		result.OnRun(call)
	}

	if result.ExitCode != 0 {
		return result.Output, &ExecError{
			Program:  call.Name,
			Args:     call.Args,
			Output:   result.Output,
			ExitCode: result.ExitCode,
			Err:      fmt.Errorf("exit status %d", result.ExitCode),
		}
	}

	return result.Output, nil
}

// Calls returns every recorded call in order
func (m *MockExecutor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}
