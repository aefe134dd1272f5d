package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frinkifail/dreamcpp/internal/build"
	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/workspace"
)

func TestBuildCommand(t *testing.T) {
	fs := workspace.NewWorkspaceBuilder("/workspace/app").
		AddSource("main.cpp", "int main() {}\n").
		AddSystemDependency("pthread").
		AddInclude("vendor").
		Build()
	env := newTestEnv(t, fs)

	require.NoError(t, env.run("build"))

	calls := env.exec.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "clang++", calls[0].Name)
	require.Equal(t, "/workspace/app", calls[0].Dir)
	require.Equal(t, []string{
		"src/main.cpp",
		"-o", "build/app",
		"-std=c++20",
		"-Ibuild/includes",
		"-Lbuild/lib",
		"-Ivendor",
		"-lpthread",
	}, calls[0].Args)
}

func TestBuildCommand_CompileError(t *testing.T) {
	fs := workspace.NewWorkspaceBuilder("/workspace/app").AddSource("main.cpp", "int main( {}\n").Build()
	env := newTestEnv(t, fs)
	env.exec.Results["clang++"] = build.MockResult{
		Output:   "src/main.cpp:1:10: error: expected ')'\n",
		ExitCode: 1,
	}

	err := env.run("build")
	require.True(t, errors.Is(err, build.ErrCompile))
	require.Contains(t, env.errOut.String(), "expected ')'")
}

func TestBuildCommand_NotAProject(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/workspace/src/main.cpp", []byte("int main() {}\n"))
	env := newTestEnv(t, fs)

	err := env.run("build")
	require.Error(t, err)
	require.Contains(t, err.Error(), "is this a dreamcpp project?")
	require.Empty(t, env.exec.Calls())
}

func TestRunCommand(t *testing.T) {
	fs := workspace.NewWorkspaceBuilder("/workspace/app").AddSource("main.cpp", "int main() {}\n").Build()
	env := newTestEnv(t, fs)
	env.exec.Results["/workspace/app/build/app"] = build.MockResult{Output: "Hello from app!\n"}

	require.NoError(t, env.run("run", "--", "--greet", "world"))
	require.Contains(t, env.out.String(), "Hello from app!")

	calls := env.exec.Calls()
	require.Len(t, calls, 2)
	require.True(t, calls[1].Attached)
	require.Equal(t, []string{"--greet", "world"}, calls[1].Args)
}
