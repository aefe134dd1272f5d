package workspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/settings"
)

func TestWorkspaceDetect_CurrentDirectory(t *testing.T) {
	fs := NewWorkspaceBuilder("/workspace/app").AddDependency("fmt").Build()

	ws := New(fs, settings.Defaults())
	require.NoError(t, ws.Detect())

	assert.Equal(t, "/workspace/app", ws.RootPath)
	assert.Equal(t, "/workspace/app/dreamcpp.toml", ws.ManifestPath)

	cfg, err := ws.Load()
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.Name)
	assert.True(t, cfg.HasDependency("fmt"))
}

func TestWorkspaceDetect_WalksUp(t *testing.T) {
	fs := NewWorkspaceBuilder("/workspace/app").AddSource("main.cpp", "int main() {}\n").Build()
	fs.SetCurrentDir("/workspace/app/src")

	ws := New(fs, settings.Defaults())
	require.NoError(t, ws.Detect())
	assert.Equal(t, "/workspace/app", ws.RootPath)
}

func TestWorkspaceDetect_NotFound(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/workspace/empty")
	fs.SetCurrentDir("/workspace/empty")

	ws := New(fs, settings.Defaults())
	err := ws.Detect()
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "/workspace/empty", ws.RootPath)
	assert.Equal(t, "/workspace/empty/dreamcpp.toml", ws.ManifestPath)
}

func TestWorkspaceDetect_PinnedManifest(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.SetCurrentDir("/workspace")

	ws := New(fs, settings.Defaults(), WithManifest("other/project.toml"))
	require.NoError(t, ws.Detect())
	assert.Equal(t, "/workspace/other", ws.RootPath)
	assert.Equal(t, "/workspace/other/project.toml", ws.ManifestPath)
}

func TestWorkspace_Layouts(t *testing.T) {
	fs := NewWorkspaceBuilder("/workspace/app").Build()

	ws := New(fs, settings.Defaults())
	require.NoError(t, ws.Detect())

	layout := ws.DependencyLayout()
	assert.Equal(t, "/workspace/app/build/deps", layout.DepsRoot)
	assert.Equal(t, "/workspace/app/build/includes", layout.IncludesRoot)

	assert.Equal(t, "build/includes", ws.BuildLayout().IncludesDir)
	assert.Equal(t, "/workspace/index", ws.Settings().ProjectIndexDir)
	assert.Equal(t, "/abs/dir", ws.Path("/abs/dir"))
}
