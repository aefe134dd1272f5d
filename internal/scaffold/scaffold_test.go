package scaffold

import (
	"errors"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/manifest"
	"github.com/frinkifail/dreamcpp/internal/models"
)

var layout = Layout{
	ManifestFile: "dreamcpp.toml",
	BuildDir:     "build",
	IncludesDir:  "build/includes",
	LibDir:       "build/lib",
}

func TestCreate(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/workspace")
	s := NewScaffolder(fs, layout, zerolog.Nop())

	dir, err := s.Create("/workspace", Options{Name: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "/workspace/hello", dir)

	for _, p := range []string{"src", "build", "build/includes", "build/lib", "src/main.cpp", ".gitignore", "dreamcpp.toml"} {
		assert.True(t, fs.Exists("/workspace/hello/"+p), p)
	}

	cfg, err := manifest.Load(fs, "/workspace/hello/dreamcpp.toml", "ignored")
	require.NoError(t, err)
	assert.Equal(t, models.NewProjectConfig("hello"), cfg)
}

func TestCreate_Options(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	s := NewScaffolder(fs, layout, zerolog.Nop())

	_, err := s.Create("/workspace", Options{Name: "legacy", Standard: "c++17", PreferredCompiler: "g++"})
	require.NoError(t, err)

	cfg, err := manifest.Load(fs, "/workspace/legacy/dreamcpp.toml", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "c++17", cfg.Standard)
	assert.Equal(t, "g++", cfg.PreferredCompiler)
}

func TestCreate_ExistingDirectory(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/workspace/hello/notes.txt", []byte("keep me"))
	s := NewScaffolder(fs, layout, zerolog.Nop())

	_, err := s.Create("/workspace", Options{Name: "hello"})
	assert.True(t, errors.Is(err, ErrExists))
	assert.False(t, fs.Exists("/workspace/hello/dreamcpp.toml"))
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"", "  ", ".", "..", "a/b", `a\b`} {
		assert.True(t, errors.Is(ValidateName(name), ErrInvalidName), name)
	}
	assert.NoError(t, ValidateName("my-app"))
}

func TestRender_Snapshot(t *testing.T) {
	data := templateData{Name: `say "hi"`, Standard: "c++20", BuildDir: "build/"}

	mainCpp, err := Render("main.cpp.tmpl", data)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, string(mainCpp))

	ignore, err := Render("gitignore.tmpl", data)
	require.NoError(t, err)
	assert.Equal(t, "/build/\n*.o\n*.obj\ncompile_commands.json\n.cache/\n", string(ignore))
}
