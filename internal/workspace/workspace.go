// Package workspace locates a dreamcpp project on disk and maps the tool's
// settings onto it.
package workspace

import (
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/frinkifail/dreamcpp/internal/build"
	"github.com/frinkifail/dreamcpp/internal/dependency"
	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/manifest"
	"github.com/frinkifail/dreamcpp/internal/models"
	"github.com/frinkifail/dreamcpp/internal/settings"
)

var ErrNotFound = eris.New("project not found")

// Workspace is a project root with its manifest.
type Workspace struct {
	fs           filesystem.FileSystem
	settings     *settings.Settings
	RootPath     string
	ManifestPath string
}

// Option configures workspace behavior.
type Option func(*Workspace)

// WithManifest pins the manifest path instead of searching for it.
func WithManifest(path string) Option {
	return func(w *Workspace) {
		w.ManifestPath = path
	}
}

// New creates a new Workspace instance.
func New(fs filesystem.FileSystem, s *settings.Settings, options ...Option) *Workspace {
	ws := &Workspace{
		fs:       fs,
		settings: s,
	}

	for _, option := range options {
		option(ws)
	}

	return ws
}

// Detect resolves the project root. A pinned manifest is made absolute
// against the working directory; otherwise the manifest is searched for
// from the working directory upwards. When none is found, the working
// directory is assumed to be the root and ErrNotFound is returned.
func (w *Workspace) Detect() error {
	cwd, err := w.fs.Getwd()
	if err != nil {
		return eris.Wrap(err, "failed to get working directory")
	}

	if w.ManifestPath != "" {
		if !filepath.IsAbs(w.ManifestPath) {
			w.ManifestPath = filepath.Join(cwd, w.ManifestPath)
		}
		w.RootPath = filepath.Dir(w.ManifestPath)
		return nil
	}

	path, found := findFileUp(w.fs, cwd, w.settings.ManifestFile)
	if !found {
		w.RootPath = cwd
		w.ManifestPath = filepath.Join(cwd, w.settings.ManifestFile)
		return eris.Wrapf(ErrNotFound, "no %s in %s or any parent directory", w.settings.ManifestFile, cwd)
	}

	w.RootPath = filepath.Dir(path)
	w.ManifestPath = path
	return nil
}

// Load reads the project's manifest, naming it after the root directory
// when the manifest has no name.
func (w *Workspace) Load() (*models.ProjectConfig, error) {
	return manifest.Load(w.fs, w.ManifestPath, filepath.Base(w.RootPath))
}

// Path resolves a project-relative setting against the root.
func (w *Workspace) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(w.RootPath, rel)
}

// DependencyLayout is where Sync places clones and relocated headers.
func (w *Workspace) DependencyLayout() dependency.Layout {
	return dependency.Layout{
		DepsRoot:     w.Path(w.settings.DepsDir),
		IncludesRoot: w.Path(w.settings.IncludesDir),
	}
}

// BuildLayout is the compiler's view of the project, relative to the root.
func (w *Workspace) BuildLayout() build.Layout {
	return build.Layout{
		BuildDir:    w.settings.BuildDir,
		IncludesDir: w.settings.IncludesDir,
		LibDir:      w.settings.LibDir,
	}
}

// Settings returns a copy of the settings with the project index resolved
// against the root.
func (w *Workspace) Settings() *settings.Settings {
	s := *w.settings
	s.ProjectIndexDir = w.Path(s.ProjectIndexDir)
	return &s
}

func findFileUp(fs filesystem.FileSystem, startDir, filename string) (string, bool) {
	dir := filepath.Clean(startDir)

	for {
		candidate := filepath.Join(dir, filename)
		if fs.Exists(candidate) {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
