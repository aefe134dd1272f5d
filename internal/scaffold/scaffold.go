// Package scaffold creates new dreamcpp projects.
package scaffold

import (
	"bytes"
	"embed"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/manifest"
	"github.com/frinkifail/dreamcpp/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	ErrExists      = eris.New("project directory already exists")
	ErrInvalidName = models.ErrInvalidName
)

// Options describe the project to create. Empty fields take the manifest
// defaults.
type Options struct {
	Name              string
	Standard          string
	PreferredCompiler string
}

// Layout is the set of project-relative paths a new project gets.
type Layout struct {
	ManifestFile string
	BuildDir     string
	IncludesDir  string
	LibDir       string
}

type templateData struct {
	Name     string
	Standard string
	BuildDir string
}

// starter files, keyed by project-relative path
var starters = map[string]string{
	"src/main.cpp": "main.cpp.tmpl",
	".gitignore":   "gitignore.tmpl",
}

// Scaffolder creates project skeletons.
type Scaffolder struct {
	fs     filesystem.FileSystem
	layout Layout
	log    zerolog.Logger
}

// NewScaffolder creates a Scaffolder.
func NewScaffolder(fs filesystem.FileSystem, layout Layout, log zerolog.Logger) *Scaffolder {
	return &Scaffolder{fs: fs, layout: layout, log: log}
}

// ValidateName rejects project names that are not a single path component.
func ValidateName(name string) error {
	if err := models.ValidateName(strings.TrimSpace(name)); err != nil {
		return eris.Wrap(err, "invalid project name")
	}
	return nil
}

// Create makes parent/<name> with its source and build directories, the
// manifest and the starter files. It returns the project directory.
func (s *Scaffolder) Create(parent string, opts Options) (string, error) {
	if err := ValidateName(opts.Name); err != nil {
		return "", err
	}
	name := strings.TrimSpace(opts.Name)

	dir := filepath.Join(parent, name)
	if s.fs.Exists(dir) {
		return "", eris.Wrapf(ErrExists, "'%s' already exists", dir)
	}

	cfg := models.NewProjectConfig(name)
	if opts.Standard != "" {
		cfg.Standard = opts.Standard
	}
	if opts.PreferredCompiler != "" {
		cfg.PreferredCompiler = opts.PreferredCompiler
	}

	for _, sub := range []string{"src", s.layout.BuildDir, s.layout.IncludesDir, s.layout.LibDir} {
		if err := s.fs.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return "", eris.Wrapf(err, "failed to create %s", sub)
		}
	}

	if err := manifest.Save(s.fs, cfg, filepath.Join(dir, s.layout.ManifestFile)); err != nil {
		return "", err
	}

	data := templateData{Name: cfg.Name, Standard: cfg.Standard, BuildDir: filepath.ToSlash(s.layout.BuildDir)}
	for rel, tmplName := range starters {
		content, err := Render(tmplName, data)
		if err != nil {
			return "", err
		}
		if err := s.fs.WriteFile(filepath.Join(dir, filepath.FromSlash(rel)), content, 0644); err != nil {
			return "", eris.Wrapf(err, "failed to write %s", rel)
		}
	}

	s.log.Info().Str("dir", dir).Msgf("created project %s", name)
	return dir, nil
}

// Render executes one embedded starter template.
func Render(name string, data interface{}) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templateFS, path.Join("templates", name))
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, eris.Wrapf(err, "failed to render template %s", name)
	}
	return buf.Bytes(), nil
}
