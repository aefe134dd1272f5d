// Package manifest reads and writes a project's dreamcpp.toml.
//
// The only supported update path is Load, mutate the returned
// ProjectConfig, then Store(Serialize(cfg)): the file is rewritten as a
// whole, never patched key by key.
package manifest

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/models"
)

// FileName is the manifest's conventional name, also the project-root marker.
const FileName = "dreamcpp.toml"

// Manifest keys.
const (
	KeyName              = "name"
	KeyVersion           = "version"
	KeyStandard          = "standard"
	KeyPreferredCompiler = "preferred_compiler"
	KeyIncludes          = "includes"
	KeyDependencies      = "dependencies"
	KeySystem            = "system"
)

var (
	ErrParse = eris.New("malformed manifest")
	ErrWrite = eris.New("manifest not written")
)

// ParseError reports a manifest that is not valid TOML.
type ParseError struct {
	Path       string
	Diagnostic string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("couldn't parse config file '%s': %s", e.Path, e.Diagnostic)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// WriteError reports a manifest that could not be written. The in-memory
// config is unaffected.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to sync config '%s': %v", e.Path, e.Err)
}

func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Load reads the manifest at path. An empty document yields every default
// with Name set to fallbackName.
func Load(fs filesystem.FileSystem, path, fallbackName string) (*models.ProjectConfig, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read config file '%s'", path)
	}

	return Parse(path, data, fallbackName)
}

// Parse decodes manifest bytes; path is only used in diagnostics.
func Parse(path string, data []byte, fallbackName string) (*models.ProjectConfig, error) {
	raw := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, &ParseError{Path: path, Diagnostic: err.Error()}
	}

	return FromDocument(Document(raw), fallbackName), nil
}

// FromDocument projects a decoded document onto a ProjectConfig, taking the
// default for every absent or mistyped key.
func FromDocument(doc Document, fallbackName string) *models.ProjectConfig {
	cfg := models.NewProjectConfig(fallbackName)

	cfg.Name = doc.String(KeyName, cfg.Name)
	cfg.Version = doc.String(KeyVersion, cfg.Version)
	cfg.Standard = doc.String(KeyStandard, cfg.Standard)
	cfg.PreferredCompiler = doc.String(KeyPreferredCompiler, cfg.PreferredCompiler)

	if includes, ok := doc.Strings(KeyIncludes); ok {
		cfg.Includes = includes
	}

	for _, row := range doc.Tables(KeyDependencies) {
		dep := models.Dependency{
			Name:    row.String(KeyName, ""),
			Version: row.String(KeyVersion, models.DefaultDependencyVersion),
			System:  row.Bool(KeySystem, false),
		}

		if models.ValidateName(dep.Name) != nil || cfg.HasDependency(dep.Name) {
			continue
		}
		cfg.Deps = append(cfg.Deps, dep)
	}

	return cfg
}

// Serialize projects cfg into a document. Resolved source locations are not
// part of ProjectConfig and are therefore never written.
func Serialize(cfg *models.ProjectConfig) Document {
	includes := make([]string, len(cfg.Includes))
	copy(includes, cfg.Includes)

	deps := make([]map[string]interface{}, 0, len(cfg.Deps))
	for _, dep := range cfg.Deps {
		row := map[string]interface{}{
			KeyName:    dep.Name,
			KeyVersion: dep.Version,
		}
		if dep.System {
			row[KeySystem] = true
		}
		deps = append(deps, row)
	}

	return Document{
		KeyName:              cfg.Name,
		KeyVersion:           cfg.Version,
		KeyStandard:          cfg.Standard,
		KeyPreferredCompiler: cfg.PreferredCompiler,
		KeyIncludes:          includes,
		KeyDependencies:      deps,
	}
}

// Encode renders a document as TOML.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""

	if err := enc.Encode(map[string]interface{}(doc)); err != nil {
		return nil, eris.Wrap(err, "failed to encode manifest")
	}

	return buf.Bytes(), nil
}

// Store overwrites path with the encoded document. Failures are reported,
// not retried.
func Store(fs filesystem.FileSystem, doc Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := fs.WriteFile(path, data, 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}

// Save is Store(Serialize(cfg)).
func Save(fs filesystem.FileSystem, cfg *models.ProjectConfig, path string) error {
	return Store(fs, Serialize(cfg), path)
}
