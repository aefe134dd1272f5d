package workspace

import (
	"path/filepath"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/manifest"
	"github.com/frinkifail/dreamcpp/internal/models"
)

// WorkspaceBuilder helps create test projects
type WorkspaceBuilder struct {
	fs   *filesystem.MockFileSystem
	root string
	cfg  *models.ProjectConfig
}

// NewWorkspaceBuilder creates a project named after root's base directory
func NewWorkspaceBuilder(root string) *WorkspaceBuilder {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir(root)
	fs.SetCurrentDir(root)

	return &WorkspaceBuilder{
		fs:   fs,
		root: root,
		cfg:  models.NewProjectConfig(filepath.Base(root)),
	}
}

// AddDependency declares a fetched dependency
func (wb *WorkspaceBuilder) AddDependency(name string) *WorkspaceBuilder {
	wb.cfg.Deps = append(wb.cfg.Deps, models.NewDependency(name))
	return wb
}

// AddSystemDependency declares a host library
func (wb *WorkspaceBuilder) AddSystemDependency(name string) *WorkspaceBuilder {
	wb.cfg.Deps = append(wb.cfg.Deps, models.Dependency{Name: name, Version: models.DefaultDependencyVersion, System: true})
	return wb
}

// AddInclude declares an extra include directory
func (wb *WorkspaceBuilder) AddInclude(dir string) *WorkspaceBuilder {
	wb.cfg.Includes = append(wb.cfg.Includes, dir)
	return wb
}

// AddSource adds a file below src
func (wb *WorkspaceBuilder) AddSource(rel, content string) *WorkspaceBuilder {
	wb.fs.AddFile(filepath.Join(wb.root, "src", rel), []byte(content))
	return wb
}

// AddClone pretends name was already cloned into build/deps
func (wb *WorkspaceBuilder) AddClone(name string) *WorkspaceBuilder {
	wb.fs.AddFile(filepath.Join(wb.root, "build", "deps", name, ".git", "HEAD"), []byte("ref: refs/heads/main\n"))
	return wb
}

// Configure edits the manifest before it is written
func (wb *WorkspaceBuilder) Configure(fn func(cfg *models.ProjectConfig)) *WorkspaceBuilder {
	fn(wb.cfg)
	return wb
}

// Build writes dreamcpp.toml and returns the filesystem
func (wb *WorkspaceBuilder) Build() *filesystem.MockFileSystem {
	if err := manifest.Save(wb.fs, wb.cfg, filepath.Join(wb.root, manifest.FileName)); err != nil {
		panic(err)
	}
	return wb.fs
}

// FileSystem returns the mock filesystem
func (wb *WorkspaceBuilder) FileSystem() *filesystem.MockFileSystem {
	return wb.fs
}
