// Package build compiles a project's sources with its preferred compiler
// and runs the result.
package build

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/models"
)

// SourceDir holds a project's translation units.
const SourceDir = "src"

var (
	ErrNoSources = eris.New("no source files found")
	ErrCompile   = eris.New("compilation failed")
)

var sourceExtensions = map[string]struct{}{
	".cpp": {},
	".cc":  {},
	".cxx": {},
	".c++": {},
}

// CompileError carries the compiler's output for a failed build.
type CompileError struct {
	Compiler string
	Output   string
	ExitCode int
	Err      error
}

func (e *CompileError) Error() string {
	return "compilation failed with " + e.Compiler
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Layout holds the project-relative directories passed to the compiler.
type Layout struct {
	BuildDir    string
	IncludesDir string
	LibDir      string
}

// Builder compiles a project rooted at Root.
type Builder struct {
	fs     filesystem.FileSystem
	exec   Executor
	root   string
	layout Layout
	log    zerolog.Logger
}

// NewBuilder creates a Builder for the project at root.
func NewBuilder(fs filesystem.FileSystem, exec Executor, root string, layout Layout, log zerolog.Logger) *Builder {
	return &Builder{
		fs:     fs,
		exec:   exec,
		root:   root,
		layout: layout,
		log:    log,
	}
}

// Binary returns the project-relative output path for cfg.
func (b *Builder) Binary(cfg *models.ProjectConfig) string {
	return filepath.Join(b.layout.BuildDir, cfg.Name)
}

// Sources lists the project-relative source files under src, sorted,
// skipping anything the project's .gitignore excludes.
func (b *Builder) Sources() ([]string, error) {
	srcRoot := filepath.Join(b.root, SourceDir)
	if !b.fs.Exists(srcRoot) {
		return nil, eris.Wrapf(ErrNoSources, "source directory %s does not exist", srcRoot)
	}

	ignore, err := b.loadGitIgnore()
	if err != nil {
		return nil, err
	}

	var sources []string
	err = b.fs.WalkDir(srcRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if ignore != nil && path != srcRoot {
			if match := ignore.Relative(rel, entry.IsDir()); match != nil && match.Ignore() {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if entry.IsDir() {
			return nil
		}

		if _, ok := sourceExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			sources = append(sources, rel)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to scan sources")
	}

	if len(sources) == 0 {
		return nil, eris.Wrapf(ErrNoSources, "no sources under %s", srcRoot)
	}

	sort.Strings(sources)
	return sources, nil
}

// Command assembles the compiler invocation: program first, then arguments.
func (b *Builder) Command(cfg *models.ProjectConfig, sources []string) []string {
	cmd := []string{cfg.PreferredCompiler}
	cmd = append(cmd, sources...)
	cmd = append(cmd,
		"-o", b.Binary(cfg),
		"-std="+cfg.Standard,
		"-I"+b.layout.IncludesDir,
		"-L"+b.layout.LibDir,
	)

	for _, inc := range cfg.Includes {
		cmd = append(cmd, "-I"+inc)
	}
	for _, lib := range cfg.SystemLibraries() {
		cmd = append(cmd, "-l"+lib)
	}

	return cmd
}

// Build compiles cfg's sources and returns the binary's path.
func (b *Builder) Build(ctx context.Context, cfg *models.ProjectConfig) (string, error) {
	sources, err := b.Sources()
	if err != nil {
		return "", err
	}

	if err := b.fs.MkdirAll(filepath.Join(b.root, b.layout.BuildDir), 0755); err != nil {
		return "", eris.Wrap(err, "failed to create build directory")
	}

	cmd := b.Command(cfg, sources)
	b.log.Debug().Strs("command", cmd).Msg("compiling")
	b.log.Info().Msgf("compiling %d source file(s) with %s", len(sources), cfg.PreferredCompiler)

	out, err := b.exec.Output(ctx, b.root, cmd[0], cmd[1:]...)
	if err != nil {
		compileErr := &CompileError{Compiler: cfg.PreferredCompiler, Output: out, ExitCode: -1, Err: err}
		var execErr *ExecError
		if errors.As(err, &execErr) {
			compileErr.ExitCode = execErr.ExitCode
		}
		return "", compileErr
	}

	if strings.TrimSpace(out) != "" {
		b.log.Info().Msg(strings.TrimRight(out, "\n"))
	}

	binary := filepath.Join(b.root, b.Binary(cfg))
	b.log.Info().Msgf("built %s", b.Binary(cfg))
	return binary, nil
}

// Run builds cfg and runs the binary attached to streams.
func (b *Builder) Run(ctx context.Context, cfg *models.ProjectConfig, streams Streams, args ...string) error {
	binary, err := b.Build(ctx, cfg)
	if err != nil {
		return err
	}

	b.log.Debug().Str("binary", binary).Strs("args", args).Msg("running")
	if err := b.exec.Attach(ctx, b.root, streams, binary, args...); err != nil {
		return eris.Wrapf(err, "%s failed", cfg.Name)
	}

	return nil
}

func (b *Builder) loadGitIgnore() (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(b.root, ".gitignore")
	if !b.fs.Exists(ignorePath) {
		return nil, nil
	}

	data, err := b.fs.ReadFile(ignorePath)
	if err != nil {
		return nil, eris.Wrap(err, "failed to read .gitignore")
	}

	return gitignore.New(bytes.NewReader(data), b.root, nil), nil
}
