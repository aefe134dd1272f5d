package dependency

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/git"
	"github.com/frinkifail/dreamcpp/internal/manifest"
	"github.com/frinkifail/dreamcpp/internal/models"
)

// CheckPreconditions verifies that manifestPath exists and that git runs.
func CheckPreconditions(ctx context.Context, fs filesystem.FileSystem, gitClient git.GitClient, manifestPath string) error {
	if !fs.Exists(manifestPath) {
		return eris.Wrapf(ErrPrecondition, "couldn't find %s; is this a dreamcpp project?", manifestPath)
	}

	if _, err := gitClient.WithContext(ctx).Version(); err != nil {
		return eris.Wrapf(ErrPrecondition, "git is not available: %v", err)
	}

	return nil
}

// Adder declares new dependencies in a project's manifest.
type Adder struct {
	fs           filesystem.FileSystem
	git          git.GitClient
	resolver     Resolver
	manifestPath string
	log          zerolog.Logger
}

// NewAdder creates an Adder writing to manifestPath.
func NewAdder(fs filesystem.FileSystem, gitClient git.GitClient, resolver Resolver, manifestPath string, log zerolog.Logger) *Adder {
	return &Adder{
		fs:           fs,
		git:          gitClient,
		resolver:     resolver,
		manifestPath: manifestPath,
		log:          log,
	}
}

// Add declares name with version "latest" once it resolves, and stores the
// manifest. A name already declared returns cfg untouched without writing.
// cfg itself is never modified; on a store failure the returned error is the
// only result.
func (a *Adder) Add(ctx context.Context, cfg *models.ProjectConfig, name string) (*models.ProjectConfig, error) {
	if err := CheckPreconditions(ctx, a.fs, a.git, a.manifestPath); err != nil {
		return nil, err
	}

	return a.add(ctx, cfg, name)
}

// AddToManifest loads the manifest, naming the project fallbackName when it
// has no name, and adds name to it. It returns the config as loaded and the
// config after the add; both are the same pointer when name was already
// declared.
func (a *Adder) AddToManifest(ctx context.Context, name, fallbackName string) (*models.ProjectConfig, *models.ProjectConfig, error) {
	if err := CheckPreconditions(ctx, a.fs, a.git, a.manifestPath); err != nil {
		return nil, nil, err
	}

	cfg, err := manifest.Load(a.fs, a.manifestPath, fallbackName)
	if err != nil {
		return nil, nil, err
	}

	updated, err := a.add(ctx, cfg, name)
	if err != nil {
		return nil, nil, err
	}

	return cfg, updated, nil
}

func (a *Adder) add(ctx context.Context, cfg *models.ProjectConfig, name string) (*models.ProjectConfig, error) {
	if err := models.ValidateName(name); err != nil {
		return nil, eris.Wrapf(err, "can't add dependency %q", name)
	}

	if cfg.HasDependency(name) {
		a.log.Info().Str("dep", name).Msgf("%s is already a dependency", name)
		return cfg, nil
	}

	resetSession(a.resolver)
	defer resetSession(a.resolver)

	entry, err := a.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, eris.Wrapf(ErrDependencyNotFound, "couldn't find dependency '%s'", name)
	}
	a.log.Debug().Str("dep", name).Str("git", entry.SourceURL).Msg("dependency resolved")

	updated := cfg.Clone()
	updated.Deps = append(updated.Deps, models.NewDependency(name))

	if err := manifest.Save(a.fs, updated, a.manifestPath); err != nil {
		return nil, err
	}

	a.log.Info().Str("dep", name).Msgf("added %s", name)
	return updated, nil
}
