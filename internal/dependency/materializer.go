// Package dependency places declared dependencies on disk and keeps the
// manifest's dependency list up to date.
package dependency

import (
	"context"
	"errors"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/git"
	"github.com/frinkifail/dreamcpp/internal/metrics"
	"github.com/frinkifail/dreamcpp/internal/models"
)

// Resolver turns a dependency name into its index entry.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*models.IndexEntry, error)
}

// Outcome is the result of a successful Materialize.
type Outcome string

const (
	OutcomeMaterialized    Outcome = "materialized"
	OutcomeSkippedExisting Outcome = "skipped-existing"
)

const stagingPrefix = ".staging-"

// Layout names the directories dependencies are placed in.
type Layout struct {
	// DepsRoot receives one clone per dependency, at DepsRoot/<name>
	DepsRoot string

	// IncludesRoot receives include/<name> of header-only dependencies
	IncludesRoot string
}

// Materializer clones a dependency's source exactly once.
type Materializer struct {
	fs       filesystem.FileSystem
	git      git.GitClient
	resolver Resolver
	layout   Layout
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

// NewMaterializer creates a Materializer.
func NewMaterializer(fs filesystem.FileSystem, gitClient git.GitClient, resolver Resolver, layout Layout, log zerolog.Logger, m *metrics.Metrics) *Materializer {
	return &Materializer{
		fs:       fs,
		git:      gitClient,
		resolver: resolver,
		layout:   layout,
		log:      log,
		metrics:  m,
	}
}

// Target returns where name is cloned to.
func (m *Materializer) Target(name string) string {
	return filepath.Join(m.layout.DepsRoot, name)
}

// Materialize ensures DepsRoot/<name> holds the dependency's source. An
// existing target is trusted as-is and neither resolved nor re-cloned.
//
// The clone lands in a staging directory first and is renamed into place,
// so an interrupted clone never leaves a target behind.
func (m *Materializer) Materialize(ctx context.Context, name string) (Outcome, error) {
	if err := models.ValidateName(name); err != nil {
		m.metrics.ObserveMaterialization("invalid-name")
		return "", eris.Wrapf(err, "can't place dependency %q below %s", name, m.layout.DepsRoot)
	}

	log := m.log.With().Str("dep", name).Logger()
	target := m.Target(name)

	if m.fs.Exists(target) {
		log.Info().Msgf("%s already exists, skipping", name)
		m.metrics.ObserveMaterialization(string(OutcomeSkippedExisting))
		return OutcomeSkippedExisting, nil
	}

	entry, err := m.resolver.Resolve(ctx, name)
	if err != nil {
		m.metrics.ObserveMaterialization("unresolved")
		return "", &UnresolvedError{Name: name, Err: err}
	}

	if err := m.clone(ctx, name, entry, target); err != nil {
		m.metrics.ObserveMaterialization("clone-failed")
		return "", err
	}

	if entry.HeaderOnly {
		m.relocateHeaders(log, name, target)
	}

	log.Info().Msgf("cloned %s", name)
	m.metrics.ObserveMaterialization(string(OutcomeMaterialized))
	return OutcomeMaterialized, nil
}

func (m *Materializer) clone(ctx context.Context, name string, entry *models.IndexEntry, target string) error {
	id, err := gonanoid.New()
	if err != nil {
		return eris.Wrap(err, "failed to generate staging directory name")
	}
	staging := filepath.Join(m.layout.DepsRoot, stagingPrefix+id)

	m.log.Info().Str("dep", name).Str("git", entry.SourceURL).Msgf("cloning %s", name)

	out, err := m.git.WithContext(ctx).Clone(entry.SourceURL, staging, git.CloneOptions{Branch: entry.Branch})
	if err != nil {
		_ = m.fs.RemoveAll(staging)

		cloneErr := &CloneError{Name: name, URL: entry.SourceURL, Output: out, ExitCode: -1, Err: err}
		var cmdErr *git.CommandError
		if errors.As(err, &cmdErr) {
			cloneErr.ExitCode = cmdErr.ExitCode
			if cloneErr.Output == "" {
				cloneErr.Output = cmdErr.Output
			}
		}
		return cloneErr
	}

	if err := m.fs.Rename(staging, target); err != nil {
		_ = m.fs.RemoveAll(staging)
		return eris.Wrapf(err, "failed to move clone of '%s' into place", name)
	}

	return nil
}

// relocateHeaders moves <target>/include/<name> into the shared include
// tree. Failure only warns; the clone itself succeeded.
func (m *Materializer) relocateHeaders(log zerolog.Logger, name, target string) {
	src := filepath.Join(target, "include", name)
	dst := filepath.Join(m.layout.IncludesRoot, name)

	if err := m.fs.MkdirAll(m.layout.IncludesRoot, 0755); err != nil {
		log.Warn().Err(err).Msgf("couldn't relocate header library %s", name)
		return
	}

	if err := m.fs.Rename(src, dst); err != nil {
		log.Warn().Err(err).Msgf("couldn't relocate header library %s", name)
		return
	}

	log.Debug().Str("from", src).Str("to", dst).Msg("relocated headers")
}
