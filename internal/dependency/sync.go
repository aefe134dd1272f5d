package dependency

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/models"
)

// Status is the per-dependency result of a sync.
type Status string

const (
	StatusSynced          Status = "synced"
	StatusSkippedExisting Status = "skipped-existing"
	StatusSkippedSystem   Status = "skipped-system"
	StatusFailed          Status = "failed"
)

// Result describes what Sync did with one dependency.
type Result struct {
	Name   string
	Status Status
	Err    error
}

// Report lists one Result per declared dependency, in declaration order.
type Report struct {
	Results []Result
}

// Failed returns the failed results.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Count returns how many results have status.
func (r Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Progress receives sync progress. The CLI renders it as a progress bar.
type Progress interface {
	Start(total int)
	Step(name string)
	Done()
}

// Syncer brings the dependency tree in line with a project's manifest.
type Syncer struct {
	fs           filesystem.FileSystem
	materializer *Materializer
	log          zerolog.Logger
	progress     Progress
}

// NewSyncer creates a Syncer around materializer.
func NewSyncer(fs filesystem.FileSystem, materializer *Materializer, log zerolog.Logger) *Syncer {
	return &Syncer{
		fs:           fs,
		materializer: materializer,
		log:          log,
	}
}

// WithProgress reports progress to p.
func (s *Syncer) WithProgress(p Progress) *Syncer {
	s.progress = p
	return s
}

// Sync materializes every non-system dependency of cfg in order. A failing
// dependency is recorded and the loop moves on; nothing is rolled back. The
// boolean is true when every attempted dependency succeeded.
func (s *Syncer) Sync(ctx context.Context, cfg *models.ProjectConfig) (Report, bool) {
	var report Report

	layout := s.materializer.layout
	for _, dir := range []string{layout.DepsRoot, layout.IncludesRoot} {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			s.log.Error().Err(err).Str("dir", dir).Msg("couldn't create dependency directory")
			return report, false
		}
	}

	if len(cfg.Deps) == 0 {
		s.log.Info().Msg("no dependencies to sync")
		return report, true
	}

	resetSession(s.materializer.resolver)
	defer resetSession(s.materializer.resolver)

	if s.progress != nil {
		s.progress.Start(len(cfg.Deps))
		defer s.progress.Done()
	}

	ok := true
	for _, dep := range cfg.Deps {
		res := s.syncOne(ctx, dep)
		report.Results = append(report.Results, res)

		if res.Status == StatusFailed {
			ok = false
			s.log.Error().Err(res.Err).Str("dep", dep.Name).Msgf("failed to sync %s", dep.Name)
		}

		if s.progress != nil {
			s.progress.Step(dep.Name)
		}
	}

	return report, ok
}

func (s *Syncer) syncOne(ctx context.Context, dep models.Dependency) Result {
	if dep.System {
		s.log.Debug().Str("dep", dep.Name).Msg("system library, nothing to fetch")
		return Result{Name: dep.Name, Status: StatusSkippedSystem}
	}

	outcome, err := s.materializer.Materialize(ctx, dep.Name)
	switch {
	case err != nil:
		return Result{Name: dep.Name, Status: StatusFailed, Err: err}
	case outcome == OutcomeSkippedExisting:
		return Result{Name: dep.Name, Status: StatusSkippedExisting}
	default:
		return Result{Name: dep.Name, Status: StatusSynced}
	}
}
