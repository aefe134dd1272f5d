package index

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/metrics"
	"github.com/frinkifail/dreamcpp/internal/models"
	"github.com/frinkifail/dreamcpp/internal/settings"
)

// Resolver resolves names against an ordered list of sources.
type Resolver struct {
	sources []Source
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewResolver creates a Resolver consulting sources in order.
func NewResolver(log zerolog.Logger, m *metrics.Metrics, sources ...Source) *Resolver {
	return &Resolver{
		sources: sources,
		log:     log,
		metrics: m,
	}
}

// NewDefaultResolver builds the standard chain: user index, project index,
// then the remote registry.
func NewDefaultResolver(s *settings.Settings, fs filesystem.FileSystem, log zerolog.Logger, m *metrics.Metrics) *Resolver {
	return NewResolver(log, m,
		NewLocalSource("user", s.UserIndexDir, fs, log),
		NewLocalSource("project", s.ProjectIndexDir, fs, log),
		NewRemoteSource(s.RegistryURL, s.HTTPTimeout, log, m),
	)
}

// Sources returns the configured sources in lookup order.
func (r *Resolver) Sources() []Source {
	return append([]Source{}, r.sources...)
}

// Resolve returns the first source's entry for name. Source failures only
// degrade this lookup; every miss is reported as ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, name string) (*models.IndexEntry, error) {
	for _, src := range r.sources {
		entry, err := src.Lookup(ctx, name)
		if err == nil {
			r.metrics.ObserveResolution(src.Name(), "hit")
			r.log.Debug().Str("dep", name).Str("source", src.Name()).Str("git", entry.SourceURL).Msg("resolved")
			return entry, nil
		}

		r.metrics.ObserveResolution(src.Name(), resultLabel(err))
	}

	return nil, eris.Wrapf(ErrNotFound, "couldn't find dependency '%s' in any index", name)
}

// Reset starts a new resolution session.
func (r *Resolver) Reset() {
	for _, src := range r.sources {
		if resetter, ok := src.(interface{ Reset() }); ok {
			resetter.Reset()
		}
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrNotFound):
		return "miss"
	default:
		return "error"
	}
}
