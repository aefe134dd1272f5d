package index

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/metrics"
	"github.com/frinkifail/dreamcpp/internal/models"
)

// Source is one place a dependency name can be resolved. A miss returns an
// error matching ErrNotFound.
type Source interface {
	Name() string
	Lookup(ctx context.Context, name string) (*models.IndexEntry, error)
}

// LocalSource is an on-disk index directory. Local indexes have no defined
// format yet, so a LocalSource only notes whether its directory exists and
// always misses.
type LocalSource struct {
	name string
	dir  string
	fs   filesystem.FileSystem
	log  zerolog.Logger
}

// NewLocalSource creates a LocalSource for dir.
func NewLocalSource(name, dir string, fs filesystem.FileSystem, log zerolog.Logger) *LocalSource {
	return &LocalSource{name: name, dir: dir, fs: fs, log: log}
}

func (s *LocalSource) Name() string {
	return s.name
}

func (s *LocalSource) Lookup(ctx context.Context, name string) (*models.IndexEntry, error) {
	if s.fs.Exists(s.dir) {
		s.log.Debug().Str("dep", name).Str("dir", s.dir).Msgf("%s index found, not searched", s.name)
	} else {
		s.log.Debug().Str("dep", name).Str("dir", s.dir).Msgf("no %s index", s.name)
	}

	return nil, eris.Wrapf(ErrNotFound, "'%s' not in %s index", name, s.name)
}

// RemoteSource is the registry document served over HTTP. The parsed index,
// or the failure to get it, is kept until Reset.
type RemoteSource struct {
	url     string
	client  *http.Client
	log     zerolog.Logger
	metrics *metrics.Metrics

	fetched bool
	index   *Index
	err     error
}

// NewRemoteSource creates a RemoteSource for url. A zero timeout means no
// client-side timeout.
func NewRemoteSource(url string, timeout time.Duration, log zerolog.Logger, m *metrics.Metrics) *RemoteSource {
	return &RemoteSource{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		log:     log,
		metrics: m,
	}
}

func (s *RemoteSource) Name() string {
	return "remote"
}

// URL returns the registry location.
func (s *RemoteSource) URL() string {
	return s.url
}

// Reset forgets the cached index so the next lookup fetches again.
func (s *RemoteSource) Reset() {
	s.fetched = false
	s.index = nil
	s.err = nil
}

func (s *RemoteSource) Lookup(ctx context.Context, name string) (*models.IndexEntry, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := idx.Lookup(name)
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "'%s' not in registry", name)
	}

	return entry, nil
}

// Index returns the session's parsed registry, fetching it on first use.
func (s *RemoteSource) Index(ctx context.Context) (*Index, error) {
	if !s.fetched {
		s.index, s.err = s.fetch(ctx)
		s.fetched = true

		if s.err != nil {
			s.log.Warn().Err(s.err).Msg("failed to fetch repository index")
		} else {
			for _, warning := range s.index.Validate() {
				s.log.Warn().Str("registry", s.url).Msg(warning)
			}
		}
	}

	return s.index, s.err
}

func (s *RemoteSource) fetch(ctx context.Context) (*Index, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &FetchError{URL: s.url, Kind: ErrTransport, Err: err}
	}

	s.log.Debug().Str("registry", s.url).Msg("fetching repository index")

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.ObserveRegistryFetch("error", time.Since(start))
		return nil, &FetchError{URL: s.url, Kind: ErrTransport, Err: err}
	}
	defer resp.Body.Close()

	s.metrics.ObserveRegistryFetch(strconv.Itoa(resp.StatusCode), time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: s.url, Kind: ErrTransport, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: s.url, Kind: ErrTransport, Err: err}
	}

	idx, err := ParseIndex(body)
	if err != nil {
		return nil, &FetchError{URL: s.url, Kind: ErrParse, Err: err}
	}

	s.log.Debug().Str("registry", s.url).Int("entries", idx.Len()).Msg("parsed repository index")
	return idx, nil
}
