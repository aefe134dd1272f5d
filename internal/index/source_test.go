package index

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/metrics"
	"github.com/frinkifail/dreamcpp/internal/settings"
)

type registryServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newRegistryServer(t *testing.T, status int, body string) *registryServer {
	t.Helper()

	rs := &registryServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func TestRemoteSource_Lookup(t *testing.T) {
	srv := newRegistryServer(t, http.StatusOK, registryDoc)
	src := NewRemoteSource(srv.URL, 5*time.Second, zerolog.Nop(), nil)

	entry, err := src.Lookup(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "libx", entry.Name)

	_, err = src.Lookup(context.Background(), "nogit")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRemoteSource_FetchesOncePerSession(t *testing.T) {
	srv := newRegistryServer(t, http.StatusOK, registryDoc)
	src := NewRemoteSource(srv.URL, 5*time.Second, zerolog.Nop(), nil)
	ctx := context.Background()

	for _, name := range []string{"fmt", "libx", "missing", "x"} {
		_, _ = src.Lookup(ctx, name)
	}
	assert.Equal(t, int32(1), srv.hits.Load())

	src.Reset()
	_, err := src.Lookup(ctx, "fmt")
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestRemoteSource_Non200IsNotFound(t *testing.T) {
	srv := newRegistryServer(t, http.StatusNotFound, "404: Not Found")
	src := NewRemoteSource(srv.URL, 5*time.Second, zerolog.Nop(), nil)

	_, err := src.Lookup(context.Background(), "fmt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, ErrTransport))

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.Status)

	// The failure is cached for the session.
	_, _ = src.Lookup(context.Background(), "libx")
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestRemoteSource_TransportFailure(t *testing.T) {
	srv := newRegistryServer(t, http.StatusOK, registryDoc)
	url := srv.URL
	srv.Close()

	src := NewRemoteSource(url, time.Second, zerolog.Nop(), nil)

	_, err := src.Lookup(context.Background(), "fmt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRemoteSource_MalformedRegistry(t *testing.T) {
	srv := newRegistryServer(t, http.StatusOK, "[unterminated")
	src := NewRemoteSource(srv.URL, time.Second, zerolog.Nop(), nil)

	_, err := src.Lookup(context.Background(), "fmt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRemoteSource_RecordsFetchMetrics(t *testing.T) {
	srv := newRegistryServer(t, http.StatusOK, registryDoc)
	m := metrics.New()
	src := NewRemoteSource(srv.URL, time.Second, zerolog.Nop(), m)

	_, err := src.Lookup(context.Background(), "fmt")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "dreamcpp_registry_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLocalSource_AlwaysMisses(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/home/user/.dreamcpp/index/fmt.toml", []byte(`git = "https://example.com/fmt.git"`))

	for _, dir := range []string{"/home/user/.dreamcpp/index", "/nowhere"} {
		src := NewLocalSource("user", dir, fs, zerolog.Nop())

		entry, err := src.Lookup(context.Background(), "fmt")
		assert.Nil(t, entry)
		assert.True(t, errors.Is(err, ErrNotFound))
	}
}

func TestNewDefaultResolver_SourceOrder(t *testing.T) {
	s := settings.Defaults()
	s.UserIndexDir = "/home/user/.dreamcpp/index"

	r := NewDefaultResolver(s, filesystem.NewMockFileSystem(), zerolog.Nop(), nil)

	var names []string
	for _, src := range r.Sources() {
		names = append(names, src.Name())
	}
	assert.Equal(t, []string{"user", "project", "remote"}, names)

	remote, ok := r.Sources()[2].(*RemoteSource)
	require.True(t, ok)
	assert.Equal(t, settings.DefaultRegistryURL, remote.URL())
}
