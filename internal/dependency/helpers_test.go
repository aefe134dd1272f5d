package dependency

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/git"
	"github.com/frinkifail/dreamcpp/internal/index"
	"github.com/frinkifail/dreamcpp/internal/models"
)

const (
	depsRoot     = "/workspace/app/build/deps"
	includesRoot = "/workspace/app/build/includes"
	manifestPath = "/workspace/app/dreamcpp.toml"
)

type fakeResolver struct {
	entries map[string]*models.IndexEntry
	calls   []string
	resets  int
}

func newFakeResolver(entries ...*models.IndexEntry) *fakeResolver {
	r := &fakeResolver{entries: make(map[string]*models.IndexEntry)}
	for _, e := range entries {
		r.entries[e.Name] = e
	}
	return r
}

func (r *fakeResolver) Resolve(_ context.Context, name string) (*models.IndexEntry, error) {
	r.calls = append(r.calls, name)
	if entry, ok := r.entries[name]; ok {
		return entry, nil
	}
	return nil, index.ErrNotFound
}

func (r *fakeResolver) Reset() {
	r.resets++
}

type fixture struct {
	fs       *filesystem.MockFileSystem
	git      *git.MockGitClient
	resolver *fakeResolver
	m        *Materializer
}

var (
	fmtEntry = &models.IndexEntry{
		Name:       "fmt",
		SourceURL:  "https://github.com/fmtlib/fmt.git",
		HeaderOnly: true,
	}
	spdlogEntry = &models.IndexEntry{
		Name:      "spdlog",
		SourceURL: "https://github.com/gabime/spdlog.git",
		Branch:    "v1.x",
	}
)

func newFixture(entries ...*models.IndexEntry) *fixture {
	fs := filesystem.NewMockFileSystem()
	fs.SetCurrentDir("/workspace/app")
	fs.AddDir("/workspace/app")

	gitClient := git.NewMockGitClient(fs)
	gitClient.AddRemote(&git.MockRemote{
		URL: fmtEntry.SourceURL,
		Files: map[string]string{
			"include/fmt/core.h": "#pragma once\n",
			"CMakeLists.txt":     "project(fmt)\n",
		},
	})
	gitClient.AddRemote(&git.MockRemote{
		URL:      spdlogEntry.SourceURL,
		Files:    map[string]string{"include/spdlog/spdlog.h": "#pragma once\n"},
		Branches: []string{"v1.x"},
	})

	resolver := newFakeResolver(entries...)
	layout := Layout{DepsRoot: depsRoot, IncludesRoot: includesRoot}

	return &fixture{
		fs:       fs,
		git:      gitClient,
		resolver: resolver,
		m:        NewMaterializer(fs, gitClient, resolver, layout, zerolog.Nop(), nil),
	}
}
