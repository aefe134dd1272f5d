// Package index turns dependency names into source descriptors.
//
// A Resolver consults an ordered list of Sources and returns the first hit.
// The remote registry is the only source that touches the network; it is
// fetched at most once per resolution session.
package index

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"

	"github.com/frinkifail/dreamcpp/internal/manifest"
	"github.com/frinkifail/dreamcpp/internal/models"
)

// Registry row keys.
const (
	KeyGit     = "git"
	KeyHeader  = "header"
	KeyAliases = "aliases"
	KeyBranch  = "branch"
)

var (
	ErrNotFound  = eris.New("dependency not found in index")
	ErrTransport = eris.New("registry unavailable")
	ErrParse     = eris.New("malformed registry document")
)

// FetchError reports a registry that could not be fetched or parsed. It
// matches its Kind and also ErrNotFound, since every lookup against the
// failed registry misses.
type FetchError struct {
	URL    string
	Kind   error
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%v: %s returned status %d", e.Kind, e.URL, e.Status)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind || target == ErrNotFound
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Index is a parsed registry document.
type Index struct {
	entries map[string]*models.IndexEntry
	names   []string
}

// ParseIndex parses registry text. Rows that are not tables or carry no
// git URL are dropped.
func ParseIndex(data []byte) (*Index, error) {
	raw := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, eris.Wrap(err, "failed to decode registry")
	}

	idx := &Index{entries: make(map[string]*models.IndexEntry)}
	doc := manifest.Document(raw)

	for name := range doc {
		row, ok := doc.Table(name)
		if !ok {
			continue
		}

		url := row.String(KeyGit, "")
		if url == "" {
			continue
		}

		aliases, _ := row.Strings(KeyAliases)
		idx.entries[name] = &models.IndexEntry{
			Name:       name,
			SourceURL:  url,
			Aliases:    aliases,
			Branch:     row.String(KeyBranch, ""),
			HeaderOnly: row.Bool(KeyHeader, false),
		}
		idx.names = append(idx.names, name)
	}

	sort.Strings(idx.names)
	return idx, nil
}

// Lookup finds name by key, then by alias. Aliases are scanned in sorted
// key order, so the lexicographically first claimant wins.
func (idx *Index) Lookup(name string) (*models.IndexEntry, bool) {
	if entry, ok := idx.entries[name]; ok {
		return entry, true
	}

	for _, key := range idx.names {
		if entry := idx.entries[key]; entry.HasAlias(name) {
			return entry, true
		}
	}

	return nil, false
}

// Names returns the entry keys in sorted order.
func (idx *Index) Names() []string {
	return append([]string{}, idx.names...)
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.names)
}

// Validate reports aliases that are ambiguous: claimed by several entries,
// or equal to another entry's key (which direct lookup always prefers).
func (idx *Index) Validate() []string {
	var warnings []string
	claimed := make(map[string]string)

	for _, key := range idx.names {
		for _, alias := range idx.entries[key].Aliases {
			if _, ok := idx.entries[alias]; ok && alias != key {
				warnings = append(warnings, fmt.Sprintf("alias '%s' of '%s' is shadowed by entry '%s'", alias, key, alias))
				continue
			}

			if first, ok := claimed[alias]; ok && first != key {
				warnings = append(warnings, fmt.Sprintf("alias '%s' is claimed by '%s' and '%s'; '%s' wins", alias, first, key, first))
				continue
			}
			claimed[alias] = key
		}
	}

	return warnings
}
