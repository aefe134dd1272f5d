package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryDoc = `
[libx]
git = "https://example.com/libx.git"
aliases = ["x", "libx-old"]

[fmt]
git = "https://github.com/fmtlib/fmt.git"
header = true
branch = "master"

[nogit]
header = true
aliases = ["ng"]

stray = "not a table"
`

func TestParseIndex(t *testing.T) {
	idx, err := ParseIndex([]byte(registryDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"fmt", "libx"}, idx.Names())
	assert.Equal(t, 2, idx.Len())

	entry, ok := idx.Lookup("fmt")
	require.True(t, ok)
	assert.Equal(t, "https://github.com/fmtlib/fmt.git", entry.SourceURL)
	assert.Equal(t, "master", entry.Branch)
	assert.True(t, entry.HeaderOnly)
	assert.Empty(t, entry.Aliases)
}

func TestIndex_LookupAliases(t *testing.T) {
	idx, err := ParseIndex([]byte(registryDoc))
	require.NoError(t, err)

	for _, name := range []string{"x", "libx-old", "libx"} {
		t.Run(name, func(t *testing.T) {
			entry, ok := idx.Lookup(name)
			require.True(t, ok)
			assert.Equal(t, "libx", entry.Name)
			assert.Equal(t, "https://example.com/libx.git", entry.SourceURL)
		})
	}
}

func TestIndex_RowsWithoutGitAreAbsent(t *testing.T) {
	idx, err := ParseIndex([]byte(registryDoc))
	require.NoError(t, err)

	_, ok := idx.Lookup("nogit")
	assert.False(t, ok)

	_, ok = idx.Lookup("ng")
	assert.False(t, ok)

	_, ok = idx.Lookup("stray")
	assert.False(t, ok)
}

func TestIndex_AmbiguousAliases(t *testing.T) {
	doc := `
[zeta]
git = "https://example.com/zeta.git"
aliases = ["shared", "alpha"]

[alpha]
git = "https://example.com/alpha.git"
aliases = ["shared"]
`
	idx, err := ParseIndex([]byte(doc))
	require.NoError(t, err)

	entry, ok := idx.Lookup("shared")
	require.True(t, ok)
	assert.Equal(t, "alpha", entry.Name, "first entry in key order wins")

	entry, ok = idx.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", entry.Name, "direct key beats alias")

	assert.Equal(t, []string{
		"alias 'shared' is claimed by 'alpha' and 'zeta'; 'alpha' wins",
		"alias 'alpha' of 'zeta' is shadowed by entry 'alpha'",
	}, idx.Validate())
}

func TestIndex_ValidateClean(t *testing.T) {
	idx, err := ParseIndex([]byte(registryDoc))
	require.NoError(t, err)

	assert.Empty(t, idx.Validate())
}

func TestParseIndex_Malformed(t *testing.T) {
	_, err := ParseIndex([]byte("[broken"))
	assert.Error(t, err)
}
