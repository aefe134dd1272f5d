package newproject

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frinkifail/dreamcpp/internal/models"
	"github.com/frinkifail/dreamcpp/internal/scaffold"
)

func TestRenderSuccess(t *testing.T) {
	out := RenderSuccess("/workspace/hello", &scaffold.Options{
		Name:              "hello",
		Standard:          "c++20",
		PreferredCompiler: "clang++",
	})

	assert.Contains(t, out, "✓ Project Created")
	assert.Contains(t, out, "directory:")
	assert.Contains(t, out, "/workspace/hello")
	assert.Contains(t, out, "Next: cd hello && dreamcpp run")
}

func TestDefaultsComeFirst(t *testing.T) {
	assert.Equal(t, models.DefaultStandard, Standards[0])
	assert.Equal(t, models.DefaultPreferredCompiler, Compilers[0])
}
