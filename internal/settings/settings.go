// Package settings loads dreamcpp's own tool settings (registry location,
// on-disk layout, logging). These are distinct from a project's manifest.
package settings

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"

	"github.com/frinkifail/dreamcpp/internal/logging"
)

// DefaultRegistryURL is the upstream dcpp:core registry document.
const DefaultRegistryURL = "https://raw.githubusercontent.com/frinkifail/dreamcpp/refs/heads/main/index/dcpp%3Acore.toml"

// Settings describes all configuration options
type Settings struct {
	RegistryURL     string        `toml:"registry_url" env:"REGISTRY_URL" default:"https://raw.githubusercontent.com/frinkifail/dreamcpp/refs/heads/main/index/dcpp%3Acore.toml" usage:"Registry document mapping dependency names to git sources"`
	ManifestFile    string        `toml:"manifest_file" env:"MANIFEST_FILE" default:"dreamcpp.toml" usage:"Project manifest file name"`
	BuildDir        string        `toml:"build_dir" env:"BUILD_DIR" default:"build" usage:"Build output directory, relative to the project root"`
	DepsDir         string        `toml:"deps_dir" env:"DEPS_DIR" default:"build/deps" usage:"Where dependencies are cloned, relative to the project root"`
	IncludesDir     string        `toml:"includes_dir" env:"INCLUDES_DIR" default:"build/includes" usage:"Shared include tree for header-only dependencies"`
	LibDir          string        `toml:"lib_dir" env:"LIB_DIR" default:"build/lib" usage:"Library search directory passed as -L"`
	UserIndexDir    string        `toml:"user_index_dir" env:"USER_INDEX_DIR" default:"~/.dreamcpp/index" usage:"User-level local index"`
	ProjectIndexDir string        `toml:"project_index_dir" env:"PROJECT_INDEX_DIR" default:"../index" usage:"Project-relative local index"`
	HTTPTimeout     time.Duration `toml:"http_timeout" env:"HTTP_TIMEOUT" default:"30s" usage:"Timeout for registry requests"`
	LogLevel        string        `toml:"log_level" env:"LOG_LEVEL" default:"info" usage:"debug, info, warn or error"`
	MetricsFile     string        `toml:"metrics_file" env:"METRICS_FILE" usage:"Write Prometheus text-format metrics here after each command"`
}

// Loader initializes an empty settings object and returns a new Loader for
// it. Files are read from the user's ~/.dreamcpp/config.toml when present;
// DREAMCPP_* environment variables override them. Flags belong to cobra.
func Loader() (*Settings, *aconfig.Loader) {
	s := Settings{}
	return &s, aconfig.LoaderFor(&s, aconfig.Config{
		EnvPrefix:          "DREAMCPP",
		SkipFlags:          true,
		AllowUnknownFields: true,
		AllowUnknownEnvs:   true,
		Files:              []string{UserConfigPath()},
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads, expands and validates the settings.
func Load() (*Settings, error) {
	s, loader := Loader()
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "failed to load settings")
	}

	s.Expand()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// UserConfigPath is ~/.dreamcpp/config.toml, or a relative fallback when the
// home directory is unknown.
func UserConfigPath() string {
	return expandHome(filepath.Join("~", ".dreamcpp", "config.toml"))
}

// Expand resolves a leading ~ in directory settings.
func (s *Settings) Expand() {
	s.UserIndexDir = expandHome(s.UserIndexDir)
	s.ProjectIndexDir = expandHome(s.ProjectIndexDir)
}

// Validate verifies that all fields have usable values
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.RegistryURL) == "" {
		return eris.New("invalid value for registry_url: must not be empty")
	}

	if strings.TrimSpace(s.ManifestFile) == "" {
		return eris.New("invalid value for manifest_file: must not be empty")
	}

	if !logging.ValidLevel(s.LogLevel) {
		return eris.Errorf("invalid value for log_level: %s", s.LogLevel)
	}

	if s.HTTPTimeout < 0 {
		return eris.Errorf("invalid value for http_timeout: %s", s.HTTPTimeout)
	}

	return nil
}

// Defaults returns settings carrying only the built-in defaults.
func Defaults() *Settings {
	return &Settings{
		RegistryURL:     DefaultRegistryURL,
		ManifestFile:    "dreamcpp.toml",
		BuildDir:        "build",
		DepsDir:         filepath.Join("build", "deps"),
		IncludesDir:     filepath.Join("build", "includes"),
		LibDir:          filepath.Join("build", "lib"),
		UserIndexDir:    expandHome(filepath.Join("~", ".dreamcpp", "index")),
		ProjectIndexDir: filepath.Join("..", "index"),
		HTTPTimeout:     30 * time.Second,
		LogLevel:        "info",
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// Matches the HOME-less behaviour of leaving "~" in place.
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
