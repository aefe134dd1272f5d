package models

// Manifest defaults applied field by field when a key is absent.
const (
	DefaultProjectName       = "Dream++ Application"
	DefaultProjectVersion    = "1.0.0"
	DefaultStandard          = "c++20"
	DefaultPreferredCompiler = "clang++"
	DefaultDependencyVersion = "latest"
)

// ProjectConfig is the in-memory form of a project's dreamcpp.toml.
type ProjectConfig struct {
	// Name is the project name, also used for the output binary
	Name string

	// Version is the project's own version string
	Version string

	// Standard is the language standard token passed as -std=
	Standard string

	// PreferredCompiler is the compiler program used by build
	PreferredCompiler string

	// Includes are extra include directories, in declaration order
	Includes []string

	// Deps are the declared dependencies, in declaration order
	Deps []Dependency
}

// NewProjectConfig returns a config carrying every default, named name.
func NewProjectConfig(name string) *ProjectConfig {
	if name == "" {
		name = DefaultProjectName
	}

	return &ProjectConfig{
		Name:              name,
		Version:           DefaultProjectVersion,
		Standard:          DefaultStandard,
		PreferredCompiler: DefaultPreferredCompiler,
		Includes:          []string{},
		Deps:              []Dependency{},
	}
}

// HasDependency reports whether a dependency with the given name is declared.
func (c *ProjectConfig) HasDependency(name string) bool {
	_, ok := c.Dependency(name)
	return ok
}

// Dependency returns the declared dependency with the given name.
func (c *ProjectConfig) Dependency(name string) (Dependency, bool) {
	for _, dep := range c.Deps {
		if dep.Name == name {
			return dep, true
		}
	}
	return Dependency{}, false
}

// SystemLibraries returns the names of all system dependencies in order.
func (c *ProjectConfig) SystemLibraries() []string {
	var libs []string
	for _, dep := range c.Deps {
		if dep.System {
			libs = append(libs, dep.Name)
		}
	}
	return libs
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (c *ProjectConfig) Clone() *ProjectConfig {
	out := *c
	out.Includes = append([]string{}, c.Includes...)
	out.Deps = append([]Dependency{}, c.Deps...)
	return &out
}
