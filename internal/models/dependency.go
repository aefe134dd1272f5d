package models

// Dependency is one entry of a project's declared dependency list.
type Dependency struct {
	// Name identifies the dependency (unique within a project)
	Name string

	// Version is passed through verbatim; it is never compared
	Version string

	// System marks a host-provided library linked with -l<name> and never fetched
	System bool
}

// NewDependency creates a fetched dependency pinned to the default version.
func NewDependency(name string) Dependency {
	return Dependency{
		Name:    name,
		Version: DefaultDependencyVersion,
	}
}

// IndexEntry describes where a dependency's source lives, as read from a
// registry document. Entries are rebuilt from registry text on every
// resolution session and never written back to the manifest.
type IndexEntry struct {
	// Name is the registry key the entry was declared under
	Name string

	// SourceURL is the git remote to clone
	SourceURL string

	// Aliases are alternate names resolving to this entry, in declaration order
	Aliases []string

	// Branch overrides the remote's default branch when non-empty
	Branch string

	// HeaderOnly entries have include/<name> relocated into the shared include tree
	HeaderOnly bool
}

// HasAlias reports whether name is one of the entry's aliases.
func (e *IndexEntry) HasAlias(name string) bool {
	for _, alias := range e.Aliases {
		if alias == name {
			return true
		}
	}
	return false
}
