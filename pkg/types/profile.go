package types

// EnvironmentState is a profile's contribution to the shell
// environment: PATH entries, variables and aliases. Path entries may
// use "~/" or "$HOME" prefixes; expansion happens at projection time.
type EnvironmentState struct {
	// PrependPaths are inserted ahead of the existing PATH, in order
	PrependPaths []string `toml:"prepend_paths" yaml:"prepend_paths"`

	// AppendPaths are inserted after the existing PATH, in order
	AppendPaths []string `toml:"append_paths" yaml:"append_paths"`

	// Variables are exported environment variables
	Variables map[string]string `toml:"variables" yaml:"variables"`

	// Aliases map alias names to their expansions
	Aliases map[string]string `toml:"aliases" yaml:"aliases"`

	// Active reports whether this state is currently projected
	Active bool `toml:"active" yaml:"active"`
}

// NewEnvironmentState returns the default, inactive environment
func NewEnvironmentState() EnvironmentState {
	return EnvironmentState{
		PrependPaths: []string{},
		AppendPaths:  []string{},
		Variables:    map[string]string{},
		Aliases:      map[string]string{},
	}
}

// IsEmpty reports whether the state contributes nothing
func (e *EnvironmentState) IsEmpty() bool {
	return len(e.PrependPaths) == 0 && len(e.AppendPaths) == 0 &&
		len(e.Variables) == 0 && len(e.Aliases) == 0
}

// OSOverride carries per-OS adjustments for a profile. Overrides are
// persisted with the profile but never consulted when projecting the
// environment or resolving packages.
type OSOverride struct {
	// Packages replaces or extends the profile's package list on this OS
	Packages []string `toml:"packages,omitempty" yaml:"packages,omitempty"`

	// Environment adjusts the environment state on this OS
	Environment *EnvironmentState `toml:"environment,omitempty" yaml:"environment,omitempty"`
}

// Profile is one named installation context
type Profile struct {
	// Name is the profile's unique name
	Name string `toml:"name" yaml:"name"`

	// Parent optionally names another profile. The relation is stored
	// and displayed but never walked: packages and environment are not
	// inherited.
	Parent string `toml:"parent,omitempty" yaml:"parent,omitempty"`

	// Packages lists the package names this profile depends on, kept
	// sorted and kept in sync with each record's ActiveFor set
	Packages []string `toml:"packages" yaml:"packages"`

	// Environment is the profile's shell environment contribution
	Environment EnvironmentState `toml:"environment" yaml:"environment"`

	// OSOverrides holds per-OS adjustments, keyed by OSKind
	OSOverrides map[string]OSOverride `toml:"os_overrides,omitempty" yaml:"os_overrides,omitempty"`
}

// NewProfile returns an empty profile with default environment
func NewProfile(name, parent string) *Profile {
	return &Profile{
		Name:        name,
		Parent:      parent,
		Packages:    []string{},
		Environment: NewEnvironmentState(),
		OSOverrides: map[string]OSOverride{},
	}
}

// HasPackage reports whether the profile's package set contains pkg
func (p *Profile) HasPackage(pkg string) bool {
	return setContains(p.Packages, pkg)
}

// AddPackage inserts pkg into the package set. Returns true if the
// set changed.
func (p *Profile) AddPackage(pkg string) bool {
	changed := !setContains(p.Packages, pkg)
	p.Packages = setAdd(p.Packages, pkg)
	return changed
}

// RemovePackage removes pkg from the package set. Removing an absent
// package is a no-op.
func (p *Profile) RemovePackage(pkg string) bool {
	changed := setContains(p.Packages, pkg)
	p.Packages = setRemove(p.Packages, pkg)
	return changed
}
