package types

import (
	"strings"
	"time"

	"github.com/azpdev/zshrcman/pkg/errors"
)

// InstallScope describes how widely an installed package is shared
type InstallScope string

const (
	// ScopeSystem is a system-wide installation (package manager level)
	ScopeSystem InstallScope = "system"

	// ScopeGlobal is a user-global installation shared by all profiles
	ScopeGlobal InstallScope = "global"

	// ScopeProfile is an installation owned by a single profile
	ScopeProfile InstallScope = "profile"

	// ScopeLocal is a project-local installation
	ScopeLocal InstallScope = "local"

	// ScopeDevice is an installation tied to the current device
	ScopeDevice InstallScope = "device"
)

// ParseInstallScope converts a user-supplied string into an InstallScope
func ParseInstallScope(s string) (InstallScope, error) {
	switch InstallScope(strings.ToLower(s)) {
	case ScopeSystem, ScopeGlobal, ScopeProfile, ScopeLocal, ScopeDevice:
		return InstallScope(strings.ToLower(s)), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown install scope %q", s).
			WithDetail("valid", "system, global, profile, local, device")
	}
}

// InstallationSource records what caused a package to be installed.
// Sources with a payload encode it after a colon ("profile:work",
// "dependency:openssl") so the value stays a single TOML string.
type InstallationSource string

const (
	// SourceGlobal marks a package installed outside any profile
	SourceGlobal InstallationSource = "global"

	// SourceSystem marks a package owned by the operating system
	SourceSystem InstallationSource = "system"

	// SourceManual marks a package the user installed by hand
	SourceManual InstallationSource = "manual"
)

// ProfileSource returns the source for a package installed by a profile
func ProfileSource(profile string) InstallationSource {
	return InstallationSource("profile:" + profile)
}

// DependencySource returns the source for a package pulled in by another
func DependencySource(pkg string) InstallationSource {
	return InstallationSource("dependency:" + pkg)
}

// IsProfile reports whether the source is a profile installation
func (s InstallationSource) IsProfile() bool {
	return strings.HasPrefix(string(s), "profile:")
}

// ProfileName returns the owning profile for profile sources, else ""
func (s InstallationSource) ProfileName() string {
	if !s.IsProfile() {
		return ""
	}
	return strings.TrimPrefix(string(s), "profile:")
}

// InstallationRecord is one entry of the package ledger
type InstallationRecord struct {
	// Version is the installed version when known
	Version string `toml:"version,omitempty" yaml:"version,omitempty"`

	// InstalledAt is when the record was first created
	InstalledAt time.Time `toml:"installed_at" yaml:"installed_at"`

	// Source records what caused the installation
	Source InstallationSource `toml:"source" yaml:"source"`

	// Scope records how widely the installation is shared
	Scope InstallScope `toml:"scope" yaml:"scope"`

	// Location is the binary's filesystem path when known; packages
	// without a location are skipped by the binary linker
	Location string `toml:"location,omitempty" yaml:"location,omitempty"`

	// Installer names the mechanism that performed the installation
	Installer string `toml:"installer" yaml:"installer"`

	// ActiveFor lists the profiles currently depending on this
	// package, kept sorted for deterministic persistence
	ActiveFor []string `toml:"active_for" yaml:"active_for"`
}

// IsActiveFor reports whether the profile depends on this package
func (r *InstallationRecord) IsActiveFor(profile string) bool {
	return setContains(r.ActiveFor, profile)
}

// ActivateFor adds the profile to the active set. Returns true if the
// set changed.
func (r *InstallationRecord) ActivateFor(profile string) bool {
	changed := !setContains(r.ActiveFor, profile)
	r.ActiveFor = setAdd(r.ActiveFor, profile)
	return changed
}

// DeactivateFor removes the profile from the active set. Removing a
// profile that is not a member is a no-op.
func (r *InstallationRecord) DeactivateFor(profile string) bool {
	changed := setContains(r.ActiveFor, profile)
	r.ActiveFor = setRemove(r.ActiveFor, profile)
	return changed
}

// UsageCount returns how many profiles depend on this package
func (r *InstallationRecord) UsageCount() int {
	return len(r.ActiveFor)
}

// UsedByOthers reports whether any profile besides the excluded one
// depends on this package
func (r *InstallationRecord) UsedByOthers(excluding string) bool {
	for _, p := range r.ActiveFor {
		if p != excluding {
			return true
		}
	}
	return false
}
