package types

import "time"

// Repository describes the remote dotfiles repository
type Repository struct {
	// URL is the git remote, empty when sync is unconfigured
	URL string `toml:"url,omitempty" yaml:"url,omitempty"`

	// MainBranch is the shared branch all devices merge through
	MainBranch string `toml:"main_branch,omitempty" yaml:"main_branch,omitempty"`
}

// Device identifies the machine this snapshot belongs to
type Device struct {
	// Name is the user-chosen device name
	Name string `toml:"name,omitempty" yaml:"name,omitempty"`

	// Branch is the device branch, conventionally device/<name>
	Branch string `toml:"branch,omitempty" yaml:"branch,omitempty"`

	// OS is the detected operating system kind
	OS OSKind `toml:"os,omitempty" yaml:"os,omitempty"`
}

// GroupInstallStatus records the outcome of the last install run for
// one group
type GroupInstallStatus struct {
	// Installed marks that an install was attempted for the group
	Installed bool `toml:"installed" yaml:"installed"`

	// Success is whether every package in the group installed cleanly
	Success bool `toml:"success" yaml:"success"`

	// Timestamp is when the install run finished
	Timestamp *time.Time `toml:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	// Error holds the first failure message, empty on success
	Error string `toml:"error,omitempty" yaml:"error,omitempty"`
}

// GroupSettings records which package groups are enabled
type GroupSettings struct {
	// Enabled lists the shared groups enabled on this device
	Enabled []string `toml:"enabled" yaml:"enabled"`

	// DeviceEnabled lists device-scoped groups enabled per device
	DeviceEnabled map[string][]string `toml:"device_enabled,omitempty" yaml:"device_enabled,omitempty"`

	// Status tracks install outcomes keyed by group name
	Status map[string]GroupInstallStatus `toml:"status,omitempty" yaml:"status,omitempty"`
}

// AliasSettings records which alias groups are active
type AliasSettings struct {
	// Active lists the alias groups rendered into the shell config
	Active []string `toml:"active" yaml:"active"`
}

// SyncStatus records the outcome of the last repository sync
type SyncStatus struct {
	// LastSync is when the last successful sync finished
	LastSync *time.Time `toml:"last_sync,omitempty" yaml:"last_sync,omitempty"`
}

// Snapshot is the complete persisted state: the package ledger, the
// profile registry with its active pointer, and the device-level
// settings. Every mutating operation persists the whole snapshot.
type Snapshot struct {
	// ActiveProfile names the single active profile, empty when none
	ActiveProfile string `toml:"active_profile,omitempty" yaml:"active_profile,omitempty"`

	// Installations is the package ledger keyed by package name
	Installations map[string]*InstallationRecord `toml:"installations" yaml:"installations"`

	// Profiles is the profile registry keyed by profile name
	Profiles map[string]*Profile `toml:"profiles" yaml:"profiles"`

	Repository Repository    `toml:"repository" yaml:"repository"`
	Device     Device        `toml:"device" yaml:"device"`
	Groups     GroupSettings `toml:"groups" yaml:"groups"`
	Aliases    AliasSettings `toml:"aliases" yaml:"aliases"`
	Sync       SyncStatus    `toml:"sync" yaml:"sync"`
}

// NewSnapshot returns an empty snapshot with initialized containers
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Installations: map[string]*InstallationRecord{},
		Profiles:      map[string]*Profile{},
		Groups: GroupSettings{
			Enabled:       []string{},
			DeviceEnabled: map[string][]string{},
			Status:        map[string]GroupInstallStatus{},
		},
		Aliases: AliasSettings{
			Active: []string{},
		},
		Repository: Repository{
			MainBranch: "main",
		},
		Device: Device{
			OS: DetectOS(),
		},
	}
}

// Normalize backfills containers left nil by decoding, so callers can
// index maps without nil checks
func (s *Snapshot) Normalize() {
	if s.Installations == nil {
		s.Installations = map[string]*InstallationRecord{}
	}
	if s.Profiles == nil {
		s.Profiles = map[string]*Profile{}
	}
	if s.Groups.Enabled == nil {
		s.Groups.Enabled = []string{}
	}
	if s.Groups.DeviceEnabled == nil {
		s.Groups.DeviceEnabled = map[string][]string{}
	}
	if s.Groups.Status == nil {
		s.Groups.Status = map[string]GroupInstallStatus{}
	}
	if s.Aliases.Active == nil {
		s.Aliases.Active = []string{}
	}
	if s.Repository.MainBranch == "" {
		s.Repository.MainBranch = "main"
	}
	for name, p := range s.Profiles {
		if p.Name == "" {
			p.Name = name
		}
		if p.Packages == nil {
			p.Packages = []string{}
		}
		if p.Environment.Variables == nil {
			p.Environment.Variables = map[string]string{}
		}
		if p.Environment.Aliases == nil {
			p.Environment.Aliases = map[string]string{}
		}
		if p.Environment.PrependPaths == nil {
			p.Environment.PrependPaths = []string{}
		}
		if p.Environment.AppendPaths == nil {
			p.Environment.AppendPaths = []string{}
		}
		if p.OSOverrides == nil {
			p.OSOverrides = map[string]OSOverride{}
		}
	}
	for _, r := range s.Installations {
		if r.ActiveFor == nil {
			r.ActiveFor = []string{}
		}
	}
}
