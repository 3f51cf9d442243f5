package state

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/types"
)

// DefaultProfileName is the identity used when a package operation
// runs with no active profile. The profile is created on demand so
// the membership symmetry holds for it like for any other profile.
const DefaultProfileName = "default"

// Manager owns the snapshot and performs all ledger and registry
// mutations. It is not safe for concurrent use; the CLI constructs
// one Manager per invocation and the last writer wins on disk.
type Manager struct {
	store  types.Store
	snap   *types.Snapshot
	logger zerolog.Logger
}

// NewManager loads the snapshot from the store and returns a Manager
// bound to it
func NewManager(store types.Store) (*Manager, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, err
	}
	snap.Normalize()

	return &Manager{
		store:  store,
		snap:   snap,
		logger: logging.GetLogger("state"),
	}, nil
}

// Snapshot exposes the live snapshot for read-mostly consumers
// (status, export). Mutations must go through Manager methods so
// every change is persisted.
func (m *Manager) Snapshot() *types.Snapshot {
	return m.snap
}

// ActiveProfile returns the active profile name, "" when none
func (m *Manager) ActiveProfile() string {
	return m.snap.ActiveProfile
}

// Profile returns the named profile
func (m *Manager) Profile(name string) (*types.Profile, error) {
	p, ok := m.snap.Profiles[name]
	if !ok {
		return nil, errors.Newf(errors.ErrProfileNotFound, "profile %q does not exist", name)
	}
	return p, nil
}

// Profiles returns all profiles sorted by name
func (m *Manager) Profiles() []*types.Profile {
	names := make([]string, 0, len(m.snap.Profiles))
	for name := range m.snap.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*types.Profile, 0, len(names))
	for _, name := range names {
		out = append(out, m.snap.Profiles[name])
	}
	return out
}

// Record returns the ledger entry for a package
func (m *Manager) Record(pkg string) (*types.InstallationRecord, error) {
	r, ok := m.snap.Installations[pkg]
	if !ok {
		return nil, errors.Newf(errors.ErrPackageNotFound, "package %q is not installed", pkg)
	}
	return r, nil
}

// PackageNames returns all ledger package names sorted
func (m *Manager) PackageNames() []string {
	names := make([]string, 0, len(m.snap.Installations))
	for name := range m.snap.Installations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsInstalled reports whether the ledger has an entry for pkg
func (m *Manager) IsInstalled(pkg string) bool {
	_, ok := m.snap.Installations[pkg]
	return ok
}

// UsageCount returns how many profiles depend on pkg, 0 when unknown
func (m *Manager) UsageCount(pkg string) int {
	if r, ok := m.snap.Installations[pkg]; ok {
		return r.UsageCount()
	}
	return 0
}

// PackageLocations returns pkg -> location for the profile's packages
// that have a recorded location; the binary linker consumes this
func (m *Manager) PackageLocations(profile string) map[string]string {
	out := map[string]string{}
	p, ok := m.snap.Profiles[profile]
	if !ok {
		return out
	}
	for _, pkg := range p.Packages {
		if r, ok := m.snap.Installations[pkg]; ok && r.Location != "" {
			out[pkg] = r.Location
		}
	}
	return out
}

// CreateProfile adds a new profile with an empty package set and a
// default, inactive environment. The parent name is stored verbatim
// and never resolved.
func (m *Manager) CreateProfile(name, parent string) (*types.Profile, error) {
	if err := validateProfileName(name); err != nil {
		return nil, err
	}
	if _, exists := m.snap.Profiles[name]; exists {
		return nil, errors.Newf(errors.ErrAlreadyExists, "profile %q already exists", name)
	}

	p := types.NewProfile(name, parent)
	m.snap.Profiles[name] = p

	if err := m.persist(); err != nil {
		delete(m.snap.Profiles, name)
		return nil, err
	}

	m.logger.Info().Str("profile", name).Str("parent", parent).Msg("Profile created")
	return p, nil
}

// DeleteProfile removes a profile and scrubs its name from every
// record's active set. The active profile cannot be deleted.
func (m *Manager) DeleteProfile(name string) error {
	if name == m.snap.ActiveProfile && name != "" {
		return errors.Newf(errors.ErrInvalidOperation,
			"profile %q is active; deactivate or switch before deleting", name)
	}
	if _, exists := m.snap.Profiles[name]; !exists {
		return errors.Newf(errors.ErrProfileNotFound, "profile %q does not exist", name)
	}

	delete(m.snap.Profiles, name)
	for _, r := range m.snap.Installations {
		r.DeactivateFor(name)
	}

	if err := m.persist(); err != nil {
		return err
	}

	m.logger.Info().Str("profile", name).Msg("Profile deleted")
	return nil
}

// SetActiveProfile updates the active-profile pointer. An empty name
// clears it. A non-empty name must exist.
func (m *Manager) SetActiveProfile(name string) error {
	if name != "" {
		if _, exists := m.snap.Profiles[name]; !exists {
			return errors.Newf(errors.ErrProfileNotFound, "profile %q does not exist", name)
		}
	}

	previous := m.snap.ActiveProfile
	m.snap.ActiveProfile = name

	if err := m.persist(); err != nil {
		m.snap.ActiveProfile = previous
		return err
	}

	m.logger.Info().Str("from", previous).Str("to", name).Msg("Active profile updated")
	return nil
}

// SetEnvironmentActive flips a profile's environment flag and persists
func (m *Manager) SetEnvironmentActive(name string, active bool) error {
	p, err := m.Profile(name)
	if err != nil {
		return err
	}
	p.Environment.Active = active
	return m.persist()
}

// InstallOutcome reports what SmartInstall did
type InstallOutcome struct {
	// Package is the ledger key
	Package string

	// Profile is the profile that gained (or already had) membership
	Profile string

	// NewInstall is true when a ledger entry was created; the caller
	// is responsible for having invoked the installer first
	NewInstall bool

	// Activated is true when the membership pair actually changed
	Activated bool
}

// SmartInstall records a package for the active profile. If the
// package is already in the ledger only the membership pair is
// updated; otherwise a fresh record is inserted. When no profile is
// active the "default" identity is used, created on demand.
func (m *Manager) SmartInstall(pkg string, scope types.InstallScope) (*InstallOutcome, error) {
	if pkg == "" {
		return nil, errors.New(errors.ErrInvalidInput, "package name is empty")
	}

	profileName := m.snap.ActiveProfile
	if profileName == "" {
		profileName = DefaultProfileName
	}
	profile := m.ensureProfile(profileName)

	outcome := &InstallOutcome{Package: pkg, Profile: profileName}

	record, exists := m.snap.Installations[pkg]
	if !exists {
		record = &types.InstallationRecord{
			InstalledAt: time.Now().UTC(),
			Source:      types.ProfileSource(profileName),
			Scope:       scope,
			Installer:   "auto",
			ActiveFor:   []string{},
		}
		m.snap.Installations[pkg] = record
		outcome.NewInstall = true
	}

	changed := record.ActivateFor(profileName)
	profile.AddPackage(pkg)
	outcome.Activated = changed || outcome.NewInstall

	if err := m.persist(); err != nil {
		if outcome.NewInstall {
			delete(m.snap.Installations, pkg)
			profile.RemovePackage(pkg)
		}
		return nil, err
	}

	m.logger.Info().
		Str("package", pkg).
		Str("profile", profileName).
		Bool("new_install", outcome.NewInstall).
		Msg("Package recorded")
	return outcome, nil
}

// SetPackageLocation records the binary location for a package so the
// linker can expose it in profile bin directories
func (m *Manager) SetPackageLocation(pkg, location string) error {
	r, err := m.Record(pkg)
	if err != nil {
		return err
	}
	r.Location = location
	return m.persist()
}

// Verify checks the registry invariant set and returns a coded error
// naming the first violation found
func (m *Manager) Verify() error {
	if active := m.snap.ActiveProfile; active != "" {
		if _, ok := m.snap.Profiles[active]; !ok {
			return errors.Newf(errors.ErrInternal,
				"active profile %q does not exist", active)
		}
	}

	for pkg, r := range m.snap.Installations {
		for _, f := range r.ActiveFor {
			p, ok := m.snap.Profiles[f]
			if !ok {
				return errors.Newf(errors.ErrInternal,
					"package %q is active for unknown profile %q", pkg, f)
			}
			if !p.HasPackage(pkg) {
				return errors.Newf(errors.ErrInternal,
					"package %q is active for %q but missing from its package set", pkg, f)
			}
		}
	}

	for name, p := range m.snap.Profiles {
		for _, pkg := range p.Packages {
			r, ok := m.snap.Installations[pkg]
			if !ok {
				return errors.Newf(errors.ErrInternal,
					"profile %q lists unknown package %q", name, pkg)
			}
			if !r.IsActiveFor(name) {
				return errors.Newf(errors.ErrInternal,
					"profile %q lists %q but the record does not name it", name, pkg)
			}
		}
	}

	return nil
}

// ensureProfile returns the named profile, creating it when missing
func (m *Manager) ensureProfile(name string) *types.Profile {
	if p, ok := m.snap.Profiles[name]; ok {
		return p
	}
	p := types.NewProfile(name, "")
	m.snap.Profiles[name] = p
	m.logger.Debug().Str("profile", name).Msg("Profile created on demand")
	return p
}

// deactivatePair removes the membership pair for (pkg, profile),
// updating both the record's active set and the profile's package
// set in the same operation
func (m *Manager) deactivatePair(pkg, profileName string) bool {
	changed := false
	if r, ok := m.snap.Installations[pkg]; ok {
		changed = r.DeactivateFor(profileName) || changed
	}
	if p, ok := m.snap.Profiles[profileName]; ok {
		changed = p.RemovePackage(pkg) || changed
	}
	return changed
}

// persist saves the whole snapshot; store errors propagate unchanged
func (m *Manager) persist() error {
	return m.store.Save(m.snap)
}

func validateProfileName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "profile name is empty")
	}
	if strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidInput,
			"profile name %q must be usable as a directory name", name)
	}
	return nil
}
