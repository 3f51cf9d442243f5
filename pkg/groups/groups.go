// Package groups manages package group definitions in the dotfiles
// repository and their enablement in the snapshot. A group is a TOML
// file naming an installer type and a package list; shared groups live
// under groups/ and device-scoped ones under devices/<name>/groups/.
// Enabling a group records it in the snapshot; installing dispatches
// every enabled group through its package manager.
package groups

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/installer"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Definition is the on-disk shape of a group file
type Definition struct {
	Name          string   `toml:"name"`
	InstallerType string   `toml:"installer_type,omitempty"`
	Packages      []string `toml:"packages"`
}

// Installer returns the effective installer type, inferring it from
// the group name when the file does not set one
func (d *Definition) Installer() string {
	if d.InstallerType != "" {
		return d.InstallerType
	}
	return installer.InferType(d.Name)
}

// Entry describes one defined group for listing
type Entry struct {
	Name          string
	InstallerType string
	Packages      []string

	// Enabled reflects the snapshot list the group belongs to
	Enabled bool

	// Device is empty for shared groups
	Device string
}

// Manager performs group file operations and dispatches installs.
// Enablement lives in the snapshot and goes through the state manager.
type Manager struct {
	state    *state.Manager
	registry *installer.Registry
	fs       types.FS
	paths    paths.Paths
	logger   zerolog.Logger
}

// NewManager creates a group manager
func NewManager(st *state.Manager, registry *installer.Registry, fs types.FS, p paths.Paths) *Manager {
	return &Manager{
		state:    st,
		registry: registry,
		fs:       fs,
		paths:    p,
		logger:   logging.GetLogger("groups"),
	}
}

// Load reads a group definition, shared when device is empty. Unknown
// names come back as NOT_FOUND with a fuzzy suggestion when one of the
// defined groups is close.
func (m *Manager) Load(name, device string) (*Definition, error) {
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "group name is empty")
	}

	path := m.groupPath(name, device)
	data, err := m.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, m.notFound(name, device)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read group file %s", path)
	}

	var def Definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse,
			"group file is not valid TOML").
			WithDetail("path", path)
	}
	if def.Name == "" {
		def.Name = name
	}
	if def.Packages == nil {
		def.Packages = []string{}
	}
	return &def, nil
}

// Create writes a fresh group file with an empty package list. The
// installer type may be empty; dispatch then infers it from the name.
func (m *Manager) Create(name, installerType, device string) (*Definition, error) {
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "group name is empty")
	}

	path := m.groupPath(name, device)
	if _, err := m.fs.Stat(path); err == nil {
		return nil, errors.Newf(errors.ErrAlreadyExists, "group %q already exists", name)
	}

	def := &Definition{
		Name:          name,
		InstallerType: installerType,
		Packages:      []string{},
	}
	if err := m.write(path, def); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("group", name).
		Str("installer", def.Installer()).
		Str("device", device).
		Msg("Group created")
	return def, nil
}

// AddPackage adds a package to a group file, keeping the list sorted.
// Adding a package the group already has is a no-op.
func (m *Manager) AddPackage(group, pkg, device string) error {
	if pkg == "" {
		return errors.New(errors.ErrInvalidInput, "package name is empty")
	}

	def, err := m.Load(group, device)
	if err != nil {
		return err
	}
	for _, existing := range def.Packages {
		if existing == pkg {
			return nil
		}
	}

	def.Packages = append(def.Packages, pkg)
	sort.Strings(def.Packages)

	if err := m.write(m.groupPath(group, device), def); err != nil {
		return err
	}
	m.logger.Info().Str("group", group).Str("package", pkg).Msg("Package added to group")
	return nil
}

// RemovePackage removes a package from a group file
func (m *Manager) RemovePackage(group, pkg, device string) error {
	def, err := m.Load(group, device)
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(def.Packages))
	for _, existing := range def.Packages {
		if existing != pkg {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(def.Packages) {
		return errors.Newf(errors.ErrPackageNotFound,
			"package %q is not in group %q", pkg, group)
	}
	def.Packages = kept

	if err := m.write(m.groupPath(group, device), def); err != nil {
		return err
	}
	m.logger.Info().Str("group", group).Str("package", pkg).Msg("Package removed from group")
	return nil
}

// Enable marks a group enabled in the snapshot. The group must have a
// definition file in the matching scope.
func (m *Manager) Enable(name, device string) error {
	if _, err := m.Load(name, device); err != nil {
		return err
	}
	return m.state.EnableGroup(name, device)
}

// Disable removes a group from the enabled list. The definition file
// is not required, so groups whose files were deleted can still be
// disabled.
func (m *Manager) Disable(name, device string) error {
	return m.state.DisableGroup(name, device)
}

// DefinedGroups lists names that have a definition file, shared when
// device is empty. A missing directory means no groups.
func (m *Manager) DefinedGroups(device string) ([]string, error) {
	dir := m.groupsDir(device)
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read groups directory %s", dir)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
	}
	sort.Strings(names)
	return names, nil
}

// List returns every defined group with its enablement: the shared
// groups, plus the device-scoped ones when device is non-empty
func (m *Manager) List(device string) ([]Entry, error) {
	entries, err := m.listScope("")
	if err != nil {
		return nil, err
	}

	if device != "" {
		deviceEntries, err := m.listScope(device)
		if err != nil {
			return nil, err
		}
		entries = append(entries, deviceEntries...)
	}
	return entries, nil
}

func (m *Manager) listScope(device string) ([]Entry, error) {
	names, err := m.DefinedGroups(device)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		def, err := m.Load(name, device)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Name:          name,
			InstallerType: def.Installer(),
			Packages:      def.Packages,
			Enabled:       m.state.IsGroupEnabled(name, device),
			Device:        device,
		})
	}
	return entries, nil
}

func (m *Manager) groupsDir(device string) string {
	if device == "" {
		return m.paths.GroupsDir()
	}
	return m.paths.DeviceGroupsDir(device)
}

func (m *Manager) groupPath(name, device string) string {
	return filepath.Join(m.groupsDir(device), name+".toml")
}

func (m *Manager) write(path string, def *Definition) error {
	data, err := toml.Marshal(def)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode group file")
	}
	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create groups directory %s", filepath.Dir(path))
	}
	if err := m.fs.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write group file %s", path)
	}
	return nil
}

func (m *Manager) notFound(name, device string) error {
	if suggestion := m.suggest(name, device); suggestion != "" {
		return errors.Newf(errors.ErrNotFound,
			"group %q does not exist, did you mean %q?", name, suggestion).
			WithDetail("suggestion", suggestion)
	}
	return errors.Newf(errors.ErrNotFound, "group %q does not exist", name)
}

// suggest fuzzy-ranks the defined group names against the requested
// one and returns the closest match
func (m *Manager) suggest(name, device string) string {
	names, err := m.DefinedGroups(device)
	if err != nil || len(names) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
