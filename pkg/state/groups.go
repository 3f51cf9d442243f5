package state

import (
	"time"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/types"
)

// DefaultGroupName is always installed first when groups are
// dispatched, whether or not it is explicitly enabled.
const DefaultGroupName = "default"

// EnabledGroups returns the shared enabled-group list. The slice is a
// copy; mutations go through EnableGroup and DisableGroup.
func (m *Manager) EnabledGroups() []string {
	out := make([]string, len(m.snap.Groups.Enabled))
	copy(out, m.snap.Groups.Enabled)
	return out
}

// DeviceEnabledGroups returns the enabled list for one device
func (m *Manager) DeviceEnabledGroups(device string) []string {
	enabled := m.snap.Groups.DeviceEnabled[device]
	out := make([]string, len(enabled))
	copy(out, enabled)
	return out
}

// IsGroupEnabled reports whether a group is enabled, in the shared
// list when device is empty or in that device's list otherwise
func (m *Manager) IsGroupEnabled(name, device string) bool {
	if device == "" {
		return containsString(m.snap.Groups.Enabled, name)
	}
	return containsString(m.snap.Groups.DeviceEnabled[device], name)
}

// EnableGroup appends a group to the enabled list, shared when device
// is empty. Enable order is preserved because it is the install order.
func (m *Manager) EnableGroup(name, device string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "group name is empty")
	}

	if device == "" {
		if containsString(m.snap.Groups.Enabled, name) {
			return nil
		}
		m.snap.Groups.Enabled = append(m.snap.Groups.Enabled, name)
		if err := m.persist(); err != nil {
			m.snap.Groups.Enabled = removeString(m.snap.Groups.Enabled, name)
			return err
		}
	} else {
		if containsString(m.snap.Groups.DeviceEnabled[device], name) {
			return nil
		}
		m.snap.Groups.DeviceEnabled[device] = append(m.snap.Groups.DeviceEnabled[device], name)
		if err := m.persist(); err != nil {
			m.snap.Groups.DeviceEnabled[device] = removeString(m.snap.Groups.DeviceEnabled[device], name)
			return err
		}
	}

	m.logger.Info().Str("group", name).Str("device", device).Msg("Group enabled")
	return nil
}

// DisableGroup removes a group from the enabled list; disabling a
// group that is not enabled is a no-op
func (m *Manager) DisableGroup(name, device string) error {
	if device == "" {
		if !containsString(m.snap.Groups.Enabled, name) {
			return nil
		}
		previous := m.snap.Groups.Enabled
		m.snap.Groups.Enabled = removeString(previous, name)
		if err := m.persist(); err != nil {
			m.snap.Groups.Enabled = previous
			return err
		}
	} else {
		if !containsString(m.snap.Groups.DeviceEnabled[device], name) {
			return nil
		}
		previous := m.snap.Groups.DeviceEnabled[device]
		m.snap.Groups.DeviceEnabled[device] = removeString(previous, name)
		if err := m.persist(); err != nil {
			m.snap.Groups.DeviceEnabled[device] = previous
			return err
		}
	}

	m.logger.Info().Str("group", name).Str("device", device).Msg("Group disabled")
	return nil
}

// OrderedGroups returns the install order: the default group first,
// then the shared enabled groups, then the current device's enabled
// groups, with duplicates dropped
func (m *Manager) OrderedGroups() []string {
	ordered := []string{DefaultGroupName}

	for _, name := range m.snap.Groups.Enabled {
		if !containsString(ordered, name) {
			ordered = append(ordered, name)
		}
	}
	for _, name := range m.snap.Groups.DeviceEnabled[m.snap.Device.Name] {
		if !containsString(ordered, name) {
			ordered = append(ordered, name)
		}
	}

	return ordered
}

// GroupStatus returns the last recorded install outcome for a group
func (m *Manager) GroupStatus(name string) (types.GroupInstallStatus, bool) {
	status, ok := m.snap.Groups.Status[name]
	return status, ok
}

// SetGroupStatus records the install outcome for a group
func (m *Manager) SetGroupStatus(name string, status types.GroupInstallStatus) error {
	m.snap.Groups.Status[name] = status
	return m.persist()
}

// ClearGroupStatuses forgets every recorded install outcome
func (m *Manager) ClearGroupStatuses() error {
	m.snap.Groups.Status = map[string]types.GroupInstallStatus{}
	return m.persist()
}

// ActiveAliasGroups returns the alias groups rendered into the shell
// config, as a copy
func (m *Manager) ActiveAliasGroups() []string {
	out := make([]string, len(m.snap.Aliases.Active))
	copy(out, m.snap.Aliases.Active)
	return out
}

// SetActiveAliasGroups replaces the active alias-group list
func (m *Manager) SetActiveAliasGroups(names []string) error {
	previous := m.snap.Aliases.Active
	next := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" && !containsString(next, name) {
			next = append(next, name)
		}
	}

	m.snap.Aliases.Active = next
	if err := m.persist(); err != nil {
		m.snap.Aliases.Active = previous
		return err
	}

	m.logger.Info().Strs("groups", next).Msg("Active alias groups updated")
	return nil
}

// SetRepository records the dotfiles remote. An empty branch keeps the
// current main branch.
func (m *Manager) SetRepository(url, mainBranch string) error {
	m.snap.Repository.URL = url
	if mainBranch != "" {
		m.snap.Repository.MainBranch = mainBranch
	}
	return m.persist()
}

// SetDevice records the device identity. An empty branch derives the
// conventional device/<name> branch.
func (m *Manager) SetDevice(name, branch string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "device name is empty")
	}
	if branch == "" {
		branch = "device/" + name
	}
	m.snap.Device.Name = name
	m.snap.Device.Branch = branch
	return m.persist()
}

// SetLastSync records when the last successful sync finished
func (m *Manager) SetLastSync(t time.Time) error {
	m.snap.Sync.LastSync = &t
	return m.persist()
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}
