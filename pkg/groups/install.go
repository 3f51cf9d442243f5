package groups

import (
	"context"
	"sort"
	"time"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Outcome reports one group's install or uninstall result
type Outcome struct {
	Group     string
	Installer string
	Packages  int
	Err       error
}

// Install dispatches every enabled group, in install order, through
// its package manager and records per-group status in the snapshot. A
// non-empty filter restricts the run to the named groups. A failing
// group is recorded and reported but does not stop later groups.
func (m *Manager) Install(ctx context.Context, only []string) ([]Outcome, error) {
	ordered := m.state.OrderedGroups()

	outcomes := make([]Outcome, 0, len(ordered))
	failures := 0
	for _, name := range ordered {
		if len(only) > 0 && !containsName(only, name) {
			continue
		}

		outcome := m.installGroup(ctx, name)
		outcomes = append(outcomes, outcome)
		if outcome.Err != nil {
			failures++
		}

		if err := m.recordStatus(name, outcome.Err); err != nil {
			return outcomes, err
		}
	}

	if failures > 0 {
		return outcomes, errors.Newf(errors.ErrInstallerFailed,
			"%d of %d groups failed to install", failures, len(outcomes))
	}
	return outcomes, nil
}

// Uninstall reverses the install for every group with recorded status,
// then forgets all statuses. Individual failures are reported in the
// outcomes but do not stop the run.
func (m *Manager) Uninstall(ctx context.Context) ([]Outcome, error) {
	snap := m.state.Snapshot()

	names := make([]string, 0, len(snap.Groups.Status))
	for name, status := range snap.Groups.Status {
		if status.Installed {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	outcomes := make([]Outcome, 0, len(names))
	for _, name := range names {
		outcome := m.uninstallGroup(ctx, name)
		if outcome.Err != nil {
			m.logger.Warn().
				Err(outcome.Err).
				Str("group", name).
				Msg("Group uninstall failed, continuing")
		}
		outcomes = append(outcomes, outcome)
	}

	if err := m.state.ClearGroupStatuses(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// installGroup resolves a group's definition and runs its installer. A
// group with no definition file in either scope installs nothing and
// succeeds, which keeps the always-present default group harmless.
func (m *Manager) installGroup(ctx context.Context, name string) Outcome {
	def, scope, err := m.resolve(name)
	if err != nil {
		return Outcome{Group: name, Err: err}
	}
	if def == nil {
		m.logger.Debug().Str("group", name).Msg("Group has no definition file, nothing to install")
		return Outcome{Group: name}
	}

	inst := m.registry.For(def.Installer())
	outcome := Outcome{
		Group:     name,
		Installer: inst.Name(),
		Packages:  len(def.Packages),
	}

	m.logger.Info().
		Str("group", name).
		Str("installer", inst.Name()).
		Int("packages", len(def.Packages)).
		Msg("Installing group")

	outcome.Err = inst.Install(ctx, def.Packages, scope)
	return outcome
}

func (m *Manager) uninstallGroup(ctx context.Context, name string) Outcome {
	def, _, err := m.resolve(name)
	if err != nil {
		return Outcome{Group: name, Err: err}
	}
	if def == nil {
		return Outcome{Group: name}
	}

	inst := m.registry.For(def.Installer())
	outcome := Outcome{
		Group:     name,
		Installer: inst.Name(),
		Packages:  len(def.Packages),
	}
	outcome.Err = inst.Uninstall(ctx, def.Packages)
	return outcome
}

// resolve looks a group up in the shared scope first and falls back to
// the current device's scope. A nil definition with a nil error means
// no file exists in either.
func (m *Manager) resolve(name string) (*Definition, types.InstallScope, error) {
	def, err := m.Load(name, "")
	if err == nil {
		return def, types.ScopeGlobal, nil
	}
	if !errors.IsErrorCode(err, errors.ErrNotFound) {
		return nil, "", err
	}

	device := m.state.Snapshot().Device.Name
	if device != "" {
		def, err = m.Load(name, device)
		if err == nil {
			return def, types.ScopeDevice, nil
		}
		if !errors.IsErrorCode(err, errors.ErrNotFound) {
			return nil, "", err
		}
	}

	return nil, "", nil
}

func (m *Manager) recordStatus(name string, installErr error) error {
	now := time.Now().UTC()
	status := types.GroupInstallStatus{
		Installed: installErr == nil,
		Success:   installErr == nil,
		Timestamp: &now,
	}
	if installErr != nil {
		status.Error = installErr.Error()
	}
	return m.state.SetGroupStatus(name, status)
}

func containsName(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
