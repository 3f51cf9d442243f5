package state

import (
	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/types"
)

// RemovalAction names what a removal resolution actually did
type RemovalAction string

const (
	// ActionDeactivated means only the active profile's membership
	// pair was removed; the ledger entry survives
	ActionDeactivated RemovalAction = "deactivated"

	// ActionUninstalled means the ledger entry was deleted and the
	// package scrubbed from every profile; the caller should invoke
	// the installer's uninstall
	ActionUninstalled RemovalAction = "uninstalled"

	// ActionMarkedUnused means the package was flagged for future
	// cleanup and deactivated for the active profile
	ActionMarkedUnused RemovalAction = "marked-unused"

	// ActionNone means the strategy needed an active profile and none
	// was set; nothing changed
	ActionNone RemovalAction = "none"
)

// Resolution reports the outcome of a removal request
type Resolution struct {
	Package  string
	Strategy types.RemovalStrategy

	// Action is what the resolver actually did
	Action RemovalAction

	// RemainingRefs counts the profiles still depending on the
	// package after the mutation (0 when uninstalled)
	RemainingRefs int

	// InUseBy lists other profiles still referencing the package,
	// reported by the profile-scoped strategies
	InUseBy []string
}

// HandleRemoval resolves a removal request for pkg under the given
// strategy and executes the concrete ledger/registry mutation. An
// unknown package is an error; a missing active profile makes the
// profile-scoped strategies report ActionNone without failing.
func (m *Manager) HandleRemoval(pkg string, strategy types.RemovalStrategy) (*Resolution, error) {
	record, ok := m.snap.Installations[pkg]
	if !ok {
		return nil, errors.Newf(errors.ErrPackageNotFound, "package %q is not installed", pkg)
	}

	active := m.snap.ActiveProfile
	res := &Resolution{Package: pkg, Strategy: strategy}

	switch strategy {
	case types.StrategyDeactivate:
		if active == "" {
			res.Action = ActionNone
			return res, nil
		}
		m.deactivatePair(pkg, active)
		res.Action = ActionDeactivated
		res.RemainingRefs = record.UsageCount()

	case types.StrategyRemoveFromProfile:
		if active == "" {
			res.Action = ActionNone
			return res, nil
		}
		m.deactivatePair(pkg, active)
		res.Action = ActionDeactivated
		res.RemainingRefs = record.UsageCount()
		res.InUseBy = append(res.InUseBy, record.ActiveFor...)

	case types.StrategySmart:
		if record.UsageCount() <= 1 {
			m.uninstall(pkg, record)
			res.Action = ActionUninstalled
		} else {
			if active == "" {
				res.Action = ActionNone
				return res, nil
			}
			m.deactivatePair(pkg, active)
			res.Action = ActionDeactivated
			res.RemainingRefs = record.UsageCount()
			res.InUseBy = append(res.InUseBy, record.ActiveFor...)
		}

	case types.StrategyForce:
		m.uninstall(pkg, record)
		res.Action = ActionUninstalled

	case types.StrategyMarkUnused:
		if active == "" {
			res.Action = ActionNone
			return res, nil
		}
		// Garbage-collection state is not modeled yet; the mark is
		// recorded in the log only.
		m.logger.Info().Str("package", pkg).Msg("Package marked for future cleanup")
		m.deactivatePair(pkg, active)
		res.Action = ActionMarkedUnused
		res.RemainingRefs = record.UsageCount()

	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown removal strategy %q", strategy)
	}

	if err := m.persist(); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("package", pkg).
		Str("strategy", string(strategy)).
		Str("action", string(res.Action)).
		Int("remaining_refs", res.RemainingRefs).
		Msg("Removal resolved")
	return res, nil
}

// uninstall deletes the ledger entry and scrubs the package from
// every profile's package set
func (m *Manager) uninstall(pkg string, record *types.InstallationRecord) {
	delete(m.snap.Installations, pkg)
	for _, p := range m.snap.Profiles {
		p.RemovePackage(pkg)
	}
	record.ActiveFor = []string{}
}
