package types

import (
	"strings"

	"github.com/azpdev/zshrcman/pkg/errors"
)

// RemovalStrategy selects how a package removal request is resolved
type RemovalStrategy string

const (
	// StrategyDeactivate removes the package from the active profile
	// only; the ledger entry always survives
	StrategyDeactivate RemovalStrategy = "deactivate"

	// StrategyRemoveFromProfile removes the package from the active
	// profile and reports whether other profiles still use it
	StrategyRemoveFromProfile RemovalStrategy = "remove-from-profile"

	// StrategySmart uninstalls when this profile is the last user,
	// otherwise deactivates and reports the remaining users
	StrategySmart RemovalStrategy = "smart"

	// StrategyForce uninstalls unconditionally and scrubs the package
	// from every profile
	StrategyForce RemovalStrategy = "force"

	// StrategyMarkUnused flags the package for future cleanup and
	// deactivates it for the active profile
	StrategyMarkUnused RemovalStrategy = "mark-unused"
)

// ParseRemovalStrategy converts a user-supplied string into a strategy
func ParseRemovalStrategy(s string) (RemovalStrategy, error) {
	switch RemovalStrategy(strings.ToLower(s)) {
	case StrategyDeactivate, StrategyRemoveFromProfile, StrategySmart,
		StrategyForce, StrategyMarkUnused:
		return RemovalStrategy(strings.ToLower(s)), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown removal strategy %q", s).
			WithDetail("valid", "deactivate, remove-from-profile, smart, force, mark-unused")
	}
}
