package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/testutil"
	"github.com/azpdev/zshrcman/pkg/types"
)

// sharedPackageManager builds a manager where "ripgrep" is active for
// both work and home, with work as the active profile
func sharedPackageManager(t *testing.T) *Manager {
	t.Helper()
	m, _ := newTestManager(t)

	for _, name := range []string{"work", "home"} {
		_, err := m.CreateProfile(name, "")
		require.NoError(t, err)
		require.NoError(t, m.SetActiveProfile(name))
		_, err = m.SmartInstall("ripgrep", types.ScopeProfile)
		require.NoError(t, err)
	}
	require.NoError(t, m.SetActiveProfile("work"))
	return m
}

func TestHandleRemovalDeactivate(t *testing.T) {
	t.Run("removes only the active membership", func(t *testing.T) {
		m := sharedPackageManager(t)

		res, err := m.HandleRemoval("ripgrep", types.StrategyDeactivate)
		require.NoError(t, err)
		assert.Equal(t, ActionDeactivated, res.Action)
		assert.Equal(t, 1, res.RemainingRefs)

		r, err := m.Record("ripgrep")
		require.NoError(t, err)
		assert.Equal(t, []string{"home"}, r.ActiveFor)

		work, err := m.Profile("work")
		require.NoError(t, err)
		assert.False(t, work.HasPackage("ripgrep"))
		assert.NoError(t, m.Verify())
	})

	t.Run("keeps the ledger entry at zero refs", func(t *testing.T) {
		m, _ := newTestManager(t)
		_, err := m.CreateProfile("work", "")
		require.NoError(t, err)
		require.NoError(t, m.SetActiveProfile("work"))
		_, err = m.SmartInstall("ripgrep", types.ScopeProfile)
		require.NoError(t, err)

		res, err := m.HandleRemoval("ripgrep", types.StrategyDeactivate)
		require.NoError(t, err)
		assert.Equal(t, ActionDeactivated, res.Action)
		assert.Equal(t, 0, res.RemainingRefs)
		assert.True(t, m.IsInstalled("ripgrep"))
	})

	t.Run("tolerates a membership that never existed", func(t *testing.T) {
		m := sharedPackageManager(t)
		_, err := m.CreateProfile("lab", "")
		require.NoError(t, err)
		require.NoError(t, m.SetActiveProfile("lab"))

		res, err := m.HandleRemoval("ripgrep", types.StrategyDeactivate)
		require.NoError(t, err)
		assert.Equal(t, ActionDeactivated, res.Action)
		assert.Equal(t, 2, res.RemainingRefs)
	})

	t.Run("no active profile is a no-op", func(t *testing.T) {
		m := sharedPackageManager(t)
		require.NoError(t, m.SetActiveProfile(""))

		res, err := m.HandleRemoval("ripgrep", types.StrategyDeactivate)
		require.NoError(t, err)
		assert.Equal(t, ActionNone, res.Action)
		assert.Equal(t, 2, m.UsageCount("ripgrep"))
	})
}

func TestHandleRemovalRemoveFromProfile(t *testing.T) {
	t.Run("reports other profiles still using the package", func(t *testing.T) {
		m := sharedPackageManager(t)

		res, err := m.HandleRemoval("ripgrep", types.StrategyRemoveFromProfile)
		require.NoError(t, err)
		assert.Equal(t, ActionDeactivated, res.Action)
		assert.Equal(t, 1, res.RemainingRefs)
		assert.Equal(t, []string{"home"}, res.InUseBy)
		assert.True(t, m.IsInstalled("ripgrep"))
		assert.NoError(t, m.Verify())
	})

	t.Run("no active profile is a no-op", func(t *testing.T) {
		m := sharedPackageManager(t)
		require.NoError(t, m.SetActiveProfile(""))

		res, err := m.HandleRemoval("ripgrep", types.StrategyRemoveFromProfile)
		require.NoError(t, err)
		assert.Equal(t, ActionNone, res.Action)
	})
}

func TestHandleRemovalSmart(t *testing.T) {
	t.Run("last reference uninstalls", func(t *testing.T) {
		m, _ := newTestManager(t)
		_, err := m.CreateProfile("work", "")
		require.NoError(t, err)
		require.NoError(t, m.SetActiveProfile("work"))
		_, err = m.SmartInstall("ripgrep", types.ScopeProfile)
		require.NoError(t, err)

		res, err := m.HandleRemoval("ripgrep", types.StrategySmart)
		require.NoError(t, err)
		assert.Equal(t, ActionUninstalled, res.Action)
		assert.Equal(t, 0, res.RemainingRefs)
		assert.False(t, m.IsInstalled("ripgrep"))

		work, err := m.Profile("work")
		require.NoError(t, err)
		assert.False(t, work.HasPackage("ripgrep"))
		assert.NoError(t, m.Verify())
	})

	t.Run("shared package only deactivates", func(t *testing.T) {
		m := sharedPackageManager(t)

		res, err := m.HandleRemoval("ripgrep", types.StrategySmart)
		require.NoError(t, err)
		assert.Equal(t, ActionDeactivated, res.Action)
		assert.Equal(t, 1, res.RemainingRefs)
		assert.Equal(t, []string{"home"}, res.InUseBy)
		assert.True(t, m.IsInstalled("ripgrep"))
	})

	t.Run("single reference uninstalls even without active profile", func(t *testing.T) {
		m, _ := newTestManager(t)
		_, err := m.CreateProfile("work", "")
		require.NoError(t, err)
		require.NoError(t, m.SetActiveProfile("work"))
		_, err = m.SmartInstall("ripgrep", types.ScopeProfile)
		require.NoError(t, err)
		require.NoError(t, m.SetActiveProfile(""))

		res, err := m.HandleRemoval("ripgrep", types.StrategySmart)
		require.NoError(t, err)
		assert.Equal(t, ActionUninstalled, res.Action)
		assert.False(t, m.IsInstalled("ripgrep"))
	})

	t.Run("shared package without active profile is a no-op", func(t *testing.T) {
		m := sharedPackageManager(t)
		require.NoError(t, m.SetActiveProfile(""))

		res, err := m.HandleRemoval("ripgrep", types.StrategySmart)
		require.NoError(t, err)
		assert.Equal(t, ActionNone, res.Action)
		assert.Equal(t, 2, m.UsageCount("ripgrep"))
	})
}

func TestHandleRemovalForce(t *testing.T) {
	t.Run("uninstalls regardless of usage", func(t *testing.T) {
		m := sharedPackageManager(t)

		res, err := m.HandleRemoval("ripgrep", types.StrategyForce)
		require.NoError(t, err)
		assert.Equal(t, ActionUninstalled, res.Action)
		assert.False(t, m.IsInstalled("ripgrep"))

		for _, name := range []string{"work", "home"} {
			p, err := m.Profile(name)
			require.NoError(t, err)
			assert.False(t, p.HasPackage("ripgrep"), "profile %s should be scrubbed", name)
		}
		assert.NoError(t, m.Verify())
	})

	t.Run("works without an active profile", func(t *testing.T) {
		m := sharedPackageManager(t)
		require.NoError(t, m.SetActiveProfile(""))

		res, err := m.HandleRemoval("ripgrep", types.StrategyForce)
		require.NoError(t, err)
		assert.Equal(t, ActionUninstalled, res.Action)
		assert.False(t, m.IsInstalled("ripgrep"))
	})
}

func TestHandleRemovalMarkUnused(t *testing.T) {
	t.Run("deactivates and keeps the entry", func(t *testing.T) {
		m := sharedPackageManager(t)

		res, err := m.HandleRemoval("ripgrep", types.StrategyMarkUnused)
		require.NoError(t, err)
		assert.Equal(t, ActionMarkedUnused, res.Action)
		assert.Equal(t, 1, res.RemainingRefs)
		assert.True(t, m.IsInstalled("ripgrep"))

		work, err := m.Profile("work")
		require.NoError(t, err)
		assert.False(t, work.HasPackage("ripgrep"))
	})

	t.Run("no active profile is a no-op", func(t *testing.T) {
		m := sharedPackageManager(t)
		require.NoError(t, m.SetActiveProfile(""))

		res, err := m.HandleRemoval("ripgrep", types.StrategyMarkUnused)
		require.NoError(t, err)
		assert.Equal(t, ActionNone, res.Action)
	})
}

func TestHandleRemovalErrors(t *testing.T) {
	t.Run("unknown package fails", func(t *testing.T) {
		m, _ := newTestManager(t)

		_, err := m.HandleRemoval("ghost", types.StrategySmart)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPackageNotFound))
	})

	t.Run("unknown strategy fails", func(t *testing.T) {
		m := sharedPackageManager(t)

		_, err := m.HandleRemoval("ripgrep", types.RemovalStrategy("obliterate"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("persistence failure surfaces unchanged", func(t *testing.T) {
		m, store := newTestManager(t)
		_, err := m.CreateProfile("work", "")
		require.NoError(t, err)
		require.NoError(t, m.SetActiveProfile("work"))
		_, err = m.SmartInstall("ripgrep", types.ScopeProfile)
		require.NoError(t, err)

		saveErr := errors.New(errors.ErrPersistence, "disk full")
		store.SaveErr = saveErr
		_, err = m.HandleRemoval("ripgrep", types.StrategyDeactivate)
		require.Error(t, err)
		assert.Equal(t, saveErr, err)
	})

	t.Run("no-op paths do not save", func(t *testing.T) {
		m := sharedPackageManager(t)
		require.NoError(t, m.SetActiveProfile(""))
		savesBefore := currentSaveCount(t, m)

		_, err := m.HandleRemoval("ripgrep", types.StrategyDeactivate)
		require.NoError(t, err)
		assert.Equal(t, savesBefore, currentSaveCount(t, m))
	})
}

func currentSaveCount(t *testing.T, m *Manager) int {
	t.Helper()
	store, ok := m.store.(*testutil.MemoryStore)
	require.True(t, ok)
	return store.SaveCount
}
