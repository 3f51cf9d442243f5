package status

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/testutil"
	"github.com/azpdev/zshrcman/pkg/types"
)

func newCollector(t *testing.T) (*Collector, *state.Manager, *testutil.TestEnvironment) {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	st, err := state.NewManager(env.Store)
	require.NoError(t, err)
	return NewCollector(st, env.FS, env.Paths), st, env
}

func findCheck(t *testing.T, checks []Check, name string) Check {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found", name)
	return Check{}
}

func TestCollect(t *testing.T) {
	t.Run("empty setup", func(t *testing.T) {
		collector, _, _ := newCollector(t)

		o := collector.Collect()

		assert.Empty(t, o.ActiveProfile)
		assert.Empty(t, o.Profiles)
		assert.Zero(t, o.PackageCount)
		assert.Equal(t, []string{"default"}, o.EnabledGroups)

		assert.Equal(t, CheckOK, findCheck(t, o.Checks, "snapshot").State)
		assert.Equal(t, CheckWarn, findCheck(t, o.Checks, "repository").State)
		assert.Equal(t, CheckOK, findCheck(t, o.Checks, "environment").State)
		assert.Equal(t, CheckOK, findCheck(t, o.Checks, "transition").State)
	})

	t.Run("populated snapshot", func(t *testing.T) {
		collector, st, env := newCollector(t)

		_, err := st.CreateProfile("work", "")
		require.NoError(t, err)
		_, err = st.CreateProfile("home", "")
		require.NoError(t, err)
		require.NoError(t, st.SetActiveProfile("work"))
		_, err = st.SmartInstall("ripgrep", types.ScopeGlobal)
		require.NoError(t, err)
		_, err = st.SmartInstall("jq", types.ScopeGlobal)
		require.NoError(t, err)
		require.NoError(t, st.EnableGroup("brew", ""))
		require.NoError(t, st.SetDevice("mbp", ""))
		when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, st.SetLastSync(when))
		require.NoError(t, st.SetGroupStatus("brew", types.GroupInstallStatus{Installed: true, Success: true}))

		require.NoError(t, env.FS.MkdirAll(filepath.Join(env.Paths.DotfilesDir(), ".git"), 0755))

		o := collector.Collect()

		assert.Equal(t, "work", o.ActiveProfile)
		assert.Equal(t, 2, o.PackageCount)
		assert.Equal(t, []string{"default", "brew"}, o.EnabledGroups)
		assert.Equal(t, "mbp", o.Device.Name)
		require.NotNil(t, o.LastSync)
		assert.Equal(t, when, *o.LastSync)
		assert.True(t, o.GroupStatuses["brew"].Success)

		require.Len(t, o.Profiles, 2)
		assert.Equal(t, "home", o.Profiles[0].Name)
		assert.Equal(t, "work", o.Profiles[1].Name)
		assert.True(t, o.Profiles[1].Active)
		assert.Equal(t, 2, o.Profiles[1].Packages)
		assert.Zero(t, o.Profiles[0].Packages)

		assert.Equal(t, CheckOK, findCheck(t, o.Checks, "repository").State)
	})

	t.Run("projected environment without script warns", func(t *testing.T) {
		collector, st, env := newCollector(t)

		_, err := st.CreateProfile("work", "")
		require.NoError(t, err)
		require.NoError(t, st.SetActiveProfile("work"))
		require.NoError(t, st.SetEnvironmentActive("work", true))

		o := collector.Collect()
		check := findCheck(t, o.Checks, "environment")
		assert.Equal(t, CheckWarn, check.State)
		assert.Contains(t, check.Message, "env write")

		require.NoError(t, env.FS.MkdirAll(env.Paths.EnvDir(), 0755))
		require.NoError(t, env.FS.WriteFile(env.Paths.ActiveEnvScriptPath(), []byte("# env\n"), 0644))

		o = collector.Collect()
		assert.Equal(t, CheckOK, findCheck(t, o.Checks, "environment").State)
	})

	t.Run("active aliases without fragment warn", func(t *testing.T) {
		collector, st, env := newCollector(t)

		require.NoError(t, st.SetActiveAliasGroups([]string{"git"}))

		o := collector.Collect()
		assert.Equal(t, []string{"git"}, o.ActiveAliasGroups)
		assert.Equal(t, CheckWarn, findCheck(t, o.Checks, "aliases").State)

		require.NoError(t, env.FS.MkdirAll(env.Paths.EnvDir(), 0755))
		require.NoError(t, env.FS.WriteFile(env.Paths.AliasScriptPath(), []byte("# zshrcman aliases\n"), 0644))

		o = collector.Collect()
		assert.Equal(t, CheckOK, findCheck(t, o.Checks, "aliases").State)
	})

	t.Run("pending transition surfaces", func(t *testing.T) {
		collector, _, env := newCollector(t)

		journal := env.Paths.TransitionJournalPath()
		require.NoError(t, env.FS.MkdirAll(filepath.Dir(journal), 0755))
		require.NoError(t, env.FS.WriteFile(journal,
			[]byte("id = \"t1\"\nto = \"home\"\ncompleted = []\n"), 0644))

		o := collector.Collect()
		assert.Equal(t, "home", o.PendingTransition)
		check := findCheck(t, o.Checks, "transition")
		assert.Equal(t, CheckWarn, check.State)
		assert.Contains(t, check.Message, "--resume")
	})

	t.Run("corrupt journal reports an error check", func(t *testing.T) {
		collector, _, env := newCollector(t)

		journal := env.Paths.TransitionJournalPath()
		require.NoError(t, env.FS.MkdirAll(filepath.Dir(journal), 0755))
		require.NoError(t, env.FS.WriteFile(journal, []byte("to = [unclosed"), 0644))

		o := collector.Collect()
		assert.Empty(t, o.PendingTransition)
		assert.Equal(t, CheckError, findCheck(t, o.Checks, "transition").State)
	})
}
