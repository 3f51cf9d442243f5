// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (uses t.Setenv for isolation)
// PURPOSE: Test path resolution, overrides and home expansion

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azpdev/zshrcman/pkg/paths"
)

func TestNewDefaultsEndInAppDir(t *testing.T) {
	// xdg resolves its base dirs at package init, so only the suffix
	// is asserted here; override behavior is covered below.
	t.Setenv("ZSHRCMAN_DATA_DIR", "")
	t.Setenv("ZSHRCMAN_CONFIG_DIR", "")
	t.Setenv("XDG_STATE_HOME", filepath.Join(t.TempDir(), "state"))

	p, err := paths.New("", "")
	require.NoError(t, err)

	assert.Equal(t, "zshrcman", filepath.Base(p.DataDir()))
	assert.Equal(t, "zshrcman", filepath.Base(p.ConfigDir()))
	assert.Equal(t, "zshrcman", filepath.Base(p.StateDir()))
}

func TestNewRespectsEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ZSHRCMAN_DATA_DIR", "/custom/data")
	t.Setenv("ZSHRCMAN_CONFIG_DIR", "/custom/config")

	p, err := paths.New("", "")
	require.NoError(t, err)

	assert.Equal(t, "/custom/data", p.DataDir())
	assert.Equal(t, "/custom/config", p.ConfigDir())
}

func TestNewExplicitArgsWin(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ZSHRCMAN_DATA_DIR", "/env/data")

	p, err := paths.New("/arg/data", "/arg/config")
	require.NoError(t, err)

	assert.Equal(t, "/arg/data", p.DataDir())
	assert.Equal(t, "/arg/config", p.ConfigDir())
}

func TestDerivedPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ZSHRCMAN_DATA_DIR", "/d")
	t.Setenv("ZSHRCMAN_CONFIG_DIR", "/c")

	p, err := paths.New("", "")
	require.NoError(t, err)

	assert.Equal(t, "/d/dotfiles", p.DotfilesDir())
	assert.Equal(t, "/d/profiles", p.ProfilesDir())
	assert.Equal(t, "/d/profiles/work/bin", p.ProfileBinDir("work"))
	assert.Equal(t, "/d/env", p.EnvDir())
	assert.Equal(t, "/d/env/work.env", p.EnvScriptPath("work"))
	assert.Equal(t, "/d/env/profile.env", p.ActiveEnvScriptPath())
	assert.Equal(t, "/d/dotfiles/groups", p.GroupsDir())
	assert.Equal(t, "/d/dotfiles/devices/laptop/groups", p.DeviceGroupsDir("laptop"))
	assert.Equal(t, "/d/dotfiles/aliases", p.AliasesDir())
	assert.Equal(t, "/c/config.toml", p.SnapshotPath())
	assert.Equal(t, "/c/settings.toml", p.SettingsPath())
	assert.Equal(t, "/d/state/transition.toml", p.TransitionJournalPath())
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde_slash", "~/bin", filepath.Join(home, "bin")},
		{"bare_tilde", "~", home},
		{"tilde_user_untouched", "~other/bin", "~other/bin"},
		{"absolute_untouched", "/usr/local/bin", "/usr/local/bin"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.ExpandHome(tt.in))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ZSHRCMAN_DATA_DIR", "/d")
	t.Setenv("ZSHRCMAN_CONFIG_DIR", "/c")

	p, err := paths.New("", "")
	require.NoError(t, err)

	got, err := p.NormalizePath("~/x/../y")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "y"), got)

	_, err = p.NormalizePath("")
	require.Error(t, err)
}
