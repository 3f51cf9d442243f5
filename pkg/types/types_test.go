// pkg/types/types_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test core model types, enum parsing and set semantics

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/types"
)

func TestParseInstallScope(t *testing.T) {
	tests := []struct {
		input   string
		want    types.InstallScope
		wantErr bool
	}{
		{"global", types.ScopeGlobal, false},
		{"PROFILE", types.ScopeProfile, false},
		{"system", types.ScopeSystem, false},
		{"local", types.ScopeLocal, false},
		{"device", types.ScopeDevice, false},
		{"galaxy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := types.ParseInstallScope(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRemovalStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    types.RemovalStrategy
		wantErr bool
	}{
		{"deactivate", types.StrategyDeactivate, false},
		{"remove-from-profile", types.StrategyRemoveFromProfile, false},
		{"smart", types.StrategySmart, false},
		{"FORCE", types.StrategyForce, false},
		{"mark-unused", types.StrategyMarkUnused, false},
		{"gently", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := types.ParseRemovalStrategy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShellKind(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		kind, err := types.ParseShellKind("pwsh")
		require.NoError(t, err)
		assert.Equal(t, types.ShellPowerShell, kind)

		_, err = types.ParseShellKind("tcsh")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedShell))
	})

	t.Run("rc_paths", func(t *testing.T) {
		home := "/home/u"
		assert.Equal(t, "/home/u/.zshrc", types.ShellZsh.RcPath(home))
		assert.Equal(t, "/home/u/.bashrc", types.ShellBash.RcPath(home))
		assert.Equal(t, "/home/u/.config/fish/config.fish", types.ShellFish.RcPath(home))
		assert.Equal(t, "/home/u/.profile", types.ShellSh.RcPath(home))
		assert.Equal(t, "", types.ShellPowerShell.RcPath(home))
		assert.Equal(t, "", types.ShellCmd.RcPath(home))
	})

	t.Run("posix_family", func(t *testing.T) {
		assert.True(t, types.ShellZsh.IsPosix())
		assert.True(t, types.ShellBash.IsPosix())
		assert.True(t, types.ShellSh.IsPosix())
		assert.False(t, types.ShellFish.IsPosix())
		assert.False(t, types.ShellPowerShell.IsPosix())
	})

	t.Run("detect_from_env", func(t *testing.T) {
		t.Setenv("SHELL", "/usr/local/bin/zsh")
		assert.Equal(t, types.ShellZsh, types.DetectShell())

		t.Setenv("SHELL", "/bin/bash")
		assert.Equal(t, types.ShellBash, types.DetectShell())

		t.Setenv("SHELL", "/usr/bin/fish")
		assert.Equal(t, types.ShellFish, types.DetectShell())
	})
}

func TestInstallationSource(t *testing.T) {
	src := types.ProfileSource("work")
	assert.True(t, src.IsProfile())
	assert.Equal(t, "work", src.ProfileName())
	assert.Equal(t, "profile:work", string(src))

	assert.False(t, types.SourceGlobal.IsProfile())
	assert.Equal(t, "", types.SourceGlobal.ProfileName())

	dep := types.DependencySource("openssl")
	assert.Equal(t, "dependency:openssl", string(dep))
	assert.False(t, dep.IsProfile())
}

func TestInstallationRecordActiveSet(t *testing.T) {
	rec := &types.InstallationRecord{ActiveFor: []string{}}

	assert.True(t, rec.ActivateFor("work"))
	assert.True(t, rec.ActivateFor("home"))
	assert.False(t, rec.ActivateFor("work"), "re-activation should not change the set")

	// Sorted regardless of insertion order
	assert.Equal(t, []string{"home", "work"}, rec.ActiveFor)
	assert.Equal(t, 2, rec.UsageCount())
	assert.True(t, rec.IsActiveFor("home"))
	assert.True(t, rec.UsedByOthers("work"))
	assert.False(t, rec.UsedByOthers(""), "empty exclusion still sees members")

	assert.True(t, rec.DeactivateFor("home"))
	assert.False(t, rec.DeactivateFor("home"), "double deactivation is a no-op")
	assert.Equal(t, []string{"work"}, rec.ActiveFor)
	assert.False(t, rec.UsedByOthers("work"))
}

func TestProfilePackageSet(t *testing.T) {
	p := types.NewProfile("work", "")

	assert.True(t, p.AddPackage("ripgrep"))
	assert.True(t, p.AddPackage("bat"))
	assert.False(t, p.AddPackage("bat"))
	assert.Equal(t, []string{"bat", "ripgrep"}, p.Packages)
	assert.True(t, p.HasPackage("ripgrep"))

	assert.True(t, p.RemovePackage("bat"))
	assert.False(t, p.RemovePackage("bat"))
	assert.False(t, p.HasPackage("bat"))
}

func TestSnapshotNormalize(t *testing.T) {
	snap := &types.Snapshot{
		Profiles: map[string]*types.Profile{
			"work": {},
		},
		Installations: map[string]*types.InstallationRecord{
			"ripgrep": {},
		},
	}

	snap.Normalize()

	require.NotNil(t, snap.Groups.DeviceEnabled)
	require.NotNil(t, snap.Aliases.Active)

	p := snap.Profiles["work"]
	assert.Equal(t, "work", p.Name, "name backfilled from map key")
	assert.NotNil(t, p.Packages)
	assert.NotNil(t, p.Environment.Variables)
	assert.NotNil(t, p.Environment.Aliases)
	assert.NotNil(t, p.OSOverrides)

	assert.NotNil(t, snap.Installations["ripgrep"].ActiveFor)
}

func TestDetectOS(t *testing.T) {
	kind := types.DetectOS()
	assert.Contains(t, []types.OSKind{
		types.OSMacOS, types.OSLinux, types.OSWindows, types.OSUnknown,
	}, kind)
}
