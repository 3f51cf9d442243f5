package environment

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/testutil"
	"github.com/azpdev/zshrcman/pkg/types"
)

// newProjectorFixture wires a zsh projector against the in-memory
// filesystem with a delta shaped like a login shell's environment.
func newProjectorFixture(t *testing.T) (*Projector, *testutil.TestEnvironment, *ProcessEnv) {
	t.Helper()

	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	delta := NewProcessEnv()
	delta.Set("HOME", env.HomeDir)
	delta.Set("PATH", "/usr/bin:/bin")
	return NewProjector(types.ShellZsh, env.FS, env.Paths), env, delta
}

func TestApply(t *testing.T) {
	t.Run("prepends lead and appends trail the existing PATH", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)

		require.NoError(t, p.Apply(fullState(), delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/opt/work/bin:/opt/tools/bin:/usr/bin:/bin:/opt/extras/bin", path)

		editor, _ := delta.Get("EDITOR")
		assert.Equal(t, "nvim", editor)
		cloud, _ := delta.Get("CLOUD")
		assert.Equal(t, "aws", cloud)
	})

	t.Run("expands home prefixes against the delta HOME", func(t *testing.T) {
		p, env, delta := newProjectorFixture(t)
		state := &types.EnvironmentState{
			PrependPaths: []string{"~/bin"},
			AppendPaths:  []string{"$HOME/go/bin"},
			Active:       true,
		}

		require.NoError(t, p.Apply(state, delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, env.HomeDir+"/bin:/usr/bin:/bin:"+env.HomeDir+"/go/bin", path)
	})

	t.Run("components already on PATH are not duplicated", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)
		delta.Set("PATH", "/opt/work/bin:/usr/bin")
		state := &types.EnvironmentState{
			PrependPaths: []string{"/opt/work/bin", "/opt/tools/bin"},
			AppendPaths:  []string{"/usr/bin", "/opt/extras/bin"},
			Active:       true,
		}

		require.NoError(t, p.Apply(state, delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/opt/tools/bin:/opt/work/bin:/usr/bin:/opt/extras/bin", path)
	})

	t.Run("repeated state entries collapse to one component", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)
		delta.Set("PATH", "/usr/bin")
		state := &types.EnvironmentState{
			PrependPaths: []string{"/opt/a", "/opt/a"},
			AppendPaths:  []string{"/opt/a", "/opt/z"},
			Active:       true,
		}

		require.NoError(t, p.Apply(state, delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/opt/a:/usr/bin:/opt/z", path)
	})

	t.Run("double apply changes nothing", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)

		require.NoError(t, p.Apply(fullState(), delta))
		once, _ := delta.Get("PATH")
		require.NoError(t, p.Apply(fullState(), delta))
		twice, _ := delta.Get("PATH")

		assert.Equal(t, once, twice)
	})

	t.Run("inactive state is a no-op", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)
		state := fullState()
		state.Active = false

		require.NoError(t, p.Apply(state, delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/usr/bin:/bin", path)
		_, ok := delta.Get("EDITOR")
		assert.False(t, ok)
	})

	t.Run("nil state is a no-op", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)

		require.NoError(t, p.Apply(nil, delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/usr/bin:/bin", path)
	})

	t.Run("home expansion without HOME fails", func(t *testing.T) {
		p, _, _ := newProjectorFixture(t)
		delta := NewProcessEnv()
		delta.Set("PATH", "/usr/bin")
		state := &types.EnvironmentState{
			PrependPaths: []string{"~/bin"},
			Active:       true,
		}

		err := p.Apply(state, delta)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidOperation))
		assert.Contains(t, err.Error(), "HOME is not set")
	})
}

func TestReverse(t *testing.T) {
	t.Run("undoes an application on the same delta", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)

		require.NoError(t, p.Apply(fullState(), delta))
		require.NoError(t, p.Reverse(fullState(), delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/usr/bin:/bin", path)
		_, ok := delta.Get("EDITOR")
		assert.False(t, ok)
		_, ok = delta.Get("CLOUD")
		assert.False(t, ok)

		home, ok := delta.Get("HOME")
		assert.True(t, ok)
		assert.NotEmpty(t, home)
	})

	t.Run("ignores the active flag", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)
		delta.Set("PATH", "/opt/work/bin:/usr/bin")
		state := &types.EnvironmentState{
			PrependPaths: []string{"/opt/work/bin"},
			Active:       false,
		}

		require.NoError(t, p.Reverse(state, delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/usr/bin", path)
	})

	t.Run("only exact components are dropped", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)
		delta.Set("PATH", "/opt/a-extra:/opt/a/sub:/usr/bin")
		state := &types.EnvironmentState{
			PrependPaths: []string{"/opt/a"},
			Active:       true,
		}

		require.NoError(t, p.Reverse(state, delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/opt/a-extra:/opt/a/sub:/usr/bin", path)
	})

	t.Run("nil state is a no-op", func(t *testing.T) {
		p, _, delta := newProjectorFixture(t)

		require.NoError(t, p.Reverse(nil, delta))

		path, _ := delta.Get("PATH")
		assert.Equal(t, "/usr/bin:/bin", path)
	})
}

func TestWriteScripts(t *testing.T) {
	t.Run("per-profile script lands at the profile path", func(t *testing.T) {
		p, env, _ := newProjectorFixture(t)
		state := fullState()

		path, err := p.WriteScript("work", state)
		require.NoError(t, err)
		assert.Equal(t, env.Paths.EnvScriptPath("work"), path)

		data, err := env.FS.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, p.Render(state), string(data))
	})

	t.Run("active script always uses the stable path", func(t *testing.T) {
		p, env, _ := newProjectorFixture(t)
		state := fullState()

		path, err := p.WriteActiveScript(state)
		require.NoError(t, err)
		assert.Equal(t, env.Paths.ActiveEnvScriptPath(), path)

		data, err := env.FS.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "export EDITOR=\"nvim\"")
	})

	t.Run("switching profiles rewrites the active script in place", func(t *testing.T) {
		p, env, _ := newProjectorFixture(t)

		first, err := p.WriteActiveScript(fullState())
		require.NoError(t, err)

		other := &types.EnvironmentState{
			Variables: map[string]string{"EDITOR": "vim"},
			Active:    true,
		}
		second, err := p.WriteActiveScript(other)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		data, err := env.FS.ReadFile(second)
		require.NoError(t, err)
		assert.Contains(t, string(data), "export EDITOR=\"vim\"")
		assert.NotContains(t, string(data), "nvim")
	})
}

func TestEnsureSourceLine(t *testing.T) {
	t.Run("creates the rc file on first use", func(t *testing.T) {
		p, env, _ := newProjectorFixture(t)
		rcPath := filepath.Join(env.HomeDir, ".zshrc")
		script := env.Paths.ActiveEnvScriptPath()

		changed, err := p.EnsureSourceLine(rcPath, script)
		require.NoError(t, err)
		assert.True(t, changed)

		data, err := env.FS.ReadFile(rcPath)
		require.NoError(t, err)
		line := SourceLine(types.ShellZsh, script)
		assert.Equal(t, "\n# zshrcman environment\n"+line+"\n", string(data))
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		p, env, _ := newProjectorFixture(t)
		rcPath := filepath.Join(env.HomeDir, ".zshrc")
		script := env.Paths.ActiveEnvScriptPath()

		_, err := p.EnsureSourceLine(rcPath, script)
		require.NoError(t, err)
		changed, err := p.EnsureSourceLine(rcPath, script)
		require.NoError(t, err)
		assert.False(t, changed)

		data, err := env.FS.ReadFile(rcPath)
		require.NoError(t, err)
		line := SourceLine(types.ShellZsh, script)
		assert.Equal(t, 1, strings.Count(string(data), line))
	})

	t.Run("existing content is preserved and newline-terminated", func(t *testing.T) {
		p, env, _ := newProjectorFixture(t)
		rcPath := filepath.Join(env.HomeDir, ".zshrc")
		script := env.Paths.ActiveEnvScriptPath()
		require.NoError(t, env.FS.MkdirAll(env.HomeDir, 0755))
		require.NoError(t, env.FS.WriteFile(rcPath, []byte("export FOO=1"), 0644))

		changed, err := p.EnsureSourceLine(rcPath, script)
		require.NoError(t, err)
		assert.True(t, changed)

		data, err := env.FS.ReadFile(rcPath)
		require.NoError(t, err)
		line := SourceLine(types.ShellZsh, script)
		assert.Equal(t, "export FOO=1\n\n# zshrcman environment\n"+line+"\n", string(data))
	})

	t.Run("shells without an rc file are skipped", func(t *testing.T) {
		_, env, _ := newProjectorFixture(t)
		p := NewProjector(types.ShellPowerShell, env.FS, env.Paths)
		rcPath := filepath.Join(env.HomeDir, ".zshrc")

		changed, err := p.EnsureSourceLine(rcPath, env.Paths.ActiveEnvScriptPath())
		require.NoError(t, err)
		assert.False(t, changed)

		_, err = env.FS.Stat(rcPath)
		assert.Error(t, err, "no rc file should be created")
	})

	t.Run("empty rc path is skipped", func(t *testing.T) {
		p, env, _ := newProjectorFixture(t)

		changed, err := p.EnsureSourceLine("", env.Paths.ActiveEnvScriptPath())
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestProcessEnvPaths(t *testing.T) {
	t.Run("components are nil when PATH is unset or empty", func(t *testing.T) {
		e := NewProcessEnv()
		assert.Nil(t, e.PathComponents())

		e.Set("PATH", "")
		assert.Nil(t, e.PathComponents())
	})

	t.Run("prepend skips existing components", func(t *testing.T) {
		e := NewProcessEnv()
		e.Set("PATH", "/a:/b")

		e.PrependPathComponent("/a")
		path, _ := e.Get("PATH")
		assert.Equal(t, "/a:/b", path)

		e.PrependPathComponent("/c")
		path, _ = e.Get("PATH")
		assert.Equal(t, "/c:/a:/b", path)
	})

	t.Run("remove drops every occurrence", func(t *testing.T) {
		e := NewProcessEnv()
		e.Set("PATH", "/a:/b:/a")

		e.RemovePathComponent("/a")
		path, _ := e.Get("PATH")
		assert.Equal(t, "/b", path)
	})

	t.Run("remove on unset PATH leaves it unset", func(t *testing.T) {
		e := NewProcessEnv()
		e.RemovePathComponent("/a")
		_, ok := e.Get("PATH")
		assert.False(t, ok)
	})

	t.Run("keys come back sorted", func(t *testing.T) {
		e := NewProcessEnv()
		e.Set("ZED", "1")
		e.Set("ALPHA", "2")
		assert.Equal(t, []string{"ALPHA", "ZED"}, e.Keys())
	})
}
