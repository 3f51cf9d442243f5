package installer

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/types"
)

type recordedCall struct {
	name string
	args []string
}

// scriptedRunner returns a RunFunc that records every invocation and
// replays the scripted results in order, repeating the last one.
func scriptedRunner(calls *[]recordedCall, results ...CommandResult) RunFunc {
	return func(ctx context.Context, name string, args ...string) (CommandResult, error) {
		*calls = append(*calls, recordedCall{name: name, args: args})
		if len(results) == 0 {
			return CommandResult{}, nil
		}
		result := results[0]
		if len(results) > 1 {
			results = results[1:]
		}
		return result, nil
	}
}

func failingRunner(calls *[]recordedCall, err error) RunFunc {
	return func(ctx context.Context, name string, args ...string) (CommandResult, error) {
		*calls = append(*calls, recordedCall{name: name, args: args})
		return CommandResult{}, err
	}
}

func TestRegistryFor(t *testing.T) {
	registry := NewRegistry(nil)

	t.Run("resolves package managers", func(t *testing.T) {
		assert.Equal(t, TypeBrew, registry.For(TypeBrew).Name())
		assert.Equal(t, TypeNpm, registry.For(TypeNpm).Name())
		assert.Equal(t, TypePnpm, registry.For(TypePnpm).Name())
	})

	t.Run("config payload types resolve to noop", func(t *testing.T) {
		for _, kind := range []string{TypeAliases, TypeSsh, TypeZshrc, TypeCustom} {
			inst := registry.For(kind)
			require.IsType(t, Noop{}, inst)
			assert.Equal(t, kind, inst.Name())
		}
	})

	t.Run("unknown type resolves to noop", func(t *testing.T) {
		inst := registry.For("cargo")
		require.IsType(t, Noop{}, inst)
		assert.Equal(t, "cargo", inst.Name())
	})
}

func TestInferType(t *testing.T) {
	tests := []struct {
		groupName string
		want      string
	}{
		{"brew", TypeBrew},
		{"npm", TypeNpm},
		{"pnpm", TypePnpm},
		{"aliases", TypeAliases},
		{"ssh", TypeSsh},
		{"zshrc", TypeZshrc},
		{"dev-tools", TypeCustom},
		{"", TypeCustom},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InferType(tt.groupName), "group %q", tt.groupName)
	}
}

func TestInstall(t *testing.T) {
	ctx := context.Background()

	t.Run("brew install passes packages through", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(scriptedRunner(&calls))

		err := registry.For(TypeBrew).Install(ctx, []string{"jq", "ripgrep"}, types.ScopeProfile)
		require.NoError(t, err)

		require.Len(t, calls, 1)
		assert.Equal(t, "brew", calls[0].name)
		assert.Equal(t, []string{"install", "jq", "ripgrep"}, calls[0].args)
	})

	t.Run("npm installs globally", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(scriptedRunner(&calls))

		err := registry.For(TypeNpm).Install(ctx, []string{"typescript"}, types.ScopeGlobal)
		require.NoError(t, err)

		require.Len(t, calls, 1)
		assert.Equal(t, "npm", calls[0].name)
		assert.Equal(t, []string{"install", "-g", "typescript"}, calls[0].args)
	})

	t.Run("pnpm uses add", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(scriptedRunner(&calls))

		err := registry.For(TypePnpm).Install(ctx, []string{"eslint"}, types.ScopeGlobal)
		require.NoError(t, err)

		require.Len(t, calls, 1)
		assert.Equal(t, "pnpm", calls[0].name)
		assert.Equal(t, []string{"add", "-g", "eslint"}, calls[0].args)
	})

	t.Run("empty package list skips the command", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(scriptedRunner(&calls))

		err := registry.For(TypeBrew).Install(ctx, nil, types.ScopeProfile)
		require.NoError(t, err)
		assert.Empty(t, calls)
	})

	t.Run("non-zero exit surfaces stderr", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(scriptedRunner(&calls, CommandResult{
			ExitCode: 1,
			Stderr:   "Error: No available formula with the name \"nosuch\"\n",
		}))

		err := registry.For(TypeBrew).Install(ctx, []string{"nosuch"}, types.ScopeProfile)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInstallerFailed))

		details := errors.GetErrorDetails(err)
		require.NotNil(t, details)
		assert.Equal(t, "brew install", details["command"])
		assert.Contains(t, details["stderr"], "No available formula")
	})

	t.Run("spawn failure wraps as installer failure", func(t *testing.T) {
		var calls []recordedCall
		spawnErr := stderrors.New("exec: \"brew\": executable file not found in $PATH")
		registry := NewRegistry(failingRunner(&calls, spawnErr))

		err := registry.For(TypeBrew).Install(ctx, []string{"jq"}, types.ScopeProfile)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInstallerFailed))
		assert.ErrorIs(t, err, spawnErr)
	})
}

func TestUninstall(t *testing.T) {
	ctx := context.Background()

	t.Run("brew uninstall passes packages through", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(scriptedRunner(&calls))

		err := registry.For(TypeBrew).Uninstall(ctx, []string{"jq"})
		require.NoError(t, err)

		require.Len(t, calls, 1)
		assert.Equal(t, "brew", calls[0].name)
		assert.Equal(t, []string{"uninstall", "jq"}, calls[0].args)
	})

	t.Run("npm and pnpm use their removal verbs", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(scriptedRunner(&calls))

		require.NoError(t, registry.For(TypeNpm).Uninstall(ctx, []string{"typescript"}))
		require.NoError(t, registry.For(TypePnpm).Uninstall(ctx, []string{"eslint"}))

		require.Len(t, calls, 2)
		assert.Equal(t, []string{"uninstall", "-g", "typescript"}, calls[0].args)
		assert.Equal(t, []string{"remove", "-g", "eslint"}, calls[1].args)
	})

	t.Run("non-zero exit is tolerated", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(scriptedRunner(&calls, CommandResult{
			ExitCode: 1,
			Stderr:   "Error: not installed\n",
		}))

		err := registry.For(TypeBrew).Uninstall(ctx, []string{"jq"})
		assert.NoError(t, err)
		assert.Len(t, calls, 1)
	})

	t.Run("spawn failure still errors", func(t *testing.T) {
		var calls []recordedCall
		registry := NewRegistry(failingRunner(&calls, stderrors.New("fork failed")))

		err := registry.For(TypeNpm).Uninstall(ctx, []string{"typescript"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInstallerFailed))
	})
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	inst := NewNoop(TypeAliases)

	assert.Equal(t, TypeAliases, inst.Name())
	assert.NoError(t, inst.Install(ctx, []string{"whatever"}, types.ScopeProfile))
	assert.NoError(t, inst.Uninstall(ctx, []string{"whatever"}))

	assert.Equal(t, TypeCustom, NewNoop("").Name())
}
