package shell

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/testutil"
)

const rcPath = "/virtual/home/.zshrc"

func TestSetProfile(t *testing.T) {
	t.Run("creates missing file with just the marker", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		m := NewConfigMarker(fs)

		require.NoError(t, m.SetProfile(rcPath, "work"))

		content, err := fs.ReadFile(rcPath)
		require.NoError(t, err)
		assert.Equal(t, "# ZSHRCMAN_PROFILE: work\n", string(content))
	})

	t.Run("appends to existing content", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.WriteFile(rcPath, []byte("export EDITOR=nvim\nalias ll='ls -la'\n"), 0644))
		m := NewConfigMarker(fs)

		require.NoError(t, m.SetProfile(rcPath, "work"))

		content, err := fs.ReadFile(rcPath)
		require.NoError(t, err)
		assert.Equal(t,
			"export EDITOR=nvim\nalias ll='ls -la'\n# ZSHRCMAN_PROFILE: work\n",
			string(content))
	})

	t.Run("adds missing trailing newline before the marker", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.WriteFile(rcPath, []byte("export EDITOR=nvim"), 0644))
		m := NewConfigMarker(fs)

		require.NoError(t, m.SetProfile(rcPath, "work"))

		content, err := fs.ReadFile(rcPath)
		require.NoError(t, err)
		assert.Equal(t, "export EDITOR=nvim\n# ZSHRCMAN_PROFILE: work\n", string(content))
	})

	t.Run("replaces an existing marker in place of duplicating it", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.WriteFile(rcPath,
			[]byte("# comment\n# ZSHRCMAN_PROFILE: old\nexport PATH=$PATH:~/bin\n"), 0644))
		m := NewConfigMarker(fs)

		require.NoError(t, m.SetProfile(rcPath, "new"))

		content, err := fs.ReadFile(rcPath)
		require.NoError(t, err)
		assert.Equal(t,
			"# comment\nexport PATH=$PATH:~/bin\n# ZSHRCMAN_PROFILE: new\n",
			string(content))
	})

	t.Run("marker on the first line is replaced", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.WriteFile(rcPath,
			[]byte("# ZSHRCMAN_PROFILE: old\nexport EDITOR=vi\n"), 0644))
		m := NewConfigMarker(fs)

		require.NoError(t, m.SetProfile(rcPath, "new"))

		content, err := fs.ReadFile(rcPath)
		require.NoError(t, err)
		assert.Equal(t, "export EDITOR=vi\n# ZSHRCMAN_PROFILE: new\n", string(content))
	})

	t.Run("setting twice leaves a single marker", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		m := NewConfigMarker(fs)

		require.NoError(t, m.SetProfile(rcPath, "one"))
		require.NoError(t, m.SetProfile(rcPath, "two"))

		content, err := fs.ReadFile(rcPath)
		require.NoError(t, err)
		assert.Equal(t, "# ZSHRCMAN_PROFILE: two\n", string(content))
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		m := NewConfigMarker(testutil.NewMemoryFS())
		err := m.SetProfile("", "work")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})

	t.Run("read failure surfaces as file access error", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		fs.WithError(rcPath, stderrors.New("io timeout"))
		m := NewConfigMarker(fs)

		err := m.SetProfile(rcPath, "work")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
	})
}

func TestCurrentProfile(t *testing.T) {
	t.Run("parses the marker", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.WriteFile(rcPath,
			[]byte("export EDITOR=nvim\n# ZSHRCMAN_PROFILE: work\n"), 0644))
		m := NewConfigMarker(fs)

		profile, err := m.CurrentProfile(rcPath)
		require.NoError(t, err)
		assert.Equal(t, "work", profile)
	})

	t.Run("missing file means no profile", func(t *testing.T) {
		m := NewConfigMarker(testutil.NewMemoryFS())

		profile, err := m.CurrentProfile(rcPath)
		require.NoError(t, err)
		assert.Empty(t, profile)
	})

	t.Run("file without marker means no profile", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		require.NoError(t, fs.WriteFile(rcPath, []byte("export EDITOR=nvim\n"), 0644))
		m := NewConfigMarker(fs)

		profile, err := m.CurrentProfile(rcPath)
		require.NoError(t, err)
		assert.Empty(t, profile)
	})

	t.Run("round trip with SetProfile", func(t *testing.T) {
		fs := testutil.NewMemoryFS()
		m := NewConfigMarker(fs)

		require.NoError(t, m.SetProfile(rcPath, "gaming"))

		profile, err := m.CurrentProfile(rcPath)
		require.NoError(t, err)
		assert.Equal(t, "gaming", profile)
	})
}
