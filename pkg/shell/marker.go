// Package shell manages the marker line zshrcman leaves in the
// user's shell config file. The marker records which profile is
// active so a fresh shell (or a human reading the file) can tell
// without consulting the snapshot.
package shell

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/types"
)

// MarkerPrefix starts the managed line in the shell config file.
const MarkerPrefix = "# ZSHRCMAN_PROFILE:"

// ConfigMarker rewrites and reads the profile marker line.
type ConfigMarker struct {
	fs     types.FS
	logger zerolog.Logger
}

// NewConfigMarker builds a marker manager over the given filesystem
func NewConfigMarker(fs types.FS) *ConfigMarker {
	return &ConfigMarker{
		fs:     fs,
		logger: logging.GetLogger("shell.marker"),
	}
}

// SetProfile rewrites rcPath so exactly one marker line names the
// given profile. The first existing marker line is removed, all other
// content is preserved byte for byte, and the new marker is appended
// at the end of the file. A missing file is treated as empty.
func (m *ConfigMarker) SetProfile(rcPath, profile string) error {
	if rcPath == "" {
		return errors.New(errors.ErrInvalidInput, "shell config path required")
	}

	content, err := m.fs.ReadFile(rcPath)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read shell config %s", rcPath)
	}

	kept := removeMarkerLine(string(content))
	if kept != "" && !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}
	kept += MarkerPrefix + " " + profile + "\n"

	if err := m.fs.MkdirAll(filepath.Dir(rcPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create directory for %s", rcPath)
	}
	if err := m.fs.WriteFile(rcPath, []byte(kept), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write shell config %s", rcPath)
	}

	m.logger.Debug().
		Str("path", rcPath).
		Str("profile", profile).
		Msg("updated shell config marker")
	return nil
}

// CurrentProfile parses the marker from rcPath. Returns "" without
// error when the file or the marker is absent.
func (m *ConfigMarker) CurrentProfile(rcPath string) (string, error) {
	if rcPath == "" {
		return "", errors.New(errors.ErrInvalidInput, "shell config path required")
	}

	content, err := m.fs.ReadFile(rcPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read shell config %s", rcPath)
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(line, MarkerPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, MarkerPrefix)), nil
		}
	}
	return "", nil
}

// removeMarkerLine drops the first marker line, newline included.
// Duplicate markers from hand-edited files are left alone; repeated
// SetProfile calls converge them away one at a time.
func removeMarkerLine(content string) string {
	if content == "" {
		return ""
	}

	start := -1
	if strings.HasPrefix(content, MarkerPrefix) {
		start = 0
	} else if idx := strings.Index(content, "\n"+MarkerPrefix); idx >= 0 {
		start = idx + 1
	}
	if start < 0 {
		return content
	}

	end := strings.Index(content[start:], "\n")
	if end < 0 {
		return content[:start]
	}
	return content[:start] + content[start+end+1:]
}
