package aliases

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/types"
)

const fragmentHeader = "# zshrcman aliases"

// Render produces the shell fragment for the active alias groups, in
// their stored activation order. Groups whose file has gone missing
// since activation are skipped with a warning rather than failing the
// whole render.
func (m *Manager) Render(shell types.ShellKind) (string, error) {
	var b strings.Builder
	writeHeader(&b, shell)

	for _, name := range m.state.ActiveAliasGroups() {
		group, err := m.Load(name)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrNotFound) {
				m.logger.Warn().Str("group", name).Msg("Active alias group has no file, skipping")
				continue
			}
			return "", err
		}
		if len(group.Aliases) == 0 {
			continue
		}

		b.WriteString("\n")
		writeGroupComment(&b, shell, name)
		for _, alias := range sortedKeys(group.Aliases) {
			writeAlias(&b, shell, alias, group.Aliases[alias])
		}
	}

	return b.String(), nil
}

// WriteFragment renders the active groups and writes the fragment next
// to the profile environment script, returning its path. An empty
// active list still writes the header so stale aliases disappear.
func (m *Manager) WriteFragment(shell types.ShellKind) (string, error) {
	content, err := m.Render(shell)
	if err != nil {
		return "", err
	}

	path := m.paths.AliasScriptPath()
	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create env directory %s", filepath.Dir(path))
	}
	if err := m.fs.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write alias fragment %s", path)
	}

	m.logger.Info().
		Str("path", path).
		Strs("groups", m.state.ActiveAliasGroups()).
		Msg("Alias fragment written")
	return path, nil
}

func writeHeader(b *strings.Builder, shell types.ShellKind) {
	if shell == types.ShellCmd {
		b.WriteString("@echo off\nREM zshrcman aliases\n")
		return
	}
	b.WriteString(fragmentHeader + "\n")
}

func writeGroupComment(b *strings.Builder, shell types.ShellKind, name string) {
	if shell == types.ShellCmd {
		fmt.Fprintf(b, "REM group: %s\n", name)
		return
	}
	fmt.Fprintf(b, "# group: %s\n", name)
}

func writeAlias(b *strings.Builder, shell types.ShellKind, alias, expansion string) {
	switch shell {
	case types.ShellFish:
		fmt.Fprintf(b, "alias %s '%s'\n", alias, expansion)
	case types.ShellPowerShell:
		fmt.Fprintf(b, "function %s { %s }\n", alias, expansion)
	case types.ShellCmd:
		// cmd has no alias builtin
		fmt.Fprintf(b, "REM %s = %s\n", alias, expansion)
	default:
		fmt.Fprintf(b, "alias %s='%s'\n", alias, expansion)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
