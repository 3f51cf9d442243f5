package environment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/azpdev/zshrcman/pkg/types"
)

const scriptHeader = "# zshrcman profile environment"

// Render produces shell source text for an environment state. It is a
// pure function of its inputs; activation gating happens in Apply,
// not here. Section layout is fixed: PATH lines then a blank line
// (only when any were emitted), variables then a blank line, aliases
// last. Variables and aliases are emitted in sorted key order so the
// output is stable.
func Render(state *types.EnvironmentState, shell types.ShellKind) string {
	if state == nil {
		empty := types.NewEnvironmentState()
		state = &empty
	}
	switch shell {
	case types.ShellFish:
		return renderFish(state)
	case types.ShellPowerShell:
		return renderPowerShell(state)
	case types.ShellCmd:
		return renderCmd(state)
	default:
		return renderPosix(state)
	}
}

func renderPosix(state *types.EnvironmentState) string {
	var b strings.Builder
	b.WriteString(scriptHeader + "\n\n")

	hasPaths := len(state.PrependPaths) > 0 || len(state.AppendPaths) > 0
	if len(state.PrependPaths) > 0 {
		fmt.Fprintf(&b, "export PATH=\"%s:$PATH\"\n", strings.Join(state.PrependPaths, ":"))
	}
	if len(state.AppendPaths) > 0 {
		fmt.Fprintf(&b, "export PATH=\"$PATH:%s\"\n", strings.Join(state.AppendPaths, ":"))
	}
	if hasPaths {
		b.WriteString("\n")
	}

	for _, key := range sortedKeys(state.Variables) {
		fmt.Fprintf(&b, "export %s=\"%s\"\n", key, state.Variables[key])
	}
	if len(state.Variables) > 0 {
		b.WriteString("\n")
	}

	for _, name := range sortedKeys(state.Aliases) {
		fmt.Fprintf(&b, "alias %s='%s'\n", name, state.Aliases[name])
	}

	return b.String()
}

func renderFish(state *types.EnvironmentState) string {
	var b strings.Builder
	b.WriteString(scriptHeader + "\n\n")

	hasPaths := len(state.PrependPaths) > 0 || len(state.AppendPaths) > 0
	if len(state.PrependPaths) > 0 {
		fmt.Fprintf(&b, "set -gx PATH %s $PATH\n", strings.Join(state.PrependPaths, " "))
	}
	if len(state.AppendPaths) > 0 {
		fmt.Fprintf(&b, "set -gx PATH $PATH %s\n", strings.Join(state.AppendPaths, " "))
	}
	if hasPaths {
		b.WriteString("\n")
	}

	for _, key := range sortedKeys(state.Variables) {
		fmt.Fprintf(&b, "set -gx %s \"%s\"\n", key, state.Variables[key])
	}
	if len(state.Variables) > 0 {
		b.WriteString("\n")
	}

	for _, name := range sortedKeys(state.Aliases) {
		fmt.Fprintf(&b, "alias %s '%s'\n", name, state.Aliases[name])
	}

	return b.String()
}

func renderPowerShell(state *types.EnvironmentState) string {
	var b strings.Builder
	b.WriteString(scriptHeader + "\n\n")

	if len(state.PrependPaths) > 0 || len(state.AppendPaths) > 0 {
		b.WriteString("$env:Path = @(")
		for _, p := range state.PrependPaths {
			fmt.Fprintf(&b, "\n    \"%s\",", p)
		}
		b.WriteString("\n    $env:Path")
		for _, p := range state.AppendPaths {
			fmt.Fprintf(&b, ",\n    \"%s\"", p)
		}
		b.WriteString("\n) -join ';'\n\n")
	}

	for _, key := range sortedKeys(state.Variables) {
		fmt.Fprintf(&b, "$env:%s = \"%s\"\n", key, state.Variables[key])
	}
	if len(state.Variables) > 0 {
		b.WriteString("\n")
	}

	for _, name := range sortedKeys(state.Aliases) {
		fmt.Fprintf(&b, "function %s { %s }\n", name, state.Aliases[name])
	}

	return b.String()
}

func renderCmd(state *types.EnvironmentState) string {
	var b strings.Builder
	b.WriteString("@echo off\nREM zshrcman profile environment\n\n")

	if len(state.PrependPaths) > 0 || len(state.AppendPaths) > 0 {
		b.WriteString("set PATH=")
		for _, p := range state.PrependPaths {
			fmt.Fprintf(&b, "%s;", p)
		}
		b.WriteString("%PATH%")
		for _, p := range state.AppendPaths {
			fmt.Fprintf(&b, ";%s", p)
		}
		b.WriteString("\n\n")
	}

	for _, key := range sortedKeys(state.Variables) {
		fmt.Fprintf(&b, "set %s=%s\n", key, state.Variables[key])
	}
	if len(state.Variables) > 0 {
		b.WriteString("\n")
	}

	// cmd has no alias builtin; note them so the file stays honest
	if len(state.Aliases) > 0 {
		b.WriteString("REM Aliases not supported in CMD batch files\n")
		for _, name := range sortedKeys(state.Aliases) {
			fmt.Fprintf(&b, "REM %s = %s\n", name, state.Aliases[name])
		}
	}

	return b.String()
}

// SourceLine returns the idempotent "source this script" line for the
// shell's startup file. Shells without a file-based startup config
// return "".
func SourceLine(shell types.ShellKind, scriptPath string) string {
	switch {
	case shell.IsPosix():
		return fmt.Sprintf("[ -f %s ] && source %s", scriptPath, scriptPath)
	case shell == types.ShellFish:
		return fmt.Sprintf("test -f %s; and source %s", scriptPath, scriptPath)
	default:
		return ""
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
