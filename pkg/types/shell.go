package types

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/azpdev/zshrcman/pkg/errors"
)

// ShellKind identifies a shell family for script generation and
// config-file handling
type ShellKind string

const (
	ShellZsh        ShellKind = "zsh"
	ShellBash       ShellKind = "bash"
	ShellFish       ShellKind = "fish"
	ShellPowerShell ShellKind = "powershell"
	ShellCmd        ShellKind = "cmd"

	// ShellSh covers unrecognized POSIX shells; config goes to ~/.profile
	ShellSh ShellKind = "sh"
)

// ParseShellKind converts a user-supplied string into a ShellKind
func ParseShellKind(s string) (ShellKind, error) {
	switch strings.ToLower(s) {
	case "zsh":
		return ShellZsh, nil
	case "bash":
		return ShellBash, nil
	case "fish":
		return ShellFish, nil
	case "powershell", "pwsh":
		return ShellPowerShell, nil
	case "cmd", "batch":
		return ShellCmd, nil
	case "sh":
		return ShellSh, nil
	default:
		return "", errors.Newf(errors.ErrUnsupportedShell, "unknown shell %q", s).
			WithDetail("valid", "zsh, bash, fish, powershell, cmd, sh")
	}
}

// DetectShell inspects $SHELL (and the OS) to pick the user's shell
func DetectShell() ShellKind {
	shell := filepath.Base(os.Getenv("SHELL"))
	switch {
	case strings.Contains(shell, "zsh"):
		return ShellZsh
	case strings.Contains(shell, "bash"):
		return ShellBash
	case strings.Contains(shell, "fish"):
		return ShellFish
	}
	if runtime.GOOS == "windows" {
		return ShellPowerShell
	}
	return ShellSh
}

// IsPosix reports whether the shell follows POSIX sh syntax
func (k ShellKind) IsPosix() bool {
	switch k {
	case ShellZsh, ShellBash, ShellSh:
		return true
	}
	return false
}

// RcPath returns the shell's startup file under the given home
// directory. Shells without a file-based startup config (powershell,
// cmd) return "".
func (k ShellKind) RcPath(home string) string {
	switch k {
	case ShellZsh:
		return filepath.Join(home, ".zshrc")
	case ShellBash:
		return filepath.Join(home, ".bashrc")
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	case ShellPowerShell, ShellCmd:
		return ""
	default:
		return filepath.Join(home, ".profile")
	}
}
