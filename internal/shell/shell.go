// Package shell detects the calling shell and renders the commands that set
// or clear AWS_PROFILE in it.
package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// EnvVar is the variable the emitted commands set.
const EnvVar = "AWS_PROFILE"

// ErrShellNotSupported is returned when an unsupported shell is specified
var ErrShellNotSupported = errors.New("shell not supported")

// SupportedShell represents a shell commands can be generated for
type SupportedShell string

const (
	ShellBash       SupportedShell = "bash"
	ShellZsh        SupportedShell = "zsh"
	ShellSh         SupportedShell = "sh"
	ShellFish       SupportedShell = "fish"
	ShellCsh        SupportedShell = "csh"
	ShellTcsh       SupportedShell = "tcsh"
	ShellPowerShell SupportedShell = "powershell"
	ShellCmd        SupportedShell = "cmd"
)

// GetSupportedShells returns a list of all supported shells
func GetSupportedShells() []SupportedShell {
	return []SupportedShell{
		ShellBash,
		ShellZsh,
		ShellSh,
		ShellFish,
		ShellCsh,
		ShellTcsh,
		ShellPowerShell,
		ShellCmd,
	}
}

// IsValidShell checks if the given shell is supported
func IsValidShell(shell string) bool {
	for _, supported := range GetSupportedShells() {
		if string(supported) == shell {
			return true
		}
	}
	return false
}

// Parse normalizes a shell name or executable path and validates it.
func Parse(name string) (SupportedShell, error) {
	shell := normalizeShellName(filepath.Base(strings.TrimSpace(name)))
	if !IsValidShell(shell) {
		return "", fmt.Errorf("%w: %s (supported: %v)", ErrShellNotSupported, name, GetSupportedShells())
	}
	return SupportedShell(shell), nil
}

// Detect guesses the calling shell from the environment, defaulting to bash.
func Detect() SupportedShell {
	return detect(os.Getenv, runtime.GOOS)
}

func detect(getenv func(string) string, goos string) SupportedShell {
	// Method 1: Check SHELL environment variable (Unix-like systems)
	if shell := getenv("SHELL"); shell != "" {
		if s, err := Parse(shell); err == nil {
			return s
		}
	}

	// Method 2: Check for PowerShell, then cmd, on Windows
	if goos == "windows" {
		if getenv("PSModulePath") != "" {
			return ShellPowerShell
		}
		return ShellCmd
	}

	// Method 3: Check shell-specific environment variables
	switch {
	case getenv("ZSH_VERSION") != "":
		return ShellZsh
	case getenv("FISH_VERSION") != "":
		return ShellFish
	case getenv("BASH_VERSION") != "":
		return ShellBash
	}

	return ShellBash
}

// normalizeShellName converts shell executable names to standard shell names
func normalizeShellName(shellName string) string {
	shellName = strings.TrimSuffix(strings.ToLower(shellName), ".exe")
	// login shells show up as "-zsh"
	shellName = strings.TrimPrefix(shellName, "-")

	switch shellName {
	case "zsh", "zsh5":
		return string(ShellZsh)
	case "bash", "bash4", "bash5":
		return string(ShellBash)
	case "sh", "dash", "ksh", "mksh":
		return string(ShellSh)
	case "pwsh", "powershell":
		return string(ShellPowerShell)
	default:
		return shellName
	}
}

// ExportCommand returns the command that sets AWS_PROFILE to profile.
func ExportCommand(shell SupportedShell, profile string) (string, error) {
	switch shell {
	case ShellBash, ShellZsh, ShellSh:
		return fmt.Sprintf("export %s=%s", EnvVar, quotePOSIX(profile)), nil
	case ShellFish:
		return fmt.Sprintf("set -gx %s %s", EnvVar, quoteFish(profile)), nil
	case ShellCsh, ShellTcsh:
		return fmt.Sprintf("setenv %s %s", EnvVar, quoteCsh(profile)), nil
	case ShellPowerShell:
		return fmt.Sprintf("$env:%s = %s", EnvVar, quotePowerShell(profile)), nil
	case ShellCmd:
		return fmt.Sprintf(`set "%s=%s"`, EnvVar, strings.ReplaceAll(profile, `"`, "")), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrShellNotSupported, shell)
	}
}

// UnsetCommand returns the command that clears AWS_PROFILE.
func UnsetCommand(shell SupportedShell) (string, error) {
	switch shell {
	case ShellBash, ShellZsh, ShellSh:
		return "unset " + EnvVar, nil
	case ShellFish:
		return "set -e " + EnvVar, nil
	case ShellCsh, ShellTcsh:
		return "unsetenv " + EnvVar, nil
	case ShellPowerShell:
		return fmt.Sprintf("Remove-Item Env:%s -ErrorAction SilentlyContinue", EnvVar), nil
	case ShellCmd:
		return fmt.Sprintf("set %s=", EnvVar), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrShellNotSupported, shell)
	}
}

// quotePOSIX double quotes s, escaping the characters that stay special
// inside double quotes.
func quotePOSIX(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(s) + `"`
}

func quoteFish(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return `'` + r.Replace(s) + `'`
}

func quoteCsh(s string) string {
	// csh has no escape inside single quotes; close, escape, reopen
	return `'` + strings.ReplaceAll(s, `'`, `'\''`) + `'`
}

func quotePowerShell(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
