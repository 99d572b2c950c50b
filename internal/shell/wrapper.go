package shell

import (
	"fmt"
	"strings"
)

// FunctionName is the name of the helper installed by WrapperFunction.
const FunctionName = "aps"

// WrapperFunction returns the shell-specific helper that runs binary and
// evaluates its output in the current shell. It is meant to be added to the
// shell's configuration file, e.g. `awsps init zsh >> ~/.zshrc`.
func WrapperFunction(shell SupportedShell, binary string) (string, error) {
	if binary == "" {
		binary = "awsps"
	}

	var b strings.Builder
	switch shell {
	case ShellBash, ShellZsh, ShellSh:
		fmt.Fprintf(&b, "%s() {\n", FunctionName)
		b.WriteString("  local cmd\n")
		fmt.Fprintf(&b, "  cmd=\"$(%s select --shell %s \"$@\")\" || return $?\n", binary, shell)
		b.WriteString("  eval \"$cmd\"\n")
		b.WriteString("}\n")
	case ShellFish:
		fmt.Fprintf(&b, "function %s\n", FunctionName)
		fmt.Fprintf(&b, "    set -l cmd (%s select --shell fish $argv); or return $status\n", binary)
		b.WriteString("    eval $cmd\n")
		b.WriteString("end\n")
	case ShellCsh, ShellTcsh:
		fmt.Fprintf(&b, "alias %s 'eval `%s select --shell %s`'\n", FunctionName, binary, shell)
	case ShellPowerShell:
		fmt.Fprintf(&b, "function %s {\n", FunctionName)
		fmt.Fprintf(&b, "    $cmd = & %s select --shell powershell @args\n", binary)
		b.WriteString("    if ($LASTEXITCODE -eq 0) { Invoke-Expression $cmd }\n")
		b.WriteString("}\n")
	default:
		return "", fmt.Errorf("%w: no wrapper function for %s", ErrShellNotSupported, shell)
	}
	return b.String(), nil
}
