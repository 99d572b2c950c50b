package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected SupportedShell
	}{
		{"/bin/zsh", ShellZsh},
		{"/usr/local/bin/bash5", ShellBash},
		{"-zsh", ShellZsh},
		{"/usr/bin/fish", ShellFish},
		{"/bin/tcsh", ShellTcsh},
		{"csh", ShellCsh},
		{"/bin/dash", ShellSh},
		{"pwsh.exe", ShellPowerShell},
		{"PowerShell", ShellPowerShell},
		{"cmd.exe", ShellCmd},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := Parse("/bin/nushell")
	assert.True(t, errors.Is(err, ErrShellNotSupported))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		goos     string
		expected SupportedShell
	}{
		{"SHELL wins", map[string]string{"SHELL": "/bin/zsh", "BASH_VERSION": "5"}, "linux", ShellZsh},
		{"fish from SHELL", map[string]string{"SHELL": "/opt/homebrew/bin/fish"}, "darwin", ShellFish},
		{"unknown SHELL falls through", map[string]string{"SHELL": "/bin/nu", "ZSH_VERSION": "5.9"}, "linux", ShellZsh},
		{"powershell on windows", map[string]string{"PSModulePath": `C:\mods`}, "windows", ShellPowerShell},
		{"cmd on windows", map[string]string{}, "windows", ShellCmd},
		{"default bash", map[string]string{}, "linux", ShellBash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.expected, detect(getenv, tt.goos))
		})
	}
}

func TestExportCommand(t *testing.T) {
	tests := []struct {
		shell    SupportedShell
		profile  string
		expected string
	}{
		{ShellBash, "dev-admin", `export AWS_PROFILE="dev-admin"`},
		{ShellZsh, "dev-admin", `export AWS_PROFILE="dev-admin"`},
		{ShellSh, `we"ird$x`, `export AWS_PROFILE="we\"ird\$x"`},
		{ShellFish, "dev-admin", `set -gx AWS_PROFILE 'dev-admin'`},
		{ShellFish, "it's", `set -gx AWS_PROFILE 'it\'s'`},
		{ShellCsh, "dev-admin", `setenv AWS_PROFILE 'dev-admin'`},
		{ShellTcsh, "it's", `setenv AWS_PROFILE 'it'\''s'`},
		{ShellPowerShell, "dev-admin", `$env:AWS_PROFILE = 'dev-admin'`},
		{ShellPowerShell, "it's", `$env:AWS_PROFILE = 'it''s'`},
		{ShellCmd, "dev-admin", `set "AWS_PROFILE=dev-admin"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell)+"/"+tt.profile, func(t *testing.T) {
			got, err := ExportCommand(tt.shell, tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ExportCommand("nu", "x")
	assert.ErrorIs(t, err, ErrShellNotSupported)
}

func TestUnsetCommand(t *testing.T) {
	for _, s := range GetSupportedShells() {
		cmd, err := UnsetCommand(s)
		require.NoError(t, err, s)
		assert.Contains(t, cmd, EnvVar)
	}

	_, err := UnsetCommand("nu")
	assert.ErrorIs(t, err, ErrShellNotSupported)
}

func TestWrapperFunction(t *testing.T) {
	fn, err := WrapperFunction(ShellZsh, "")
	require.NoError(t, err)
	assert.Contains(t, fn, "aps() {")
	assert.Contains(t, fn, `awsps select --shell zsh "$@"`)
	assert.Contains(t, fn, `eval "$cmd"`)

	fn, err = WrapperFunction(ShellFish, "/opt/bin/awsps")
	require.NoError(t, err)
	assert.Contains(t, fn, "function aps")
	assert.Contains(t, fn, "/opt/bin/awsps select --shell fish $argv")

	for _, s := range []SupportedShell{ShellBash, ShellSh, ShellCsh, ShellTcsh, ShellPowerShell} {
		_, err := WrapperFunction(s, "awsps")
		assert.NoError(t, err, s)
	}

	_, err = WrapperFunction(ShellCmd, "awsps")
	assert.ErrorIs(t, err, ErrShellNotSupported)
}
