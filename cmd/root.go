/*
AWSPS - AWS Profile Switch
Copyright (c) 2024 Alessandro Gallo. All rights reserved.

Licensed under the Business Source License 1.1.
See LICENSE file for full terms.
*/

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"awsps/internal/aws"
	"awsps/internal/shell"
	"awsps/internal/tui"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// errCancelled ends the process with exit status 1 and no message.
var errCancelled = errors.New("selection cancelled")

var (
	shellFlag      string
	debugFlag      bool
	configFileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "awsps",
	Short: "Switch AWS SSO profiles with a staged fuzzy search",
	Long: `AWSPS (AWS Profile Switch) finds an SSO profile in ~/.aws/config by searching
accounts first and roles second, then prints the shell command that exports it.

Run 'awsps init' to install the 'aps' shell function that applies the command
to the current shell.`,
	Version:           version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	RunE:              runSelect,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&shellFlag, "shell", "", "target shell for emitted commands (default: detected)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configFileFlag, "config-file", "", "AWS config file to read profiles from")
	addSelectFlags(rootCmd)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints one message per failure kind and returns the exit status.
func reportError(w io.Writer, err error) int {
	if errors.Is(err, errCancelled) || errors.Is(err, context.Canceled) {
		return 1
	}

	var (
		catalogErr *aws.CatalogError
		installErr *shell.InstallError
	)
	switch {
	case errors.As(err, &catalogErr):
		fmt.Fprintln(w, tui.ErrorStyle.Render("✗ "+catalogErr.GetUserFriendlyMessage()))
	case errors.As(err, &installErr):
		fmt.Fprintln(w, tui.ErrorStyle.Render("✗ "+installErr.GetUserFriendlyMessage()))
	case errors.Is(err, shell.ErrShellNotSupported):
		fmt.Fprintln(w, tui.ErrorStyle.Render("✗ "+err.Error()))
		fmt.Fprintln(w, tui.MutedStyle.Render("Pass --shell or set AWSPS_SHELL to one of the supported shells."))
	case errors.Is(err, aws.ErrNoProfilesFound):
		fmt.Fprintln(w, tui.ErrorStyle.Render("✗ No SSO profiles found."))
	case errors.Is(err, errNotInteractive):
		fmt.Fprintln(w, tui.ErrorStyle.Render("✗ "+err.Error()))
		fmt.Fprintln(w, tui.MutedStyle.Render("Run awsps from an interactive terminal, or use 'awsps list'."))
	default:
		fmt.Fprintln(w, tui.ErrorStyle.Render("✗ Error: "+err.Error()))
	}
	return 1
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date)
}
