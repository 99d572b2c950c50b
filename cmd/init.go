package cmd

import (
	"fmt"
	"os"

	"awsps/internal/shell"
	"awsps/internal/tui"

	"github.com/spf13/cobra"
)

var (
	installFlag   bool
	uninstallFlag bool
	forceFlag     bool
)

var initCmd = &cobra.Command{
	Use:   "init [shell]",
	Short: "Print or install the 'aps' shell function that applies the selection",
	Long: `Prints a shell function named 'aps' that runs the selector and applies the
exported profile to the current shell. Load it from your shell configuration:

  # bash / zsh
  eval "$(awsps init zsh)"

  # fish
  awsps init fish | source

  # PowerShell
  awsps init powershell | Out-String | Invoke-Expression

Or let awsps add it to the configuration file of the shell:

  awsps init --install zsh
  awsps init --uninstall zsh

Supported shells: bash, zsh, sh, fish, csh, tcsh, powershell`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"bash", "zsh", "sh", "fish", "csh", "tcsh", "powershell"},
	RunE:      runInit,
}

func init() {
	initCmd.Flags().BoolVar(&installFlag, "install", false, "add the function to the shell configuration file")
	initCmd.Flags().BoolVar(&uninstallFlag, "uninstall", false, "remove the function from the shell configuration file")
	initCmd.Flags().BoolVar(&forceFlag, "force", false, "replace an existing installation")
	initCmd.MarkFlagsMutuallyExclusive("install", "uninstall")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	var (
		sh  shell.SupportedShell
		err error
	)
	if len(args) == 1 {
		sh, err = shell.Parse(args[0])
	} else {
		sh, err = targetShell()
	}
	if err != nil {
		return err
	}

	if installFlag || uninstallFlag {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		installer := shell.NewInstaller(home, shell.WithBinary(cmd.Root().Name()))

		if uninstallFlag {
			path, err := installer.Uninstall(sh)
			if err != nil {
				return err
			}
			cmd.PrintErrln(tui.SuccessStyle.Render("✓ Removed the aps function from " + path))
			return nil
		}

		path, err := installer.Install(sh, forceFlag)
		if err != nil {
			return err
		}
		cmd.PrintErrln(tui.SuccessStyle.Render("✓ Installed the aps function in " + path))
		cmd.PrintErrln(tui.MutedStyle.Render("Restart your shell or source the file to use it."))
		return nil
	}

	fn, err := shell.WrapperFunction(sh, cmd.Root().Name())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), fn)
	return nil
}
