package cmd

import (
	"fmt"

	"awsps/internal/shell"

	"github.com/spf13/cobra"
)

var unsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Print the command that clears AWS_PROFILE",
	Long: `Prints the command that clears AWS_PROFILE in the target shell:

  eval "$(awsps unset)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := targetShell()
		if err != nil {
			return err
		}
		line, err := shell.UnsetCommand(sh)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unsetCmd)
}
