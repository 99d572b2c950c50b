package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"awsps/internal/aws"
	"awsps/internal/shell"
	"awsps/internal/util"

	"github.com/spf13/cobra"
)

var currentJSON bool

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the profile AWS_PROFILE currently points at",
	Long: `Displays the profile named by AWS_PROFILE as the AWS SDK reads it from the
shared config files. Nothing is sent to AWS.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := os.Getenv(shell.EnvVar)
		if name == "" {
			return fmt.Errorf("no active profile: %s is not set", shell.EnvVar)
		}

		path := configFileFlag
		if path == "" {
			c, err := profileCatalog()
			if err != nil {
				return err
			}
			if fc, ok := c.(*aws.FileCatalog); ok {
				path = fc.Path
			}
		}

		p, err := aws.LoadSharedProfile(cmd.Context(), name, path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if currentJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}

		util.PrintTable(out, []string{"Setting", "Value"}, [][]string{
			{"Profile", p.Name},
			{"Account ID", p.AccountID},
			{"Role", p.RoleName},
			{"SSO start URL", p.StartURL},
			{"SSO region", p.SSORegion},
			{"SSO session", p.SSOSession},
			{"Region", p.Region},
		})
		return nil
	},
}

func init() {
	currentCmd.Flags().BoolVar(&currentJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(currentCmd)
}
