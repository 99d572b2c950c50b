package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"awsps/internal/aws"
	"awsps/internal/logging"
	"awsps/internal/util"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list [query]",
	Short:   "List the SSO profiles found in the AWS config",
	Long:    `Lists every SSO profile. With a query, only matching profiles are shown, best match first.`,
	Aliases: []string{"ls"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	log := logging.New(debugFlag)
	defer func() { _ = log.Sync() }()

	profiles, err := loadProfiles(log)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		profiles = aws.RankProfiles(args[0], profiles)
	} else {
		util.SortBy(profiles, func(a, b aws.Profile) bool {
			if a.AccountName != b.AccountName {
				return strings.ToLower(a.AccountName) < strings.ToLower(b.AccountName)
			}
			return a.RoleName < b.RoleName
		})
	}

	out := cmd.OutOrStdout()
	if listJSON {
		if profiles == nil {
			profiles = []aws.Profile{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	}

	if len(profiles) == 0 {
		util.WarnColor.Fprintln(cmd.ErrOrStderr(), "No matching profiles.")
		return nil
	}

	var data [][]string
	for _, p := range profiles {
		data = append(data, []string{p.Identifier, p.AccountName, p.AccountID, p.RoleName, p.Region})
	}
	util.PrintTable(out, []string{"Profile", "Account", "Account ID", "Role", "Region"}, data)
	fmt.Fprintln(cmd.ErrOrStderr(), util.InfoColor.Sprintf("%d profile(s)", len(profiles)))
	return nil
}
