package cmd

import (
	"strconv"

	"awsps/internal/logging"
	"awsps/internal/util"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently selected profiles",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recently selected profiles",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := logging.New(debugFlag)
	defer func() { _ = log.Sync() }()

	ledger, err := openLedger(log)
	if err != nil {
		return err
	}

	entries := ledger.Entries()
	if len(entries) == 0 {
		util.WarnColor.Fprintln(cmd.ErrOrStderr(), "No profiles selected yet.")
		return nil
	}

	var data [][]string
	for _, e := range entries {
		data = append(data, []string{
			e.Profile,
			e.LastUsedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(e.UseCount),
		})
	}
	util.PrintTable(cmd.OutOrStdout(), []string{"Profile", "Last Used", "Uses"}, data)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	log := logging.New(debugFlag)
	defer func() { _ = log.Sync() }()

	ledger, err := openLedger(log)
	if err != nil {
		return err
	}
	if err := ledger.Clear(); err != nil {
		return err
	}
	util.SuccessColor.Fprintln(cmd.ErrOrStderr(), "✓ History cleared")
	return nil
}
