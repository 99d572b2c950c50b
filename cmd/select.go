package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"awsps/internal/aws"
	"awsps/internal/config"
	"awsps/internal/history"
	"awsps/internal/logging"
	"awsps/internal/selector"
	"awsps/internal/shell"
	"awsps/internal/tui"
	"awsps/internal/util"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNotInteractive = errors.New("interactive selection needs a terminal")

var printNameFlag bool

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Interactively select an AWS profile and print its export command",
	Long: `Opens the staged selector: recent profiles first, then type to search
accounts, press enter, and search the roles of that account.

The export command is printed on stdout so a shell function can evaluate it:

  eval "$(awsps select)"`,
	Aliases: []string{"s"},
	Args:    cobra.NoArgs,
	RunE:    runSelect,
}

func addSelectFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&printNameFlag, "print-name", false, "print only the selected profile name")
}

func init() {
	addSelectFlags(selectCmd)
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	log := logging.New(debugFlag)
	defer func() { _ = log.Sync() }()

	profiles, err := loadProfiles(log)
	if err != nil {
		return err
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return errNotInteractive
	}

	var sh shell.SupportedShell
	if !printNameFlag {
		s, err := targetShell()
		if err != nil {
			return err
		}
		sh = s
		log.Debug("target shell", zap.String("shell", string(sh)))
	}

	ledger, err := openLedger(log)
	if err != nil {
		return err
	}

	ctrl, err := selector.New(profiles, ledger,
		selector.WithRecentLimit(config.RecentCount()),
		selector.WithLogger(log),
	)
	if err != nil {
		return err
	}

	term := tui.Start()
	res, err := selector.Run(cmd.Context(), ctrl, term)
	if closeErr := term.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errCancelled
		}
		return err
	}

	return finishSelection(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, sh, ledger, log)
}

// finishSelection records a confirmed profile and prints the command for the
// wrapper to evaluate. History is only written after a confirmation.
func finishSelection(stdout, stderr io.Writer, res selector.Result, sh shell.SupportedShell, ledger *history.Ledger, log *zap.Logger) error {
	if res.Outcome != selector.OutcomeConfirmed {
		return errCancelled
	}
	p := res.Profile

	if err := ledger.Record(p.Identifier); err != nil {
		log.Warn("could not update history", zap.String("path", ledger.Path()), zap.Error(err))
		util.WarnColor.Fprintf(stderr, "Warning: could not update history: %v\n", err)
	}

	if printNameFlag {
		fmt.Fprintln(stdout, p.Identifier)
		return nil
	}

	line, err := shell.ExportCommand(sh, p.Identifier)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, line)
	fmt.Fprintln(stderr, statusLine(p))
	return nil
}

func statusLine(p aws.Profile) string {
	return tui.SuccessStyle.Render("✓ Switched to "+p.Identifier) + " " + tui.MutedStyle.Render("("+p.DisplayName()+")")
}
