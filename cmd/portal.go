package cmd

import (
	"fmt"
	"os"

	"awsps/internal/aws"
	"awsps/internal/browser"
	"awsps/internal/config"
	"awsps/internal/logging"
	"awsps/internal/shell"
	"awsps/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var chromeProfileFlag string

var portalCmd = &cobra.Command{
	Use:   "portal [profile]",
	Short: "Open the SSO portal of a profile in the browser",
	Long: `Opens the SSO start URL of the given profile, or of $AWS_PROFILE when no
profile is given. Use --chrome-profile (or the chrome_profile setting) to open it
in a specific Chrome profile; aliases are read from [chrome_profiles].`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: aws.CompleteProfiles(profileCatalog),
	RunE:              runPortal,
}

func init() {
	portalCmd.Flags().StringVar(&chromeProfileFlag, "chrome-profile", "", "Chrome profile alias or directory")
	rootCmd.AddCommand(portalCmd)
}

func runPortal(cmd *cobra.Command, args []string) error {
	log := logging.New(debugFlag)
	defer func() { _ = log.Sync() }()

	name := os.Getenv(shell.EnvVar)
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		return fmt.Errorf("no profile given and %s is not set", shell.EnvVar)
	}

	profiles, err := loadProfiles(log)
	if err != nil {
		return err
	}
	p, ok := aws.FindProfile(profiles, name)
	if !ok {
		return fmt.Errorf("profile %q not found", name)
	}

	alias := chromeProfileFlag
	if alias == "" {
		alias = config.ChromeProfile()
	}
	log.Debug("opening portal", zap.String("url", p.StartURL), zap.String("chrome_profile", alias))

	if err := browser.OpenURL(p.StartURL, alias); err != nil {
		return fmt.Errorf("open %s: %w", p.StartURL, err)
	}
	cmd.PrintErrln(tui.InfoStyle.Render("Opened " + p.StartURL))
	return nil
}
