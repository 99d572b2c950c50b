package cmd

import (
	"awsps/internal/aws"
	"awsps/internal/config"
	"awsps/internal/history"
	"awsps/internal/shell"

	"go.uber.org/zap"
)

// profileCatalog returns the catalog named by --config-file, the
// profile_source setting, or the default AWS config location.
func profileCatalog() (aws.ProfileCatalog, error) {
	path := configFileFlag
	if path == "" {
		path = config.ProfileSource()
	}
	return aws.NewFileCatalog(path)
}

func loadProfiles(log *zap.Logger) ([]aws.Profile, error) {
	catalog, err := profileCatalog()
	if err != nil {
		return nil, err
	}
	profiles, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	log.Debug("loaded profile catalog", zap.Int("profiles", len(profiles)))
	return profiles, nil
}

func openLedger(log *zap.Logger) (*history.Ledger, error) {
	path := config.HistoryFile()
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return history.Open(path, config.HistorySize(), history.WithLogger(log)), nil
}

// targetShell resolves --shell, then the shell setting, then detection.
func targetShell() (shell.SupportedShell, error) {
	name := shellFlag
	if name == "" {
		name = config.Shell()
	}
	if name == "" {
		return shell.Detect(), nil
	}
	return shell.Parse(name)
}
