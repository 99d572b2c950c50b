package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Setting keys
const (
	KeyHistoryFile   = "history_file"
	KeyHistorySize   = "history_size"
	KeyRecentCount   = "recent_count"
	KeyShell         = "shell"
	KeyProfileSource = "profile_source"
	KeyChromeProfile = "chrome_profile"
)

const (
	DefaultHistorySize = 10
	DefaultRecentCount = 5
)

// InitConfig initializes Viper to read the awsps configuration file.
// It should be called once when the application starts.
func InitConfig() {
	viper.SetDefault(KeyHistorySize, DefaultHistorySize)
	viper.SetDefault(KeyRecentCount, DefaultRecentCount)

	// AWSPS_SHELL, AWSPS_HISTORY_FILE, ...
	viper.SetEnvPrefix("awsps")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		// This is unlikely to fail, but handle it gracefully.
		fmt.Fprintln(os.Stderr, "Warning: Could not find home directory. Using default settings.")
		return
	}

	// Set the path for the config file: ~/.config/awsps/
	configPath := filepath.Join(home, ".config", "awsps")

	viper.AddConfigPath(configPath) // Where to look for the config file
	viper.SetConfigName("config")   // Name of the config file (without extension)
	viper.SetConfigType("toml")     // The type of the config file

	// If a config file is found, read it in.
	// It's okay if the file doesn't exist; defaults apply.
	viper.ReadInConfig()
}

// HistoryFile returns the configured history path, or "" for the default.
func HistoryFile() string {
	return expandHome(viper.GetString(KeyHistoryFile))
}

// HistorySize returns the history retention cap.
func HistorySize() int {
	n := viper.GetInt(KeyHistorySize)
	if n <= 0 {
		return DefaultHistorySize
	}
	return n
}

// RecentCount returns how many recent profiles the first stage shows.
func RecentCount() int {
	n := viper.GetInt(KeyRecentCount)
	if n <= 0 {
		return DefaultRecentCount
	}
	return n
}

// Shell returns the configured shell override, or "" to auto-detect.
func Shell() string {
	return strings.TrimSpace(viper.GetString(KeyShell))
}

// ProfileSource returns the configured AWS config path override, or "".
func ProfileSource() string {
	return expandHome(viper.GetString(KeyProfileSource))
}

// ChromeProfile returns the default Chrome profile alias for the portal command.
func ChromeProfile() string {
	return viper.GetString(KeyChromeProfile)
}

// GetChromeProfileDirectory looks up a friendly profile name (alias)
// in the config file and returns the actual directory name.
// If no alias is found, it assumes the input is already the directory name.
func GetChromeProfileDirectory(alias string) string {
	// If no alias is provided, do nothing.
	if alias == "" {
		return ""
	}

	// Viper keys are case-insensitive.
	// It looks for a key like `chrome_profiles.work` in the config file.
	key := fmt.Sprintf("chrome_profiles.%s", alias)
	if viper.IsSet(key) {
		return viper.GetString(key)
	}

	// No mapping found, assume the input is already a directory name.
	return alias
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
