package browser

import (
	"fmt"
	"os/exec"
	"runtime"

	"awsps/internal/config"

	"github.com/pkg/browser"
)

// OpenURL opens url in the default browser, or in the Chrome profile named by
// chromeProfileAlias when one is given. Aliases are resolved through the
// chrome_profiles table of the config file.
func OpenURL(url, chromeProfileAlias string) error {
	// If no profile is requested, use the default simple method.
	if chromeProfileAlias == "" {
		return browser.OpenURL(url)
	}

	// Look up the alias to get the real directory name from the config file.
	profileDirectory := config.GetChromeProfileDirectory(chromeProfileAlias)

	name, args, ok := chromeCommand(runtime.GOOS, profileDirectory, url)
	if !ok {
		// For unsupported OS, fall back to the default browser.
		return browser.OpenURL(url)
	}
	return exec.Command(name, args...).Start()
}

// chromeCommand returns the Chrome executable and arguments for goos.
func chromeCommand(goos, profileDirectory, url string) (string, []string, bool) {
	args := []string{fmt.Sprintf("--profile-directory=%s", profileDirectory), url}

	switch goos {
	case "darwin":
		return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome", args, true
	case "windows":
		return `C:\Program Files\Google\Chrome\Application\chrome.exe`, args, true
	case "linux":
		// Assumes 'google-chrome' is in the user's PATH
		return "google-chrome", args, true
	default:
		return "", nil, false
	}
}
