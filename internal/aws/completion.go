package aws

import (
	"sync"

	"awsps/internal/fuzzy"

	"github.com/spf13/cobra"
)

// profileCache caches the profile list to avoid repeated AWS config parsing
var (
	profileCache      []Profile
	profileCacheMutex sync.RWMutex
	profileCacheValid bool
)

// getCachedProfiles returns cached profiles or loads them from catalog if the
// cache is invalid
func getCachedProfiles(catalog ProfileCatalog) ([]Profile, error) {
	profileCacheMutex.RLock()
	if profileCacheValid && profileCache != nil {
		defer profileCacheMutex.RUnlock()
		return profileCache, nil
	}
	profileCacheMutex.RUnlock()

	profileCacheMutex.Lock()
	defer profileCacheMutex.Unlock()

	// Double-check in case another goroutine updated the cache
	if profileCacheValid && profileCache != nil {
		return profileCache, nil
	}

	profiles, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	profileCache = profiles
	profileCacheValid = true
	return profiles, nil
}

func InvalidateProfileCache() {
	profileCacheMutex.Lock()
	defer profileCacheMutex.Unlock()
	profileCacheValid = false
	profileCache = nil
}

// RankProfiles ranks profiles by identifier against query.
func RankProfiles(query string, profiles []Profile) []Profile {
	items := make([]fuzzy.Item[Profile], len(profiles))
	for i, p := range profiles {
		items[i] = fuzzy.Item[Profile]{Key: p.Identifier, Secondary: p.AccountID, Payload: p}
	}

	ranked := fuzzy.Rank(query, items)
	out := make([]Profile, len(ranked))
	for i, c := range ranked {
		out[i] = c.Payload
	}
	return out
}

// CompleteProfiles returns a cobra completion function that offers profile
// identifiers from catalog, best fuzzy match first.
func CompleteProfiles(catalog func() (ProfileCatalog, error)) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		c, err := catalog()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		profiles, err := getCachedProfiles(c)
		if err != nil {
			// If we can't list profiles, return no completions but don't error
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		ranked := RankProfiles(toComplete, profiles)
		matches := make([]string, 0, len(ranked))
		for _, p := range ranked {
			matches = append(matches, p.Identifier+"\t"+p.DisplayName())
		}

		// keep our ranking instead of the shell's alphabetical order
		return matches, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveKeepOrder
	}
}
