package aws

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// GetAWSConfigPath returns the path to the AWS config file.
func GetAWSConfigPath() (string, error) {
	configPath := os.Getenv("AWS_CONFIG_FILE")
	if configPath != "" {
		return configPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(home, ".aws", "config"), nil
}

// Profile is an SSO profile found in the AWS config file.
type Profile struct {
	Identifier  string `json:"profile_name"`
	AccountName string `json:"account_name"`
	AccountID   string `json:"account_id"`
	RoleName    string `json:"role_name"`
	StartURL    string `json:"sso_start_url,omitempty"`
	SSORegion   string `json:"sso_region,omitempty"`
	SSOSession  string `json:"sso_session,omitempty"`
	Region      string `json:"region,omitempty"`
}

// DisplayName returns "<account> - <role>".
func (p Profile) DisplayName() string {
	return p.AccountName + " - " + p.RoleName
}

// ProfileCatalog supplies the profiles to choose from.
type ProfileCatalog interface {
	Load() ([]Profile, error)
}

// FileCatalog reads SSO profiles from an AWS config file.
type FileCatalog struct {
	Path string
}

// Ensure FileCatalog implements ProfileCatalog interface
var _ ProfileCatalog = (*FileCatalog)(nil)

// NewFileCatalog returns a catalog for path. An empty path resolves to the
// default AWS config location.
func NewFileCatalog(path string) (*FileCatalog, error) {
	if path == "" {
		p, err := GetAWSConfigPath()
		if err != nil {
			return nil, &CatalogError{Err: ErrCatalogUnavailable, Message: err.Error()}
		}
		path = p
	}
	return &FileCatalog{Path: path}, nil
}

// Load parses the config file. It fails with ErrCatalogUnavailable when the
// file cannot be read, ErrCatalogMalformed when it is not valid ini, and
// ErrNoProfilesFound when it holds no usable SSO profile.
func (c *FileCatalog) Load() ([]Profile, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		msg := "cannot read file"
		if os.IsNotExist(err) {
			msg = "file not found"
		}
		return nil, &CatalogError{Path: c.Path, Err: ErrCatalogUnavailable, Message: msg, Cause: err}
	}

	profiles, err := ParseProfiles(data)
	if err != nil {
		var ce *CatalogError
		if errors.As(err, &ce) {
			ce.Path = c.Path
		}
		return nil, err
	}
	return profiles, nil
}

// ParseProfiles extracts SSO profiles from AWS config content, sorted by
// identifier. Sections that are not SSO profiles, or that lack a required
// field, are skipped.
func ParseProfiles(data []byte) ([]Profile, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, &CatalogError{Err: ErrCatalogMalformed, Message: "invalid ini syntax", Cause: err}
	}

	sessions := ssoSessions(cfg)

	var profiles []Profile
	for _, section := range cfg.Sections() {
		name := section.Name()
		if name == ini.DefaultSection || strings.HasPrefix(name, "sso-session ") || strings.HasPrefix(name, "services ") {
			continue
		}
		if !isSSOProfile(section) {
			continue
		}

		profile, ok := extractProfile(strings.TrimPrefix(name, "profile "), section, sessions)
		if !ok {
			continue
		}
		profiles = append(profiles, profile)
	}

	if len(profiles) == 0 {
		return nil, &CatalogError{Err: ErrNoProfilesFound, Message: "no SSO profiles configured"}
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Identifier < profiles[j].Identifier
	})
	return profiles, nil
}

// SSOSessionInfo contains information about an SSO session
type SSOSessionInfo struct {
	Name     string
	StartURL string
	Region   string
}

func ssoSessions(cfg *ini.File) map[string]SSOSessionInfo {
	sessions := make(map[string]SSOSessionInfo)
	for _, section := range cfg.Sections() {
		name := section.Name()
		if !strings.HasPrefix(name, "sso-session ") {
			continue
		}
		sessionName := strings.TrimSpace(strings.TrimPrefix(name, "sso-session "))
		sessions[sessionName] = SSOSessionInfo{
			Name:     sessionName,
			StartURL: section.Key("sso_start_url").String(),
			Region:   section.Key("sso_region").String(),
		}
	}
	return sessions
}

// isSSOProfile reports whether a section carries SSO account/role settings,
// either auto-populated by a generator or written by hand.
func isSSOProfile(section *ini.Section) bool {
	if strings.EqualFold(section.Key("sso_auto_populated").String(), "true") {
		return true
	}
	if !section.HasKey("sso_account_id") || !section.HasKey("sso_role_name") {
		return false
	}
	return section.HasKey("sso_start_url") || section.HasKey("sso_session")
}

func extractProfile(name string, section *ini.Section, sessions map[string]SSOSessionInfo) (Profile, bool) {
	p := Profile{
		Identifier: strings.TrimSpace(name),
		AccountID:  section.Key("sso_account_id").String(),
		RoleName:   section.Key("sso_role_name").String(),
		StartURL:   section.Key("sso_start_url").String(),
		SSORegion:  section.Key("sso_region").String(),
		SSOSession: section.Key("sso_session").String(),
		Region:     section.Key("region").String(),
	}

	if s, ok := sessions[p.SSOSession]; ok {
		if p.StartURL == "" {
			p.StartURL = s.StartURL
		}
		if p.SSORegion == "" {
			p.SSORegion = s.Region
		}
	}

	p.AccountName = section.Key("sso_account_name").String()
	if p.AccountName == "" {
		p.AccountName = section.Key("account_name").String()
	}
	if p.AccountName == "" {
		p.AccountName = "Account-" + p.AccountID
	}

	if p.Identifier == "" || p.AccountID == "" || p.RoleName == "" || p.StartURL == "" {
		return Profile{}, false
	}
	return p, true
}

// FindProfile returns the profile with the given identifier.
func FindProfile(profiles []Profile, identifier string) (Profile, bool) {
	for _, p := range profiles {
		if p.Identifier == identifier {
			return p, true
		}
	}
	return Profile{}, false
}
