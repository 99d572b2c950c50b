package aws

import (
	"context"
	"errors"
	"testing"
)

func TestLoadSharedProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, sampleConfig)

	tests := []struct {
		name      string
		profile   string
		startURL  string
		ssoRegion string
		region    string
	}{
		{"inline sso settings", "dev-admin", "https://corp.awsapps.com/start", "us-east-1", ""},
		{"sso session reference", "dev-ro", "https://corp.awsapps.com/start", "eu-central-1", "eu-west-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LoadSharedProfile(context.Background(), tt.profile, path)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if p.Name != tt.profile {
				t.Errorf("Expected name %s, got %s", tt.profile, p.Name)
			}
			if p.StartURL != tt.startURL {
				t.Errorf("Expected start URL %s, got %s", tt.startURL, p.StartURL)
			}
			if p.SSORegion != tt.ssoRegion {
				t.Errorf("Expected SSO region %s, got %s", tt.ssoRegion, p.SSORegion)
			}
			if p.Region != tt.region {
				t.Errorf("Expected region %q, got %q", tt.region, p.Region)
			}
			if p.AccountID != "111111111111" {
				t.Errorf("Expected account 111111111111, got %s", p.AccountID)
			}
		})
	}
}

func TestLoadSharedProfileMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, sampleConfig)

	_, err := LoadSharedProfile(context.Background(), "staging", path)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound, got %v", err)
	}
}
