package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
)

// SharedProfile is the SDK's view of a profile in the shared config files.
// It is read from disk only; nothing is resolved against AWS.
type SharedProfile struct {
	Name       string `json:"profile_name"`
	Region     string `json:"region,omitempty"`
	AccountID  string `json:"sso_account_id,omitempty"`
	RoleName   string `json:"sso_role_name,omitempty"`
	StartURL   string `json:"sso_start_url,omitempty"`
	SSORegion  string `json:"sso_region,omitempty"`
	SSOSession string `json:"sso_session,omitempty"`
}

// ErrProfileNotFound is returned when the shared config has no such profile
var ErrProfileNotFound = errors.New("profile not found")

// LoadSharedProfile reads profile name the way the AWS SDK and CLI will once
// AWS_PROFILE points at it. configFile overrides the config file location;
// empty uses the SDK default.
func LoadSharedProfile(ctx context.Context, name, configFile string) (SharedProfile, error) {
	var opts []func(*config.LoadSharedConfigOptions)
	if configFile != "" {
		opts = append(opts, func(o *config.LoadSharedConfigOptions) {
			o.ConfigFiles = []string{configFile}
		})
	}

	sc, err := config.LoadSharedConfigProfile(ctx, name, opts...)
	if err != nil {
		var notExist config.SharedConfigProfileNotExistError
		if errors.As(err, &notExist) {
			return SharedProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		return SharedProfile{}, fmt.Errorf("loading shared config for %s: %w", name, err)
	}

	p := SharedProfile{
		Name:       sc.Profile,
		Region:     sc.Region,
		AccountID:  sc.SSOAccountID,
		RoleName:   sc.SSORoleName,
		StartURL:   sc.SSOStartURL,
		SSORegion:  sc.SSORegion,
		SSOSession: sc.SSOSessionName,
	}
	if sc.SSOSession != nil {
		if p.StartURL == "" {
			p.StartURL = sc.SSOSession.SSOStartURL
		}
		if p.SSORegion == "" {
			p.SSORegion = sc.SSOSession.SSORegion
		}
	}
	return p, nil
}
