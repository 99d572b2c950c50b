package aws

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCatalogUnavailable is returned when the AWS config file cannot be read
	ErrCatalogUnavailable = errors.New("aws config unavailable")

	// ErrCatalogMalformed is returned when the AWS config file cannot be parsed
	ErrCatalogMalformed = errors.New("aws config malformed")

	// ErrNoProfilesFound is returned when the config parses but holds no SSO profile
	ErrNoProfilesFound = errors.New("no sso profiles found")
)

// CatalogError represents a catalog failure with additional context
type CatalogError struct {
	Path    string
	Err     error // one of the sentinel errors above
	Message string
	Cause   error // underlying I/O or parse error, if any
}

func (e *CatalogError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Err.Error())
	if e.Path != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Path))
	}
	if e.Message != "" {
		msg.WriteString(": " + e.Message)
	}
	if e.Cause != nil {
		msg.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	return msg.String()
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// GetUserFriendlyMessage returns one line describing the failure and one line
// suggesting a fix.
func (e *CatalogError) GetUserFriendlyMessage() string {
	where := e.Path
	if where == "" {
		where = "the AWS config file"
	}

	switch {
	case errors.Is(e.Err, ErrCatalogUnavailable):
		return fmt.Sprintf("Could not read %s.\nCreate it with 'aws configure sso' or point AWS_CONFIG_FILE at an existing file.", where)
	case errors.Is(e.Err, ErrCatalogMalformed):
		detail := ""
		if e.Cause != nil {
			detail = " (" + e.Cause.Error() + ")"
		}
		return fmt.Sprintf("Could not parse %s%s.\nFix the syntax error and try again.", where, detail)
	case errors.Is(e.Err, ErrNoProfilesFound):
		return fmt.Sprintf("No SSO profiles found in %s.\nProfiles need sso_account_id, sso_role_name and sso_start_url or sso_session.", where)
	default:
		return e.Error()
	}
}
