package remote

import "errors"

// Config contains connection settings for the remote accounting platform
type Config struct {
	// BaseURL is the root of the resource API (contacts, invoices, ...)
	BaseURL string
	// TokenURL is the OAuth2 token endpoint used for the refresh grant
	TokenURL string
	// ConnectionsURL lists the tenants the session is authorized for
	ConnectionsURL string
	// ClientID / ClientSecret identify this application to the platform
	ClientID     string
	ClientSecret string
	// TimeoutSeconds bounds every remote round-trip
	TimeoutSeconds int
}

// Errors for configuration validation
var (
	ErrMissingBaseURL        = errors.New("remote: missing base URL")
	ErrMissingTokenURL       = errors.New("remote: missing token URL")
	ErrMissingConnectionsURL = errors.New("remote: missing connections URL")
	ErrMissingClientID       = errors.New("remote: missing client ID")
	ErrMissingClientSecret   = errors.New("remote: missing client secret")
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.TokenURL == "" {
		return ErrMissingTokenURL
	}
	if c.ConnectionsURL == "" {
		return ErrMissingConnectionsURL
	}
	if c.ClientID == "" {
		return ErrMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrMissingClientSecret
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
