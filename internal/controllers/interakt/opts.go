package interakt

import (
	"log/slog"
	"net/http"
	"time"
)

// WithAPIKey sets the credential sent in the Authorization header.
func WithAPIKey(key string) Option {
	return func(c *Controller) {
		c.apiKey = key
	}
}

// WithWorkspaceID adds workspaceId to tag requests. Empty means omitted.
func WithWorkspaceID(id string) Option {
	return func(c *Controller) {
		c.workspaceID = id
	}
}

// WithCountryCode sets the country code sent with upserted customers.
func WithCountryCode(code string) Option {
	return func(c *Controller) {
		if code != "" {
			c.countryCode = code
		}
	}
}

// WithLanguageCode sets the template language code.
func WithLanguageCode(code string) Option {
	return func(c *Controller) {
		if code != "" {
			c.languageCode = code
		}
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Controller) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout bounds every outbound request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client. WithTimeout has no effect once a client is injected.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.client = client
	}
}

// WithLogger sets a custom logger for the Controller instance to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}
