package razorpay

import (
	"log/slog"
	"time"
)

// WithCredentials sets the API key pair.
func WithCredentials(keyID, keySecret string) Option {
	return func(c *Controller) {
		c.keyID = keyID
		c.keySecret = keySecret
	}
}

// WithTimeout bounds every outbound request. The SDK counts whole seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the Controller instance to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}
