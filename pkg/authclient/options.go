package authclient

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client for handshakes.
// This is useful for testing with httptest servers or injecting
// custom transports.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCredentialSource sets the source of stored credentials used when the
// refresh grant is absent or rejected.
func WithCredentialSource(src CredentialSource) Option {
	return func(c *HTTPClient) {
		c.creds = src
	}
}

// WithLogger sets the logger for handshake events.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultTTL sets the token lifetime assumed when the backend omits
// expires_in. Zero disables the proactive expiry estimate entirely.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *HTTPClient) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}
