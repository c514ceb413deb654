// Package validation provides functionality for validating webhook signatures to verify request authenticity.
package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// SignatureHeader is the lower-cased header carrying the hex HMAC-SHA256 of the raw body.
const SignatureHeader = "x-razorpay-signature"

var (
	// ErrMissingSecret is returned when no webhook secret has been configured.
	ErrMissingSecret = errors.New("missing webhook secret")
	// ErrMissingSignature is returned when the request carries no signature header.
	ErrMissingSignature = errors.New("missing HMAC-SHA256 signature")
	// ErrSignatureMismatch is returned when the signature does not match the body.
	ErrSignatureMismatch = errors.New("HMAC-SHA256 signature mismatch")
)

// Sign returns the hex-encoded HMAC-SHA256 of body keyed by secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the HMAC-SHA256 of the exact body bytes keyed by secret.
// The comparison runs in constant time. An empty signature or secret never verifies.
func Verify(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(body, secret)), []byte(signature))
}

// WebhookSecret represents a secret used to validate webhook signatures for verifying request authenticity.
type WebhookSecret string

// NewWebhookSecret creates a new WebhookSecret instance from the provided secret string and returns its address.
func NewWebhookSecret(secret string) *WebhookSecret {
	s := WebhookSecret(secret)
	return &s
}

// Verify reports whether signature matches body under this secret.
func (s *WebhookSecret) Verify(body []byte, signature string) bool {
	if s == nil {
		return false
	}
	return Verify(body, signature, string(*s))
}

// ValidateSignature validates the HMAC-SHA256 signature of a webhook request using the provided body and headers.
// Header keys are expected in lower case.
func (s *WebhookSecret) ValidateSignature(body []byte, headers map[string]string) error {
	if s == nil || *s == "" {
		return ErrMissingSecret
	}
	signature, found := headers[SignatureHeader]
	if !found || signature == "" {
		return ErrMissingSignature
	}
	if !s.Verify(body, signature) {
		return ErrSignatureMismatch
	}
	return nil
}
