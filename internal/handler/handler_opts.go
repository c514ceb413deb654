package handler

import (
	"log/slog"

	"github.com/isometry/razorpay-interakt-app/internal/payment"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithVerifier sets the signature verifier. Requests are rejected when none is configured.
func WithVerifier(v Verifier) Option {
	return func(h *Handler) {
		h.verifier = v
	}
}

// WithExtractor replaces the default payment extractor.
func WithExtractor(x Extractor) Option {
	return func(h *Handler) {
		h.extractor = x
	}
}

// WithOrderLookup enables the order fetch performed before building the payment record.
func WithOrderLookup(lookup payment.OrderLookup) Option {
	return func(h *Handler) {
		h.lookup = lookup
	}
}

// WithMessenger sets the customer-engagement client driven for authorized payments.
func WithMessenger(m Messenger) Option {
	return func(h *Handler) {
		h.messenger = m
	}
}

// WithArchiver stores the raw body of processed events in bucket. Archival failures are only logged.
func WithArchiver(a Archiver, bucket string) Option {
	return func(h *Handler) {
		h.archiver = a
		h.archiveBucket = bucket
	}
}

// WithTag overrides the tag attached to paying customers.
func WithTag(tag string) Option {
	return func(h *Handler) {
		if tag != "" {
			h.tag = tag
		}
	}
}

// WithTemplate overrides the message template sent to paying customers.
func WithTemplate(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.template = name
		}
	}
}
