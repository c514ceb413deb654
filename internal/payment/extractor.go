// Package payment turns Razorpay webhook envelopes into normalised payment records.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/isometry/razorpay-interakt-app/internal/helpers"
	"github.com/isometry/razorpay-interakt-app/internal/logging"
	"github.com/isometry/razorpay-interakt-app/internal/models"
)

const defaultCurrency = "INR"

// Note keys read from the payment notes.
const (
	NoteCustomerName = "customer_name"
	NoteEmail        = "email"
	NoteContact      = "contact"
)

// OrderLookup fetches an order from the payment gateway.
type OrderLookup interface {
	FetchOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// ExtractionError reports a payload that lacks a field required to build a record.
type ExtractionError struct {
	Field string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("invalid payment payload: missing %s", e.Field)
}

// OrderLookupError reports a failed order fetch. It aborts the whole request.
type OrderLookupError struct {
	OrderID string
	Err     error
}

func (e *OrderLookupError) Error() string {
	return fmt.Sprintf("failed to fetch order %s: %v", e.OrderID, e.Err)
}

func (e *OrderLookupError) Unwrap() error {
	return e.Err
}

// Extractor builds PaymentRecords.
type Extractor struct {
	logger *slog.Logger
}

// Option is a functional option used to configure an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for extraction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor returns an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	_inst := &Extractor{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = logging.NewNoopLogger()
	}
	return _inst
}

// Extract reads the payment entity from envelope and builds the record addressed by the payment id.
//
// When lookup is not nil the order is fetched first: a payment without an order id is an
// *ExtractionError and a failed fetch an *OrderLookupError. The fetched order does not contribute
// to the record.
func (x *Extractor) Extract(ctx context.Context, envelope *models.WebhookEnvelope, lookup OrderLookup) (*models.PaymentRecord, error) {
	p := envelope.Payment()
	if p == nil {
		return nil, &ExtractionError{Field: "payload.payment.entity"}
	}
	if strings.TrimSpace(p.ID) == "" {
		return nil, &ExtractionError{Field: "payload.payment.entity.id"}
	}
	logger := x.logger.With(slog.String("paymentID", p.ID))

	switch {
	case lookup == nil:
		logger.Debug("order lookup disabled")
	case strings.TrimSpace(p.OrderID) == "":
		return nil, &ExtractionError{Field: "payload.payment.entity.order_id"}
	default:
		order, err := lookup.FetchOrder(ctx, p.OrderID)
		if err != nil {
			return nil, &OrderLookupError{OrderID: p.OrderID, Err: err}
		}
		// TODO: use order.Notes as a fallback source for customer details.
		logger.Debug("fetched order", slog.String("orderID", order.ID), slog.String("status", order.Status))
	}

	record := &models.PaymentRecord{
		ID:          p.ID,
		Name:        helpers.FirstNonEmpty(p.Notes.Get(NoteCustomerName), models.DefaultCustomerName),
		Email:       helpers.FirstNonEmpty(p.Notes.Get(NoteEmail), p.Email),
		Contact:     helpers.FirstNonEmpty(p.Notes.Get(NoteContact), p.Contact),
		AmountMinor: p.Amount,
		Amount:      float64(p.Amount) / 100,
		Currency:    strings.ToUpper(helpers.FirstNonEmpty(p.Currency, defaultCurrency)),
		PaymentID:   p.ID,
	}
	if record.Contact == "" {
		return nil, &ExtractionError{Field: "payload.payment.entity.contact"}
	}
	return record, nil
}
