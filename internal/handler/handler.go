// Package handler implements the Razorpay webhook pipeline: verify, route, extract, notify.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/isometry/razorpay-interakt-app/internal/logging"
	"github.com/isometry/razorpay-interakt-app/internal/metrics"
	"github.com/isometry/razorpay-interakt-app/internal/models"
	"github.com/isometry/razorpay-interakt-app/internal/payment"
	"github.com/pkg/errors"
)

const (
	// DefaultTag is attached to every customer whose payment was authorized.
	DefaultTag = "paid_customer"
	// DefaultTemplate is the message template sent on payment authorization.
	DefaultTemplate = "payment_success"

	// EventIDHeader carries the Razorpay event id, stable across redeliveries.
	EventIDHeader = "x-razorpay-event-id"
)

// Response messages.
const (
	MessageProcessed        = "Webhook processed successfully"
	MessageIgnored          = "Event received but no action taken"
	MessageInvalidSignature = "Invalid webhook signature"
	MessageInternalError    = "Internal server error"
)

// Names of the provider steps, in execution order.
const (
	StepUpsertCustomer = "upsert_customer"
	StepTagCustomer    = "tag_customer"
	StepSendMessage    = "send_template_message"
)

// Verifier authenticates a raw webhook body against its headers.
type Verifier interface {
	ValidateSignature(body []byte, headers map[string]string) error
}

// Extractor builds the payment record of a verified envelope.
type Extractor interface {
	Extract(ctx context.Context, envelope *models.WebhookEnvelope, lookup payment.OrderLookup) (*models.PaymentRecord, error)
}

// Messenger is the customer-engagement provider.
type Messenger interface {
	UpsertCustomer(ctx context.Context, record *models.PaymentRecord) (*models.ProviderResponse, error)
	TagCustomer(ctx context.Context, customerID, tag string) (*models.ProviderResponse, error)
	SendTemplatedMessage(ctx context.Context, customerID, templateName string, bodyValues []string) (*models.ProviderResponse, error)
}

// Archiver stores raw payloads.
type Archiver interface {
	PutS3Object(ctx context.Context, id string, bucket string, body []byte) error
}

// Option is a functional option used to configure a Handler.
type Option func(*Handler)

// Handler processes Razorpay webhook deliveries. It holds no per-request state and is safe for concurrent use.
type Handler struct {
	logger        *slog.Logger
	verifier      Verifier
	extractor     Extractor
	lookup        payment.OrderLookup
	messenger     Messenger
	archiver      Archiver
	archiveBucket string
	tag           string
	template      string
}

type step struct {
	name string
	run  func(ctx context.Context) (*models.ProviderResponse, error)
}

// NewWebhookHandler returns a Handler. A verifier and a messenger are required.
func NewWebhookHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		tag:      DefaultTag,
		template: DefaultTemplate,
	}
	for _, opt := range options {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = logging.NewNoopLogger()
	}
	if _inst.extractor == nil {
		_inst.extractor = payment.NewExtractor(payment.WithLogger(_inst.logger.With("component", "extractor")))
	}
	if _inst.verifier == nil {
		return nil, errors.New("missing webhook signature verifier")
	}
	if _inst.messenger == nil {
		return nil, errors.New("missing messaging client")
	}
	return _inst, nil
}

// Process runs one webhook delivery to completion and returns the response for the sender.
// The returned error, when not nil, explains a non-2xx response; the response is always usable.
func (h *Handler) Process(ctx context.Context, body []byte, headers map[string]string) (response models.Response, err error) {
	start := time.Now()
	result := metrics.ResultFailed
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
			h.logger.Error("recovered from panic", slog.Any("error", err))
			response, result = internalError(err), metrics.ResultFailed
		}
		metrics.ObserveWebhook(result, start)
	}()

	deliveryID := headers[EventIDHeader]
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}
	logger := h.logger.With(slog.String("deliveryID", deliveryID))

	if err = h.verifier.ValidateSignature(body, headers); err != nil {
		logger.Warn("rejecting webhook", slog.Any("error", err))
		result = metrics.ResultRejected
		return models.NewJSONResponse(http.StatusBadRequest, models.ErrorBody{Error: MessageInvalidSignature}), &AuthenticationError{Err: err}
	}
	logger.Debug("request body is valid")

	var envelope models.WebhookEnvelope
	if err = json.Unmarshal(body, &envelope); err != nil {
		err = errors.Wrap(err, "failed to decode webhook payload")
		logger.Warn("invalid payload", slog.Any("error", err))
		return internalError(err), err
	}
	logger = logger.With(slog.String("event", envelope.Event))
	logger.Info("received webhook event")

	if envelope.Event != models.EventPaymentAuthorized {
		logger.Info("ignoring unhandled event")
		result = metrics.ResultIgnored
		return models.NewJSONResponse(http.StatusOK, models.StatusBody{Status: "success", Message: MessageIgnored}), nil
	}

	h.archive(ctx, logger, deliveryID, body)

	record, err := h.extractor.Extract(ctx, &envelope, h.lookup)
	if err != nil {
		logger.Error("failed to extract payment", slog.Any("error", err))
		return internalError(err), err
	}
	logger = logger.With(slog.Any("payment", record))

	if err = h.notify(ctx, logger, record); err != nil {
		return internalError(err), err
	}

	logger.Info("webhook processed")
	result = metrics.ResultProcessed
	return models.NewJSONResponse(http.StatusOK, models.StatusBody{Status: "success", Message: MessageProcessed}), nil
}

// notify runs the provider steps in order, stopping at the first failure.
// Completed steps are not compensated: a failed send leaves the customer upserted and tagged.
func (h *Handler) notify(ctx context.Context, logger *slog.Logger, record *models.PaymentRecord) error {
	steps := []step{
		{
			name: StepUpsertCustomer,
			run: func(ctx context.Context) (*models.ProviderResponse, error) {
				return h.messenger.UpsertCustomer(ctx, record)
			},
		},
		{
			name: StepTagCustomer,
			run: func(ctx context.Context) (*models.ProviderResponse, error) {
				return h.messenger.TagCustomer(ctx, record.ID, h.tag)
			},
		},
		{
			name: StepSendMessage,
			run: func(ctx context.Context) (*models.ProviderResponse, error) {
				return h.messenger.SendTemplatedMessage(ctx, record.ID, h.template,
					[]string{record.Name, record.DisplayAmount(), record.PaymentID})
			},
		},
	}

	for _, s := range steps {
		resp, err := s.run(ctx)
		if err != nil {
			logger.Error("provider step failed", slog.String("step", s.name), slog.Any("error", err))
			return &StepError{Step: s.name, Err: err}
		}
		attrs := []any{slog.String("step", s.name)}
		if resp != nil {
			attrs = append(attrs, slog.String("message", resp.Message))
		}
		logger.Info("provider step succeeded", attrs...)
	}
	return nil
}

func (h *Handler) archive(ctx context.Context, logger *slog.Logger, id string, body []byte) {
	if h.archiver == nil || h.archiveBucket == "" {
		return
	}
	if err := h.archiver.PutS3Object(ctx, id, h.archiveBucket, body); err != nil {
		logger.Warn("failed to archive payload", slog.Any("error", err))
	}
}

func internalError(err error) models.Response {
	return models.NewJSONResponse(http.StatusInternalServerError, models.ErrorBody{
		Error:   MessageInternalError,
		Details: err.Error(),
	})
}
