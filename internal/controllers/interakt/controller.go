// Package interakt provides a thin typed client for the Interakt public API.
package interakt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/isometry/razorpay-interakt-app/internal/helpers"
	"github.com/isometry/razorpay-interakt-app/internal/logging"
	"github.com/isometry/razorpay-interakt-app/internal/metrics"
	"github.com/isometry/razorpay-interakt-app/internal/models"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the Interakt public API root.
	DefaultBaseURL = "https://api.interakt.ai/v1/public"
	// DefaultCountryCode is sent with every upserted customer.
	DefaultCountryCode = "+91"
	// DefaultLanguageCode is the template language.
	DefaultLanguageCode = "en"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Operation names, as used in errors, logs and metrics.
const (
	OpUpsertCustomer = "upsert_customer"
	OpTagCustomer    = "tag_customer"
	OpSendTemplate   = "send_template_message"
)

const (
	pathUsers   = "/track/users/"
	pathTags    = "/track/users/tags/"
	pathMessage = "/message/"
)

// CallError describes a failed provider call: either a non-2xx reply or a transport error.
type CallError struct {
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *CallError) Error() string {
	switch {
	case e.Body != "":
		return fmt.Sprintf("interakt %s failed (%d): %s", e.Operation, e.StatusCode, helpers.Truncate(e.Body, 512))
	case e.Err != nil:
		return fmt.Sprintf("interakt %s failed: %v", e.Operation, e.Err)
	default:
		return fmt.Sprintf("interakt %s failed with status %d", e.Operation, e.StatusCode)
	}
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Controller issues the three Interakt calls. It performs no retries and enforces no ordering.
type Controller struct {
	apiKey       string
	workspaceID  string
	countryCode  string
	languageCode string
	baseURL      string
	timeout      time.Duration
	client       *http.Client
	logger       *slog.Logger
}

// Option is a functional option used to configure a Controller instance.
type Option func(*Controller)

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{
		baseURL:      DefaultBaseURL,
		countryCode:  DefaultCountryCode,
		languageCode: DefaultLanguageCode,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = logging.NewNoopLogger()
	}
	if _inst.apiKey == "" {
		return nil, errors.New("missing interakt api key")
	}
	if _inst.client == nil {
		_inst.client = &http.Client{Timeout: _inst.timeout}
	}
	_inst.baseURL = strings.TrimRight(_inst.baseURL, "/")
	return _inst, nil
}

type traits struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type upsertRequest struct {
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
	CountryCode string `json:"countryCode"`
	Traits      traits `json:"traits"`
}

type tagRequest struct {
	UserID      string `json:"userId"`
	Tag         string `json:"tag"`
	WorkspaceID string `json:"workspaceId,omitempty"`
}

type template struct {
	Name         string   `json:"name"`
	LanguageCode string   `json:"languageCode"`
	HeaderValues []string `json:"headerValues"`
	BodyValues   []string `json:"bodyValues"`
}

type messageRequest struct {
	UserID      string   `json:"userId"`
	PhoneNumber string   `json:"phoneNumber"`
	CountryCode string   `json:"countryCode"`
	Type        string   `json:"type"`
	Template    template `json:"template"`
}

// UpsertCustomer creates or identifies the customer addressed by record.ID.
func (c *Controller) UpsertCustomer(ctx context.Context, record *models.PaymentRecord) (*models.ProviderResponse, error) {
	if record == nil || record.ID == "" {
		return nil, &CallError{Operation: OpUpsertCustomer, Err: errors.New("missing customer id")}
	}
	return c.post(ctx, OpUpsertCustomer, pathUsers, upsertRequest{
		UserID:      record.ID,
		PhoneNumber: NormalisePhone(record.Contact, c.countryCode),
		CountryCode: c.countryCode,
		Traits:      traits{Name: record.Name, Email: record.Email},
	})
}

// TagCustomer attaches tag to an already identified customer.
func (c *Controller) TagCustomer(ctx context.Context, customerID, tag string) (*models.ProviderResponse, error) {
	if customerID == "" {
		return nil, &CallError{Operation: OpTagCustomer, Err: errors.New("missing customer id")}
	}
	return c.post(ctx, OpTagCustomer, pathTags, tagRequest{
		UserID:      customerID,
		Tag:         tag,
		WorkspaceID: c.workspaceID,
	})
}

// SendTemplatedMessage sends templateName to customerID. bodyValues bind to the body placeholders in order.
func (c *Controller) SendTemplatedMessage(ctx context.Context, customerID, templateName string, bodyValues []string) (*models.ProviderResponse, error) {
	if customerID == "" {
		return nil, &CallError{Operation: OpSendTemplate, Err: errors.New("missing customer id")}
	}
	if bodyValues == nil {
		bodyValues = []string{}
	}
	return c.post(ctx, OpSendTemplate, pathMessage, messageRequest{
		UserID: customerID,
		// addressed by userId only
		PhoneNumber: "",
		CountryCode: "",
		Type:        "Template",
		Template: template{
			Name:         templateName,
			LanguageCode: c.languageCode,
			HeaderValues: []string{},
			BodyValues:   bodyValues,
		},
	})
}

func (c *Controller) post(ctx context.Context, operation, path string, payload any) (response *models.ProviderResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveCall("interakt", operation, err, start) }()
	logger := c.logger.With(slog.String("operation", operation))

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &CallError{Operation: operation, Err: errors.Wrap(err, "failed to encode request")}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Operation: operation, Err: errors.Wrap(err, "failed to create request")}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	logger.Debug("calling interakt...", slog.String("path", path))
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("interakt call failed", slog.Any("error", err))
		return nil, &CallError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &CallError{Operation: operation, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "failed to read response")}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("interakt call rejected", slog.Int("status", resp.StatusCode), slog.String("body", helpers.Truncate(string(respBody), 512)))
		return nil, &CallError{Operation: operation, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	response = &models.ProviderResponse{Raw: respBody}
	if len(bytes.TrimSpace(respBody)) > 0 {
		if jsonErr := json.Unmarshal(respBody, response); jsonErr != nil {
			logger.Debug("non-JSON interakt response", slog.Any("error", jsonErr))
		}
	}
	logger.Info("interakt call succeeded", slog.Int("status", resp.StatusCode), slog.String("message", response.Message))
	return response, nil
}

// NormalisePhone strips formatting characters and the leading country code from contact.
func NormalisePhone(contact, countryCode string) string {
	phone := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, contact)
	if countryCode == "" {
		return phone
	}
	if trimmed, ok := strings.CutPrefix(phone, countryCode); ok {
		return trimmed
	}
	bare := strings.TrimPrefix(countryCode, "+")
	if trimmed, ok := strings.CutPrefix(phone, bare); ok && len(trimmed) >= 10 {
		return trimmed
	}
	return phone
}
