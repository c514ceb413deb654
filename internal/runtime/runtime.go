// Package runtime exposes the webhook handler over net/http and the AWS Lambda event shapes.
package runtime

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/razorpay-interakt-app/internal/handler"
	"github.com/isometry/razorpay-interakt-app/internal/helpers"
	"github.com/isometry/razorpay-interakt-app/internal/logging"
	"github.com/isometry/razorpay-interakt-app/internal/metrics"
	"github.com/isometry/razorpay-interakt-app/internal/models"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

// Supported Lambda payload types.
const (
	PayloadAPIGatewayV1 = "api-gateway-v1"
	PayloadAPIGatewayV2 = "api-gateway-v2"
	PayloadLambdaURL    = "lambda-url"
)

const (
	// WebhookPath receives Razorpay deliveries.
	WebhookPath = "/webhook/razorpay"
	// DefaultMaxBodyBytes bounds the webhook body read from the wire.
	DefaultMaxBodyBytes int64 = 1 << 20

	messageRunning = "Razorpay to Interakt Webhook Server is running"
)

// Processor turns a raw webhook delivery into a response.
type Processor interface {
	Process(ctx context.Context, body []byte, headers map[string]string) (models.Response, error)
}

// Option is a functional option used to configure a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger instance for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithLambdaPayloadType selects the Lambda event shape decoded by Lambda.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

// WithMaxBodyBytes bounds the request body accepted by ServeHTTP.
func WithMaxBodyBytes(n int64) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxBodyBytes = n
		}
	}
}

// Runtime routes requests to the webhook processor and the service endpoints.
type Runtime struct {
	processor    Processor
	logger       *slog.Logger
	payloadType  string
	maxBodyBytes int64
}

// NewRuntime creates a new runtime instance
func NewRuntime(processor Processor, opts ...Option) *Runtime {
	_inst := &Runtime{
		processor:    processor,
		payloadType:  PayloadAPIGatewayV2,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = logging.NewNoopLogger()
	}
	return _inst
}

// Dispatch routes a transport-neutral request. Header keys must already be lower-cased.
func (r *Runtime) Dispatch(ctx context.Context, req models.Request) models.Response {
	path := req.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}

	switch path {
	case WebhookPath:
		if req.Method != http.MethodPost {
			return methodNotAllowed(http.MethodPost)
		}
		return r.webhook(ctx, req)
	case "/":
		if !readOnly(req.Method) {
			return methodNotAllowed(http.MethodGet)
		}
		return models.NewJSONResponse(http.StatusOK, models.MessageBody{Message: messageRunning})
	case "/health":
		if !readOnly(req.Method) {
			return methodNotAllowed(http.MethodGet)
		}
		return models.NewJSONResponse(http.StatusOK, models.StatusBody{Status: "ok"})
	case "/metrics":
		if !readOnly(req.Method) {
			return methodNotAllowed(http.MethodGet)
		}
		var buf bytes.Buffer
		metrics.Write(&buf)
		return models.Response{
			StatusCode: http.StatusOK,
			Body:       buf.String(),
			Headers:    map[string]string{"Content-Type": "text/plain; version=0.0.4"},
		}
	default:
		r.logger.Debug("no route", slog.String("method", req.Method), slog.String("path", req.Path))
		return models.NewJSONResponse(http.StatusNotFound, models.ErrorBody{Error: "not found"})
	}
}

func (r *Runtime) webhook(ctx context.Context, req models.Request) models.Response {
	response, err := r.processor.Process(ctx, req.Body, req.Headers)
	if err != nil {
		var authErr *handler.AuthenticationError
		if errors.As(err, &authErr) {
			r.logger.Warn("webhook rejected", slog.Any("error", err))
		} else {
			r.logger.Error("webhook failed", slog.Int("status", response.StatusCode), slog.Any("error", err))
		}
	}
	return response
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))

	body, err := io.ReadAll(http.MaxBytesReader(rw, req.Body, r.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.RespondHTTP(models.NewJSONResponse(http.StatusRequestEntityTooLarge, models.ErrorBody{Error: "request body too large"}), rw)
			return
		}
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.NewJSONResponse(http.StatusBadRequest, models.ErrorBody{Error: "failed to read request body"}), rw)
		return
	}

	response := r.Dispatch(req.Context(), models.Request{
		Method:  req.Method,
		Path:    req.URL.Path,
		Body:    body,
		Headers: helpers.LowerHeaders(req.Header),
	})
	helpers.RespondHTTP(response, rw)
}

// HTTPHandler returns the runtime behind permissive CORS handling so browser callers reach every route.
// Preflight requests are answered without reaching the processor.
func (r *Runtime) HTTPHandler() http.Handler {
	return cors.AllowAll().Handler(r)
}

// Lambda is the AWS Lambda handler for the runtime. Handler failures are carried in the
// returned response; an error is only returned when the event itself cannot be decoded.
func (r *Runtime) Lambda(ctx context.Context, payload json.RawMessage) (any, error) {
	r.logger.Info("received lambda event", slog.String("payloadType", r.payloadType))

	switch r.payloadType {
	case PayloadAPIGatewayV1:
		var event events.APIGatewayProxyRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode api gateway v1 event")
		}
		req, err := lambdaRequest(event.HTTPMethod, event.Path, event.Body, event.IsBase64Encoded, event.Headers)
		if err != nil {
			return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
		}
		resp := r.Dispatch(ctx, req)
		return events.APIGatewayProxyResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}, nil
	case PayloadAPIGatewayV2:
		var event events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode api gateway v2 event")
		}
		req, err := lambdaRequest(event.RequestContext.HTTP.Method, event.RawPath, event.Body, event.IsBase64Encoded, event.Headers)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest}, nil
		}
		resp := r.Dispatch(ctx, req)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}, nil
	case PayloadLambdaURL:
		var event events.LambdaFunctionURLRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode lambda url event")
		}
		req, err := lambdaRequest(event.RequestContext.HTTP.Method, event.RawPath, event.Body, event.IsBase64Encoded, event.Headers)
		if err != nil {
			return events.LambdaFunctionURLResponse{StatusCode: http.StatusBadRequest}, nil
		}
		resp := r.Dispatch(ctx, req)
		return events.LambdaFunctionURLResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}
}

func lambdaRequest(method, path, body string, encoded bool, headers map[string]string) (models.Request, error) {
	raw := []byte(body)
	if encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return models.Request{}, errors.Wrap(err, "failed to decode base64 body")
		}
		raw = decoded
	}
	return models.Request{
		Method:  strings.ToUpper(method),
		Path:    path,
		Body:    raw,
		Headers: helpers.LowerKeys(headers),
	}, nil
}

func readOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func methodNotAllowed(allow string) models.Response {
	resp := models.NewJSONResponse(http.StatusMethodNotAllowed, models.ErrorBody{Error: "method not allowed"})
	resp.Headers["Allow"] = allow
	return resp
}
