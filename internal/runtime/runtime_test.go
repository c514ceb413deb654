package runtime_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/h2non/gock"
	"github.com/isometry/razorpay-interakt-app/internal/controllers/interakt"
	"github.com/isometry/razorpay-interakt-app/internal/handler"
	"github.com/isometry/razorpay-interakt-app/internal/models"
	"github.com/isometry/razorpay-interakt-app/internal/runtime"
	"github.com/isometry/razorpay-interakt-app/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	bodies  [][]byte
	headers []map[string]string
}

func (f *fakeProcessor) Process(_ context.Context, body []byte, headers map[string]string) (models.Response, error) {
	f.bodies = append(f.bodies, body)
	f.headers = append(f.headers, headers)
	return models.NewJSONResponse(http.StatusOK, models.StatusBody{Status: "success", Message: handler.MessageIgnored}), nil
}

func TestRuntime_ServeHTTP_Routes(t *testing.T) {
	testCases := []struct {
		Name           string
		Method         string
		Path           string
		ExpectedStatus int
		ExpectedBody   string
		ExpectedCalls  int
	}{
		{
			Name:           "root",
			Method:         http.MethodGet,
			Path:           "/",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   `{"message":"Razorpay to Interakt Webhook Server is running"}`,
		},
		{
			Name:           "health",
			Method:         http.MethodGet,
			Path:           "/health",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   `{"status":"ok"}`,
		},
		{
			Name:           "webhook",
			Method:         http.MethodPost,
			Path:           runtime.WebhookPath,
			ExpectedStatus: http.StatusOK,
			ExpectedCalls:  1,
		},
		{
			Name:           "webhook_trailing_slash",
			Method:         http.MethodPost,
			Path:           runtime.WebhookPath + "/",
			ExpectedStatus: http.StatusOK,
			ExpectedCalls:  1,
		},
		{
			Name:           "webhook_get",
			Method:         http.MethodGet,
			Path:           runtime.WebhookPath,
			ExpectedStatus: http.StatusMethodNotAllowed,
			ExpectedBody:   `{"error":"method not allowed"}`,
		},
		{
			Name:           "health_post",
			Method:         http.MethodPost,
			Path:           "/health",
			ExpectedStatus: http.StatusMethodNotAllowed,
		},
		{
			Name:           "unknown",
			Method:         http.MethodGet,
			Path:           "/webhook/stripe",
			ExpectedStatus: http.StatusNotFound,
			ExpectedBody:   `{"error":"not found"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			p := &fakeProcessor{}
			rtm := runtime.NewRuntime(p)

			req := httptest.NewRequest(tc.Method, tc.Path, strings.NewReader(`{"event":"order.paid"}`))
			rr := httptest.NewRecorder()
			rtm.ServeHTTP(rr, req)

			assert.Equal(t, tc.ExpectedStatus, rr.Code)
			if tc.ExpectedBody != "" {
				assert.JSONEq(t, tc.ExpectedBody, rr.Body.String())
			}
			assert.Len(t, p.bodies, tc.ExpectedCalls)
		})
	}
}

func TestRuntime_ServeHTTP_PassesRawBodyAndLowerCaseHeaders(t *testing.T) {
	body := "{\n  \"event\" : \"payment.authorized\"\n}"
	p := &fakeProcessor{}
	rtm := runtime.NewRuntime(p)

	req := httptest.NewRequest(http.MethodPost, runtime.WebhookPath, strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "abc")
	rr := httptest.NewRecorder()
	rtm.ServeHTTP(rr, req)

	require.Len(t, p.bodies, 1)
	assert.Equal(t, body, string(p.bodies[0]))
	assert.Equal(t, "abc", p.headers[0][validation.SignatureHeader])
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestRuntime_ServeHTTP_BodyTooLarge(t *testing.T) {
	p := &fakeProcessor{}
	rtm := runtime.NewRuntime(p, runtime.WithMaxBodyBytes(8))

	req := httptest.NewRequest(http.MethodPost, runtime.WebhookPath, strings.NewReader(`{"event":"payment.authorized"}`))
	rr := httptest.NewRecorder()
	rtm.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Empty(t, p.bodies)
}

func TestRuntime_ServeHTTP_Metrics(t *testing.T) {
	rtm := runtime.NewRuntime(&fakeProcessor{})

	rr := httptest.NewRecorder()
	rtm.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRuntime_HTTPHandler_CORS(t *testing.T) {
	processor := &fakeProcessor{}
	h := runtime.NewRuntime(processor).HTTPHandler()

	t.Run("simple_request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, runtime.WebhookPath, nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Less(t, rr.Code, http.StatusMultipleChoices)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Empty(t, processor.bodies)
	})
}

func TestRuntime_Lambda(t *testing.T) {
	body := `{"event":"payment.captured"}`
	encoded := base64.StdEncoding.EncodeToString([]byte(body))

	testCases := []struct {
		Name        string
		PayloadType string
		Event       any
		Decode      func(t *testing.T, out any) (int, string)
	}{
		{
			Name:        "api_gateway_v1",
			PayloadType: runtime.PayloadAPIGatewayV1,
			Event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Path:       runtime.WebhookPath,
				Headers:    map[string]string{"X-Razorpay-Signature": "sig"},
				Body:       body,
			},
			Decode: func(t *testing.T, out any) (int, string) {
				resp, ok := out.(events.APIGatewayProxyResponse)
				require.True(t, ok)
				return resp.StatusCode, resp.Body
			},
		},
		{
			Name:        "api_gateway_v2",
			PayloadType: runtime.PayloadAPIGatewayV2,
			Event: events.APIGatewayV2HTTPRequest{
				RawPath: runtime.WebhookPath,
				RequestContext: events.APIGatewayV2HTTPRequestContext{
					HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodPost},
				},
				Headers:         map[string]string{"x-razorpay-signature": "sig"},
				Body:            encoded,
				IsBase64Encoded: true,
			},
			Decode: func(t *testing.T, out any) (int, string) {
				resp, ok := out.(events.APIGatewayV2HTTPResponse)
				require.True(t, ok)
				return resp.StatusCode, resp.Body
			},
		},
		{
			Name:        "lambda_url",
			PayloadType: runtime.PayloadLambdaURL,
			Event: events.LambdaFunctionURLRequest{
				RawPath: runtime.WebhookPath,
				RequestContext: events.LambdaFunctionURLRequestContext{
					HTTP: events.LambdaFunctionURLRequestContextHTTPDescription{Method: http.MethodPost},
				},
				Headers: map[string]string{"x-razorpay-signature": "sig"},
				Body:    body,
			},
			Decode: func(t *testing.T, out any) (int, string) {
				resp, ok := out.(events.LambdaFunctionURLResponse)
				require.True(t, ok)
				return resp.StatusCode, resp.Body
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			p := &fakeProcessor{}
			rtm := runtime.NewRuntime(p, runtime.WithLambdaPayloadType(tc.PayloadType))

			payload, err := json.Marshal(tc.Event)
			require.NoError(t, err)

			out, err := rtm.Lambda(context.Background(), payload)
			require.NoError(t, err)
			status, respBody := tc.Decode(t, out)
			assert.Equal(t, http.StatusOK, status)
			assert.Contains(t, respBody, handler.MessageIgnored)

			require.Len(t, p.bodies, 1)
			assert.Equal(t, body, string(p.bodies[0]))
			assert.Equal(t, "sig", p.headers[0][validation.SignatureHeader])
		})
	}
}

func TestRuntime_Lambda_Errors(t *testing.T) {
	_, err := runtime.NewRuntime(&fakeProcessor{}, runtime.WithLambdaPayloadType("sqs")).
		Lambda(context.Background(), json.RawMessage(`{}`))
	assert.ErrorContains(t, err, "unsupported lambda payload type")

	_, err = runtime.NewRuntime(&fakeProcessor{}).Lambda(context.Background(), json.RawMessage(`[]`))
	assert.Error(t, err)

	out, err := runtime.NewRuntime(&fakeProcessor{}).Lambda(context.Background(),
		json.RawMessage(`{"rawPath":"/webhook/razorpay","isBase64Encoded":true,"body":"%%%","requestContext":{"http":{"method":"POST"}}}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, out.(events.APIGatewayV2HTTPResponse).StatusCode)
}

func TestRuntime_EndToEnd(t *testing.T) {
	defer gock.Off()

	const secret = "whsec_e2e"
	body := `{"event":"payment.authorized","payload":{"payment":{"entity":{"id":"pay_e2e","amount":150000,"currency":"INR","contact":"9876543210","email":"e2e@example.com","notes":[]}}}}`

	for _, path := range []string{"/v1/public/track/users/", "/v1/public/track/users/tags/", "/v1/public/message/"} {
		gock.New("https://api.interakt.ai").
			Post(path).
			MatchHeader("Authorization", "^Basic api-key$").
			Reply(http.StatusOK).
			JSON(map[string]any{"result": true, "message": "ok"})
	}

	messenger, err := interakt.NewController(interakt.WithAPIKey("api-key"))
	require.NoError(t, err)
	hdl, err := handler.NewWebhookHandler(
		handler.WithVerifier(validation.NewWebhookSecret(secret)),
		handler.WithMessenger(messenger))
	require.NoError(t, err)
	rtm := runtime.NewRuntime(hdl)

	req := httptest.NewRequest(http.MethodPost, runtime.WebhookPath, strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", validation.Sign([]byte(body), secret))
	rr := httptest.NewRecorder()
	rtm.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success","message":"Webhook processed successfully"}`, rr.Body.String())
	assert.True(t, gock.IsDone())

	req = httptest.NewRequest(http.MethodPost, runtime.WebhookPath, strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", "forged")
	rr = httptest.NewRecorder()
	rtm.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid webhook signature"}`, rr.Body.String())
}
