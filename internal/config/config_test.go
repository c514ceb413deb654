package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/isometry/razorpay-interakt-app/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	require.NoError(t, config.LoadFromFile(writeConfig(t, "{}")))
	require.NoError(t, config.SetDefaults())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSetDefaults(t *testing.T) {
	reset(t)

	assert.Equal(t, config.ModeService, config.Global.Mode)
	assert.Equal(t, config.CredentialsModeEnv, config.Global.Credentials.Mode)
	assert.Equal(t, "3000", config.Service.Port)
	assert.Equal(t, "api-gateway-v2", config.Lambda.PayloadType)
	assert.Equal(t, "paid_customer", config.Interakt.Tag)
	assert.Equal(t, "payment_success", config.Interakt.Template)
	assert.Equal(t, "en", config.Interakt.TemplateLanguage)
	assert.Equal(t, "+91", config.Interakt.CountryCode)
	assert.Equal(t, 10*time.Second, config.Interakt.Timeout)
	assert.Equal(t, 10*time.Second, config.Razorpay.Timeout)
	assert.False(t, config.Razorpay.SkipOrderFetch)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
global:
  mode: lambda
  logging:
    verbosity: 2
razorpay:
  webhookSecret: shh
interakt:
  tag: vip
  timeout: 3s
service:
  port: "8080"
`)
	require.NoError(t, config.LoadFromFile(path))
	require.NoError(t, config.SetDefaults())
	t.Cleanup(func() { reset(t) })

	assert.Equal(t, config.ModeLambda, config.Global.Mode)
	assert.Equal(t, 2, config.Global.Logging.Verbosity)
	assert.Equal(t, "shh", config.Razorpay.WebhookSecret)
	assert.Equal(t, "vip", config.Interakt.Tag)
	assert.Equal(t, 3*time.Second, config.Interakt.Timeout)
	assert.Equal(t, "8080", config.Service.Port)
	// untouched fields still receive defaults
	assert.Equal(t, "payment_success", config.Interakt.Template)
}

func TestLoadFromFile_Errors(t *testing.T) {
	require.NoError(t, config.LoadFromFile(""))
	require.NoError(t, config.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, config.LoadFromFile(t.TempDir()))
	assert.Error(t, config.LoadFromFile(writeConfig(t, "global: [")))
}

func TestApplyCredentials(t *testing.T) {
	reset(t)
	t.Cleanup(func() { reset(t) })
	config.Interakt.WorkspaceID = "ws_existing"

	require.NoError(t, config.ApplyCredentials([]byte(`{
		"razorpay_key_id": "rzp_test_1",
		"razorpay_key_secret": "secret",
		"webhook_secret": "whsec",
		"interakt_api_key": "api"
	}`)))

	assert.Equal(t, "rzp_test_1", config.Razorpay.KeyID)
	assert.Equal(t, "secret", config.Razorpay.KeySecret)
	assert.Equal(t, "whsec", config.Razorpay.WebhookSecret)
	assert.Equal(t, "api", config.Interakt.APIKey)
	assert.Equal(t, "ws_existing", config.Interakt.WorkspaceID)

	assert.Error(t, config.ApplyCredentials([]byte("not json")))
}

func TestValidate(t *testing.T) {
	reset(t)
	t.Cleanup(func() { reset(t) })

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEBHOOK_SECRET")
	assert.Contains(t, err.Error(), "INTERAKT_API_KEY")
	assert.Contains(t, err.Error(), "RAZORPAY_KEY_ID")

	config.Razorpay.WebhookSecret = "whsec"
	config.Interakt.APIKey = "api"
	config.Razorpay.SkipOrderFetch = true
	assert.NoError(t, config.Validate())

	config.AWS.S3.Upload.Enabled = true
	assert.Error(t, config.Validate())
}

func TestWebhookBudget(t *testing.T) {
	reset(t)
	t.Cleanup(func() { reset(t) })

	assert.Equal(t, 40*time.Second, config.WebhookBudget())
	assert.Greater(t, config.Service.Timeout, config.WebhookBudget(), "default service timeout must cover the full chain")

	config.Razorpay.SkipOrderFetch = true
	assert.Equal(t, 30*time.Second, config.WebhookBudget())

	config.Razorpay.WebhookSecret = "whsec"
	config.Interakt.APIKey = "api"
	config.Service.Timeout = 30 * time.Second
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must exceed the webhook budget 30s")

	config.Global.Mode = config.ModeLambda
	assert.NoError(t, config.Validate())
}
