package metrics_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/isometry/razorpay-interakt-app/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveWebhook(t *testing.T) {
	before := metrics.WebhookCount(metrics.ResultIgnored)
	metrics.ObserveWebhook(metrics.ResultIgnored, time.Now())
	assert.Equal(t, before+1, metrics.WebhookCount(metrics.ResultIgnored))
}

func TestWrite(t *testing.T) {
	metrics.ObserveCall("interakt", "tag_customer", errors.New("boom"), time.Now())
	metrics.ObserveWebhook(metrics.ResultProcessed, time.Now())

	var buf bytes.Buffer
	metrics.Write(&buf)
	out := buf.String()
	assert.Contains(t, out, `outbound_calls_total{provider="interakt",operation="tag_customer",result="error"}`)
	assert.Contains(t, out, `webhook_requests_total{result="processed"}`)
}

func TestSetup_Disabled(t *testing.T) {
	require.NoError(t, metrics.Setup("", time.Second, ""))
}
