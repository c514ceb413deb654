// Package metrics registers the process counters and histograms exposed on /metrics.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
)

// Webhook outcomes, used as the result label of webhook_requests_total.
const (
	ResultProcessed = "processed"
	ResultIgnored   = "ignored"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

var webhookDuration = metrics.GetOrCreateHistogram(`webhook_processing_duration_seconds`)

// ObserveWebhook records the outcome and duration of a webhook delivery.
func ObserveWebhook(result string, start time.Time) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`webhook_requests_total{result=%q}`, result)).Inc()
	webhookDuration.UpdateDuration(start)
}

// ObserveCall records the outcome and duration of an outbound call to provider.
func ObserveCall(provider, operation string, err error, start time.Time) {
	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.GetOrCreateCounter(fmt.Sprintf(`outbound_calls_total{provider=%q,operation=%q,result=%q}`, provider, operation, result)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`outbound_call_duration_seconds{provider=%q,operation=%q}`, provider, operation)).UpdateDuration(start)
}

// WebhookCount returns the current value of webhook_requests_total for result.
func WebhookCount(result string) uint64 {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`webhook_requests_total{result=%q}`, result)).Get()
}

// Write writes every registered metric in Prometheus text format, including process metrics.
func Write(w io.Writer) {
	metrics.WritePrometheus(w, true)
}

// Setup starts pushing metrics to url every interval. An empty url disables pushing.
func Setup(url string, interval time.Duration, labels string) error {
	if url == "" {
		return nil
	}
	if err := metrics.InitPush(url, interval, labels, true); err != nil {
		return errors.Wrap(err, "failed to initialise metrics push")
	}
	return nil
}
