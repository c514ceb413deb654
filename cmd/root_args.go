package cmd

import (
	"time"

	"github.com/isometry/razorpay-interakt-app/internal/config"
	"github.com/isometry/razorpay-interakt-app/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'service' and 'lambda'",
		Short:       helpers.Ptr("m"),
	},
	&config.Global.Credentials.Mode: {
		Name:        "credentials-mode",
		Description: "Where provider credentials are read from. Supported values are 'env' and 'ssm'",
		Short:       helpers.Ptr("A"),
	},
	&config.Global.Credentials.SSMKey: {
		Name:        "credentials-ssm-key",
		Description: "The SSM SecureString parameter holding the provider credentials document",
	},
	&config.Global.Logging.LokiURL: {
		Name:        "loki-url",
		Description: "Ship logs to this Loki push endpoint instead of stdout",
	},
	&config.Global.Metrics.PushURL: {
		Name:        "metrics-push-url",
		Description: "Push metrics in Prometheus text format to this URL. If not specified, metrics are only served on /metrics",
	},
	&config.Global.Metrics.Labels: {
		Name:        "metrics-push-labels",
		Description: "Extra labels added to pushed metrics, e.g. instance=\"a\",env=\"prod\"",
	},
	&config.Razorpay.KeyID: {
		Name:        "razorpay-key-id",
		Description: "The Razorpay API key id used to fetch orders",
	},
	&config.Razorpay.KeySecret: {
		Name:        "razorpay-key-secret",
		Description: "The Razorpay API key secret used to fetch orders",
		Hidden:      true,
	},
	&config.Razorpay.WebhookSecret: {
		Name:        "webhook-secret",
		Description: "The secret to use when validating incoming Razorpay webhook payloads",
		Hidden:      true,
	},
	&config.Interakt.APIKey: {
		Name:        "interakt-api-key",
		Description: "The Interakt public API key",
		Hidden:      true,
	},
	&config.Interakt.WorkspaceID: {
		Name:        "interakt-workspace-id",
		Description: "The Interakt workspace id sent with tag requests",
	},
	&config.Interakt.BaseURL: {
		Name:        "interakt-base-url",
		Description: "The Interakt public API base URL",
		Hidden:      true,
	},
	&config.Interakt.CountryCode: {
		Name:        "interakt-country-code",
		Description: "The dialling code assumed for customer contacts without one",
	},
	&config.Interakt.Tag: {
		Name:        "interakt-tag",
		Description: "The tag attached to customers whose payment was authorized",
	},
	&config.Interakt.Template: {
		Name:        "interakt-template",
		Description: "The message template sent on payment authorization",
	},
	&config.Interakt.TemplateLanguage: {
		Name:        "interakt-template-language",
		Description: "The language code of the message template",
	},
	&config.AWS.S3.Upload.BucketName: {
		Name:        "payload-s3-upload-bucket",
		Description: "The S3 bucket to use when archiving processed webhook payloads",
		Env:         helpers.Ptr("PAYLOAD_S3_BUCKET"),
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Razorpay.SkipOrderFetch: {
		Name:        "razorpay-skip-order-fetch",
		Description: "Do not fetch the Razorpay order of authorized payments",
	},
	&config.AWS.S3.Upload.Enabled: {
		Name:        "payload-s3-upload",
		Description: "Enable S3 archival of processed webhook payloads",
		Env:         helpers.Ptr("PAYLOAD_S3_UPLOAD"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Global.Metrics.PushInterval: {
		Name:        "metrics-push-interval",
		Description: "The interval between metrics pushes",
	},
	&config.Razorpay.Timeout: {
		Name:        "razorpay-timeout",
		Description: "The timeout of Razorpay API calls",
	},
	&config.Interakt.Timeout: {
		Name:        "interakt-timeout",
		Description: "The timeout of each Interakt API call",
	},
}
