// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService binds a listening socket and serves HTTP directly.
	ModeService = "service"
	// ModeLambda is invoked once per request by the AWS Lambda host.
	ModeLambda = "lambda"
)

const (
	// CredentialsModeEnv reads provider credentials from flags and environment variables.
	CredentialsModeEnv = "env"
	// CredentialsModeSSM reads provider credentials from an SSM SecureString parameter.
	CredentialsModeSSM = "ssm"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Razorpay is a struct that contains the configuration for the payment gateway.
	Razorpay razorpay
	// Interakt is a struct that contains the configuration for the customer-engagement provider.
	Interakt interakt
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
	// AWS is a struct that contains the configuration for the AWS integrations.
	AWS aws
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
		// LokiURL is the Loki push endpoint. Logs go to stdout when empty.
		LokiURL string `yaml:"lokiURL,omitempty"`
	} `yaml:"logging,omitempty"`
	// Metrics is a struct that contains the metrics push configuration.
	Metrics struct {
		PushURL      string        `yaml:"pushURL,omitempty"`
		PushInterval time.Duration `yaml:"pushInterval,omitempty" default:"10s"`
		Labels       string        `yaml:"labels,omitempty"`
	} `yaml:"metrics,omitempty"`
	// Credentials selects where provider secrets come from.
	Credentials struct {
		Mode   string `yaml:"mode,omitempty" default:"env"`
		SSMKey string `yaml:"ssmKey,omitempty" default:"razorpay-interakt-app-creds"`
	} `yaml:"credentials,omitempty"`
}

type razorpay struct {
	KeyID         string        `yaml:"keyID,omitempty"`
	KeySecret     string        `yaml:"keySecret,omitempty"`
	WebhookSecret string        `yaml:"webhookSecret,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty" default:"10s"`
	// SkipOrderFetch disables the order lookup performed for every payment.authorized event.
	SkipOrderFetch bool `yaml:"skipOrderFetch,omitempty"`
}

type interakt struct {
	APIKey      string        `yaml:"apiKey,omitempty"`
	WorkspaceID string        `yaml:"workspaceID,omitempty"`
	BaseURL     string        `yaml:"baseURL,omitempty" default:"https://api.interakt.ai/v1/public"`
	Timeout     time.Duration `yaml:"timeout,omitempty" default:"10s"`
	CountryCode string        `yaml:"countryCode,omitempty" default:"+91"`
	// Tag is attached to every customer whose payment was authorized.
	Tag string `yaml:"tag,omitempty" default:"paid_customer"`
	// Template is the pre-approved message template sent on payment authorization.
	Template         string `yaml:"template,omitempty" default:"payment_success"`
	TemplateLanguage string `yaml:"templateLanguage,omitempty" default:"en"`
}

type service struct {
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"3000"`
	// Timeout bounds reads and writes of each connection. It must exceed WebhookBudget.
	Timeout time.Duration `yaml:"timeout,omitempty" default:"60s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

type aws struct {
	S3 struct {
		Upload struct {
			BucketName string `yaml:"bucketName,omitempty"`
			Enabled    bool   `yaml:"enabled,omitempty"`
		} `yaml:"upload,omitempty"`
	} `yaml:"s3,omitempty"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Razorpay),
		defaults.Set(&Interakt),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
		defaults.Set(&AWS),
	)
}

// LoadFromFile loads the configuration from a file. A missing file is not an error.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global   global   `yaml:"global,omitempty"`
		Razorpay razorpay `yaml:"razorpay,omitempty"`
		Interakt interakt `yaml:"interakt,omitempty"`
		Service  service  `yaml:"service,omitempty"`
		Lambda   lambda   `yaml:"lambda,omitempty"`
		AWS      aws      `yaml:"aws,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Razorpay = a.Razorpay
	Interakt = a.Interakt
	Service = a.Service
	Lambda = a.Lambda
	AWS = a.AWS

	return nil
}

// Validate reports the settings that must be present before the webhook can be served.
func Validate() error {
	var errs []error
	if Razorpay.WebhookSecret == "" {
		errs = append(errs, errors.New("missing webhook secret [WEBHOOK_SECRET]"))
	}
	if Interakt.APIKey == "" {
		errs = append(errs, errors.New("missing interakt api key [INTERAKT_API_KEY]"))
	}
	if !Razorpay.SkipOrderFetch && (Razorpay.KeyID == "" || Razorpay.KeySecret == "") {
		errs = append(errs, errors.New("missing razorpay key pair [RAZORPAY_KEY_ID, RAZORPAY_KEY_SECRET]"))
	}
	if AWS.S3.Upload.Enabled && AWS.S3.Upload.BucketName == "" {
		errs = append(errs, errors.New("s3 upload enabled without a bucket name"))
	}
	if Global.Mode == ModeService && Service.Timeout <= WebhookBudget() {
		errs = append(errs, fmt.Errorf("service timeout %s must exceed the webhook budget %s", Service.Timeout, WebhookBudget()))
	}
	return errors.Join(errs...)
}

// WebhookBudget is the longest a payment.authorized delivery can take: the order fetch,
// when enabled, followed by the three Interakt calls, each bounded by its client timeout.
func WebhookBudget() time.Duration {
	budget := 3 * Interakt.Timeout
	if !Razorpay.SkipOrderFetch {
		budget += Razorpay.Timeout
	}
	return budget
}
