package cmd

import (
	"context"
	"fmt"

	"github.com/isometry/razorpay-interakt-app/internal/config"
	"github.com/isometry/razorpay-interakt-app/internal/controllers/aws"
	"github.com/isometry/razorpay-interakt-app/internal/controllers/interakt"
	"github.com/isometry/razorpay-interakt-app/internal/controllers/razorpay"
	"github.com/isometry/razorpay-interakt-app/internal/handler"
	"github.com/isometry/razorpay-interakt-app/internal/runtime"
	"github.com/isometry/razorpay-interakt-app/internal/validation"
	"github.com/pkg/errors"
)

// setup resolves credentials, validates the configuration and wires the runtime.
func setup(ctx context.Context) (*runtime.Runtime, error) {
	var awsCtl *aws.Controller
	awsController := func() (*aws.Controller, error) {
		if awsCtl != nil {
			return awsCtl, nil
		}
		ctl, err := aws.NewController(
			aws.WithContext(ctx),
			aws.WithLogger(logger.With("component", "aws")))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create aws controller")
		}
		awsCtl = ctl
		return ctl, nil
	}

	switch config.Global.Credentials.Mode {
	case config.CredentialsModeEnv:
	case config.CredentialsModeSSM:
		logger.Debug("loading credentials from SSM...", "key", config.Global.Credentials.SSMKey)
		ctl, err := awsController()
		if err != nil {
			return nil, err
		}
		document, err := ctl.GetSecret(config.Global.Credentials.SSMKey, true)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load credentials")
		}
		if err = config.ApplyCredentials([]byte(*document)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid credentials mode: %s", config.Global.Credentials.Mode)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	logger.Debug("creating interakt controller...")
	messenger, err := interakt.NewController(
		interakt.WithAPIKey(config.Interakt.APIKey),
		interakt.WithWorkspaceID(config.Interakt.WorkspaceID),
		interakt.WithBaseURL(config.Interakt.BaseURL),
		interakt.WithTimeout(config.Interakt.Timeout),
		interakt.WithCountryCode(config.Interakt.CountryCode),
		interakt.WithLanguageCode(config.Interakt.TemplateLanguage),
		interakt.WithLogger(logger.With("component", "interakt")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create interakt controller")
	}

	opts := []handler.Option{
		handler.WithLogger(logger.With("component", "webhook-handler")),
		handler.WithVerifier(validation.NewWebhookSecret(config.Razorpay.WebhookSecret)),
		handler.WithMessenger(messenger),
		handler.WithTag(config.Interakt.Tag),
		handler.WithTemplate(config.Interakt.Template),
	}

	if !config.Razorpay.SkipOrderFetch {
		logger.Debug("creating razorpay controller...")
		orders, err := razorpay.NewController(
			razorpay.WithCredentials(config.Razorpay.KeyID, config.Razorpay.KeySecret),
			razorpay.WithTimeout(config.Razorpay.Timeout),
			razorpay.WithLogger(logger.With("component", "razorpay")))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create razorpay controller")
		}
		opts = append(opts, handler.WithOrderLookup(orders))
	}

	if config.AWS.S3.Upload.Enabled {
		ctl, err := awsController()
		if err != nil {
			return nil, err
		}
		opts = append(opts, handler.WithArchiver(ctl, config.AWS.S3.Upload.BucketName))
	}

	logger.Debug("creating webhook handler...")
	hdl, err := handler.NewWebhookHandler(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create webhook handler")
	}

	logger.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithLambdaPayloadType(config.Lambda.PayloadType),
		runtime.WithLogger(logger.With("component", "runtime"))), nil
}
