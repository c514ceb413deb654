package config

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Credentials is the JSON document stored in SSM when credentials mode is ssm.
type Credentials struct {
	RazorpayKeyID     string `json:"razorpay_key_id,omitempty"`
	RazorpayKeySecret string `json:"razorpay_key_secret,omitempty"`
	WebhookSecret     string `json:"webhook_secret,omitempty"`
	InteraktAPIKey    string `json:"interakt_api_key,omitempty"`
	WorkspaceID       string `json:"interakt_workspace_id,omitempty"`
}

// ApplyCredentials decodes document and overrides the matching settings. Empty fields leave the current value.
func ApplyCredentials(document []byte) error {
	var c Credentials
	if err := json.Unmarshal(document, &c); err != nil {
		return errors.Wrap(err, "failed to unmarshal credentials")
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&Razorpay.KeyID, c.RazorpayKeyID)
	set(&Razorpay.KeySecret, c.RazorpayKeySecret)
	set(&Razorpay.WebhookSecret, c.WebhookSecret)
	set(&Interakt.APIKey, c.InteraktAPIKey)
	set(&Interakt.WorkspaceID, c.WorkspaceID)
	return nil
}
