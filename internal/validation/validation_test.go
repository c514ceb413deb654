package validation_test

import (
	"testing"

	"github.com/isometry/razorpay-interakt-app/internal/validation"
	"github.com/stretchr/testify/assert"
)

const (
	testSecret = "key"
	testBody   = `{"key": "value"}`
	// HMAC-SHA256 of testBody keyed by testSecret.
	testSignature = "bc7daef0d3e3b227f6f1dd1b6e8ee0711a94bfd6a61ca28ec3c4aa22a33d27d8"
)

func TestSign(t *testing.T) {
	assert.Equal(t, testSignature, validation.Sign([]byte(testBody), testSecret))
}

func TestVerify(t *testing.T) {
	testCases := []struct {
		Name      string
		Body      string
		Signature string
		Secret    string
		Expected  bool
	}{
		{
			Name:      "valid_signature",
			Body:      testBody,
			Signature: testSignature,
			Secret:    testSecret,
			Expected:  true,
		},
		{
			Name:      "wrong_secret",
			Body:      testBody,
			Signature: testSignature,
			Secret:    "other",
		},
		{
			Name:      "reserialised_body",
			Body:      `{"key":"value"}`,
			Signature: testSignature,
			Secret:    testSecret,
		},
		{
			Name:   "missing_signature",
			Body:   testBody,
			Secret: testSecret,
		},
		{
			Name:      "missing_secret",
			Body:      testBody,
			Signature: testSignature,
		},
		{
			Name:      "upper_case_digest",
			Body:      testBody,
			Signature: "BC7DAEF0D3E3B227F6F1DD1B6E8EE0711A94BFD6A61CA28EC3C4AA22A33D27D8",
			Secret:    testSecret,
		},
		{
			Name:      "truncated_digest",
			Body:      testBody,
			Signature: testSignature[:32],
			Secret:    testSecret,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, validation.Verify([]byte(tc.Body), tc.Signature, tc.Secret))
		})
	}
}

func TestVerify_SingleByteMutation(t *testing.T) {
	body := []byte(`{"event":"payment.authorized","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	signature := validation.Sign(body, testSecret)
	assert.True(t, validation.Verify(body, signature, testSecret))

	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.False(t, validation.Verify(mutated, signature, testSecret), "mutation at byte %d verified", i)
	}
}

func TestWebhookSecret_ValidateSignature(t *testing.T) {
	testCases := []struct {
		Name     string
		Secret   *validation.WebhookSecret
		Headers  map[string]string
		Body     string
		Expected error
	}{
		{
			Name:     "nil_secret",
			Headers:  map[string]string{validation.SignatureHeader: testSignature},
			Body:     testBody,
			Expected: validation.ErrMissingSecret,
		},
		{
			Name:     "empty_secret",
			Secret:   validation.NewWebhookSecret(""),
			Headers:  map[string]string{validation.SignatureHeader: testSignature},
			Body:     testBody,
			Expected: validation.ErrMissingSecret,
		},
		{
			Name:     "invalid_headers",
			Secret:   validation.NewWebhookSecret(testSecret),
			Headers:  map[string]string{},
			Expected: validation.ErrMissingSignature,
		},
		{
			Name:     "invalid_signature_value",
			Secret:   validation.NewWebhookSecret(testSecret),
			Headers:  map[string]string{validation.SignatureHeader: "invalid"},
			Body:     testBody,
			Expected: validation.ErrSignatureMismatch,
		},
		{
			Name:    "valid_signature_sha256",
			Secret:  validation.NewWebhookSecret(testSecret),
			Headers: map[string]string{validation.SignatureHeader: testSignature},
			Body:    testBody,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := tc.Secret.ValidateSignature([]byte(tc.Body), tc.Headers)
			assert.ErrorIs(t, err, tc.Expected)
		})
	}
}
