package models

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultCustomerName is used when neither the payment notes nor the payment carry a name.
const DefaultCustomerName = "Customer"

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"SGD": "S$",
	"AED": "د.إ",
}

// PaymentRecord is the normalised customer/payment view of a payment.authorized event.
type PaymentRecord struct {
	// ID is the customer identifier used to address every provider call.
	ID          string
	Name        string
	Email       string
	Contact     string
	AmountMinor int64
	// Amount is AmountMinor expressed in major units.
	Amount    float64
	Currency  string
	PaymentID string
}

// DisplayAmount renders the amount with its currency symbol and two decimals, e.g. ₹1500.00.
func (r *PaymentRecord) DisplayAmount() string {
	minor := r.AmountMinor
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	value := fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
	currency := strings.ToUpper(r.Currency)
	if symbol, ok := currencySymbols[currency]; ok {
		return symbol + value
	}
	if currency == "" {
		return value
	}
	return currency + " " + value
}

// LogValue keeps contact details out of the logs.
func (r *PaymentRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.ID),
		slog.String("paymentID", r.PaymentID),
		slog.String("amount", r.DisplayAmount()),
	)
}

// ProviderResponse is the decoded body of a successful Interakt API call.
type ProviderResponse struct {
	Result  bool   `json:"result"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	Raw     []byte `json:"-"`
}
