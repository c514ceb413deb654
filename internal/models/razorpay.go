package models

import (
	"bytes"
	"encoding/json"
)

// EventPaymentAuthorized is the only Razorpay event that triggers customer notification.
const EventPaymentAuthorized = "payment.authorized"

// WebhookEnvelope is the body of a Razorpay webhook delivery.
type WebhookEnvelope struct {
	Entity    string   `json:"entity"`
	AccountID string   `json:"account_id"`
	Event     string   `json:"event"`
	Contains  []string `json:"contains"`
	CreatedAt int64    `json:"created_at"`
	Payload   Payload  `json:"payload"`
}

// Payload holds the entities referenced by the envelope's contains list.
type Payload struct {
	Payment *PaymentPayload `json:"payment,omitempty"`
	Order   *OrderPayload   `json:"order,omitempty"`
}

// PaymentPayload wraps the payment entity of a payment.* event.
type PaymentPayload struct {
	Entity *PaymentEntity `json:"entity"`
}

// OrderPayload wraps the order entity of an order.* event.
type OrderPayload struct {
	Entity *Order `json:"entity"`
}

// Payment returns the payment entity carried by the envelope, or nil when absent.
func (e *WebhookEnvelope) Payment() *PaymentEntity {
	if e == nil || e.Payload.Payment == nil {
		return nil
	}
	return e.Payload.Payment.Entity
}

// PaymentEntity is a Razorpay payment. Amount is expressed in the currency minor unit.
type PaymentEntity struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	OrderID  string `json:"order_id"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Notes    Notes  `json:"notes"`
}

// Order is a Razorpay order as returned by the orders API.
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	Notes      Notes  `json:"notes"`
	CreatedAt  int64  `json:"created_at"`
}

// Notes holds the free-form key/value pairs Razorpay attaches to payments and orders.
type Notes map[string]string

// UnmarshalJSON accepts both objects and the empty array Razorpay sends for empty notes.
func (n *Notes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		*n = nil
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	out := make(Notes, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case string:
			out[k] = tv
		case nil:
		default:
			b, _ := json.Marshal(tv)
			out[k] = string(b)
		}
	}
	*n = out
	return nil
}

// Get returns the value stored under key, or an empty string.
func (n Notes) Get(key string) string {
	if n == nil {
		return ""
	}
	return n[key]
}
