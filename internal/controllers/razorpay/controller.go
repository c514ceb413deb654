// Package razorpay provides a Controller over the Razorpay Go SDK.
package razorpay

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/isometry/razorpay-interakt-app/internal/logging"
	"github.com/isometry/razorpay-interakt-app/internal/metrics"
	"github.com/isometry/razorpay-interakt-app/internal/models"
	"github.com/pkg/errors"
	rzp "github.com/razorpay/razorpay-go"
)

const defaultTimeout = 10 * time.Second

// orderFetcher is the subset of the SDK order resource used by the Controller.
type orderFetcher interface {
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Controller fetches gateway resources using key id/secret basic authentication.
type Controller struct {
	keyID     string
	keySecret string
	timeout   time.Duration
	orders    orderFetcher
	logger    *slog.Logger
}

// Option is a functional option used to configure a Controller instance.
type Option func(*Controller)

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...Option) (*Controller, error) {
	_inst := &Controller{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = logging.NewNoopLogger()
	}
	if _inst.keyID == "" || _inst.keySecret == "" {
		return nil, errors.New("missing razorpay key id or key secret")
	}
	client := rzp.NewClient(_inst.keyID, _inst.keySecret)
	client.Order.Request.SetTimeout(timeoutSeconds(_inst.timeout))
	_inst.orders = client.Order
	return _inst, nil
}

// FetchOrder returns the order identified by orderID.
// The SDK call is bounded by the configured timeout; ctx is only checked before the call is made.
func (c *Controller) FetchOrder(ctx context.Context, orderID string) (order *models.Order, err error) {
	if orderID == "" {
		return nil, errors.New("missing order id")
	}
	if err = ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "order fetch cancelled")
	}
	start := time.Now()
	defer func() { metrics.ObserveCall("razorpay", "fetch_order", err, start) }()

	logger := c.logger.With(slog.String("orderID", orderID))
	logger.Debug("fetching order...")

	raw, err := c.orders.Fetch(orderID, nil, nil)
	if err != nil {
		logger.Warn("order request failed", slog.Any("error", err))
		return nil, errors.Wrapf(err, "failed to fetch order %s", orderID)
	}

	// the SDK returns loosely typed JSON
	body, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode order")
	}
	order = new(models.Order)
	if err = json.Unmarshal(body, order); err != nil {
		return nil, errors.Wrap(err, "failed to decode order")
	}
	logger.Debug("fetched order", slog.String("status", order.Status), slog.String("receipt", order.Receipt))
	return order, nil
}

func timeoutSeconds(d time.Duration) int16 {
	s := d / time.Second
	switch {
	case s < 1:
		return 1
	case s > 1<<15-1:
		return 1<<15 - 1
	default:
		return int16(s)
	}
}
