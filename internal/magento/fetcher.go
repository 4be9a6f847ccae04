package magento

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"

	"github.com/richxcame/order-fraud-guard/internal/orders"
	"github.com/richxcame/order-fraud-guard/pkg/httpclient"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"go.uber.org/zap"
)

const ordersPath = "/rest/V1/orders"

var orderNumberPattern = regexp.MustCompile(`^\d{9}$`)

// ValidationError is returned for order numbers Magento can never have issued
type ValidationError struct {
	OrderNumber string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid Magento order number format: %s", e.OrderNumber)
}

// Fetcher reads orders from the Magento REST API
type Fetcher struct {
	client *httpclient.Client
	token  string
}

var _ orders.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a Magento fetcher authenticating with a bearer token
func NewFetcher(client *httpclient.Client, token string) *Fetcher {
	return &Fetcher{client: client, token: token}
}

// Platform implements orders.Fetcher
func (f *Fetcher) Platform() orders.PlatformType {
	return orders.PlatformMagento
}

// FetchByOrderNumber looks an order up by increment id
func (f *Fetcher) FetchByOrderNumber(ctx context.Context, orderNumber string) (*orders.Order, error) {
	if !orderNumberPattern.MatchString(orderNumber) {
		return nil, &ValidationError{OrderNumber: orderNumber}
	}

	found, err := f.search(ctx, "increment_id", orderNumber)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		logger.WithContext(ctx).Warn("No Magento order found", zap.String("order_number", orderNumber))
		return nil, orders.ErrNotFound
	}
	return found[0], nil
}

// FetchPastOrders returns every order placed with the customer's email
func (f *Fetcher) FetchPastOrders(ctx context.Context, customer orders.Customer) ([]*orders.Order, error) {
	if customer.Email == "" {
		return nil, orders.ErrNotFound
	}

	found, err := f.search(ctx, "customer_email", customer.Email)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, orders.ErrNotFound
	}
	return found, nil
}

func (f *Fetcher) search(ctx context.Context, field, value string) ([]*orders.Order, error) {
	body, err := f.client.GetWithQuery(ctx, ordersPath, searchCriteria(field, value), map[string]string{
		"Authorization": httpclient.Bearer(f.token),
		"Accept":        "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("magento API error: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("magento API error: decode response: %w", err)
	}

	out := make([]*orders.Order, 0, len(resp.Items))
	for i := range resp.Items {
		out = append(out, normalizeOrder(&resp.Items[i]))
	}
	return out, nil
}

// searchCriteria builds a single equality filter group
func searchCriteria(field, value string) url.Values {
	const prefix = "searchCriteria[filter_groups][0][filters][0]"
	q := url.Values{}
	q.Set(prefix+"[field]", field)
	q.Set(prefix+"[value]", value)
	q.Set(prefix+"[condition_type]", "eq")
	return q
}
