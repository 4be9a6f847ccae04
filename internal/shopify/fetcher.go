package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/order-fraud-guard/internal/orders"
	"github.com/richxcame/order-fraud-guard/pkg/httpclient"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultAPIVersion = "2024-01"
	historyLimit      = 5
)

// Options tunes the Shopify fetcher
type Options struct {
	APIVersion        string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

type storeClient struct {
	client  *httpclient.Client
	limiter *rate.Limiter
}

// Fetcher reads orders from each configured store's Admin GraphQL API
type Fetcher struct {
	stores     *StoreTable
	apiVersion string
	clients    map[string]*storeClient
}

var _ orders.Fetcher = (*Fetcher)(nil)

// NewFetcher builds one paced client per store in the table
func NewFetcher(stores *StoreTable, opts Options) *Fetcher {
	if opts.APIVersion == "" {
		opts.APIVersion = defaultAPIVersion
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	f := &Fetcher{
		stores:     stores,
		apiVersion: opts.APIVersion,
		clients:    make(map[string]*storeClient),
	}
	for _, s := range stores.Stores() {
		f.clients[s.Prefix] = &storeClient{
			client:  httpclient.NewClient(s.URL, opts.Timeout),
			limiter: rate.NewLimiter(limit, opts.Burst),
		}
	}
	return f
}

// Platform implements orders.Fetcher
func (f *Fetcher) Platform() orders.PlatformType {
	return orders.PlatformShopify
}

// FetchByOrderNumber finds the order by exact name in the store owning its prefix
func (f *Fetcher) FetchByOrderNumber(ctx context.Context, orderNumber string) (*orders.Order, error) {
	store, err := f.stores.Resolve(orderNumber)
	if err != nil {
		return nil, err
	}

	found, err := f.query(ctx, store, "name:"+orderNumber, 1)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		logger.WithContext(ctx).Warn("No Shopify order found",
			zap.String("order_number", orderNumber),
			zap.String("store", store.Prefix),
		)
		return nil, orders.ErrNotFound
	}
	return found[0], nil
}

// FetchPastOrders returns up to five orders of the customer from the store
// the customer's current order came from. A customer whose lifetime order
// count is zero has no history and is not queried.
func (f *Fetcher) FetchPastOrders(ctx context.Context, customer orders.Customer) ([]*orders.Order, error) {
	if customer.OrdersCount == 0 || customer.Email == "" {
		return nil, orders.ErrNotFound
	}

	store, err := f.stores.Resolve(customer.OriginOrderNumber)
	if err != nil {
		return nil, err
	}

	found, err := f.query(ctx, store, "email:"+customer.Email, historyLimit)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, orders.ErrNotFound
	}
	return found, nil
}

func (f *Fetcher) query(ctx context.Context, store Store, filter string, first int) ([]*orders.Order, error) {
	sc, ok := f.clients[store.Prefix]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, store.Prefix)
	}
	if err := sc.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("shopify rate limiter: %w", err)
	}

	path := fmt.Sprintf("/admin/api/%s/graphql.json", f.apiVersion)
	body, err := sc.client.Post(ctx, path, graphQLRequest{
		Query:     ordersQuery,
		Variables: map[string]interface{}{"query": filter, "first": first},
	}, map[string]string{
		"X-Shopify-Access-Token": store.Token,
		"Accept":                 "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("shopify API error: %w", err)
	}

	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopify API error: decode response: %w", err)
	}
	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("shopify API error: %s", strings.Join(messages, "; "))
	}

	out := make([]*orders.Order, 0, len(resp.Data.Orders.Edges))
	for i := range resp.Data.Orders.Edges {
		out = append(out, normalizeOrder(&resp.Data.Orders.Edges[i].Node))
	}
	return out, nil
}
