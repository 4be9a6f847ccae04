package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/richxcame/order-fraud-guard/pkg/httpclient"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"go.uber.org/zap"
)

const (
	// MaxPageSize is the largest page the hub serves
	MaxPageSize = 250

	// HoldMarker is written to vendor_reference while an order is held
	HoldMarker = "FRAUD_CHECK_HOLD"

	// HoldDuration is how long a fraud hold lasts before the hub lifts it
	HoldDuration = 30 * 24 * time.Hour

	purchaseOrdersPath = "/purchase_orders.json"
)

// Client talks to the order-aggregation hub
type Client struct {
	http     *httpclient.Client
	username string
	password string
	now      func() time.Time
}

// NewClient creates a hub client using static basic-auth credentials
func NewClient(client *httpclient.Client, username, password string) *Client {
	return &Client{
		http:     client,
		username: username,
		password: password,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for listing windows and hold dates
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// ListRecent returns purchase orders created in the trailing window,
// each tagged with its inferred platform type.
func (c *Client) ListRecent(ctx context.Context, windowMinutes int) ([]PurchaseOrder, error) {
	now := c.now().UTC()
	since := now.Add(-time.Duration(windowMinutes) * time.Minute)

	query := SearchParams(map[string]interface{}{
		"created_at_min": since.Format(time.RFC3339),
		"created_at_max": now.Format(time.RFC3339),
		"per_page":       MaxPageSize,
	})

	body, err := c.http.GetWithQuery(ctx, purchaseOrdersPath, query, c.headers())
	if err != nil {
		return nil, fmt.Errorf("hub API error: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return []PurchaseOrder{}, nil
	}

	var out []PurchaseOrder
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("hub API error: decode purchase orders: %w", err)
	}
	if out == nil {
		out = []PurchaseOrder{}
	}

	for i := range out {
		out[i].PlatformType = InferPlatformType(out[i].OrderPublicReference)
	}

	logger.WithContext(ctx).Info("Listed recent hub orders",
		zap.Int("count", len(out)),
		zap.Int("window_minutes", windowMinutes),
	)
	return out, nil
}

// Hold unconfirms the purchase order and marks it with the fraud hold
// marker until now+30 days.
func (c *Client) Hold(ctx context.Context, hubOrderID string) error {
	until := c.now().UTC().Add(HoldDuration).Format(time.RFC3339)
	return c.update(ctx, hubOrderID, holdRequest{
		Confirmed:       false,
		VendorReference: HoldMarker,
		HoldUntil:       &until,
	})
}

// Release confirms the purchase order and clears the hold. Releasing an
// order that is not held is a no-op at the hub.
func (c *Client) Release(ctx context.Context, hubOrderID string) error {
	return c.update(ctx, hubOrderID, holdRequest{
		Confirmed:       true,
		VendorReference: "",
		HoldUntil:       nil,
	})
}

func (c *Client) update(ctx context.Context, hubOrderID string, req holdRequest) error {
	id := NormalizeID(hubOrderID)
	if id == "" {
		return fmt.Errorf("hub order id is required")
	}

	path := "/purchase_orders/" + url.PathEscape(id) + ".json"
	if _, err := c.http.Put(ctx, path, req, c.headers()); err != nil {
		return fmt.Errorf("hub API error: %w", err)
	}
	return nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": httpclient.BasicAuth(c.username, c.password),
		"Accept":        "application/json",
	}
}

// SearchParams encodes hub search filters. Scalar values become
// search[field]=v and slices become repeated search[field][]=v.
func SearchParams(params map[string]interface{}) url.Values {
	q := url.Values{}
	for key, value := range params {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				q.Add("search["+key+"][]", item)
			}
		case []int:
			for _, item := range v {
				q.Add("search["+key+"][]", strconv.Itoa(item))
			}
		default:
			q.Set("search["+key+"]", fmt.Sprint(v))
		}
	}
	return q
}
