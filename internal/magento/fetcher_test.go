package magento

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/richxcame/order-fraud-guard/internal/orders"
	"github.com/richxcame/order-fraud-guard/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOrder = `{
	"entity_id": 4512,
	"increment_id": "100000123",
	"created_at": "2024-03-01 10:15:00",
	"customer_email": "ada@example.com",
	"customer_firstname": "Ada",
	"customer_lastname": "Lovelace",
	"remote_ip": "203.0.113.7",
	"status": "holded",
	"grand_total": 149.5,
	"billing_address": {
		"firstname": "Ada", "lastname": "Lovelace",
		"street": ["1 Main St", "Apt 2"], "city": "Austin",
		"region_code": "TX", "country_id": "US", "postcode": "73301",
		"telephone": "555-0100"
	},
	"shipping_address": {
		"firstname": "Legacy", "lastname": "Address",
		"street": ["9 Old Rd"], "city": "Dallas",
		"region_code": "TX", "country_id": "US", "postcode": "75001"
	},
	"extension_attributes": {
		"shipping_assignments": [{
			"shipping": {"address": {
				"firstname": "Ada", "lastname": "Lovelace",
				"street": ["5 Ship Ln"], "city": "Houston",
				"region_code": "TX", "country_id": "US", "postcode": "77001"
			}}
		}]
	},
	"payment": {
		"method": "braintree",
		"additional_information": ["cc", "txn-1", "VI", "Y", "M", "XXXX-XXXX-XXXX-4242"],
		"cc_type": "MC", "cc_avs_status": "N", "cc_cid_status": "N"
	},
	"items": [{"item_id": 1, "product_id": "77", "name": "Ring", "sku": "R-1", "price": 149.5, "qty_ordered": 1.0, "discount_amount": 0}]
}`

type capturedRequest struct {
	path  string
	query map[string]string
	auth  string
}

func newMagentoServer(t *testing.T, status int, body string, captured *capturedRequest, calls *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if captured != nil {
			captured.path = r.URL.Path
			captured.auth = r.Header.Get("Authorization")
			captured.query = map[string]string{}
			for k, v := range r.URL.Query() {
				captured.query[k] = v[0]
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestFetcher(serverURL string) *Fetcher {
	return NewFetcher(httpclient.NewClient(serverURL, 5*time.Second), "secret-token")
}

// ============================================================================
// FetchByOrderNumber
// ============================================================================

func TestFetchByOrderNumber_RejectsMalformedWithoutNetwork(t *testing.T) {
	var calls int32
	server := newMagentoServer(t, http.StatusOK, `{"items":[]}`, nil, &calls)
	f := newTestFetcher(server.URL)

	for _, n := range []string{"12345678", "1234567890", "123456789-1", "EJC4821", ""} {
		t.Run(n, func(t *testing.T) {
			_, err := f.FetchByOrderNumber(context.Background(), n)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, n, verr.OrderNumber)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestFetchByOrderNumber_Success(t *testing.T) {
	var captured capturedRequest
	server := newMagentoServer(t, http.StatusOK, `{"items":[`+sampleOrder+`],"total_count":1}`, &captured, nil)
	f := newTestFetcher(server.URL)

	order, err := f.FetchByOrderNumber(context.Background(), "100000123")
	require.NoError(t, err)

	assert.Equal(t, "/rest/V1/orders", captured.path)
	assert.Equal(t, "Bearer secret-token", captured.auth)
	assert.Equal(t, "increment_id", captured.query["searchCriteria[filter_groups][0][filters][0][field]"])
	assert.Equal(t, "100000123", captured.query["searchCriteria[filter_groups][0][filters][0][value]"])
	assert.Equal(t, "eq", captured.query["searchCriteria[filter_groups][0][filters][0][condition_type]"])

	assert.Equal(t, "4512", order.ID)
	assert.Equal(t, orders.PlatformMagento, order.PlatformType)
	assert.Equal(t, "100000123", order.OrderNumber)
	assert.Equal(t, orders.StatusOnHold, order.Status)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), order.CreatedAt)
	assert.Equal(t, "ada@example.com", order.Customer.Email)
	assert.Equal(t, "555-0100", order.Customer.Phone)
	assert.Equal(t, 0, order.Customer.OrdersCount)
	assert.Equal(t, "0", order.Customer.TotalSpent)
	assert.Equal(t, "Houston", order.Shipping.City)
	assert.Equal(t, "5 Ship Ln", order.Shipping.Address1)
	assert.Equal(t, "Apt 2", order.Billing.Address2)
	assert.Equal(t, "TX", order.Billing.Province)
	assert.Equal(t, "US", order.Billing.Country)
	assert.Equal(t, "203.0.113.7", order.ClientIP)
	assert.Equal(t, 149.5, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, orders.LineItem{ID: "1", ProductID: "77", Title: "Ring", Quantity: 1, SKU: "R-1", Price: 149.5}, order.Items[0])

	assert.Equal(t, orders.Payment{
		Method:      "cc",
		CardCompany: "VI",
		CardLast4:   "4242",
		AVSResult:   "Y",
		CVVResult:   "M",
	}, order.Payment)
}

func TestFetchByOrderNumber_NotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty items", `{"items":[],"total_count":0}`},
		{"missing items", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newMagentoServer(t, http.StatusOK, tt.body, nil, nil)
			f := newTestFetcher(server.URL)

			order, err := f.FetchByOrderNumber(context.Background(), "100000123")
			assert.Nil(t, order)
			assert.ErrorIs(t, err, orders.ErrNotFound)
		})
	}
}

func TestFetchByOrderNumber_UpstreamError(t *testing.T) {
	server := newMagentoServer(t, http.StatusUnauthorized, `{"message":"bad token"}`, nil, nil)
	f := newTestFetcher(server.URL)

	_, err := f.FetchByOrderNumber(context.Background(), "100000123")

	require.Error(t, err)
	assert.NotErrorIs(t, err, orders.ErrNotFound)
	var httpErr *httpclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "magento API error")
	assert.Contains(t, err.Error(), "bad token")
}

func TestFetchByOrderNumber_MalformedBody(t *testing.T) {
	server := newMagentoServer(t, http.StatusOK, `not json`, nil, nil)
	f := newTestFetcher(server.URL)

	_, err := f.FetchByOrderNumber(context.Background(), "100000123")
	assert.Error(t, err)
}

// ============================================================================
// FetchPastOrders
// ============================================================================

func TestFetchPastOrders_QueriesByEmail(t *testing.T) {
	var captured capturedRequest
	server := newMagentoServer(t, http.StatusOK, `{"items":[`+sampleOrder+`,`+sampleOrder+`]}`, &captured, nil)
	f := newTestFetcher(server.URL)

	past, err := f.FetchPastOrders(context.Background(), orders.Customer{Email: "ada@example.com"})
	require.NoError(t, err)

	assert.Len(t, past, 2)
	assert.Equal(t, "customer_email", captured.query["searchCriteria[filter_groups][0][filters][0][field]"])
	assert.Equal(t, "ada@example.com", captured.query["searchCriteria[filter_groups][0][filters][0][value]"])
}

func TestFetchPastOrders_NotFound(t *testing.T) {
	server := newMagentoServer(t, http.StatusOK, `{"items":[]}`, nil, nil)
	f := newTestFetcher(server.URL)

	_, err := f.FetchPastOrders(context.Background(), orders.Customer{Email: "ada@example.com"})
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestFetchPastOrders_NoEmailSkipsNetwork(t *testing.T) {
	var calls int32
	server := newMagentoServer(t, http.StatusOK, `{"items":[]}`, nil, &calls)
	f := newTestFetcher(server.URL)

	_, err := f.FetchPastOrders(context.Background(), orders.Customer{})
	assert.ErrorIs(t, err, orders.ErrNotFound)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

// ============================================================================
// Mapping
// ============================================================================

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]string{
		"pending":         "pending",
		"processing":      "processing",
		"complete":        "completed",
		"canceled":        "cancelled",
		"closed":          "closed",
		"fraud":           "fraud",
		"payment_review":  "review",
		"pending_payment": "pending_payment",
		"holded":          "on_hold",
		"COMPLETE":        "completed",
		"Custom_Status":   "custom_status",
	}

	for in, want := range tests {
		assert.Equal(t, want, normalizeStatus(in), in)
	}
}

func TestParseAdditionalInformation(t *testing.T) {
	raw := func(s string) []json.RawMessage {
		var out []json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(s), &out))
		return out
	}

	tests := []struct {
		name     string
		input    []json.RawMessage
		expected additionalInfo
	}{
		{
			name:     "nil array",
			input:    nil,
			expected: additionalInfo{},
		},
		{
			name:     "full array",
			input:    raw(`["cc","t1","VI","Y","M","****1111"]`),
			expected: additionalInfo{Method: "cc", TransactionID: "t1", CardType: "VI", AVS: "Y", CVV: "M", MaskedCC: "****1111"},
		},
		{
			name:     "short array",
			input:    raw(`["cc","t1"]`),
			expected: additionalInfo{Method: "cc", TransactionID: "t1"},
		},
		{
			name:     "non-string slots are skipped",
			input:    raw(`["cc", 42, null, {"a":1}, "M"]`),
			expected: additionalInfo{Method: "cc", CVV: "M"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseAdditionalInformation(tt.input))
		})
	}
}

func TestNormalizeOrder_PaymentFallsBackToDiscreteFields(t *testing.T) {
	mo := &magentoOrder{
		IncrementID: "100000999",
		Payment: magentoPayment{
			Method:      "checkmo",
			CcType:      "AE",
			CcLast4:     "0005",
			CcAvsStatus: "A",
			CcCidStatus: "P",
		},
	}

	order := normalizeOrder(mo)

	assert.Equal(t, orders.Payment{
		Method:      "checkmo",
		CardCompany: "AE",
		CardLast4:   "0005",
		AVSResult:   "A",
		CVVResult:   "P",
	}, order.Payment)
}

func TestNormalizeOrder_ShippingFallsBackToTopLevel(t *testing.T) {
	mo := &magentoOrder{
		ShippingAddress: &magentoAddress{City: "Dallas", CountryID: "US", RegionCode: "TX"},
		XForwardedFor:   "198.51.100.1",
	}

	order := normalizeOrder(mo)

	assert.Equal(t, "Dallas", order.Shipping.City)
	assert.Equal(t, "198.51.100.1", order.ClientIP)
	assert.Equal(t, orders.Address{}, order.Billing)
}
