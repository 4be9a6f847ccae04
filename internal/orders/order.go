package orders

import (
	"time"

	"github.com/richxcame/order-fraud-guard/pkg/validation"
)

// PlatformType identifies the storefront family an order originated from
type PlatformType string

const (
	PlatformMagento PlatformType = "magento"
	PlatformShopify PlatformType = "shopify"
	PlatformUnknown PlatformType = "unknown"
)

// Metadata keys attached after the platform fetch
const (
	MetadataHubID     = "hub_id"
	MetadataHubStatus = "hub_status"
)

// Canonical order statuses shared by every platform mapping
const (
	StatusPending        = "pending"
	StatusProcessing     = "processing"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
	StatusClosed         = "closed"
	StatusFraud          = "fraud"
	StatusReview         = "review"
	StatusPendingPayment = "pending_payment"
	StatusOnHold         = "on_hold"
)

// Order is the platform-neutral representation of a storefront order
type Order struct {
	ID           string                 `json:"id"`
	PlatformID   string                 `json:"platform_id"`
	PlatformType PlatformType           `json:"platform_type"`
	OrderNumber  string                 `json:"order_number"`
	Status       string                 `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
	Customer     Customer               `json:"customer"`
	Shipping     Address                `json:"shipping_address"`
	Billing      Address                `json:"billing_address"`
	Payment      Payment                `json:"payment"`
	Items        []LineItem             `json:"items"`
	TotalAmount  float64                `json:"total_amount"`
	ClientIP     string                 `json:"client_ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Customer identifies the buyer. OriginOrderNumber is the order the customer
// was resolved from; history lookups use it to pick the owning store.
type Customer struct {
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	OrdersCount       int    `json:"orders_count"`
	TotalSpent        string `json:"total_spent"`
	OriginOrderNumber string `json:"-"`
}

// FullName returns "first last" without stray whitespace
func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Address is a shipping or billing address. Province is the region code.
type Address struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Address1  string   `json:"address1"`
	Address2  string   `json:"address2,omitempty"`
	City      string   `json:"city"`
	Province  string   `json:"province"`
	Country   string   `json:"country" validate:"required"`
	Zip       string   `json:"zip"`
	Phone     string   `json:"phone,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Payment carries optional card metadata
type Payment struct {
	Method      string `json:"method,omitempty"`
	CardBIN     string `json:"card_bin,omitempty"`
	CardLast4   string `json:"card_last4,omitempty"`
	CardCompany string `json:"card_company,omitempty"`
	AVSResult   string `json:"avs_result,omitempty"`
	CVVResult   string `json:"cvv_result,omitempty"`
}

// LineItem is one product line of an order
type LineItem struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"product_id"`
	Title         string  `json:"title"`
	Quantity      int     `json:"quantity"`
	SKU           string  `json:"sku"`
	Price         float64 `json:"price"`
	TotalDiscount float64 `json:"total_discount"`
}

// Validate rejects orders that cannot be scored, i.e. those missing a
// shipping or billing country.
func (o *Order) Validate() error {
	return validation.ValidateStruct(o)
}

// SetMetadata stores a value in the metadata bag, allocating it on first use
func (o *Order) SetMetadata(key string, value interface{}) {
	if o.Metadata == nil {
		o.Metadata = make(map[string]interface{})
	}
	o.Metadata[key] = value
}

// MetadataString returns a metadata value as a string, or "" when absent
func (o *Order) MetadataString(key string) string {
	if v, ok := o.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// CardLast4 returns the trailing four digits of a masked card number,
// or "" when fewer than four digits are present.
func CardLast4(masked string) string {
	digits := make([]byte, 0, len(masked))
	for i := 0; i < len(masked); i++ {
		if masked[i] >= '0' && masked[i] <= '9' {
			digits = append(digits, masked[i])
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return string(digits[len(digits)-4:])
}
