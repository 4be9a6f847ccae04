package hub

import "github.com/richxcame/order-fraud-guard/internal/orders"

// PurchaseOrder is a hub purchase order as returned by the listing endpoint.
// PlatformType is attached by the client; it is not part of the payload.
type PurchaseOrder struct {
	ID                   orders.FlexString   `json:"id"`
	PublicReference      string              `json:"public_reference"`
	OrderPublicReference string              `json:"order_public_reference"`
	CreatedAt            string              `json:"created_at"`
	UpdatedAt            string              `json:"updated_at"`
	OrderedAt            string              `json:"ordered_at"`
	Status               string              `json:"status"`
	StoreName            string              `json:"store_name"`
	ShippingAddress      ShippingAddress     `json:"shipping_address"`
	OrderItems           []OrderItem         `json:"order_items"`
	TotalShippingRevenue float64             `json:"total_shipping_revenue"`
	TotalTax             float64             `json:"total_tax"`
	PlatformType         orders.PlatformType `json:"platform_type,omitempty"`
}

// ShippingAddress is the hub's copy of the ship-to address
type ShippingAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name,omitempty"`
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostCode    string `json:"post_code"`
	Country     string `json:"country"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// OrderItem is one line of a hub purchase order
type OrderItem struct {
	ID          orders.FlexString `json:"id"`
	Name        string            `json:"name"`
	RetailerSKU string            `json:"retailer_sku"`
	Quantity    int               `json:"quantity"`
	Price       float64           `json:"price"`
	Cost        float64           `json:"cost"`
}

// holdRequest is the body of a hold or release call. A nil HoldUntil
// encodes as JSON null, which clears the hold date.
type holdRequest struct {
	Confirmed       bool    `json:"confirmed"`
	VendorReference string  `json:"vendor_reference"`
	HoldUntil       *string `json:"hold_purchase_order_until"`
}
