package magento

import (
	"encoding/json"

	"github.com/richxcame/order-fraud-guard/internal/orders"
)

type searchResponse struct {
	Items      []magentoOrder `json:"items"`
	TotalCount int            `json:"total_count"`
}

type magentoOrder struct {
	EntityID          orders.FlexString `json:"entity_id"`
	IncrementID       string            `json:"increment_id"`
	CreatedAt         string            `json:"created_at"`
	CustomerEmail     string            `json:"customer_email"`
	CustomerFirstname string            `json:"customer_firstname"`
	CustomerLastname  string            `json:"customer_lastname"`
	RemoteIP          string            `json:"remote_ip"`
	XForwardedFor     string            `json:"x_forwarded_for"`
	Status            string            `json:"status"`
	GrandTotal        float64           `json:"grand_total"`
	BillingAddress    *magentoAddress   `json:"billing_address"`
	ShippingAddress   *magentoAddress   `json:"shipping_address"`
	Payment           magentoPayment    `json:"payment"`
	Items             []magentoItem     `json:"items"`
	Extension         struct {
		ShippingAssignments []struct {
			Shipping struct {
				Address *magentoAddress `json:"address"`
			} `json:"shipping"`
		} `json:"shipping_assignments"`
	} `json:"extension_attributes"`
}

type magentoAddress struct {
	Firstname  string   `json:"firstname"`
	Lastname   string   `json:"lastname"`
	Street     []string `json:"street"`
	City       string   `json:"city"`
	RegionCode string   `json:"region_code"`
	CountryID  string   `json:"country_id"`
	Postcode   string   `json:"postcode"`
	Telephone  string   `json:"telephone"`
}

type magentoPayment struct {
	Method                string            `json:"method"`
	AdditionalInformation []json.RawMessage `json:"additional_information"`
	CcAvsStatus           string            `json:"cc_avs_status"`
	CcCidStatus           string            `json:"cc_cid_status"`
	CcLast4               string            `json:"cc_last4"`
	CcType                string            `json:"cc_type"`
}

type magentoItem struct {
	ItemID         orders.FlexString `json:"item_id"`
	ProductID      orders.FlexString `json:"product_id"`
	Name           string            `json:"name"`
	SKU            string            `json:"sku"`
	Price          float64           `json:"price"`
	QtyOrdered     float64           `json:"qty_ordered"`
	DiscountAmount float64           `json:"discount_amount"`
}
