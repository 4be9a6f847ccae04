package shopify

import (
	"strconv"
	"strings"
	"time"

	"github.com/richxcame/order-fraud-guard/internal/orders"
)

// normalizeStatus derives the canonical status from Shopify's split
// financial and fulfillment states.
func normalizeStatus(n *orderNode) string {
	switch {
	case n.CancelledAt != nil && *n.CancelledAt != "":
		return orders.StatusCancelled
	case n.Closed:
		return orders.StatusClosed
	case n.DisplayFulfillmentStatus == "FULFILLED":
		return orders.StatusCompleted
	case n.DisplayFinancialStatus == "PENDING":
		return orders.StatusPendingPayment
	default:
		return orders.StatusProcessing
	}
}

func normalizeOrder(n *orderNode) *orders.Order {
	orderNumber := strings.TrimPrefix(n.Name, "#")
	createdAt, _ := time.Parse(time.RFC3339, n.CreatedAt)

	var cust orders.Customer
	if n.Customer != nil {
		cust = orders.Customer{
			Email:       n.Customer.Email,
			Phone:       n.Customer.Phone,
			FirstName:   n.Customer.FirstName,
			LastName:    n.Customer.LastName,
			OrdersCount: int(parseFloat(n.Customer.NumberOfOrders)),
			TotalSpent:  n.Customer.AmountSpent.Amount.String(),
		}
	}
	cust.OriginOrderNumber = orderNumber

	items := make([]orders.LineItem, 0, len(n.LineItems.Edges))
	for _, edge := range n.LineItems.Edges {
		li := edge.Node
		var productID string
		if li.Product != nil {
			productID = gidTail(li.Product.ID)
		}
		items = append(items, orders.LineItem{
			ID:            gidTail(li.ID),
			ProductID:     productID,
			Title:         li.Title,
			Quantity:      li.Quantity,
			SKU:           li.SKU,
			Price:         parseFloat(li.OriginalUnitPriceSet.ShopMoney.Amount),
			TotalDiscount: parseFloat(li.TotalDiscountSet.ShopMoney.Amount),
		})
	}

	shipping := mapAddress(n.ShippingAddress)
	if n.ShippingAddress != nil {
		shipping.Latitude = n.ShippingAddress.Latitude
		shipping.Longitude = n.ShippingAddress.Longitude
	}

	return &orders.Order{
		ID:           gidTail(n.ID),
		PlatformID:   n.ID,
		PlatformType: orders.PlatformShopify,
		OrderNumber:  orderNumber,
		Status:       normalizeStatus(n),
		CreatedAt:    createdAt,
		Customer:     cust,
		Shipping:     shipping,
		Billing:      mapAddress(n.BillingAddress),
		Payment:      mapPayment(n.Transactions),
		Items:        items,
		TotalAmount:  parseFloat(n.TotalPriceSet.ShopMoney.Amount),
		ClientIP:     n.ClientIP,
	}
}

func mapAddress(a *address) orders.Address {
	if a == nil {
		return orders.Address{}
	}
	return orders.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Province:  a.ProvinceCode,
		Country:   a.CountryCodeV2,
		Zip:       a.Zip,
		Phone:     a.Phone,
	}
}

// mapPayment uses the first transaction that carries card details
func mapPayment(txs []transaction) orders.Payment {
	for _, tx := range txs {
		d := tx.PaymentDetails
		if d == nil || d.Company == "" {
			continue
		}
		return orders.Payment{
			Method:      "credit_card",
			CardBIN:     d.BIN,
			CardLast4:   orders.CardLast4(d.Number),
			CardCompany: d.Company,
			AVSResult:   d.AVSResultCode,
			CVVResult:   d.CVVResultCode,
		}
	}
	return orders.Payment{Method: "other"}
}

// gidTail turns "gid://shopify/Order/123" into "123"
func gidTail(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}

func parseFloat(s orders.FlexString) float64 {
	f, err := strconv.ParseFloat(s.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
