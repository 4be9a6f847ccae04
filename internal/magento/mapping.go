package magento

import (
	"strings"
	"time"

	"github.com/richxcame/order-fraud-guard/internal/orders"
)

const timestampLayout = "2006-01-02 15:04:05"

var statusMap = map[string]string{
	"pending":         orders.StatusPending,
	"processing":      orders.StatusProcessing,
	"complete":        orders.StatusCompleted,
	"canceled":        orders.StatusCancelled,
	"closed":          orders.StatusClosed,
	"fraud":           orders.StatusFraud,
	"payment_review":  orders.StatusReview,
	"pending_payment": orders.StatusPendingPayment,
	"holded":          orders.StatusOnHold,
}

// normalizeStatus maps native statuses; unknown ones pass through lower-cased
func normalizeStatus(status string) string {
	s := strings.ToLower(status)
	if mapped, ok := statusMap[s]; ok {
		return mapped
	}
	return s
}

func parseTimestamp(s string) time.Time {
	if t, err := time.ParseInLocation(timestampLayout, s, time.UTC); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func normalizeOrder(mo *magentoOrder) *orders.Order {
	info := parseAdditionalInformation(mo.Payment.AdditionalInformation)

	billing := mapAddress(mo.BillingAddress)
	var phone string
	if mo.BillingAddress != nil {
		phone = mo.BillingAddress.Telephone
	}

	items := make([]orders.LineItem, 0, len(mo.Items))
	for _, it := range mo.Items {
		items = append(items, orders.LineItem{
			ID:            it.ItemID.String(),
			ProductID:     it.ProductID.String(),
			Title:         it.Name,
			Quantity:      int(it.QtyOrdered),
			SKU:           it.SKU,
			Price:         it.Price,
			TotalDiscount: it.DiscountAmount,
		})
	}

	return &orders.Order{
		ID:           mo.EntityID.String(),
		PlatformID:   mo.EntityID.String(),
		PlatformType: orders.PlatformMagento,
		OrderNumber:  mo.IncrementID,
		Status:       normalizeStatus(mo.Status),
		CreatedAt:    parseTimestamp(mo.CreatedAt),
		Customer: orders.Customer{
			Email:             mo.CustomerEmail,
			Phone:             phone,
			FirstName:         mo.CustomerFirstname,
			LastName:          mo.CustomerLastname,
			TotalSpent:        "0",
			OriginOrderNumber: mo.IncrementID,
		},
		Shipping: mapAddress(shippingAddress(mo)),
		Billing:  billing,
		Payment: orders.Payment{
			Method:      firstNonEmpty(info.Method, mo.Payment.Method),
			CardCompany: firstNonEmpty(info.CardType, mo.Payment.CcType),
			CardLast4:   firstNonEmpty(mo.Payment.CcLast4, orders.CardLast4(info.MaskedCC)),
			AVSResult:   firstNonEmpty(info.AVS, mo.Payment.CcAvsStatus),
			CVVResult:   firstNonEmpty(info.CVV, mo.Payment.CcCidStatus),
		},
		Items:       items,
		TotalAmount: mo.GrandTotal,
		ClientIP:    firstNonEmpty(mo.RemoteIP, mo.XForwardedFor),
	}
}

// shippingAddress prefers the first shipping assignment over the legacy top-level field
func shippingAddress(mo *magentoOrder) *magentoAddress {
	if len(mo.Extension.ShippingAssignments) > 0 {
		if addr := mo.Extension.ShippingAssignments[0].Shipping.Address; addr != nil {
			return addr
		}
	}
	return mo.ShippingAddress
}

func mapAddress(a *magentoAddress) orders.Address {
	if a == nil {
		return orders.Address{}
	}
	out := orders.Address{
		FirstName: a.Firstname,
		LastName:  a.Lastname,
		City:      a.City,
		Province:  a.RegionCode,
		Country:   a.CountryID,
		Zip:       a.Postcode,
		Phone:     a.Telephone,
	}
	if len(a.Street) > 0 {
		out.Address1 = a.Street[0]
	}
	if len(a.Street) > 1 {
		out.Address2 = a.Street[1]
	}
	return out
}
