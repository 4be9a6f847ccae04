package hub

import (
	"regexp"
	"strings"

	"github.com/richxcame/order-fraud-guard/internal/orders"
)

var magentoReference = regexp.MustCompile(`^\d{9}(-1)?$`)

// InferPlatformType guesses the originating storefront from the shape of
// the order reference. Nine digits (with an optional "-1" split suffix)
// is Magento; anything else is assumed to be Shopify, including prefixes
// no store is configured for. Those fail later at store resolution.
func InferPlatformType(reference string) orders.PlatformType {
	if magentoReference.MatchString(reference) {
		return orders.PlatformMagento
	}
	return orders.PlatformShopify
}

// NormalizeID strips the trailing ".0" some hub payloads attach to ids
func NormalizeID(id string) string {
	return strings.TrimSuffix(strings.TrimSpace(id), ".0")
}
