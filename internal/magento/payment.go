package magento

import (
	"encoding/json"
	"strings"
)

// Slots of the gateway's positional additional_information array
const (
	slotMethod = iota
	slotTransactionID
	slotCardType
	slotAVS
	slotCVV
	slotMaskedCC
)

// additionalInfo is the parsed form of payment.additional_information.
// Missing, null or non-string slots are left empty.
type additionalInfo struct {
	Method        string
	TransactionID string
	CardType      string
	AVS           string
	CVV           string
	MaskedCC      string
}

func parseAdditionalInformation(raw []json.RawMessage) additionalInfo {
	return additionalInfo{
		Method:        stringSlot(raw, slotMethod),
		TransactionID: stringSlot(raw, slotTransactionID),
		CardType:      stringSlot(raw, slotCardType),
		AVS:           stringSlot(raw, slotAVS),
		CVV:           stringSlot(raw, slotCVV),
		MaskedCC:      stringSlot(raw, slotMaskedCC),
	}
}

func stringSlot(raw []json.RawMessage, i int) string {
	if i >= len(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw[i], &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
