package fraud

import (
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/order-fraud-guard/internal/geo"
)

// Verdict reasons
const (
	ReasonLocationMatch    = "location match"
	ReasonLocationMismatch = "location mismatch"
	ReasonNoPastOrders     = "location mismatch, no past orders"
	ReasonPastOrdersAged   = "past orders older than the minimum age"
	ReasonPastOrdersRecent = "no past orders older than the minimum age"
)

// MaxLocationScore is the score of an order whose three locations agree
const MaxLocationScore = 3

// MinPastOrderAgeDays is the age the oldest prior order must reach for
// history to vouch for an imperfect location score. Inclusive.
const MinPastOrderAgeDays = 2.0

// Result is the verdict of one fraud check
type Result struct {
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// Assessment is a Result together with the evidence that produced it
type Assessment struct {
	Result         Result        `json:"result"`
	Score          int           `json:"score"`
	IPLocation     *geo.Location `json:"ip_location,omitempty"`
	HistoryChecked bool          `json:"history_checked"`
}

// ReviewStatus is the human review state of a fraud record
type ReviewStatus string

const (
	StatusPendingReview  ReviewStatus = "pending_review"
	StatusConfirmedFraud ReviewStatus = "confirmed_fraud"
	StatusFalsePositive  ReviewStatus = "false_positive"
)

// IsValid reports whether s is a known review status
func (s ReviewStatus) IsValid() bool {
	switch s {
	case StatusPendingReview, StatusConfirmedFraud, StatusFalsePositive:
		return true
	}
	return false
}

// FraudRecord is a stored failed check awaiting or past review
type FraudRecord struct {
	ID              uuid.UUID    `json:"id"`
	OrderNumber     string       `json:"order_number"`
	PlatformType    string       `json:"platform_type"`
	CustomerEmail   string       `json:"customer_email"`
	CustomerName    string       `json:"customer_name"`
	TotalAmount     float64      `json:"total_amount"`
	ShippingAddress string       `json:"shipping_address"`
	ShippingCity    string       `json:"shipping_city"`
	ShippingCountry string       `json:"shipping_country"`
	ClientIP        *string      `json:"client_ip,omitempty"`
	IPCity          *string      `json:"ip_city,omitempty"`
	IPCountry       *string      `json:"ip_country,omitempty"`
	FraudScore      int          `json:"fraud_score"`
	FraudReasons    string       `json:"fraud_reasons"`
	HubID           string       `json:"hub_id"`
	Status          ReviewStatus `json:"status"`
	ReviewedBy      *string      `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// BlockedAddress is a blocklist entry. Address and city are stored
// lower-cased and country upper-cased.
type BlockedAddress struct {
	ID        uuid.UUID  `json:"id"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	Country   string     `json:"country"`
	Reason    string     `json:"reason"`
	CreatedBy string     `json:"created_by"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UpdateStatusRequest is the body of a review status update
type UpdateStatusRequest struct {
	Status     ReviewStatus `json:"status" binding:"required,oneof=confirmed_fraud false_positive"`
	ReviewedBy string       `json:"reviewed_by" binding:"required,max=255"`
	HubID      string       `json:"hub_id" binding:"max=64"`
}

// BlockAddressRequest is the body of a blocklist addition
type BlockAddressRequest struct {
	Address   string     `json:"address" binding:"required,max=500"`
	City      string     `json:"city" binding:"required,max=255"`
	Country   string     `json:"country" binding:"required,len=2"`
	Reason    string     `json:"reason" binding:"max=1000"`
	CreatedBy string     `json:"created_by" binding:"required,max=255"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// AddressCheckQuery is the query of a blocklist check
type AddressCheckQuery struct {
	Address string `form:"address" binding:"required"`
	City    string `form:"city" binding:"required"`
	Country string `form:"country" binding:"required,len=2"`
}
