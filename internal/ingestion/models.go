package ingestion

import (
	"time"

	"github.com/richxcame/order-fraud-guard/internal/fraud"
	"github.com/richxcame/order-fraud-guard/internal/orders"
)

// Result is the per-order outcome of a batch. Success reports whether the
// order made it through fetching and scoring; the verdict lives in FraudCheck.
type Result struct {
	OrderNumber  string              `json:"order_number"`
	PlatformType orders.PlatformType `json:"platform_type"`
	Success      bool                `json:"success"`
	Error        string              `json:"error,omitempty"`
	FraudCheck   *fraud.Result       `json:"fraud_check,omitempty"`
}

// Summary counts the outcomes of a batch
type Summary struct {
	Total   int `json:"total"`
	Failed  int `json:"failed"`
	Flagged int `json:"flagged"`
}

// Summarize tallies results
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if !r.Success {
			s.Failed++
			continue
		}
		if r.FraudCheck != nil && !r.FraudCheck.Passed {
			s.Flagged++
		}
	}
	return s
}

// OrderHeldEvent is published after a flagged order is put on hold
type OrderHeldEvent struct {
	OrderNumber  string              `json:"order_number"`
	PlatformType orders.PlatformType `json:"platform_type"`
	HubID        string              `json:"hub_id"`
	Reason       string              `json:"reason"`
	Score        int                 `json:"score"`
	HeldAt       time.Time           `json:"held_at"`
}
