package fraud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/richxcame/order-fraud-guard/internal/geo"
	"github.com/richxcame/order-fraud-guard/internal/orders"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"go.uber.org/zap"
)

// IPResolver resolves a client IP; nil means unknown
type IPResolver interface {
	Resolve(ctx context.Context, ip string) *geo.Location
}

// Engine scores orders by location correlation, falling back to order
// history when the locations only partly agree.
type Engine struct {
	geo IPResolver
	now func() time.Time
}

// NewEngine creates a scoring engine
func NewEngine(resolver IPResolver) *Engine {
	return &Engine{geo: resolver, now: time.Now}
}

// WithClock replaces the clock used to age past orders
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// LocationScore counts the agreeing pairs among shipping, billing and IP
// location. Two locations agree when both country and region are equal.
// An unknown IP location agrees with nothing.
func LocationScore(order *orders.Order, ip *geo.Location) int {
	score := 0
	if sameRegion(order.Shipping.Country, order.Shipping.Province, order.Billing.Country, order.Billing.Province) {
		score++
	}
	if ip != nil {
		if sameRegion(order.Shipping.Country, order.Shipping.Province, ip.CountryCode, ip.Region) {
			score++
		}
		if sameRegion(order.Billing.Country, order.Billing.Province, ip.CountryCode, ip.Region) {
			score++
		}
	}
	return score
}

func sameRegion(countryA, regionA, countryB, regionB string) bool {
	return countryA == countryB && regionA == regionB
}

// Evaluate produces the verdict for order. History is consulted only for
// scores of 1 or 2; a history transport error is returned as is.
func (e *Engine) Evaluate(ctx context.Context, order *orders.Order, history orders.Fetcher) (*Assessment, error) {
	ipLoc := e.geo.Resolve(ctx, order.ClientIP)
	score := LocationScore(order, ipLoc)

	a := &Assessment{Score: score, IPLocation: ipLoc}
	switch score {
	case MaxLocationScore:
		a.Result = Result{Passed: true, Details: ReasonLocationMatch}
		return a, nil
	case 0:
		a.Result = Result{Passed: false, Details: ReasonLocationMismatch}
		return a, nil
	}

	a.HistoryChecked = true
	past, err := history.FetchPastOrders(ctx, order.Customer)
	if err != nil && !errors.Is(err, orders.ErrNotFound) {
		return nil, fmt.Errorf("fetch past orders: %w", err)
	}

	oldest, ok := oldestCreatedAt(past, order.OrderNumber)
	if !ok {
		a.Result = Result{Passed: false, Details: ReasonNoPastOrders}
		return a, nil
	}

	ageDays := e.now().Sub(oldest).Hours() / 24
	logger.WithContext(ctx).Debug("Evaluated order history",
		zap.String("order_number", order.OrderNumber),
		zap.Int("past_orders", len(past)),
		zap.Float64("oldest_age_days", ageDays),
	)

	if ageDays >= MinPastOrderAgeDays {
		a.Result = Result{Passed: true, Details: ReasonPastOrdersAged}
	} else {
		a.Result = Result{Passed: false, Details: ReasonPastOrdersRecent}
	}
	return a, nil
}

// oldestCreatedAt ignores orders without a timestamp and the order being
// scored, which the email lookup also returns.
func oldestCreatedAt(past []*orders.Order, current string) (time.Time, bool) {
	var oldest time.Time
	found := false
	for _, o := range past {
		if o == nil || o.CreatedAt.IsZero() || o.OrderNumber == current {
			continue
		}
		if !found || o.CreatedAt.Before(oldest) {
			oldest = o.CreatedAt
			found = true
		}
	}
	return oldest, found
}
