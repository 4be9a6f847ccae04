package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/richxcame/order-fraud-guard/internal/fraud"
	"github.com/richxcame/order-fraud-guard/internal/hub"
	"github.com/richxcame/order-fraud-guard/internal/orders"
	"github.com/richxcame/order-fraud-guard/pkg/eventbus"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/richxcame/order-fraud-guard/internal/ingestion")

// HubClient is the subset of the hub client a batch needs
type HubClient interface {
	ListRecent(ctx context.Context, windowMinutes int) ([]hub.PurchaseOrder, error)
	Hold(ctx context.Context, hubOrderID string) error
}

// FetcherRegistry dispatches a platform type to its fetcher
type FetcherRegistry interface {
	Fetcher(pt orders.PlatformType) (orders.Fetcher, error)
}

// Evaluator produces the fraud verdict of an order
type Evaluator interface {
	Evaluate(ctx context.Context, order *orders.Order, history orders.Fetcher) (*fraud.Assessment, error)
}

// Recorder persists failed checks
type Recorder interface {
	InsertFraudRecord(ctx context.Context, order *orders.Order, assessment *fraud.Assessment) error
}

// Service runs ingestion batches: list recent hub orders, rebuild each one
// from its storefront, score it and act on failed verdicts.
type Service struct {
	hub           HubClient
	registry      FetcherRegistry
	engine        Evaluator
	records       Recorder
	events        eventbus.Publisher
	windowMinutes int
	now           func() time.Time
}

// NewService creates an ingestion service. A nil publisher disables
// held-order events.
func NewService(hubClient HubClient, registry FetcherRegistry, engine Evaluator, records Recorder, events eventbus.Publisher, windowMinutes int) *Service {
	if events == nil {
		events = eventbus.NoopPublisher{}
	}
	return &Service{
		hub:           hubClient,
		registry:      registry,
		engine:        engine,
		records:       records,
		events:        events,
		windowMinutes: windowMinutes,
		now:           time.Now,
	}
}

// ProcessRecentOrders runs one batch over the hub's trailing window. Orders
// are handled one at a time and each yields exactly one Result. Only a
// failure to list the window is returned as an error.
func (s *Service) ProcessRecentOrders(ctx context.Context) ([]Result, error) {
	ctx, span := tracer.Start(ctx, "ingestion.ProcessRecentOrders")
	defer span.End()

	start := time.Now()
	defer func() {
		batchDuration.Observe(time.Since(start).Seconds())
	}()

	recent, err := s.hub.ListRecent(ctx, s.windowMinutes)
	if err != nil {
		batchFailuresTotal.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list recent orders")
		return nil, fmt.Errorf("list recent orders: %w", err)
	}

	results := make([]Result, 0, len(recent))
	for _, po := range recent {
		results = append(results, s.processOrder(ctx, po))
	}

	summary := Summarize(results)
	span.SetAttributes(
		attribute.Int("orders.total", summary.Total),
		attribute.Int("orders.failed", summary.Failed),
		attribute.Int("orders.flagged", summary.Flagged),
	)
	logger.WithContext(ctx).Info("Ingestion batch finished",
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		zap.Int("flagged", summary.Flagged),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}

func (s *Service) processOrder(ctx context.Context, po hub.PurchaseOrder) Result {
	orderNumber := po.OrderPublicReference
	res := Result{OrderNumber: orderNumber, PlatformType: po.PlatformType}
	log := logger.WithContext(ctx).With(
		zap.String("order_number", orderNumber),
		zap.String("platform_type", string(po.PlatformType)),
		zap.String("hub_id", string(po.ID)),
	)

	fetcher, err := s.registry.Fetcher(po.PlatformType)
	if err != nil {
		return s.fail(log, res, outcomeFailed, err)
	}

	order, err := fetcher.FetchByOrderNumber(ctx, orderNumber)
	if errors.Is(err, orders.ErrNotFound) {
		return s.fail(log, res, outcomeNotFound, fmt.Errorf("order not found in %s", po.PlatformType))
	}
	if err != nil {
		return s.fail(log, res, outcomeFailed, err)
	}

	order.SetMetadata(orders.MetadataHubID, string(po.ID))
	order.SetMetadata(orders.MetadataHubStatus, po.Status)

	if err := order.Validate(); err != nil {
		return s.fail(log, res, outcomeFailed, fmt.Errorf("invalid order: %w", err))
	}

	assessment, err := s.engine.Evaluate(ctx, order, fetcher)
	if err != nil {
		return s.fail(log, res, outcomeFailed, err)
	}

	res.Success = true
	res.FraudCheck = &assessment.Result
	ordersTotal.WithLabelValues(string(po.PlatformType), outcomeProcessed).Inc()
	verdictsTotal.WithLabelValues(string(po.PlatformType), verdictLabel(assessment.Result.Passed)).Inc()

	log.Info("Fraud check complete",
		zap.Bool("passed", assessment.Result.Passed),
		zap.Int("score", assessment.Score),
		zap.String("details", assessment.Result.Details),
	)

	if !assessment.Result.Passed {
		s.flag(ctx, log, order, po, assessment)
	}
	return res
}

func (s *Service) fail(log *zap.Logger, res Result, outcome string, err error) Result {
	ordersTotal.WithLabelValues(string(res.PlatformType), outcome).Inc()
	log.Warn("Order not processed", zap.String("outcome", outcome), zap.Error(err))
	res.Error = err.Error()
	return res
}

// flag records the failed check and holds the hub order. The hold is
// attempted even when recording fails.
func (s *Service) flag(ctx context.Context, log *zap.Logger, order *orders.Order, po hub.PurchaseOrder, a *fraud.Assessment) {
	hubID := hub.NormalizeID(string(po.ID))

	if err := s.records.InsertFraudRecord(ctx, order, a); err != nil {
		sinkErrorsTotal.WithLabelValues(stepRecord).Inc()
		log.Error("Failed to record fraudulent order", zap.Error(err))
	}

	if err := s.hub.Hold(ctx, hubID); err != nil {
		sinkErrorsTotal.WithLabelValues(stepHold).Inc()
		log.Error("Failed to hold hub order", zap.Error(err))
		return
	}
	log.Info("Hub order held for review")

	event := OrderHeldEvent{
		OrderNumber:  order.OrderNumber,
		PlatformType: order.PlatformType,
		HubID:        hubID,
		Reason:       a.Result.Details,
		Score:        a.Score,
		HeldAt:       s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		sinkErrorsTotal.WithLabelValues(stepPublish).Inc()
		log.Warn("Failed to publish order held event", zap.Error(err))
	}
}
