package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/order-fraud-guard/internal/ingestion"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"go.uber.org/zap"
)

// DefaultInterval is the batch cadence when none is configured
const DefaultInterval = 5 * time.Minute

// Worker triggers ingestion batches on a fixed cadence
type Worker struct {
	runner   ingestion.BatchRunner
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
}

// NewWorker creates a new scheduler worker
func NewWorker(runner ingestion.BatchRunner, log *zap.Logger, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		runner:   runner,
		logger:   log,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs a batch immediately and then once per interval until ctx is
// cancelled or Stop is called. It blocks.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting scheduler worker", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Scheduler worker stopped", zap.Error(ctx.Err()))
			return
		case <-w.done:
			w.logger.Info("Scheduler worker stopped")
			return
		case <-ticker.C:
			w.runBatch(ctx)
		}
	}
}

// Stop signals the worker to stop. It must be called at most once.
func (w *Worker) Stop() {
	close(w.done)
}

func (w *Worker) runBatch(ctx context.Context) {
	ctx = logger.ContextWithCorrelationID(ctx, uuid.New().String())
	start := time.Now()

	results, err := w.runner.ProcessRecentOrders(ctx)
	if err != nil {
		w.logger.Error("Scheduled batch failed", zap.Error(err))
		return
	}

	summary := ingestion.Summarize(results)
	w.logger.Info("Scheduled batch complete",
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		zap.Int("flagged", summary.Flagged),
		zap.Duration("duration", time.Since(start)),
	)
	for _, r := range results {
		if !r.Success {
			w.logger.Warn("Order failed in scheduled batch",
				zap.String("order_number", r.OrderNumber),
				zap.String("platform_type", string(r.PlatformType)),
				zap.String("error", r.Error),
			)
		}
	}
}
