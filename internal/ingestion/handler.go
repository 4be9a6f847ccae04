package ingestion

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/order-fraud-guard/pkg/common"
)

// BatchRunner runs one ingestion batch
type BatchRunner interface {
	ProcessRecentOrders(ctx context.Context) ([]Result, error)
}

var _ BatchRunner = (*Service)(nil)

// Handler handles HTTP requests for ingestion
type Handler struct {
	runner BatchRunner
}

// NewHandler creates a new ingestion handler
func NewHandler(runner BatchRunner) *Handler {
	return &Handler{runner: runner}
}

// RegisterRoutes mounts the batch trigger. Extra handlers (e.g. a request
// timeout) run before the batch.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	handlers := append(middleware, h.ProcessRecentOrders)
	rg.POST("/orders/process-recent", handlers...)
}

// ProcessRecentOrders runs a batch over the hub's recent orders
// POST /api/v1/orders/process-recent
func (h *Handler) ProcessRecentOrders(c *gin.Context) {
	results, err := h.runner.ProcessRecentOrders(c.Request.Context())
	if err != nil {
		common.AppErrorResponse(c, common.NewBadGatewayError("failed to list recent orders", err))
		return
	}

	common.SuccessResponse(c, gin.H{
		"results": results,
		"summary": Summarize(results),
	})
}
