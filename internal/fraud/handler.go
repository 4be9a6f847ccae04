package fraud

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/order-fraud-guard/pkg/common"
	"github.com/richxcame/order-fraud-guard/pkg/middleware"
)

// ReviewService is what the handler needs from the review flow
type ReviewService interface {
	ListFraudRecords(ctx context.Context, status ReviewStatus, limit int) ([]*FraudRecord, error)
	UpdateStatus(ctx context.Context, recordID uuid.UUID, hubID string, status ReviewStatus, reviewedBy string) error
	HoldOrder(ctx context.Context, hubID string) error
	ReleaseOrder(ctx context.Context, hubID string) error
	AddBlockedAddress(ctx context.Context, req *BlockAddressRequest) (*BlockedAddress, error)
	IsAddressBlocked(ctx context.Context, address, city, country string) (bool, error)
}

var _ ReviewService = (*Service)(nil)

// Handler handles HTTP requests for fraud review
type Handler struct {
	service ReviewService
}

// NewHandler creates a new fraud handler
func NewHandler(service ReviewService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the review, hub and blocklist routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	fraudRoutes := rg.Group("/fraud")
	{
		fraudRoutes.GET("/orders", h.ListFraudOrders)
		fraudRoutes.PUT("/orders/:id/status", h.UpdateStatus)
	}

	hubRoutes := rg.Group("/hub")
	{
		hubRoutes.POST("/orders/:id/hold", h.HoldOrder)
		hubRoutes.POST("/orders/:id/release", h.ReleaseOrder)
	}

	blocklist := rg.Group("/blocklist")
	{
		blocklist.POST("/addresses", h.AddBlockedAddress)
		blocklist.GET("/addresses/check", h.CheckAddress)
	}
}

// ListFraudOrders lists fraud records awaiting or past review
// GET /api/v1/fraud/orders?status=pending_review&limit=50
func (h *Handler) ListFraudOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.service.ListFraudRecords(c.Request.Context(), ReviewStatus(c.Query("status")), limit)
	if err != nil {
		respondError(c, err, "failed to list fraud records")
		return
	}

	common.SuccessResponseWithMeta(c, records, &common.Meta{Limit: limit, Total: int64(len(records))})
}

// UpdateStatus records a review decision
// PUT /api/v1/fraud/orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fraud record ID")
		return
	}

	var req UpdateStatusRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), recordID, req.HubID, req.Status, req.ReviewedBy); err != nil {
		respondError(c, err, "failed to update status")
		return
	}

	common.SuccessResponse(c, gin.H{"message": "status update success"})
}

// HoldOrder places a manual hold on a hub order
// POST /api/v1/hub/orders/:id/hold
func (h *Handler) HoldOrder(c *gin.Context) {
	if err := h.service.HoldOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "failed to hold order")
		return
	}
	common.SuccessResponse(c, gin.H{"message": "mark order on hold success"})
}

// ReleaseOrder lifts a hold on a hub order
// POST /api/v1/hub/orders/:id/release
func (h *Handler) ReleaseOrder(c *gin.Context) {
	if err := h.service.ReleaseOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "failed to release order")
		return
	}
	common.SuccessResponse(c, gin.H{"message": "release order success"})
}

// AddBlockedAddress adds an address to the blocklist
// POST /api/v1/blocklist/addresses
func (h *Handler) AddBlockedAddress(c *gin.Context) {
	var req BlockAddressRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	entry, err := h.service.AddBlockedAddress(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to add blocked address")
		return
	}
	common.CreatedResponse(c, entry)
}

// CheckAddress reports whether an address is blocked
// GET /api/v1/blocklist/addresses/check?address=&city=&country=
func (h *Handler) CheckAddress(c *gin.Context) {
	var q AddressCheckQuery
	if !middleware.ValidateAndBindQuery(c, &q) {
		return
	}

	blocked, err := h.service.IsAddressBlocked(c.Request.Context(), q.Address, q.City, q.Country)
	if err != nil {
		respondError(c, err, "failed to check address")
		return
	}
	common.SuccessResponse(c, gin.H{"blocked": blocked})
}

func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := common.AsAppError(err); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, fallback)
}
