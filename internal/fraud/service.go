package fraud

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/richxcame/order-fraud-guard/internal/hub"
	"github.com/richxcame/order-fraud-guard/pkg/common"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// HubGateway is the subset of the hub client the review flow needs
type HubGateway interface {
	Hold(ctx context.Context, hubOrderID string) error
	Release(ctx context.Context, hubOrderID string) error
}

// Service handles review of fraud records and the address blocklist
type Service struct {
	repo FraudRepository
	hub  HubGateway
}

// NewService creates a new review service
func NewService(repo FraudRepository, hubGateway HubGateway) *Service {
	return &Service{repo: repo, hub: hubGateway}
}

// ListFraudRecords lists records in status, newest first. An empty status
// means pending review; limit defaults to 50 and is capped at 200.
func (s *Service) ListFraudRecords(ctx context.Context, status ReviewStatus, limit int) ([]*FraudRecord, error) {
	if status == "" {
		status = StatusPendingReview
	}
	if !status.IsValid() {
		return nil, common.NewBadRequestError("invalid status", nil)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := s.repo.ListFraudRecords(ctx, status, limit)
	if err != nil {
		return nil, common.NewInternalServerError("failed to list fraud records", err)
	}
	return records, nil
}

// UpdateStatus records a review decision. Overturning a flag
// (false_positive) releases the hub hold using hubID, or the hub id
// stored on the record when hubID is empty.
func (s *Service) UpdateStatus(ctx context.Context, recordID uuid.UUID, hubID string, status ReviewStatus, reviewedBy string) error {
	if status != StatusConfirmedFraud && status != StatusFalsePositive {
		return common.NewBadRequestError("status must be confirmed_fraud or false_positive", nil)
	}

	storedHubID, err := s.repo.UpdateStatus(ctx, recordID, status, reviewedBy)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return common.NewNotFoundError("fraud record not found", err)
		}
		return common.NewInternalServerError("failed to update fraud record", err)
	}

	if status != StatusFalsePositive {
		return nil
	}

	if hubID == "" {
		hubID = storedHubID
	}
	hubID = hub.NormalizeID(hubID)
	if hubID == "" {
		return common.NewBadRequestError("hub id is required to release the order", nil)
	}

	logger.WithContext(ctx).Info("Releasing hub hold for false positive",
		zap.String("record_id", recordID.String()),
		zap.String("hub_id", hubID),
	)
	if err := s.hub.Release(ctx, hubID); err != nil {
		return common.NewBadGatewayError("failed to release hub order", err)
	}
	return nil
}

// HoldOrder places a manual fraud hold on a hub order
func (s *Service) HoldOrder(ctx context.Context, hubID string) error {
	if err := s.hub.Hold(ctx, hub.NormalizeID(hubID)); err != nil {
		return common.NewBadGatewayError("failed to hold hub order", err)
	}
	return nil
}

// ReleaseOrder lifts a hold on a hub order
func (s *Service) ReleaseOrder(ctx context.Context, hubID string) error {
	if err := s.hub.Release(ctx, hub.NormalizeID(hubID)); err != nil {
		return common.NewBadGatewayError("failed to release hub order", err)
	}
	return nil
}

// AddBlockedAddress adds an address to the blocklist
func (s *Service) AddBlockedAddress(ctx context.Context, req *BlockAddressRequest) (*BlockedAddress, error) {
	entry := &BlockedAddress{
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		Reason:    req.Reason,
		CreatedBy: req.CreatedBy,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.repo.AddBlockedAddress(ctx, entry); err != nil {
		return nil, common.NewInternalServerError("failed to add blocked address", err)
	}
	return entry, nil
}

// IsAddressBlocked checks an address against the active blocklist
func (s *Service) IsAddressBlocked(ctx context.Context, address, city, country string) (bool, error) {
	blocked, err := s.repo.IsAddressBlocked(ctx, address, city, country)
	if err != nil {
		return false, common.NewInternalServerError("failed to check blocked address", err)
	}
	return blocked, nil
}
