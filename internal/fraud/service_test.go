package fraud

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/richxcame/order-fraud-guard/internal/orders"
	"github.com/richxcame/order-fraud-guard/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mocks
// ============================================================================

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ExistsFraudRecord(ctx context.Context, orderNumber string, platformType orders.PlatformType) (bool, error) {
	args := m.Called(ctx, orderNumber, platformType)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) InsertFraudRecord(ctx context.Context, order *orders.Order, assessment *Assessment) error {
	return m.Called(ctx, order, assessment).Error(0)
}

func (m *mockRepo) ListFraudRecords(ctx context.Context, status ReviewStatus, limit int) ([]*FraudRecord, error) {
	args := m.Called(ctx, status, limit)
	records, _ := args.Get(0).([]*FraudRecord)
	return records, args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status ReviewStatus, reviewedBy string) (string, error) {
	args := m.Called(ctx, id, status, reviewedBy)
	return args.String(0), args.Error(1)
}

func (m *mockRepo) AddBlockedAddress(ctx context.Context, entry *BlockedAddress) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRepo) IsAddressBlocked(ctx context.Context, address, city, country string) (bool, error) {
	args := m.Called(ctx, address, city, country)
	return args.Bool(0), args.Error(1)
}

type mockHub struct {
	mock.Mock
}

func (m *mockHub) Hold(ctx context.Context, hubOrderID string) error {
	return m.Called(ctx, hubOrderID).Error(0)
}

func (m *mockHub) Release(ctx context.Context, hubOrderID string) error {
	return m.Called(ctx, hubOrderID).Error(0)
}

func appErrorCode(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := common.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

// ============================================================================
// ListFraudRecords
// ============================================================================

func TestServiceListFraudRecords_Defaults(t *testing.T) {
	tests := []struct {
		name       string
		status     ReviewStatus
		limit      int
		wantStatus ReviewStatus
		wantLimit  int
	}{
		{"defaults", "", 0, StatusPendingReview, 50},
		{"explicit", StatusConfirmedFraud, 10, StatusConfirmedFraud, 10},
		{"capped", StatusFalsePositive, 5000, StatusFalsePositive, 200},
		{"negative limit", "", -3, StatusPendingReview, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(mockRepo)
			repo.On("ListFraudRecords", ctx, tt.wantStatus, tt.wantLimit).Return([]*FraudRecord{}, nil).Once()

			_, err := NewService(repo, new(mockHub)).ListFraudRecords(ctx, tt.status, tt.limit)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestServiceListFraudRecords_InvalidStatus(t *testing.T) {
	_, err := NewService(new(mockRepo), new(mockHub)).ListFraudRecords(context.Background(), "archived", 0)
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
}

// ============================================================================
// UpdateStatus
// ============================================================================

func TestServiceUpdateStatus_FalsePositiveReleasesNormalizedID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(mockRepo)
	hubClient := new(mockHub)
	repo.On("UpdateStatus", ctx, id, StatusFalsePositive, "ops@example.com").Return("99999", nil)
	hubClient.On("Release", ctx, "12345").Return(nil).Once()

	err := NewService(repo, hubClient).UpdateStatus(ctx, id, "12345.0", StatusFalsePositive, "ops@example.com")

	require.NoError(t, err)
	hubClient.AssertExpectations(t)
}

func TestServiceUpdateStatus_FalsePositiveFallsBackToStoredHubID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(mockRepo)
	hubClient := new(mockHub)
	repo.On("UpdateStatus", ctx, id, StatusFalsePositive, "ops").Return("777.0", nil)
	hubClient.On("Release", ctx, "777").Return(nil).Once()

	require.NoError(t, NewService(repo, hubClient).UpdateStatus(ctx, id, "", StatusFalsePositive, "ops"))
	hubClient.AssertExpectations(t)
}

func TestServiceUpdateStatus_ConfirmedFraudKeepsHold(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(mockRepo)
	hubClient := new(mockHub)
	repo.On("UpdateStatus", ctx, id, StatusConfirmedFraud, "ops").Return("12345", nil)

	require.NoError(t, NewService(repo, hubClient).UpdateStatus(ctx, id, "12345", StatusConfirmedFraud, "ops"))
	hubClient.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestServiceUpdateStatus_Errors(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		status     ReviewStatus
		hubID      string
		repoHubID  string
		repoErr    error
		releaseErr error
		wantCode   int
	}{
		{"pending is not a decision", StatusPendingReview, "1", "", nil, nil, http.StatusBadRequest},
		{"unknown record", StatusFalsePositive, "1", "", ErrRecordNotFound, nil, http.StatusNotFound},
		{"database down", StatusFalsePositive, "1", "", errors.New("conn refused"), nil, http.StatusInternalServerError},
		{"no hub id anywhere", StatusFalsePositive, "", "", nil, nil, http.StatusBadRequest},
		{"hub rejects release", StatusFalsePositive, "1", "", nil, errors.New("HTTP 500"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(mockRepo)
			hubClient := new(mockHub)
			repo.On("UpdateStatus", ctx, id, tt.status, "ops").Return(tt.repoHubID, tt.repoErr)
			hubClient.On("Release", ctx, mock.Anything).Return(tt.releaseErr)

			err := NewService(repo, hubClient).UpdateStatus(ctx, id, tt.hubID, tt.status, "ops")

			assert.Equal(t, tt.wantCode, appErrorCode(t, err))
		})
	}
}

// ============================================================================
// Hub and blocklist
// ============================================================================

func TestServiceHoldAndRelease(t *testing.T) {
	ctx := context.Background()
	hubClient := new(mockHub)
	hubClient.On("Hold", ctx, "42").Return(nil).Once()
	hubClient.On("Release", ctx, "43").Return(errors.New("hub API error: HTTP 404")).Once()
	svc := NewService(new(mockRepo), hubClient)

	assert.NoError(t, svc.HoldOrder(ctx, "42.0"))
	err := svc.ReleaseOrder(ctx, "43")
	assert.Equal(t, http.StatusBadGateway, appErrorCode(t, err))
	hubClient.AssertExpectations(t)
}

func TestServiceAddBlockedAddress(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("AddBlockedAddress", ctx, mock.MatchedBy(func(e *BlockedAddress) bool {
		return e.Address == "1 Main St" && e.CreatedBy == "ops"
	})).Return(nil).Once()

	entry, err := NewService(repo, new(mockHub)).AddBlockedAddress(ctx, &BlockAddressRequest{
		Address: "1 Main St", City: "Austin", Country: "US", CreatedBy: "ops",
	})

	require.NoError(t, err)
	assert.Equal(t, "Austin", entry.City)
	repo.AssertExpectations(t)
}

func TestServiceIsAddressBlocked_Error(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("IsAddressBlocked", ctx, "a", "b", "US").Return(false, errors.New("boom"))

	_, err := NewService(repo, new(mockHub)).IsAddressBlocked(ctx, "a", "b", "US")

	assert.Equal(t, http.StatusInternalServerError, appErrorCode(t, err))
}
