package fraud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/richxcame/order-fraud-guard/internal/hub"
	"github.com/richxcame/order-fraud-guard/internal/orders"
	"github.com/richxcame/order-fraud-guard/pkg/database"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"go.uber.org/zap"
)

// ErrRecordNotFound is returned when a fraud record id matches no row
var ErrRecordNotFound = errors.New("fraud record not found")

// FraudRepository is the storage contract of fraud records and the address blocklist
type FraudRepository interface {
	ExistsFraudRecord(ctx context.Context, orderNumber string, platformType orders.PlatformType) (bool, error)
	InsertFraudRecord(ctx context.Context, order *orders.Order, assessment *Assessment) error
	ListFraudRecords(ctx context.Context, status ReviewStatus, limit int) ([]*FraudRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ReviewStatus, reviewedBy string) (string, error)
	AddBlockedAddress(ctx context.Context, entry *BlockedAddress) error
	IsAddressBlocked(ctx context.Context, address, city, country string) (bool, error)
}

// Repository handles fraud data operations on PostgreSQL
type Repository struct {
	db database.Database
}

var _ FraudRepository = (*Repository)(nil)

// NewRepository creates a new fraud repository
func NewRepository(db database.Database) *Repository {
	return &Repository{db: db}
}

// ExistsFraudRecord reports whether a record exists for the order on its platform
func (r *Repository) ExistsFraudRecord(ctx context.Context, orderNumber string, platformType orders.PlatformType) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM fraudulent_orders
			WHERE order_number = $1 AND platform_type = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, orderNumber, string(platformType)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check fraud record: %w", err)
	}
	return exists, nil
}

// InsertFraudRecord stores a failed check. It is a no-op when a record
// already exists for the (order number, platform) pair.
func (r *Repository) InsertFraudRecord(ctx context.Context, order *orders.Order, assessment *Assessment) error {
	exists, err := r.ExistsFraudRecord(ctx, order.OrderNumber, order.PlatformType)
	if err != nil {
		return err
	}
	if exists {
		logger.WithContext(ctx).Info("Fraud record already exists, skipping",
			zap.String("order_number", order.OrderNumber),
			zap.String("platform_type", string(order.PlatformType)),
		)
		return nil
	}

	query := `
		INSERT INTO fraudulent_orders (
			id, order_number, platform_type, customer_email, customer_name,
			total_amount, shipping_address, shipping_city, shipping_country,
			client_ip, ip_city, ip_country, fraud_score, fraud_reasons, hub_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (order_number, platform_type) DO NOTHING
	`

	var ipCity, ipCountry *string
	if loc := assessment.IPLocation; loc != nil {
		ipCity = nullable(loc.City)
		ipCountry = nullable(loc.Country)
	}

	_, err = r.db.Exec(ctx, query,
		uuid.New(),
		order.OrderNumber,
		string(order.PlatformType),
		order.Customer.Email,
		order.Customer.FullName(),
		order.TotalAmount,
		order.Shipping.Address1,
		order.Shipping.City,
		order.Shipping.Country,
		nullable(order.ClientIP),
		ipCity,
		ipCountry,
		assessment.Score,
		assessment.Result.Details,
		hub.NormalizeID(order.MetadataString(orders.MetadataHubID)),
	)
	if err != nil {
		return fmt.Errorf("insert fraud record: %w", err)
	}
	return nil
}

// ListFraudRecords returns the newest records in the given review status
func (r *Repository) ListFraudRecords(ctx context.Context, status ReviewStatus, limit int) ([]*FraudRecord, error) {
	query := `
		SELECT id, order_number, platform_type, customer_email, customer_name,
		       total_amount, shipping_address, shipping_city, shipping_country,
		       client_ip, ip_city, ip_country, fraud_score, fraud_reasons, hub_id,
		       status, reviewed_by, reviewed_at, created_at
		FROM fraudulent_orders
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("list fraud records: %w", err)
	}
	defer rows.Close()

	records := make([]*FraudRecord, 0)
	for rows.Next() {
		var rec FraudRecord
		var recStatus string
		if err := rows.Scan(
			&rec.ID,
			&rec.OrderNumber,
			&rec.PlatformType,
			&rec.CustomerEmail,
			&rec.CustomerName,
			&rec.TotalAmount,
			&rec.ShippingAddress,
			&rec.ShippingCity,
			&rec.ShippingCountry,
			&rec.ClientIP,
			&rec.IPCity,
			&rec.IPCountry,
			&rec.FraudScore,
			&rec.FraudReasons,
			&rec.HubID,
			&recStatus,
			&rec.ReviewedBy,
			&rec.ReviewedAt,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan fraud record: %w", err)
		}
		rec.Status = ReviewStatus(recStatus)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fraud records: %w", err)
	}
	return records, nil
}

// UpdateStatus records a review decision and returns the stored hub id
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status ReviewStatus, reviewedBy string) (string, error) {
	query := `
		UPDATE fraudulent_orders
		SET status = $1, reviewed_by = $2, reviewed_at = NOW()
		WHERE id = $3
		RETURNING hub_id
	`

	var hubID string
	err := r.db.QueryRow(ctx, query, string(status), reviewedBy, id).Scan(&hubID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRecordNotFound
	}
	if err != nil {
		return "", fmt.Errorf("update fraud record status: %w", err)
	}
	return hubID, nil
}

// AddBlockedAddress inserts a blocklist entry in canonical case
func (r *Repository) AddBlockedAddress(ctx context.Context, entry *BlockedAddress) error {
	query := `
		INSERT INTO blocked_addresses (
			id, address, city, country, reason, created_by, is_active, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.Address = strings.ToLower(strings.TrimSpace(entry.Address))
	entry.City = strings.ToLower(strings.TrimSpace(entry.City))
	entry.Country = strings.ToUpper(strings.TrimSpace(entry.Country))
	entry.IsActive = true

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.Address,
		entry.City,
		entry.Country,
		entry.Reason,
		entry.CreatedBy,
		entry.IsActive,
		entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert blocked address: %w", err)
	}
	return nil
}

// IsAddressBlocked reports whether an active, unexpired entry matches the address
func (r *Repository) IsAddressBlocked(ctx context.Context, address, city, country string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM blocked_addresses
		WHERE address = $1 AND city = $2 AND country = $3
		  AND is_active = TRUE
		  AND (expires_at IS NULL OR expires_at > NOW())
	`

	var count int
	err := r.db.QueryRow(ctx, query,
		strings.ToLower(strings.TrimSpace(address)),
		strings.ToLower(strings.TrimSpace(city)),
		strings.ToUpper(strings.TrimSpace(country)),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check blocked address: %w", err)
	}
	return count > 0, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
