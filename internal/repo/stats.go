// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides cheap aggregate lookups used by HTTP
// handlers to build weak ETags for list endpoints without loading the page.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/drclean/go-booking-backend/internal/domain"
)

// TransactionsStats returns the ledger entry count and the latest creation
// timestamp for clientID. The pair changes whenever the ledger changes,
// which makes it a good ETag seed.
func TransactionsStats(ctx context.Context, db *gorm.DB, clientID string) (int64, *time.Time, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&domain.LoyaltyTransaction{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, nil, err
	}

	var row struct{ MaxCreated *time.Time }
	if err := db.WithContext(ctx).
		Model(&domain.LoyaltyTransaction{}).
		Select("MAX(created_at) AS max_created").
		Where("client_id = ?", clientID).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, row.MaxCreated, nil
}

// BookingsStats returns the booking count and the latest update timestamp
// for clientID, for ETag construction on booking lists.
func BookingsStats(ctx context.Context, db *gorm.DB, clientID string) (int64, *time.Time, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, nil, err
	}

	var row struct{ MaxUpdated *time.Time }
	if err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("MAX(updated_at) AS max_updated").
		Where("client_id = ?", clientID).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, row.MaxUpdated, nil
}
