// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// LoyaltyCredit balance row (zero or one per client).
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drclean/go-booking-backend/internal/domain"
)

// GetCredits fetches the balance row for clientID. Missing rows return
// (nil, nil): a client with no credit history is a normal state, not an
// error, mirroring the zero-or-one semantics of the collection.
func GetCredits(ctx context.Context, db *gorm.DB, clientID string) (*domain.LoyaltyCredit, error) {
	var lc domain.LoyaltyCredit
	err := db.WithContext(ctx).Where("client_id = ?", clientID).First(&lc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lc, nil
}

// UpsertCredits writes the balance row for clientID, creating it when
// absent. UpdatedAt is always refreshed to UTC now.
func UpsertCredits(ctx context.Context, db *gorm.DB, clientID string, current, earned, spent float64) error {
	now := time.Now().UTC()

	existing, err := GetCredits(ctx, db, clientID)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Create(&domain.LoyaltyCredit{
			ID:             uuid.NewString(),
			ClientID:       clientID,
			CurrentCredits: current,
			TotalEarned:    earned,
			TotalSpent:     spent,
			CreatedAt:      now,
			UpdatedAt:      now,
		}).Error
	}
	return db.WithContext(ctx).
		Model(&domain.LoyaltyCredit{}).
		Where("client_id = ?", clientID).
		Updates(map[string]any{
			"current_credits": current,
			"total_earned":    earned,
			"total_spent":     spent,
			"updated_at":      now,
		}).Error
}
