// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// append-only LoyaltyTransaction log.
//
// The log is the source of truth for the loyalty ledger: balances in
// loyalty_credits are derived state and can always be rebuilt from it
// (services.LoyaltyService.Recalculate).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drclean/go-booking-backend/internal/domain"
)

// InsertTransaction appends one ledger entry. relatedJobID may be nil for
// entries not tied to a booking (e.g. redemptions).
func InsertTransaction(ctx context.Context, db *gorm.DB, clientID string, amount float64, txType, description string, relatedJobID *string) (*domain.LoyaltyTransaction, error) {
	tx := &domain.LoyaltyTransaction{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		Amount:       amount,
		Type:         txType,
		Description:  description,
		RelatedJobID: relatedJobID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(tx).Error; err != nil {
		return nil, err
	}
	return tx, nil
}

// ListEarnedByBooking returns every earned transaction recorded for
// (clientID, bookingID). An empty slice means no points were ever accrued
// for that booking.
func ListEarnedByBooking(ctx context.Context, db *gorm.DB, clientID, bookingID string) ([]domain.LoyaltyTransaction, error) {
	var out []domain.LoyaltyTransaction
	err := db.WithContext(ctx).
		Where("client_id = ? AND related_job_id = ? AND type = ?",
			clientID, bookingID, domain.LoyaltyTxEarned).
		Find(&out).Error
	return out, err
}

// ListTransactions returns all ledger entries for clientID. Used by
// reconciliation, which re-derives balances from the full log.
func ListTransactions(ctx context.Context, db *gorm.DB, clientID string) ([]domain.LoyaltyTransaction, error) {
	var out []domain.LoyaltyTransaction
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Find(&out).Error
	return out, err
}

// CountTransactions returns the total number of ledger entries for clientID.
func CountTransactions(ctx context.Context, db *gorm.DB, clientID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.LoyaltyTransaction{}).
		Where("client_id = ?", clientID).
		Count(&total).Error
	return total, err
}

// ListTransactionsPage returns a page of ledger entries for clientID,
// newest first.
func ListTransactionsPage(ctx context.Context, db *gorm.DB, clientID string, offset, limit int) ([]domain.LoyaltyTransaction, error) {
	var out []domain.LoyaltyTransaction
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteTransactions removes ledger entries by id. Only accrual reversal
// may call this; redeemed entries are never deleted.
func DeleteTransactions(ctx context.Context, db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.LoyaltyTransaction{}).Error
}
