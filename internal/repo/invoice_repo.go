// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Invoice
// model, including the sequential invoice-number lookup.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drclean/go-booking-backend/internal/domain"
)

// CreateInvoice inserts an issued invoice row. Number generation is the
// caller's responsibility (see services.InvoiceService).
func CreateInvoice(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Status == "" {
		inv.Status = domain.InvoiceStatusIssued
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(inv).Error
}

// GetInvoice fetches a single invoice by id, or ErrNotFound.
func GetInvoice(ctx context.Context, db *gorm.DB, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := db.WithContext(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// LastInvoiceNumber returns the most recently created invoice number, or ""
// when no invoice exists yet.
func LastInvoiceNumber(ctx context.Context, db *gorm.DB) (string, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Order("created_at desc").
		Select("invoice_number").
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return inv.InvoiceNumber, err
}

// SetInvoiceStatus updates status and, for paid invoices, the paid
// timestamp. Returns ErrNotFound when the invoice does not exist.
func SetInvoiceStatus(ctx context.Context, db *gorm.DB, id, status string, paidAt *time.Time) error {
	updates := map[string]any{"status": status}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	res := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
