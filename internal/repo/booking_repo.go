// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking
// model.
//
// Functions:
//
//   - CreateBooking(ctx, db, clientID, serviceType) -> *domain.Booking, error
//     Inserts a new pending Booking row with UUID primary key.
//
//   - GetBooking(ctx, db, id) -> *domain.Booking, error
//     Fetches a single booking, or ErrNotFound if missing.
//
//   - SetBookingQuote(ctx, db, id, est) -> error
//     Writes the quote snapshot columns on a booking.
//
//   - SetBookingInvoice(ctx, db, id, invoiceID) -> error
//     Stamps the issued invoice id, locking the quote.
//
//   - SetBookingStatus(ctx, db, id, status) -> error
//     Updates the lifecycle status.
//
//   - CountBookings / ListBookingsPage: pagination support per client.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/pricing"
)

// CreateBooking inserts a new pending booking for clientID with the given
// service type. On success, it returns the persisted Booking.
func CreateBooking(ctx context.Context, db *gorm.DB, clientID, serviceType string) (*domain.Booking, error) {
	b := &domain.Booking{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		ServiceType: serviceType,
		Status:      domain.BookingStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// GetBooking fetches a single booking by id. If the record does not exist,
// it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetBooking(ctx context.Context, db *gorm.DB, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// SetBookingQuote persists the computed estimate snapshot on a booking.
// Returns ErrNotFound when the booking does not exist.
func SetBookingQuote(ctx context.Context, db *gorm.DB, id string, est pricing.Estimate) error {
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"hours_min":        est.HoursMin,
			"hours_max":        est.HoursMax,
			"price_min":        est.PriceMin,
			"price_max":        est.PriceMax,
			"discount_percent": est.DiscountPercent,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetBookingInvoice stamps the invoice id on a booking. Returns ErrNotFound
// when the booking does not exist.
func SetBookingInvoice(ctx context.Context, db *gorm.DB, id, invoiceID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("invoice_id", invoiceID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetBookingStatus updates the booking lifecycle status. Returns ErrNotFound
// when the booking does not exist.
func SetBookingStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountBookings returns the total number of bookings owned by clientID.
func CountBookings(ctx context.Context, db *gorm.DB, clientID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("client_id = ?", clientID).
		Count(&total).Error
	return total, err
}

// ListBookingsPage returns a paginated slice of bookings for clientID,
// ordered by creation time descending. Use CountBookings for pagination
// metadata.
func ListBookingsPage(ctx context.Context, db *gorm.DB, clientID string, offset, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
