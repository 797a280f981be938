// Package services – InvoiceService
//
// This file implements InvoiceService, which issues invoices for quoted
// bookings, marks them paid, and cancels them. Payment and cancellation feed
// the loyalty ledger, but never depend on it: a failed accrual or reversal
// is logged and reported as a flag while the billing state change stands.
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/repo"
)

// defaultVATRatePercent is the flat Czech VAT rate applied to every invoice.
const defaultVATRatePercent = 21.0

// InvoiceService implements the billing use-cases.
type InvoiceService struct {
	// DB is the database handle used for all invoice operations.
	DB *gorm.DB

	// VATRatePercent is the applied VAT rate; zero or negative values fall
	// back to the 21% default.
	VATRatePercent float64

	// Loyalty receives accrual/reversal calls on payment and cancellation.
	// May be nil, in which case the ledger is simply skipped.
	Loyalty *LoyaltyService
}

// NewInvoiceService returns an InvoiceService with the default VAT rate.
func NewInvoiceService(db *gorm.DB, loyalty *LoyaltyService) *InvoiceService {
	return &InvoiceService{DB: db, VATRatePercent: defaultVATRatePercent, Loyalty: loyalty}
}

func (s *InvoiceService) vatRate() float64 {
	if s.VATRatePercent > 0 {
		return s.VATRatePercent
	}
	return defaultVATRatePercent
}

// CreateFromBooking issues an invoice for a quoted booking.
//
// Semantics:
//   - A booking that already carries an invoice id is not billed twice: the
//     existing invoice is returned unchanged.
//   - The subtotal is the booking's quoted lower-bound price; VAT is added
//     on top at the configured flat rate.
//   - Invoice numbers are YYMM plus a three-digit sequence that restarts at
//     001 each calendar month.
//   - The new invoice id is stamped onto the booking, which locks its quote.
//
// Number generation, insert, and stamp run in one database transaction, so
// two concurrent issuances cannot both claim the same sequence number (the
// unique index on invoice_number rejects the loser).
func (s *InvoiceService) CreateFromBooking(ctx context.Context, bookingID string) (*domain.Invoice, error) {
	tr := otel.Tracer("services/InvoiceService")
	ctx, span := tr.Start(ctx, "CreateFromBooking",
		trace.WithAttributes(attribute.String("booking.id", bookingID)),
	)
	defer span.End()

	var invoice *domain.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := repo.GetBooking(ctx, tx, bookingID)
		if err != nil {
			if isNotFound(err) {
				return ErrBookingNotFound
			}
			return err
		}

		if booking.InvoiceID != nil {
			existing, err := repo.GetInvoice(ctx, tx, *booking.InvoiceID)
			if err != nil {
				return err
			}
			invoice = existing
			return nil
		}

		last, err := repo.LastInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}

		subtotal := booking.PriceMin
		rate := s.vatRate()
		vatAmount := subtotal * (rate / 100)

		inv := &domain.Invoice{
			InvoiceNumber: nextInvoiceNumber(last, time.Now().UTC()),
			ClientID:      booking.ClientID,
			BookingID:     booking.ID,
			Subtotal:      subtotal,
			VATRate:       rate,
			VATAmount:     vatAmount,
			Total:         subtotal + vatAmount,
		}
		if err := repo.CreateInvoice(ctx, tx, inv); err != nil {
			return err
		}
		if err := repo.SetBookingInvoice(ctx, tx, booking.ID, inv.ID); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// MarkPaid records payment on an invoice and accrues loyalty points for it.
//
// The returned flag reports whether the ledger update succeeded. Accrual
// failure never fails the payment: the invoice stays paid, the error is
// logged, and the flag comes back false so callers can surface it. Marking
// an already-paid invoice again is a no-op (and accrual is idempotent on the
// booking anyway).
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID string) (*domain.Invoice, bool, error) {
	tr := otel.Tracer("services/InvoiceService")
	ctx, span := tr.Start(ctx, "MarkPaid",
		trace.WithAttributes(attribute.String("invoice.id", invoiceID)),
	)
	defer span.End()

	inv, err := repo.GetInvoice(ctx, s.DB, invoiceID)
	if err != nil {
		if isNotFound(err) {
			return nil, false, ErrInvoiceNotFound
		}
		return nil, false, err
	}
	if inv.Status == domain.InvoiceStatusPaid {
		return inv, true, nil
	}

	paidAt := time.Now().UTC()
	if err := repo.SetInvoiceStatus(ctx, s.DB, inv.ID, domain.InvoiceStatusPaid, &paidAt); err != nil {
		return nil, false, err
	}
	inv.Status = domain.InvoiceStatusPaid
	inv.PaidAt = &paidAt

	ledgerOK := true
	if s.Loyalty != nil {
		if _, err := s.Loyalty.Accrue(ctx, inv.ClientID, inv.Total, &inv.BookingID); err != nil {
			ledgerOK = false
			log.Warn().
				Err(err).
				Str("invoice_id", inv.ID).
				Str("client_id", inv.ClientID).
				Msg("loyalty accrual failed after payment")
		}
	}
	return inv, ledgerOK, nil
}

// Cancel voids an invoice. A previously paid invoice also gets its loyalty
// accrual reversed, under the same non-blocking policy as MarkPaid: the
// cancellation stands even when the ledger update fails.
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID string) (*domain.Invoice, bool, error) {
	tr := otel.Tracer("services/InvoiceService")
	ctx, span := tr.Start(ctx, "Cancel",
		trace.WithAttributes(attribute.String("invoice.id", invoiceID)),
	)
	defer span.End()

	inv, err := repo.GetInvoice(ctx, s.DB, invoiceID)
	if err != nil {
		if isNotFound(err) {
			return nil, false, ErrInvoiceNotFound
		}
		return nil, false, err
	}
	if inv.Status == domain.InvoiceStatusCancelled {
		return nil, false, ErrInvoiceNotCancellable
	}
	wasPaid := inv.Status == domain.InvoiceStatusPaid

	if err := repo.SetInvoiceStatus(ctx, s.DB, inv.ID, domain.InvoiceStatusCancelled, nil); err != nil {
		return nil, false, err
	}
	inv.Status = domain.InvoiceStatusCancelled

	ledgerOK := true
	if wasPaid && s.Loyalty != nil {
		if _, err := s.Loyalty.Reverse(ctx, inv.ClientID, inv.Total, &inv.BookingID); err != nil {
			ledgerOK = false
			log.Warn().
				Err(err).
				Str("invoice_id", inv.ID).
				Str("client_id", inv.ClientID).
				Msg("loyalty reversal failed after cancellation")
		}
	}
	return inv, ledgerOK, nil
}

// Get returns one invoice by id.
func (s *InvoiceService) Get(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, err := repo.GetInvoice(ctx, s.DB, invoiceID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

// nextInvoiceNumber derives the YYMMXXX number following last at time now.
// The three-digit sequence continues within a calendar month and restarts at
// 001 when the month (or year) rolls over, or when last is unparseable.
//
// The sequence caps at 999 per month: number 1000 still renders, but only
// its last three digits feed the next increment, so a thousand-and-first
// invoice in one month would collide. Well beyond this business's volume.
func nextInvoiceNumber(last string, now time.Time) string {
	prefix := now.Format("0601") // YYMM

	seq := 1
	if len(last) >= 7 && strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(last[len(last)-3:]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq)
}
