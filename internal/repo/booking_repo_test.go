package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/pricing"
)

func TestCreateBooking_And_SetQuote(t *testing.T) {
	db := newTestDB(t, &domain.Client{}, &domain.Booking{})
	ctx := context.Background()

	b, err := CreateBooking(ctx, db, "c1", domain.ServiceHomeCleaning)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.ID == "" || b.Status != domain.BookingStatusPending {
		t.Fatalf("unexpected booking: %+v", b)
	}

	est := pricing.Estimate{HoursMin: 3.5, HoursMax: 5.75, PriceMin: 1400, PriceMax: 2300}
	if err := SetBookingQuote(ctx, db, b.ID, est); err != nil {
		t.Fatalf("SetBookingQuote: %v", err)
	}

	got, err := GetBooking(ctx, db, b.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.PriceMin != 1400 || got.PriceMax != 2300 || got.HoursMin != 3.5 {
		t.Fatalf("quote snapshot not persisted: %+v", got)
	}
}

func TestSetBookingStatus_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.Booking{})
	err := SetBookingStatus(context.Background(), db, "missing", domain.BookingStatusCancelled)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestSetBookingInvoice(t *testing.T) {
	db := newTestDB(t, &domain.Client{}, &domain.Booking{})
	ctx := context.Background()

	b, _ := CreateBooking(ctx, db, "c1", domain.ServiceWindowCleaning)
	if err := SetBookingInvoice(ctx, db, b.ID, "inv-1"); err != nil {
		t.Fatalf("SetBookingInvoice: %v", err)
	}
	got, _ := GetBooking(ctx, db, b.ID)
	if got.InvoiceID == nil || *got.InvoiceID != "inv-1" {
		t.Fatalf("invoice id not stamped: %+v", got.InvoiceID)
	}
}

func TestListBookingsPage(t *testing.T) {
	db := newTestDB(t, &domain.Client{}, &domain.Booking{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := CreateBooking(ctx, db, "c1", domain.ServiceHomeCleaning); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	if _, err := CreateBooking(ctx, db, "c2", domain.ServiceHomeCleaning); err != nil {
		t.Fatalf("seed other client: %v", err)
	}

	total, err := CountBookings(ctx, db, "c1")
	if err != nil || total != 3 {
		t.Fatalf("CountBookings = %d, %v; want 3", total, err)
	}
	page, err := ListBookingsPage(ctx, db, "c1", 0, 10)
	if err != nil || len(page) != 3 {
		t.Fatalf("ListBookingsPage = %d items, %v; want 3", len(page), err)
	}
}
