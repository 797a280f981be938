// Package services – QuoteService
//
// This file implements QuoteService, which turns quote requests into price
// estimates via the pricing package and manages the quote snapshot stored on
// bookings. Estimation itself is pure; QuoteBooking persists the snapshot
// and enforces the immutability rule: once a booking has been invoiced its
// quoted figures can never change.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/pricing"
	"github.com/drclean/go-booking-backend/internal/repo"
)

// QuoteRequest is one quote computation request. Exactly one of the input
// blocks must be present, and it must match ServiceType. CrewSize is only
// used for the crew time estimate; zero means the default crew of one.
type QuoteRequest struct {
	ServiceType string                   `json:"service_type"`
	CrewSize    int                      `json:"crew_size,omitempty"`
	Household   *pricing.HouseholdInput  `json:"household,omitempty"`
	Office      *pricing.OfficeInput     `json:"office,omitempty"`
	Windows     *pricing.WindowInput     `json:"windows,omitempty"`
	Upholstery  *pricing.UpholsteryInput `json:"upholstery,omitempty"`
}

// QuoteResult is the computed quote. Upholstery carries the itemized
// breakdown for upholstery jobs and is nil otherwise. WorkTime is the crew
// scheduling estimate; it is nil when the quoted price is zero.
type QuoteResult struct {
	ServiceType string                      `json:"service_type"`
	Estimate    pricing.Estimate            `json:"estimate"`
	Upholstery  *pricing.UpholsteryEstimate `json:"upholstery,omitempty"`
	WorkTime    *pricing.TimeEstimate       `json:"work_time,omitempty"`
}

// QuoteService computes estimates and attaches them to bookings.
type QuoteService struct {
	// DB is the database handle used for booking reads and snapshot writes.
	DB *gorm.DB
}

// Estimate computes a quote without touching any booking.
//
// Validation:
//   - ServiceType must be one of the known service identifiers; otherwise
//     ErrUnknownService.
//   - The matching input block must be present; otherwise
//     ErrMissingQuoteInput.
//   - Counts and areas must be non-negative; otherwise ErrInvalidQuoteInput.
//     Enum-valued fields never fail: unknown values coerce to the baseline
//     tier inside the pricing package.
func (s *QuoteService) Estimate(req QuoteRequest) (QuoteResult, error) {
	out := QuoteResult{ServiceType: req.ServiceType}

	switch req.ServiceType {
	case domain.ServiceHomeCleaning:
		in := req.Household
		if in == nil {
			return out, ErrMissingQuoteInput
		}
		if in.AreaM2 < 0 || in.Bathrooms < 0 || in.Kitchens < 0 {
			return out, ErrInvalidQuoteInput
		}
		out.Estimate = pricing.EstimateHousehold(*in)

	case domain.ServiceCommercialCleaning:
		in := req.Office
		if in == nil {
			return out, ErrMissingQuoteInput
		}
		if in.AreaM2 < 0 || in.WCs < 0 || in.Kitchenettes < 0 {
			return out, ErrInvalidQuoteInput
		}
		out.Estimate = pricing.EstimateOffice(*in)

	case domain.ServiceWindowCleaning:
		in := req.Windows
		if in == nil {
			return out, ErrMissingQuoteInput
		}
		if in.WindowCount < 0 {
			return out, ErrInvalidQuoteInput
		}
		out.Estimate = pricing.EstimateWindows(*in)

	case domain.ServiceUpholsteryCleaning:
		in := req.Upholstery
		if in == nil {
			return out, ErrMissingQuoteInput
		}
		if in.CarpetAreaM2 < 0 || in.ArmchairCount < 0 || in.ChairCount < 0 {
			return out, ErrInvalidQuoteInput
		}
		uph := pricing.EstimateUpholstery(*in)
		out.Upholstery = &uph
		out.Estimate = uph.Estimate

	default:
		return out, ErrUnknownService
	}

	if wt, ok := pricing.EstimateWorkTime(req.ServiceType, out.Estimate.PriceMin, req.CrewSize); ok {
		out.WorkTime = &wt
	}
	return out, nil
}

// CreateBooking creates a booking for clientID and attaches the quote
// computed from req in one step. The booking's service type is taken from
// the request.
func (s *QuoteService) CreateBooking(ctx context.Context, clientID string, req QuoteRequest) (*domain.Booking, QuoteResult, error) {
	tr := otel.Tracer("services/QuoteService")
	ctx, span := tr.Start(ctx, "CreateBooking",
		trace.WithAttributes(
			attribute.String("client.id", clientID),
			attribute.String("service.type", req.ServiceType),
		),
	)
	defer span.End()

	res, err := s.Estimate(req)
	if err != nil {
		return nil, QuoteResult{}, err
	}

	if _, err := repo.GetClient(ctx, s.DB, clientID); err != nil {
		if isNotFound(err) {
			return nil, QuoteResult{}, ErrClientNotFound
		}
		return nil, QuoteResult{}, err
	}

	var booking *domain.Booking
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := repo.CreateBooking(ctx, tx, clientID, req.ServiceType)
		if err != nil {
			return err
		}
		if err := repo.SetBookingQuote(ctx, tx, b.ID, res.Estimate); err != nil {
			return err
		}
		b.HoursMin = res.Estimate.HoursMin
		b.HoursMax = res.Estimate.HoursMax
		b.PriceMin = res.Estimate.PriceMin
		b.PriceMax = res.Estimate.PriceMax
		b.DiscountPercent = res.Estimate.DiscountPercent
		booking = b
		return nil
	})
	if err != nil {
		return nil, QuoteResult{}, err
	}
	return booking, res, nil
}

// QuoteBooking recomputes the quote for an existing booking and persists the
// new snapshot. The request's service type must be empty or match the
// booking's; an empty one inherits it.
//
// Returns ErrQuoteLocked once the booking has been invoiced: billed figures
// are immutable.
func (s *QuoteService) QuoteBooking(ctx context.Context, bookingID string, req QuoteRequest) (QuoteResult, error) {
	tr := otel.Tracer("services/QuoteService")
	ctx, span := tr.Start(ctx, "QuoteBooking",
		trace.WithAttributes(attribute.String("booking.id", bookingID)),
	)
	defer span.End()

	booking, err := repo.GetBooking(ctx, s.DB, bookingID)
	if err != nil {
		if isNotFound(err) {
			return QuoteResult{}, ErrBookingNotFound
		}
		return QuoteResult{}, err
	}
	if booking.InvoiceID != nil {
		return QuoteResult{}, ErrQuoteLocked
	}

	if req.ServiceType == "" {
		req.ServiceType = booking.ServiceType
	}
	if req.ServiceType != booking.ServiceType {
		return QuoteResult{}, ErrUnknownService
	}

	res, err := s.Estimate(req)
	if err != nil {
		return QuoteResult{}, err
	}
	if err := repo.SetBookingQuote(ctx, s.DB, bookingID, res.Estimate); err != nil {
		return QuoteResult{}, err
	}
	return res, nil
}

// GetBooking returns one booking by id.
func (s *QuoteService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := repo.GetBooking(ctx, s.DB, bookingID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListBookings returns a page of the client's bookings plus the total count.
func (s *QuoteService) ListBookings(ctx context.Context, clientID string, page, pageSize int) ([]domain.Booking, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountBookings(ctx, s.DB, clientID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Booking{}, 0, nil
	}
	items, err := repo.ListBookingsPage(ctx, s.DB, clientID, offset, pageSize)
	return items, total, err
}
