// Package services defines the business logic for quotes, bookings,
// invoices, and the loyalty ledger. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrClientNotFound indicates that the referenced client does not exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrInvalidClientName is returned when creating a client without a name.
	ErrInvalidClientName = errors.New("client name is required")

	// ErrBookingNotFound indicates that the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvoiceNotFound indicates that the referenced invoice does not exist.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrUnknownService is returned when a quote request names a service
	// type no calculator exists for.
	ErrUnknownService = errors.New("unknown service type")

	// ErrMissingQuoteInput is returned when a quote request omits the input
	// block matching its service type.
	ErrMissingQuoteInput = errors.New("quote input missing for service type")

	// ErrInvalidQuoteInput is returned when a quote input carries a negative
	// numeric field. Enum fields never cause this; they coerce to baseline.
	ErrInvalidQuoteInput = errors.New("quote numeric fields must be >= 0")

	// ErrQuoteLocked is returned when attempting to re-quote a booking that
	// has already been invoiced. Quoted figures are immutable once billed.
	ErrQuoteLocked = errors.New("booking already invoiced, quote is locked")

	// ErrInvalidRedemption is returned for non-positive redemption amounts.
	ErrInvalidRedemption = errors.New("redemption amount must be positive")

	// ErrInsufficientCredits is returned when a redemption exceeds the
	// client's current balance.
	ErrInsufficientCredits = errors.New("insufficient loyalty credits")

	// ErrInvoiceNotCancellable is returned when cancelling an invoice that
	// is already cancelled.
	ErrInvoiceNotCancellable = errors.New("invoice cannot be cancelled")
)
