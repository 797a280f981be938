// Invoice HTTP handlers.
//
// This file exposes REST endpoints for billing:
//   - POST /bookings/{id}/invoice  (issue an invoice for a booking)
//   - GET  /invoices/{id}          (fetch one invoice)
//   - POST /invoices/{id}/pay      (record payment, accrue loyalty points)
//   - POST /invoices/{id}/cancel   (void an invoice, reverse accrual)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// issuance exists for (user, booking, key), the handler returns the recorded
// invoice and sets `Idempotency-Replayed: true`. Issuance is additionally
// idempotent at the service level: a booking is never billed twice.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/repo"
	"github.com/drclean/go-booking-backend/internal/services"
)

// InvoiceActionResponse wraps an invoice state change. LedgerUpdated is false
// when the billing change succeeded but the loyalty ledger update did not;
// the ledger can be repaired later with the recalculate endpoint.
type InvoiceActionResponse struct {
	Invoice       *domain.Invoice `json:"invoice"`
	LedgerUpdated bool            `json:"ledger_updated"`
}

// IssueInvoice godoc
// @ID          issueInvoice
// @Summary     Issue an invoice for a booking
// @Description Creates an invoice from the booking's quoted price with VAT added.
// @Description A booking that already has an invoice returns it unchanged.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Invoices
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       id               path    string  true  "Booking ID (UUID)"  format(uuid)
//
// @Success     201  {object}  domain.Invoice
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Booking not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /bookings/{id}/invoice [post]
func (h *Handlers) IssueInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := idempotencyKeyFrom(c)
	if idemKey != "" {
		if svc, okSvc := h.invoiceSvc.(*services.InvoiceService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, bookingID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetInvoice(ctx, svc.DB, rec.ResultID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, prev)
					return
				}
			}
		}
	}

	inv, err := h.invoiceSvc.CreateFromBooking(ctx, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "booking not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeIssueFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.invoiceSvc.(*services.InvoiceService); okSvc && svc.DB != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, bookingID, idemKey, inv.ID, http.StatusCreated, ttl)
		}
	}

	ok(c, http.StatusCreated, inv)
}

// GetInvoice godoc
// @ID          getInvoice
// @Summary     Fetch an invoice
// @Description Returns a single invoice.
// @Tags        Invoices
// @Produce     json
//
// @Param       id  path  string  true  "Invoice ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Invoice
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Invoice not found"
// @Router      /invoices/{id} [get]
func (h *Handlers) GetInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	if _, err := uuid.Parse(invoiceID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invoice id must be a UUID")
		return
	}

	inv, err := h.invoiceSvc.Get(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "invoice not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, inv)
}

// PayInvoice godoc
// @ID          payInvoice
// @Summary     Record payment on an invoice
// @Description Marks the invoice paid and accrues loyalty points for the paid total.
// @Description The payment always stands; `ledger_updated` reports whether the accrual succeeded.
// @Tags        Invoices
// @Produce     json
//
// @Param       id  path  string  true  "Invoice ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.InvoiceActionResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Invoice not found"
// @Router      /invoices/{id}/pay [post]
func (h *Handlers) PayInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	if _, err := uuid.Parse(invoiceID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invoice id must be a UUID")
		return
	}

	inv, ledgerOK, err := h.invoiceSvc.MarkPaid(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "invoice not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, InvoiceActionResponse{Invoice: inv, LedgerUpdated: ledgerOK})
}

// CancelInvoice godoc
// @ID          cancelInvoice
// @Summary     Cancel an invoice
// @Description Voids the invoice. A paid invoice also gets its loyalty accrual reversed;
// @Description `ledger_updated` reports whether that reversal succeeded.
// @Tags        Invoices
// @Produce     json
//
// @Param       id  path  string  true  "Invoice ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.InvoiceActionResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Invoice not found"
// @Failure     409  {object} handlers.ErrorResponse "Already cancelled"
// @Router      /invoices/{id}/cancel [post]
func (h *Handlers) CancelInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	if _, err := uuid.Parse(invoiceID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invoice id must be a UUID")
		return
	}

	inv, ledgerOK, err := h.invoiceSvc.Cancel(c.Request.Context(), invoiceID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvoiceNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "invoice not found")
		case errors.Is(err, services.ErrInvoiceNotCancellable):
			fail(c, http.StatusConflict, ErrCodeConflict, "invoice already cancelled")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, InvoiceActionResponse{Invoice: inv, LedgerUpdated: ledgerOK})
}

// idempotencyKeyFrom extracts an idempotency key if an upstream middleware has
// already validated/stashed it. The fallback behavior reads the
// "Idempotency-Key" header directly when no dedicated middleware exists.
func idempotencyKeyFrom(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}
