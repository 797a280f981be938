// Quote and booking HTTP handlers.
//
// This file exposes REST endpoints for quotes and bookings:
//   - POST /quotes                       (stateless price estimate)
//   - POST /clients/{id}/bookings        (create booking with attached quote)
//   - GET  /clients/{id}/bookings        (list, paginated, ETag support)
//   - GET  /bookings/{id}                (fetch one booking)
//   - PUT  /bookings/{id}/quote          (recompute the quote snapshot)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/repo"
	"github.com/drclean/go-booking-backend/internal/services"
	"github.com/drclean/go-booking-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ClientService defines client lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ClientService interface {
	// Create registers a new client, optionally linked to a referrer.
	Create(ctx context.Context, name, email string, referredByID *string) (*domain.Client, error)
	// Get returns one client by id.
	Get(ctx context.Context, id string) (*domain.Client, error)
}

// QuoteService defines quote computation and booking operations.
type QuoteService interface {
	// Estimate computes a price estimate without touching any booking.
	Estimate(req services.QuoteRequest) (services.QuoteResult, error)
	// CreateBooking creates a booking and attaches the computed quote.
	CreateBooking(ctx context.Context, clientID string, req services.QuoteRequest) (*domain.Booking, services.QuoteResult, error)
	// QuoteBooking recomputes and persists the quote on an existing booking.
	QuoteBooking(ctx context.Context, bookingID string, req services.QuoteRequest) (services.QuoteResult, error)
	// GetBooking returns one booking by id.
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	// ListBookings returns a page of the client's bookings and the total count.
	ListBookings(ctx context.Context, clientID string, page, pageSize int) ([]domain.Booking, int64, error)
}

// InvoiceService defines billing operations.
type InvoiceService interface {
	// CreateFromBooking issues (or returns the existing) invoice for a booking.
	CreateFromBooking(ctx context.Context, bookingID string) (*domain.Invoice, error)
	// MarkPaid records payment; the bool reports whether loyalty accrual succeeded.
	MarkPaid(ctx context.Context, invoiceID string) (*domain.Invoice, bool, error)
	// Cancel voids an invoice; the bool reports whether loyalty reversal succeeded.
	Cancel(ctx context.Context, invoiceID string) (*domain.Invoice, bool, error)
	// Get returns one invoice by id.
	Get(ctx context.Context, invoiceID string) (*domain.Invoice, error)
}

// LoyaltyService defines loyalty ledger operations.
type LoyaltyService interface {
	// Balance returns the client's credit row (zero-valued when absent).
	Balance(ctx context.Context, clientID string) (*domain.LoyaltyCredit, error)
	// Transactions returns a page of the client's ledger and the total count.
	Transactions(ctx context.Context, clientID string, page, pageSize int) ([]domain.LoyaltyTransaction, int64, error)
	// Recalculate re-derives the balance from the transaction log.
	Recalculate(ctx context.Context, clientID string) (services.RecalcResult, error)
	// Redeem spends points from the client's balance.
	Redeem(ctx context.Context, clientID string, amount float64, description string) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for quotes, bookings, invoices, and loyalty.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	clientSvc  ClientService
	quoteSvc   QuoteService
	invoiceSvc InvoiceService
	loyaltySvc LoyaltyService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(clientSvc ClientService, quoteSvc QuoteService, invoiceSvc InvoiceService, loyaltySvc LoyaltyService) *Handlers {
	return &Handlers{clientSvc: clientSvc, quoteSvc: quoteSvc, invoiceSvc: invoiceSvc, loyaltySvc: loyaltySvc}
}

// userID extracts the authenticated operator id from Gin context (set by
// upstream middleware). If absent, it falls back to "X-User-ID" header (tests
// use it), and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// CreateBookingResponse wraps a new booking and the quote attached to it.
type CreateBookingResponse struct {
	Booking *domain.Booking      `json:"booking"`
	Quote   services.QuoteResult `json:"quote"`
}

// ListBookingsResponse wraps a page of bookings and pagination information.
type ListBookingsResponse struct {
	Bookings   []domain.Booking `json:"bookings"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// failQuoteError maps quote validation errors onto HTTP responses. Returns
// false when err was not a recognized quote error.
func failQuoteError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrUnknownService):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown service type")
	case errors.Is(err, services.ErrMissingQuoteInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "quote input missing for service type")
	case errors.Is(err, services.ErrInvalidQuoteInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "counts and areas must be >= 0")
	default:
		return false
	}
	return true
}

//
// Handlers
//

// PostQuote godoc
// @ID          postQuote
// @Summary     Compute a price estimate
// @Description Computes a price and duration estimate for a service without creating a booking.
// @Tags        Quotes
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.QuoteRequest  true  "Quote request payload"
//
// @Success     200  {object}  services.QuoteResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /quotes [post]
func (h *Handlers) PostQuote(c *gin.Context) {
	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.quoteSvc.Estimate(req)
	if err != nil {
		if !failQuoteError(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeQuoteFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, res)
}

// CreateBooking godoc
// @ID          createBooking
// @Summary     Create a booking with an attached quote
// @Description Creates a pending booking for the client and persists the computed quote snapshot.
// @Tags        Bookings
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                 true  "Client ID (UUID)"  format(uuid)
// @Param       body  body  services.QuoteRequest  true  "Quote request payload"
//
// @Success     201  {object}  handlers.CreateBookingResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Client not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /clients/{id}/bookings [post]
func (h *Handlers) CreateBooking(c *gin.Context) {
	clientID := c.Param("id")
	if _, err := uuid.Parse(clientID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "client id must be a UUID")
		return
	}

	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	booking, quote, err := h.quoteSvc.CreateBooking(c.Request.Context(), clientID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "client not found")
		case failQuoteError(c, err):
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, CreateBookingResponse{Booking: booking, Quote: quote})
}

// ListBookings godoc
// @ID          listBookings
// @Summary     List a client's bookings (paginated)
// @Description Returns a page of the client's bookings. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Bookings
// @Produce     json
//
// @Param       id             path    string  true  "Client ID (UUID)"            format(uuid)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListBookingsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clients/{id}/bookings [get]
func (h *Handlers) ListBookings(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.Param("id")
	if _, err := uuid.Parse(clientID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "client id must be a UUID")
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.quoteSvc.(*services.QuoteService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.BookingsStats(ctx, db, clientID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"bookings:%s:%d:%d"`, clientID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.quoteSvc.ListBookings(ctx, clientID, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListBookingsResponse{
		Bookings: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetBooking godoc
// @ID          getBooking
// @Summary     Fetch a booking
// @Description Returns a single booking with its quote snapshot.
// @Tags        Bookings
// @Produce     json
//
// @Param       id  path  string  true  "Booking ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Booking
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Booking not found"
// @Router      /bookings/{id} [get]
func (h *Handlers) GetBooking(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}

	b, err := h.quoteSvc.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "booking not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, b)
}

// RequoteBooking godoc
// @ID          requoteBooking
// @Summary     Recompute a booking's quote
// @Description Recomputes the estimate and replaces the stored quote snapshot. Fails once the booking has been invoiced.
// @Tags        Bookings
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                 true  "Booking ID (UUID)"  format(uuid)
// @Param       body  body  services.QuoteRequest  true  "Quote request payload"
//
// @Success     200  {object} services.QuoteResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Booking not found"
// @Failure     409  {object} handlers.ErrorResponse "Quote locked"
// @Router      /bookings/{id}/quote [put]
func (h *Handlers) RequoteBooking(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}

	var req services.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.quoteSvc.QuoteBooking(c.Request.Context(), bookingID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "booking not found")
		case errors.Is(err, services.ErrQuoteLocked):
			fail(c, http.StatusConflict, ErrCodeQuoteLocked, "booking already invoiced, quote is locked")
		case failQuoteError(c, err):
		default:
			fail(c, http.StatusInternalServerError, ErrCodeQuoteFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, res)
}
