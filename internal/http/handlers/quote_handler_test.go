package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/services"
)

// ---------- flexible service stubs (function fields override defaults) ----------

type stubClientSvc struct {
	create func(context.Context, string, string, *string) (*domain.Client, error)
	get    func(context.Context, string) (*domain.Client, error)
}

func (s stubClientSvc) Create(ctx context.Context, name, email string, ref *string) (*domain.Client, error) {
	if s.create != nil {
		return s.create(ctx, name, email, ref)
	}
	return &domain.Client{ID: "c1", Name: name, Email: email, ReferredByID: ref}, nil
}

func (s stubClientSvc) Get(ctx context.Context, id string) (*domain.Client, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Client{ID: id, Name: "n"}, nil
}

type stubQuoteSvc struct {
	estimate      func(services.QuoteRequest) (services.QuoteResult, error)
	createBooking func(context.Context, string, services.QuoteRequest) (*domain.Booking, services.QuoteResult, error)
	quoteBooking  func(context.Context, string, services.QuoteRequest) (services.QuoteResult, error)
	getBooking    func(context.Context, string) (*domain.Booking, error)
	listBookings  func(context.Context, string, int, int) ([]domain.Booking, int64, error)
}

func (s stubQuoteSvc) Estimate(req services.QuoteRequest) (services.QuoteResult, error) {
	if s.estimate != nil {
		return s.estimate(req)
	}
	return services.QuoteResult{ServiceType: req.ServiceType}, nil
}

func (s stubQuoteSvc) CreateBooking(ctx context.Context, clientID string, req services.QuoteRequest) (*domain.Booking, services.QuoteResult, error) {
	if s.createBooking != nil {
		return s.createBooking(ctx, clientID, req)
	}
	return &domain.Booking{ID: "b1", ClientID: clientID, ServiceType: req.ServiceType}, services.QuoteResult{ServiceType: req.ServiceType}, nil
}

func (s stubQuoteSvc) QuoteBooking(ctx context.Context, bookingID string, req services.QuoteRequest) (services.QuoteResult, error) {
	if s.quoteBooking != nil {
		return s.quoteBooking(ctx, bookingID, req)
	}
	return services.QuoteResult{ServiceType: req.ServiceType}, nil
}

func (s stubQuoteSvc) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if s.getBooking != nil {
		return s.getBooking(ctx, bookingID)
	}
	return &domain.Booking{ID: bookingID}, nil
}

func (s stubQuoteSvc) ListBookings(ctx context.Context, clientID string, page, pageSize int) ([]domain.Booking, int64, error) {
	if s.listBookings != nil {
		return s.listBookings(ctx, clientID, page, pageSize)
	}
	return nil, 0, nil
}

type stubInvoiceSvc struct {
	createFromBooking func(context.Context, string) (*domain.Invoice, error)
	markPaid          func(context.Context, string) (*domain.Invoice, bool, error)
	cancel            func(context.Context, string) (*domain.Invoice, bool, error)
	get               func(context.Context, string) (*domain.Invoice, error)
}

func (s stubInvoiceSvc) CreateFromBooking(ctx context.Context, bookingID string) (*domain.Invoice, error) {
	if s.createFromBooking != nil {
		return s.createFromBooking(ctx, bookingID)
	}
	return &domain.Invoice{ID: "inv1", BookingID: bookingID}, nil
}

func (s stubInvoiceSvc) MarkPaid(ctx context.Context, invoiceID string) (*domain.Invoice, bool, error) {
	if s.markPaid != nil {
		return s.markPaid(ctx, invoiceID)
	}
	return &domain.Invoice{ID: invoiceID, Status: "paid"}, true, nil
}

func (s stubInvoiceSvc) Cancel(ctx context.Context, invoiceID string) (*domain.Invoice, bool, error) {
	if s.cancel != nil {
		return s.cancel(ctx, invoiceID)
	}
	return &domain.Invoice{ID: invoiceID, Status: "cancelled"}, true, nil
}

func (s stubInvoiceSvc) Get(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	if s.get != nil {
		return s.get(ctx, invoiceID)
	}
	return &domain.Invoice{ID: invoiceID}, nil
}

type stubLoyaltySvc struct {
	balance      func(context.Context, string) (*domain.LoyaltyCredit, error)
	transactions func(context.Context, string, int, int) ([]domain.LoyaltyTransaction, int64, error)
	recalculate  func(context.Context, string) (services.RecalcResult, error)
	redeem       func(context.Context, string, float64, string) error
}

func (s stubLoyaltySvc) Balance(ctx context.Context, clientID string) (*domain.LoyaltyCredit, error) {
	if s.balance != nil {
		return s.balance(ctx, clientID)
	}
	return &domain.LoyaltyCredit{ClientID: clientID}, nil
}

func (s stubLoyaltySvc) Transactions(ctx context.Context, clientID string, page, pageSize int) ([]domain.LoyaltyTransaction, int64, error) {
	if s.transactions != nil {
		return s.transactions(ctx, clientID, page, pageSize)
	}
	return nil, 0, nil
}

func (s stubLoyaltySvc) Recalculate(ctx context.Context, clientID string) (services.RecalcResult, error) {
	if s.recalculate != nil {
		return s.recalculate(ctx, clientID)
	}
	return services.RecalcResult{}, nil
}

func (s stubLoyaltySvc) Redeem(ctx context.Context, clientID string, amount float64, desc string) error {
	if s.redeem != nil {
		return s.redeem(ctx, clientID, amount, desc)
	}
	return nil
}

// newTestRouter wires a Gin engine with the full route surface against the
// given handler set (no middleware, so responses are raw JSON).
func newTestRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/quotes", h.PostQuote)
	r.POST("/clients", h.CreateClient)
	r.GET("/clients/:id", h.GetClient)
	r.POST("/clients/:id/bookings", h.CreateBooking)
	r.GET("/clients/:id/bookings", h.ListBookings)
	r.GET("/bookings/:id", h.GetBooking)
	r.PUT("/bookings/:id/quote", h.RequoteBooking)
	r.POST("/bookings/:id/invoice", h.IssueInvoice)
	r.GET("/invoices/:id", h.GetInvoice)
	r.POST("/invoices/:id/pay", h.PayInvoice)
	r.POST("/invoices/:id/cancel", h.CancelInvoice)
	r.GET("/clients/:id/loyalty", h.GetLoyaltyBalance)
	r.GET("/clients/:id/loyalty/transactions", h.ListLoyaltyTransactions)
	r.POST("/clients/:id/loyalty/recalculate", h.RecalculateLoyalty)
	r.POST("/clients/:id/loyalty/redeem", h.RedeemLoyalty)
	return r
}

func defaultHandlers() *Handlers {
	return New(stubClientSvc{}, stubQuoteSvc{}, stubInvoiceSvc{}, stubLoyaltySvc{})
}

const testUUID = "123e4567-e89b-12d3-a456-426614174000"

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body == "" {
		buf = bytes.NewBuffer(nil)
	} else {
		buf = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---------- PostQuote ----------

func TestPostQuote_OK(t *testing.T) {
	r := newTestRouter(defaultHandlers())

	w := doJSON(t, r, http.MethodPost, "/quotes", `{"service_type":"home_cleaning","household":{"area_m2":60,"bathrooms":1,"kitchens":1,"soiling":"low","frequency":"one_time"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var res services.QuoteResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.ServiceType != "home_cleaning" {
		t.Fatalf("service type = %q", res.ServiceType)
	}
}

func TestPostQuote_InvalidJSON(t *testing.T) {
	r := newTestRouter(defaultHandlers())

	w := doJSON(t, r, http.MethodPost, "/quotes", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPostQuote_ValidationErrorsMapTo400(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"unknown service", services.ErrUnknownService},
		{"missing input", services.ErrMissingQuoteInput},
		{"invalid input", services.ErrInvalidQuoteInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(stubClientSvc{}, stubQuoteSvc{
				estimate: func(services.QuoteRequest) (services.QuoteResult, error) {
					return services.QuoteResult{}, tc.err
				},
			}, stubInvoiceSvc{}, stubLoyaltySvc{})
			r := newTestRouter(h)

			w := doJSON(t, r, http.MethodPost, "/quotes", `{"service_type":"x"}`)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			var body ErrorResponse
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body.Code != ErrCodeBadRequest {
				t.Fatalf("code = %q", body.Code)
			}
		})
	}
}

// ---------- CreateBooking ----------

func TestCreateBooking_Created(t *testing.T) {
	r := newTestRouter(defaultHandlers())

	w := doJSON(t, r, http.MethodPost, "/clients/"+testUUID+"/bookings", `{"service_type":"home_cleaning","household":{"area_m2":50,"bathrooms":1,"kitchens":1,"soiling":"low","frequency":"one_time"}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var res CreateBookingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Booking == nil || res.Booking.ClientID != testUUID {
		t.Fatalf("booking = %+v", res.Booking)
	}
}

func TestCreateBooking_BadClientID(t *testing.T) {
	r := newTestRouter(defaultHandlers())

	w := doJSON(t, r, http.MethodPost, "/clients/not-a-uuid/bookings", `{"service_type":"home_cleaning"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCreateBooking_ClientNotFound(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{
		createBooking: func(context.Context, string, services.QuoteRequest) (*domain.Booking, services.QuoteResult, error) {
			return nil, services.QuoteResult{}, services.ErrClientNotFound
		},
	}, stubInvoiceSvc{}, stubLoyaltySvc{})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPost, "/clients/"+testUUID+"/bookings", `{"service_type":"home_cleaning"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

// ---------- GetBooking / RequoteBooking ----------

func TestGetBooking_NotFound(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{
		getBooking: func(context.Context, string) (*domain.Booking, error) {
			return nil, services.ErrBookingNotFound
		},
	}, stubInvoiceSvc{}, stubLoyaltySvc{})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodGet, "/bookings/"+testUUID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRequoteBooking_LockedMapsTo409(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{
		quoteBooking: func(context.Context, string, services.QuoteRequest) (services.QuoteResult, error) {
			return services.QuoteResult{}, services.ErrQuoteLocked
		},
	}, stubInvoiceSvc{}, stubLoyaltySvc{})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPut, "/bookings/"+testUUID+"/quote", `{"service_type":"home_cleaning"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	var body ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != ErrCodeQuoteLocked {
		t.Fatalf("code = %q", body.Code)
	}
}

// ---------- ListBookings ----------

func TestListBookings_PaginationMath(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{
		listBookings: func(_ context.Context, clientID string, page, pageSize int) ([]domain.Booking, int64, error) {
			if page != 2 || pageSize != 20 {
				t.Fatalf("page/pageSize = %d/%d", page, pageSize)
			}
			return []domain.Booking{{ID: "b1", ClientID: clientID}}, 45, nil
		},
	}, stubInvoiceSvc{}, stubLoyaltySvc{})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodGet, "/clients/"+testUUID+"/bookings?page=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res ListBookingsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := res.Pagination
	if p.Page != 2 || p.PageSize != 20 || p.Total != 45 || p.TotalPages != 3 || !p.HasNext {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestListBookings_ClampsPageSize(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{
		listBookings: func(_ context.Context, _ string, page, pageSize int) ([]domain.Booking, int64, error) {
			if page != 1 || pageSize != 100 {
				t.Fatalf("expected clamp to 1/100, got %d/%d", page, pageSize)
			}
			return nil, 0, nil
		},
	}, stubInvoiceSvc{}, stubLoyaltySvc{})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodGet, "/clients/"+testUUID+"/bookings?page=-3&page_size=9999", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
