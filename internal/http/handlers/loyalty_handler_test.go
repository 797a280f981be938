package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/services"
)

func TestGetLoyaltyBalance_OK(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{}, stubInvoiceSvc{}, stubLoyaltySvc{
		balance: func(_ context.Context, clientID string) (*domain.LoyaltyCredit, error) {
			return &domain.LoyaltyCredit{ClientID: clientID, CurrentCredits: 270, TotalEarned: 370, TotalSpent: 100}, nil
		},
	})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodGet, "/clients/"+testUUID+"/loyalty", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got domain.LoyaltyCredit
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.CurrentCredits != 270 || got.TotalEarned != 370 || got.TotalSpent != 100 {
		t.Fatalf("balance = %+v", got)
	}
}

func TestGetLoyaltyBalance_BadID(t *testing.T) {
	r := newTestRouter(defaultHandlers())

	w := doJSON(t, r, http.MethodGet, "/clients/xyz/loyalty", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListLoyaltyTransactions_Pagination(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{}, stubInvoiceSvc{}, stubLoyaltySvc{
		transactions: func(_ context.Context, clientID string, page, pageSize int) ([]domain.LoyaltyTransaction, int64, error) {
			return []domain.LoyaltyTransaction{{ID: "t1", ClientID: clientID, Amount: 270, Type: "earned"}}, 21, nil
		},
	})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodGet, "/clients/"+testUUID+"/loyalty/transactions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res ListTransactionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(res.Transactions) != 1 || res.Pagination.Total != 21 || res.Pagination.TotalPages != 2 || !res.Pagination.HasNext {
		t.Fatalf("response = %+v", res)
	}
}

func TestRecalculateLoyalty_OK(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{}, stubInvoiceSvc{}, stubLoyaltySvc{
		recalculate: func(context.Context, string) (services.RecalcResult, error) {
			return services.RecalcResult{Earned: 300, Redeemed: 100, Current: 200}, nil
		},
	})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPost, "/clients/"+testUUID+"/loyalty/recalculate", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res services.RecalcResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Earned != 300 || res.Redeemed != 100 || res.Current != 200 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRedeemLoyalty_NoContent(t *testing.T) {
	called := false
	h := New(stubClientSvc{}, stubQuoteSvc{}, stubInvoiceSvc{}, stubLoyaltySvc{
		redeem: func(_ context.Context, clientID string, amount float64, desc string) error {
			called = true
			if amount != 100 || desc != "Sleva" {
				t.Fatalf("redeem args = %v %q", amount, desc)
			}
			return nil
		},
	})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPost, "/clients/"+testUUID+"/loyalty/redeem", `{"amount":100,"description":"Sleva"}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if !called {
		t.Fatalf("redeem not invoked")
	}
}

func TestRedeemLoyalty_InvalidPayload(t *testing.T) {
	r := newTestRouter(defaultHandlers())

	for _, body := range []string{`{}`, `{"amount":0}`, `{"amount":-5}`, `{bad`} {
		w := doJSON(t, r, http.MethodPost, "/clients/"+testUUID+"/loyalty/redeem", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", body, w.Code)
		}
	}
}

func TestRedeemLoyalty_InsufficientCreditsMapsTo409(t *testing.T) {
	h := New(stubClientSvc{}, stubQuoteSvc{}, stubInvoiceSvc{}, stubLoyaltySvc{
		redeem: func(context.Context, string, float64, string) error {
			return services.ErrInsufficientCredits
		},
	})
	r := newTestRouter(h)

	w := doJSON(t, r, http.MethodPost, "/clients/"+testUUID+"/loyalty/redeem", `{"amount":9999}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	var body ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != ErrCodeInsufficientCredits {
		t.Fatalf("code = %q", body.Code)
	}
}
