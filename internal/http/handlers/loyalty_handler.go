// Loyalty HTTP handlers.
//
// This file exposes REST endpoints for the loyalty ledger:
//   - GET  /clients/{id}/loyalty               (current balance)
//   - GET  /clients/{id}/loyalty/transactions  (ledger page, ETag support)
//   - POST /clients/{id}/loyalty/recalculate   (re-derive balance from the log)
//   - POST /clients/{id}/loyalty/redeem        (spend points)
//
// Accrual and reversal are not exposed directly: they happen as side effects
// of paying or cancelling an invoice (see invoice_handler.go).
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/repo"
	"github.com/drclean/go-booking-backend/internal/services"
)

//
// DTOs
//

// ListTransactionsResponse wraps a page of ledger entries and pagination
// information.
type ListTransactionsResponse struct {
	Transactions []domain.LoyaltyTransaction `json:"transactions"`
	Pagination   Pagination                  `json:"pagination"`
}

// RedeemRequest is the JSON payload for spending loyalty points.
type RedeemRequest struct {
	// Amount is the number of points to spend (must be positive).
	Amount float64 `json:"amount" binding:"required,gt=0" example:"100"`
	// Description optionally labels the ledger entry.
	Description string `json:"description" example:"Sleva na úklid"`
}

//
// Handlers
//

// GetLoyaltyBalance godoc
// @ID          getLoyaltyBalance
// @Summary     Fetch a client's loyalty balance
// @Description Returns the current credit balance and lifetime totals. Clients
// @Description with no loyalty history get a zero-valued balance.
// @Tags        Loyalty
// @Produce     json
//
// @Param       id  path  string  true  "Client ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.LoyaltyCredit
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clients/{id}/loyalty [get]
func (h *Handlers) GetLoyaltyBalance(c *gin.Context) {
	clientID := c.Param("id")
	if _, err := uuid.Parse(clientID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "client id must be a UUID")
		return
	}

	balance, err := h.loyaltySvc.Balance(c.Request.Context(), clientID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, balance)
}

// ListLoyaltyTransactions godoc
// @ID          listLoyaltyTransactions
// @Summary     List a client's loyalty ledger (paginated)
// @Description Returns a page of ledger entries, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Loyalty
// @Produce     json
//
// @Param       id             path    string  true  "Client ID (UUID)"            format(uuid)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListTransactionsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clients/{id}/loyalty/transactions [get]
func (h *Handlers) ListLoyaltyTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.Param("id")
	if _, err := uuid.Parse(clientID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "client id must be a UUID")
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.loyaltySvc.(*services.LoyaltyService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.TransactionsStats(ctx, db, clientID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"loyalty:%s:%d:%d"`, clientID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.loyaltySvc.Transactions(ctx, clientID, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListTransactionsResponse{
		Transactions: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// RecalculateLoyalty godoc
// @ID          recalculateLoyalty
// @Summary     Recalculate a client's loyalty balance
// @Description Re-derives the balance from the full transaction log and syncs
// @Description the stored credit row. Use as a repair for drifted balances.
// @Tags        Loyalty
// @Produce     json
//
// @Param       id  path  string  true  "Client ID (UUID)"  format(uuid)
//
// @Success     200  {object} services.RecalcResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clients/{id}/loyalty/recalculate [post]
func (h *Handlers) RecalculateLoyalty(c *gin.Context) {
	clientID := c.Param("id")
	if _, err := uuid.Parse(clientID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "client id must be a UUID")
		return
	}

	res, err := h.loyaltySvc.Recalculate(c.Request.Context(), clientID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, res)
}

// RedeemLoyalty godoc
// @ID          redeemLoyalty
// @Summary     Spend loyalty points
// @Description Deducts points from the client's balance and records a redeemed ledger entry.
// @Tags        Loyalty
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                  true  "Client ID (UUID)"  format(uuid)
// @Param       body  body  handlers.RedeemRequest  true  "Redemption payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Insufficient credits"
// @Router      /clients/{id}/loyalty/redeem [post]
func (h *Handlers) RedeemLoyalty(c *gin.Context) {
	clientID := c.Param("id")
	if _, err := uuid.Parse(clientID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "client id must be a UUID")
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "amount must be a positive number")
		return
	}

	if err := h.loyaltySvc.Redeem(c.Request.Context(), clientID, req.Amount, req.Description); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRedemption):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "amount must be a positive number")
		case errors.Is(err, services.ErrInsufficientCredits):
			fail(c, http.StatusConflict, ErrCodeInsufficientCredits, "insufficient loyalty credits")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}
