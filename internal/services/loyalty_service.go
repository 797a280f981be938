// Package services – LoyaltyService
//
// This file implements LoyaltyService, the component that owns the loyalty
// ledger: point accrual on paid invoices (including the first-invoice
// referral bonus), reversal when a billed booking is cancelled, balance
// reconciliation from the transaction log, and credit redemption.
//
// The loyalty_transactions log is the source of truth; loyalty_credits rows
// are derived balances. Every mutating method runs inside a single database
// transaction so the log and the balances can never drift apart mid-flight.
//
// Observability: public methods are OpenTelemetry-instrumented, and ledger
// writes are counted by a Prometheus counter partitioned by entry type.
package services

import (
	"context"
	"errors"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/repo"
)

// defaultPointsRate is the accrual rate in points per CZK of invoice total.
const defaultPointsRate = 0.27

var loyaltyTxTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "loyalty_transactions_total",
		Help: "Total loyalty ledger entries written, by entry type.",
	},
	[]string{"type"},
)

func init() {
	prometheus.MustRegister(loyaltyTxTotal)
}

// czech renders amounts the way Czech invoices and statements do
// (thousands separated, e.g. "12 500").
var czech = message.NewPrinter(language.Czech)

// LoyaltyService implements the use-cases around loyalty credits.
type LoyaltyService struct {
	// DB is the database handle used for all ledger operations.
	DB *gorm.DB

	// Rate is the accrual rate in points per CZK. Zero or negative values
	// fall back to the default of 0.27.
	Rate float64
}

// NewLoyaltyService returns a LoyaltyService with the default accrual rate.
func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	return &LoyaltyService{DB: db, Rate: defaultPointsRate}
}

func (s *LoyaltyService) rate() float64 {
	if s.Rate > 0 {
		return s.Rate
	}
	return defaultPointsRate
}

// RecalcResult carries the totals derived from a client's transaction log.
// Current is earned minus redeemed and may be negative when the log itself
// is inconsistent; the stored balance is clamped at zero, the report is not.
type RecalcResult struct {
	Earned   float64 `json:"earned"`
	Redeemed float64 `json:"redeemed"`
	Current  float64 `json:"current"`
}

// Accrue awards loyalty points for a paid invoice.
//
// Semantics:
//   - Points are round(invoiceTotal × rate). Non-positive results are a
//     silent no-op: nothing is written and (0, nil) is returned.
//   - bookingID, when present, is the idempotency key: a second accrual for
//     the same (client, booking) pair is a no-op.
//   - First-invoice referral bonus: when the client has never spent anything
//     (TotalSpent == 0) and was referred, the client's award is doubled and
//     the referrer receives the single (undoubled) amount. The referrer is
//     only rewarded if they already hold a credit balance row.
//   - The client's lifetime spend is increased by invoiceTotal.
//
// Returns the number of points credited to the client (after any doubling).
//
// Concurrency & atomicity: the duplicate check, both balance updates, the
// spend update and the ledger inserts run in one database transaction.
func (s *LoyaltyService) Accrue(ctx context.Context, clientID string, invoiceTotal float64, bookingID *string) (float64, error) {
	tr := otel.Tracer("services/LoyaltyService")
	ctx, span := tr.Start(ctx, "Accrue",
		trace.WithAttributes(
			attribute.String("client.id", clientID),
			attribute.Float64("invoice.total", invoiceTotal),
		),
	)
	defer span.End()

	points := math.Round(invoiceTotal * s.rate())
	if points <= 0 {
		return 0, nil
	}

	var awarded float64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Idempotency: skip if this booking already earned points.
		if bookingID != nil {
			existing, err := repo.ListEarnedByBooking(ctx, tx, clientID, *bookingID)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return nil
			}
		}

		// 2) Load the client for the referral decision.
		client, err := repo.GetClient(ctx, tx, clientID)
		if err != nil {
			if isNotFound(err) {
				return ErrClientNotFound
			}
			return err
		}

		isFirstInvoice := client.TotalSpent == 0
		finalPoints := points

		// 3) Referral bonus: double the referee, reward the referrer once.
		if isFirstInvoice && client.ReferredByID != nil {
			finalPoints = points * 2

			referrerCredits, err := repo.GetCredits(ctx, tx, *client.ReferredByID)
			if err != nil {
				return err
			}
			if referrerCredits != nil {
				if err := repo.UpsertCredits(ctx, tx, *client.ReferredByID,
					referrerCredits.CurrentCredits+points,
					referrerCredits.TotalEarned+points,
					referrerCredits.TotalSpent,
				); err != nil {
					return err
				}
				desc := czech.Sprintf("Referral Bonus (1. úklid od %s)", client.Name)
				if _, err := repo.InsertTransaction(ctx, tx, *client.ReferredByID, points,
					domain.LoyaltyTxEarned, desc, bookingID); err != nil {
					return err
				}
				loyaltyTxTotal.WithLabelValues(domain.LoyaltyTxEarned).Inc()
			}
		}

		// 4) Credit the client.
		credits, err := repo.GetCredits(ctx, tx, clientID)
		if err != nil {
			return err
		}
		current, earned, spent := finalPoints, finalPoints, 0.0
		if credits != nil {
			current = credits.CurrentCredits + finalPoints
			earned = credits.TotalEarned + finalPoints
			spent = credits.TotalSpent
		}
		if err := repo.UpsertCredits(ctx, tx, clientID, current, earned, spent); err != nil {
			return err
		}

		// 5) Bump lifetime spend.
		if err := repo.UpdateClientTotalSpent(ctx, tx, clientID, client.TotalSpent+invoiceTotal); err != nil {
			return err
		}

		// 6) Record the ledger entry.
		var desc string
		if finalPoints > points {
			desc = czech.Sprintf("Bonus za první úklid (Doporučení) - %v Kč", number.Decimal(invoiceTotal))
		} else {
			desc = czech.Sprintf("Body za úklid (%v Kč)", number.Decimal(invoiceTotal))
		}
		if _, err := repo.InsertTransaction(ctx, tx, clientID, finalPoints,
			domain.LoyaltyTxEarned, desc, bookingID); err != nil {
			return err
		}
		loyaltyTxTotal.WithLabelValues(domain.LoyaltyTxEarned).Inc()

		awarded = finalPoints
		return nil
	})
	if err != nil {
		return 0, err
	}
	return awarded, nil
}

// Reverse undoes a prior accrual for a booking, e.g. when a paid invoice is
// cancelled.
//
// Semantics:
//   - A nil bookingID is a no-op: without the key there is nothing to match.
//   - Only the client's own earned entries for the booking are reversed;
//     a referrer bonus issued against the same booking is left untouched.
//   - Balance and lifetime-spend decrements floor at zero rather than going
//     negative.
//   - The matched ledger entries are deleted, restoring the no-accrual state
//     so a later re-accrual for the same booking passes the duplicate check.
//
// Returns the number of points removed from the client's balance.
func (s *LoyaltyService) Reverse(ctx context.Context, clientID string, invoiceTotal float64, bookingID *string) (float64, error) {
	tr := otel.Tracer("services/LoyaltyService")
	ctx, span := tr.Start(ctx, "Reverse",
		trace.WithAttributes(attribute.String("client.id", clientID)),
	)
	defer span.End()

	if bookingID == nil {
		return 0, nil
	}

	var reversed float64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txs, err := repo.ListEarnedByBooking(ctx, tx, clientID, *bookingID)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			return nil
		}

		total := 0.0
		ids := make([]string, 0, len(txs))
		for _, t := range txs {
			total += t.Amount
			ids = append(ids, t.ID)
		}

		credits, err := repo.GetCredits(ctx, tx, clientID)
		if err != nil {
			return err
		}
		if credits != nil {
			if err := repo.UpsertCredits(ctx, tx, clientID,
				math.Max(0, credits.CurrentCredits-total),
				math.Max(0, credits.TotalEarned-total),
				credits.TotalSpent,
			); err != nil {
				return err
			}
		}

		client, err := repo.GetClient(ctx, tx, clientID)
		if err != nil {
			if isNotFound(err) {
				return ErrClientNotFound
			}
			return err
		}
		if err := repo.UpdateClientTotalSpent(ctx, tx, clientID,
			math.Max(0, client.TotalSpent-invoiceTotal)); err != nil {
			return err
		}

		if err := repo.DeleteTransactions(ctx, tx, ids); err != nil {
			return err
		}

		reversed = total
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reversed, nil
}

// Recalculate re-derives a client's balances from the full transaction log
// and syncs the loyalty_credits row. It is the repair path for balances that
// drifted (e.g. after manual data fixes).
//
// The stored current balance is clamped at zero; the returned report carries
// the raw earned−redeemed figure so callers can see the inconsistency.
func (s *LoyaltyService) Recalculate(ctx context.Context, clientID string) (RecalcResult, error) {
	tr := otel.Tracer("services/LoyaltyService")
	ctx, span := tr.Start(ctx, "Recalculate",
		trace.WithAttributes(attribute.String("client.id", clientID)),
	)
	defer span.End()

	var res RecalcResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txs, err := repo.ListTransactions(ctx, tx, clientID)
		if err != nil {
			return err
		}

		var earned, redeemed float64
		for _, t := range txs {
			switch t.Type {
			case domain.LoyaltyTxEarned:
				earned += t.Amount
			case domain.LoyaltyTxRedeemed:
				redeemed += t.Amount
			}
		}
		current := earned - redeemed

		if err := repo.UpsertCredits(ctx, tx, clientID,
			math.Max(0, current), earned, redeemed); err != nil {
			return err
		}

		res = RecalcResult{Earned: earned, Redeemed: redeemed, Current: current}
		return nil
	})
	if err != nil {
		return RecalcResult{}, err
	}
	return res, nil
}

// Redeem spends points from a client's balance.
//
// Semantics:
//   - amount must be positive; otherwise ErrInvalidRedemption.
//   - The client must hold at least amount points; otherwise
//     ErrInsufficientCredits. A client with no balance row has zero points.
//   - A redeemed ledger entry is written alongside the balance decrement.
func (s *LoyaltyService) Redeem(ctx context.Context, clientID string, amount float64, description string) error {
	tr := otel.Tracer("services/LoyaltyService")
	ctx, span := tr.Start(ctx, "Redeem",
		trace.WithAttributes(
			attribute.String("client.id", clientID),
			attribute.Float64("amount", amount),
		),
	)
	defer span.End()

	if amount <= 0 {
		return ErrInvalidRedemption
	}
	if description == "" {
		description = czech.Sprintf("Čerpání bodů (%v b)", number.Decimal(amount))
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		credits, err := repo.GetCredits(ctx, tx, clientID)
		if err != nil {
			return err
		}
		if credits == nil || credits.CurrentCredits < amount {
			return ErrInsufficientCredits
		}

		if err := repo.UpsertCredits(ctx, tx, clientID,
			credits.CurrentCredits-amount,
			credits.TotalEarned,
			credits.TotalSpent+amount,
		); err != nil {
			return err
		}

		if _, err := repo.InsertTransaction(ctx, tx, clientID, amount,
			domain.LoyaltyTxRedeemed, description, nil); err != nil {
			return err
		}
		loyaltyTxTotal.WithLabelValues(domain.LoyaltyTxRedeemed).Inc()
		return nil
	})
}

// Balance returns the client's current credit row, or a zero-valued row when
// the client has no loyalty history yet.
func (s *LoyaltyService) Balance(ctx context.Context, clientID string) (*domain.LoyaltyCredit, error) {
	credits, err := repo.GetCredits(ctx, s.DB, clientID)
	if err != nil {
		return nil, err
	}
	if credits == nil {
		return &domain.LoyaltyCredit{ClientID: clientID}, nil
	}
	return credits, nil
}

// Transactions returns a page of the client's ledger, newest first, plus the
// total entry count.
func (s *LoyaltyService) Transactions(ctx context.Context, clientID string, page, pageSize int) ([]domain.LoyaltyTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountTransactions(ctx, s.DB, clientID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.LoyaltyTransaction{}, 0, nil
	}
	items, err := repo.ListTransactionsPage(ctx, s.DB, clientID, offset, pageSize)
	return items, total, err
}

// isNotFound reports whether err is the repo-level not-found sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
