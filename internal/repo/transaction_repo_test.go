package repo

import (
	"context"
	"testing"

	"github.com/drclean/go-booking-backend/internal/domain"
)

func strptr(s string) *string { return &s }

func TestInsertTransaction_And_ListEarnedByBooking(t *testing.T) {
	db := newTestDB(t, &domain.LoyaltyTransaction{})
	ctx := context.Background()

	if _, err := InsertTransaction(ctx, db, "c1", 270, domain.LoyaltyTxEarned, "points", strptr("b1")); err != nil {
		t.Fatalf("insert earned: %v", err)
	}
	// Same booking, different client: must not match.
	if _, err := InsertTransaction(ctx, db, "c2", 100, domain.LoyaltyTxEarned, "points", strptr("b1")); err != nil {
		t.Fatalf("insert other client: %v", err)
	}
	// Same client+booking but redeemed: must not match either.
	if _, err := InsertTransaction(ctx, db, "c1", 50, domain.LoyaltyTxRedeemed, "reward", strptr("b1")); err != nil {
		t.Fatalf("insert redeemed: %v", err)
	}

	txs, err := ListEarnedByBooking(ctx, db, "c1", "b1")
	if err != nil {
		t.Fatalf("ListEarnedByBooking: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != 270 {
		t.Fatalf("unexpected matches: %+v", txs)
	}
}

func TestDeleteTransactions(t *testing.T) {
	db := newTestDB(t, &domain.LoyaltyTransaction{})
	ctx := context.Background()

	tx1, _ := InsertTransaction(ctx, db, "c1", 270, domain.LoyaltyTxEarned, "points", strptr("b1"))
	tx2, _ := InsertTransaction(ctx, db, "c1", 135, domain.LoyaltyTxEarned, "points", strptr("b2"))

	if err := DeleteTransactions(ctx, db, []string{tx1.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteTransactions(ctx, db, nil); err != nil {
		t.Fatalf("empty delete must be a no-op: %v", err)
	}

	all, err := ListTransactions(ctx, db, "c1")
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(all) != 1 || all[0].ID != tx2.ID {
		t.Fatalf("unexpected remaining entries: %+v", all)
	}
}

func TestListTransactionsPage_And_Count(t *testing.T) {
	db := newTestDB(t, &domain.LoyaltyTransaction{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := InsertTransaction(ctx, db, "c1", float64(i+1), domain.LoyaltyTxEarned, "points", nil); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	total, err := CountTransactions(ctx, db, "c1")
	if err != nil || total != 5 {
		t.Fatalf("CountTransactions = %d, %v; want 5", total, err)
	}

	page, err := ListTransactionsPage(ctx, db, "c1", 0, 2)
	if err != nil {
		t.Fatalf("ListTransactionsPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d; want 2", len(page))
	}
}
