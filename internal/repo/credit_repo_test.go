package repo

import (
	"context"
	"testing"
	"time"

	"github.com/drclean/go-booking-backend/internal/domain"
)

func TestGetCredits_MissingRowIsNotAnError(t *testing.T) {
	db := newTestDB(t, &domain.LoyaltyCredit{})

	lc, err := GetCredits(context.Background(), db, "client-1")
	if err != nil {
		t.Fatalf("GetCredits: %v", err)
	}
	if lc != nil {
		t.Fatalf("expected nil row for unknown client, got %+v", lc)
	}
}

func TestUpsertCredits_CreateThenUpdate(t *testing.T) {
	db := newTestDB(t, &domain.LoyaltyCredit{})
	ctx := context.Background()
	start := time.Now().UTC()

	if err := UpsertCredits(ctx, db, "client-1", 270, 270, 0); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	lc, err := GetCredits(ctx, db, "client-1")
	if err != nil || lc == nil {
		t.Fatalf("load after create: %v, %+v", err, lc)
	}
	if lc.CurrentCredits != 270 || lc.TotalEarned != 270 || lc.TotalSpent != 0 {
		t.Fatalf("unexpected row after create: %+v", lc)
	}
	if lc.UpdatedAt.Before(start.Add(-time.Minute)) {
		t.Fatalf("UpdatedAt not refreshed: %v", lc.UpdatedAt)
	}

	if err := UpsertCredits(ctx, db, "client-1", 100, 400, 300); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	lc, _ = GetCredits(ctx, db, "client-1")
	if lc.CurrentCredits != 100 || lc.TotalEarned != 400 || lc.TotalSpent != 300 {
		t.Fatalf("unexpected row after update: %+v", lc)
	}

	// Still a single row per client.
	var count int64
	db.Model(&domain.LoyaltyCredit{}).Where("client_id = ?", "client-1").Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 balance row, got %d", count)
	}
}
