package services

import (
	"context"
	"errors"
	"testing"
)

func TestClientService_Create(t *testing.T) {
	db := newTestDB(t)
	svc := &ClientService{DB: db}
	ctx := context.Background()

	c, err := svc.Create(ctx, "  Jana Nováková  ", "jana@example.com", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == "" || c.Name != "Jana Nováková" || c.Email != "jana@example.com" {
		t.Fatalf("client = %+v", c)
	}

	got, err := svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("Get returned %q, want %q", got.ID, c.ID)
	}
}

func TestClientService_Create_EmptyName(t *testing.T) {
	db := newTestDB(t)
	svc := &ClientService{DB: db}

	if _, err := svc.Create(context.Background(), "   ", "", nil); !errors.Is(err, ErrInvalidClientName) {
		t.Fatalf("expected ErrInvalidClientName, got %v", err)
	}
}

func TestClientService_Create_WithReferrer(t *testing.T) {
	db := newTestDB(t)
	svc := &ClientService{DB: db}
	ctx := context.Background()

	ref, err := svc.Create(ctx, "Referrer", "", nil)
	if err != nil {
		t.Fatalf("create referrer: %v", err)
	}

	c, err := svc.Create(ctx, "Referee", "", &ref.ID)
	if err != nil {
		t.Fatalf("create referee: %v", err)
	}
	if c.ReferredByID == nil || *c.ReferredByID != ref.ID {
		t.Fatalf("referred_by = %v, want %s", c.ReferredByID, ref.ID)
	}
}

func TestClientService_Create_UnknownReferrer(t *testing.T) {
	db := newTestDB(t)
	svc := &ClientService{DB: db}

	bogus := "00000000-0000-0000-0000-000000000000"
	if _, err := svc.Create(context.Background(), "A", "", &bogus); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientService_Get_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := &ClientService{DB: db}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}
