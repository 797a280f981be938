// Package services – ClientService
//
// This file implements ClientService, the thin lifecycle component for
// client records. Clients are created once and referenced by bookings,
// invoices, and the loyalty ledger; the heavier mutations of a client row
// (lifetime spend) belong to LoyaltyService.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/drclean/go-booking-backend/internal/domain"
	"github.com/drclean/go-booking-backend/internal/repo"
)

// ClientService implements the client lifecycle use-cases.
type ClientService struct {
	// DB is the database handle used for all client operations.
	DB *gorm.DB
}

// Create registers a new client. Name is required; a referral id, when
// given, must point at an existing client or the referral is rejected with
// ErrClientNotFound.
func (s *ClientService) Create(ctx context.Context, name, email string, referredByID *string) (*domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidClientName
	}

	if referredByID != nil {
		if _, err := repo.GetClient(ctx, s.DB, *referredByID); err != nil {
			if isNotFound(err) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}
	return repo.CreateClient(ctx, s.DB, name, strings.TrimSpace(email), referredByID)
}

// Get returns one client by id.
func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	c, err := repo.GetClient(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return c, nil
}
