// Package domain defines the persistence models for clients, bookings,
// invoices, and the loyalty ledger. These types are mapped with GORM and
// form the core data layer of the booking application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Service type identifiers stored on bookings and used to select the
// matching price calculator.
const (
	ServiceHomeCleaning       = "home_cleaning"
	ServiceCommercialCleaning = "commercial_cleaning"
	ServiceWindowCleaning     = "window_cleaning"
	ServiceUpholsteryCleaning = "upholstery_cleaning"
)

// Booking lifecycle statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Invoice lifecycle statuses.
const (
	InvoiceStatusIssued    = "issued"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Loyalty transaction types. The ledger is append-only: rows are inserted by
// accrual and redemption, and deleted only when an accrual is reversed.
const (
	LoyaltyTxEarned   = "earned"
	LoyaltyTxRedeemed = "redeemed"
)

// Client represents a customer of the cleaning business. TotalSpent is the
// lifetime sum of paid invoice totals and doubles as the "first paid
// invoice" signal for the referral bonus (TotalSpent == 0 at accrual time).
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name / Email: contact details.
//   - ReferredByID: optional UUID of the client who referred this one.
//   - TotalSpent: lifetime paid total in CZK; maintained by the loyalty ledger.
type Client struct {
	ID           string         `json:"id"             gorm:"type:char(36);primaryKey"`
	Name         string         `json:"name"           gorm:"type:varchar(255);not null"`
	Email        string         `json:"email"          gorm:"type:varchar(255);index"`
	ReferredByID *string        `json:"referred_by_id,omitempty" gorm:"type:char(36);index"`
	TotalSpent   float64        `json:"total_spent"    gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for Client.
func (Client) TableName() string { return "clients" }

// Booking represents a scheduled cleaning job. The quote snapshot computed
// at creation time is stored denormalized on the row and becomes immutable
// once an invoice has been issued for the booking.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - ClientID: foreign key to the owning client (indexed).
//   - ServiceType: one of the Service* constants.
//   - Status: one of the BookingStatus* constants.
//   - HoursMin..DiscountPercent: the quoted estimate (see pricing.Estimate).
//   - InvoiceID: set when an invoice is issued; locks the quote.
type Booking struct {
	ID          string `json:"id"           gorm:"type:char(36);primaryKey"`
	ClientID    string `json:"client_id"    gorm:"type:char(36);not null;index:idx_client_bookings"`
	ServiceType string `json:"service_type" gorm:"type:varchar(32);not null"`
	Status      string `json:"status"       gorm:"type:varchar(16);not null;default:'pending'"`

	// Quote snapshot, persisted at booking time.
	HoursMin        float64 `json:"hours_min"        gorm:"not null;default:0"`
	HoursMax        float64 `json:"hours_max"        gorm:"not null;default:0"`
	PriceMin        float64 `json:"price_min"        gorm:"not null;default:0"`
	PriceMax        float64 `json:"price_max"        gorm:"not null;default:0"`
	DiscountPercent float64 `json:"discount_percent" gorm:"not null;default:0"`

	InvoiceID *string        `json:"invoice_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Client is the booking owner. Bookings are cascade-deleted if the
	// client is removed.
	Client Client `json:"-" gorm:"foreignKey:ClientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }

// Invoice is the billing document issued for a booking. Totals are fixed at
// issuance; the paid Total seeds the loyalty accrual.
type Invoice struct {
	ID            string     `json:"id"             gorm:"type:char(36);primaryKey"`
	InvoiceNumber string     `json:"invoice_number" gorm:"type:varchar(16);not null;uniqueIndex"`
	ClientID      string     `json:"client_id"      gorm:"type:char(36);not null;index"`
	BookingID     string     `json:"booking_id"     gorm:"type:char(36);not null;index"`
	Subtotal      float64    `json:"subtotal"       gorm:"not null;default:0"`
	VATRate       float64    `json:"vat_rate"       gorm:"not null;default:0"`
	VATAmount     float64    `json:"vat_amount"     gorm:"not null;default:0"`
	Total         float64    `json:"total"          gorm:"not null;default:0"`
	Status        string     `json:"status"         gorm:"type:varchar(16);not null;default:'issued'"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Invoice.
func (Invoice) TableName() string { return "invoices" }

// LoyaltyCredit is the per-client balance row (zero or one per client).
//
// Invariant: CurrentCredits = TotalEarned − TotalSpent. Incremental writes
// may drift from it on partial failure; Recalculate restores it from the
// transaction log. CurrentCredits never goes below zero.
type LoyaltyCredit struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ClientID       string    `json:"client_id"       gorm:"type:char(36);not null;uniqueIndex"`
	CurrentCredits float64   `json:"current_credits" gorm:"not null;default:0"`
	TotalEarned    float64   `json:"total_earned"    gorm:"not null;default:0"`
	TotalSpent     float64   `json:"total_spent"     gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for LoyaltyCredit.
func (LoyaltyCredit) TableName() string { return "loyalty_credits" }

// LoyaltyTransaction is one append-only ledger entry. For a given
// (client_id, related_job_id, type=earned) at most one row may exist; that
// tuple is the idempotency key guarding duplicate accrual on retries.
type LoyaltyTransaction struct {
	ID           string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ClientID     string    `json:"client_id"   gorm:"type:char(36);not null;index:idx_client_txs,priority:1"`
	Amount       float64   `json:"amount"      gorm:"not null"`
	Type         string    `json:"type"        gorm:"type:varchar(16);not null;check:type IN ('earned','redeemed')"`
	Description  string    `json:"description" gorm:"type:varchar(255);not null"`
	RelatedJobID *string   `json:"related_job_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt    time.Time `json:"created_at"  gorm:"index:idx_client_txs,priority:2"`
}

// TableName returns the database table name for LoyaltyTransaction.
func (LoyaltyTransaction) TableName() string { return "loyalty_transactions" }
