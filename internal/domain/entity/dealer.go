package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un dealer (tenant del marketplace).
const (
	DealerStatusPending   = "pending"
	DealerStatusActive    = "active"
	DealerStatusSuspended = "suspended"
	DealerStatusRejected  = "rejected"
)

// Dealer representa una tienda/taller que vende en el marketplace (multi-tenant).
type Dealer struct {
	ID          string
	Name        string
	Slug        string // único, usado en la URL pública de la tienda
	LegalName   string
	TaxID       string
	Description string
	Email       string
	Phone       string
	Address     string
	City        string
	LogoURL     string
	BannerURL   string
	TaxRate     decimal.Decimal // fracción, ej. 0.19
	Currency    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive informa si el dealer puede operar y aparecer en el marketplace.
func (d *Dealer) IsActive() bool { return d != nil && d.Status == DealerStatusActive }

// ValidDealerStatus informa si s es un estado conocido.
func ValidDealerStatus(s string) bool {
	switch s {
	case DealerStatusPending, DealerStatusActive, DealerStatusSuspended, DealerStatusRejected:
		return true
	}
	return false
}
