package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterDealerRequest alta pública de un dealer con su usuario owner.
type RegisterDealerRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=120"`
	LegalName     string `json:"legal_name" validate:"omitempty,max=200"`
	TaxID         string `json:"tax_id" validate:"omitempty,max=40"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,max=40"`
	Address       string `json:"address" validate:"omitempty,max=300"`
	City          string `json:"city" validate:"omitempty,max=120"`
	OwnerName     string `json:"owner_name" validate:"required,min=1,max=200"`
	OwnerEmail    string `json:"owner_email" validate:"required,email"`
	OwnerPassword string `json:"owner_password" validate:"required,min=8,max=72"`
}

// RegisterDealerResponse dealer creado (pendiente de aprobación) y su owner.
type RegisterDealerResponse struct {
	Dealer DealerResponse `json:"dealer"`
	Owner  UserResponse   `json:"owner"`
}

// UpdateDealerSettingsRequest parche de ajustes de la tienda.
type UpdateDealerSettingsRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=120"`
	LegalName   *string          `json:"legal_name" validate:"omitempty,max=200"`
	TaxID       *string          `json:"tax_id" validate:"omitempty,max=40"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Email       *string          `json:"email" validate:"omitempty,email"`
	Phone       *string          `json:"phone" validate:"omitempty,max=40"`
	Address     *string          `json:"address" validate:"omitempty,max=300"`
	City        *string          `json:"city" validate:"omitempty,max=120"`
	LogoURL     *string          `json:"logo_url" validate:"omitempty,url"`
	BannerURL   *string          `json:"banner_url" validate:"omitempty,url"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Currency    *string          `json:"currency" validate:"omitempty,len=3"`
}

// DealerResponse salida de un dealer.
type DealerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	LegalName   string          `json:"legal_name,omitempty"`
	TaxID       string          `json:"tax_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	City        string          `json:"city,omitempty"`
	LogoURL     string          `json:"logo_url,omitempty"`
	BannerURL   string          `json:"banner_url,omitempty"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DealerListRequest filtros de administración de dealers.
type DealerListRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending active suspended rejected"`
	Search string `query:"search"`
}

// DealerListResponse lista paginada de dealers.
type DealerListResponse struct {
	Items []DealerResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// UpdateDealerStatusRequest aprobación / suspensión / rechazo.
type UpdateDealerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active suspended rejected"`
}

// StorefrontResponse vitrina pública del dealer.
type StorefrontResponse struct {
	Dealer   DealerResponse    `json:"dealer"`
	Products []ProductResponse `json:"products"`
}
