package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest registro público de un cliente del marketplace.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	DealerID  string    `json:"dealer_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// UserListRequest filtros del registro de usuarios (superadmin).
type UserListRequest struct {
	PageRequest
	Role     string `query:"role" validate:"omitempty,oneof=superadmin owner manager cashier technician customer"`
	Status   string `query:"status" validate:"omitempty,oneof=active suspended"`
	DealerID string `query:"dealer_id" validate:"omitempty,uuid"`
	Search   string `query:"search"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UpdateRoleRequest cambio de rol.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=superadmin owner manager cashier technician customer"`
}

// UpdateUserStatusRequest suspensión / reactivación.
type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

// PortfolioResponse perfil del usuario con su actividad.
type PortfolioResponse struct {
	User         UserResponse    `json:"user"`
	OrderCount   int             `json:"order_count"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	RecentOrders []OrderResponse `json:"recent_orders"`
	Dealer       *DealerSnapshot `json:"dealer,omitempty"`
}

// DealerSnapshot resumen del dealer para el portafolio del personal.
type DealerSnapshot struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Status         string          `json:"status"`
	ActiveProducts int             `json:"active_products"`
	MonthSales     decimal.Decimal `json:"month_sales"`
}
