package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "superadmin" // plataforma
	RoleOwner      = "owner"      // dueño del dealer
	RoleManager    = "manager"
	RoleCashier    = "cashier"
	RoleTechnician = "technician"
	RoleCustomer   = "customer" // comprador del marketplace
)

// Estados de usuario.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema. DealerID vacío para superadmin y clientes.
type User struct {
	ID           string
	DealerID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Phone        string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsDealerStaff informa si el usuario pertenece al equipo de un dealer.
func (u *User) IsDealerStaff() bool {
	return u != nil && u.DealerID != "" && IsStaffRole(u.Role)
}

// IsStaffRole roles que operan dentro de un dealer.
func IsStaffRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleCashier, RoleTechnician:
		return true
	}
	return false
}

// ValidRole informa si role es conocido.
func ValidRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleCustomer || IsStaffRole(role)
}
