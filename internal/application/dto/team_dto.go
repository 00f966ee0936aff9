package dto

// PermissionResponse entrada del catálogo de permisos.
type PermissionResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// TeamMemberResponse miembro del equipo con sus permisos.
type TeamMemberResponse struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// InviteMemberRequest alta de personal del dealer.
type InviteMemberRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Role        string   `json:"role" validate:"required,oneof=manager cashier technician"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	Permissions []string `json:"permissions"`
}

// SetPermissionsRequest lista completa de permisos deseados (toggles).
type SetPermissionsRequest struct {
	Codes []string `json:"codes" validate:"dive,required"`
}

// SetPermissionsResponse resultado de la sincronización.
type SetPermissionsResponse struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Current []string `json:"current"`
}
