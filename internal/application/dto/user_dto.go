package dto

import "time"

// AddUserRequest entrada para provisionar un usuario en una organización.
// La credencial inicial se genera en el servidor; no viaja en la petición.
type AddUserRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=org_admin manager member"`
}

// UserResponse salida de un usuario (sin credenciales).
type UserResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"is_admin"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios de una organización.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// AddUserResponse alta de usuario + resultado del despacho de notificaciones.
// El usuario ya está persistido aunque Notification reporte fallos (éxito parcial).
type AddUserResponse struct {
	User         UserResponse       `json:"user"`
	Notification NotificationResult `json:"notification"`
}

// DeleteTenantResponse resultado del borrado en cascada de una organización.
type DeleteTenantResponse struct {
	DeletedUsers int                 `json:"deleted_users"`
	Notification *NotificationResult `json:"notification,omitempty"`
}

// LoginRequest entrada para login de un operador de la consola.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
