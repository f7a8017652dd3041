package entity

import "time"

// Roles válidos para User.
const (
	RoleOrgAdmin = "org_admin"
	RoleManager  = "manager"
	RoleMember   = "member"
)

// Estados válidos para User.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User representa un usuario provisionado dentro de un Tenant.
// El email es único a nivel global (todas las organizaciones), no por tenant.
type User struct {
	ID           string
	TenantID     string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string // bcrypt hash de la credencial inicial, nunca plano después de persistir
	Role         string // org_admin, manager, member
	IsAdmin      bool   // derivado: true si y solo si Role == org_admin
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DeriveIsAdmin recalcula IsAdmin a partir del rol. Se invoca en cada
// escritura para que el campo derivado nunca quede desincronizado.
func (u *User) DeriveIsAdmin() {
	u.IsAdmin = u.Role == RoleOrgAdmin
}

// ValidRole informa si el valor pertenece al enum cerrado de roles.
func ValidRole(s string) bool {
	switch s {
	case RoleOrgAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}
