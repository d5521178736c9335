package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"      // autoriza solicitudes
	RoleSupply     = "Supply"     // suministro: gestión, despacho y entradas
	RoleDepartment = "Department" // crea solicitudes para su departamento
)

// IsValidRole indica si r es uno de los roles conocidos.
func IsValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupply, RoleDepartment:
		return true
	}
	return false
}

// User usuario del sistema.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	Role         string
	DepartmentID string // obligatorio para RoleDepartment
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
