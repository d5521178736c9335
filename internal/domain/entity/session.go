package entity

// Session identidad del usuario que ejecuta una operación.
// Se construye desde el token y se pasa explícitamente a los casos de uso.
type Session struct {
	UserID       string
	Name         string
	Role         string
	DepartmentID string
}

// DepartmentScoped indica si la sesión solo puede operar sobre su propio departamento.
func (s Session) DepartmentScoped() bool {
	return s.Role == RoleDepartment
}

// HasRole indica si la sesión tiene alguno de los roles dados.
func (s Session) HasRole(roles ...string) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
