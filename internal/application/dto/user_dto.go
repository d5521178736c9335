package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name         string `json:"nombre" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"rol" validate:"required,oneof=SuperAdmin Admin Supply Department"`
	DepartmentID string `json:"departamento_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest actualización parcial (sin password).
type UpdateUserRequest struct {
	Name         *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Role         *string `json:"rol" validate:"omitempty,oneof=SuperAdmin Admin Supply Department"`
	DepartmentID *string `json:"departamento_id" validate:"omitempty,uuid"`
}

// ChangePasswordRequest nueva contraseña.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	Role         string    `json:"rol"`
	DepartmentID string    `json:"departamento_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de sesión más el usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
