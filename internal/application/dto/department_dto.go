package dto

import "time"

// CreateDepartmentRequest entrada para crear un departamento.
type CreateDepartmentRequest struct {
	Code string `json:"codigo" validate:"required,max=50"`
	Name string `json:"nombre" validate:"required,max=200"`
}

// UpdateDepartmentRequest actualización parcial.
type UpdateDepartmentRequest struct {
	Code *string `json:"codigo" validate:"omitempty,min=1,max=50"`
	Name *string `json:"nombre" validate:"omitempty,min=1,max=200"`
}

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"codigo"`
	Name      string    `json:"nombre"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
