package entity

import "time"

// Department departamento de la institución que solicita suministros.
type Department struct {
	ID        string
	Code      string // único sin distinguir mayúsculas
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
