package dto

import "time"

// RequestItemInput línea pedida por el departamento.
type RequestItemInput struct {
	ArticleID string `json:"articulo_id" validate:"required,uuid"`
	Quantity  int    `json:"cantidad" validate:"gt=0"`
}

// CreateRequestRequest entrada para crear una solicitud.
type CreateRequestRequest struct {
	DepartmentID string             `json:"departamento_id" validate:"required,uuid"`
	Items        []RequestItemInput `json:"articulos" validate:"required,min=1,dive"`
}

// AssignedItemInput cantidad asignada por suministro a una línea. 0 descarta la línea.
type AssignedItemInput struct {
	ArticleID string `json:"articulo_id" validate:"required,uuid"`
	Quantity  int    `json:"cantidad" validate:"min=0"`
}

// AssignQuantitiesRequest entrada para pasar una solicitud aprobada a gestión.
type AssignQuantitiesRequest struct {
	Items []AssignedItemInput `json:"articulos" validate:"required,min=1,dive"`
}

// RejectRequest motivo opcional del rechazo.
type RejectRequest struct {
	Reason string `json:"motivo" validate:"max=500"`
}

// BatchRequest ids para aprobar o rechazar en lote.
type BatchRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Reason string   `json:"motivo" validate:"max=500"`
}

// RequestItemResponse línea de solicitud.
type RequestItemResponse struct {
	ArticleID   string `json:"articulo_id"`
	Code        string `json:"codigo"`
	Description string `json:"descripcion"`
	Unit        string `json:"unidad,omitempty"`
	Quantity    int    `json:"cantidad"`
	Requested   int    `json:"cantidad_solicitada"`
}

// RequestResponse salida de una solicitud.
type RequestResponse struct {
	ID              string                `json:"id"`
	Number          int64                 `json:"numero"`
	Date            time.Time             `json:"fecha"`
	DepartmentID    string                `json:"departamento_id"`
	DepartmentName  string                `json:"departamento"`
	Items           []RequestItemResponse `json:"articulos"`
	Status          string                `json:"estado"`
	CreatedBy       string                `json:"creado_por"`
	DispatchedBy    string                `json:"despachado_por,omitempty"`
	DispatchedAt    *time.Time            `json:"despachado_en,omitempty"`
	RejectionReason string                `json:"motivo_rechazo,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// StatusChangeResponse entrada del historial de una solicitud.
type StatusChangeResponse struct {
	From  string                `json:"estado_anterior,omitempty"`
	To    string                `json:"estado_nuevo"`
	Actor string                `json:"usuario"`
	Note  string                `json:"nota,omitempty"`
	Items []RequestItemResponse `json:"articulos"`
	At    time.Time             `json:"fecha"`
}

// BatchResult resultado por id de una operación en lote.
type BatchResult struct {
	ID     string `json:"id"`
	OK     bool   `json:"ok"`
	Status string `json:"estado,omitempty"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResponse resumen de una operación en lote (sin atomicidad entre ids).
type BatchResponse struct {
	Results   []BatchResult `json:"resultados"`
	Succeeded int           `json:"exitosas"`
	Failed    int           `json:"fallidas"`
}
