package entity

import "time"

// RequestStatus estado de una solicitud en su ciclo de vida.
type RequestStatus string

const (
	StatusPending         RequestStatus = "Pendiente"
	StatusInAuthorization RequestStatus = "En Autorización"
	StatusApproved        RequestStatus = "Aprobada"
	StatusRejected        RequestStatus = "Rechazada"
	StatusInManagement    RequestStatus = "En Gestión"
	StatusDispatched      RequestStatus = "Despachada"
)

// RequestStatuses todos los estados en orden del flujo.
var RequestStatuses = []RequestStatus{
	StatusPending, StatusInAuthorization, StatusApproved,
	StatusRejected, StatusInManagement, StatusDispatched,
}

// ParseRequestStatus valida un estado recibido como texto.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	for _, st := range RequestStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// RequestItem línea de una solicitud.
// Requested es la cantidad pedida originalmente; Quantity la vigente (asignada tras gestión).
type RequestItem struct {
	ArticleID string
	Quantity  int
	Requested int

	// Datos del artículo para presentación; se llenan al leer.
	ArticleCode        string
	ArticleDescription string
	Unit               string
}

// Request solicitud de suministros de un departamento.
// Conserva su ID durante todo el ciclo; el estado es una columna.
type Request struct {
	ID              string
	Number          int64
	Date            time.Time
	DepartmentID    string
	DepartmentName  string
	Items           []RequestItem
	Status          RequestStatus
	CreatedBy       string
	CreatedByID     string
	DispatchedBy    string
	DispatchedAt    *time.Time
	RejectionReason string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemFor devuelve la línea del artículo, si existe.
func (r *Request) ItemFor(articleID string) (RequestItem, bool) {
	for _, it := range r.Items {
		if it.ArticleID == articleID {
			return it, true
		}
	}
	return RequestItem{}, false
}

// StatusChange registro de auditoría de una transición.
// From vacío indica la creación.
type StatusChange struct {
	ID        string
	RequestID string
	From      RequestStatus
	To        RequestStatus
	Actor     string
	Note      string
	Items     []RequestItem
	At        time.Time
}

// RequestFilter filtros para listar solicitudes.
type RequestFilter struct {
	Status       RequestStatus
	DepartmentID string
}

// MonthlyCount cantidad de solicitudes creadas en un mes (YYYY-MM).
type MonthlyCount struct {
	Month string
	Count int
}
