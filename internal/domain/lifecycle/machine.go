// Package lifecycle define la máquina de estados de las solicitudes de suministro.
//
//	Pendiente --enviar--> En Autorización --aprobar--> Aprobada --gestionar--> En Gestión --despachar--> Despachada
//	                                      --rechazar--> Rechazada
package lifecycle

import (
	"fmt"

	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
)

// Transition operación que mueve una solicitud de un estado al siguiente.
type Transition string

const (
	Submit   Transition = "submit"
	Approve  Transition = "approve"
	Reject   Transition = "reject"
	Assign   Transition = "assign"
	Dispatch Transition = "dispatch"
)

type edge struct {
	from entity.RequestStatus
	to   entity.RequestStatus
}

var edges = map[Transition]edge{
	Submit:   {entity.StatusPending, entity.StatusInAuthorization},
	Approve:  {entity.StatusInAuthorization, entity.StatusApproved},
	Reject:   {entity.StatusInAuthorization, entity.StatusRejected},
	Assign:   {entity.StatusApproved, entity.StatusInManagement},
	Dispatch: {entity.StatusInManagement, entity.StatusDispatched},
}

// Transitions todas las transiciones conocidas.
func Transitions() []Transition {
	return []Transition{Submit, Approve, Reject, Assign, Dispatch}
}

// Source estado de origen exigido por la transición.
func (t Transition) Source() entity.RequestStatus { return edges[t].from }

// Target estado resultante de la transición.
func (t Transition) Target() entity.RequestStatus { return edges[t].to }

// Apply devuelve el estado destino si t es válida desde current.
// Cualquier otro caso devuelve ErrInvalidTransition.
func Apply(t Transition, current entity.RequestStatus) (entity.RequestStatus, error) {
	e, ok := edges[t]
	if !ok {
		return "", fmt.Errorf("%w: transición desconocida %q", domain.ErrInvalidTransition, t)
	}
	if current != e.from {
		return "", fmt.Errorf("%w: %s no aplica a una solicitud %q", domain.ErrInvalidTransition, t, current)
	}
	return e.to, nil
}

// CanTransition indica si existe una arista directa from -> to.
func CanTransition(from, to entity.RequestStatus) bool {
	for _, e := range edges {
		if e.from == from && e.to == to {
			return true
		}
	}
	return false
}

// IsTerminal estados sin salida.
func IsTerminal(s entity.RequestStatus) bool {
	return s == entity.StatusRejected || s == entity.StatusDispatched
}
