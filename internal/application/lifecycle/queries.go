package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

// Get devuelve una solicitud activa.
func (uc *UseCase) Get(ctx context.Context, s entity.Session, id string) (*dto.RequestResponse, error) {
	req, err := uc.load(ctx, s, id)
	if err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// List lista solicitudes activas, filtrando por estado y departamento.
// Una sesión de departamento solo ve las suyas.
func (uc *UseCase) List(ctx context.Context, s entity.Session, status, departmentID string) ([]dto.RequestResponse, error) {
	filter := entity.RequestFilter{DepartmentID: departmentID}
	if status != "" {
		st, ok := entity.ParseRequestStatus(status)
		if !ok {
			return nil, domain.Invalid("estado", fmt.Sprintf("estado desconocido %q", status))
		}
		filter.Status = st
	}
	if s.DepartmentScoped() {
		filter.DepartmentID = s.DepartmentID
	}
	list, err := uc.requests.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRequestResponse(r))
	}
	return out, nil
}

// Queue solicitudes que esperan en un estado (cola de autorización, aprobadas, etc.).
func (uc *UseCase) Queue(ctx context.Context, s entity.Session, status entity.RequestStatus) ([]dto.RequestResponse, error) {
	return uc.List(ctx, s, string(status), "")
}

// History historial de transiciones, del más antiguo al más reciente.
func (uc *UseCase) History(ctx context.Context, s entity.Session, id string) ([]dto.StatusChangeResponse, error) {
	if _, err := uc.load(ctx, s, id); err != nil {
		return nil, err
	}
	changes, err := uc.requests.History(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StatusChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.StatusChangeResponse{
			From:  string(c.From),
			To:    string(c.To),
			Actor: c.Actor,
			Note:  c.Note,
			Items: toItemResponses(c.Items),
			At:    c.At,
		})
	}
	return out, nil
}

// Delete baja lógica de una solicitud. Solo mientras está Pendiente.
func (uc *UseCase) Delete(ctx context.Context, s entity.Session, id string) error {
	err := uc.tx.Run(ctx, func(requests repository.RequestRepository, _ repository.ArticleRepository) error {
		req, err := requests.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil || !req.Active {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		if s.DepartmentScoped() && req.DepartmentID != s.DepartmentID {
			return domain.ErrForbidden
		}
		if req.Status != entity.StatusPending {
			return fmt.Errorf("%w: solo se eliminan solicitudes pendientes (estado %q)", domain.ErrConflict, req.Status)
		}
		if err := requests.SoftDelete(ctx, req.ID); err != nil {
			return err
		}
		return requests.AppendHistory(ctx, &entity.StatusChange{
			ID:        uuid.New().String(),
			RequestID: req.ID,
			From:      req.Status,
			To:        req.Status,
			Actor:     s.Name,
			Note:      "solicitud eliminada",
			Items:     req.Items,
			At:        uc.now(),
		})
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("solicitud_id", id).Str("usuario", s.Name).Msg("solicitud eliminada")
	return nil
}

// DispatchNote PDF del conduce de una solicitud despachada.
func (uc *UseCase) DispatchNote(ctx context.Context, s entity.Session, id string) ([]byte, string, error) {
	if uc.notes == nil {
		return nil, "", errors.New("generador de conduces no configurado")
	}
	req, err := uc.load(ctx, s, id)
	if err != nil {
		return nil, "", err
	}
	if req.Status != entity.StatusDispatched {
		return nil, "", fmt.Errorf("%w: la solicitud no ha sido despachada", domain.ErrConflict)
	}
	pdf, err := uc.notes.RenderDispatchNote(ctx, req)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("conduce-%d.pdf", req.Number), nil
}

func (uc *UseCase) load(ctx context.Context, s entity.Session, id string) (*entity.Request, error) {
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil || !req.Active {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	if s.DepartmentScoped() && req.DepartmentID != s.DepartmentID {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

// BatchError código y mensaje seguros para el resultado de un id en lote.
func BatchError(err error) (code, message string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return "INVALID_TRANSITION", err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return "FORBIDDEN", err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return "VALIDATION", err.Error()
	default:
		return "INTERNAL", "error interno"
	}
}

func toRequestResponse(r *entity.Request) *dto.RequestResponse {
	return &dto.RequestResponse{
		ID:              r.ID,
		Number:          r.Number,
		Date:            r.Date,
		DepartmentID:    r.DepartmentID,
		DepartmentName:  r.DepartmentName,
		Items:           toItemResponses(r.Items),
		Status:          string(r.Status),
		CreatedBy:       r.CreatedBy,
		DispatchedBy:    r.DispatchedBy,
		DispatchedAt:    r.DispatchedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toItemResponses(items []entity.RequestItem) []dto.RequestItemResponse {
	out := make([]dto.RequestItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.RequestItemResponse{
			ArticleID:   it.ArticleID,
			Code:        it.ArticleCode,
			Description: it.ArticleDescription,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			Requested:   it.Requested,
		})
	}
	return out
}
