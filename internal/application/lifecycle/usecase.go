// Package lifecycle casos de uso del ciclo de vida de las solicitudes de suministro.
// Cada transición corre en una sola transacción con la fila de la solicitud bloqueada
// y deja su registro en el historial.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/ports"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/lifecycle"
	"github.com/indrhi/suministros-api/internal/domain/repository"
	"github.com/indrhi/suministros-api/pkg/logger"
)

// Options reglas configurables.
type Options struct {
	// DispatchDecrementsStock descuenta la existencia al despachar.
	DispatchDecrementsStock bool
}

// Deps dependencias del caso de uso. Cache, Metrics, Notes, Log y Now son opcionales.
type Deps struct {
	Tx          TxRunner
	Requests    repository.RequestRepository
	Departments repository.DepartmentRepository
	Cache       ports.CatalogCache
	Metrics     ports.WorkflowMetrics
	Notes       ports.DispatchNoteRenderer
	Log         *logger.Logger
	Now         ports.Clock
	Options     Options
}

// UseCase ciclo de vida de solicitudes.
type UseCase struct {
	tx          TxRunner
	requests    repository.RequestRepository
	departments repository.DepartmentRepository
	cache       ports.CatalogCache
	metrics     ports.WorkflowMetrics
	notes       ports.DispatchNoteRenderer
	log         *logger.Logger
	now         ports.Clock
	opts        Options
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		tx:          d.Tx,
		requests:    d.Requests,
		departments: d.Departments,
		cache:       d.Cache,
		metrics:     d.Metrics,
		notes:       d.Notes,
		log:         d.Log,
		now:         d.Now,
		opts:        d.Options,
	}
	if uc.cache == nil {
		uc.cache = ports.NopCatalogCache{}
	}
	if uc.metrics == nil {
		uc.metrics = ports.NopMetrics{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	uc.log = uc.log.Component("lifecycle")
	return uc
}

// Create registra una solicitud Pendiente para un departamento.
// No valida existencias: eso ocurre al asignar cantidades.
func (uc *UseCase) Create(ctx context.Context, s entity.Session, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.Invalid("articulos", "la solicitud debe incluir al menos un artículo")
	}
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.ArticleID == "" {
			return nil, domain.Invalid("articulo_id", "es requerido")
		}
		if it.Quantity <= 0 {
			return nil, domain.Invalid("cantidad", "debe ser mayor que 0")
		}
		if seen[it.ArticleID] {
			return nil, domain.Invalid("articulos", "artículo repetido en la solicitud")
		}
		seen[it.ArticleID] = true
	}

	dept, err := uc.departments.GetByID(ctx, in.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil || !dept.Active {
		return nil, fmt.Errorf("%w: departamento %s", domain.ErrNotFound, in.DepartmentID)
	}
	if s.DepartmentScoped() && s.DepartmentID != dept.ID {
		return nil, fmt.Errorf("%w: solo puede solicitar para su propio departamento", domain.ErrForbidden)
	}

	now := uc.now()
	req := &entity.Request{
		ID:             uuid.New().String(),
		Date:           now,
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		Status:         entity.StatusPending,
		CreatedBy:      s.Name,
		CreatedByID:    s.UserID,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.tx.Run(ctx, func(requests repository.RequestRepository, articles repository.ArticleRepository) error {
		items := make([]entity.RequestItem, 0, len(in.Items))
		for _, it := range in.Items {
			art, err := articles.GetByID(ctx, it.ArticleID)
			if err != nil {
				return err
			}
			if art == nil || !art.Active {
				return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, it.ArticleID)
			}
			items = append(items, entity.RequestItem{
				ArticleID:          art.ID,
				Quantity:           it.Quantity,
				Requested:          it.Quantity,
				ArticleCode:        art.Code,
				ArticleDescription: art.Description,
				Unit:               art.Unit,
			})
		}
		req.Items = items

		number, err := requests.NextNumber(ctx)
		if err != nil {
			return err
		}
		req.Number = number
		if err := requests.Create(ctx, req); err != nil {
			return err
		}
		return requests.AppendHistory(ctx, &entity.StatusChange{
			ID:        uuid.New().String(),
			RequestID: req.ID,
			To:        entity.StatusPending,
			Actor:     s.Name,
			Note:      "solicitud creada",
			Items:     req.Items,
			At:        now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.TransitionApplied("create")
	uc.log.Info().
		Str("solicitud_id", req.ID).
		Int64("numero", req.Number).
		Str("departamento", req.DepartmentName).
		Str("usuario", s.Name).
		Msg("solicitud creada")
	return toRequestResponse(req), nil
}

// Submit Pendiente -> En Autorización.
func (uc *UseCase) Submit(ctx context.Context, s entity.Session, id string) (*dto.RequestResponse, error) {
	req, err := uc.transition(ctx, s, id, lifecycle.Submit, "", nil)
	if err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// Approve En Autorización -> Aprobada.
func (uc *UseCase) Approve(ctx context.Context, s entity.Session, id string) (*dto.RequestResponse, error) {
	req, err := uc.transition(ctx, s, id, lifecycle.Approve, "", nil)
	if err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// Reject En Autorización -> Rechazada, con motivo opcional.
func (uc *UseCase) Reject(ctx context.Context, s entity.Session, id, reason string) (*dto.RequestResponse, error) {
	req, err := uc.transition(ctx, s, id, lifecycle.Reject, reason, func(req *entity.Request, _ repository.RequestRepository, _ repository.ArticleRepository) error {
		req.RejectionReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// ApproveBatch aprueba cada id por separado. Un fallo no revierte los anteriores.
func (uc *UseCase) ApproveBatch(ctx context.Context, s entity.Session, ids []string) *dto.BatchResponse {
	return uc.batch(ctx, ids, func(id string) (*dto.RequestResponse, error) {
		return uc.Approve(ctx, s, id)
	})
}

// RejectBatch rechaza cada id por separado con el mismo motivo.
func (uc *UseCase) RejectBatch(ctx context.Context, s entity.Session, ids []string, reason string) *dto.BatchResponse {
	return uc.batch(ctx, ids, func(id string) (*dto.RequestResponse, error) {
		return uc.Reject(ctx, s, id, reason)
	})
}

func (uc *UseCase) batch(ctx context.Context, ids []string, op func(id string) (*dto.RequestResponse, error)) *dto.BatchResponse {
	out := &dto.BatchResponse{Results: make([]dto.BatchResult, 0, len(ids))}
	for _, id := range ids {
		if ctx.Err() != nil {
			out.Results = append(out.Results, dto.BatchResult{ID: id, Code: "CANCELLED", Error: "operación cancelada"})
			out.Failed++
			continue
		}
		res, err := op(id)
		if err != nil {
			code, msg := BatchError(err)
			if code == "INTERNAL" {
				uc.log.Error().Err(err).Str("solicitud_id", id).Msg("lote: fallo interno")
			}
			out.Results = append(out.Results, dto.BatchResult{ID: id, Code: code, Error: msg})
			out.Failed++
			continue
		}
		out.Results = append(out.Results, dto.BatchResult{ID: id, OK: true, Status: res.Status})
		out.Succeeded++
	}
	return out
}

// AssignQuantities Aprobada -> En Gestión.
// Cada cantidad asignada debe estar entre 0 y lo solicitado y no superar la existencia.
// Las líneas en 0 u omitidas se descartan; debe quedar al menos una.
func (uc *UseCase) AssignQuantities(ctx context.Context, s entity.Session, id string, in dto.AssignQuantitiesRequest) (*dto.RequestResponse, error) {
	assigned := make(map[string]int, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 0 {
			return nil, domain.Invalid("cantidad", "no puede ser negativa")
		}
		if _, dup := assigned[it.ArticleID]; dup {
			return nil, domain.Invalid("articulos", "artículo repetido en la asignación")
		}
		assigned[it.ArticleID] = it.Quantity
	}

	req, err := uc.transition(ctx, s, id, lifecycle.Assign, "cantidades asignadas", func(req *entity.Request, requests repository.RequestRepository, articles repository.ArticleRepository) error {
		for articleID := range assigned {
			if _, ok := req.ItemFor(articleID); !ok {
				return domain.Invalid("articulos", fmt.Sprintf("el artículo %s no pertenece a la solicitud", articleID))
			}
		}
		kept := make([]entity.RequestItem, 0, len(req.Items))
		for _, it := range req.Items {
			qty := assigned[it.ArticleID]
			if qty == 0 {
				continue
			}
			if qty > it.Requested {
				return domain.Invalid("cantidad", fmt.Sprintf("%s: asignado %d excede lo solicitado %d", it.ArticleCode, qty, it.Requested))
			}
			art, err := articles.GetByID(ctx, it.ArticleID)
			if err != nil {
				return err
			}
			if art == nil {
				return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, it.ArticleID)
			}
			if qty > art.OnHand {
				return fmt.Errorf("%w: %s tiene %d en existencia, se asignaron %d", domain.ErrInsufficientStock, art.Code, art.OnHand, qty)
			}
			it.Quantity = qty
			kept = append(kept, it)
		}
		if len(kept) == 0 {
			return domain.Invalid("articulos", "debes asignar al menos una cantidad mayor a 0")
		}
		if err := requests.ReplaceItems(ctx, req.ID, kept); err != nil {
			return err
		}
		req.Items = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// Dispatch En Gestión -> Despachada, registrando quién despacha.
// Solo descuenta existencia si Options.DispatchDecrementsStock está activo.
func (uc *UseCase) Dispatch(ctx context.Context, s entity.Session, id string) (*dto.RequestResponse, error) {
	units := 0
	req, err := uc.transition(ctx, s, id, lifecycle.Dispatch, "", func(req *entity.Request, _ repository.RequestRepository, articles repository.ArticleRepository) error {
		now := uc.now()
		req.DispatchedBy = s.Name
		req.DispatchedAt = &now
		if !uc.opts.DispatchDecrementsStock {
			return nil
		}
		units = 0
		for _, it := range req.Items {
			art, err := articles.GetForUpdate(ctx, it.ArticleID)
			if err != nil {
				return err
			}
			if art == nil {
				return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, it.ArticleID)
			}
			if art.OnHand < it.Quantity {
				return fmt.Errorf("%w: %s tiene %d en existencia, se despachan %d", domain.ErrInsufficientStock, art.Code, art.OnHand, it.Quantity)
			}
			if err := articles.SetStock(ctx, art.ID, art.OnHand-it.Quantity); err != nil {
				return err
			}
			units += it.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if units > 0 {
		uc.cache.Invalidate(ctx)
		uc.metrics.StockMoved(ports.StockDispatch, units)
	}
	return toRequestResponse(req), nil
}

type mutation func(req *entity.Request, requests repository.RequestRepository, articles repository.ArticleRepository) error

// transition bloquea la solicitud, valida la arista, aplica mutate y deja historial, todo en una tx.
func (uc *UseCase) transition(ctx context.Context, s entity.Session, id string, t lifecycle.Transition, note string, mutate mutation) (*entity.Request, error) {
	var out *entity.Request
	var from entity.RequestStatus
	err := uc.tx.Run(ctx, func(requests repository.RequestRepository, articles repository.ArticleRepository) error {
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
		next, err := lifecycle.Apply(t, req.Status)
		if err != nil {
			return err
		}
		if mutate != nil {
			if err := mutate(req, requests, articles); err != nil {
				return err
			}
		}
		now := uc.now()
		from = req.Status
		req.Status = next
		req.UpdatedAt = now
		if err := requests.UpdateStatus(ctx, req); err != nil {
			return err
		}
		if err := requests.AppendHistory(ctx, &entity.StatusChange{
			ID:        uuid.New().String(),
			RequestID: req.ID,
			From:      from,
			To:        next,
			Actor:     s.Name,
			Note:      note,
			Items:     req.Items,
			At:        now,
		}); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.TransitionApplied(string(t))
	uc.log.Info().
		Str("solicitud_id", out.ID).
		Int64("numero", out.Number).
		Str("desde", string(from)).
		Str("hacia", string(out.Status)).
		Str("usuario", s.Name).
		Msg("transición aplicada")
	return out, nil
}
