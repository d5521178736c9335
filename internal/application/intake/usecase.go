// Package intake casos de uso de entradas de mercancía: registrar y revertir
// recepciones de suplidores, moviendo la existencia de los artículos en la misma transacción.
package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/ports"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/numbering"
	"github.com/indrhi/suministros-api/internal/domain/repository"
	"github.com/indrhi/suministros-api/pkg/logger"
)

// UseCase entradas de mercancía.
type UseCase struct {
	tx      TxRunner
	entries repository.EntryRepository
	cache   ports.CatalogCache
	metrics ports.WorkflowMetrics
	log     *logger.Logger
	now     ports.Clock
}

// NewUseCase construye el caso de uso. cache, metrics, log y now pueden ser nil.
func NewUseCase(
	tx TxRunner,
	entries repository.EntryRepository,
	cache ports.CatalogCache,
	metrics ports.WorkflowMetrics,
	log *logger.Logger,
	now ports.Clock,
) *UseCase {
	if cache == nil {
		cache = ports.NopCatalogCache{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		tx:      tx,
		entries: entries,
		cache:   cache,
		metrics: metrics,
		log:     log.Component("intake"),
		now:     now,
	}
}

// Register registra la entrada e incrementa la existencia de cada artículo, todo o nada.
// El número de orden se arma con el año en curso y debe ser único.
func (uc *UseCase) Register(ctx context.Context, s entity.Session, in dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	now := uc.now()
	year := now.Year()

	orderNumber, err := numbering.OrderNumber(year, in.OrderDigits)
	if err != nil {
		return nil, err
	}
	supplier := strings.TrimSpace(in.Supplier)
	if supplier == "" {
		return nil, domain.Invalid("suplidor", "es requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("articulos", "la entrada debe incluir al menos un artículo")
	}
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.Invalid("cantidad", "debe ser mayor que 0")
		}
		if seen[it.ArticleID] {
			return nil, domain.Invalid("articulos", "artículo repetido en la entrada")
		}
		seen[it.ArticleID] = true
	}
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if in.Date != "" {
		d, err := time.Parse(dto.DateLayout, in.Date)
		if err != nil {
			return nil, domain.Invalid("fecha", "formato esperado AAAA-MM-DD")
		}
		date = d
	}

	entry := &entity.Entry{
		ID:          uuid.New().String(),
		OrderNumber: orderNumber,
		Date:        date,
		Supplier:    supplier,
		ReceivedBy:  s.Name,
		CreatedAt:   now,
	}
	units := 0

	err = uc.tx.RunIntake(ctx, func(entries repository.EntryRepository, articles repository.ArticleRepository) error {
		exists, err := entries.OrderNumberExists(ctx, orderNumber)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: el número de orden %s ya existe", domain.ErrDuplicate, orderNumber)
		}

		items := make([]entity.EntryItem, 0, len(in.Items))
		for _, it := range in.Items {
			art, err := articles.GetForUpdate(ctx, it.ArticleID)
			if err != nil {
				return err
			}
			if art == nil || !art.Active {
				return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, it.ArticleID)
			}
			if err := articles.SetStock(ctx, art.ID, art.OnHand+it.Quantity); err != nil {
				return err
			}
			items = append(items, entity.EntryItem{
				ArticleID:          art.ID,
				Quantity:           it.Quantity,
				ArticleCode:        art.Code,
				ArticleDescription: art.Description,
			})
			units += it.Quantity
		}
		entry.Items = items

		seq, err := entries.NextSequence(ctx, year)
		if err != nil {
			return err
		}
		entry.EntryNumber = numbering.EntryNumber(year, seq)
		return entries.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	uc.metrics.StockMoved(ports.StockIntake, units)
	uc.log.Info().
		Str("entrada", entry.EntryNumber).
		Str("orden", entry.OrderNumber).
		Str("suplidor", entry.Supplier).
		Int("unidades", units).
		Str("usuario", s.Name).
		Msg("entrada de mercancía registrada")
	return toEntryResponse(entry), nil
}

// Delete revierte la existencia sumada por la entrada y la elimina.
// Falla con ErrInsufficientStock si algún artículo quedaría negativo.
func (uc *UseCase) Delete(ctx context.Context, s entity.Session, id string) error {
	var number string
	units := 0
	err := uc.tx.RunIntake(ctx, func(entries repository.EntryRepository, articles repository.ArticleRepository) error {
		entry, err := entries.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, id)
		}
		for _, it := range entry.Items {
			art, err := articles.GetForUpdate(ctx, it.ArticleID)
			if err != nil {
				return err
			}
			if art == nil {
				return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, it.ArticleID)
			}
			if art.OnHand < it.Quantity {
				return fmt.Errorf("%w: %s tiene %d en existencia, la entrada sumó %d", domain.ErrInsufficientStock, art.Code, art.OnHand, it.Quantity)
			}
			if err := articles.SetStock(ctx, art.ID, art.OnHand-it.Quantity); err != nil {
				return err
			}
			units += it.Quantity
		}
		number = entry.EntryNumber
		return entries.Delete(ctx, entry.ID)
	})
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx)
	uc.metrics.StockMoved(ports.StockReversal, units)
	uc.log.Info().Str("entrada", number).Int("unidades", units).Str("usuario", s.Name).Msg("entrada de mercancía revertida")
	return nil
}

// Get devuelve una entrada.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.EntryResponse, error) {
	entry, err := uc.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: entrada %s", domain.ErrNotFound, id)
	}
	return toEntryResponse(entry), nil
}

// List entradas, más recientes primero.
func (uc *UseCase) List(ctx context.Context) ([]dto.EntryResponse, error) {
	list, err := uc.entries.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toEntryResponse(e))
	}
	return out, nil
}

// NextOrderDigits sugiere el siguiente número de orden libre del año en curso.
func (uc *UseCase) NextOrderDigits(ctx context.Context) (*dto.NextOrderResponse, error) {
	year := uc.now().Year()
	existing, err := uc.entries.ListOrderNumbers(ctx, year)
	if err != nil {
		return nil, err
	}
	digits, err := numbering.NextOrderDigits(existing, year)
	if err != nil {
		return nil, err
	}
	orderNumber, err := numbering.OrderNumber(year, digits)
	if err != nil {
		return nil, err
	}
	return &dto.NextOrderResponse{Year: year, Digits: digits, OrderNumber: orderNumber}, nil
}

func toEntryResponse(e *entity.Entry) *dto.EntryResponse {
	items := make([]dto.EntryItemResponse, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, dto.EntryItemResponse{
			ArticleID:   it.ArticleID,
			Code:        it.ArticleCode,
			Description: it.ArticleDescription,
			Quantity:    it.Quantity,
		})
	}
	return &dto.EntryResponse{
		ID:          e.ID,
		EntryNumber: e.EntryNumber,
		OrderNumber: e.OrderNumber,
		Date:        e.Date,
		Supplier:    e.Supplier,
		ReceivedBy:  e.ReceivedBy,
		Items:       items,
		CreatedAt:   e.CreatedAt,
	}
}
