package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/ports"
	"github.com/indrhi/suministros-api/internal/domain"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

// ArticleUseCase CRUD del catálogo. La existencia solo se fija al crear;
// después se mueve vía entradas de mercancía.
type ArticleUseCase struct {
	repo  repository.ArticleRepository
	cache ports.CatalogCache
}

// NewArticleUseCase construye el caso de uso. cache puede ser nil.
func NewArticleUseCase(repo repository.ArticleRepository, cache ports.CatalogCache) *ArticleUseCase {
	if cache == nil {
		cache = ports.NopCatalogCache{}
	}
	return &ArticleUseCase{repo: repo, cache: cache}
}

// Create crea un artículo. El código debe ser único entre artículos activos.
func (uc *ArticleUseCase) Create(ctx context.Context, in dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	code := strings.TrimSpace(in.Code)
	desc := strings.TrimSpace(in.Description)
	if code == "" || desc == "" {
		return nil, domain.Invalid("codigo", "código y descripción son requeridos")
	}
	if err := validateArticleFields(in.Unit, in.MinQuantity, in.UnitPrice); err != nil {
		return nil, err
	}
	if in.OnHand < 0 {
		return nil, domain.Invalid("existencia", "no puede ser negativa")
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errDuplicateCode
	}

	now := time.Now()
	article := &entity.Article{
		ID:          uuid.New().String(),
		Code:        code,
		Description: desc,
		OnHand:      in.OnHand,
		MinQuantity: in.MinQuantity,
		Unit:        in.Unit,
		UnitPrice:   in.UnitPrice,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)
	return toArticleResponse(article), nil
}

var errDuplicateCode = fmt.Errorf("%w: ya existe un artículo con ese código", domain.ErrDuplicate)

// GetByID obtiene un artículo activo.
func (uc *ArticleUseCase) GetByID(ctx context.Context, id string) (*dto.ArticleResponse, error) {
	article, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	return toArticleResponse(article), nil
}

// Update aplica los campos presentes. No modifica la existencia.
func (uc *ArticleUseCase) Update(ctx context.Context, id string, in dto.UpdateArticleRequest) (*dto.ArticleResponse, error) {
	article, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.Invalid("codigo", "no puede estar vacío")
		}
		if code != article.Code {
			existing, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != article.ID {
				return nil, errDuplicateCode
			}
			article.Code = code
		}
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return nil, domain.Invalid("descripcion", "no puede estar vacía")
		}
		article.Description = desc
	}
	if in.MinQuantity != nil {
		article.MinQuantity = *in.MinQuantity
	}
	if in.Unit != nil {
		article.Unit = *in.Unit
	}
	if in.UnitPrice != nil {
		article.UnitPrice = *in.UnitPrice
	}
	if err := validateArticleFields(article.Unit, article.MinQuantity, article.UnitPrice); err != nil {
		return nil, err
	}
	article.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)
	return toArticleResponse(article), nil
}

// Delete baja lógica.
func (uc *ArticleUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.active(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx)
	return nil
}

// List artículos activos ordenados por código. Se sirve desde la caché si está disponible.
func (uc *ArticleUseCase) List(ctx context.Context) ([]dto.ArticleResponse, error) {
	list, ok := uc.cache.Articles(ctx)
	if !ok {
		version, versioned := uc.cache.Version(ctx)
		var err error
		list, err = uc.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if versioned {
			uc.cache.StoreArticles(ctx, version, list)
		}
	}
	return toArticleResponses(list), nil
}

// LowStock artículos con existencia menor o igual al mínimo.
func (uc *ArticleUseCase) LowStock(ctx context.Context) ([]dto.ArticleResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toArticleResponses(list), nil
}

func (uc *ArticleUseCase) active(ctx context.Context, id string) (*entity.Article, error) {
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil || !article.Active {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	return article, nil
}

func validateArticleFields(unit string, minQty int, price decimal.Decimal) error {
	if !entity.IsValidUnit(unit) {
		return domain.Invalid("unidad", fmt.Sprintf("unidad desconocida %q", unit))
	}
	if minQty < 0 {
		return domain.Invalid("cantidad_minima", "no puede ser negativa")
	}
	if price.IsNegative() {
		return domain.Invalid("valor", "no puede ser negativo")
	}
	return nil
}

func toArticleResponse(a *entity.Article) *dto.ArticleResponse {
	return &dto.ArticleResponse{
		ID:          a.ID,
		Code:        a.Code,
		Description: a.Description,
		OnHand:      a.OnHand,
		MinQuantity: a.MinQuantity,
		Unit:        a.Unit,
		UnitPrice:   a.UnitPrice,
		TotalValue:  a.TotalValue(),
		LowStock:    a.IsLowStock(),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toArticleResponses(list []*entity.Article) []dto.ArticleResponse {
	out := make([]dto.ArticleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toArticleResponse(a))
	}
	return out
}
