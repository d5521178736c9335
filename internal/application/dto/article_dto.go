package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateArticleRequest entrada para crear un artículo.
type CreateArticleRequest struct {
	Code        string          `json:"codigo" validate:"required,max=50"`
	Description string          `json:"descripcion" validate:"required,max=300"`
	OnHand      int             `json:"existencia" validate:"min=0"`
	MinQuantity int             `json:"cantidad_minima" validate:"min=0"`
	Unit        string          `json:"unidad" validate:"required"`
	UnitPrice   decimal.Decimal `json:"valor"`
}

// UpdateArticleRequest actualización parcial. La existencia no se edita aquí.
type UpdateArticleRequest struct {
	Code        *string          `json:"codigo" validate:"omitempty,min=1,max=50"`
	Description *string          `json:"descripcion" validate:"omitempty,min=1,max=300"`
	MinQuantity *int             `json:"cantidad_minima" validate:"omitempty,min=0"`
	Unit        *string          `json:"unidad"`
	UnitPrice   *decimal.Decimal `json:"valor"`
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"codigo"`
	Description string          `json:"descripcion"`
	OnHand      int             `json:"existencia"`
	MinQuantity int             `json:"cantidad_minima"`
	Unit        string          `json:"unidad"`
	UnitPrice   decimal.Decimal `json:"valor"`
	TotalValue  decimal.Decimal `json:"valor_total"`
	LowStock    bool            `json:"bajo_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
