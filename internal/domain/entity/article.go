package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida aceptadas para artículos.
const (
	UnitUnidad  = "UNIDAD"
	UnitResma   = "RESMA"
	UnitBlocks  = "BLOCKS O TALONARIO"
	UnitPaquete = "PAQUETE"
	UnitGalon   = "GALÓN"
	UnitYarda   = "YARDA"
	UnitLibra   = "LIBRA"
	UnitCaja    = "CAJA"
)

// ArticleUnits lista ordenada de unidades válidas.
var ArticleUnits = []string{
	UnitUnidad, UnitResma, UnitBlocks, UnitPaquete,
	UnitGalon, UnitYarda, UnitLibra, UnitCaja,
}

// IsValidUnit indica si u es una unidad del catálogo.
func IsValidUnit(u string) bool {
	for _, v := range ArticleUnits {
		if v == u {
			return true
		}
	}
	return false
}

// Article artículo del almacén de suministros.
// OnHand solo cambia por entradas de mercancía (y despacho si está habilitado).
type Article struct {
	ID          string
	Code        string // único entre artículos activos, sensible a mayúsculas
	Description string
	OnHand      int
	MinQuantity int
	Unit        string
	UnitPrice   decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalValue valor del inventario del artículo. Siempre derivado, nunca persistido.
func (a *Article) TotalValue() decimal.Decimal {
	return a.UnitPrice.Mul(decimal.NewFromInt(int64(a.OnHand)))
}

// IsLowStock existencia igual o por debajo del mínimo.
func (a *Article) IsLowStock() bool {
	return a.OnHand <= a.MinQuantity
}
