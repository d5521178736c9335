// Package ports contratos de salida que la capa de aplicación usa sin conocer su implementación.
package ports

import (
	"context"
	"time"

	"github.com/indrhi/suministros-api/internal/domain/entity"
)

// CatalogCache caché del listado de artículos activos.
// Los fallos de la caché nunca deben romper la operación: se tratan como miss.
//
// Cada Invalidate avanza la versión. Quien llena la caché lee Version antes de
// consultar el repositorio; StoreArticles descarta el listado si la versión cambió.
type CatalogCache interface {
	Articles(ctx context.Context) ([]*entity.Article, bool)
	Version(ctx context.Context) (int64, bool)
	StoreArticles(ctx context.Context, version int64, articles []*entity.Article)
	Invalidate(ctx context.Context)
}

// NopCatalogCache caché deshabilitada.
type NopCatalogCache struct{}

func (NopCatalogCache) Articles(context.Context) ([]*entity.Article, bool)      { return nil, false }
func (NopCatalogCache) Version(context.Context) (int64, bool)                   { return 0, false }
func (NopCatalogCache) StoreArticles(context.Context, int64, []*entity.Article) {}
func (NopCatalogCache) Invalidate(context.Context)                              {}

// Motivos de movimiento de stock para métricas.
const (
	StockIntake   = "entrada"
	StockReversal = "reverso_entrada"
	StockDispatch = "despacho"
)

// WorkflowMetrics métricas de negocio del ciclo de solicitudes e inventario.
type WorkflowMetrics interface {
	TransitionApplied(transition string)
	StockMoved(reason string, units int)
}

// NopMetrics métricas deshabilitadas.
type NopMetrics struct{}

func (NopMetrics) TransitionApplied(string) {}
func (NopMetrics) StockMoved(string, int)   {}

// DispatchNoteRenderer genera el conduce de despacho de una solicitud despachada.
type DispatchNoteRenderer interface {
	RenderDispatchNote(ctx context.Context, req *entity.Request) ([]byte, error)
}

// Clock fuente de la hora actual; se inyecta para fijar el año en pruebas.
type Clock func() time.Time
