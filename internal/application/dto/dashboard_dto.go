package dto

import "github.com/shopspring/decimal"

// MonthlyCountResponse solicitudes creadas en un mes.
type MonthlyCountResponse struct {
	Month string `json:"mes"` // YYYY-MM
	Count int    `json:"cantidad"`
}

// DashboardResponse resumen del panel principal.
type DashboardResponse struct {
	ActiveArticles   int                    `json:"articulos_activos"`
	LowStockArticles int                    `json:"articulos_bajo_stock"`
	InventoryValue   decimal.Decimal        `json:"valor_inventario"`
	RequestsByStatus map[string]int         `json:"solicitudes_por_estado"`
	RequestsByMonth  []MonthlyCountResponse `json:"solicitudes_por_mes"`
}
