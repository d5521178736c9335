// Package analytics resumen del panel principal: inventario y actividad de solicitudes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/indrhi/suministros-api/internal/application/dto"
	"github.com/indrhi/suministros-api/internal/application/ports"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/domain/repository"
)

const dashboardMonths = 6

// DashboardUseCase arma el resumen con tres lecturas independientes en paralelo.
type DashboardUseCase struct {
	articles repository.ArticleRepository
	requests repository.RequestRepository
	now      ports.Clock
}

// NewDashboardUseCase construye el caso de uso. now puede ser nil.
func NewDashboardUseCase(articles repository.ArticleRepository, requests repository.RequestRepository, now ports.Clock) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{articles: articles, requests: requests, now: now}
}

// GetSummary artículos activos, bajo stock, valor del inventario y solicitudes por estado y por mes.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(dashboardMonths - 1), 0)

	type articlesResult struct {
		list []*entity.Article
		err  error
	}
	type statusResult struct {
		counts map[entity.RequestStatus]int
		err    error
	}
	type monthlyResult struct {
		counts []entity.MonthlyCount
		err    error
	}

	articlesCh := make(chan articlesResult, 1)
	statusCh := make(chan statusResult, 1)
	monthlyCh := make(chan monthlyResult, 1)

	go func() {
		list, err := uc.articles.List(ctx)
		articlesCh <- articlesResult{list, err}
	}()
	go func() {
		counts, err := uc.requests.CountByStatus(ctx)
		statusCh <- statusResult{counts, err}
	}()
	go func() {
		counts, err := uc.requests.CountByMonth(ctx, since)
		monthlyCh <- monthlyResult{counts, err}
	}()

	ar, sr, mr := <-articlesCh, <-statusCh, <-monthlyCh
	if ar.err != nil {
		return nil, fmt.Errorf("dashboard artículos: %w", ar.err)
	}
	if sr.err != nil {
		return nil, fmt.Errorf("dashboard estados: %w", sr.err)
	}
	if mr.err != nil {
		return nil, fmt.Errorf("dashboard meses: %w", mr.err)
	}

	out := &dto.DashboardResponse{
		InventoryValue:   decimal.Zero,
		RequestsByStatus: make(map[string]int, len(entity.RequestStatuses)),
		RequestsByMonth:  fillMonths(since, dashboardMonths, mr.counts),
	}
	for _, a := range ar.list {
		out.ActiveArticles++
		if a.IsLowStock() {
			out.LowStockArticles++
		}
		out.InventoryValue = out.InventoryValue.Add(a.TotalValue())
	}
	for _, st := range entity.RequestStatuses {
		out.RequestsByStatus[string(st)] = sr.counts[st]
	}
	return out, nil
}

// fillMonths devuelve n meses consecutivos desde since, con 0 donde no hubo solicitudes.
func fillMonths(since time.Time, n int, counts []entity.MonthlyCount) []dto.MonthlyCountResponse {
	byMonth := make(map[string]int, len(counts))
	for _, c := range counts {
		byMonth[c.Month] = c.Count
	}
	out := make([]dto.MonthlyCountResponse, 0, n)
	for i := 0; i < n; i++ {
		m := since.AddDate(0, i, 0).Format("2006-01")
		out = append(out, dto.MonthlyCountResponse{Month: m, Count: byMonth[m]})
	}
	return out
}
