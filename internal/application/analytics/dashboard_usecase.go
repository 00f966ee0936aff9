// Package analytics contiene el dashboard operativo del dealer.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO para el dealer indicado.
//
// Cinco consultas en paralelo:
//  1. GetSalesMetrics(hoy)          → TodaySales, TodayCount
//  2. GetSalesMetrics(mes)          → MonthSales, MonthMargin
//  3. GetTopProducts(mes, top 5)    → TopProducts
//  4. CountStockAlerts              → LowStock, OutOfStock
//  5. CountOpenJobCards + CountPendingSubOrders
func (uc *DashboardUseCase) GetSummary(ctx context.Context, dealerID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type topResult struct {
		top []repository.TopProductResult
		err error
	}
	type alertsResult struct {
		low, out int
		err      error
	}
	type countsResult struct {
		jobs, subs int
		err        error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	alertsCh := make(chan alertsResult, 1)
	countsCh := make(chan countsResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, dealerID, todayStart, todayEnd)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, dealerID, monthStart, todayEnd)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		top, err := uc.analyticsRepo.GetTopProducts(ctx, dealerID, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{top, err}
	}()
	go func() {
		low, out, err := uc.analyticsRepo.CountStockAlerts(ctx, dealerID)
		alertsCh <- alertsResult{low, out, err}
	}()
	go func() {
		jobs, err := uc.analyticsRepo.CountOpenJobCards(ctx, dealerID)
		if err != nil {
			countsCh <- countsResult{err: err}
			return
		}
		subs, err := uc.analyticsRepo.CountPendingSubOrders(ctx, dealerID)
		countsCh <- countsResult{jobs, subs, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	alerts := <-alertsCh
	counts := <-countsCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if alerts.err != nil {
		return nil, fmt.Errorf("dashboard: alertas de stock: %w", alerts.err)
	}
	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: pendientes: %w", counts.err)
	}

	topDTO := make([]dto.TopProductDTO, 0, len(top.top))
	for _, p := range top.top {
		topDTO = append(topDTO, dto.TopProductDTO{
			ProductID: p.ProductID,
			SKU:       p.SKU,
			Name:      p.Name,
			Units:     p.Units,
			Revenue:   p.Revenue.Round(2),
		})
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:       today.m.Revenue.Round(2),
		TodayCount:       today.m.Count,
		MonthSales:       month.m.Revenue.Round(2),
		MonthMargin:      month.m.Revenue.Sub(month.m.Cost).Round(2),
		LowStock:         alerts.low,
		OutOfStock:       alerts.out,
		OpenJobCards:     counts.jobs,
		PendingSubOrders: counts.subs,
		TopProducts:      topDTO,
		DateLabel:        monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
