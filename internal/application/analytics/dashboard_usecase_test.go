package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

type stubAnalytics struct {
	err error
}

func (s *stubAnalytics) GetSalesMetrics(_ context.Context, _ string, start, end time.Time) (repository.SalesMetrics, error) {
	if start.Day() == 1 && start.Hour() == 0 && end.Sub(start) > 24*time.Hour {
		return repository.SalesMetrics{Count: 40, Revenue: decimal.RequireFromString("1000.555"), Cost: decimal.NewFromInt(600)}, nil
	}
	return repository.SalesMetrics{Count: 3, Revenue: decimal.NewFromInt(90)}, nil
}

func (s *stubAnalytics) GetTopProducts(_ context.Context, _ string, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	if limit != dashboardTopProducts {
		return nil, errors.New("limit inesperado")
	}
	return []repository.TopProductResult{{ProductID: "p1", SKU: "A", Name: "Aceite", Units: 7, Revenue: decimal.NewFromInt(70)}}, nil
}

func (s *stubAnalytics) CountStockAlerts(context.Context, string) (int, int, error) { return 2, 1, nil }

func (s *stubAnalytics) CountOpenJobCards(context.Context, string) (int, error) { return 4, s.err }

func (s *stubAnalytics) CountPendingSubOrders(context.Context, string) (int, error) { return 5, nil }

func TestGetSummary(t *testing.T) {
	uc := NewDashboardUseCase(&stubAnalytics{})
	uc.now = func() time.Time { return time.Date(2026, time.October, 19, 15, 0, 0, 0, time.UTC) }

	out, err := uc.GetSummary(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(90).Equal(out.TodaySales))
	assert.Equal(t, 3, out.TodayCount)
	assert.Equal(t, "1000.56", out.MonthSales.StringFixed(2))
	assert.Equal(t, "400.56", out.MonthMargin.StringFixed(2), "margen = ingresos - costo FIFO")
	assert.Equal(t, 2, out.LowStock)
	assert.Equal(t, 1, out.OutOfStock)
	assert.Equal(t, 4, out.OpenJobCards)
	assert.Equal(t, 5, out.PendingSubOrders)
	require.Len(t, out.TopProducts, 1)
	assert.Equal(t, "Octubre 2026", out.DateLabel)
}

func TestGetSummary_PropagaError(t *testing.T) {
	uc := NewDashboardUseCase(&stubAnalytics{err: errors.New("db caída")})
	_, err := uc.GetSummary(context.Background(), "d1")
	assert.ErrorContains(t, err, "pendientes")
}
