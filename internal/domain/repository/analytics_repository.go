package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics ingresos y costo de las ventas POS completadas en un período.
type SalesMetrics struct {
	Count   int
	Revenue decimal.Decimal // Σ line_total
	Cost    decimal.Decimal // Σ quantity × unit_cost
}

// TopProductResult producto más vendido en el período.
type TopProductResult struct {
	ProductID string
	SKU       string
	Name      string
	Units     int
	Revenue   decimal.Decimal
}

// AnalyticsRepository consultas read-only para el dashboard del dealer.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, dealerID string, start, end time.Time) (SalesMetrics, error)
	GetTopProducts(ctx context.Context, dealerID string, start, end time.Time, limit int) ([]TopProductResult, error)
	CountStockAlerts(ctx context.Context, dealerID string) (low, out int, err error)
	CountOpenJobCards(ctx context.Context, dealerID string) (int, error)
	CountPendingSubOrders(ctx context.Context, dealerID string) (int, error)
}
