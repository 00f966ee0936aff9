package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayCount  int             `json:"today_count"`
	MonthSales  decimal.Decimal `json:"month_sales"`
	MonthMargin decimal.Decimal `json:"month_margin"` // Σ line_total − Σ qty × unit_cost

	LowStock         int `json:"low_stock"`
	OutOfStock       int `json:"out_of_stock"`
	OpenJobCards     int `json:"open_job_cards"`
	PendingSubOrders int `json:"pending_sub_orders"`

	TopProducts []TopProductDTO `json:"top_products"`
	DateLabel   string          `json:"date_label"` // ej: "Octubre 2026"
}

// TopProductDTO producto del top del mes.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}
