package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Cost y stock se manejan vía lotes.
type CreateProductRequest struct {
	CategoryID  string          `json:"category_id" validate:"omitempty,uuid"`
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=4000"`
	Brand       string          `json:"brand" validate:"omitempty,max=120"`
	Price       decimal.Decimal `json:"price"`
	MinStock    int             `json:"min_stock" validate:"min=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Attributes  json.RawMessage `json:"attributes" swaggertype:"object"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni Stock).
type UpdateProductRequest struct {
	CategoryID  *string          `json:"category_id" validate:"omitempty"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=4000"`
	Brand       *string          `json:"brand" validate:"omitempty,max=120"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool            `json:"is_active"`
	Attributes  json.RawMessage  `json:"attributes" swaggertype:"object"`
}

// ProductResponse salida de un producto con su estado de stock calculado.
type ProductResponse struct {
	ID          string            `json:"id"`
	DealerID    string            `json:"dealer_id"`
	CategoryID  string            `json:"category_id,omitempty"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	Cost        decimal.Decimal   `json:"cost"`
	MinStock    int               `json:"min_stock"`
	Stock       int               `json:"stock"`
	StockStatus string            `json:"stock_status"`
	ImageURL    string            `json:"image_url,omitempty"`
	IsActive    bool              `json:"is_active"`
	Attributes  json.RawMessage   `json:"attributes,omitempty" swaggertype:"object"`
	Variants    []VariantResponse `json:"variants,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListRequest filtros del listado. Categoría y búsqueda se combinan.
type ProductListRequest struct {
	PageRequest
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	Search     string `query:"search"`
	Status     string `query:"status" validate:"omitempty,oneof=in_stock low_stock out_of_stock"`
	Active     string `query:"active" validate:"omitempty,oneof=true false"`
	SortBy     string `query:"sort_by" validate:"omitempty,oneof=name price stock created_at"`
	SortDesc   bool   `query:"sort_desc"`
}

// ProductSummaryResponse estadísticas del conjunto filtrado.
type ProductSummaryResponse struct {
	TotalProducts  int             `json:"total_products"`
	TotalUnits     int             `json:"total_units"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	LowStock       int             `json:"low_stock"`
	OutOfStock     int             `json:"out_of_stock"`
}

// ProductListResponse lista paginada de productos con resumen.
type ProductListResponse struct {
	Items   []ProductResponse      `json:"items"`
	Summary ProductSummaryResponse `json:"summary"`
	Page    PageResponse           `json:"page"`
}

// VariantRequest alta o edición de variante.
type VariantRequest struct {
	SKU        string          `json:"sku" validate:"required,min=1,max=100"`
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Price      decimal.Decimal `json:"price"`
	Attributes json.RawMessage `json:"attributes" swaggertype:"object"`
	IsActive   *bool           `json:"is_active"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Attributes json.RawMessage `json:"attributes,omitempty" swaggertype:"object"`
	IsActive   bool            `json:"is_active"`
}
