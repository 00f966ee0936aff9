package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y variantes. Cost y Stock se manejan vía lotes.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create crea un nuevo producto. Cost inicia en 0; SKU único por dealer.
func (uc *ProductUseCase) Create(ctx context.Context, dealerID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" || strings.TrimSpace(in.Name) == "" || in.Price.IsNegative() || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByDealerAndSKU(ctx, dealerID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		DealerID:    dealerID,
		CategoryID:  in.CategoryID,
		SKU:         sku,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Brand:       in.Brand,
		Price:       in.Price,
		Cost:        decimal.Zero,
		MinStock:    in.MinStock,
		ImageURL:    in.ImageURL,
		IsActive:    true,
		Attributes:  in.Attributes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// owned obtiene el producto verificando que pertenezca al dealer.
func (uc *ProductUseCase) owned(ctx context.Context, dealerID, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.DealerID != dealerID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Get producto con sus variantes.
func (uc *ProductUseCase) Get(ctx context.Context, dealerID, id string) (*dto.ProductResponse, error) {
	p, err := uc.owned(ctx, dealerID, id)
	if err != nil {
		return nil, err
	}
	variants, err := uc.repo.ListVariants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(p)
	for _, v := range variants {
		out.Variants = append(out.Variants, *toVariantResponse(v))
	}
	return out, nil
}

// Update actualiza un producto. No permite modificar Cost ni Stock.
func (uc *ProductUseCase) Update(ctx context.Context, dealerID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.owned(ctx, dealerID, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
		if p.Name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p.Price = *in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		p.MinStock = *in.MinStock
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if len(in.Attributes) > 0 {
		p.Attributes = in.Attributes
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Delete baja lógica (IsActive=false); el historial de ventas y lotes se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, dealerID, id string) error {
	if _, err := uc.owned(ctx, dealerID, id); err != nil {
		return err
	}
	return uc.repo.SetActive(ctx, id, false)
}

// List productos del dealer con filtros combinados y resumen del conjunto filtrado.
func (uc *ProductUseCase) List(ctx context.Context, dealerID string, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !entity.ValidStockStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	f := repository.ProductFilter{
		DealerID:   dealerID,
		CategoryID: in.CategoryID,
		Search:     strings.TrimSpace(in.Search),
		Status:     in.Status,
		SortBy:     in.SortBy,
		SortDesc:   in.SortDesc,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	switch in.Active {
	case "true":
		t := true
		f.Active = &t
	case "false":
		fl := false
		f.Active = &fl
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sum, err := uc.repo.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Summary: dto.ProductSummaryResponse{
			TotalProducts:  sum.TotalProducts,
			TotalUnits:     sum.TotalUnits,
			InventoryValue: sum.InventoryValue.Round(2),
			LowStock:       sum.LowStock,
			OutOfStock:     sum.OutOfStock,
		},
		Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// AddVariant agrega una variante al producto.
func (uc *ProductUseCase) AddVariant(ctx context.Context, dealerID, productID string, in dto.VariantRequest) (*dto.VariantResponse, error) {
	p, err := uc.owned(ctx, dealerID, productID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	v := &entity.ProductVariant{
		ID:         uuid.New().String(),
		ProductID:  p.ID,
		SKU:        strings.TrimSpace(in.SKU),
		Name:       strings.TrimSpace(in.Name),
		Price:      in.Price,
		Attributes: in.Attributes,
		IsActive:   in.IsActive == nil || *in.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}
	return toVariantResponse(v), nil
}

// ownedVariant variante del producto del dealer.
func (uc *ProductUseCase) ownedVariant(ctx context.Context, dealerID, productID, variantID string) (*entity.ProductVariant, error) {
	if _, err := uc.owned(ctx, dealerID, productID); err != nil {
		return nil, err
	}
	v, err := uc.repo.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.ProductID != productID {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

// UpdateVariant reemplaza los datos de la variante.
func (uc *ProductUseCase) UpdateVariant(ctx context.Context, dealerID, productID, variantID string, in dto.VariantRequest) (*dto.VariantResponse, error) {
	v, err := uc.ownedVariant(ctx, dealerID, productID, variantID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	v.SKU = strings.TrimSpace(in.SKU)
	v.Name = strings.TrimSpace(in.Name)
	v.Price = in.Price
	if len(in.Attributes) > 0 {
		v.Attributes = in.Attributes
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
	v.UpdatedAt = time.Now()
	if err := uc.repo.UpdateVariant(ctx, v); err != nil {
		return nil, err
	}
	return toVariantResponse(v), nil
}

// DeleteVariant elimina la variante.
func (uc *ProductUseCase) DeleteVariant(ctx context.Context, dealerID, productID, variantID string) error {
	if _, err := uc.ownedVariant(ctx, dealerID, productID, variantID); err != nil {
		return err
	}
	return uc.repo.DeleteVariant(ctx, variantID)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		DealerID:    p.DealerID,
		CategoryID:  p.CategoryID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Price:       p.Price,
		Cost:        p.Cost,
		MinStock:    p.MinStock,
		Stock:       p.Stock,
		StockStatus: p.StockStatus(),
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		Attributes:  p.Attributes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toVariantResponse(v *entity.ProductVariant) *dto.VariantResponse {
	return &dto.VariantResponse{
		ID:         v.ID,
		ProductID:  v.ProductID,
		SKU:        v.SKU,
		Name:       v.Name,
		Price:      v.Price,
		Attributes: v.Attributes,
		IsActive:   v.IsActive,
	}
}
