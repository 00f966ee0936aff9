// Package pos contiene el punto de venta de mostrador: cobro atómico con descuento FIFO,
// anulación con devolución de stock, historial y recibo PDF.
package pos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// UseCase casos de uso del POS.
type UseCase struct {
	txRunner    SaleTxRunner
	stock       StockConsumer
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	dealerRepo  repository.DealerRepository
	receipts    ReceiptGenerator
}

// NewUseCase construye el caso de uso del POS.
func NewUseCase(
	txRunner SaleTxRunner,
	stock StockConsumer,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	dealerRepo repository.DealerRepository,
	receipts ReceiptGenerator,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		stock:       stock,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		dealerRepo:  dealerRepo,
		receipts:    receipts,
	}
}

type cartLine struct {
	product   *entity.Product
	variantID string
	desc      string
	qty       int
	price     decimal.Decimal
}

// Checkout valida el carrito, calcula totales y en UNA transacción inserta la venta,
// descuenta FIFO cada línea e inserta las líneas con su costo real. Cualquier fallo revierte todo.
func (uc *UseCase) Checkout(ctx context.Context, dealerID, cashierID string, in dto.CheckoutRequest) (*dto.SaleResponse, error) {
	if !entity.ValidPaymentMethod(in.PaymentMethod) || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	dealer, err := uc.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if dealer == nil {
		return nil, domain.ErrNotFound
	}
	if !dealer.IsActive() {
		return nil, domain.ErrForbidden
	}

	lines, err := uc.resolveCart(ctx, dealerID, in.Items)
	if err != nil {
		return nil, err
	}
	priced := make([]Line, len(lines))
	for i, l := range lines {
		priced[i] = Line{Quantity: l.qty, UnitPrice: l.price}
	}
	totals, err := ComputeTotals(priced, in.Discount, dealer.TaxRate, in.PaymentMethod, in.AmountPaid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		DealerID:      dealerID,
		CashierID:     cashierID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: in.CustomerPhone,
		PaymentMethod: in.PaymentMethod,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		TaxTotal:      totals.TaxTotal,
		Total:         totals.Total,
		AmountPaid:    totals.AmountPaid,
		ChangeDue:     totals.ChangeDue,
		Status:        entity.SaleStatusCompleted,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var items []*entity.SaleItem

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		batchRepo repository.InventoryBatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		n, err := saleRepo.NextNumber(ctx, dealerID)
		if err != nil {
			return err
		}
		sale.Number = fmt.Sprintf("V-%06d", n)
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, l := range lines {
			unitCost, err := uc.stock.ConsumeInTx(ctx, batchRepo, movRepo, inventory.ConsumeInput{
				DealerID:  dealerID,
				ProductID: l.product.ID,
				Quantity:  l.qty,
				Type:      entity.MovementTypeOUT,
				Reference: sale.Number,
				UserID:    cashierID,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", l.product.SKU, err)
			}
			item := &entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   l.product.ID,
				VariantID:   l.variantID,
				Description: l.desc,
				Quantity:    l.qty,
				UnitPrice:   l.price,
				UnitCost:    unitCost,
				LineTotal:   LineTotal(l.qty, l.price),
			}
			if err := saleRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("dealer_id", dealerID).
		Str("sale", sale.Number).
		Str("total", sale.Total.StringFixed(2)).
		Int("lines", len(items)).
		Msg("venta POS completada")
	return toSaleResponse(sale, items), nil
}

// resolveCart carga productos/variantes del dealer y fija el precio de cada línea.
func (uc *UseCase) resolveCart(ctx context.Context, dealerID string, req []dto.CartItemRequest) ([]cartLine, error) {
	lines := make([]cartLine, 0, len(req))
	for _, it := range req {
		if it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.DealerID != dealerID {
			return nil, domain.ErrNotFound
		}
		if !product.IsActive {
			return nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, product.SKU)
		}
		line := cartLine{product: product, desc: product.Name, qty: it.Quantity, price: product.Price}
		if it.VariantID != "" {
			v, err := uc.productRepo.GetVariant(ctx, it.VariantID)
			if err != nil {
				return nil, err
			}
			if v == nil || v.ProductID != product.ID || !v.IsActive {
				return nil, domain.ErrNotFound
			}
			line.variantID = v.ID
			line.desc = product.Name + " - " + v.Name
			if v.Price.IsPositive() {
				line.price = v.Price
			}
		}
		if it.UnitPrice != nil {
			if it.UnitPrice.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			line.price = *it.UnitPrice
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Void anula una venta completada: devuelve el stock como lotes RETURN al costo de cada línea.
func (uc *UseCase) Void(ctx context.Context, dealerID, userID, saleID string, in dto.VoidSaleRequest) (*dto.SaleResponse, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		sale  *entity.Sale
		items []*entity.SaleItem
	)
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		batchRepo repository.InventoryBatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		sale, err = saleRepo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil || sale.DealerID != dealerID {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusCompleted {
			return fmt.Errorf("%w: la venta ya está anulada", domain.ErrConflict)
		}
		items, err = saleRepo.Items(ctx, sale.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := uc.stock.RestoreInTx(ctx, batchRepo, movRepo, inventory.RestoreInput{
				DealerID:  dealerID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitCost:  it.UnitCost,
				Reference: sale.Number,
				Notes:     reason,
				UserID:    userID,
			}); err != nil {
				return err
			}
		}
		now := time.Now()
		if err := saleRepo.MarkVoided(ctx, sale.ID, reason, now); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusVoided
		sale.VoidReason = reason
		sale.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("dealer_id", dealerID).Str("sale", sale.Number).Msg("venta anulada")
	return toSaleResponse(sale, items), nil
}

// Get venta con sus líneas.
func (uc *UseCase) Get(ctx context.Context, dealerID, saleID string) (*dto.SaleResponse, error) {
	sale, items, err := uc.load(ctx, dealerID, saleID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

func (uc *UseCase) load(ctx context.Context, dealerID, saleID string) (*entity.Sale, []*entity.SaleItem, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil || sale.DealerID != dealerID {
		return nil, nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.Items(ctx, sale.ID)
	if err != nil {
		return nil, nil, err
	}
	return sale, items, nil
}

// List historial de ventas con resumen (conteo, bruto, impuestos, ticket promedio, por medio de pago).
func (uc *UseCase) List(ctx context.Context, dealerID string, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	f := repository.SaleFilter{
		DealerID:      dealerID,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		CashierID:     in.CashierID,
		Search:        strings.TrimSpace(in.Search),
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.From != "" {
		from, err := time.ParseInLocation("2006-01-02", in.From, time.Local)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.From = &from
	}
	if in.To != "" {
		to, err := time.ParseInLocation("2006-01-02", in.To, time.Local)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		// hasta el final del día
		to = to.Add(24*time.Hour - time.Nanosecond)
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.ErrInvalidInput
	}

	list, total, err := uc.saleRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sum, err := uc.saleRepo.Summary(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s, nil))
	}
	avg := decimal.Zero
	if sum.Count > 0 {
		avg = sum.Gross.Div(decimal.NewFromInt(int64(sum.Count))).Round(2)
	}
	byPayment := sum.ByPayment
	if byPayment == nil {
		byPayment = map[string]decimal.Decimal{}
	}
	return &dto.SaleListResponse{
		Items: items,
		Summary: dto.SaleSummaryResponse{
			Count:         sum.Count,
			Gross:         sum.Gross,
			Tax:           sum.Tax,
			AverageTicket: avg,
			ByPayment:     byPayment,
		},
		Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Receipt genera el PDF del recibo de la venta.
func (uc *UseCase) Receipt(ctx context.Context, dealerID, saleID string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", domain.ErrUnavailable
	}
	sale, items, err := uc.load(ctx, dealerID, saleID)
	if err != nil {
		return nil, "", err
	}
	dealer, err := uc.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return nil, "", err
	}
	if dealer == nil {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := uc.receipts.Generate(dealer, sale, items)
	if err != nil {
		return nil, "", fmt.Errorf("generar recibo: %w", err)
	}
	return pdf, sale.Number + ".pdf", nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		CashierID:     s.CashierID,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		PaymentMethod: s.PaymentMethod,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		TaxTotal:      s.TaxTotal,
		Total:         s.Total,
		AmountPaid:    s.AmountPaid,
		ChangeDue:     s.ChangeDue,
		Status:        s.Status,
		Notes:         s.Notes,
		VoidReason:    s.VoidReason,
		CreatedAt:     s.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			UnitCost:    it.UnitCost,
			LineTotal:   it.LineTotal,
		})
	}
	return out
}
