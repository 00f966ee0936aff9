package inventory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/inventory"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// UseCase motor de inventario por lotes: entradas, ajustes, consumo FIFO y consultas.
// Toda escritura corre en una transacción con bloqueo de lotes (SELECT FOR UPDATE).
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	batchRepo   repository.InventoryBatchRepository
	movRepo     repository.StockMovementRepository
	dealerRepo  repository.DealerRepository
	exporter    OverviewExporter
}

// NewUseCase construye el motor de inventario.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
	dealerRepo repository.DealerRepository,
	exporter OverviewExporter,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		batchRepo:   batchRepo,
		movRepo:     movRepo,
		dealerRepo:  dealerRepo,
		exporter:    exporter,
	}
}

// ConsumeInput salida de stock a consumir FIFO.
type ConsumeInput struct {
	DealerID  string
	ProductID string
	Quantity  int
	Type      string // OUT para ventas/pedidos, ADJUSTMENT para ajustes
	Reference string // número de venta o pedido
	Notes     string
	UserID    string
}

// RestoreInput devolución de stock como lote nuevo.
type RestoreInput struct {
	DealerID  string
	ProductID string
	Quantity  int
	UnitCost  decimal.Decimal
	Reference string
	Notes     string
	UserID    string
}

// productOf obtiene el producto y verifica que pertenezca al dealer.
func (uc *UseCase) productOf(ctx context.Context, dealerID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.DealerID != dealerID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ReceiveBatch registra un lote recibido, recalcula el costo promedio ponderado y guarda el movimiento IN.
func (uc *UseCase) ReceiveBatch(ctx context.Context, dealerID, userID string, in dto.ReceiveBatchRequest) (*dto.BatchResponse, error) {
	if in.Quantity <= 0 || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productOf(ctx, dealerID, in.ProductID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	batchNumber := strings.TrimSpace(in.BatchNumber)
	if batchNumber == "" {
		batchNumber = "L-" + now.Format("20060102-150405")
	}
	batch := &entity.InventoryBatch{
		ID:                uuid.New().String(),
		DealerID:          dealerID,
		ProductID:         product.ID,
		BatchNumber:       batchNumber,
		QuantityReceived:  in.Quantity,
		QuantityRemaining: in.Quantity,
		UnitCost:          in.UnitCost,
		ReceivedAt:        now,
		ExpiresAt:         in.ExpiresAt,
		CreatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(
		batchRepo repository.InventoryBatchRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// El costo vigente se lee de la fila bloqueada, no del producto leído antes de la tx
		locked, err := productRepo.GetForUpdate(ctx, dealerID, product.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		open, err := batchRepo.ListRemainingForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		stock := 0
		for _, b := range open {
			stock += b.QuantityRemaining
		}
		newCost := inventory.WeightedAverageCost(stock, locked.Cost, in.Quantity, in.UnitCost)
		if err := productRepo.UpdateCost(ctx, product.ID, newCost); err != nil {
			return err
		}
		if err := batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			DealerID:  dealerID,
			ProductID: product.ID,
			BatchID:   batch.ID,
			Type:      entity.MovementTypeIN,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost,
			Reference: batchNumber,
			CreatedBy: userID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("dealer_id", dealerID).Str("product_id", product.ID).Int("qty", in.Quantity).Msg("lote recibido")
	return toBatchResponse(batch), nil
}

// Adjust ajuste manual: delta positivo crea un lote de ajuste al costo actual; negativo consume FIFO.
func (uc *UseCase) Adjust(ctx context.Context, dealerID, userID string, in dto.AdjustStockRequest) error {
	if in.Delta == 0 {
		return domain.ErrInvalidInput
	}
	product, err := uc.productOf(ctx, dealerID, in.ProductID)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		batchRepo repository.InventoryBatchRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if in.Delta > 0 {
			locked, err := productRepo.GetForUpdate(ctx, dealerID, product.ID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			return uc.addBatchInTx(ctx, batchRepo, movRepo, entity.MovementTypeADJUSTMENT, RestoreInput{
				DealerID:  dealerID,
				ProductID: product.ID,
				Quantity:  in.Delta,
				UnitCost:  locked.Cost,
				Reference: "AJUSTE",
				Notes:     in.Notes,
				UserID:    userID,
			})
		}
		_, err := uc.ConsumeInTx(ctx, batchRepo, movRepo, ConsumeInput{
			DealerID:  dealerID,
			ProductID: product.ID,
			Quantity:  -in.Delta,
			Type:      entity.MovementTypeADJUSTMENT,
			Reference: "AJUSTE",
			Notes:     in.Notes,
			UserID:    userID,
		})
		return err
	})
}

// ConsumeInTx descuenta stock FIFO usando los repositorios del caller (misma transacción).
// Bloquea los lotes, asigna del más antiguo al más nuevo y registra un movimiento por lote.
// Devuelve el costo unitario ponderado de lo consumido. Si retorna error (ej: ErrInsufficientStock),
// el caller debe hacer rollback.
func (uc *UseCase) ConsumeInTx(
	ctx context.Context,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
	in ConsumeInput,
) (decimal.Decimal, error) {
	batches, err := batchRepo.ListRemainingForUpdate(ctx, in.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	allocs, err := inventory.AllocateFIFO(batches, in.Quantity)
	if err != nil {
		return decimal.Zero, err
	}
	movType := in.Type
	if movType == "" {
		movType = entity.MovementTypeOUT
	}
	now := time.Now()
	for _, a := range allocs {
		if err := batchRepo.DecrementRemaining(ctx, a.BatchID, a.Quantity); err != nil {
			return decimal.Zero, err
		}
		if err := movRepo.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			DealerID:  in.DealerID,
			ProductID: in.ProductID,
			BatchID:   a.BatchID,
			Type:      movType,
			Quantity:  -a.Quantity,
			UnitCost:  a.UnitCost,
			Reference: in.Reference,
			Notes:     in.Notes,
			CreatedBy: in.UserID,
			CreatedAt: now,
		}); err != nil {
			return decimal.Zero, err
		}
	}
	return inventory.AllocatedUnitCost(allocs), nil
}

// RestoreInTx devuelve stock como un lote RETURN al costo indicado (anulaciones).
func (uc *UseCase) RestoreInTx(
	ctx context.Context,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
	in RestoreInput,
) error {
	return uc.addBatchInTx(ctx, batchRepo, movRepo, entity.MovementTypeRETURN, in)
}

func (uc *UseCase) addBatchInTx(
	ctx context.Context,
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
	movType string,
	in RestoreInput,
) error {
	if in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	batch := &entity.InventoryBatch{
		ID:                uuid.New().String(),
		DealerID:          in.DealerID,
		ProductID:         in.ProductID,
		BatchNumber:       fmt.Sprintf("%s-%s", movType, in.Reference),
		QuantityReceived:  in.Quantity,
		QuantityRemaining: in.Quantity,
		UnitCost:          in.UnitCost,
		ReceivedAt:        now,
		CreatedAt:         now,
	}
	if err := batchRepo.Create(ctx, batch); err != nil {
		return err
	}
	return movRepo.Create(ctx, &entity.StockMovement{
		ID:        uuid.New().String(),
		DealerID:  in.DealerID,
		ProductID: in.ProductID,
		BatchID:   batch.ID,
		Type:      movType,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reference: in.Reference,
		Notes:     in.Notes,
		CreatedBy: in.UserID,
		CreatedAt: now,
	})
}

// Overview resumen de stock por producto con valorización y alertas.
func (uc *UseCase) Overview(ctx context.Context, dealerID string, in dto.ProductListRequest) (*dto.StockOverviewResponse, error) {
	f := repository.ProductFilter{
		DealerID:   dealerID,
		CategoryID: in.CategoryID,
		Search:     in.Search,
		Status:     in.Status,
		SortBy:     in.SortBy,
		SortDesc:   in.SortDesc,
	}
	rows, err := uc.batchRepo.StockOverview(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.StockOverviewResponse{Items: make([]dto.StockOverviewItem, 0, len(rows)), TotalValue: decimal.Zero}
	for _, r := range rows {
		status := entity.StockStatus(r.Stock, r.MinStock)
		value := decimal.Zero
		if r.Stock > 0 {
			value = r.Cost.Mul(decimal.NewFromInt(int64(r.Stock))).Round(2)
		}
		switch status {
		case entity.StockStatusLowStock:
			out.LowStock++
		case entity.StockStatusOutOfStock:
			out.OutOfStock++
		}
		out.TotalValue = out.TotalValue.Add(value)
		out.Items = append(out.Items, dto.StockOverviewItem{
			ProductID:  r.ProductID,
			SKU:        r.SKU,
			Name:       r.Name,
			Stock:      r.Stock,
			MinStock:   r.MinStock,
			Status:     status,
			Cost:       r.Cost,
			Value:      value,
			BatchCount: r.BatchCount,
		})
	}
	return out, nil
}

// ExportOverview escribe el resumen de stock del dealer como XLSX.
func (uc *UseCase) ExportOverview(ctx context.Context, dealerID string, w io.Writer) error {
	if uc.exporter == nil {
		return domain.ErrUnavailable
	}
	dealer, err := uc.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return err
	}
	if dealer == nil {
		return domain.ErrNotFound
	}
	ov, err := uc.Overview(ctx, dealerID, dto.ProductListRequest{SortBy: "name"})
	if err != nil {
		return err
	}
	return uc.exporter.WriteOverview(w, dealer.Name, ov.Items)
}

// ListBatches lotes del producto (incluye agotados), del más antiguo al más nuevo.
func (uc *UseCase) ListBatches(ctx context.Context, dealerID, productID string) ([]dto.BatchResponse, error) {
	if _, err := uc.productOf(ctx, dealerID, productID); err != nil {
		return nil, err
	}
	list, err := uc.batchRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBatchResponse(b))
	}
	return out, nil
}

// ListMovements kardex del producto, más reciente primero.
func (uc *UseCase) ListMovements(ctx context.Context, dealerID, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if _, err := uc.productOf(ctx, dealerID, productID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, total, err := uc.movRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			BatchID:   m.BatchID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			Reference: m.Reference,
			Notes:     m.Notes,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toBatchResponse(b *entity.InventoryBatch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		BatchNumber:       b.BatchNumber,
		QuantityReceived:  b.QuantityReceived,
		QuantityRemaining: b.QuantityRemaining,
		UnitCost:          b.UnitCost,
		ReceivedAt:        b.ReceivedAt,
		ExpiresAt:         b.ExpiresAt,
	}
}
