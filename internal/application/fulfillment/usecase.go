// Package fulfillment gestiona los pedidos del marketplace: partición por dealer en sub-pedidos,
// descuento de stock al confirmar la compra y avance del despacho.
package fulfillment

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
	"github.com/jhoicas/dealerhub-api/internal/domain/workflow"
)

// Flow etapas de despacho de un sub-pedido.
var Flow = workflow.New("sub_order", entity.FulfillmentStages...)

// OrderTxRunner transacción con repos de pedidos e inventario.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		batchRepo repository.InventoryBatchRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// StockConsumer descuento FIFO dentro de la transacción del caller.
type StockConsumer interface {
	ConsumeInTx(ctx context.Context, batchRepo repository.InventoryBatchRepository, movRepo repository.StockMovementRepository, in inventory.ConsumeInput) (decimal.Decimal, error)
}

// UseCase casos de uso de pedidos.
type UseCase struct {
	txRunner    OrderTxRunner
	stock       StockConsumer
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	dealerRepo  repository.DealerRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner OrderTxRunner,
	stock StockConsumer,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	dealerRepo repository.DealerRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, stock: stock, orderRepo: orderRepo, productRepo: productRepo, dealerRepo: dealerRepo}
}

type orderLine struct {
	product   *entity.Product
	variantID string
	name      string
	qty       int
	price     decimal.Decimal
}

// PlaceOrder agrupa las líneas por dealer y en UNA transacción crea pedido, sub-pedidos y líneas,
// descontando stock FIFO. Productos inactivos o de dealers no activos se rechazan.
func (uc *UseCase) PlaceOrder(ctx context.Context, customerID string, in dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	if len(in.Items) == 0 || address == "" {
		return nil, domain.ErrInvalidInput
	}
	byDealer := map[string][]orderLine{}
	var dealerOrder []string
	activeDealer := map[string]bool{}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, domain.ErrNotFound
		}
		ok, seen := activeDealer[product.DealerID]
		if !seen {
			d, err := uc.dealerRepo.GetByID(ctx, product.DealerID)
			if err != nil {
				return nil, err
			}
			ok = d.IsActive()
			activeDealer[product.DealerID] = ok
		}
		if !ok {
			return nil, domain.ErrNotFound
		}
		line := orderLine{product: product, name: product.Name, qty: it.Quantity, price: product.Price}
		if it.VariantID != "" {
			v, err := uc.productRepo.GetVariant(ctx, it.VariantID)
			if err != nil {
				return nil, err
			}
			if v == nil || v.ProductID != product.ID || !v.IsActive {
				return nil, domain.ErrNotFound
			}
			line.variantID = v.ID
			line.name = product.Name + " - " + v.Name
			if v.Price.IsPositive() {
				line.price = v.Price
			}
		}
		if _, exists := byDealer[product.DealerID]; !exists {
			dealerOrder = append(dealerOrder, product.DealerID)
		}
		byDealer[product.DealerID] = append(byDealer[product.DealerID], line)
	}

	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		ShippingAddress: address,
		Status:          Flow.Initial(),
		Total:           decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var subs []dto.SubOrderResponse

	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		batchRepo repository.InventoryBatchRepository,
		movRepo repository.StockMovementRepository,
	) error {
		n, err := orderRepo.NextNumber(ctx)
		if err != nil {
			return err
		}
		order.Number = fmt.Sprintf("PED-%06d", n)
		for _, lines := range byDealer {
			for _, l := range lines {
				order.Total = order.Total.Add(lineTotal(l.qty, l.price))
			}
		}
		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return err
		}
		for _, dealerID := range dealerOrder {
			sub := &entity.SubOrder{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				DealerID:  dealerID,
				Subtotal:  decimal.Zero,
				Status:    Flow.Initial(),
				Version:   1,
				CreatedAt: now,
				UpdatedAt: now,
			}
			for _, l := range byDealer[dealerID] {
				sub.Subtotal = sub.Subtotal.Add(lineTotal(l.qty, l.price))
			}
			if err := orderRepo.CreateSubOrder(ctx, sub); err != nil {
				return err
			}
			var items []*entity.OrderItem
			for _, l := range byDealer[dealerID] {
				unitCost, err := uc.stock.ConsumeInTx(ctx, batchRepo, movRepo, inventory.ConsumeInput{
					DealerID:  dealerID,
					ProductID: l.product.ID,
					Quantity:  l.qty,
					Type:      entity.MovementTypeOUT,
					Reference: order.Number,
					UserID:    customerID,
				})
				if err != nil {
					return fmt.Errorf("%s: %w", l.product.SKU, err)
				}
				item := &entity.OrderItem{
					ID:         uuid.New().String(),
					SubOrderID: sub.ID,
					ProductID:  l.product.ID,
					VariantID:  l.variantID,
					Name:       l.name,
					Quantity:   l.qty,
					UnitPrice:  l.price,
					UnitCost:   unitCost,
					LineTotal:  lineTotal(l.qty, l.price),
				}
				if err := orderRepo.CreateItem(ctx, item); err != nil {
					return err
				}
				items = append(items, item)
			}
			subs = append(subs, *toSubOrderResponse(sub, items))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("order", order.Number).Int("sub_orders", len(subs)).Str("total", order.Total.StringFixed(2)).Msg("pedido creado")
	out := toOrderResponse(order)
	out.SubOrders = subs
	return out, nil
}

// ListDealerSubOrders sub-pedidos del dealer, opcionalmente por estado.
func (uc *UseCase) ListDealerSubOrders(ctx context.Context, dealerID, status string, page dto.PageRequest) (*dto.SubOrderListResponse, error) {
	if status != "" && !Flow.Contains(status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, total, err := uc.orderRepo.ListDealerSubOrders(ctx, dealerID, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SubOrderResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSubOrderResponse(s, nil))
	}
	return &dto.SubOrderListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total}}, nil
}

// GetSubOrder sub-pedido del dealer con sus líneas.
func (uc *UseCase) GetSubOrder(ctx context.Context, dealerID, id string) (*dto.SubOrderResponse, error) {
	sub, err := uc.orderRepo.GetSubOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.DealerID != dealerID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orderRepo.ItemsOf(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	return toSubOrderResponse(sub, items), nil
}

// AdvanceSubOrder avanza el despacho una etapa. Para pasar a shipped exige número de guía
// (puede venir en la misma llamada). El estado del pedido refleja la etapa menos avanzada
// de sus sub-pedidos, así queda delivered cuando todos fueron entregados.
func (uc *UseCase) AdvanceSubOrder(ctx context.Context, dealerID, id string, in dto.AdvanceSubOrderRequest) (*dto.SubOrderResponse, error) {
	var sub *entity.SubOrder
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.InventoryBatchRepository,
		_ repository.StockMovementRepository,
	) error {
		var err error
		sub, err = orderRepo.GetSubOrder(ctx, id)
		if err != nil {
			return err
		}
		if sub == nil || sub.DealerID != dealerID {
			return domain.ErrNotFound
		}
		if sub.Version != in.Version {
			return domain.ErrConflict
		}
		// Entregas concurrentes de sub-pedidos hermanos se serializan sobre el pedido
		if err := orderRepo.LockOrder(ctx, sub.OrderID); err != nil {
			return err
		}
		next, err := Flow.Next(sub.Status)
		if err != nil {
			return err
		}
		tracking := strings.TrimSpace(in.TrackingNumber)
		if tracking == "" {
			tracking = sub.TrackingNumber
		}
		carrier := strings.TrimSpace(in.Carrier)
		if carrier == "" {
			carrier = sub.Carrier
		}
		if next == entity.OrderStatusShipped && tracking == "" {
			return fmt.Errorf("%w: número de guía requerido", domain.ErrPreconditionFailed)
		}
		now := time.Now()
		if err := orderRepo.AdvanceSubOrder(ctx, sub.ID, in.Version, next, tracking, carrier, now); err != nil {
			return err
		}
		sub.Status = next
		sub.TrackingNumber = tracking
		sub.Carrier = carrier
		sub.Version++
		sub.UpdatedAt = now

		siblings, err := orderRepo.SubOrdersOf(ctx, sub.OrderID)
		if err != nil {
			return err
		}
		statuses := make([]string, 0, len(siblings))
		for _, s := range siblings {
			if s.ID == sub.ID {
				statuses = append(statuses, next)
				continue
			}
			statuses = append(statuses, s.Status)
		}
		return orderRepo.UpdateOrderStatus(ctx, sub.OrderID, AggregateStatus(statuses), now)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("sub_order", sub.ID).Str("status", sub.Status).Msg("sub-pedido avanzado")
	return toSubOrderResponse(sub, nil), nil
}

// AggregateStatus etapa menos avanzada entre los sub-pedidos.
func AggregateStatus(statuses []string) string {
	if len(statuses) == 0 {
		return Flow.Initial()
	}
	least := statuses[0]
	for _, s := range statuses[1:] {
		if Flow.Index(s) < Flow.Index(least) {
			least = s
		}
	}
	return least
}

// ListCustomerOrders pedidos del cliente con sus sub-pedidos y líneas.
func (uc *UseCase) ListCustomerOrders(ctx context.Context, customerID string, limit int) ([]dto.OrderResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	orders, err := uc.orderRepo.ListCustomerOrders(ctx, customerID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp, err := uc.expand(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// GetCustomerOrder pedido del cliente.
func (uc *UseCase) GetCustomerOrder(ctx context.Context, customerID, id string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return uc.expand(ctx, o)
}

func (uc *UseCase) expand(ctx context.Context, o *entity.Order) (*dto.OrderResponse, error) {
	resp := toOrderResponse(o)
	subs, err := uc.orderRepo.SubOrdersOf(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		items, err := uc.orderRepo.ItemsOf(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		resp.SubOrders = append(resp.SubOrders, *toSubOrderResponse(s, items))
	}
	return resp, nil
}

func lineTotal(qty int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
	}
}

func toSubOrderResponse(s *entity.SubOrder, items []*entity.OrderItem) *dto.SubOrderResponse {
	out := &dto.SubOrderResponse{
		ID:             s.ID,
		OrderID:        s.OrderID,
		DealerID:       s.DealerID,
		Subtotal:       s.Subtotal,
		Status:         s.Status,
		TrackingNumber: s.TrackingNumber,
		Carrier:        s.Carrier,
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if next, err := Flow.Next(s.Status); err == nil {
		out.NextStatus = next
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return out
}
