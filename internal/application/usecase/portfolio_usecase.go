package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/dealerhub-api/internal/application/auth"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

const portfolioRecentOrders = 5

// CustomerOrderLister pedidos recientes de un cliente con sus sub-pedidos.
type CustomerOrderLister interface {
	ListCustomerOrders(ctx context.Context, customerID string, limit int) ([]dto.OrderResponse, error)
}

// PortfolioUseCase perfil del usuario con su actividad.
type PortfolioUseCase struct {
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	dealerRepo  repository.DealerRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	orders      CustomerOrderLister
	now         func() time.Time
}

// NewPortfolioUseCase construye el caso de uso.
func NewPortfolioUseCase(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	dealerRepo repository.DealerRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	orders CustomerOrderLister,
) *PortfolioUseCase {
	return &PortfolioUseCase{
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		dealerRepo:  dealerRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		orders:      orders,
		now:         time.Now,
	}
}

// Portfolio perfil, número de pedidos, total gastado y últimos pedidos. El personal de un dealer
// ve además el resumen de su tienda.
func (uc *PortfolioUseCase) Portfolio(ctx context.Context, userID string) (*dto.PortfolioResponse, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	count, spent, err := uc.orderRepo.CustomerStats(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	recent, err := uc.orders.ListCustomerOrders(ctx, u.ID, portfolioRecentOrders)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []dto.OrderResponse{}
	}
	out := &dto.PortfolioResponse{
		User:         *auth.ToUserResponse(u),
		OrderCount:   count,
		TotalSpent:   spent.Round(2),
		RecentOrders: recent,
	}
	if u.IsDealerStaff() {
		snap, err := uc.dealerSnapshot(ctx, u.DealerID)
		if err != nil {
			return nil, err
		}
		out.Dealer = snap
	}
	return out, nil
}

func (uc *PortfolioUseCase) dealerSnapshot(ctx context.Context, dealerID string) (*dto.DealerSnapshot, error) {
	d, err := uc.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	active := true
	_, activeProducts, err := uc.productRepo.List(ctx, repository.ProductFilter{DealerID: d.ID, Active: &active, Limit: 1})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	sum, err := uc.saleRepo.Summary(ctx, repository.SaleFilter{DealerID: d.ID, From: &from, To: &now})
	if err != nil {
		return nil, err
	}
	return &dto.DealerSnapshot{
		ID:             d.ID,
		Name:           d.Name,
		Slug:           d.Slug,
		Status:         d.Status,
		ActiveProducts: activeProducts,
		MonthSales:     sum.Gross.Round(2),
	}, nil
}
