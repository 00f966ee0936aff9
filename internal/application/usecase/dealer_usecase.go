package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/application/auth"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
	"github.com/jhoicas/dealerhub-api/pkg/slug"
)

const (
	storefrontTTL      = 5 * time.Minute
	storefrontMaxItems = 200
)

// DealerUseCase registro de dealers, ajustes de la tienda, vitrina pública y administración.
type DealerUseCase struct {
	txRunner    DealerTxRunner
	dealerRepo  repository.DealerRepository
	productRepo repository.ProductRepository
	cache       ports.Cache
}

// NewDealerUseCase construye el caso de uso. cache puede ser ports.NopCache{}.
func NewDealerUseCase(
	txRunner DealerTxRunner,
	dealerRepo repository.DealerRepository,
	productRepo repository.ProductRepository,
	cache ports.Cache,
) *DealerUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &DealerUseCase{txRunner: txRunner, dealerRepo: dealerRepo, productRepo: productRepo, cache: cache}
}

// Register crea el dealer en estado pending y su usuario owner en una sola transacción.
// Slug o email repetidos devuelven ErrDuplicate / ErrEmailAlreadyExists.
func (uc *DealerUseCase) Register(ctx context.Context, in dto.RegisterDealerRequest) (*dto.RegisterDealerResponse, error) {
	s := slug.Make(in.Name)
	if s == "" || len(in.OwnerPassword) < 8 {
		return nil, domain.ErrInvalidInput
	}
	hash, err := auth.HashPassword(in.OwnerPassword)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	dealer := &entity.Dealer{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Slug:        s,
		LegalName:   in.LegalName,
		TaxID:       in.TaxID,
		Description: in.Description,
		Email:       auth.NormalizeEmail(in.Email),
		Phone:       in.Phone,
		Address:     in.Address,
		City:        in.City,
		TaxRate:     decimal.Zero,
		Currency:    "COP",
		Status:      entity.DealerStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := &entity.User{
		ID:           uuid.New().String(),
		DealerID:     dealer.ID,
		Email:        auth.NormalizeEmail(in.OwnerEmail),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.OwnerName),
		Phone:        in.Phone,
		Role:         entity.RoleOwner,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunDealer(ctx, func(dealerRepo repository.DealerRepository, userRepo repository.UserRepository) error {
		existing, err := dealerRepo.GetBySlug(ctx, dealer.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		u, err := userRepo.GetByEmail(ctx, owner.Email)
		if err != nil {
			return err
		}
		if u != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := dealerRepo.Create(ctx, dealer); err != nil {
			return err
		}
		if err := userRepo.Create(ctx, owner); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrEmailAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("dealer_id", dealer.ID).Str("slug", dealer.Slug).Msg("dealer registrado, pendiente de aprobación")
	return &dto.RegisterDealerResponse{
		Dealer: *toDealerResponse(dealer),
		Owner:  *auth.ToUserResponse(owner),
	}, nil
}

// GetSettings ajustes del dealer.
func (uc *DealerUseCase) GetSettings(ctx context.Context, dealerID string) (*dto.DealerResponse, error) {
	d, err := uc.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return toDealerResponse(d), nil
}

// UpdateSettings aplica el parche. TaxRate debe estar en [0, 1). Invalida la vitrina en caché.
func (uc *DealerUseCase) UpdateSettings(ctx context.Context, dealerID string, in dto.UpdateDealerSettingsRequest) (*dto.DealerResponse, error) {
	d, err := uc.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.LegalName != nil {
		d.LegalName = *in.LegalName
	}
	if in.TaxID != nil {
		d.TaxID = *in.TaxID
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.Email != nil {
		d.Email = auth.NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		d.Phone = *in.Phone
	}
	if in.Address != nil {
		d.Address = *in.Address
	}
	if in.City != nil {
		d.City = *in.City
	}
	if in.LogoURL != nil {
		d.LogoURL = *in.LogoURL
	}
	if in.BannerURL != nil {
		d.BannerURL = *in.BannerURL
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() || !in.TaxRate.LessThan(decimal.NewFromInt(1)) {
			return nil, domain.ErrInvalidInput
		}
		d.TaxRate = *in.TaxRate
	}
	if in.Currency != nil {
		d.Currency = strings.ToUpper(*in.Currency)
	}
	if d.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	d.UpdatedAt = time.Now()
	if err := uc.dealerRepo.Update(ctx, d); err != nil {
		return nil, err
	}
	uc.invalidateStorefront(ctx, d.Slug)
	return toDealerResponse(d), nil
}

// Storefront vitrina pública: dealer activo + productos activos con estado de stock. Cacheada 5 minutos.
func (uc *DealerUseCase) Storefront(ctx context.Context, dealerSlug string) (*dto.StorefrontResponse, error) {
	key := storefrontKey(dealerSlug)
	if raw, err := uc.cache.Get(ctx, key); err == nil {
		var out dto.StorefrontResponse
		if json.Unmarshal(raw, &out) == nil {
			return &out, nil
		}
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("caché no disponible")
	}

	d, err := uc.dealerRepo.GetBySlug(ctx, dealerSlug)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.IsActive() {
		return nil, domain.ErrNotFound
	}
	active := true
	list, _, err := uc.productRepo.List(ctx, repository.ProductFilter{
		DealerID: d.ID,
		Active:   &active,
		SortBy:   "name",
		Limit:    storefrontMaxItems,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.StorefrontResponse{Dealer: *toDealerResponse(d), Products: make([]dto.ProductResponse, 0, len(list))}
	// datos internos fuera de la vitrina pública
	out.Dealer.TaxID = ""
	out.Dealer.LegalName = ""
	for _, p := range list {
		pr := toProductResponse(p)
		pr.Cost = decimal.Zero
		out.Products = append(out.Products, *pr)
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := uc.cache.Set(ctx, key, raw, storefrontTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear la vitrina")
		}
	}
	return out, nil
}

// List administración de dealers (superadmin).
func (uc *DealerUseCase) List(ctx context.Context, in dto.DealerListRequest) (*dto.DealerListResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !entity.ValidDealerStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	list, total, err := uc.dealerRepo.List(ctx, repository.DealerFilter{
		Status: in.Status,
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.DealerResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDealerResponse(d))
	}
	return &dto.DealerListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total}}, nil
}

// SetStatus aprueba, suspende o rechaza un dealer (superadmin).
func (uc *DealerUseCase) SetStatus(ctx context.Context, id, status string) (*dto.DealerResponse, error) {
	if !entity.ValidDealerStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.dealerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.dealerRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	log.Info().Str("dealer_id", id).Str("from", d.Status).Str("to", status).Msg("estado de dealer actualizado")
	d.Status = status
	uc.invalidateStorefront(ctx, d.Slug)
	if err := uc.cache.Delete(ctx, auth.DealerStatusKey(id)); err != nil {
		log.Warn().Err(err).Str("dealer_id", id).Msg("no se pudo invalidar el estado del dealer")
	}
	return toDealerResponse(d), nil
}

func (uc *DealerUseCase) invalidateStorefront(ctx context.Context, dealerSlug string) {
	if err := uc.cache.Delete(ctx, storefrontKey(dealerSlug)); err != nil {
		log.Warn().Err(err).Str("slug", dealerSlug).Msg("no se pudo invalidar la vitrina")
	}
}

func storefrontKey(dealerSlug string) string { return "storefront:" + dealerSlug }

func toDealerResponse(d *entity.Dealer) *dto.DealerResponse {
	return &dto.DealerResponse{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		LegalName:   d.LegalName,
		TaxID:       d.TaxID,
		Description: d.Description,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		City:        d.City,
		LogoURL:     d.LogoURL,
		BannerURL:   d.BannerURL,
		TaxRate:     d.TaxRate,
		Currency:    d.Currency,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
