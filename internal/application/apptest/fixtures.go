package apptest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// SeedDealer registra un dealer con el estado indicado.
func (s *Store) SeedDealer(slug, status string, taxRate decimal.Decimal) *entity.Dealer {
	now := time.Now()
	d := entity.Dealer{
		ID: uuid.New().String(), Name: "Dealer " + slug, Slug: slug, LegalName: "Dealer SAS", TaxID: "900123456",
		TaxRate: taxRate, Currency: "COP", Status: status, CreatedAt: now, UpdatedAt: now,
	}
	s.mu.Lock()
	s.dealers[d.ID] = d
	s.mu.Unlock()
	return &d
}

// SeedUser registra un usuario activo. passwordHash puede ir vacío si la prueba no hace login.
func (s *Store) SeedUser(dealerID, role, email, passwordHash string) *entity.User {
	now := time.Now()
	u := entity.User{
		ID: uuid.New().String(), DealerID: dealerID, Email: email, PasswordHash: passwordHash,
		Name: email, Role: role, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
	return &u
}

// SeedProduct registra un producto activo sin stock.
func (s *Store) SeedProduct(dealerID, sku string, price decimal.Decimal, minStock int) *entity.Product {
	now := time.Now()
	p := entity.Product{
		ID: uuid.New().String(), DealerID: dealerID, SKU: sku, Name: "Producto " + sku,
		Price: price, Cost: decimal.Zero, MinStock: minStock, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()
	return &p
}

// SeedBatch registra un lote con saldo completo.
func (s *Store) SeedBatch(dealerID, productID string, qty int, unitCost decimal.Decimal, receivedAt time.Time) *entity.InventoryBatch {
	b := entity.InventoryBatch{
		ID: uuid.New().String(), DealerID: dealerID, ProductID: productID, BatchNumber: receivedAt.Format("L-150405.000"),
		QuantityReceived: qty, QuantityRemaining: qty, UnitCost: unitCost, ReceivedAt: receivedAt, CreatedAt: receivedAt,
	}
	s.mu.Lock()
	s.batches = append(s.batches, b)
	s.mu.Unlock()
	return &b
}

// SeedCategory registra una categoría activa.
func (s *Store) SeedCategory(parentID, name, slug string) *entity.Category {
	now := time.Now()
	c := entity.Category{ID: uuid.New().String(), ParentID: parentID, Name: name, Slug: slug, IsActive: true, CreatedAt: now, UpdatedAt: now}
	s.mu.Lock()
	s.categories[c.ID] = c
	s.mu.Unlock()
	return &c
}

// Batch estado actual de un lote.
func (s *Store) Batch(id string) entity.InventoryBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.batches {
		if b.ID == id {
			return b
		}
	}
	return entity.InventoryBatch{}
}

// Dec atajo para decimales en pruebas.
func Dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
