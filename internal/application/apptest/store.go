// Package apptest implementaciones en memoria de los puertos de persistencia para pruebas
// de casos de uso. Los TxRunner guardan una copia del estado y la restauran si el callback falla.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	dealers    map[string]entity.Dealer
	users      map[string]entity.User
	categories map[string]entity.Category
	products   map[string]entity.Product
	variants   map[string]entity.ProductVariant
	batches    []entity.InventoryBatch
	movements  []entity.StockMovement
	sales      map[string]entity.Sale
	saleItems  []entity.SaleItem
	jobs       map[string]entity.JobCard
	jobEvents  []entity.JobCardEvent
	orders     map[string]entity.Order
	subOrders  map[string]entity.SubOrder
	orderItems []entity.OrderItem
	catalogue  []entity.Permission
	userPerms  map[string]map[string]bool
	seq        map[string]int64
}

// NewStore crea un store vacío con el catálogo de permisos sembrado.
func NewStore() *Store {
	return &Store{
		dealers:    map[string]entity.Dealer{},
		users:      map[string]entity.User{},
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
		variants:   map[string]entity.ProductVariant{},
		sales:      map[string]entity.Sale{},
		jobs:       map[string]entity.JobCard{},
		orders:     map[string]entity.Order{},
		subOrders:  map[string]entity.SubOrder{},
		userPerms:  map[string]map[string]bool{},
		seq:        map[string]int64{},
		catalogue: []entity.Permission{
			{Code: entity.PermCatalogView, Name: "Ver catálogo", Group: "catalog"},
			{Code: entity.PermInventoryManage, Name: "Gestionar inventario", Group: "inventory"},
			{Code: entity.PermPOSSell, Name: "Vender en POS", Group: "pos"},
			{Code: entity.PermPOSVoid, Name: "Anular ventas", Group: "pos"},
			{Code: entity.PermJobCardsManage, Name: "Gestionar órdenes de taller", Group: "workshop"},
			{Code: entity.PermOrdersFulfill, Name: "Despachar pedidos", Group: "orders"},
			{Code: entity.PermReportsView, Name: "Ver reportes", Group: "reports"},
			{Code: entity.PermSettingsManage, Name: "Configurar tienda", Group: "settings"},
			{Code: entity.PermTeamManage, Name: "Gestionar equipo", Group: "team"},
		},
	}
}

type snapshot struct {
	dealers    map[string]entity.Dealer
	users      map[string]entity.User
	categories map[string]entity.Category
	products   map[string]entity.Product
	variants   map[string]entity.ProductVariant
	batches    []entity.InventoryBatch
	movements  []entity.StockMovement
	sales      map[string]entity.Sale
	saleItems  []entity.SaleItem
	jobs       map[string]entity.JobCard
	jobEvents  []entity.JobCardEvent
	orders     map[string]entity.Order
	subOrders  map[string]entity.SubOrder
	orderItems []entity.OrderItem
	userPerms  map[string]map[string]bool
	seq        map[string]int64
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	perms := make(map[string]map[string]bool, len(s.userPerms))
	for k, v := range s.userPerms {
		perms[k] = copyMap(v)
	}
	return snapshot{
		dealers:    copyMap(s.dealers),
		users:      copyMap(s.users),
		categories: copyMap(s.categories),
		products:   copyMap(s.products),
		variants:   copyMap(s.variants),
		batches:    append([]entity.InventoryBatch(nil), s.batches...),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		sales:      copyMap(s.sales),
		saleItems:  append([]entity.SaleItem(nil), s.saleItems...),
		jobs:       copyMap(s.jobs),
		jobEvents:  append([]entity.JobCardEvent(nil), s.jobEvents...),
		orders:     copyMap(s.orders),
		subOrders:  copyMap(s.subOrders),
		orderItems: append([]entity.OrderItem(nil), s.orderItems...),
		userPerms:  perms,
		seq:        copyMap(s.seq),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dealers = snap.dealers
	s.users = snap.users
	s.categories = snap.categories
	s.products = snap.products
	s.variants = snap.variants
	s.batches = snap.batches
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleItems = snap.saleItems
	s.jobs = snap.jobs
	s.jobEvents = snap.jobEvents
	s.orders = snap.orders
	s.subOrders = snap.subOrders
	s.orderItems = snap.orderItems
	s.userPerms = snap.userPerms
	s.seq = snap.seq
}

// Movements copia del kardex (para aserciones).
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockMovement(nil), s.movements...)
}

// Stock saldo del producto (Σ lotes).
func (s *Store) Stock(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stockLocked(productID)
}

func (s *Store) stockLocked(productID string) int {
	n := 0
	for _, b := range s.batches {
		if b.ProductID == productID {
			n += b.QuantityRemaining
		}
	}
	return n
}

func (s *Store) next(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[key]++
	return s.seq[key]
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Repositorios.
func (s *Store) Dealers() repository.DealerRepository              { return dealerRepo{s} }
func (s *Store) Users() repository.UserRepository                  { return userRepo{s} }
func (s *Store) Categories() repository.CategoryRepository         { return categoryRepo{s} }
func (s *Store) Products() repository.ProductRepository            { return productRepo{s} }
func (s *Store) Batches() repository.InventoryBatchRepository      { return batchRepo{s} }
func (s *Store) MovementsRepo() repository.StockMovementRepository { return movementRepo{s} }
func (s *Store) Sales() repository.SaleRepository                  { return saleRepo{s} }
func (s *Store) JobCards() repository.JobCardRepository            { return jobRepo{s} }
func (s *Store) Orders() repository.OrderRepository                { return orderRepo{s} }
func (s *Store) Permissions() repository.PermissionRepository      { return permRepo{s} }
func (s *Store) Analytics() repository.AnalyticsRepository         { return analyticsRepo{s} }

// ---- dealers ----

type dealerRepo struct{ s *Store }

func (r dealerRepo) Create(_ context.Context, d *entity.Dealer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.dealers {
		if x.Slug == d.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.dealers[d.ID] = *d
	return nil
}

func (r dealerRepo) GetByID(_ context.Context, id string) (*entity.Dealer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.dealers[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r dealerRepo) GetBySlug(_ context.Context, slug string) (*entity.Dealer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.dealers {
		if d.Slug == slug {
			return &d, nil
		}
	}
	return nil, nil
}

func (r dealerRepo) Update(_ context.Context, d *entity.Dealer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.dealers[d.ID] = *d
	return nil
}

func (r dealerRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.dealers[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Status = status
	r.s.dealers[id] = d
	return nil
}

func (r dealerRepo) List(_ context.Context, f repository.DealerFilter) ([]*entity.Dealer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Dealer
	for _, d := range r.s.dealers {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Search != "" && !contains(d.Name, f.Search) && !contains(d.Slug, f.Search) && !contains(d.Email, f.Search) {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), len(out), nil
}

// ---- users ----

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if x.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name, cur.Phone, cur.Role, cur.Status, cur.UpdatedAt = u.Name, u.Phone, u.Role, u.Status, u.UpdatedAt
	r.s.users[u.ID] = cur
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	delete(r.s.userPerms, id)
	return nil
}

func (r userRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if (f.Role != "" && u.Role != f.Role) || (f.Status != "" && u.Status != f.Status) || (f.DealerID != "" && u.DealerID != f.DealerID) {
			continue
		}
		if f.Search != "" && !contains(u.Email, f.Search) && !contains(u.Name, f.Search) {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r userRepo) ListByDealer(_ context.Context, dealerID string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if u.DealerID == dealerID {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// ---- categories ----

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.categories {
		if x.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (r categoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.categories {
		if x.Slug == c.Slug && x.ID != c.ID {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	return nil
}

func (r categoryRepo) List(_ context.Context, onlyActive bool) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.s.categories {
		if onlyActive && !c.IsActive {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r categoryRepo) CountChildren(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, c := range r.s.categories {
		if c.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (r categoryRepo) CountProducts(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == id {
			n++
		}
	}
	return n, nil
}

// ---- products ----

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.products {
		if x.DealerID == p.DealerID && x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) withStock(p entity.Product) *entity.Product {
	p.Stock = r.s.stockLocked(p.ID)
	return &p
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.withStock(p), nil
}

func (r productRepo) GetForUpdate(_ context.Context, dealerID, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DealerID != dealerID {
		return nil, nil
	}
	return r.withStock(p), nil
}

func (r productRepo) GetByDealerAndSKU(_ context.Context, dealerID, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.DealerID == dealerID && p.SKU == sku {
			return r.withStock(p), nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cost := cur.Cost
	cur = *p
	cur.Cost = cost
	cur.Stock = 0
	r.s.products[p.ID] = cur
	return nil
}

func (r productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	r.s.products[id] = p
	return nil
}

func (r productRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = active
	r.s.products[id] = p
	return nil
}

func (r productRepo) filtered(f repository.ProductFilter) []*entity.Product {
	var out []*entity.Product
	for _, p := range r.s.products {
		if f.DealerID != "" && p.DealerID != f.DealerID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !contains(p.Name, f.Search) && !contains(p.SKU, f.Search) && !contains(p.Brand, f.Search) {
			continue
		}
		if f.Active != nil && p.IsActive != *f.Active {
			continue
		}
		wp := r.withStock(p)
		if f.Status != "" && wp.StockStatus() != f.Status {
			continue
		}
		out = append(out, wp)
	}
	less := func(i, j int) bool { return out[i].Name < out[j].Name }
	switch f.SortBy {
	case "price":
		less = func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) }
	case "stock":
		less = func(i, j int) bool { return out[i].Stock < out[j].Stock }
	case "created_at":
		less = func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) }
	}
	if f.SortDesc {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(out, less)
	return out
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filtered(f)
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r productRepo) Summary(_ context.Context, f repository.ProductFilter) (repository.ProductSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := repository.ProductSummary{InventoryValue: decimal.Zero}
	for _, p := range r.filtered(f) {
		sum.TotalProducts++
		sum.TotalUnits += p.Stock
		sum.InventoryValue = sum.InventoryValue.Add(p.Cost.Mul(decimal.NewFromInt(int64(p.Stock))))
		switch p.StockStatus() {
		case entity.StockStatusLowStock:
			sum.LowStock++
		case entity.StockStatusOutOfStock:
			sum.OutOfStock++
		}
	}
	return sum, nil
}

func (r productRepo) CreateVariant(_ context.Context, v *entity.ProductVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.variants {
		if x.ProductID == v.ProductID && x.SKU == v.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.variants[v.ID] = *v
	return nil
}

func (r productRepo) GetVariant(_ context.Context, id string) (*entity.ProductVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r productRepo) UpdateVariant(_ context.Context, v *entity.ProductVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.variants[v.ID] = *v
	return nil
}

func (r productRepo) DeleteVariant(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.variants, id)
	return nil
}

func (r productRepo) ListVariants(_ context.Context, productID string) ([]*entity.ProductVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductVariant
	for _, v := range r.s.variants {
		if v.ProductID == productID {
			v := v
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// ---- inventory batches ----

type batchRepo struct{ s *Store }

func (r batchRepo) Create(_ context.Context, b *entity.InventoryBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.batches = append(r.s.batches, *b)
	return nil
}

func (r batchRepo) ListRemainingForUpdate(_ context.Context, productID string) ([]*entity.InventoryBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.QuantityRemaining > 0 {
			b := b
			out = append(out, &b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

func (r batchRepo) DecrementRemaining(_ context.Context, batchID string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.batches {
		if r.s.batches[i].ID == batchID {
			if r.s.batches[i].QuantityRemaining < qty {
				return domain.ErrInsufficientStock
			}
			r.s.batches[i].QuantityRemaining -= qty
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r batchRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r batchRepo) StockOf(_ context.Context, productID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.stockLocked(productID), nil
}

func (r batchRepo) StockOverview(_ context.Context, f repository.ProductFilter) ([]repository.StockOverviewRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f.Limit, f.Offset = 0, 0
	var out []repository.StockOverviewRow
	for _, p := range (productRepo{r.s}).filtered(f) {
		count := 0
		for _, b := range r.s.batches {
			if b.ProductID == p.ID && b.QuantityRemaining > 0 {
				count++
			}
		}
		out = append(out, repository.StockOverviewRow{
			ProductID: p.ID, SKU: p.SKU, Name: p.Name, CategoryID: p.CategoryID,
			Stock: p.Stock, MinStock: p.MinStock, Cost: p.Cost, Price: p.Price, BatchCount: count,
		})
	}
	return out, nil
}

// ---- stock movements ----

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if m := r.s.movements[i]; m.ProductID == productID {
			out = append(out, &m)
		}
	}
	return page(out, limit, offset), len(out), nil
}

// ---- sales ----

type saleRepo struct{ s *Store }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.saleItems = append(r.s.saleItems, *item)
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return &sale, nil
}

func (r saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r saleRepo) Items(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SaleItem
	for _, it := range r.s.saleItems {
		if it.SaleID == saleID {
			it := it
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r saleRepo) MarkVoided(_ context.Context, id, reason string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.Status, sale.VoidReason, sale.UpdatedAt = entity.SaleStatusVoided, reason, at
	r.s.sales[id] = sale
	return nil
}

func (r saleRepo) filtered(f repository.SaleFilter) []*entity.Sale {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if f.DealerID != "" && sale.DealerID != f.DealerID {
			continue
		}
		if f.From != nil && sale.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !sale.CreatedAt.Before(*f.To) {
			continue
		}
		if (f.PaymentMethod != "" && sale.PaymentMethod != f.PaymentMethod) || (f.Status != "" && sale.Status != f.Status) || (f.CashierID != "" && sale.CashierID != f.CashierID) {
			continue
		}
		if f.Search != "" && !contains(sale.Number, f.Search) && !contains(sale.CustomerName, f.Search) {
			continue
		}
		sale := sale
		out = append(out, &sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out
}

func (r saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filtered(f)
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r saleRepo) Summary(_ context.Context, f repository.SaleFilter) (repository.SaleSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := repository.SaleSummary{Gross: decimal.Zero, Tax: decimal.Zero, ByPayment: map[string]decimal.Decimal{}}
	for _, sale := range r.filtered(f) {
		if sale.Status != entity.SaleStatusCompleted {
			continue
		}
		sum.Count++
		sum.Gross = sum.Gross.Add(sale.Total)
		sum.Tax = sum.Tax.Add(sale.TaxTotal)
		sum.ByPayment[sale.PaymentMethod] = sum.ByPayment[sale.PaymentMethod].Add(sale.Total)
	}
	return sum, nil
}

func (r saleRepo) NextNumber(_ context.Context, dealerID string) (int64, error) {
	return r.s.next("sale:" + dealerID), nil
}

// ---- job cards ----

type jobRepo struct{ s *Store }

func (r jobRepo) Create(_ context.Context, j *entity.JobCard) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobs[j.ID] = *j
	return nil
}

func (r jobRepo) GetByID(_ context.Context, id string) (*entity.JobCard, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (r jobRepo) Update(_ context.Context, j *entity.JobCard, expectedVersion int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.jobs[j.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrConflict
	}
	next := *j
	next.Status = cur.Status
	next.Version = expectedVersion + 1
	r.s.jobs[j.ID] = next
	return nil
}

func (r jobRepo) AdvanceStatus(_ context.Context, id string, expectedVersion int, to string, at time.Time, deliveredAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrConflict
	}
	cur.Status, cur.UpdatedAt, cur.Version = to, at, expectedVersion+1
	if deliveredAt != nil {
		cur.DeliveredAt = deliveredAt
	}
	r.s.jobs[id] = cur
	return nil
}

func (r jobRepo) AddEvent(_ context.Context, ev *entity.JobCardEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobEvents = append(r.s.jobEvents, *ev)
	return nil
}

func (r jobRepo) Events(_ context.Context, jobID string) ([]*entity.JobCardEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.JobCardEvent
	for _, ev := range r.s.jobEvents {
		if ev.JobCardID == jobID {
			ev := ev
			out = append(out, &ev)
		}
	}
	return out, nil
}

func (r jobRepo) List(_ context.Context, f repository.JobCardFilter) ([]*entity.JobCard, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.JobCard
	for _, j := range r.s.jobs {
		if (f.DealerID != "" && j.DealerID != f.DealerID) || (f.Status != "" && j.Status != f.Status) || (f.TechnicianID != "" && j.TechnicianID != f.TechnicianID) {
			continue
		}
		if f.Search != "" && !contains(j.VehiclePlate, f.Search) && !contains(j.CustomerName, f.Search) && !contains(j.Number, f.Search) {
			continue
		}
		j := j
		out = append(out, &j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r jobRepo) CountByStatus(_ context.Context, dealerID string) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]int{}
	for _, j := range r.s.jobs {
		if j.DealerID == dealerID {
			out[j.Status]++
		}
	}
	return out, nil
}

func (r jobRepo) NextNumber(_ context.Context, dealerID string) (int64, error) {
	return r.s.next("job:" + dealerID), nil
}

// ---- orders ----

type orderRepo struct{ s *Store }

func (r orderRepo) CreateOrder(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[o.ID] = *o
	return nil
}

func (r orderRepo) CreateSubOrder(_ context.Context, so *entity.SubOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.subOrders[so.ID] = *so
	return nil
}

func (r orderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orderItems = append(r.s.orderItems, *it)
	return nil
}

func (r orderRepo) GetOrder(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r orderRepo) LockOrder(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r orderRepo) GetSubOrder(_ context.Context, id string) (*entity.SubOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	so, ok := r.s.subOrders[id]
	if !ok {
		return nil, nil
	}
	return &so, nil
}

func (r orderRepo) SubOrdersOf(_ context.Context, orderID string) ([]*entity.SubOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SubOrder
	for _, so := range r.s.subOrders {
		if so.OrderID == orderID {
			so := so
			out = append(out, &so)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DealerID < out[j].DealerID })
	return out, nil
}

func (r orderRepo) ItemsOf(_ context.Context, subOrderID string) ([]*entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OrderItem
	for _, it := range r.s.orderItems {
		if it.SubOrderID == subOrderID {
			it := it
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r orderRepo) AdvanceSubOrder(_ context.Context, id string, expectedVersion int, to, tracking, carrier string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	so, ok := r.s.subOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if so.Version != expectedVersion {
		return domain.ErrConflict
	}
	so.Status, so.UpdatedAt, so.Version = to, at, expectedVersion+1
	if tracking != "" {
		so.TrackingNumber = tracking
	}
	if carrier != "" {
		so.Carrier = carrier
	}
	r.s.subOrders[id] = so
	return nil
}

func (r orderRepo) UpdateOrderStatus(_ context.Context, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status, o.UpdatedAt = status, at
	r.s.orders[id] = o
	return nil
}

func (r orderRepo) ListDealerSubOrders(_ context.Context, dealerID, status string, limit, offset int) ([]*entity.SubOrder, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SubOrder
	for _, so := range r.s.subOrders {
		if so.DealerID == dealerID && (status == "" || so.Status == status) {
			so := so
			out = append(out, &so)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}

func (r orderRepo) ListCustomerOrders(_ context.Context, customerID string, limit int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CustomerID == customerID {
			o := o
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return page(out, limit, 0), nil
}

func (r orderRepo) CustomerStats(_ context.Context, customerID string) (int, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count, spent := 0, decimal.Zero
	for _, o := range r.s.orders {
		if o.CustomerID == customerID {
			count++
			spent = spent.Add(o.Total)
		}
	}
	return count, spent, nil
}

func (r orderRepo) NextNumber(context.Context) (int64, error) {
	return r.s.next("order"), nil
}

// ---- permissions ----

type permRepo struct{ s *Store }

func (r permRepo) Catalogue(context.Context) ([]entity.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.Permission(nil), r.s.catalogue...), nil
}

func (r permRepo) CodesOf(_ context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.codesLocked(userID), nil
}

func (r permRepo) codesLocked(userID string) []string {
	var out []string
	for c := range r.s.userPerms[userID] {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (r permRepo) CodesByDealer(_ context.Context, dealerID string) (map[string][]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string][]string{}
	for id, u := range r.s.users {
		if u.DealerID == dealerID {
			if codes := r.codesLocked(id); len(codes) > 0 {
				out[id] = codes
			}
		}
	}
	return out, nil
}

func (r permRepo) Grant(_ context.Context, userID string, codes []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := r.s.userPerms[userID]
	if set == nil {
		set = map[string]bool{}
		r.s.userPerms[userID] = set
	}
	for _, c := range codes {
		set[c] = true
	}
	return nil
}

func (r permRepo) Revoke(_ context.Context, userID string, codes []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range codes {
		delete(r.s.userPerms[userID], c)
	}
	return nil
}

func (r permRepo) RevokeAll(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.userPerms, userID)
	return nil
}

// ---- analytics ----

type analyticsRepo struct{ s *Store }

func (r analyticsRepo) completedIn(dealerID string, start, end time.Time) map[string]bool {
	ids := map[string]bool{}
	for id, sale := range r.s.sales {
		if sale.DealerID == dealerID && sale.Status == entity.SaleStatusCompleted &&
			!sale.CreatedAt.Before(start) && sale.CreatedAt.Before(end) {
			ids[id] = true
		}
	}
	return ids
}

func (r analyticsRepo) GetSalesMetrics(_ context.Context, dealerID string, start, end time.Time) (repository.SalesMetrics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.completedIn(dealerID, start, end)
	m := repository.SalesMetrics{Count: len(ids), Revenue: decimal.Zero, Cost: decimal.Zero}
	for _, it := range r.s.saleItems {
		if ids[it.SaleID] {
			m.Revenue = m.Revenue.Add(it.LineTotal)
			m.Cost = m.Cost.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return m, nil
}

func (r analyticsRepo) GetTopProducts(_ context.Context, dealerID string, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := r.completedIn(dealerID, start, end)
	agg := map[string]*repository.TopProductResult{}
	for _, it := range r.s.saleItems {
		if !ids[it.SaleID] {
			continue
		}
		t := agg[it.ProductID]
		if t == nil {
			p := r.s.products[it.ProductID]
			t = &repository.TopProductResult{ProductID: it.ProductID, SKU: p.SKU, Name: p.Name, Revenue: decimal.Zero}
			agg[it.ProductID] = t
		}
		t.Units += it.Quantity
		t.Revenue = t.Revenue.Add(it.LineTotal)
	}
	out := make([]repository.TopProductResult, 0, len(agg))
	for _, t := range agg {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].SKU < out[j].SKU
	})
	return page(out, limit, 0), nil
}

func (r analyticsRepo) CountStockAlerts(_ context.Context, dealerID string) (int, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	low, out := 0, 0
	for _, p := range r.s.products {
		if p.DealerID != dealerID || !p.IsActive {
			continue
		}
		switch entity.StockStatus(r.s.stockLocked(p.ID), p.MinStock) {
		case entity.StockStatusLowStock:
			low++
		case entity.StockStatusOutOfStock:
			out++
		}
	}
	return low, out, nil
}

func (r analyticsRepo) CountOpenJobCards(_ context.Context, dealerID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, j := range r.s.jobs {
		if j.DealerID == dealerID && j.Status != entity.JobStatusDelivered {
			n++
		}
	}
	return n, nil
}

func (r analyticsRepo) CountPendingSubOrders(_ context.Context, dealerID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, so := range r.s.subOrders {
		if so.DealerID == dealerID && so.Status != entity.OrderStatusShipped && so.Status != entity.OrderStatusDelivered {
			n++
		}
	}
	return n, nil
}
