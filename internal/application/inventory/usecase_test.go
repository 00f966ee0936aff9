package inventory_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/inventory"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

type fakeExporter struct {
	dealer string
	rows   int
}

func (f *fakeExporter) WriteOverview(w io.Writer, dealerName string, rows []dto.StockOverviewItem) error {
	f.dealer, f.rows = dealerName, len(rows)
	_, err := w.Write([]byte("xlsx"))
	return err
}

func newUseCase(s *apptest.Store, exp inventory.OverviewExporter) *inventory.UseCase {
	return inventory.NewUseCase(apptest.TxRunner{S: s}, s.Products(), s.Batches(), s.MovementsRepo(), s.Dealers(), exp)
}

func TestReceiveBatch_RecalculaCostoPromedio(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("moto-a", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "ACE-1", apptest.Dec("30"), 2)
	uc := newUseCase(s, nil)

	_, err := uc.ReceiveBatch(ctx, d.ID, "u1", dto.ReceiveBatchRequest{ProductID: p.ID, Quantity: 10, UnitCost: apptest.Dec("10")})
	require.NoError(t, err)
	_, err = uc.ReceiveBatch(ctx, d.ID, "u1", dto.ReceiveBatchRequest{ProductID: p.ID, Quantity: 10, UnitCost: apptest.Dec("20")})
	require.NoError(t, err)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, apptest.Dec("15").Equal(got.Cost), "promedio ponderado de 10@10 y 10@20, obtuvo %s", got.Cost)
	assert.Equal(t, 20, got.Stock)
	assert.Len(t, s.Movements(), 2)
}

// txConCommitPrevio ejecuta antes de abrir la tx una recepción que confirma primero,
// como otra petición concurrente que ganó la carrera.
type txConCommitPrevio struct {
	apptest.TxRunner
	antes func()
}

func (t *txConCommitPrevio) Run(ctx context.Context, fn func(
	batchRepo repository.InventoryBatchRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	if t.antes != nil {
		antes := t.antes
		t.antes = nil
		antes()
	}
	return t.TxRunner.Run(ctx, fn)
}

func TestReceiveBatch_RecepcionConcurrenteNoPierdeElPromedio(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("moto-a", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "ACE-1", apptest.Dec("30"), 2)
	otra := newUseCase(s, nil)

	tx := &txConCommitPrevio{TxRunner: apptest.TxRunner{S: s}}
	tx.antes = func() {
		_, err := otra.ReceiveBatch(ctx, d.ID, "u1", dto.ReceiveBatchRequest{ProductID: p.ID, Quantity: 10, UnitCost: apptest.Dec("10")})
		require.NoError(t, err)
	}
	uc := inventory.NewUseCase(tx, s.Products(), s.Batches(), s.MovementsRepo(), s.Dealers(), nil)

	// uc ya leyó el producto (costo 0) cuando la otra recepción confirma
	_, err := uc.ReceiveBatch(ctx, d.ID, "u2", dto.ReceiveBatchRequest{ProductID: p.ID, Quantity: 10, UnitCost: apptest.Dec("20")})
	require.NoError(t, err)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Stock)
	assert.True(t, apptest.Dec("15").Equal(got.Cost), "10@10 + 10@20 debe dar 15, obtuvo %s", got.Cost)
}

func TestAdjust_PositivoUsaCostoVigente(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("a", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "X", apptest.Dec("5"), 0)
	otra := newUseCase(s, nil)

	tx := &txConCommitPrevio{TxRunner: apptest.TxRunner{S: s}}
	tx.antes = func() {
		_, err := otra.ReceiveBatch(ctx, d.ID, "u1", dto.ReceiveBatchRequest{ProductID: p.ID, Quantity: 4, UnitCost: apptest.Dec("8")})
		require.NoError(t, err)
	}
	uc := inventory.NewUseCase(tx, s.Products(), s.Batches(), s.MovementsRepo(), s.Dealers(), nil)

	require.NoError(t, uc.Adjust(ctx, d.ID, "u2", dto.AdjustStockRequest{ProductID: p.ID, Delta: 2, Notes: "conteo"}))

	movs := s.Movements()
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, movs[1].Type)
	assert.True(t, apptest.Dec("8").Equal(movs[1].UnitCost), "el lote de ajuste toma el costo confirmado, obtuvo %s", movs[1].UnitCost)
}

func TestReceiveBatch_ProductoDeOtroDealer(t *testing.T) {
	s := apptest.NewStore()
	d1 := s.SeedDealer("a", entity.DealerStatusActive, apptest.Dec("0"))
	d2 := s.SeedDealer("b", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d2.ID, "X", apptest.Dec("1"), 0)

	_, err := newUseCase(s, nil).ReceiveBatch(context.Background(), d1.ID, "u", dto.ReceiveBatchRequest{ProductID: p.ID, Quantity: 1, UnitCost: apptest.Dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_NegativoConsumeFIFO(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("a", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "X", apptest.Dec("5"), 0)
	t0 := time.Now().Add(-2 * time.Hour)
	old := s.SeedBatch(d.ID, p.ID, 3, apptest.Dec("2"), t0)
	newer := s.SeedBatch(d.ID, p.ID, 5, apptest.Dec("4"), t0.Add(time.Hour))

	err := newUseCase(s, nil).Adjust(ctx, d.ID, "u", dto.AdjustStockRequest{ProductID: p.ID, Delta: -4, Notes: "merma"})
	require.NoError(t, err)

	assert.Equal(t, 0, s.Batch(old.ID).QuantityRemaining, "el lote más antiguo se agota primero")
	assert.Equal(t, 4, s.Batch(newer.ID).QuantityRemaining)
	movs := s.Movements()
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeADJUSTMENT, m.Type)
		assert.Negative(t, m.Quantity)
	}
}

func TestAdjust_NegativoSinStockNoModificaNada(t *testing.T) {
	s := apptest.NewStore()
	d := s.SeedDealer("a", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "X", apptest.Dec("5"), 0)
	b := s.SeedBatch(d.ID, p.ID, 2, apptest.Dec("1"), time.Now())

	err := newUseCase(s, nil).Adjust(context.Background(), d.ID, "u", dto.AdjustStockRequest{ProductID: p.ID, Delta: -3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, s.Batch(b.ID).QuantityRemaining)
	assert.Empty(t, s.Movements())
}

func TestAdjust_PositivoCreaLoteDeAjuste(t *testing.T) {
	s := apptest.NewStore()
	d := s.SeedDealer("a", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "X", apptest.Dec("5"), 0)

	require.NoError(t, newUseCase(s, nil).Adjust(context.Background(), d.ID, "u", dto.AdjustStockRequest{ProductID: p.ID, Delta: 7}))
	assert.Equal(t, 7, s.Stock(p.ID))
	assert.Equal(t, entity.MovementTypeADJUSTMENT, s.Movements()[0].Type)

	err := newUseCase(s, nil).Adjust(context.Background(), d.ID, "u", dto.AdjustStockRequest{ProductID: p.ID, Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOverview_ClasificaYValoriza(t *testing.T) {
	s := apptest.NewStore()
	d := s.SeedDealer("a", entity.DealerStatusActive, apptest.Dec("0"))
	ok := s.SeedProduct(d.ID, "OK", apptest.Dec("5"), 2)
	low := s.SeedProduct(d.ID, "LOW", apptest.Dec("5"), 5)
	s.SeedProduct(d.ID, "OUT", apptest.Dec("5"), 1)
	s.SeedBatch(d.ID, ok.ID, 10, apptest.Dec("1"), time.Now())
	s.SeedBatch(d.ID, low.ID, 3, apptest.Dec("1"), time.Now())
	require.NoError(t, s.Products().UpdateCost(context.Background(), ok.ID, apptest.Dec("2.5")))

	ov, err := newUseCase(s, nil).Overview(context.Background(), d.ID, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Len(t, ov.Items, 3)
	assert.Equal(t, 1, ov.LowStock)
	assert.Equal(t, 1, ov.OutOfStock)
	assert.True(t, apptest.Dec("25").Equal(ov.TotalValue), "10 × 2.5, obtuvo %s", ov.TotalValue)
}

func TestExportOverview(t *testing.T) {
	s := apptest.NewStore()
	d := s.SeedDealer("a", entity.DealerStatusActive, apptest.Dec("0"))
	s.SeedProduct(d.ID, "X", apptest.Dec("5"), 0)

	var buf bytes.Buffer
	assert.ErrorIs(t, newUseCase(s, nil).ExportOverview(context.Background(), d.ID, &buf), domain.ErrUnavailable)

	exp := &fakeExporter{}
	require.NoError(t, newUseCase(s, exp).ExportOverview(context.Background(), d.ID, &buf))
	assert.Equal(t, d.Name, exp.dealer)
	assert.Equal(t, 1, exp.rows)
	assert.Equal(t, "xlsx", buf.String())
}

func TestListMovements_MasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("a", entity.DealerStatusActive, apptest.Dec("0"))
	p := s.SeedProduct(d.ID, "X", apptest.Dec("5"), 0)
	uc := newUseCase(s, nil)
	_, err := uc.ReceiveBatch(ctx, d.ID, "u", dto.ReceiveBatchRequest{ProductID: p.ID, Quantity: 4, UnitCost: apptest.Dec("1")})
	require.NoError(t, err)
	require.NoError(t, uc.Adjust(ctx, d.ID, "u", dto.AdjustStockRequest{ProductID: p.ID, Delta: -1}))

	out, err := uc.ListMovements(ctx, d.ID, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, out.Items[0].Type)
	assert.Equal(t, 2, out.Page.Total)
	assert.Equal(t, 20, out.Page.Limit)
}
