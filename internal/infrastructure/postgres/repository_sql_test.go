package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func sqlLike(s string) string { return regexp.QuoteMeta(s) }

func TestAnalytics_PendientesExcluyeDespachadosYEntregados(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(sqlLike(`FROM sub_orders WHERE dealer_id = $1 AND status NOT IN ('shipped', 'delivered')`)).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	n, err := NewAnalyticsRepository(mock).CountPendingSubOrders(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalytics_OrdenesDeTallerAbiertas(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(sqlLike(`FROM job_cards WHERE dealer_id = $1 AND status <> 'delivered'`)).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

	n, err := NewAnalyticsRepository(mock).CountOpenJobCards(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalytics_AlertasDeStockSoloProductosActivos(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`COUNT\(\*\) FILTER \(WHERE s\.stock > 0 AND s\.stock <= p\.min_stock\)[\s\S]*WHERE p\.dealer_id = \$1 AND p\.is_active`).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows([]string{"low", "out"}).AddRow(3, 1))

	low, out, err := NewAnalyticsRepository(mock).CountStockAlerts(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 3, low)
	assert.Equal(t, 1, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalytics_ErrorDeConsultaSePropaga(t *testing.T) {
	mock := newMock(t)
	boom := errors.New("conexión cerrada")
	mock.ExpectQuery(sqlLike(`FROM sub_orders`)).WithArgs("d1").WillReturnError(boom)

	_, err := NewAnalyticsRepository(mock).CountPendingSubOrders(context.Background(), "d1")
	assert.ErrorIs(t, err, boom)
}

func TestProductRepo_GetForUpdateBloqueaPorDealer(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(sqlLike(`SELECT id FROM products WHERE id = $1 AND dealer_id = $2 FOR UPDATE`)).
		WithArgs("p1", "d1").
		WillReturnError(pgx.ErrNoRows)

	p, err := NewProductRepository(mock).GetForUpdate(context.Background(), "d1", "p1")
	require.NoError(t, err)
	assert.Nil(t, p, "producto de otro dealer o inexistente")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_LockOrder(t *testing.T) {
	cases := []struct {
		name    string
		rows    *pgxmock.Rows
		err     error
		wantErr error
	}{
		{name: "bloqueado", rows: pgxmock.NewRows([]string{"id"}).AddRow("o1")},
		{name: "inexistente", err: pgx.ErrNoRows, wantErr: domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			exp := mock.ExpectQuery(sqlLike(`SELECT id FROM orders WHERE id = $1 FOR UPDATE`)).WithArgs("o1")
			if tc.err != nil {
				exp.WillReturnError(tc.err)
			} else {
				exp.WillReturnRows(tc.rows)
			}

			err := NewOrderRepository(mock).LockOrder(context.Background(), "o1")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOrderRepo_AdvanceSubOrderDistingueConflictoDeInexistente(t *testing.T) {
	cases := []struct {
		name    string
		exists  bool
		wantErr error
	}{
		{name: "versión desactualizada", exists: true, wantErr: domain.ErrConflict},
		{name: "sub-pedido inexistente", exists: false, wantErr: domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(sqlLike(`WHERE id = $1 AND version = $2`)).
				WithArgs("s1", 3, "shipped", "TRK1", "Servientrega", pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			mock.ExpectQuery(sqlLike(`SELECT EXISTS (SELECT 1 FROM sub_orders WHERE id = $1)`)).
				WithArgs("s1").
				WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(tc.exists))

			err := NewOrderRepository(mock).AdvanceSubOrder(context.Background(), "s1", 3, "shipped", "TRK1", "Servientrega", time.Now())
			assert.ErrorIs(t, err, tc.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOrderRepo_AdvanceSubOrderAplicado(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(sqlLike(`UPDATE sub_orders SET status = $3`)).
		WithArgs("s1", 1, "confirmed", "", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := NewOrderRepository(mock).AdvanceSubOrder(context.Background(), "s1", 1, "confirmed", "", "", time.Now())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "sin filas afectadas no hay segunda consulta")
}

func TestInventoryBatchRepo_ListRemainingForUpdateOrdenFIFO(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE product_id = \$1 AND quantity_remaining > 0\s+ORDER BY received_at, created_at\s+FOR UPDATE`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "dealer_id", "product_id", "batch_number", "quantity_received", "quantity_remaining",
			"unit_cost", "received_at", "expires_at", "created_at",
		}))

	batches, err := NewInventoryBatchRepository(mock).ListRemainingForUpdate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryBatchRepo_DecrementNuncaDejaSaldoNegativo(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(sqlLike(`WHERE id = $1 AND quantity_remaining >= $2`)).
		WithArgs("b1", 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewInventoryBatchRepository(mock).DecrementRemaining(context.Background(), "b1", 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobCardRepo_AdvanceStatusConVersionVieja(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(sqlLike(`UPDATE job_cards SET status = $3`)).
		WithArgs("j1", 2, "delivered", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(sqlLike(`SELECT EXISTS (SELECT 1 FROM job_cards WHERE id = $1)`)).
		WithArgs("j1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	now := time.Now()
	err := NewJobCardRepository(mock).AdvanceStatus(context.Background(), "j1", 2, "delivered", now, &now)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
