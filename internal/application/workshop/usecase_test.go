package workshop_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/workshop"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func setup(t *testing.T) (*apptest.Store, *workshop.UseCase, *entity.Dealer, *entity.User) {
	t.Helper()
	s := apptest.NewStore()
	d := s.SeedDealer("taller", entity.DealerStatusActive, decimal.Zero)
	tech := s.SeedUser(d.ID, entity.RoleTechnician, "tec@taller.co", "")
	return s, workshop.NewUseCase(apptest.TxRunner{S: s}, s.JobCards(), s.Users()), d, tech
}

func newJob(t *testing.T, uc *workshop.UseCase, dealerID, techID string) *dto.JobCardResponse {
	t.Helper()
	job, err := uc.Create(context.Background(), dealerID, "recepcion", dto.CreateJobCardRequest{
		CustomerName: "Ana",
		VehicleMake:  "Yamaha",
		VehiclePlate: "abc12d",
		Complaint:    "ruido en el motor",
		TechnicianID: techID,
	})
	require.NoError(t, err)
	return job
}

func TestCreate_NumeraYRegistraEvento(t *testing.T) {
	_, uc, d, tech := setup(t)
	job := newJob(t, uc, d.ID, tech.ID)
	assert.Equal(t, "OT-000001", job.Number)
	assert.Equal(t, entity.JobStatusReceived, job.Status)
	assert.Equal(t, "ABC12D", job.VehiclePlate)
	assert.Equal(t, 1, job.Version)
	assert.Len(t, job.Events, 1)

	second := newJob(t, uc, d.ID, "")
	assert.Equal(t, "OT-000002", second.Number)
}

func TestCreate_TecnicoDeOtroDealer(t *testing.T) {
	s, uc, d, _ := setup(t)
	other := s.SeedDealer("otro", entity.DealerStatusActive, decimal.Zero)
	foreign := s.SeedUser(other.ID, entity.RoleTechnician, "x@otro.co", "")
	_, err := uc.Create(context.Background(), d.ID, "u", dto.CreateJobCardRequest{
		CustomerName: "Ana", VehicleMake: "Honda", VehiclePlate: "XYZ", Complaint: "frenos", TechnicianID: foreign.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdvance_RequiereDiagnosticoYCostoFinal(t *testing.T) {
	ctx := context.Background()
	_, uc, d, tech := setup(t)
	job := newJob(t, uc, d.ID, tech.ID)

	job, err := uc.Advance(ctx, d.ID, tech.ID, job.ID, dto.AdvanceRequest{Version: job.Version})
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusInDiagnosis, job.Status)

	_, err = uc.Advance(ctx, d.ID, tech.ID, job.ID, dto.AdvanceRequest{Version: job.Version})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed, "no se sale de diagnóstico sin diagnóstico")

	diag := "cadena destensionada"
	job, err = uc.Update(ctx, d.ID, job.ID, dto.UpdateJobCardRequest{Version: job.Version, Diagnosis: &diag})
	require.NoError(t, err)

	for _, want := range []string{entity.JobStatusInService, entity.JobStatusQCDone, entity.JobStatusReady} {
		job, err = uc.Advance(ctx, d.ID, tech.ID, job.ID, dto.AdvanceRequest{Version: job.Version})
		require.NoError(t, err)
		assert.Equal(t, want, job.Status)
	}

	_, err = uc.Advance(ctx, d.ID, tech.ID, job.ID, dto.AdvanceRequest{Version: job.Version})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed, "no se entrega sin costo final")

	final := decimal.NewFromInt(85000)
	job, err = uc.Update(ctx, d.ID, job.ID, dto.UpdateJobCardRequest{Version: job.Version, FinalCost: &final})
	require.NoError(t, err)
	job, err = uc.Advance(ctx, d.ID, tech.ID, job.ID, dto.AdvanceRequest{Version: job.Version, Note: "entregada"})
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusDelivered, job.Status)
	assert.NotNil(t, job.DeliveredAt)

	_, err = uc.Advance(ctx, d.ID, tech.ID, job.ID, dto.AdvanceRequest{Version: job.Version})
	assert.ErrorIs(t, err, domain.ErrTerminalState)
	_, err = uc.Update(ctx, d.ID, job.ID, dto.UpdateJobCardRequest{Version: job.Version, Diagnosis: &diag})
	assert.ErrorIs(t, err, domain.ErrTerminalState)

	full, err := uc.Get(ctx, d.ID, job.ID)
	require.NoError(t, err)
	assert.Len(t, full.Events, 6, "recepción más cinco avances")
}

func TestAdvance_VersionDesactualizada(t *testing.T) {
	ctx := context.Background()
	_, uc, d, tech := setup(t)
	job := newJob(t, uc, d.ID, tech.ID)

	_, err := uc.Advance(ctx, d.ID, tech.ID, job.ID, dto.AdvanceRequest{Version: job.Version})
	require.NoError(t, err)
	_, err = uc.Advance(ctx, d.ID, tech.ID, job.ID, dto.AdvanceRequest{Version: job.Version})
	assert.ErrorIs(t, err, domain.ErrConflict, "la segunda escritura con la misma versión pierde")
}

func TestGet_OtroDealerNoVe(t *testing.T) {
	s, uc, d, tech := setup(t)
	job := newJob(t, uc, d.ID, tech.ID)
	other := s.SeedDealer("otro", entity.DealerStatusActive, decimal.Zero)
	_, err := uc.Get(context.Background(), other.ID, job.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_ConteoPorEtapa(t *testing.T) {
	ctx := context.Background()
	_, uc, d, tech := setup(t)
	j1 := newJob(t, uc, d.ID, tech.ID)
	newJob(t, uc, d.ID, "")
	_, err := uc.Advance(ctx, d.ID, tech.ID, j1.ID, dto.AdvanceRequest{Version: j1.Version})
	require.NoError(t, err)

	out, err := uc.List(ctx, d.ID, dto.JobCardListRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 1, out.ByStatus[entity.JobStatusReceived])
	assert.Equal(t, 1, out.ByStatus[entity.JobStatusInDiagnosis])
	assert.Equal(t, 0, out.ByStatus[entity.JobStatusDelivered])

	_, err = uc.List(ctx, d.ID, dto.JobCardListRequest{Status: "desconocido"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_CorrigeDatosDelVehiculo(t *testing.T) {
	ctx := context.Background()
	_, uc, d, tech := setup(t)
	job := newJob(t, uc, d.ID, tech.ID)

	brand, plate, year := " Suzuki ", " xyz98e ", 2021
	got, err := uc.Update(ctx, d.ID, job.ID, dto.UpdateJobCardRequest{
		Version: job.Version, VehicleMake: &brand, VehiclePlate: &plate, VehicleYear: &year,
	})
	require.NoError(t, err)
	assert.Equal(t, "Suzuki", got.VehicleMake)
	assert.Equal(t, "XYZ98E", got.VehiclePlate, "la placa se normaliza igual que al crear")
	assert.Equal(t, 2021, got.VehicleYear)
	assert.Equal(t, job.Version+1, got.Version)
}

// entregar lleva una orden recién creada hasta delivered.
func entregar(t *testing.T, uc *workshop.UseCase, dealerID, techID string, job *dto.JobCardResponse) *dto.JobCardResponse {
	t.Helper()
	ctx := context.Background()
	diag, final := "revisión general", decimal.NewFromInt(40000)
	job, err := uc.Update(ctx, dealerID, job.ID, dto.UpdateJobCardRequest{Version: job.Version, Diagnosis: &diag, FinalCost: &final})
	require.NoError(t, err)
	for job.Status != entity.JobStatusDelivered {
		job, err = uc.Advance(ctx, dealerID, techID, job.ID, dto.AdvanceRequest{Version: job.Version})
		require.NoError(t, err)
	}
	return job
}

func TestUpdate_RechazadoTrasEntrega(t *testing.T) {
	ctx := context.Background()
	_, uc, d, tech := setup(t)
	job := entregar(t, uc, d.ID, tech.ID, newJob(t, uc, d.ID, tech.ID))

	plate, year := "NUEVA1", 2020
	_, err := uc.Update(ctx, d.ID, job.ID, dto.UpdateJobCardRequest{Version: job.Version, VehiclePlate: &plate, VehicleYear: &year})
	assert.ErrorIs(t, err, domain.ErrTerminalState)

	full, err := uc.Get(ctx, d.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC12D", full.VehiclePlate, "una orden entregada no cambia")
	assert.Equal(t, job.Version, full.Version)
}
