// Package workshop gestiona las órdenes de taller (job cards) y su avance por etapas.
package workshop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
	"github.com/jhoicas/dealerhub-api/internal/domain/workflow"
)

// Flow etapas de una orden de taller.
var Flow = workflow.New("job_card", entity.JobCardStages...)

// JobCardTxRunner ejecuta una función dentro de una transacción con el repositorio de órdenes.
type JobCardTxRunner interface {
	RunJobCard(ctx context.Context, fn func(jobRepo repository.JobCardRepository) error) error
}

// UseCase casos de uso del taller.
type UseCase struct {
	txRunner JobCardTxRunner
	jobRepo  repository.JobCardRepository
	userRepo repository.UserRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner JobCardTxRunner, jobRepo repository.JobCardRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{txRunner: txRunner, jobRepo: jobRepo, userRepo: userRepo}
}

// checkTechnician el técnico debe ser personal activo del mismo dealer.
func (uc *UseCase) checkTechnician(ctx context.Context, dealerID, technicianID string) error {
	if technicianID == "" {
		return nil
	}
	u, err := uc.userRepo.GetByID(ctx, technicianID)
	if err != nil {
		return err
	}
	if u == nil || u.DealerID != dealerID || !u.IsDealerStaff() || u.Status != entity.UserStatusActive {
		return fmt.Errorf("%w: técnico no pertenece al dealer", domain.ErrInvalidInput)
	}
	return nil
}

// Create registra la recepción del vehículo (etapa inicial) con su primer evento.
func (uc *UseCase) Create(ctx context.Context, dealerID, userID string, in dto.CreateJobCardRequest) (*dto.JobCardResponse, error) {
	if strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.VehiclePlate) == "" || in.EstimatedCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkTechnician(ctx, dealerID, in.TechnicianID); err != nil {
		return nil, err
	}
	now := time.Now()
	job := &entity.JobCard{
		ID:            uuid.New().String(),
		DealerID:      dealerID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: in.CustomerPhone,
		VehicleMake:   in.VehicleMake,
		VehicleModel:  in.VehicleModel,
		VehiclePlate:  strings.ToUpper(strings.TrimSpace(in.VehiclePlate)),
		VehicleYear:   in.VehicleYear,
		Odometer:      in.Odometer,
		Complaint:     in.Complaint,
		TechnicianID:  in.TechnicianID,
		EstimatedCost: in.EstimatedCost,
		FinalCost:     decimal.Zero,
		Status:        Flow.Initial(),
		Version:       1,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	ev := &entity.JobCardEvent{
		ID:        uuid.New().String(),
		JobCardID: job.ID,
		ToStatus:  job.Status,
		Note:      "recepción",
		UserID:    userID,
		CreatedAt: now,
	}
	err := uc.txRunner.RunJobCard(ctx, func(jobRepo repository.JobCardRepository) error {
		n, err := jobRepo.NextNumber(ctx, dealerID)
		if err != nil {
			return err
		}
		job.Number = fmt.Sprintf("OT-%06d", n)
		if err := jobRepo.Create(ctx, job); err != nil {
			return err
		}
		return jobRepo.AddEvent(ctx, ev)
	})
	if err != nil {
		return nil, err
	}
	return toJobCardResponse(job, []*entity.JobCardEvent{ev}), nil
}

// Get orden con su historial de eventos.
func (uc *UseCase) Get(ctx context.Context, dealerID, id string) (*dto.JobCardResponse, error) {
	job, err := uc.load(ctx, uc.jobRepo, dealerID, id)
	if err != nil {
		return nil, err
	}
	events, err := uc.jobRepo.Events(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return toJobCardResponse(job, events), nil
}

func (uc *UseCase) load(ctx context.Context, repo repository.JobCardRepository, dealerID, id string) (*entity.JobCard, error) {
	job, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil || job.DealerID != dealerID {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// List tablero del taller con conteo por etapa.
func (uc *UseCase) List(ctx context.Context, dealerID string, in dto.JobCardListRequest) (*dto.JobCardListResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !Flow.Contains(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	list, total, err := uc.jobRepo.List(ctx, repository.JobCardFilter{
		DealerID:     dealerID,
		Status:       in.Status,
		TechnicianID: in.TechnicianID,
		Search:       strings.TrimSpace(in.Search),
		Limit:        in.Limit,
		Offset:       in.Offset,
	})
	if err != nil {
		return nil, err
	}
	counts, err := uc.jobRepo.CountByStatus(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[string]int, len(entity.JobCardStages))
	for _, s := range Flow.Stages() {
		byStatus[s] = counts[s]
	}
	items := make([]dto.JobCardResponse, 0, len(list))
	for _, j := range list {
		items = append(items, *toJobCardResponse(j, nil))
	}
	return &dto.JobCardListResponse{
		Items:    items,
		ByStatus: byStatus,
		Page:     dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Update edita campos descriptivos, técnico y costos. No cambia el estado; rechazado tras la entrega.
func (uc *UseCase) Update(ctx context.Context, dealerID, id string, in dto.UpdateJobCardRequest) (*dto.JobCardResponse, error) {
	job, err := uc.load(ctx, uc.jobRepo, dealerID, id)
	if err != nil {
		return nil, err
	}
	if Flow.IsTerminal(job.Status) {
		return nil, domain.ErrTerminalState
	}
	if job.Version != in.Version {
		return nil, domain.ErrConflict
	}
	if in.CustomerName != nil {
		job.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.CustomerPhone != nil {
		job.CustomerPhone = *in.CustomerPhone
	}
	if in.VehicleMake != nil {
		job.VehicleMake = strings.TrimSpace(*in.VehicleMake)
	}
	if in.VehicleModel != nil {
		job.VehicleModel = *in.VehicleModel
	}
	if in.VehiclePlate != nil {
		job.VehiclePlate = strings.ToUpper(strings.TrimSpace(*in.VehiclePlate))
	}
	if in.VehicleYear != nil {
		job.VehicleYear = *in.VehicleYear
	}
	if in.Odometer != nil {
		job.Odometer = *in.Odometer
	}
	if in.Complaint != nil {
		job.Complaint = *in.Complaint
	}
	if in.Diagnosis != nil {
		job.Diagnosis = strings.TrimSpace(*in.Diagnosis)
	}
	if in.TechnicianID != nil {
		if err := uc.checkTechnician(ctx, dealerID, *in.TechnicianID); err != nil {
			return nil, err
		}
		job.TechnicianID = *in.TechnicianID
	}
	if in.EstimatedCost != nil {
		if in.EstimatedCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		job.EstimatedCost = *in.EstimatedCost
	}
	if in.FinalCost != nil {
		if in.FinalCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		job.FinalCost = *in.FinalCost
	}
	job.UpdatedAt = time.Now()
	if err := uc.jobRepo.Update(ctx, job, in.Version); err != nil {
		return nil, err
	}
	job.Version++
	return toJobCardResponse(job, nil), nil
}

// Advance mueve la orden a la etapa siguiente. Rechaza saltos, estado terminal,
// versiones desactualizadas y avances sin los datos requeridos por la etapa.
func (uc *UseCase) Advance(ctx context.Context, dealerID, userID, id string, in dto.AdvanceRequest) (*dto.JobCardResponse, error) {
	var (
		job  *entity.JobCard
		from string
	)
	err := uc.txRunner.RunJobCard(ctx, func(jobRepo repository.JobCardRepository) error {
		var err error
		job, err = uc.load(ctx, jobRepo, dealerID, id)
		if err != nil {
			return err
		}
		if job.Version != in.Version {
			return domain.ErrConflict
		}
		next, err := Flow.Next(job.Status)
		if err != nil {
			return err
		}
		if err := checkPreconditions(job, next); err != nil {
			return err
		}
		now := time.Now()
		var deliveredAt *time.Time
		if next == entity.JobStatusDelivered {
			deliveredAt = &now
		}
		if err := jobRepo.AdvanceStatus(ctx, job.ID, in.Version, next, now, deliveredAt); err != nil {
			return err
		}
		if err := jobRepo.AddEvent(ctx, &entity.JobCardEvent{
			ID:         uuid.New().String(),
			JobCardID:  job.ID,
			FromStatus: job.Status,
			ToStatus:   next,
			Note:       strings.TrimSpace(in.Note),
			UserID:     userID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		from = job.Status
		job.Status = next
		job.Version++
		job.UpdatedAt = now
		job.DeliveredAt = deliveredAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("job_card", job.Number).Str("from", from).Str("to", job.Status).Msg("orden de taller avanzada")
	return toJobCardResponse(job, nil), nil
}

// checkPreconditions datos obligatorios para salir de una etapa o entrar a otra.
func checkPreconditions(job *entity.JobCard, next string) error {
	if job.Status == entity.JobStatusInDiagnosis && strings.TrimSpace(job.Diagnosis) == "" {
		return fmt.Errorf("%w: diagnóstico requerido", domain.ErrPreconditionFailed)
	}
	if next == entity.JobStatusDelivered && !job.FinalCost.IsPositive() {
		return fmt.Errorf("%w: costo final requerido", domain.ErrPreconditionFailed)
	}
	return nil
}

func toJobCardResponse(j *entity.JobCard, events []*entity.JobCardEvent) *dto.JobCardResponse {
	out := &dto.JobCardResponse{
		ID:            j.ID,
		Number:        j.Number,
		CustomerName:  j.CustomerName,
		CustomerPhone: j.CustomerPhone,
		VehicleMake:   j.VehicleMake,
		VehicleModel:  j.VehicleModel,
		VehiclePlate:  j.VehiclePlate,
		VehicleYear:   j.VehicleYear,
		Odometer:      j.Odometer,
		Complaint:     j.Complaint,
		Diagnosis:     j.Diagnosis,
		TechnicianID:  j.TechnicianID,
		EstimatedCost: j.EstimatedCost,
		FinalCost:     j.FinalCost,
		Status:        j.Status,
		Version:       j.Version,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
		DeliveredAt:   j.DeliveredAt,
	}
	if next, err := Flow.Next(j.Status); err == nil {
		out.NextStatus = next
	}
	for _, e := range events {
		out.Events = append(out.Events, dto.JobCardEventResponse{
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Note:       e.Note,
			UserID:     e.UserID,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
