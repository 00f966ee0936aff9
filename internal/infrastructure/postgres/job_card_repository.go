package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

var _ repository.JobCardRepository = (*JobCardRepo)(nil)

const jobCardColumns = `id, dealer_id, number, customer_name, customer_phone, vehicle_make, vehicle_model,
	vehicle_plate, vehicle_year, odometer, complaint, diagnosis, technician_id, estimated_cost, final_cost,
	status, version, created_by, created_at, updated_at, delivered_at`

// JobCardRepo órdenes de trabajo del taller con control de versión.
type JobCardRepo struct {
	q Querier
}

func NewJobCardRepository(q Querier) *JobCardRepo {
	return &JobCardRepo{q: q}
}

func scanJobCard(row pgx.Row) (*entity.JobCard, error) {
	var j entity.JobCard
	var technician, createdBy *string
	err := row.Scan(&j.ID, &j.DealerID, &j.Number, &j.CustomerName, &j.CustomerPhone, &j.VehicleMake, &j.VehicleModel,
		&j.VehiclePlate, &j.VehicleYear, &j.Odometer, &j.Complaint, &j.Diagnosis, &technician, &j.EstimatedCost,
		&j.FinalCost, &j.Status, &j.Version, &createdBy, &j.CreatedAt, &j.UpdatedAt, &j.DeliveredAt)
	if err != nil {
		return nil, err
	}
	j.TechnicianID, j.CreatedBy = deref(technician), deref(createdBy)
	return &j, nil
}

func (r *JobCardRepo) Create(ctx context.Context, j *entity.JobCard) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO job_cards (`+jobCardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		j.ID, j.DealerID, j.Number, j.CustomerName, j.CustomerPhone, j.VehicleMake, j.VehicleModel,
		j.VehiclePlate, j.VehicleYear, j.Odometer, j.Complaint, j.Diagnosis, nullIfEmpty(j.TechnicianID), j.EstimatedCost,
		j.FinalCost, j.Status, j.Version, nullIfEmpty(j.CreatedBy), j.CreatedAt, j.UpdatedAt, j.DeliveredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert job card: %w", err)
	}
	return nil
}

func (r *JobCardRepo) GetByID(ctx context.Context, id string) (*entity.JobCard, error) {
	j, err := scanJobCard(r.q.QueryRow(ctx, `SELECT `+jobCardColumns+` FROM job_cards WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job card: %w", err)
	}
	return j, nil
}

// Update edita los datos de la orden sin tocar el estado. CAS sobre version.
func (r *JobCardRepo) Update(ctx context.Context, j *entity.JobCard, expectedVersion int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE job_cards SET customer_name = $3, customer_phone = $4, vehicle_make = $5, vehicle_model = $6,
			vehicle_plate = $7, vehicle_year = $8, odometer = $9, complaint = $10, diagnosis = $11, technician_id = $12,
			estimated_cost = $13, final_cost = $14, updated_at = $15, version = version + 1
		WHERE id = $1 AND version = $2`,
		j.ID, expectedVersion, j.CustomerName, j.CustomerPhone, j.VehicleMake, j.VehicleModel,
		j.VehiclePlate, j.VehicleYear, j.Odometer, j.Complaint, j.Diagnosis, nullIfEmpty(j.TechnicianID),
		j.EstimatedCost, j.FinalCost, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update job card: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missOrConflict(ctx, j.ID)
	}
	return nil
}

// AdvanceStatus mueve la orden a la etapa to si nadie la modificó desde expectedVersion.
func (r *JobCardRepo) AdvanceStatus(ctx context.Context, id string, expectedVersion int, to string, at time.Time, deliveredAt *time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE job_cards SET status = $3, updated_at = $4, delivered_at = COALESCE($5, delivered_at), version = version + 1
		WHERE id = $1 AND version = $2`,
		id, expectedVersion, to, at, deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("advance job card: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

// missOrConflict distingue fila inexistente de versión desactualizada.
func (r *JobCardRepo) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_cards WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check job card: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

func (r *JobCardRepo) AddEvent(ctx context.Context, ev *entity.JobCardEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO job_card_events (id, job_card_id, from_status, to_status, note, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.JobCardID, ev.FromStatus, ev.ToStatus, ev.Note, nullIfEmpty(ev.UserID), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job card event: %w", err)
	}
	return nil
}

// Events historial cronológico de la orden.
func (r *JobCardRepo) Events(ctx context.Context, jobCardID string) ([]*entity.JobCardEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, job_card_id, from_status, to_status, note, user_id, created_at
		FROM job_card_events WHERE job_card_id = $1 ORDER BY created_at, id`, jobCardID)
	if err != nil {
		return nil, fmt.Errorf("list job card events: %w", err)
	}
	defer rows.Close()
	var list []*entity.JobCardEvent
	for rows.Next() {
		var ev entity.JobCardEvent
		var user *string
		if err := rows.Scan(&ev.ID, &ev.JobCardID, &ev.FromStatus, &ev.ToStatus, &ev.Note, &user, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan job card event: %w", err)
		}
		ev.UserID = deref(user)
		list = append(list, &ev)
	}
	return list, rows.Err()
}

// List tablero del taller, la orden más reciente primero.
func (r *JobCardRepo) List(ctx context.Context, f repository.JobCardFilter) ([]*entity.JobCard, int, error) {
	var w where
	if f.DealerID != "" {
		w.add("dealer_id = ?", f.DealerID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.TechnicianID != "" {
		w.add("technician_id = ?", f.TechnicianID)
	}
	if f.Search != "" {
		w.add("(vehicle_plate ILIKE ? OR customer_name ILIKE ? OR number ILIKE ?)", likePattern(f.Search))
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM job_cards`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count job cards: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+jobCardColumns+` FROM job_cards`+w.sql()+
		` ORDER BY number DESC`+w.page(f.Limit, f.Offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list job cards: %w", err)
	}
	defer rows.Close()
	var list []*entity.JobCard
	for rows.Next() {
		j, err := scanJobCard(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job card: %w", err)
		}
		list = append(list, j)
	}
	return list, total, rows.Err()
}

func (r *JobCardRepo) CountByStatus(ctx context.Context, dealerID string) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM job_cards WHERE dealer_id = $1 GROUP BY status`, dealerID)
	if err != nil {
		return nil, fmt.Errorf("count job cards by status: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan job card count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// NextNumber consecutivo OT-000001 por dealer.
func (r *JobCardRepo) NextNumber(ctx context.Context, dealerID string) (int64, error) {
	return nextSequence(ctx, r.q, "job:"+dealerID)
}
