package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateJobCardRequest recepción de un vehículo en el taller.
type CreateJobCardRequest struct {
	CustomerName  string          `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerPhone string          `json:"customer_phone" validate:"omitempty,max=40"`
	VehicleMake   string          `json:"vehicle_make" validate:"required,max=80"`
	VehicleModel  string          `json:"vehicle_model" validate:"omitempty,max=80"`
	VehiclePlate  string          `json:"vehicle_plate" validate:"required,max=20"`
	VehicleYear   int             `json:"vehicle_year" validate:"omitempty,min=1900,max=2100"`
	Odometer      int             `json:"odometer" validate:"min=0"`
	Complaint     string          `json:"complaint" validate:"required,min=3,max=2000"`
	TechnicianID  string          `json:"technician_id" validate:"omitempty,uuid"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// UpdateJobCardRequest edición de campos descriptivos (no el estado). Version para concurrencia optimista.
type UpdateJobCardRequest struct {
	Version       int              `json:"version" validate:"min=1"`
	CustomerName  *string          `json:"customer_name" validate:"omitempty,min=1,max=200"`
	CustomerPhone *string          `json:"customer_phone" validate:"omitempty,max=40"`
	VehicleMake   *string          `json:"vehicle_make" validate:"omitempty,min=1,max=80"`
	VehicleModel  *string          `json:"vehicle_model" validate:"omitempty,max=80"`
	VehiclePlate  *string          `json:"vehicle_plate" validate:"omitempty,min=1,max=20"`
	VehicleYear   *int             `json:"vehicle_year" validate:"omitempty,min=1900,max=2100"`
	Odometer      *int             `json:"odometer" validate:"omitempty,min=0"`
	Complaint     *string          `json:"complaint" validate:"omitempty,min=3,max=2000"`
	Diagnosis     *string          `json:"diagnosis" validate:"omitempty,max=4000"`
	TechnicianID  *string          `json:"technician_id" validate:"omitempty,uuid"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	FinalCost     *decimal.Decimal `json:"final_cost"`
}

// AdvanceRequest avance a la siguiente etapa con la versión leída por el cliente.
type AdvanceRequest struct {
	Version int    `json:"version" validate:"min=1"`
	Note    string `json:"note" validate:"omitempty,max=500"`
}

// JobCardEventResponse transición del historial.
type JobCardEventResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Note       string    `json:"note,omitempty"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// JobCardResponse orden de taller.
type JobCardResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	CustomerName  string                 `json:"customer_name"`
	CustomerPhone string                 `json:"customer_phone,omitempty"`
	VehicleMake   string                 `json:"vehicle_make"`
	VehicleModel  string                 `json:"vehicle_model,omitempty"`
	VehiclePlate  string                 `json:"vehicle_plate"`
	VehicleYear   int                    `json:"vehicle_year,omitempty"`
	Odometer      int                    `json:"odometer"`
	Complaint     string                 `json:"complaint"`
	Diagnosis     string                 `json:"diagnosis,omitempty"`
	TechnicianID  string                 `json:"technician_id,omitempty"`
	EstimatedCost decimal.Decimal        `json:"estimated_cost"`
	FinalCost     decimal.Decimal        `json:"final_cost"`
	Status        string                 `json:"status"`
	NextStatus    string                 `json:"next_status,omitempty"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	DeliveredAt   *time.Time             `json:"delivered_at,omitempty"`
	Events        []JobCardEventResponse `json:"events,omitempty"`
}

// JobCardListRequest filtros del tablero.
type JobCardListRequest struct {
	PageRequest
	Status       string `query:"status" validate:"omitempty,oneof=received in_diagnosis in_service qc_done ready delivered"`
	TechnicianID string `query:"technician_id" validate:"omitempty,uuid"`
	Search       string `query:"search"`
}

// JobCardListResponse tablero paginado con conteo por etapa.
type JobCardListResponse struct {
	Items    []JobCardResponse `json:"items"`
	ByStatus map[string]int    `json:"by_status"`
	Page     PageResponse      `json:"page"`
}
