package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etapas de una orden de taller, en orden.
const (
	JobStatusReceived    = "received"
	JobStatusInDiagnosis = "in_diagnosis"
	JobStatusInService   = "in_service"
	JobStatusQCDone      = "qc_done"
	JobStatusReady       = "ready"
	JobStatusDelivered   = "delivered"
)

// JobCardStages flujo lineal de una orden de taller.
var JobCardStages = []string{
	JobStatusReceived, JobStatusInDiagnosis, JobStatusInService,
	JobStatusQCDone, JobStatusReady, JobStatusDelivered,
}

// JobCard orden de servicio de taller: seguimiento de un vehículo desde la recepción hasta la entrega.
type JobCard struct {
	ID            string
	DealerID      string
	Number        string
	CustomerName  string
	CustomerPhone string
	VehicleMake   string
	VehicleModel  string
	VehiclePlate  string
	VehicleYear   int
	Odometer      int
	Complaint     string
	Diagnosis     string
	TechnicianID  string
	EstimatedCost decimal.Decimal
	FinalCost     decimal.Decimal
	Status        string
	Version       int // control de concurrencia optimista
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeliveredAt   *time.Time
}

// JobCardEvent transición registrada en el historial de la orden.
type JobCardEvent struct {
	ID         string
	JobCardID  string
	FromStatus string
	ToStatus   string
	Note       string
	UserID     string
	CreatedAt  time.Time
}
