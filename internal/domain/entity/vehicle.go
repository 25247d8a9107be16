package entity

import (
	"time"

	"acquisition_desk/internal/domain/value"
)

// Vehicle is the persisted inventory record: the submission enriched with its
// stock number and evaluation.
type Vehicle struct {
	ID          int64
	StockNumber value.StockNumber
	Acquisition
	Evaluation

	CurrentStatus value.VehicleStatus
	DateLogged    time.Time
	StatusDate    time.Time
	CreatedAt     time.Time
}
