package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"acquisition_desk/internal/domain/value"
)

// Acquisition is a vehicle submission as entered at the acquisition desk.
// It is immutable once submitted.
type Acquisition struct {
	VIN       string
	Year      int
	Make      string
	Model     string
	Odometer  int
	StoreCode string

	Channel      value.Channel
	BuyerName    string
	PurchaseDate time.Time

	PurchasePrice decimal.Decimal
	PlannedRetail decimal.Decimal
	EstReconCost  decimal.Decimal
	MMRValue      decimal.Decimal
	KBBWholesale  decimal.Decimal

	CustomerName string
	InitialNotes string
}
