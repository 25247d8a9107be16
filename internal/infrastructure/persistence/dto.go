package persistence

import (
	"time"

	"github.com/shopspring/decimal"

	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/value"
)

// vehicleSchema maps a row of the vehicles table.
type vehicleSchema struct {
	ID           int64     `db:"id"`
	StockNumber  string    `db:"stock_number"`
	VIN          string    `db:"vin"`
	Year         int       `db:"year"`
	Make         string    `db:"make"`
	Model        string    `db:"model"`
	Odometer     int       `db:"odometer"`
	StoreCode    string    `db:"store_code"`
	Channel      string    `db:"channel"`
	BuyerName    string    `db:"buyer_name"`
	PurchaseDate time.Time `db:"purchase_date"`
	CustomerName string    `db:"customer_name"`
	InitialNotes string    `db:"initial_notes"`

	PurchasePrice decimal.Decimal `db:"purchase_price"`
	PlannedRetail decimal.Decimal `db:"planned_retail"`
	EstReconCost  decimal.Decimal `db:"est_recon_cost"`
	MMRValue      decimal.Decimal `db:"mmr_value"`
	KBBWholesale  decimal.Decimal `db:"kbb_wholesale"`

	ProjectedGross       decimal.Decimal `db:"projected_gross"`
	MarketVariance       decimal.Decimal `db:"market_variance"`
	ReconPercentage      decimal.Decimal `db:"recon_percentage"`
	HQAppraisalSuggested bool            `db:"hq_appraisal_suggested"`
	RedFlagStatus        string          `db:"red_flag_status"`

	CurrentStatus string    `db:"current_status"`
	DateLogged    time.Time `db:"date_logged"`
	StatusDate    time.Time `db:"status_date"`
	CreatedAt     time.Time `db:"created_at"`
}

func fromVehicle(v *entity.Vehicle) *vehicleSchema {
	return &vehicleSchema{
		ID:                   v.ID,
		StockNumber:          v.StockNumber.String(),
		VIN:                  v.VIN,
		Year:                 v.Year,
		Make:                 v.Make,
		Model:                v.Model,
		Odometer:             v.Odometer,
		StoreCode:            v.StoreCode,
		Channel:              v.Channel.String(),
		BuyerName:            v.BuyerName,
		PurchaseDate:         v.PurchaseDate,
		CustomerName:         v.CustomerName,
		InitialNotes:         v.InitialNotes,
		PurchasePrice:        v.PurchasePrice,
		PlannedRetail:        v.PlannedRetail,
		EstReconCost:         v.EstReconCost,
		MMRValue:             v.MMRValue,
		KBBWholesale:         v.KBBWholesale,
		ProjectedGross:       v.ProjectedGross,
		MarketVariance:       v.MarketVariance,
		ReconPercentage:      v.ReconPercentage,
		HQAppraisalSuggested: v.HQAppraisalSuggested,
		RedFlagStatus:        string(v.RedFlagStatus),
		CurrentStatus:        string(v.CurrentStatus),
		DateLogged:           v.DateLogged,
		StatusDate:           v.StatusDate,
		CreatedAt:            v.CreatedAt,
	}
}

func (s *vehicleSchema) toDomain() *entity.Vehicle {
	return &entity.Vehicle{
		ID:          s.ID,
		StockNumber: value.StockNumber(s.StockNumber),
		Acquisition: entity.Acquisition{
			VIN:           s.VIN,
			Year:          s.Year,
			Make:          s.Make,
			Model:         s.Model,
			Odometer:      s.Odometer,
			StoreCode:     s.StoreCode,
			Channel:       value.Channel(s.Channel),
			BuyerName:     s.BuyerName,
			PurchaseDate:  s.PurchaseDate,
			PurchasePrice: s.PurchasePrice,
			PlannedRetail: s.PlannedRetail,
			EstReconCost:  s.EstReconCost,
			MMRValue:      s.MMRValue,
			KBBWholesale:  s.KBBWholesale,
			CustomerName:  s.CustomerName,
			InitialNotes:  s.InitialNotes,
		},
		Evaluation: entity.Evaluation{
			ProjectedGross:       s.ProjectedGross,
			MarketVariance:       s.MarketVariance,
			ReconPercentage:      s.ReconPercentage,
			HQAppraisalSuggested: s.HQAppraisalSuggested,
			RedFlagStatus:        value.RedFlag(s.RedFlagStatus),
		},
		CurrentStatus: value.VehicleStatus(s.CurrentStatus),
		DateLogged:    s.DateLogged,
		StatusDate:    s.StatusDate,
		CreatedAt:     s.CreatedAt,
	}
}
