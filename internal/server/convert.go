package server

import (
	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/service/acquisition"
	"acquisition_desk/internal/domain/service/valuation"
	"acquisition_desk/internal/domain/value"
	"acquisition_desk/pkg/rest"
)

func newDomainAcquisition(s rest.VehicleSubmission) entity.Acquisition {
	a := entity.Acquisition{
		VIN:           s.VIN,
		Year:          s.Year,
		Make:          s.Make,
		Model:         s.Model,
		Odometer:      s.Odometer,
		StoreCode:     s.StoreCode,
		Channel:       value.Channel(s.Channel),
		BuyerName:     s.BuyerName,
		PurchasePrice: s.PurchasePrice.Decimal,
		PlannedRetail: s.PlannedRetail.Decimal,
		EstReconCost:  s.EstReconCost.Decimal,
		MMRValue:      s.MMRValue.Decimal,
		KBBWholesale:  s.KBBWholesale.Decimal,
		CustomerName:  s.CustomerName,
		InitialNotes:  s.InitialNotes,
	}

	if s.PurchaseDate != nil {
		a.PurchaseDate = s.PurchaseDate.Time
	}

	return a
}

func newRESTEvaluation(e entity.Evaluation) rest.Evaluation {
	return rest.Evaluation{
		ProjectedGross:       rest.NewAmount(e.ProjectedGross),
		MarketVariance:       rest.NewAmount(e.MarketVariance),
		ReconPercentage:      rest.NewAmount(e.ReconPercentage.Round(4)), //nolint:mnd
		HQAppraisalSuggested: e.HQAppraisalSuggested,
		RedFlagStatus:        e.RedFlagStatus.String(),
	}
}

func newRESTVehicle(v entity.Vehicle) rest.Vehicle {
	return rest.Vehicle{
		StockNumber:   v.StockNumber.String(),
		VIN:           v.VIN,
		Year:          v.Year,
		Make:          v.Make,
		Model:         v.Model,
		Odometer:      v.Odometer,
		StoreCode:     v.StoreCode,
		Channel:       v.Channel.String(),
		BuyerName:     v.BuyerName,
		PurchaseDate:  rest.NewDate(v.PurchaseDate),
		PurchasePrice: rest.NewAmount(v.PurchasePrice),
		PlannedRetail: rest.NewAmount(v.PlannedRetail),
		EstReconCost:  rest.NewAmount(v.EstReconCost),
		MMRValue:      rest.NewAmount(v.MMRValue),
		KBBWholesale:  rest.NewAmount(v.KBBWholesale),
		CustomerName:  v.CustomerName,
		InitialNotes:  v.InitialNotes,
		Evaluation:    newRESTEvaluation(v.Evaluation),
		CurrentStatus: v.CurrentStatus.String(),
		DateLogged:    rest.NewDate(v.DateLogged),
		StatusDate:    rest.NewDate(v.StatusDate),
		CreatedAt:     v.CreatedAt,
	}
}

func newRESTPreview(p acquisition.Preview) rest.EvaluationPreview {
	return rest.EvaluationPreview{
		Prefix:     p.Prefix,
		Evaluation: newRESTEvaluation(p.Evaluation),
	}
}

func newRESTPolicy(p valuation.Policy) rest.Policy {
	return rest.Policy{
		MinGrossProfit:     rest.NewAmount(p.MinGrossProfit),
		MaxReconPercentage: rest.NewAmount(p.MaxReconPercentage),
		HQPriceThreshold:   rest.NewAmount(p.HQPriceThreshold),
	}
}
