package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"acquisition_desk/internal/domain/value"
)

// ReviewAlert is what a used car manager is told about a flagged vehicle.
type ReviewAlert struct {
	StockNumber          value.StockNumber
	VIN                  string
	Description          string
	BuyerName            string
	Channel              value.Channel
	RedFlag              value.RedFlag
	HQAppraisalSuggested bool
	PurchasePrice        decimal.Decimal
	ProjectedGross       decimal.Decimal
	ReconPercentage      decimal.Decimal
}

func NewReviewAlert(v Vehicle) ReviewAlert {
	return ReviewAlert{
		StockNumber:          v.StockNumber,
		VIN:                  v.VIN,
		Description:          describe(v.Acquisition),
		BuyerName:            v.BuyerName,
		Channel:              v.Channel,
		RedFlag:              v.RedFlagStatus,
		HQAppraisalSuggested: v.HQAppraisalSuggested,
		PurchasePrice:        v.PurchasePrice,
		ProjectedGross:       v.ProjectedGross,
		ReconPercentage:      v.ReconPercentage,
	}
}

func describe(a Acquisition) string {
	parts := make([]string, 0, 3) //nolint:mnd
	if a.Year > 0 {
		parts = append(parts, fmt.Sprint(a.Year))
	}

	for _, s := range []string{a.Make, a.Model} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, " ")
}
