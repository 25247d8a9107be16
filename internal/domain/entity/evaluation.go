package entity

import (
	"github.com/shopspring/decimal"

	"acquisition_desk/internal/domain/value"
)

// Evaluation is the financial risk profile of an acquisition. It is derived
// data: stored once at submission and only replaced by an explicit
// re-evaluation.
type Evaluation struct {
	ProjectedGross       decimal.Decimal
	MarketVariance       decimal.Decimal
	ReconPercentage      decimal.Decimal
	HQAppraisalSuggested bool
	RedFlagStatus        value.RedFlag
}

// NeedsReview reports whether the acquisition should be routed to a manager.
func (e Evaluation) NeedsReview() bool {
	return e.HQAppraisalSuggested || e.RedFlagStatus.Raised()
}
