// Package valuation computes the financial risk profile of an acquisition.
package valuation

import (
	"errors"

	"github.com/shopspring/decimal"

	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/value"
)

// ErrNegativeThreshold rejects a policy with any threshold below zero.
var ErrNegativeThreshold = errors.New("policy thresholds must not be negative")

// Policy holds the thresholds an acquisition is judged against.
type Policy struct {
	MinGrossProfit     decimal.Decimal
	MaxReconPercentage decimal.Decimal
	HQPriceThreshold   decimal.Decimal
}

// DefaultPolicy is the canonical policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		MinGrossProfit:     decimal.NewFromInt(1500),
		MaxReconPercentage: decimal.RequireFromString("0.20"),
		HQPriceThreshold:   decimal.NewFromInt(50000),
	}
}

// Validate reports ErrNegativeThreshold when any threshold is negative.
func (p Policy) Validate() error {
	if p.MinGrossProfit.IsNegative() || p.MaxReconPercentage.IsNegative() || p.HQPriceThreshold.IsNegative() {
		return ErrNegativeThreshold
	}

	return nil
}

// Evaluate derives the evaluation of an acquisition under policy. It never
// fails: zero-valued amounts yield a degenerate but well-defined result.
//
// Low gross wins over high recon when both apply.
func Evaluate(acquisition entity.Acquisition, policy Policy) entity.Evaluation {
	purchase := acquisition.PurchasePrice
	retail := acquisition.PlannedRetail
	recon := acquisition.EstReconCost

	projectedGross := retail.Sub(purchase).Sub(recon)
	reconPercentage := decimal.Zero

	if purchase.IsPositive() {
		reconPercentage = recon.Div(purchase)
	}

	redFlag := value.RedFlagNone

	switch {
	case projectedGross.LessThan(policy.MinGrossProfit):
		redFlag = value.RedFlagLowGross
	case reconPercentage.GreaterThan(policy.MaxReconPercentage):
		redFlag = value.RedFlagHighRecon
	}

	return entity.Evaluation{
		ProjectedGross:       projectedGross,
		MarketVariance:       retail.Sub(acquisition.MMRValue),
		ReconPercentage:      reconPercentage,
		HQAppraisalSuggested: purchase.GreaterThanOrEqual(policy.HQPriceThreshold),
		RedFlagStatus:        redFlag,
	}
}
