package config

import (
	"github.com/shopspring/decimal"

	"acquisition_desk/internal/domain/service/valuation"
)

// Policy is the single place where operators override the evaluation
// thresholds. Defaults mirror valuation.DefaultPolicy.
type Policy struct {
	MinGrossProfit     decimal.Decimal `env:"POLICY_MIN_GROSS_PROFIT"     envDefault:"1500"`
	MaxReconPercentage decimal.Decimal `env:"POLICY_MAX_RECON_PERCENTAGE" envDefault:"0.20"`
	HQPriceThreshold   decimal.Decimal `env:"POLICY_HQ_PRICE_THRESHOLD"   envDefault:"50000"`
}

func (p Policy) Valuation() (valuation.Policy, error) {
	policy := valuation.Policy{
		MinGrossProfit:     p.MinGrossProfit,
		MaxReconPercentage: p.MaxReconPercentage,
		HQPriceThreshold:   p.HQPriceThreshold,
	}

	if err := policy.Validate(); err != nil {
		return valuation.Policy{}, err
	}

	return policy, nil
}
