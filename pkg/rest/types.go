// Package rest holds the wire types of the HTTP API.
package rest

import "time"

// VehicleSubmission is the intake form payload.
type VehicleSubmission struct {
	VIN          string `json:"vin" validate:"required,len=17,alphanum"`
	Year         int    `json:"year" validate:"required,min=1990,max=2100"`
	Make         string `json:"make" validate:"max=64"`
	Model        string `json:"model" validate:"max=64"`
	Odometer     int    `json:"odometer" validate:"min=0,max=500000"`
	StoreCode    string `json:"storeCode" validate:"omitempty,max=8,alphanum"`
	Channel      string `json:"channel" validate:"max=64"`
	BuyerName    string `json:"buyerName" validate:"max=128"`
	PurchaseDate *Date  `json:"purchaseDate,omitempty"`

	PurchasePrice Amount `json:"purchasePrice"`
	PlannedRetail Amount `json:"plannedRetail"`
	EstReconCost  Amount `json:"estReconCost"`
	MMRValue      Amount `json:"mmrValue"`
	KBBWholesale  Amount `json:"kbbWholesale"`

	CustomerName string `json:"customerName" validate:"max=128"`
	InitialNotes string `json:"initialNotes" validate:"max=2000"`
}

type Evaluation struct {
	ProjectedGross       Amount `json:"projectedGross"`
	MarketVariance       Amount `json:"marketVariance"`
	ReconPercentage      Amount `json:"reconPercentage"`
	HQAppraisalSuggested bool   `json:"hqAppraisalSuggested"`
	RedFlagStatus        string `json:"redFlagStatus"`
}

type Vehicle struct {
	StockNumber  string `json:"stockNumber"`
	VIN          string `json:"vin"`
	Year         int    `json:"year"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Odometer     int    `json:"odometer"`
	StoreCode    string `json:"storeCode"`
	Channel      string `json:"channel"`
	BuyerName    string `json:"buyerName"`
	PurchaseDate Date   `json:"purchaseDate"`

	PurchasePrice Amount `json:"purchasePrice"`
	PlannedRetail Amount `json:"plannedRetail"`
	EstReconCost  Amount `json:"estReconCost"`
	MMRValue      Amount `json:"mmrValue"`
	KBBWholesale  Amount `json:"kbbWholesale"`

	CustomerName string `json:"customerName,omitempty"`
	InitialNotes string `json:"initialNotes,omitempty"`

	Evaluation

	CurrentStatus string    `json:"currentStatus"`
	DateLogged    Date      `json:"dateLogged"`
	StatusDate    Date      `json:"statusDate"`
	CreatedAt     time.Time `json:"createdAt"`
}

type VehicleList struct {
	Items  []Vehicle `json:"items"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

type EvaluationPreview struct {
	Prefix string `json:"prefix"`
	Evaluation
}

type Policy struct {
	MinGrossProfit     Amount `json:"minGrossProfit"`
	MaxReconPercentage Amount `json:"maxReconPercentage"`
	HQPriceThreshold   Amount `json:"hqPriceThreshold"`
}

// Error is the error response body.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	SupportID string    `json:"supportId"`
}

type ErrorCode string
