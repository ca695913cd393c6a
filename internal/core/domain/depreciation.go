package domain

import "github.com/shopspring/decimal"

// PropertyAttributes is the asset snapshot a depreciation run starts from.
// StartDate stays a plain YYYY-MM-DD string; schedule boundaries are computed
// from its components, never through a timezone-sensitive parse.
type PropertyAttributes struct {
	PropertyID    string           `json:"propertyID"`
	Name          string           `json:"name"`
	PropertyType  string           `json:"propertyType"` // residential | commercial | industrial | mixed_use
	PurchasePrice decimal.Decimal  `json:"purchasePrice"`
	LandValue     *decimal.Decimal `json:"landValue,omitempty"`
	StartDate     string           `json:"startDate"`
}

// DepreciationScheduleRow is one calendar year of a straight-line schedule.
// Computed on demand, never persisted.
type DepreciationScheduleRow struct {
	Year         int             `json:"year"`
	AnnualAmount decimal.Decimal `json:"annualAmount"`
	Cumulative   decimal.Decimal `json:"cumulative"`
	BookValue    decimal.Decimal `json:"bookValue"`
}
