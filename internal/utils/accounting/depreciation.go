package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// GAAP straight-line useful lives by property type, in years.
const (
	ResidentialLifeYears = 27.5
	CommercialLifeYears  = 39.0
	MixedUseLifeYears    = 30.0
)

// estimated land share of purchase price when no land value is supplied
var defaultLandShare = decimal.NewFromFloat(0.2)

// UsefulLifeYears returns the GAAP straight-line life for a property type.
// Unknown types depreciate on the commercial 39-year schedule.
func UsefulLifeYears(propertyType string) float64 {
	switch propertyType {
	case "residential":
		return ResidentialLifeYears
	case "commercial", "industrial":
		return CommercialLifeYears
	case "mixed_use":
		return MixedUseLifeYears
	default:
		return CommercialLifeYears
	}
}

// DepreciableBasis computes purchase price minus land value. A nil or negative
// land value means "not supplied": land is estimated at 20% of the price.
// The result is floored at zero.
func DepreciableBasis(purchasePrice decimal.Decimal, landValue *decimal.Decimal) decimal.Decimal {
	var basis decimal.Decimal
	if landValue != nil && !landValue.IsNegative() {
		basis = purchasePrice.Sub(*landValue)
	} else {
		basis = purchasePrice.Sub(purchasePrice.Mul(defaultLandShare))
	}
	if basis.IsNegative() {
		return decimal.Zero
	}
	return basis
}

// MonthlyDepreciation is basis / (usefulLifeYears * 12), unrounded.
// Returns zero for a non-positive useful life.
func MonthlyDepreciation(basis decimal.Decimal, usefulLifeYears float64) decimal.Decimal {
	if usefulLifeYears <= 0 {
		return decimal.Zero
	}
	months := decimal.NewFromFloat(usefulLifeYears * 12)
	return basis.Div(months)
}

// TotalMonths is the whole number of months in the depreciation window.
func TotalMonths(usefulLifeYears float64) int {
	if usefulLifeYears <= 0 {
		return 0
	}
	return int(usefulLifeYears * 12)
}

// BuildYearlySchedule produces one row per calendar year touched by the
// window [start, start + usefulLifeYears*12 months). Partial first and last
// years get only the months that fall inside the window. Annual amounts are
// rounded to cents; the cumulative column accumulates the rounded amounts and
// book value floors at zero.
func BuildYearlySchedule(basis decimal.Decimal, usefulLifeYears float64, startDate string) ([]domain.DepreciationScheduleRow, error) {
	start, err := ParseLocalDate(startDate)
	if err != nil {
		return nil, err
	}
	totalMonths := TotalMonths(usefulLifeYears)
	if totalMonths == 0 || basis.LessThanOrEqual(decimal.Zero) {
		return []domain.DepreciationScheduleRow{}, nil
	}

	// Periods book the cent-rounded monthly amount, so annual totals are that
	// rounded figure times the month count and the final book value converges
	// to zero only within rounding.
	monthly := MonthlyDepreciation(basis, usefulLifeYears).Round(2)
	months := MonthSequence(start, totalMonths)

	monthsPerYear := make(map[int]int)
	for _, ym := range months {
		monthsPerYear[ym.Year]++
	}

	firstYear := months[0].Year
	lastYear := months[len(months)-1].Year

	rows := make([]domain.DepreciationScheduleRow, 0, lastYear-firstYear+1)
	cumulative := decimal.Zero
	for year := firstYear; year <= lastYear; year++ {
		annual := monthly.Mul(decimal.NewFromInt(int64(monthsPerYear[year]))).Round(2)
		cumulative = cumulative.Add(annual)
		bookValue := basis.Sub(cumulative)
		if bookValue.IsNegative() {
			bookValue = decimal.Zero
		}
		rows = append(rows, domain.DepreciationScheduleRow{
			Year:         year,
			AnnualAmount: annual,
			Cumulative:   cumulative,
			BookValue:    bookValue,
		})
	}
	return rows, nil
}
