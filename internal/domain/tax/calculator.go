// internal/domain/tax/calculator.go
package tax

import (
	"github.com/shopspring/decimal"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Breakdown is the CGST/SGST split of the tax on one taxable amount.
// Values are unrounded.
type Breakdown struct {
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	TotalGST decimal.Decimal `json:"total_gst"`
}

// Calculate splits amount*rate/100 into two equal halves.
// rate is a percentage in [0, 100].
func Calculate(amount, rate decimal.Decimal) (Breakdown, error) {
	if amount.IsNegative() {
		return Breakdown{}, apperror.NewInvalidArgument("taxable amount cannot be negative")
	}
	if err := ValidateRate(rate); err != nil {
		return Breakdown{}, err
	}

	total := amount.Mul(rate).Div(hundred)
	half := total.Div(two)

	return Breakdown{
		CGST:     half,
		SGST:     half,
		TotalGST: total,
	}, nil
}

// ValidateRate checks that a GST rate lies in [0, 100]
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return apperror.NewInvalidArgument("gst rate must be between 0 and 100")
	}
	return nil
}
