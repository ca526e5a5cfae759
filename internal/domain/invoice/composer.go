// internal/domain/invoice/composer.go
package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/tax"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

const (
	// currencyPlaces is the precision of persisted invoice totals
	currencyPlaces = 2
	// halfTaxPlaces holds half of a two place amount exactly
	halfTaxPlaces = 3
)

// Most decimal places a cart line may carry. These match the stored columns
// so nothing is rounded on the way to the database.
const (
	PricePlaces    = 2
	QuantityPlaces = 3
	RatePlaces     = 2
)

var two = decimal.NewFromInt(2)

// Line is one cart entry to be priced
type Line struct {
	ProductID   uint
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	GSTRate     decimal.Decimal
}

// PricedLine is a cart line with its unrounded tax and totals
type PricedLine struct {
	Line
	Subtotal decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	TotalGST decimal.Decimal
	Total    decimal.Decimal
}

// Totals are the invoice level amounts. TotalGST and Total are each rounded
// once to currency precision from the unrounded sums. CGST and SGST are the
// two halves of TotalGST and carry up to three places.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	TotalGST decimal.Decimal `json:"total_gst"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Composition is the result of pricing a cart
type Composition struct {
	Lines  []PricedLine
	Totals Totals
}

// Compose prices every line and aggregates the invoice totals. Sums are
// taken over unrounded line values and rounded once at the end. The
// discount is a flat amount and may exceed the subtotal.
func Compose(lines []Line, discount decimal.Decimal) (*Composition, error) {
	if len(lines) == 0 {
		return nil, apperror.NewInvalidArgument("at least one item required")
	}
	if discount.IsNegative() {
		return nil, apperror.NewInvalidArgument("discount cannot be negative")
	}
	if !fitsPlaces(discount, currencyPlaces) {
		return nil, apperror.NewInvalidArgument(fmt.Sprintf("discount cannot have more than %d decimal places", currencyPlaces))
	}

	priced := make([]PricedLine, 0, len(lines))
	subtotal := decimal.Zero
	totalGST := decimal.Zero

	for i, line := range lines {
		if !line.Quantity.IsPositive() {
			return nil, apperror.NewInvalidArgument(fmt.Sprintf("item %d: quantity must be greater than 0", i+1))
		}
		if !line.UnitPrice.IsPositive() {
			return nil, apperror.NewInvalidArgument(fmt.Sprintf("item %d: price must be greater than 0", i+1))
		}
		if err := checkPlaces(i, line); err != nil {
			return nil, err
		}

		lineSubtotal := line.UnitPrice.Mul(line.Quantity)
		breakdown, err := tax.Calculate(lineSubtotal, line.GSTRate)
		if err != nil {
			return nil, apperror.NewInvalidArgument(fmt.Sprintf("item %d: %s", i+1, err.Error()))
		}

		priced = append(priced, PricedLine{
			Line:     line,
			Subtotal: lineSubtotal,
			CGST:     breakdown.CGST,
			SGST:     breakdown.SGST,
			TotalGST: breakdown.TotalGST,
			Total:    lineSubtotal.Add(breakdown.TotalGST),
		})

		subtotal = subtotal.Add(lineSubtotal)
		totalGST = totalGST.Add(breakdown.TotalGST)
	}

	return &Composition{
		Lines:  priced,
		Totals: roundTotals(subtotal, totalGST, discount),
	}, nil
}

func checkPlaces(i int, line Line) error {
	switch {
	case !fitsPlaces(line.Quantity, QuantityPlaces):
		return apperror.NewInvalidArgument(fmt.Sprintf("item %d: quantity cannot have more than %d decimal places", i+1, QuantityPlaces))
	case !fitsPlaces(line.UnitPrice, PricePlaces):
		return apperror.NewInvalidArgument(fmt.Sprintf("item %d: price cannot have more than %d decimal places", i+1, PricePlaces))
	case !fitsPlaces(line.GSTRate, RatePlaces):
		return apperror.NewInvalidArgument(fmt.Sprintf("item %d: gst rate cannot have more than %d decimal places", i+1, RatePlaces))
	}
	return nil
}

func fitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// roundTotals rounds the unrounded sums once each. The grand total is taken
// from the unrounded amounts so no half-cent is charged twice.
func roundTotals(subtotal, totalGST, discount decimal.Decimal) Totals {
	roundedGST := totalGST.Round(currencyPlaces)
	half := roundedGST.Div(two).Round(halfTaxPlaces)

	return Totals{
		Subtotal: subtotal.Round(currencyPlaces),
		CGST:     half,
		SGST:     half,
		TotalGST: roundedGST,
		Discount: discount.Round(currencyPlaces),
		Total:    subtotal.Add(totalGST).Sub(discount).Round(currencyPlaces),
	}
}

// Items converts priced lines into invoice item rows
func (c *Composition) Items() []InvoiceItem {
	items := make([]InvoiceItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, InvoiceItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			GSTRate:     line.GSTRate,
			CGST:        line.CGST,
			SGST:        line.SGST,
			TotalGST:    line.TotalGST,
			Subtotal:    line.Subtotal,
			Total:       line.Total,
		})
	}
	return items
}
