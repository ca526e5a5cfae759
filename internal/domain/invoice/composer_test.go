package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(price, qty, rate string) invoice.Line {
	return invoice.Line{
		ProductID:   1,
		ProductName: "Item",
		Quantity:    d(qty),
		UnitPrice:   d(price),
		GSTRate:     d(rate),
	}
}

func assertAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}

func TestCompose_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		lines    []invoice.Line
		discount string
		subtotal string
		cgst     string
		totalGST string
		total    string
	}{
		{
			name:     "single line at eighteen percent",
			lines:    []invoice.Line{line("100", "2", "18")},
			discount: "0",
			subtotal: "200",
			cgst:     "18",
			totalGST: "36",
			total:    "236",
		},
		{
			name:     "flat discount",
			lines:    []invoice.Line{line("100", "2", "18")},
			discount: "50",
			subtotal: "200",
			cgst:     "18",
			totalGST: "36",
			total:    "186",
		},
		{
			name:     "mixed rates",
			lines:    []invoice.Line{line("50", "1", "0"), line("30", "3", "12")},
			discount: "0",
			subtotal: "140",
			cgst:     "5.4",
			totalGST: "10.8",
			total:    "150.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := invoice.Compose(tt.lines, d(tt.discount))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertAmount(t, "subtotal", c.Totals.Subtotal, tt.subtotal)
			assertAmount(t, "cgst", c.Totals.CGST, tt.cgst)
			assertAmount(t, "sgst", c.Totals.SGST, tt.cgst)
			assertAmount(t, "total gst", c.Totals.TotalGST, tt.totalGST)
			assertAmount(t, "total", c.Totals.Total, tt.total)
			if len(c.Lines) != len(tt.lines) {
				t.Fatalf("expected %d priced lines, got %d", len(tt.lines), len(c.Lines))
			}
		})
	}
}

func TestCompose_LineBreakdown(t *testing.T) {
	c, err := invoice.Compose([]invoice.Line{line("50", "1", "0"), line("30", "3", "12")}, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := c.Lines[1]
	assertAmount(t, "line subtotal", second.Subtotal, "90")
	assertAmount(t, "line cgst", second.CGST, "5.4")
	assertAmount(t, "line sgst", second.SGST, "5.4")
	assertAmount(t, "line total gst", second.TotalGST, "10.8")
	assertAmount(t, "line total", second.Total, "100.8")

	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	assertAmount(t, "item unit price", items[1].UnitPrice, "30")
	assertAmount(t, "item quantity", items[1].Quantity, "3")
}

func TestCompose_DiscountAboveSubtotalIsAccepted(t *testing.T) {
	c, err := invoice.Compose([]invoice.Line{line("10", "1", "0")}, d("25"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAmount(t, "total", c.Totals.Total, "-15")
}

func TestCompose_RoundsOnlyTheTotals(t *testing.T) {
	// Each line carries 0.004 of gst. Rounding per line would drop it
	// entirely; summing first gives 0.012.
	lines := []invoice.Line{
		line("0.10", "1", "4"),
		line("0.10", "1", "4"),
		line("0.10", "1", "4"),
	}
	c, err := invoice.Compose(lines, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertAmount(t, "line total gst", c.Lines[0].TotalGST, "0.004")
	assertAmount(t, "line cgst", c.Lines[0].CGST, "0.002")
	assertAmount(t, "subtotal", c.Totals.Subtotal, "0.3")
	assertAmount(t, "total gst", c.Totals.TotalGST, "0.01")
	assertAmount(t, "cgst", c.Totals.CGST, "0.005")
	assertAmount(t, "sgst", c.Totals.SGST, "0.005")
	assertAmount(t, "total", c.Totals.Total, "0.31")
}

func TestCompose_OddCentTaxIsChargedOnce(t *testing.T) {
	tests := []struct {
		name     string
		line     invoice.Line
		totalGST string
		half     string
		total    string
	}{
		{"one percent of one", line("1", "1", "1"), "0.01", "0.005", "1.01"},
		{"eighteen percent of 45.50", line("45.50", "1", "18"), "8.19", "4.095", "53.69"},
		{"three percent of 0.50", line("0.50", "1", "3"), "0.02", "0.01", "0.52"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := invoice.Compose([]invoice.Line{tt.line}, decimal.Zero)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertAmount(t, "total gst", c.Totals.TotalGST, tt.totalGST)
			assertAmount(t, "cgst", c.Totals.CGST, tt.half)
			assertAmount(t, "sgst", c.Totals.SGST, tt.half)
			assertAmount(t, "total", c.Totals.Total, tt.total)
		})
	}
}

func TestCompose_InvariantsHoldAfterRounding(t *testing.T) {
	carts := [][]invoice.Line{
		{line("19.99", "3", "5"), line("0.07", "11", "28")},
		{line("1234.56", "0.375", "18"), line("3.33", "7", "12"), line("0.01", "1", "3")},
		{line("99.95", "1.5", "33.33")},
		{line("0.01", "0.001", "0.01"), line("45.5", "1", "18")},
	}
	discounts := []string{"0", "0.01", "17.49", "5000"}

	for i, cart := range carts {
		for _, disc := range discounts {
			c, err := invoice.Compose(cart, d(disc))
			if err != nil {
				t.Fatalf("cart %d: unexpected error: %v", i, err)
			}

			subtotal, gst := decimal.Zero, decimal.Zero
			for _, l := range c.Lines {
				subtotal = subtotal.Add(l.Subtotal)
				gst = gst.Add(l.TotalGST)
			}

			tot := c.Totals
			if !tot.TotalGST.Equal(gst.Round(2)) {
				t.Errorf("cart %d: total gst %s, expected %s", i, tot.TotalGST, gst.Round(2))
			}
			if !tot.TotalGST.Equal(tot.CGST.Add(tot.SGST)) {
				t.Errorf("cart %d: total gst %s != cgst %s + sgst %s", i, tot.TotalGST, tot.CGST, tot.SGST)
			}
			if !tot.CGST.Equal(tot.SGST) {
				t.Errorf("cart %d: cgst %s != sgst %s", i, tot.CGST, tot.SGST)
			}
			want := subtotal.Add(gst).Sub(d(disc)).Round(2)
			if !tot.Total.Equal(want) {
				t.Errorf("cart %d discount %s: total %s, expected %s", i, disc, tot.Total, want)
			}
			if tot.Total.Exponent() < -2 || tot.CGST.Exponent() < -3 {
				t.Errorf("cart %d: total %s or cgst %s carries too many places", i, tot.Total, tot.CGST)
			}
		}
	}
}

func TestCompose_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		lines    []invoice.Line
		discount string
	}{
		{"empty cart", nil, "0"},
		{"zero quantity", []invoice.Line{line("10", "0", "5")}, "0"},
		{"negative quantity", []invoice.Line{line("10", "-1", "5")}, "0"},
		{"zero price", []invoice.Line{line("0", "1", "5")}, "0"},
		{"rate above hundred", []invoice.Line{line("10", "1", "101")}, "0"},
		{"negative discount", []invoice.Line{line("10", "1", "5")}, "-1"},
		{"price below a cent", []invoice.Line{line("10.005", "1", "5")}, "0"},
		{"quantity below a thousandth", []invoice.Line{line("10", "0.0005", "5")}, "0"},
		{"rate with three places", []invoice.Line{line("10", "1", "5.125")}, "0"},
		{"discount below a cent", []invoice.Line{line("10", "1", "5")}, "0.005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invoice.Compose(tt.lines, d(tt.discount))
			if !apperror.IsKind(err, apperror.KindInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestCompose_EmptyCartMessage(t *testing.T) {
	_, err := invoice.Compose(nil, decimal.Zero)
	if err == nil || err.Error() != "at least one item required" {
		t.Fatalf("unexpected error: %v", err)
	}
}
