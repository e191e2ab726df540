package tax

import "github.com/shopspring/decimal"

// Bracket is one layer of the annual progressive schedule. A nil Limit marks
// the open-ended top layer.
type Bracket struct {
	Limit *decimal.Decimal
	Rate  decimal.Decimal
}

func limit(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// Brackets is the article 17 schedule applied to annual taxable income.
var Brackets = []Bracket{
	{Limit: limit(60_000_000), Rate: decimal.RequireFromString("0.05")},
	{Limit: limit(250_000_000), Rate: decimal.RequireFromString("0.15")},
	{Limit: limit(500_000_000), Rate: decimal.RequireFromString("0.25")},
	{Limit: limit(5_000_000_000), Rate: decimal.RequireFromString("0.30")},
	{Limit: nil, Rate: decimal.RequireFromString("0.35")},
}

// ProgressiveAnnual applies Brackets to the taxable balance layer by layer.
// Negative input is treated as zero.
func ProgressiveAnnual(taxable decimal.Decimal) decimal.Decimal {
	remaining := decimal.Max(taxable, decimal.Zero)
	total := decimal.Zero
	previous := decimal.Zero

	for _, b := range Brackets {
		if !remaining.IsPositive() {
			break
		}

		portion := remaining
		if b.Limit != nil {
			portion = decimal.Min(remaining, b.Limit.Sub(previous))
			previous = *b.Limit
		}

		total = total.Add(portion.Mul(b.Rate))
		remaining = remaining.Sub(portion)
	}

	return total
}

// FloorThousand rounds an amount down to the nearest 1,000.
func FloorThousand(v decimal.Decimal) decimal.Decimal {
	thousand := decimal.NewFromInt(1000)
	return v.Div(thousand).Floor().Mul(thousand)
}
