package tax

import "context"

// RateRepository loads TER bands seeded in the pph21_ter_rates table.
type RateRepository interface {
	ListTERBands(ctx context.Context) ([]TERBand, error)
}
