package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/tax"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type terRateRepositoryImpl struct {
	db *database.DB
}

func NewTERRateRepository(db *database.DB) tax.RateRepository {
	return &terRateRepositoryImpl{db: db}
}

// ListTERBands implements tax.RateRepository.
func (r *terRateRepositoryImpl) ListTERBands(ctx context.Context) ([]tax.TERBand, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT category, lower_bound, upper_bound, rate
		FROM pph21_ter_rates
		ORDER BY category, lower_bound
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list TER rates: %w", err)
	}
	defer rows.Close()

	var bands []tax.TERBand
	for rows.Next() {
		var b tax.TERBand
		if err := rows.Scan(&b.Category, &b.Lower, &b.Upper, &b.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan TER rate: %w", err)
		}
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bands, nil
}
