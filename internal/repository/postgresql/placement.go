package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/placement"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type placementRepositoryImpl struct {
	db *database.DB
}

func NewPlacementRepository(db *database.DB) placement.PlacementRepository {
	return &placementRepositoryImpl{db: db}
}

const placementColumns = `
	pl.id, pl.employee_id, pl.job_title_id, pl.base_salary, pl.valid_from, pl.valid_to,
	pl.change_type, pl.note, pl.created_at, pl.updated_at,
	jt.name, dp.name, g.name, g.base_salary_min, g.base_salary_max
`

const placementFrom = `
	FROM placements pl
	LEFT JOIN job_titles jt ON jt.id = pl.job_title_id
	LEFT JOIN departments dp ON dp.id = jt.department_id
	LEFT JOIN grades g ON g.id = jt.grade_id
`

func scanPlacement(row pgx.Row) (placement.Placement, error) {
	var p placement.Placement
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.JobTitleID, &p.BaseSalary, &p.ValidFrom, &p.ValidTo,
		&p.ChangeType, &p.Note, &p.CreatedAt, &p.UpdatedAt,
		&p.JobTitleName, &p.DepartmentName, &p.GradeName, &p.BaseSalaryMin, &p.BaseSalaryMax,
	)
	return p, err
}

func (r *placementRepositoryImpl) getOne(ctx context.Context, query string, args ...any) (placement.Placement, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPlacement(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return placement.Placement{}, placement.ErrPlacementNotFound
		}
		return placement.Placement{}, fmt.Errorf("failed to get placement: %w", err)
	}
	return p, nil
}

// GetCurrent implements placement.PlacementRepository.
func (r *placementRepositoryImpl) GetCurrent(ctx context.Context, employeeID string) (placement.Placement, error) {
	query := "SELECT " + placementColumns + placementFrom + `
		WHERE pl.employee_id = $1 AND pl.valid_to IS NULL`
	return r.getOne(ctx, query, employeeID)
}

// GetEffectiveOn implements placement.PlacementRepository.
func (r *placementRepositoryImpl) GetEffectiveOn(ctx context.Context, employeeID string, date time.Time) (placement.Placement, error) {
	query := "SELECT " + placementColumns + placementFrom + `
		WHERE pl.employee_id = $1
		  AND pl.valid_from <= $2
		  AND (pl.valid_to IS NULL OR pl.valid_to >= $2)
		ORDER BY pl.valid_from DESC
		LIMIT 1`
	return r.getOne(ctx, query, employeeID, date)
}

// ListEffectiveOn implements placement.PlacementRepository.
func (r *placementRepositoryImpl) ListEffectiveOn(ctx context.Context, date time.Time) (map[string]placement.Placement, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT DISTINCT ON (pl.employee_id) " + placementColumns + placementFrom + `
		WHERE pl.valid_from <= $1
		  AND (pl.valid_to IS NULL OR pl.valid_to >= $1)
		ORDER BY pl.employee_id, pl.valid_from DESC`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list effective placements: %w", err)
	}
	defer rows.Close()

	placements := make(map[string]placement.Placement)
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		placements[p.EmployeeID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return placements, nil
}

// ListByEmployee implements placement.PlacementRepository.
func (r *placementRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]placement.Placement, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + placementColumns + placementFrom + `
		WHERE pl.employee_id = $1
		ORDER BY pl.valid_from DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list placements: %w", err)
	}
	defer rows.Close()

	var placements []placement.Placement
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		placements = append(placements, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return placements, nil
}

// Create implements placement.PlacementRepository.
func (r *placementRepositoryImpl) Create(ctx context.Context, p placement.Placement) (placement.Placement, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO placements (employee_id, job_title_id, base_salary, valid_from, valid_to, change_type, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, p.EmployeeID, p.JobTitleID, p.BaseSalary, p.ValidFrom, p.ValidTo, p.ChangeType, p.Note).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "placements_one_open_per_employee") {
			return placement.Placement{}, placement.ErrOpenPlacementConflict
		}
		return placement.Placement{}, fmt.Errorf("failed to create placement: %w", err)
	}

	return r.getOne(ctx, "SELECT "+placementColumns+placementFrom+" WHERE pl.id = $1", id)
}

// Close implements placement.PlacementRepository.
func (r *placementRepositoryImpl) Close(ctx context.Context, id string, validTo time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE placements SET valid_to = $2, updated_at = NOW()
		WHERE id = $1 AND valid_to IS NULL
	`, id, validTo)
	if err != nil {
		return fmt.Errorf("failed to close placement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return placement.ErrPlacementNotFound
	}
	return nil
}
