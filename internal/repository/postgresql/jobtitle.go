package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/jobtitle"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type jobTitleRepositoryImpl struct {
	db *database.DB
}

func NewJobTitleRepository(db *database.DB) jobtitle.JobTitleRepository {
	return &jobTitleRepositoryImpl{db: db}
}

const jobTitleQuery = `
	SELECT jt.id, jt.name, dp.id, dp.name, g.id, g.name, g.base_salary_min, g.base_salary_max
	FROM job_titles jt
	JOIN departments dp ON dp.id = jt.department_id
	JOIN grades g ON g.id = jt.grade_id
`

func scanJobTitle(row pgx.Row) (jobtitle.JobTitle, error) {
	var jt jobtitle.JobTitle
	err := row.Scan(&jt.ID, &jt.Name, &jt.DepartmentID, &jt.DepartmentName, &jt.GradeID, &jt.GradeName, &jt.BaseSalaryMin, &jt.BaseSalaryMax)
	return jt, err
}

// GetByID implements jobtitle.JobTitleRepository.
func (r *jobTitleRepositoryImpl) GetByID(ctx context.Context, id string) (jobtitle.JobTitle, error) {
	q := GetQuerier(ctx, r.db)

	jt, err := scanJobTitle(q.QueryRow(ctx, jobTitleQuery+" WHERE jt.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jobtitle.JobTitle{}, jobtitle.ErrJobTitleNotFound
		}
		return jobtitle.JobTitle{}, fmt.Errorf("failed to get job title: %w", err)
	}
	return jt, nil
}

// List implements jobtitle.JobTitleRepository.
func (r *jobTitleRepositoryImpl) List(ctx context.Context) ([]jobtitle.JobTitle, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, jobTitleQuery+" ORDER BY dp.name, jt.name")
	if err != nil {
		return nil, fmt.Errorf("failed to list job titles: %w", err)
	}
	defer rows.Close()

	var titles []jobtitle.JobTitle
	for rows.Next() {
		jt, err := scanJobTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job title: %w", err)
		}
		titles = append(titles, jt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}
