package jobtitle

import (
	"context"

	"github.com/shopspring/decimal"
)

// JobTitle is read-only master data joined with its department and grade.
type JobTitle struct {
	ID             string
	Name           string
	DepartmentID   string
	DepartmentName string
	GradeID        string
	GradeName      string
	// Informational salary range of the grade. Placements are never validated against it.
	BaseSalaryMin *decimal.Decimal
	BaseSalaryMax *decimal.Decimal
}

type JobTitleRepository interface {
	GetByID(ctx context.Context, id string) (JobTitle, error)
	List(ctx context.Context) ([]JobTitle, error)
}
