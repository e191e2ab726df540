package jobtitle

import "github.com/shopspring/decimal"

type JobTitleResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	DepartmentID   string           `json:"department_id"`
	DepartmentName string           `json:"department_name"`
	GradeID        string           `json:"grade_id"`
	GradeName      string           `json:"grade_name"`
	BaseSalaryMin  *decimal.Decimal `json:"base_salary_min,omitempty"`
	BaseSalaryMax  *decimal.Decimal `json:"base_salary_max,omitempty"`
}

func NewJobTitleResponse(j JobTitle) JobTitleResponse {
	return JobTitleResponse{
		ID:             j.ID,
		Name:           j.Name,
		DepartmentID:   j.DepartmentID,
		DepartmentName: j.DepartmentName,
		GradeID:        j.GradeID,
		GradeName:      j.GradeName,
		BaseSalaryMin:  j.BaseSalaryMin,
		BaseSalaryMax:  j.BaseSalaryMax,
	}
}
