package user

import "time"

type Role string

const (
	RoleHR       Role = "HR"       // Maintains employees and placements, sees period summaries
	RoleFinance  Role = "FINANCE"  // Drafts, submits and pays payroll periods
	RoleDirector Role = "DIRECTOR" // Approves or rejects submitted periods
	RoleEmployee Role = "EMPLOYEE" // Sees own payslips only
	RoleAdmin    Role = "ADMIN"    // Administrative override
)

var validRoles = map[Role]struct{}{
	RoleHR: {}, RoleFinance: {}, RoleDirector: {}, RoleEmployee: {}, RoleAdmin: {},
}

// ParseRole returns the role for s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := validRoles[r]
	return r, ok
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	EmployeeID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
