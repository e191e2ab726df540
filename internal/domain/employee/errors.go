package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeCodeExists      = errors.New("employee code already exists")
	ErrEmployeeInactive        = errors.New("employee is inactive")
	ErrLoginAlreadyProvisioned = errors.New("employee already has a login")
)
