package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/jobtitle"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/placement"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var dupErr *payroll.DuplicatePeriodError
	if errors.As(err, &dupErr) {
		ErrorWithDetails(w, http.StatusConflict, "PERIOD_EXISTS", "Payroll period already generated", map[string]string{
			"period_id":    dupErr.Existing.ID,
			"period":       dupErr.Existing.PeriodKey,
			"status":       string(dupErr.Existing.Status),
			"detail_count": strconv.Itoa(dupErr.Existing.DetailCount),
		})
		return
	}

	var stateErr *payroll.StateError
	if errors.As(err, &stateErr) {
		status, code := http.StatusConflict, "INVALID_STATE"
		switch {
		case errors.Is(err, payroll.ErrPeriodLocked):
			code = "PERIOD_LOCKED"
		case errors.Is(err, payroll.ErrInvalidTransition):
			code = "INVALID_TRANSITION"
		case errors.Is(err, payroll.ErrInvalidPeriod):
			status, code = http.StatusUnprocessableEntity, "INVALID_PERIOD"
		}
		ErrorWithDetails(w, status, code, stateErr.Error(), map[string]string{
			"operation":      stateErr.Op,
			"current_status": string(stateErr.Current),
		})
		return
	}

	var integrityErr *ledger.DataIntegrityError
	if errors.As(err, &integrityErr) {
		slog.Error("ledger data integrity failure", "account_code", integrityErr.AccountCode, "error", err)
		ErrorWithDetails(w, http.StatusInternalServerError, "DATA_INTEGRITY_ERROR", "Ledger reference data is incomplete", map[string]string{
			"account_code": integrityErr.AccountCode,
		})
		return
	}

	switch {
	// Auth
	case errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, payroll.ErrNoEmployeeLink):
		Forbidden(w, "Account is not linked to an employee")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrInvalidRole):
		UnprocessableEntity(w, "Invalid role")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrLoginAlreadyProvisioned):
		Conflict(w, "Employee already has a login")
	case errors.Is(err, employee.ErrEmployeeInactive):
		UnprocessableEntity(w, "Employee is inactive")

	// Placement domain errors
	case errors.Is(err, placement.ErrPlacementNotFound):
		NotFound(w, "Placement not found")
	case errors.Is(err, placement.ErrNoCurrentPlacement):
		NotFound(w, "Employee has no current placement")
	case errors.Is(err, placement.ErrOpenPlacementConflict):
		Conflict(w, "Employee already has an open placement")
	case errors.Is(err, placement.ErrValidFromNotAfterOpen):
		UnprocessableEntity(w, err.Error())

	// Master data
	case errors.Is(err, jobtitle.ErrJobTitleNotFound):
		NotFound(w, "Job title not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrDetailNotFound):
		NotFound(w, "Payroll detail not found")
	case errors.Is(err, payroll.ErrComponentNotFound):
		NotFound(w, "Payroll component not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		Conflict(w, "Payroll period already generated")
	case errors.Is(err, payroll.ErrInvalidTransition),
		errors.Is(err, payroll.ErrInvalidPeriodState),
		errors.Is(err, payroll.ErrPeriodLocked):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidPeriod),
		errors.Is(err, payroll.ErrNoDetails),
		errors.Is(err, payroll.ErrPaymentProofMissing),
		errors.Is(err, payroll.ErrDetailWithoutEmployee),
		errors.Is(err, payroll.ErrInvalidProofFile):
		UnprocessableEntity(w, err.Error())

	// Ledger domain errors
	case errors.Is(err, ledger.ErrJournalNotFound):
		NotFound(w, "Journal not found")
	case errors.Is(err, ledger.ErrAccountNotFound):
		NotFound(w, "Account not found")
	case errors.Is(err, ledger.ErrJournalExists):
		Conflict(w, "Journal already posted for this period")
	case errors.Is(err, ledger.ErrUnbalancedJournal):
		slog.Error("unbalanced payroll journal", "error", err)
		ErrorWithDetails(w, http.StatusInternalServerError, "DATA_INTEGRITY_ERROR", "Journal debit and credit do not balance", nil)

	// Files
	case errors.Is(err, file.ErrFileTooLarge):
		UnprocessableEntity(w, "File exceeds the size limit")
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "Invalid file path", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
