package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

// ========== PERIODS ==========

const periodColumns = `
	p.id, p.sequence, p.period_key, p.status, p.note, p.created_by,
	p.submitted_by, p.submitted_at, p.approved_by, p.approved_at, p.paid_by, p.paid_at,
	p.created_at, p.updated_at
`

func scanPeriod(row pgx.Row, extra ...any) (payroll.Period, error) {
	var p payroll.Period
	dest := []any{
		&p.ID, &p.Sequence, &p.PeriodKey, &p.Status, &p.Note, &p.CreatedBy,
		&p.SubmittedBy, &p.SubmittedAt, &p.ApprovedBy, &p.ApprovedAt, &p.PaidBy, &p.PaidAt,
		&p.CreatedAt, &p.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return p, err
}

// yearPattern matches every period key of year with LIKE.
func yearPattern(year int) string {
	return fmt.Sprintf("%04d-%%", year)
}

// CreatePeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreatePeriod(ctx context.Context, p payroll.Period) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods AS p (period_key, status, created_by)
		VALUES ($1, $2, $3)
		RETURNING ` + periodColumns

	created, err := scanPeriod(q.QueryRow(ctx, query, p.PeriodKey, p.Status, p.CreatedBy))
	if err != nil {
		if isUniqueViolation(err, "payroll_periods_period_key_key") {
			return payroll.Period{}, payroll.ErrDuplicatePeriod
		}
		return payroll.Period{}, fmt.Errorf("failed to create payroll period: %w", err)
	}
	return created, nil
}

// GetPeriodByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetPeriodByID(ctx context.Context, id string) (payroll.Period, error) {
	return r.getPeriod(ctx, "p.id = $1", id)
}

// GetPeriodByKey implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetPeriodByKey(ctx context.Context, periodKey string) (payroll.Period, error) {
	return r.getPeriod(ctx, "p.period_key = $1", periodKey)
}

func (r *payrollRepositoryImpl) getPeriod(ctx context.Context, where string, arg any) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + periodColumns + `,
			COALESCE(agg.detail_count, 0), COALESCE(agg.total_cost, 0)
		FROM payroll_periods p
		LEFT JOIN (
			SELECT period_id, COUNT(*) AS detail_count, SUM(total) AS total_cost
			FROM payroll_details GROUP BY period_id
		) agg ON agg.period_id = p.id
		WHERE ` + where

	var (
		count int
		cost  decimal.Decimal
	)
	p, err := scanPeriod(q.QueryRow(ctx, query, arg), &count, &cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get payroll period: %w", err)
	}
	p.DetailCount = count
	p.TotalCost = cost
	return p, nil
}

// LockPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) LockPeriod(ctx context.Context, id string, mode payroll.LockMode) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	lock := "FOR SHARE"
	if mode == payroll.LockForUpdate {
		lock = "FOR UPDATE"
	}
	query := `SELECT ` + periodColumns + ` FROM payroll_periods p WHERE p.id = $1 ` + lock

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to lock payroll period: %w", err)
	}
	return p, nil
}

// ListPeriods implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListPeriods(ctx context.Context, filter payroll.PeriodFilter) ([]payroll.Period, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_periods p WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		baseQuery += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND p.period_key LIKE $%d", argIdx)
		args = append(args, yearPattern(*filter.Year))
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll periods: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	selectQuery := fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM payroll_details d WHERE d.period_id = p.id),
			(SELECT COALESCE(SUM(d.total), 0) FROM payroll_details d WHERE d.period_id = p.id)
		%s
		ORDER BY p.period_key DESC
		LIMIT $%d OFFSET $%d
	`, periodColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.Period
	for rows.Next() {
		var (
			count int
			cost  decimal.Decimal
		)
		p, err := scanPeriod(rows, &count, &cost)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		p.DetailCount = count
		p.TotalCost = cost
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return periods, totalCount, nil
}

// UpdatePeriodStatus implements payroll.PayrollRepository. The update only
// applies while the row still holds change.From.
func (r *payrollRepositoryImpl) UpdatePeriodStatus(ctx context.Context, change payroll.StatusChange) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods AS p SET
			status       = $3::text,
			note         = CASE WHEN $3::text = 'DRAFT' THEN $6::text ELSE p.note END,
			submitted_by = CASE WHEN $3::text = 'SUBMITTED_FOR_APPROVAL' THEN $4::uuid ELSE p.submitted_by END,
			submitted_at = CASE WHEN $3::text = 'SUBMITTED_FOR_APPROVAL' THEN $5::timestamptz ELSE p.submitted_at END,
			approved_by  = CASE WHEN $3::text = 'APPROVED' THEN $4::uuid ELSE p.approved_by END,
			approved_at  = CASE WHEN $3::text = 'APPROVED' THEN $5::timestamptz ELSE p.approved_at END,
			paid_by      = CASE WHEN $3::text = 'PAID' THEN $4::uuid ELSE p.paid_by END,
			paid_at      = CASE WHEN $3::text = 'PAID' THEN $5::timestamptz ELSE p.paid_at END,
			updated_at   = NOW()
		WHERE p.id = $1 AND p.status = $2
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query,
		change.PeriodID, change.From, change.To, change.ActorID, change.At, change.Note,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, &payroll.StateError{Op: "update status", Current: change.From, Kind: payroll.ErrInvalidTransition}
		}
		return payroll.Period{}, fmt.Errorf("failed to update payroll period status: %w", err)
	}
	return p, nil
}

// CountPeriodsByStatus implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CountPeriodsByStatus(ctx context.Context, statuses ...payroll.PeriodStatus) (int64, error) {
	q := GetQuerier(ctx, r.db)

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payroll_periods WHERE status = ANY($1)`, values).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payroll periods: %w", err)
	}
	return count, nil
}

// ========== DETAILS ==========

const detailColumns = `
	d.id, d.period_id, d.employee_id, d.job_title_id, d.base_salary, d.allowances,
	d.deductions, d.tax, d.total, d.payment_proof, d.created_at, d.updated_at,
	p.period_key, p.status, e.employee_code, e.full_name, e.tax_id, e.tax_status,
	e.bank_name, e.bank_account_number, e.bank_account_holder, jt.name
`

const detailFrom = `
	FROM payroll_details d
	JOIN payroll_periods p ON p.id = d.period_id
	LEFT JOIN employees e ON e.id = d.employee_id
	LEFT JOIN job_titles jt ON jt.id = d.job_title_id
`

func scanDetail(row pgx.Row) (payroll.Detail, error) {
	var d payroll.Detail
	err := row.Scan(
		&d.ID, &d.PeriodID, &d.EmployeeID, &d.JobTitleID, &d.BaseSalary, &d.Allowances,
		&d.Deductions, &d.Tax, &d.Total, &d.PaymentProof, &d.CreatedAt, &d.UpdatedAt,
		&d.PeriodKey, &d.PeriodStatus, &d.EmployeeCode, &d.EmployeeName, &d.TaxID, &d.TaxStatus,
		&d.BankName, &d.BankAccountNumber, &d.BankAccountHolder, &d.JobTitleName,
	)
	return d, err
}

func (r *payrollRepositoryImpl) queryDetails(ctx context.Context, query string, args ...any) ([]payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll details: %w", err)
	}
	defer rows.Close()

	var details []payroll.Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// CreateDetails implements payroll.PayrollRepository with a single COPY.
func (r *payrollRepositoryImpl) CreateDetails(ctx context.Context, details []payroll.Detail) (int64, error) {
	if len(details) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	columns := []string{"period_id", "employee_id", "job_title_id", "base_salary", "allowances", "deductions", "tax", "total"}
	copied, err := q.CopyFrom(ctx, pgx.Identifier{"payroll_details"}, columns,
		pgx.CopyFromSlice(len(details), func(i int) ([]any, error) {
			d := details[i]
			// Amounts go over COPY as text; pgx parses them into numeric.
			return []any{
				d.PeriodID, d.EmployeeID, d.JobTitleID,
				d.BaseSalary.String(), d.Allowances.String(), d.Deductions.String(), d.Tax.String(), d.Total.String(),
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create payroll details: %w", err)
	}
	return copied, nil
}

// CountDetails implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CountDetails(ctx context.Context, periodID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payroll_details WHERE period_id = $1`, periodID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payroll details: %w", err)
	}
	return count, nil
}

// GetDetail implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetDetail(ctx context.Context, id string) (payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDetail(q.QueryRow(ctx, "SELECT "+detailColumns+detailFrom+" WHERE d.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Detail{}, payroll.ErrDetailNotFound
		}
		return payroll.Detail{}, fmt.Errorf("failed to get payroll detail: %w", err)
	}
	return d, nil
}

// LockDetail implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) LockDetail(ctx context.Context, id string) (payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + detailColumns + detailFrom + " WHERE d.id = $1 FOR UPDATE OF d"
	d, err := scanDetail(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Detail{}, payroll.ErrDetailNotFound
		}
		return payroll.Detail{}, fmt.Errorf("failed to lock payroll detail: %w", err)
	}
	return d, nil
}

// ListDetailsByPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListDetailsByPeriod(ctx context.Context, periodID string) ([]payroll.Detail, error) {
	query := "SELECT " + detailColumns + detailFrom + " WHERE d.period_id = $1 ORDER BY e.employee_code ASC NULLS LAST, d.id"
	return r.queryDetails(ctx, query, periodID)
}

// ListDetailsByEmployee implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListDetailsByEmployee(ctx context.Context, employeeID string, periodKey *string) ([]payroll.Detail, error) {
	query := "SELECT " + detailColumns + detailFrom + " WHERE d.employee_id = $1"
	args := []any{employeeID}
	if periodKey != nil && *periodKey != "" {
		query += " AND p.period_key = $2"
		args = append(args, *periodKey)
	}
	query += " ORDER BY p.period_key DESC"
	return r.queryDetails(ctx, query, args...)
}

// GetDetailByEmployeeAndPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetDetailByEmployeeAndPeriod(ctx context.Context, employeeID, periodID string) (payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + detailColumns + detailFrom + " WHERE d.employee_id = $1 AND d.period_id = $2"
	d, err := scanDetail(q.QueryRow(ctx, query, employeeID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Detail{}, payroll.ErrPayslipNotFound
		}
		return payroll.Detail{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return d, nil
}

// UpdateDetailAmounts implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateDetailAmounts(ctx context.Context, d payroll.Detail) (payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_details
		SET allowances = $2, deductions = $3, tax = $4, total = $5, updated_at = NOW()
		WHERE id = $1
	`, d.ID, d.Allowances, d.Deductions, d.Tax, d.Total)
	if err != nil {
		return payroll.Detail{}, fmt.Errorf("failed to update payroll detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.Detail{}, payroll.ErrDetailNotFound
	}
	return r.GetDetail(ctx, d.ID)
}

// UpdateDetailPaymentProof implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateDetailPaymentProof(ctx context.Context, id string, path string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payroll_details SET payment_proof = $2, updated_at = NOW() WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("failed to update payment proof: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrDetailNotFound
	}
	return nil
}

// CountDetailsWithoutProof implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CountDetailsWithoutProof(ctx context.Context, periodID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM payroll_details
		WHERE period_id = $1 AND (payment_proof IS NULL OR payment_proof = '')
	`, periodID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count details without payment proof: %w", err)
	}
	return count, nil
}

// HasDetailsForEmployee implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) HasDetailsForEmployee(ctx context.Context, employeeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payroll_details WHERE employee_id = $1)`, employeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll details: %w", err)
	}
	return exists, nil
}

// ========== COMPONENTS ==========

const componentColumns = `id, detail_id, kind, name, amount, created_by, created_at, updated_at`

func scanComponent(row pgx.Row) (payroll.Component, error) {
	var c payroll.Component
	err := row.Scan(&c.ID, &c.DetailID, &c.Kind, &c.Name, &c.Amount, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateComponent implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) CreateComponent(ctx context.Context, c payroll.Component) (payroll.Component, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_components (detail_id, kind, name, amount, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + componentColumns

	created, err := scanComponent(q.QueryRow(ctx, query, c.DetailID, c.Kind, c.Name, c.Amount, c.CreatedBy))
	if err != nil {
		return payroll.Component{}, fmt.Errorf("failed to create payroll component: %w", err)
	}
	return created, nil
}

// GetComponent implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetComponent(ctx context.Context, id string) (payroll.Component, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanComponent(q.QueryRow(ctx, "SELECT "+componentColumns+" FROM payroll_components WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Component{}, payroll.ErrComponentNotFound
		}
		return payroll.Component{}, fmt.Errorf("failed to get payroll component: %w", err)
	}
	return c, nil
}

// UpdateComponent implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateComponent(ctx context.Context, c payroll.Component) (payroll.Component, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_components
		SET kind = $2, name = $3, amount = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + componentColumns

	updated, err := scanComponent(q.QueryRow(ctx, query, c.ID, c.Kind, c.Name, c.Amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Component{}, payroll.ErrComponentNotFound
		}
		return payroll.Component{}, fmt.Errorf("failed to update payroll component: %w", err)
	}
	return updated, nil
}

// DeleteComponent implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) DeleteComponent(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrComponentNotFound
	}
	return nil
}

// ListComponents implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListComponents(ctx context.Context, detailID string) ([]payroll.Component, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, "SELECT "+componentColumns+" FROM payroll_components WHERE detail_id = $1 ORDER BY created_at, id", detailID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll components: %w", err)
	}
	defer rows.Close()

	var components []payroll.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return components, nil
}

// SumComponents implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) SumComponents(ctx context.Context, detailID string) (payroll.ComponentSums, error) {
	q := GetQuerier(ctx, r.db)

	var sums payroll.ComponentSums
	err := q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'ALLOWANCE'), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = 'DEDUCTION'), 0)
		FROM payroll_components
		WHERE detail_id = $1
	`, detailID).Scan(&sums.Allowances, &sums.Deductions)
	if err != nil {
		return payroll.ComponentSums{}, fmt.Errorf("failed to sum payroll components: %w", err)
	}
	return sums, nil
}

// ========== AGGREGATES ==========

// PeriodTotals implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) PeriodTotals(ctx context.Context, periodID string) (payroll.PeriodTotals, error) {
	q := GetQuerier(ctx, r.db)

	var totals payroll.PeriodTotals
	err := q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(base_salary + allowances), 0),
			COALESCE(SUM(tax), 0),
			COALESCE(SUM(total), 0)
		FROM payroll_details
		WHERE period_id = $1
	`, periodID).Scan(&totals.DetailCount, &totals.Gross, &totals.Tax, &totals.Net)
	if err != nil {
		return payroll.PeriodTotals{}, fmt.Errorf("failed to total payroll period: %w", err)
	}
	return totals, nil
}

// AnnualTotals implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) AnnualTotals(ctx context.Context, employeeID string, year int, beforeKey string) (payroll.AnnualTotals, error) {
	q := GetQuerier(ctx, r.db)

	var totals payroll.AnnualTotals
	err := q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(d.base_salary + d.allowances), 0),
			COALESCE(SUM(d.tax) FILTER (WHERE p.period_key < $3), 0)
		FROM payroll_details d
		JOIN payroll_periods p ON p.id = d.period_id
		WHERE d.employee_id = $1 AND p.period_key LIKE $2
	`, employeeID, yearPattern(year), beforeKey).Scan(&totals.Gross, &totals.WithheldBefore)
	if err != nil {
		return payroll.AnnualTotals{}, fmt.Errorf("failed to total annual payroll: %w", err)
	}
	return totals, nil
}

// SumPaidNetInYear implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) SumPaidNetInYear(ctx context.Context, year int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	var sum decimal.Decimal
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(d.total), 0)
		FROM payroll_details d
		JOIN payroll_periods p ON p.id = d.period_id
		WHERE p.status = 'PAID' AND p.period_key LIKE $1
	`, yearPattern(year)).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum paid payroll: %w", err)
	}
	return sum, nil
}
