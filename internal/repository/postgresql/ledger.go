package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type ledgerRepositoryImpl struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) ledger.LedgerRepository {
	return &ledgerRepositoryImpl{db: db}
}

// GetAccountsByCode implements ledger.LedgerRepository.
func (r *ledgerRepositoryImpl) GetAccountsByCode(ctx context.Context, codes []string) (map[string]ledger.Account, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, code, name, category, normal_side
		FROM accounts
		WHERE code = ANY($1)
	`, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]ledger.Account, len(codes))
	for rows.Next() {
		var a ledger.Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Category, &a.NormalSide); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts[a.Code] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateJournal implements ledger.LedgerRepository. Callers should run it
// inside a transaction so header and lines commit together.
func (r *ledgerRepositoryImpl) CreateJournal(ctx context.Context, j ledger.Journal) (ledger.Journal, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO journals (number, journal_date, description, reference_type, reference_id, total_debit, total_credit, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, j.Number, j.Date, j.Description, j.ReferenceType, j.ReferenceID, j.TotalDebit, j.TotalCredit, j.CreatedBy,
	).Scan(&j.ID, &j.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "journals_reference_key") || isUniqueViolation(err, "journals_number_key") {
			return ledger.Journal{}, ledger.ErrJournalExists
		}
		return ledger.Journal{}, fmt.Errorf("failed to create journal: %w", err)
	}

	columns := []string{"journal_id", "account_id", "debit", "credit", "description", "line_no"}
	_, err = q.CopyFrom(ctx, pgx.Identifier{"journal_lines"}, columns,
		pgx.CopyFromSlice(len(j.Lines), func(i int) ([]any, error) {
			l := j.Lines[i]
			return []any{j.ID, l.AccountID, l.Debit.String(), l.Credit.String(), l.Description, i + 1}, nil
		}),
	)
	if err != nil {
		return ledger.Journal{}, fmt.Errorf("failed to create journal lines: %w", err)
	}

	for i := range j.Lines {
		j.Lines[i].JournalID = j.ID
	}
	return j, nil
}

const journalColumns = `
	id, number, journal_date, description, reference_type, reference_id,
	total_debit, total_credit, created_by, created_at
`

func scanJournal(row pgx.Row) (ledger.Journal, error) {
	var j ledger.Journal
	err := row.Scan(
		&j.ID, &j.Number, &j.Date, &j.Description, &j.ReferenceType, &j.ReferenceID,
		&j.TotalDebit, &j.TotalCredit, &j.CreatedBy, &j.CreatedAt,
	)
	return j, err
}

// GetJournal implements ledger.LedgerRepository.
func (r *ledgerRepositoryImpl) GetJournal(ctx context.Context, id string) (ledger.Journal, error) {
	return r.getJournal(ctx, "id = $1", id)
}

// GetJournalByReference implements ledger.LedgerRepository.
func (r *ledgerRepositoryImpl) GetJournalByReference(ctx context.Context, referenceType, referenceID string) (ledger.Journal, error) {
	return r.getJournal(ctx, "reference_type = $1 AND reference_id = $2", referenceType, referenceID)
}

func (r *ledgerRepositoryImpl) getJournal(ctx context.Context, where string, args ...any) (ledger.Journal, error) {
	q := GetQuerier(ctx, r.db)

	j, err := scanJournal(q.QueryRow(ctx, "SELECT "+journalColumns+" FROM journals WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Journal{}, ledger.ErrJournalNotFound
		}
		return ledger.Journal{}, fmt.Errorf("failed to get journal: %w", err)
	}

	lines, err := r.listLines(ctx, j.ID)
	if err != nil {
		return ledger.Journal{}, err
	}
	j.Lines = lines
	return j, nil
}

func (r *ledgerRepositoryImpl) listLines(ctx context.Context, journalID string) ([]ledger.JournalLine, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT l.id, l.journal_id, l.account_id, a.code, a.name, l.debit, l.credit, l.description
		FROM journal_lines l
		JOIN accounts a ON a.id = l.account_id
		WHERE l.journal_id = $1
		ORDER BY l.line_no
	`, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal lines: %w", err)
	}
	defer rows.Close()

	var lines []ledger.JournalLine
	for rows.Next() {
		var l ledger.JournalLine
		if err := rows.Scan(&l.ID, &l.JournalID, &l.AccountID, &l.AccountCode, &l.AccountName, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// ListJournals implements ledger.LedgerRepository. Lines are not loaded.
func (r *ledgerRepositoryImpl) ListJournals(ctx context.Context, filter ledger.JournalFilter) ([]ledger.Journal, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM journals WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.DateFrom != nil {
		baseQuery += fmt.Sprintf(" AND journal_date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseQuery += fmt.Sprintf(" AND journal_date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseQuery += fmt.Sprintf(" AND (number ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count journals: %w", err)
	}

	filter.Normalize()
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf("SELECT %s %s ORDER BY journal_date DESC, number DESC LIMIT $%d OFFSET $%d",
		journalColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list journals: %w", err)
	}
	defer rows.Close()

	var journals []ledger.Journal
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan journal: %w", err)
		}
		journals = append(journals, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return journals, totalCount, nil
}
