package ledger

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/ledger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type LedgerServiceImpl struct {
	ledgerRepo ledger.LedgerRepository
	transactor database.Transactor
}

func NewLedgerService(ledgerRepo ledger.LedgerRepository, transactor database.Transactor) ledger.LedgerService {
	return &LedgerServiceImpl{
		ledgerRepo: ledgerRepo,
		transactor: transactor,
	}
}

// ListJournals implements ledger.LedgerService.
func (s *LedgerServiceImpl) ListJournals(ctx context.Context, filter ledger.JournalFilter) (ledger.ListJournalResponse, error) {
	filter.Normalize()

	journals, total, err := s.ledgerRepo.ListJournals(ctx, filter)
	if err != nil {
		return ledger.ListJournalResponse{}, err
	}

	data := make([]ledger.JournalResponse, 0, len(journals))
	for _, j := range journals {
		data = append(data, ledger.NewJournalResponse(j))
	}

	return ledger.ListJournalResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetJournal implements ledger.LedgerService.
func (s *LedgerServiceImpl) GetJournal(ctx context.Context, id string) (ledger.JournalResponse, error) {
	j, err := s.ledgerRepo.GetJournal(ctx, id)
	if err != nil {
		return ledger.JournalResponse{}, err
	}
	return ledger.NewJournalResponse(j), nil
}
