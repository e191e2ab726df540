package ledger

import "context"

type LedgerRepository interface {
	// GetAccountsByCode returns the accounts found for codes, keyed by code.
	// Missing codes are simply absent from the map.
	GetAccountsByCode(ctx context.Context, codes []string) (map[string]Account, error)
	// CreateJournal inserts the header and all lines.
	CreateJournal(ctx context.Context, j Journal) (Journal, error)
	GetJournal(ctx context.Context, id string) (Journal, error)
	GetJournalByReference(ctx context.Context, referenceType, referenceID string) (Journal, error)
	ListJournals(ctx context.Context, filter JournalFilter) ([]Journal, int64, error)
}
