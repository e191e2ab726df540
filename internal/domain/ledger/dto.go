package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type JournalFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Search   *string
	Page     int
	Limit    int
}

func (f *JournalFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type JournalLineResponse struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

type JournalResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	Date          string                `json:"date"`
	Description   string                `json:"description"`
	ReferenceType string                `json:"reference_type"`
	ReferenceID   string                `json:"reference_id"`
	TotalDebit    decimal.Decimal       `json:"total_debit"`
	TotalCredit   decimal.Decimal       `json:"total_credit"`
	Lines         []JournalLineResponse `json:"lines,omitempty"`
}

func NewJournalResponse(j Journal) JournalResponse {
	resp := JournalResponse{
		ID:            j.ID,
		Number:        j.Number,
		Date:          j.Date.Format(time.DateOnly),
		Description:   j.Description,
		ReferenceType: j.ReferenceType,
		ReferenceID:   j.ReferenceID,
		TotalDebit:    j.TotalDebit,
		TotalCredit:   j.TotalCredit,
	}
	for _, l := range j.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
	}
	return resp
}

type ListJournalResponse struct {
	Data       []JournalResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
