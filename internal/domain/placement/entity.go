package placement

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChangeType string

const (
	ChangeTypeEntry      ChangeType = "ENTRY"
	ChangeTypePromotion  ChangeType = "PROMOTION"
	ChangeTypeTransfer   ChangeType = "TRANSFER"
	ChangeTypeDemotion   ChangeType = "DEMOTION"
	ChangeTypeAdjustment ChangeType = "ADJUSTMENT"
)

func (c ChangeType) IsValid() bool {
	switch c {
	case ChangeTypeEntry, ChangeTypePromotion, ChangeTypeTransfer, ChangeTypeDemotion, ChangeTypeAdjustment:
		return true
	}
	return false
}

// Placement is one job assignment of an employee. ValidTo == nil marks the
// currently open placement; an employee has at most one.
type Placement struct {
	ID         string
	EmployeeID string
	JobTitleID string
	BaseSalary decimal.Decimal
	ValidFrom  time.Time
	ValidTo    *time.Time
	ChangeType ChangeType
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields
	JobTitleName   *string
	DepartmentName *string
	GradeName      *string
	BaseSalaryMin  *decimal.Decimal
	BaseSalaryMax  *decimal.Decimal
}

func (p Placement) IsOpen() bool {
	return p.ValidTo == nil
}

// Covers reports whether date falls inside [ValidFrom, ValidTo]. Both ends are
// compared as calendar dates.
func (p Placement) Covers(date time.Time) bool {
	d := truncateDay(date)
	if truncateDay(p.ValidFrom).After(d) {
		return false
	}
	return p.ValidTo == nil || !truncateDay(*p.ValidTo).Before(d)
}

// EffectiveOn picks the placement covering date. When several qualify the one
// with the latest ValidFrom wins.
func EffectiveOn(placements []Placement, date time.Time) (Placement, bool) {
	var (
		best  Placement
		found bool
	)
	for _, p := range placements {
		if !p.Covers(date) {
			continue
		}
		if !found || p.ValidFrom.After(best.ValidFrom) {
			best = p
			found = true
		}
	}
	return best, found
}

// ClosingDate is the valid_to given to an open placement superseded by one
// starting on validFrom.
func ClosingDate(validFrom time.Time) time.Time {
	return truncateDay(validFrom).AddDate(0, 0, -1)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
