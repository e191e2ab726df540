package tax

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TERCategory groups PTKP statuses onto one monthly effective-rate table.
type TERCategory string

const (
	TERCategoryA TERCategory = "A"
	TERCategoryB TERCategory = "B"
	TERCategoryC TERCategory = "C"
)

func (c TERCategory) IsValid() bool {
	switch c {
	case TERCategoryA, TERCategoryB, TERCategoryC:
		return true
	}
	return false
}

// TERCategoryOf maps a canonical status to its TER category.
func TERCategoryOf(code string) TERCategory {
	switch code {
	case "TK/0", "TK/1", "K/0":
		return TERCategoryA
	case "TK/2", "TK/3", "K/1", "K/2":
		return TERCategoryB
	case "K/3":
		return TERCategoryC
	default:
		return TERCategoryA
	}
}

// TERBand covers Lower <= gross < Upper. A nil Upper is open-ended.
type TERBand struct {
	Category TERCategory
	Lower    int64
	Upper    *int64
	Rate     decimal.Decimal
}

func (b TERBand) contains(gross int64) bool {
	if gross < b.Lower {
		return false
	}
	return b.Upper == nil || gross < *b.Upper
}

// TERTable is an immutable set of bands, indexed per category.
type TERTable struct {
	bands map[TERCategory][]TERBand
}

// NewTERTable indexes bands by category, highest lower bound first.
func NewTERTable(bands []TERBand) TERTable {
	idx := make(map[TERCategory][]TERBand)
	for _, b := range bands {
		idx[b.Category] = append(idx[b.Category], b)
	}
	for c := range idx {
		sort.SliceStable(idx[c], func(i, j int) bool {
			return idx[c][i].Lower > idx[c][j].Lower
		})
	}
	return TERTable{bands: idx}
}

// Len reports the total number of bands.
func (t TERTable) Len() int {
	n := 0
	for _, b := range t.bands {
		n += len(b)
	}
	return n
}

// Rate returns the effective rate for a monthly gross income. The income is
// floored to a whole amount first; no matching band yields zero.
func (t TERTable) Rate(category TERCategory, monthlyGross decimal.Decimal) decimal.Decimal {
	gross := monthlyGross.Floor().IntPart()
	for _, b := range t.bands[category] {
		if b.contains(gross) {
			return b.Rate
		}
	}
	return decimal.Zero
}
