package tax

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultStatus is used whenever a tax status cannot be recognised.
const DefaultStatus = "TK/0"

var (
	statusStripRegex     = regexp.MustCompile(`[^A-Z0-9/]`)
	statusCanonicalRegex = regexp.MustCompile(`^(TK|K)/[0-3]$`)
	statusCompactRegex   = regexp.MustCompile(`^(TK|K)([0-3])$`)
)

// NormalizeStatus converts a raw PTKP status ("tk0", "K 1", "K/2") into its
// canonical form. Unknown or empty input yields DefaultStatus.
func NormalizeStatus(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return DefaultStatus
	}

	s = statusStripRegex.ReplaceAllString(s, "")

	if statusCanonicalRegex.MatchString(s) {
		return s
	}

	if m := statusCompactRegex.FindStringSubmatch(s); m != nil {
		return m[1] + "/" + m[2]
	}

	return DefaultStatus
}

// CanonicalStatuses lists every code NormalizeStatus can return.
var CanonicalStatuses = []string{
	"TK/0", "TK/1", "TK/2", "TK/3",
	"K/0", "K/1", "K/2", "K/3",
}

var ptkpAnnual = map[string]decimal.Decimal{
	"TK/0": decimal.NewFromInt(54_000_000),
	"TK/1": decimal.NewFromInt(58_500_000),
	"TK/2": decimal.NewFromInt(63_000_000),
	"TK/3": decimal.NewFromInt(67_500_000),

	"K/0": decimal.NewFromInt(58_500_000),
	"K/1": decimal.NewFromInt(63_000_000),
	"K/2": decimal.NewFromInt(67_500_000),
	"K/3": decimal.NewFromInt(72_000_000),
}

// Married with an employed spouse whose income is combined.
var ptkpAnnualCombined = map[string]decimal.Decimal{
	"K/I/0": decimal.NewFromInt(108_000_000),
	"K/I/1": decimal.NewFromInt(112_500_000),
	"K/I/2": decimal.NewFromInt(117_000_000),
	"K/I/3": decimal.NewFromInt(121_500_000),
}

// PTKPAnnual returns the annual tax-free income floor for a canonical status.
// Unknown codes fall back to the TK/0 amount.
func PTKPAnnual(code string) decimal.Decimal {
	if v, ok := ptkpAnnual[code]; ok {
		return v
	}
	return ptkpAnnual[DefaultStatus]
}

// PTKPAnnualExtended is PTKPAnnual plus the K/I/n codes.
func PTKPAnnualExtended(code string) decimal.Decimal {
	code = strings.ToUpper(strings.TrimSpace(code))
	if v, ok := ptkpAnnualCombined[code]; ok {
		return v
	}
	return PTKPAnnual(code)
}
