package placement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func TestPlacement_Covers(t *testing.T) {
	closed := Placement{ValidFrom: day("2024-01-01"), ValidTo: ptr(day("2024-06-30"))}
	open := Placement{ValidFrom: day("2024-07-01")}

	assert.True(t, closed.Covers(day("2024-01-01")))
	assert.True(t, closed.Covers(day("2024-06-30")))
	assert.True(t, closed.Covers(day("2024-06-30").Add(23*time.Hour)))
	assert.False(t, closed.Covers(day("2024-07-01")))
	assert.False(t, closed.Covers(day("2023-12-31")))

	assert.True(t, open.Covers(day("2030-01-01")))
	assert.False(t, open.Covers(day("2024-06-30")))
}

func TestEffectiveOn(t *testing.T) {
	history := []Placement{
		{ID: "a", ValidFrom: day("2024-01-01"), ValidTo: ptr(day("2024-06-30"))},
		{ID: "b", ValidFrom: day("2024-07-01")},
	}

	p, ok := EffectiveOn(history, day("2024-03-31"))
	assert.True(t, ok)
	assert.Equal(t, "a", p.ID)

	p, ok = EffectiveOn(history, day("2024-07-31"))
	assert.True(t, ok)
	assert.Equal(t, "b", p.ID)

	_, ok = EffectiveOn(history, day("2023-12-31"))
	assert.False(t, ok)
}

func TestEffectiveOn_TieBreakLatestStart(t *testing.T) {
	overlapping := []Placement{
		{ID: "old", ValidFrom: day("2024-01-01")},
		{ID: "new", ValidFrom: day("2024-02-01")},
	}
	p, ok := EffectiveOn(overlapping, day("2024-02-29"))
	assert.True(t, ok)
	assert.Equal(t, "new", p.ID)
}

func TestClosingDate(t *testing.T) {
	assert.Equal(t, day("2024-02-29"), ClosingDate(day("2024-03-01")))
	assert.Equal(t, day("2023-12-31"), ClosingDate(day("2024-01-01")))
}
