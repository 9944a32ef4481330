package calendar

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday   = Date(2025, time.January, 6)
	friday   = Date(2025, time.January, 10)
	saturday = Date(2025, time.January, 11)
	sunday   = Date(2025, time.January, 12)
)

func TestAddBusinessDays_ZeroReturnsSameDate(t *testing.T) {
	assert.Equal(t, monday, AddBusinessDays(monday, 0))
	assert.Equal(t, saturday, AddBusinessDays(saturday, 0), "zero duration must not snap weekends")
}

func TestAddBusinessDays_WithinWeek(t *testing.T) {
	assert.Equal(t, Date(2025, time.January, 7), AddBusinessDays(monday, 1))
	assert.Equal(t, friday, AddBusinessDays(monday, 4))
}

func TestAddBusinessDays_SkipsWeekend(t *testing.T) {
	assert.Equal(t, Date(2025, time.January, 13), AddBusinessDays(friday, 1))
	assert.Equal(t, Date(2025, time.January, 13), AddBusinessDays(saturday, 1))
	assert.Equal(t, Date(2025, time.January, 13), AddBusinessDays(sunday, 1))
	assert.Equal(t, Date(2025, time.January, 20), AddBusinessDays(monday, 10))
}

func TestAddBusinessDays_NegativeDelegates(t *testing.T) {
	assert.Equal(t, SubtractBusinessDays(monday, 3), AddBusinessDays(monday, -3))
}

func TestSubtractBusinessDays_SkipsWeekend(t *testing.T) {
	assert.Equal(t, Date(2025, time.January, 3), SubtractBusinessDays(monday, 1))
	assert.Equal(t, friday, SubtractBusinessDays(sunday, 1))
	assert.Equal(t, monday, SubtractBusinessDays(monday, 0))
}

// Round trips from a weekend start land on the Friday before, not the original
// date. This asymmetry is expected.
func TestSubtractBusinessDays_WeekendAsymmetry(t *testing.T) {
	forward := AddBusinessDays(saturday, 1)
	assert.Equal(t, friday, SubtractBusinessDays(forward, 1))
	assert.NotEqual(t, saturday, SubtractBusinessDays(forward, 1))
}

func TestAddBusinessDays_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 300; trial++ {
		start := AddDays(monday, rng.Intn(800)-400)
		n := rng.Intn(60) + 1

		got := AddBusinessDays(start, n)
		assert.False(t, IsWeekend(got), "trial %d: %s + %d lands on weekend", trial, Format(start), n)
		assert.True(t, got.After(start), "trial %d: result must be after start", trial)
		assert.Equal(t, n, BusinessDaysBetween(start, got), "trial %d: weekday count", trial)

		stepped := start
		for i := 0; i < n; i++ {
			stepped = AddBusinessDays(stepped, 1)
		}
		assert.Equal(t, got, stepped, "trial %d: n single steps must equal one n-step", trial)
	}
}

func TestNextBusinessDay(t *testing.T) {
	assert.Equal(t, friday, NextBusinessDay(friday))
	assert.Equal(t, Date(2025, time.January, 13), NextBusinessDay(saturday))
	assert.Equal(t, Date(2025, time.January, 13), NextBusinessDay(sunday))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 4, DaysBetween(monday, friday))
	assert.Equal(t, -4, DaysBetween(friday, monday))
	assert.Equal(t, 0, DaysBetween(monday, monday.Add(15*time.Hour)))
}

func TestBusinessDaysBetween(t *testing.T) {
	assert.Equal(t, 0, BusinessDaysBetween(monday, monday))
	assert.Equal(t, 5, BusinessDaysBetween(friday, Date(2025, time.January, 17)))
	assert.Equal(t, 0, BusinessDaysBetween(friday, monday))
}

func TestTruncateAndParse(t *testing.T) {
	ts := time.Date(2025, time.March, 3, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, Date(2025, time.March, 3), Truncate(ts))

	d, err := Parse("2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, Date(2025, time.March, 3), d)
	assert.Equal(t, "2025-03-03", Format(d))

	_, err = Parse("03/03/2025")
	assert.Error(t, err)
}

func TestEach(t *testing.T) {
	var days []string
	Each(friday, monday.AddDate(0, 0, 7), func(day time.Time) {
		days = append(days, Format(day))
	})
	assert.Equal(t, []string{"2025-01-10", "2025-01-11", "2025-01-12", "2025-01-13"}, days)
}
