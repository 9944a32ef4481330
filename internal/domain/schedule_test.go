package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func datedEntry(status EntryStatus) *ScheduleEntry {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	return &ScheduleEntry{PhaseID: "toiture", Status: status, StartDate: &start, EndDate: &end, EstimatedDays: 4}
}

func TestMarkInProgress_FromScheduled(t *testing.T) {
	e := datedEntry(StatusScheduled)
	require.NoError(t, e.MarkInProgress(testNow))
	assert.Equal(t, StatusInProgress, e.Status)
	assert.Equal(t, testNow, e.UpdatedAt)
}

func TestMarkInProgress_AlreadyInProgress(t *testing.T) {
	e := datedEntry(StatusInProgress)
	require.NoError(t, e.MarkInProgress(testNow))
	assert.Equal(t, StatusInProgress, e.Status)
	assert.True(t, e.UpdatedAt.IsZero(), "no-op transition should not touch UpdatedAt")
}

func TestMarkInProgress_FromCompleted(t *testing.T) {
	e := datedEntry(StatusCompleted)
	err := e.MarkInProgress(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed")
	assert.Equal(t, StatusCompleted, e.Status)
}

func TestMarkCompleted_FromScheduledAndInProgress(t *testing.T) {
	for _, s := range []EntryStatus{StatusScheduled, StatusInProgress} {
		e := datedEntry(s)
		require.NoError(t, e.MarkCompleted(testNow), "from %s", s)
		assert.Equal(t, StatusCompleted, e.Status)
	}
}

func TestMarkCompleted_RequiresDates(t *testing.T) {
	e := &ScheduleEntry{PhaseID: "gypse", Status: StatusScheduled}
	err := e.MarkCompleted(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not scheduled")
}

func TestReopen(t *testing.T) {
	e := datedEntry(StatusCompleted)
	require.NoError(t, e.Reopen(testNow))
	assert.Equal(t, StatusScheduled, e.Status)

	err := e.Reopen(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduled")
}

func TestSetManual_DoesNotTouchDates(t *testing.T) {
	e := datedEntry(StatusScheduled)
	start := *e.StartDate

	assert.True(t, e.SetManual(true, testNow))
	assert.True(t, e.Manual)
	assert.Equal(t, start, *e.StartDate)
	assert.False(t, e.SetManual(true, testNow), "second lock is a no-op")
}

func TestDurationDays_PrefersActual(t *testing.T) {
	e := datedEntry(StatusScheduled)
	assert.Equal(t, 4, e.DurationDays())
	actual := 7
	e.ActualDays = &actual
	assert.Equal(t, 7, e.DurationDays())
}

func TestContains(t *testing.T) {
	e := datedEntry(StatusScheduled)
	assert.True(t, e.Contains(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, e.Contains(time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)))
	assert.False(t, e.Contains(time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)))
	assert.False(t, (&ScheduleEntry{}).Contains(testNow))
}

func TestIsFixed(t *testing.T) {
	assert.False(t, datedEntry(StatusScheduled).IsFixed())
	assert.True(t, datedEntry(StatusCompleted).IsFixed())
	locked := datedEntry(StatusInProgress)
	locked.Manual = true
	assert.True(t, locked.IsFixed())
}

func TestClone_DoesNotAlias(t *testing.T) {
	e := datedEntry(StatusScheduled)
	actual := 3
	e.ActualDays = &actual

	c := e.Clone()
	*c.StartDate = c.StartDate.AddDate(0, 0, 10)
	*c.ActualDays = 9

	assert.Equal(t, 2, e.StartDate.Day())
	assert.Equal(t, 3, *e.ActualDays)
}

func TestInvalidf_WrapsErrValidation(t *testing.T) {
	err := Invalidf("phase %q has duration %d", "gypse", -1)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), `"gypse"`)
}

func TestSameDate(t *testing.T) {
	a := TimePtr(testNow)
	b := TimePtr(testNow)
	assert.True(t, SameDate(a, b))
	assert.True(t, SameDate(nil, nil))
	assert.False(t, SameDate(a, nil))
	assert.False(t, SameDate(a, TimePtr(testNow.Add(time.Hour))))
}
