package scheduler

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time { return calendar.Date(y, m, d) }

func generateDefault(t *testing.T, today, target time.Time) *Plan {
	t.Helper()
	plan, err := Generate(catalog.Default(), GenerateInput{
		ProjectID:   "p1",
		TargetStart: target,
		Today:       today,
		Now:         fixedNow,
	})
	require.NoError(t, err)
	return plan
}

func entryFor(t *testing.T, entries []domain.ScheduleEntry, phaseID string) domain.ScheduleEntry {
	t.Helper()
	for _, e := range entries {
		if e.PhaseID == phaseID {
			return e
		}
	}
	t.Fatalf("no entry for phase %s", phaseID)
	return domain.ScheduleEntry{}
}

func TestGenerate_InfeasibleTargetReanchors(t *testing.T) {
	plan := generateDefault(t, day(2025, 1, 6), day(2025, 2, 1))

	first := entryFor(t, plan.Entries, "planification")
	assert.Equal(t, day(2025, 1, 6), *first.StartDate)
	assert.Equal(t, day(2025, 1, 20), *first.EndDate)

	assert.Equal(t, day(2025, 4, 10), plan.PrepFinish)
	assert.Equal(t, day(2025, 4, 11), plan.Anchor)

	require.Len(t, plan.Warnings, 1)
	w := plan.Warnings[0]
	assert.Equal(t, domain.WarnInfeasibleStart, w.Kind)
	assert.Equal(t, day(2025, 2, 1), w.OriginalDate)
	assert.Equal(t, day(2025, 4, 11), w.ConflictingDate)
	assert.Equal(t, 69, w.DelayDays)

	build := entryFor(t, plan.Entries, "preparation-terrain")
	assert.Equal(t, day(2025, 4, 11), *build.StartDate)
}

func TestGenerate_FeasibleTargetKeepsAnchor(t *testing.T) {
	plan := generateDefault(t, day(2025, 1, 6), day(2025, 6, 2))

	assert.Empty(t, plan.Warnings)
	assert.Equal(t, day(2025, 6, 2), plan.Anchor)
	assert.Equal(t, day(2025, 6, 2), *entryFor(t, plan.Entries, "preparation-terrain").StartDate)
}

func TestGenerate_WeekendAnchorSnapsToMonday(t *testing.T) {
	plan := generateDefault(t, day(2025, 1, 6), day(2025, 5, 31))

	assert.Empty(t, plan.Warnings)
	assert.Equal(t, day(2025, 5, 31), plan.Anchor)
	assert.Equal(t, day(2025, 6, 2), *entryFor(t, plan.Entries, "preparation-terrain").StartDate)
}

func TestGenerate_MinimumDelayAfterExcavation(t *testing.T) {
	plan := generateDefault(t, day(2025, 1, 6), day(2025, 2, 1))

	exc := entryFor(t, plan.Entries, "excavation-fondation")
	frame := entryFor(t, plan.Entries, "structure-charpente")
	assert.Equal(t, day(2025, 5, 1), *exc.EndDate)
	assert.Equal(t, day(2025, 5, 22), *frame.StartDate)
	assert.GreaterOrEqual(t, calendar.DaysBetween(*exc.EndDate, *frame.StartDate), 21)
}

func TestGenerate_MinimumDelayLandingOnWeekend(t *testing.T) {
	cat := catalog.MustNew([]catalog.Phase{
		{ID: "a", Trade: "x", DurationDays: 2},
		{ID: "b", Trade: "y", DurationDays: 1, MinDelay: &catalog.MinDelay{AfterPhaseID: "a", Days: 18}},
	})
	plan, err := Generate(cat, GenerateInput{
		ProjectID:   "p1",
		TargetStart: day(2025, 3, 3),
		Today:       day(2025, 2, 28),
		Now:         fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 2, 28), plan.PrepFinish)

	a := entryFor(t, plan.Entries, "a")
	b := entryFor(t, plan.Entries, "b")
	assert.Equal(t, day(2025, 3, 3), *a.StartDate)
	assert.Equal(t, day(2025, 3, 5), *a.EndDate)
	// Sunday 2025-03-23 moves to Monday.
	assert.Equal(t, day(2025, 3, 24), *b.StartDate)
}

func TestGenerate_NoOverlapWithinGroups(t *testing.T) {
	cat := catalog.Default()
	plan := generateDefault(t, day(2025, 1, 6), day(2025, 2, 1))
	require.Len(t, plan.Entries, cat.Len())

	var prev *domain.ScheduleEntry
	for i := range plan.Entries {
		e := plan.Entries[i]
		require.True(t, e.HasDates())
		assert.Equal(t, cat.At(i).ID, e.PhaseID, "catalog order")
		if prev != nil {
			assert.True(t, e.StartDate.After(*prev.EndDate), "%s starts before %s ends", e.PhaseID, prev.PhaseID)
		}
		prev = &plan.Entries[i]
	}
}

func TestGenerate_BusinessDayMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 50; iter++ {
		n := 2 + rng.Intn(10)
		phases := make([]catalog.Phase, n)
		prepCount := rng.Intn(n)
		for i := range phases {
			phases[i] = catalog.Phase{
				ID:           string(rune('a' + i)),
				Trade:        string(rune('A' + rng.Intn(4))),
				DurationDays: 1 + rng.Intn(20),
				Preparatory:  i < prepCount,
			}
			if i > 0 && rng.Intn(3) == 0 {
				phases[i].MinDelay = &catalog.MinDelay{AfterPhaseID: phases[rng.Intn(i)].ID, Days: rng.Intn(30)}
			}
		}
		cat := catalog.MustNew(phases)
		today := day(2025, 1, 1).AddDate(0, 0, rng.Intn(365))
		target := today.AddDate(0, 0, rng.Intn(200))

		plan, err := Generate(cat, GenerateInput{ProjectID: "p", TargetStart: target, Today: today, Now: fixedNow})
		require.NoError(t, err)

		for i, e := range plan.Entries {
			ph := cat.At(i)
			assert.False(t, calendar.IsWeekend(*e.StartDate), "iter %d: %s starts on weekend", iter, e.PhaseID)
			assert.False(t, calendar.IsWeekend(*e.EndDate), "iter %d: %s ends on weekend", iter, e.PhaseID)
			assert.Equal(t, calendar.AddBusinessDays(*e.StartDate, ph.DurationDays), *e.EndDate)
			assert.Equal(t, ph.DurationDays, calendar.BusinessDaysBetween(*e.StartDate, *e.EndDate))
			if i > 0 && cat.At(i-1).Preparatory == ph.Preparatory {
				assert.True(t, e.StartDate.After(*plan.Entries[i-1].EndDate))
			}
			if ph.MinDelay != nil {
				ref := entryFor(t, plan.Entries, ph.MinDelay.AfterPhaseID)
				assert.False(t, e.StartDate.Before(calendar.AddDays(*ref.EndDate, ph.MinDelay.Days)))
			}
		}
	}
}

func TestGenerate_IdempotentRegeneration(t *testing.T) {
	cat := catalog.Default()
	first := generateDefault(t, day(2025, 1, 6), day(2025, 2, 1))
	digest1, err := Fingerprint(first.Entries)
	require.NoError(t, err)

	second, err := Generate(cat, GenerateInput{
		ProjectID:   "p1",
		TargetStart: day(2025, 2, 1),
		Today:       day(2025, 1, 6),
		Existing:    first.Entries,
		Now:         fixedNow.Add(time.Hour),
	})
	require.NoError(t, err)
	digest2, err := Fingerprint(second.Entries)
	require.NoError(t, err)

	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, digest1, digest2)
}

func TestGenerate_LockedEntryKeepsDates(t *testing.T) {
	cat := catalog.Default()
	first := generateDefault(t, day(2025, 1, 6), day(2025, 2, 1))

	existing := domain.CloneEntries(first.Entries)
	for i := range existing {
		if existing[i].PhaseID == "toiture" {
			existing[i].Manual = true
		}
	}

	plan, err := Generate(cat, GenerateInput{
		ProjectID:   "p1",
		TargetStart: day(2025, 2, 1),
		Today:       day(2025, 1, 20),
		Existing:    existing,
		Now:         fixedNow,
	})
	require.NoError(t, err)

	locked := entryFor(t, plan.Entries, "toiture")
	orig := entryFor(t, first.Entries, "toiture")
	assert.Equal(t, *orig.StartDate, *locked.StartDate)
	assert.Equal(t, *orig.EndDate, *locked.EndDate)

	var lockWarnings []domain.Warning
	for _, w := range plan.Warnings {
		if w.Kind == domain.WarnLockedPhaseConflict {
			lockWarnings = append(lockWarnings, w)
		}
	}
	require.Len(t, lockWarnings, 1)
	assert.Equal(t, "toiture", lockWarnings[0].PhaseID)
	assert.Equal(t, *orig.StartDate, lockWarnings[0].OriginalDate)
	assert.True(t, lockWarnings[0].ConflictingDate.After(lockWarnings[0].OriginalDate))

	next := entryFor(t, plan.Entries, "fenetres-portes")
	assert.Equal(t, calendar.AddBusinessDays(*locked.EndDate, 1), *next.StartDate)
}

func TestGenerate_ResumeFromPhaseUsesExistingReferences(t *testing.T) {
	cat := catalog.Default()
	first := generateDefault(t, day(2025, 1, 6), day(2025, 2, 1))

	idx, err := ResolveStartIndex(cat, "structure-charpente")
	require.NoError(t, err)

	plan, err := Generate(cat, GenerateInput{
		ProjectID:   "p1",
		TargetStart: day(2025, 5, 2),
		StartIndex:  idx,
		Today:       day(2025, 4, 28),
		Existing:    first.Entries,
		Now:         fixedNow,
	})
	require.NoError(t, err)
	require.Len(t, plan.Entries, cat.Len()-idx)
	assert.Equal(t, "structure-charpente", plan.Entries[0].PhaseID)

	exc := entryFor(t, first.Entries, "excavation-fondation")
	assert.Equal(t, calendar.AddDays(*exc.EndDate, 21), *plan.Entries[0].StartDate)
	assert.Equal(t, day(2025, 4, 28), plan.PrepFinish)
}

func TestGenerate_Validation(t *testing.T) {
	cat := catalog.Default()

	_, err := Generate(cat, GenerateInput{StartIndex: cat.Len()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = ResolveStartIndex(cat, "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	zero := 0
	_, err = Generate(cat, GenerateInput{
		ProjectID:   "p1",
		TargetStart: day(2025, 2, 1),
		Today:       day(2025, 1, 6),
		Existing:    []domain.ScheduleEntry{{ProjectID: "p1", PhaseID: "planification", ActualDays: &zero}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "planification")
}

func TestCheckFeasibility(t *testing.T) {
	ok := CheckFeasibility(day(2025, 4, 10), day(2025, 4, 11))
	assert.Nil(t, ok.Warning)
	assert.Equal(t, day(2025, 4, 11), ok.Anchor)

	late := CheckFeasibility(day(2025, 4, 11), day(2025, 4, 11))
	require.NotNil(t, late.Warning)
	assert.Equal(t, day(2025, 4, 14), late.Anchor)
	assert.Equal(t, 3, late.Warning.DelayDays)
}

func TestGenerate_WeekendTodayStartsPreparationOnMonday(t *testing.T) {
	saturday := generateDefault(t, day(2025, 1, 4), day(2025, 2, 1))
	monday := generateDefault(t, day(2025, 1, 6), day(2025, 2, 1))

	first := entryFor(t, saturday.Entries, "planification")
	assert.Equal(t, day(2025, 1, 6), *first.StartDate)
	assert.Equal(t, monday.Anchor, saturday.Anchor)
	for _, e := range monday.Entries {
		got := entryFor(t, saturday.Entries, e.PhaseID)
		assert.Equal(t, *e.StartDate, *got.StartDate, e.PhaseID)
		assert.Equal(t, *e.EndDate, *got.EndDate, e.PhaseID)
	}
}
