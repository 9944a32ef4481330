package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShortID(t *testing.T) {
	for _, id := range []string{"CHA01", "MAISON02", "DUPLEX1234", "ABC99"} {
		assert.NoError(t, (&Project{ShortID: id}).ValidateShortID(), id)
	}

	err := (&Project{}).ValidateShortID()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	for _, id := range []string{"cha01", "AB01", "CHALETS", "CHA1", "CHALETXX01", "CHA12345"} {
		assert.Error(t, (&Project{ShortID: id}).ValidateShortID(), id)
	}
}

func TestDisplayID(t *testing.T) {
	uuid := "550e8400-e29b-41d4-a716-446655440000"
	assert.Equal(t, "MAI01", (&Project{ID: uuid, ShortID: "MAI01"}).DisplayID())
	assert.Equal(t, "550e8400", (&Project{ID: uuid}).DisplayID())
	assert.Equal(t, "p1", (&Project{ID: "p1"}).DisplayID())
}

func TestScheduleMatches(t *testing.T) {
	anchor := time.Date(2025, 4, 11, 0, 0, 0, 0, time.UTC)
	p := &Project{ScheduleVersion: 2, ScheduleDigest: "abc", EffectiveStartDate: &anchor}

	assert.True(t, p.ScheduleMatches("abc", anchor))
	assert.False(t, p.ScheduleMatches("abd", anchor), "different entries")
	assert.False(t, p.ScheduleMatches("abc", anchor.AddDate(0, 0, 3)), "anchor moved")

	fresh := &Project{}
	assert.False(t, fresh.Scheduled())
	assert.False(t, fresh.ScheduleMatches("", anchor), "first generation always writes")
}
