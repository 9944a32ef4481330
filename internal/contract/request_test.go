package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGenerateRequest_SetsDefaults(t *testing.T) {
	req := NewGenerateRequest("p1")

	assert.Equal(t, "p1", req.ProjectID)
	assert.Nil(t, req.TargetStart)
	assert.Nil(t, req.Today)
	assert.Empty(t, req.StartPhaseID)
}

func TestScheduleError_ErrorString(t *testing.T) {
	err := &ScheduleError{
		Code:    ScheduleErrConflict,
		Message: "schedule changed concurrently",
	}
	assert.Equal(t, "CONFLICT: schedule changed concurrently", err.Error())
}

func TestScheduleError_Unwraps(t *testing.T) {
	cause := errors.New("row gone")
	err := error(&ScheduleError{Code: ScheduleErrNotFound, Message: "row gone", Err: cause})

	assert.ErrorIs(t, err, cause)
	var se *ScheduleError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, ScheduleErrNotFound, se.Code)
}

func TestScheduleErrorCodes_AreDistinct(t *testing.T) {
	codes := []ScheduleErrorCode{
		ScheduleErrValidation,
		ScheduleErrNotFound,
		ScheduleErrConflict,
		ScheduleErrInternal,
	}
	seen := make(map[ScheduleErrorCode]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate error code: %s", c)
		seen[c] = true
	}
}
