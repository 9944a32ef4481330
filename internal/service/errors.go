package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/chantier/internal/contract"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/repository"
)

// ErrConcurrentModification is returned when another writer committed a
// schedule change between our read and our write.
var ErrConcurrentModification = errors.New("schedule was modified concurrently")

// toScheduleError classifies err for callers of the schedule use cases.
// errors.Is still sees the original cause.
func toScheduleError(err error) error {
	if err == nil {
		return nil
	}
	var se *contract.ScheduleError
	if errors.As(err, &se) {
		return err
	}

	code := contract.ScheduleErrInternal
	switch {
	case errors.Is(err, domain.ErrValidation):
		code = contract.ScheduleErrValidation
	case errors.Is(err, repository.ErrNotFound):
		code = contract.ScheduleErrNotFound
	case errors.Is(err, ErrConcurrentModification), errors.Is(err, repository.ErrStaleVersion):
		code = contract.ScheduleErrConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return &contract.ScheduleError{Code: code, Message: err.Error(), Err: err}
}
