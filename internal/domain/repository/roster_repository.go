package repository

import (
	"context"
	"errors"

	"planche-service/internal/domain/entity"
)

// ErrRosterNotFound is returned when no roster was stored for a date
var ErrRosterNotFound = errors.New("roster not found")

// RosterRepository defines the interface for roster storage operations
type RosterRepository interface {
	FindByDate(ctx context.Context, date entity.Date) (*entity.DailyRoster, error)
	Save(ctx context.Context, roster *entity.DailyRoster) error
}
