package repository

import (
	"context"
	"time"

	"planche-service/internal/domain/entity"
)

// UpdateRepository defines the interface for the audit log of applied updates
type UpdateRepository interface {
	Save(ctx context.Context, cmd entity.UpdateCommand) error
	FindSince(ctx context.Context, date entity.Date, since time.Time) ([]entity.UpdateCommand, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
