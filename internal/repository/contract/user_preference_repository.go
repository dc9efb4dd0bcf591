package contract

import (
	"context"

	"pdf-toolbox-bot/internal/entity"
)

type UserPreferenceRepository interface {
	// FindByUserID returns nil without error for unknown users.
	FindByUserID(ctx context.Context, userID int64) (*entity.UserPreference, error)
	Upsert(ctx context.Context, pref *entity.UserPreference) error
	// Touch registers the user with language unless already known.
	Touch(ctx context.Context, userID int64, language string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
