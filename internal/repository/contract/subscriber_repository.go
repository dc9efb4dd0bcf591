package contract

import (
	"context"

	"pdf-toolbox-bot/internal/entity"
)

type SubscriberRepository interface {
	// Add reports false when the user was already subscribed.
	Add(ctx context.Context, sub *entity.Subscriber) (bool, error)
	// Remove reports false when the user was not subscribed.
	Remove(ctx context.Context, userID int64) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	FindAll(ctx context.Context) ([]*entity.Subscriber, error)
	Count(ctx context.Context) (int64, error)
}
