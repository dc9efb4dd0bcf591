package contract

import (
	"context"
	"time"

	"pdf-toolbox-bot/internal/entity"
)

type OperationLogRepository interface {
	// Create ignores a log whose JobID is already stored.
	Create(ctx context.Context, log *entity.OperationLog) error
	Counts(ctx context.Context, since time.Time) (entity.OperationCounts, error)
	TopFeatures(ctx context.Context, limit int) ([]entity.FeatureCount, error)
	FindRecent(ctx context.Context, limit, offset int) ([]*entity.OperationLog, error)
}
