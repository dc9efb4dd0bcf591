package implementation

import (
	"context"
	"time"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/mapper"
	"pdf-toolbox-bot/internal/model"
	"pdf-toolbox-bot/internal/repository/contract"
	"pdf-toolbox-bot/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OperationLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OperationLogMapper
}

func NewOperationLogRepository(db *gorm.DB) contract.OperationLogRepository {
	return &OperationLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewOperationLogMapper(),
	}
}

func (r *OperationLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OperationLogRepositoryImpl) count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.OperationLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OperationLogRepositoryImpl) Create(ctx context.Context, log *entity.OperationLog) error {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	m := r.mapper.ToModel(log)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		DoNothing: true,
	}).Create(m).Error
}

func (r *OperationLogRepositoryImpl) Counts(ctx context.Context, since time.Time) (entity.OperationCounts, error) {
	var out entity.OperationCounts
	var err error
	if out.Total, err = r.count(ctx); err != nil {
		return out, err
	}
	if out.Today, err = r.count(ctx, specification.CreatedSince{Since: since}); err != nil {
		return out, err
	}
	out.Failed, err = r.count(ctx, specification.ByStatus{Status: string(entity.OperationStatusFailed)})
	return out, err
}

func (r *OperationLogRepositoryImpl) TopFeatures(ctx context.Context, limit int) ([]entity.FeatureCount, error) {
	var rows []struct {
		Feature string
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.OperationLog{}).
		Select("feature, COUNT(*) AS count").
		Group("feature").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.FeatureCount, len(rows))
	for i, row := range rows {
		out[i] = entity.FeatureCount{Feature: row.Feature, Count: row.Count}
	}
	return out, nil
}

func (r *OperationLogRepositoryImpl) FindRecent(ctx context.Context, limit, offset int) ([]*entity.OperationLog, error) {
	var models []*model.OperationLog
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
