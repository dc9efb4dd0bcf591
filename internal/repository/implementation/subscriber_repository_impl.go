package implementation

import (
	"context"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/mapper"
	"pdf-toolbox-bot/internal/model"
	"pdf-toolbox-bot/internal/repository/contract"
	"pdf-toolbox-bot/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriberRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriberMapper
}

func NewSubscriberRepository(db *gorm.DB) contract.SubscriberRepository {
	return &SubscriberRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriberMapper(),
	}
}

func (r *SubscriberRepositoryImpl) Add(ctx context.Context, sub *entity.Subscriber) (bool, error) {
	m := r.mapper.ToModel(sub)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SubscriberRepositoryImpl) Remove(ctx context.Context, userID int64) (bool, error) {
	res := specification.ByUserID{UserID: userID}.Apply(r.db.WithContext(ctx)).Delete(&model.Subscriber{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SubscriberRepositoryImpl) Exists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := specification.ByUserID{UserID: userID}.
		Apply(r.db.WithContext(ctx).Model(&model.Subscriber{})).
		Count(&count).Error
	return count > 0, err
}

func (r *SubscriberRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Subscriber, error) {
	var models []*model.Subscriber
	query := specification.OrderBy{Field: "subscribed_at"}.Apply(r.db.WithContext(ctx))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SubscriberRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Subscriber{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
