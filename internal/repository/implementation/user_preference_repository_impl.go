package implementation

import (
	"context"
	"errors"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/mapper"
	"pdf-toolbox-bot/internal/model"
	"pdf-toolbox-bot/internal/repository/contract"
	"pdf-toolbox-bot/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserPreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserPreferenceMapper
}

func NewUserPreferenceRepository(db *gorm.DB) contract.UserPreferenceRepository {
	return &UserPreferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserPreferenceMapper(),
	}
}

func (r *UserPreferenceRepositoryImpl) FindByUserID(ctx context.Context, userID int64) (*entity.UserPreference, error) {
	var m model.UserPreference
	query := specification.ByUserID{UserID: userID}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserPreferenceRepositoryImpl) Upsert(ctx context.Context, pref *entity.UserPreference) error {
	m := r.mapper.ToModel(pref)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*pref = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserPreferenceRepositoryImpl) Touch(ctx context.Context, userID int64, language string) (bool, error) {
	m := &model.UserPreference{UserID: userID, Language: language}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UserPreferenceRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UserPreference{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
