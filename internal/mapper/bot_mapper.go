package mapper

import (
	"encoding/json"
	"time"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/model"

	"gorm.io/datatypes"
)

type SubscriberMapper struct{}

func NewSubscriberMapper() *SubscriberMapper {
	return &SubscriberMapper{}
}

func (m *SubscriberMapper) ToEntity(s *model.Subscriber) *entity.Subscriber {
	if s == nil {
		return nil
	}
	return &entity.Subscriber{UserID: s.UserID, Username: s.Username, SubscribedAt: s.SubscribedAt}
}

func (m *SubscriberMapper) ToModel(s *entity.Subscriber) *model.Subscriber {
	if s == nil {
		return nil
	}
	return &model.Subscriber{UserID: s.UserID, Username: s.Username, SubscribedAt: s.SubscribedAt}
}

func (m *SubscriberMapper) ToEntities(subs []*model.Subscriber) []*entity.Subscriber {
	entities := make([]*entity.Subscriber, len(subs))
	for i, s := range subs {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

type UserPreferenceMapper struct{}

func NewUserPreferenceMapper() *UserPreferenceMapper {
	return &UserPreferenceMapper{}
}

func (m *UserPreferenceMapper) ToEntity(p *model.UserPreference) *entity.UserPreference {
	if p == nil {
		return nil
	}
	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}
	return &entity.UserPreference{
		UserID:      p.UserID,
		Language:    p.Language,
		FirstSeenAt: p.FirstSeenAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *UserPreferenceMapper) ToModel(p *entity.UserPreference) *model.UserPreference {
	if p == nil {
		return nil
	}
	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}
	return &model.UserPreference{
		UserID:      p.UserID,
		Language:    p.Language,
		FirstSeenAt: p.FirstSeenAt,
		UpdatedAt:   updatedAt,
	}
}

type OperationLogMapper struct{}

func NewOperationLogMapper() *OperationLogMapper {
	return &OperationLogMapper{}
}

func (m *OperationLogMapper) ToEntity(l *model.OperationLog) *entity.OperationLog {
	if l == nil {
		return nil
	}
	var options []string
	if len(l.Options) > 0 {
		// Malformed rows keep their other fields.
		_ = json.Unmarshal(l.Options, &options)
	}
	return &entity.OperationLog{
		Id:         l.Id,
		JobID:      l.JobID,
		UserID:     l.UserID,
		Feature:    l.Feature,
		Status:     entity.OperationStatus(l.Status),
		Inputs:     l.Inputs,
		Outputs:    l.Outputs,
		Options:    options,
		Error:      l.Error,
		Tool:       l.Tool,
		DurationMs: l.DurationMs,
		CreatedAt:  l.CreatedAt,
	}
}

func (m *OperationLogMapper) ToModel(l *entity.OperationLog) *model.OperationLog {
	if l == nil {
		return nil
	}
	var options datatypes.JSON
	if len(l.Options) > 0 {
		options, _ = json.Marshal(l.Options)
	}
	return &model.OperationLog{
		Id:         l.Id,
		JobID:      l.JobID,
		UserID:     l.UserID,
		Feature:    l.Feature,
		Status:     string(l.Status),
		Inputs:     l.Inputs,
		Outputs:    l.Outputs,
		Options:    options,
		Error:      l.Error,
		Tool:       l.Tool,
		DurationMs: l.DurationMs,
		CreatedAt:  l.CreatedAt,
	}
}

func (m *OperationLogMapper) ToEntities(logs []*model.OperationLog) []*entity.OperationLog {
	entities := make([]*entity.OperationLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
