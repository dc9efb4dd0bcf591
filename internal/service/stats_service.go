package service

import (
	"context"
	"time"

	"pdf-toolbox-bot/internal/dto"
	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/repository/contract"
	"pdf-toolbox-bot/pkg/events"
	pktNats "pdf-toolbox-bot/pkg/nats"
)

const statsDurable = "stats-service-worker"

// SessionCounter reports how many sessions are currently open.
type SessionCounter interface {
	Count() int
}

type IStatsService interface {
	// Record stores the outcome of one operation. Duplicate job ids are ignored.
	Record(ctx context.Context, ev events.OperationEvent) error
	// Start consumes operation events from the bus, when one is configured.
	Start(ctx context.Context) error
	Summary(ctx context.Context) (*dto.StatsSummary, error)
	Recent(ctx context.Context, limit, offset int) ([]dto.OperationLogResponse, error)
}

type statsService struct {
	logs        contract.OperationLogRepository
	prefs       contract.UserPreferenceRepository
	subscribers contract.SubscriberRepository
	sessions    SessionCounter
	bus         *pktNats.Subscriber
	logger      logger.ILogger
	now         func() time.Time
}

func NewStatsService(
	logs contract.OperationLogRepository,
	prefs contract.UserPreferenceRepository,
	subscribers contract.SubscriberRepository,
	sessions SessionCounter,
	bus *pktNats.Subscriber,
	log logger.ILogger,
) IStatsService {
	return &statsService{
		logs:        logs,
		prefs:       prefs,
		subscribers: subscribers,
		sessions:    sessions,
		bus:         bus,
		logger:      log,
		now:         time.Now,
	}
}

func (s *statsService) Start(ctx context.Context) error {
	if s.bus == nil {
		s.logger.Info("StatsService", "No event bus, operations are recorded directly", nil)
		return nil
	}
	if err := s.bus.Subscribe(ctx, pktNats.SubjectPrefix+">", statsDurable, s.handleEvent); err != nil {
		return err
	}
	s.logger.Info("StatsService", "Stats service started, listening to operation events", nil)
	return nil
}

func (s *statsService) handleEvent(ctx context.Context, event events.Event) error {
	return s.Record(ctx, events.OperationEventFrom(event.Payload()))
}

func (s *statsService) Record(ctx context.Context, ev events.OperationEvent) error {
	status := entity.OperationStatusCompleted
	if ev.Error != "" {
		status = entity.OperationStatusFailed
	}
	createdAt := ev.OccurredAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	err := s.logs.Create(ctx, &entity.OperationLog{
		JobID:      ev.JobID,
		UserID:     ev.UserID,
		Feature:    ev.Feature,
		Status:     status,
		Inputs:     ev.Inputs,
		Outputs:    ev.Outputs,
		Options:    ev.Options,
		Error:      ev.Error,
		Tool:       ev.Tool,
		DurationMs: ev.Duration.Milliseconds(),
		CreatedAt:  createdAt,
	})
	if err != nil {
		s.logger.Error("StatsService", "Failed to record operation", map[string]interface{}{
			"job_id": ev.JobID,
			"error":  err.Error(),
		})
	}
	return err
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *statsService) Summary(ctx context.Context) (*dto.StatsSummary, error) {
	now := s.now()
	counts, err := s.logs.Counts(ctx, startOfDay(now))
	if err != nil {
		return nil, err
	}
	users, err := s.prefs.Count(ctx)
	if err != nil {
		return nil, err
	}
	subs, err := s.subscribers.Count(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.logs.TopFeatures(ctx, 5)
	if err != nil {
		return nil, err
	}

	out := &dto.StatsSummary{
		Users:         users,
		Subscribers:   subs,
		OperationsDay: counts.Today,
		OperationsAll: counts.Total,
		Failed:        counts.Failed,
		TopFeatures:   make([]dto.FeatureUsage, 0, len(top)),
		GeneratedAt:   now,
	}
	if s.sessions != nil {
		out.ActiveSessions = s.sessions.Count()
	}
	for _, f := range top {
		out.TopFeatures = append(out.TopFeatures, dto.FeatureUsage{Feature: f.Feature, Count: f.Count})
	}
	return out, nil
}

func (s *statsService) Recent(ctx context.Context, limit, offset int) ([]dto.OperationLogResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	logs, err := s.logs.FindRecent(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OperationLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.OperationLogResponse{
			JobID:      l.JobID,
			UserID:     l.UserID,
			Feature:    l.Feature,
			Status:     string(l.Status),
			Inputs:     l.Inputs,
			Outputs:    l.Outputs,
			Options:    l.Options,
			Error:      l.Error,
			Tool:       l.Tool,
			DurationMs: l.DurationMs,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out, nil
}
