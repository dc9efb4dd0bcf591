package service

import (
	"context"
	"time"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/messenger"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/repository/contract"
)

type ISubscriberService interface {
	Subscribe(ctx context.Context, userID int64, username string) (bool, error)
	Unsubscribe(ctx context.Context, userID int64) (bool, error)
	IsSubscribed(ctx context.Context, userID int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	// Notify sends text to every subscriber and returns how many got it.
	Notify(ctx context.Context, text string) (sent, total int, err error)
}

type subscriberService struct {
	repo   contract.SubscriberRepository
	out    messenger.Messenger
	logger logger.ILogger
	// pause spaces out broadcast messages to stay under Telegram's limits.
	pause time.Duration
}

func NewSubscriberService(repo contract.SubscriberRepository, out messenger.Messenger, log logger.ILogger) ISubscriberService {
	return &subscriberService{repo: repo, out: out, logger: log, pause: 50 * time.Millisecond}
}

func (s *subscriberService) Subscribe(ctx context.Context, userID int64, username string) (bool, error) {
	return s.repo.Add(ctx, &entity.Subscriber{UserID: userID, Username: username, SubscribedAt: time.Now()})
}

func (s *subscriberService) Unsubscribe(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Remove(ctx, userID)
}

func (s *subscriberService) IsSubscribed(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

func (s *subscriberService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *subscriberService) Notify(ctx context.Context, text string) (int, int, error) {
	subs, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	sent := 0
	for i, sub := range subs {
		if err := ctx.Err(); err != nil {
			return sent, len(subs), err
		}
		if i > 0 && s.pause > 0 {
			time.Sleep(s.pause)
		}
		if err := s.out.SendPlain(ctx, sub.UserID, text); err != nil {
			s.logger.Warn("SubscriberService", "Failed to notify subscriber", map[string]interface{}{
				"user_id": sub.UserID,
				"error":   err.Error(),
			})
			continue
		}
		sent++
	}
	s.logger.Info("SubscriberService", "Broadcast finished", map[string]interface{}{
		"sent":  sent,
		"total": len(subs),
	})
	return sent, len(subs), nil
}
