package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/repository/contract"
)

type SubscriberRepository struct {
	mu   sync.RWMutex
	subs map[int64]entity.Subscriber
}

func NewSubscriberRepository() contract.SubscriberRepository {
	return &SubscriberRepository{subs: make(map[int64]entity.Subscriber)}
}

func (r *SubscriberRepository) Add(_ context.Context, sub *entity.Subscriber) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.UserID]; ok {
		return false, nil
	}
	s := *sub
	if s.SubscribedAt.IsZero() {
		s.SubscribedAt = time.Now()
	}
	r.subs[s.UserID] = s
	return true, nil
}

func (r *SubscriberRepository) Remove(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[userID]; !ok {
		return false, nil
	}
	delete(r.subs, userID)
	return true, nil
}

func (r *SubscriberRepository) Exists(_ context.Context, userID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.subs[userID]
	return ok, nil
}

func (r *SubscriberRepository) FindAll(_ context.Context) ([]*entity.Subscriber, error) {
	r.mu.RLock()
	out := make([]*entity.Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		s := s
		out = append(out, &s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubscribedAt.Equal(out[j].SubscribedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].SubscribedAt.Before(out[j].SubscribedAt)
	})
	return out, nil
}

func (r *SubscriberRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.subs)), nil
}
