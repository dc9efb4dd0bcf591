package memory

import (
	"context"
	"sync"
	"time"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/repository/contract"
)

type UserPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[int64]entity.UserPreference
}

func NewUserPreferenceRepository() contract.UserPreferenceRepository {
	return &UserPreferenceRepository{prefs: make(map[int64]entity.UserPreference)}
}

func (r *UserPreferenceRepository) FindByUserID(_ context.Context, userID int64) (*entity.UserPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *UserPreferenceRepository) Upsert(_ context.Context, pref *entity.UserPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	p := *pref
	if old, ok := r.prefs[p.UserID]; ok {
		p.FirstSeenAt = old.FirstSeenAt
	} else if p.FirstSeenAt.IsZero() {
		p.FirstSeenAt = now
	}
	p.UpdatedAt = &now
	r.prefs[p.UserID] = p
	*pref = p
	return nil
}

func (r *UserPreferenceRepository) Touch(_ context.Context, userID int64, language string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prefs[userID]; ok {
		return false, nil
	}
	r.prefs[userID] = entity.UserPreference{UserID: userID, Language: language, FirstSeenAt: time.Now()}
	return true, nil
}

func (r *UserPreferenceRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.prefs)), nil
}
