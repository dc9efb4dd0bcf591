package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pdf-toolbox-bot/internal/entity"
	"pdf-toolbox-bot/internal/repository/contract"

	"github.com/google/uuid"
)

// OperationLogRepository keeps the most recent logs up to a fixed cap.
type OperationLogRepository struct {
	mu    sync.RWMutex
	logs  []entity.OperationLog
	jobs  map[string]struct{}
	limit int
}

func NewOperationLogRepository(limit int) contract.OperationLogRepository {
	if limit <= 0 {
		limit = 10000
	}
	return &OperationLogRepository{jobs: make(map[string]struct{}), limit: limit}
}

func (r *OperationLogRepository) Create(_ context.Context, log *entity.OperationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.JobID != "" {
		if _, ok := r.jobs[log.JobID]; ok {
			return nil
		}
		r.jobs[log.JobID] = struct{}{}
	}
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	if over := len(r.logs) - r.limit; over > 0 {
		for _, old := range r.logs[:over] {
			delete(r.jobs, old.JobID)
		}
		r.logs = append([]entity.OperationLog(nil), r.logs[over:]...)
	}
	return nil
}

func (r *OperationLogRepository) Counts(_ context.Context, since time.Time) (entity.OperationCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := entity.OperationCounts{Total: int64(len(r.logs))}
	for _, l := range r.logs {
		if !l.CreatedAt.Before(since) {
			out.Today++
		}
		if l.Status == entity.OperationStatusFailed {
			out.Failed++
		}
	}
	return out, nil
}

func (r *OperationLogRepository) TopFeatures(_ context.Context, limit int) ([]entity.FeatureCount, error) {
	r.mu.RLock()
	counts := make(map[string]int64)
	for _, l := range r.logs {
		counts[l.Feature]++
	}
	r.mu.RUnlock()

	out := make([]entity.FeatureCount, 0, len(counts))
	for f, n := range counts {
		out = append(out, entity.FeatureCount{Feature: f, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Feature < out[j].Feature
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OperationLogRepository) FindRecent(_ context.Context, limit, offset int) ([]*entity.OperationLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.OperationLog
	for i := len(r.logs) - 1 - offset; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		l := r.logs[i]
		out = append(out, &l)
	}
	return out, nil
}
