package memory

import (
	"context"
	"testing"
	"time"

	"pdf-toolbox-bot/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberRepository(t *testing.T) {
	ctx := context.Background()
	r := NewSubscriberRepository()

	added, err := r.Add(ctx, &entity.Subscriber{UserID: 1})
	require.NoError(t, err)
	assert.True(t, added)
	added, _ = r.Add(ctx, &entity.Subscriber{UserID: 1})
	assert.False(t, added)
	_, _ = r.Add(ctx, &entity.Subscriber{UserID: 2})

	n, _ := r.Count(ctx)
	assert.EqualValues(t, 2, n)
	ok, _ := r.Exists(ctx, 2)
	assert.True(t, ok)

	removed, _ := r.Remove(ctx, 2)
	assert.True(t, removed)
	removed, _ = r.Remove(ctx, 2)
	assert.False(t, removed)

	all, _ := r.FindAll(ctx)
	require.Len(t, all, 1)
	assert.EqualValues(t, 1, all[0].UserID)
}

func TestUserPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	r := NewUserPreferenceRepository()

	p, err := r.FindByUserID(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, p)

	created, _ := r.Touch(ctx, 5, "en")
	assert.True(t, created)
	created, _ = r.Touch(ctx, 5, "fa")
	assert.False(t, created)

	require.NoError(t, r.Upsert(ctx, &entity.UserPreference{UserID: 5, Language: "fa"}))
	p, _ = r.FindByUserID(ctx, 5)
	assert.Equal(t, "fa", p.Language)
	assert.False(t, p.FirstSeenAt.IsZero())
	n, _ := r.Count(ctx)
	assert.EqualValues(t, 1, n)
}

func TestOperationLogRepository(t *testing.T) {
	ctx := context.Background()
	r := NewOperationLogRepository(3)
	midnight := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	add := func(job, feature string, status entity.OperationStatus, at time.Time) {
		require.NoError(t, r.Create(ctx, &entity.OperationLog{JobID: job, Feature: feature, Status: status, CreatedAt: at}))
	}
	add("a", "merge", entity.OperationStatusCompleted, midnight.Add(-time.Hour))
	add("b", "merge", entity.OperationStatusFailed, midnight.Add(time.Hour))
	add("b", "merge", entity.OperationStatusFailed, midnight.Add(time.Hour))
	add("c", "split", entity.OperationStatusCompleted, midnight.Add(2*time.Hour))

	counts, err := r.Counts(ctx, midnight)
	require.NoError(t, err)
	assert.Equal(t, entity.OperationCounts{Total: 3, Today: 2, Failed: 1}, counts)

	top, _ := r.TopFeatures(ctx, 1)
	assert.Equal(t, []entity.FeatureCount{{Feature: "merge", Count: 2}}, top)

	add("d", "ocr", entity.OperationStatusCompleted, midnight.Add(3*time.Hour))
	recent, _ := r.FindRecent(ctx, 10, 0)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].JobID)
	assert.Equal(t, "b", recent[2].JobID)

	page, _ := r.FindRecent(ctx, 1, 1)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].JobID)
}
