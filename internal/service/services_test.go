package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pdf-toolbox-bot/internal/dto"
	"pdf-toolbox-bot/internal/messenger"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/repository/memory"
	"pdf-toolbox-bot/pkg/events"
	"pdf-toolbox-bot/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeSessions int

func (f fakeSessions) Count() int { return int(f) }

func TestPreferenceService(t *testing.T) {
	ctx := context.Background()
	svc := NewPreferenceService(memory.NewUserPreferenceRepository(), "xx", logger.NewNopLogger())

	assert.Equal(t, "en", svc.Language(ctx, 1), "unsupported default falls back to en")

	isNew, err := svc.Touch(ctx, 1)
	require.NoError(t, err)
	assert.True(t, isNew)
	isNew, err = svc.Touch(ctx, 1)
	require.NoError(t, err)
	assert.False(t, isNew)

	assert.ErrorIs(t, svc.SetLanguage(ctx, 1, "klingon"), ErrUnsupportedLanguage)
	require.NoError(t, svc.SetLanguage(ctx, 1, "fa"))
	assert.Equal(t, "fa", svc.Language(ctx, 1))

	n, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSubscriberNotify(t *testing.T) {
	ctx := context.Background()
	out := messenger.NewRecorder()
	out.FailFor[2] = true
	svc := NewSubscriberService(memory.NewSubscriberRepository(), out, logger.NewNopLogger())
	svc.(*subscriberService).pause = 0

	for _, id := range []int64{1, 2, 3} {
		added, err := svc.Subscribe(ctx, id, "")
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := svc.Subscribe(ctx, 1, "")
	require.NoError(t, err)
	assert.False(t, added, "second subscribe is a no-op")

	sent, total, err := svc.Notify(ctx, "Sign is live!")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 3, total)
	for _, s := range out.Of("plain") {
		assert.Equal(t, "Sign is live!", s.Text)
	}

	removed, err := svc.Unsubscribe(ctx, 3)
	require.NoError(t, err)
	assert.True(t, removed)
	ok, err := svc.IsSubscribed(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiterLocal(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	rl := NewRateLimiter(true, 2, nil, logger.NewNopLogger())
	rl.(*rateLimiter).now = func() time.Time { return now }

	assert.True(t, rl.Allow(ctx, 7))
	assert.True(t, rl.Allow(ctx, 7))
	assert.False(t, rl.Allow(ctx, 7))
	assert.True(t, rl.Allow(ctx, 8), "limits are per user")

	now = now.Add(time.Hour)
	assert.True(t, rl.Allow(ctx, 7), "a new window starts fresh")

	off := NewRateLimiter(false, 1, nil, logger.NewNopLogger())
	for i := 0; i < 5; i++ {
		assert.True(t, off.Allow(ctx, 7))
	}
}

type fakePublisher struct {
	payloads [][]byte
	metadata []map[string]string
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte, metadata map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	f.metadata = append(f.metadata, metadata)
	return nil
}

func TestOperationServiceInFlight(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	ops := NewOperationService(pub, logger.NewNopLogger())
	req := session.OperationRequest{UserID: 5, Feature: session.FeatureCompress}

	job, err := ops.Submit(ctx, 50, "en", req)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, int64(50), job.ChatID)
	assert.True(t, ops.InFlight(5))
	require.Len(t, pub.payloads, 1)
	assert.Equal(t, "5", pub.metadata[0][MetadataUserID])

	_, err = ops.Submit(ctx, 50, "en", req)
	assert.ErrorIs(t, err, ErrOperationInFlight)

	ops.Done(5)
	assert.False(t, ops.InFlight(5))

	pub.err = errors.New("closed")
	_, err = ops.Submit(ctx, 50, "en", req)
	assert.Error(t, err)
	assert.False(t, ops.InFlight(5), "a failed publish releases the slot")
}

func TestStatsSummary(t *testing.T) {
	ctx := context.Background()
	logs := memory.NewOperationLogRepository(0)
	prefs := memory.NewUserPreferenceRepository()
	subs := memory.NewSubscriberRepository()
	stats := NewStatsService(logs, prefs, subs, fakeSessions(3), nil, logger.NewNopLogger())

	_, _ = prefs.Touch(ctx, 1, "en")
	_, _ = prefs.Touch(ctx, 2, "en")
	now := time.Now()
	require.NoError(t, stats.Record(ctx, events.OperationEvent{JobID: "a", UserID: 1, Feature: "merge", OccurredAt: now}))
	require.NoError(t, stats.Record(ctx, events.OperationEvent{JobID: "a", UserID: 1, Feature: "merge", OccurredAt: now}))
	require.NoError(t, stats.Record(ctx, events.OperationEvent{JobID: "b", UserID: 2, Feature: "ocr", Error: "boom", OccurredAt: now}))
	require.NoError(t, stats.Record(ctx, events.OperationEvent{JobID: "c", UserID: 2, Feature: "merge", OccurredAt: now.Add(-48 * time.Hour)}))

	sum, err := stats.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, sum.Users)
	assert.EqualValues(t, 3, sum.OperationsAll)
	assert.EqualValues(t, 2, sum.OperationsDay)
	assert.EqualValues(t, 1, sum.Failed)
	assert.Equal(t, 3, sum.ActiveSessions)
	require.NotEmpty(t, sum.TopFeatures)
	assert.Equal(t, "merge", sum.TopFeatures[0].Feature)
	assert.EqualValues(t, 2, sum.TopFeatures[0].Count)

	recent, err := stats.Recent(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAdminService(string(hash), "secret", nil, nil, nil, logger.NewNopLogger())

	res, err := svc.Login(ctx, dto.AdminLoginRequest{Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.WithinDuration(t, time.Now().Add(adminTokenTTL), res.ExpiresAt, time.Minute)

	_, err = svc.Login(ctx, dto.AdminLoginRequest{Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	disabled := NewAdminService("", "", nil, nil, nil, logger.NewNopLogger())
	_, err = disabled.Login(ctx, dto.AdminLoginRequest{Password: "hunter2"})
	assert.ErrorIs(t, err, ErrAdminDisabled)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 20},
		{3, 10, 3, 10},
		{-1, 500, 1, 20},
	}
	for _, tt := range tests {
		p, l := normalizePage(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, p)
		assert.Equal(t, tt.wantLimit, l)
	}
}
