package memory

import (
	"sync"
	"testing"
	"time"

	"pdf-toolbox-bot/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryExpiryHook(t *testing.T) {
	var mu sync.Mutex
	var expired []int64
	repo := NewSessionRepository(20*time.Millisecond, time.Hour, func(s *session.Session) {
		mu.Lock()
		defer mu.Unlock()
		expired = append(expired, s.UserID)
	})

	repo.Save(&session.Session{UserID: 1, Feature: session.FeatureMerge})
	repo.Save(&session.Session{UserID: 2, Feature: session.FeatureMerge})
	repo.Delete(2)

	time.Sleep(40 * time.Millisecond)
	repo.Purge()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1}, expired)
	assert.Equal(t, 0, repo.Count())
}

func TestSessionRepositoryExpiredBeforePurge(t *testing.T) {
	var mu sync.Mutex
	var expired []string
	repo := NewSessionRepository(20*time.Millisecond, time.Hour, func(s *session.Session) {
		mu.Lock()
		defer mu.Unlock()
		for _, in := range s.Inputs {
			expired = append(expired, in.Path)
		}
	})
	var dropped []session.Input
	tr := session.NewTracker(repo, session.WithDiscardFunc(func(_ int64, in []session.Input) {
		dropped = append(dropped, in...)
	}))

	_, err := tr.Begin(3, session.FeatureMerge)
	require.NoError(t, err)
	_, err = tr.Accumulate(3, session.NewInput("/tmp/old.pdf"))
	require.NoError(t, err)

	// The user returns after the TTL but before the janitor runs.
	time.Sleep(40 * time.Millisecond)
	_, err = tr.Begin(3, session.FeatureMerge)
	require.NoError(t, err)
	repo.Purge()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/tmp/old.pdf"}, expired)
	assert.Empty(t, dropped)
	assert.Equal(t, "merge_awaiting_input", tr.State(3))
}

func TestSessionRepositoryBacksTracker(t *testing.T) {
	var dropped []session.Input
	repo := NewSessionRepository(time.Hour, time.Hour, nil)
	tr := session.NewTracker(repo, session.WithDiscardFunc(func(_ int64, in []session.Input) {
		dropped = append(dropped, in...)
	}))

	_, err := tr.Begin(7, session.FeatureMerge)
	require.NoError(t, err)
	_, err = tr.Accumulate(7, session.NewInput("a.pdf"))
	require.NoError(t, err)

	stored, ok := repo.Get(7)
	require.True(t, ok)
	assert.Equal(t, "merge_awaiting_input", stored.State())

	tr.Cancel(7)
	_, ok = repo.Get(7)
	assert.False(t, ok)
	assert.Len(t, dropped, 1)
}
