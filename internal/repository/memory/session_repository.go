package memory

import (
	"strconv"
	"sync/atomic"
	"time"

	"pdf-toolbox-bot/pkg/session"

	"github.com/patrickmn/go-cache"
)

// ExpireFunc is called with a session the janitor dropped for inactivity.
type ExpireFunc func(s *session.Session)

type entry struct {
	session  *session.Session
	released atomic.Bool
}

// SessionRepository is the session.Store backing the tracker. Items
// expire after ttl without a Save.
type SessionRepository struct {
	cache    *cache.Cache
	onExpire ExpireFunc
}

func NewSessionRepository(ttl, purge time.Duration, onExpire ExpireFunc) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	if purge <= 0 {
		purge = 10 * time.Minute
	}
	r := &SessionRepository{
		cache:    cache.New(ttl, purge),
		onExpire: onExpire,
	}
	// go-cache reports manual deletes here too; those entries are marked
	// released first so only expiry reaches onExpire.
	r.cache.OnEvicted(func(_ string, v interface{}) {
		e, ok := v.(*entry)
		if !ok || e.released.Load() || r.onExpire == nil {
			return
		}
		r.onExpire(e.session)
	})
	return r
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (r *SessionRepository) Save(s *session.Session) {
	k := key(s.UserID)
	if _, found := r.cache.Get(k); !found {
		// Get hides an expired item the janitor has not reached yet, and Set
		// would replace it without OnEvicted. Flush it so onExpire still runs.
		r.cache.DeleteExpired()
	}
	r.cache.Set(k, &entry{session: s}, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userID int64) (*session.Session, bool) {
	if x, found := r.cache.Get(key(userID)); found {
		return x.(*entry).session, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userID int64) {
	if x, found := r.cache.Get(key(userID)); found {
		x.(*entry).released.Store(true)
	}
	r.cache.Delete(key(userID))
}

// Count returns the number of stored sessions, expired ones included
// until the next purge.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

// Purge runs expiry immediately.
func (r *SessionRepository) Purge() {
	r.cache.DeleteExpired()
}
