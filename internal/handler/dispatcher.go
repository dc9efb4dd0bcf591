package handler

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Dispatcher runs updates one at a time per user, in the order the bot
// received them. Different users are served concurrently.
type Dispatcher struct {
	handle bot.HandlerFunc

	mu     sync.Mutex
	queues map[int64]*userQueue
	wg     sync.WaitGroup
}

type userQueue struct {
	pending []*models.Update
}

func NewDispatcher(handle bot.HandlerFunc) *Dispatcher {
	return &Dispatcher{handle: handle, queues: make(map[int64]*userQueue)}
}

// Options configures a bot to feed this dispatcher. Handlers must not run
// asynchronously or arrival order is lost before Dispatch sees it.
func (d *Dispatcher) Options() []bot.Option {
	return []bot.Option{
		bot.WithNotAsyncHandlers(),
		bot.WithDefaultHandler(d.Dispatch),
	}
}

// Dispatch queues update behind the sender's earlier updates and returns
// without waiting for it to run.
func (d *Dispatcher) Dispatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := updateUserID(update)
	if userID == 0 {
		d.handle(ctx, b, update)
		return
	}

	d.mu.Lock()
	q, running := d.queues[userID]
	if !running {
		q = &userQueue{}
		d.queues[userID] = q
		d.wg.Add(1)
	}
	q.pending = append(q.pending, update)
	d.mu.Unlock()

	if !running {
		go d.drain(ctx, b, userID, q)
	}
}

func (d *Dispatcher) drain(ctx context.Context, b *bot.Bot, userID int64, q *userQueue) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(q.pending) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		next := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		d.mu.Unlock()

		d.handle(ctx, b, next)
	}
}

// Wait blocks until every queued update has been handled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func updateUserID(update *models.Update) int64 {
	switch {
	case update == nil:
		return 0
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	}
	return 0
}
