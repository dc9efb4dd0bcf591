package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"pdf-toolbox-bot/internal/dto"
	"pdf-toolbox-bot/internal/messenger"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/repository/memory"
	"pdf-toolbox-bot/internal/service"
	"pdf-toolbox-bot/internal/texts"
	"pdf-toolbox-bot/pkg/session"
	"pdf-toolbox-bot/pkg/tempfs"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID  int64 = 42
	adminID int64 = 7
)

type fakeQueue struct {
	mu   sync.Mutex
	jobs []dto.Job
}

func (q *fakeQueue) Publish(_ context.Context, payload []byte, _ map[string]string) error {
	var job dto.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return err
	}
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	return nil
}

func (q *fakeQueue) last(t *testing.T) dto.Job {
	t.Helper()
	q.mu.Lock()
	defer q.mu.Unlock()
	require.NotEmpty(t, q.jobs)
	return q.jobs[len(q.jobs)-1]
}

type fakeFiles struct {
	mu      sync.Mutex
	removed []string
	err     error
	// delay and gate slow down or hold downloads by file name.
	delay map[string]time.Duration
	gate  map[string]chan struct{}
}

func (f *fakeFiles) Download(_ context.Context, url, name string) (string, int64, error) {
	if f.err != nil {
		return "", 0, f.err
	}
	if d, ok := f.delay[name]; ok {
		time.Sleep(d)
	}
	if g, ok := f.gate[name]; ok {
		<-g
	}
	return "/ws/" + name, 100, nil
}

func (f *fakeFiles) Cleanup(paths ...string) {
	f.mu.Lock()
	f.removed = append(f.removed, paths...)
	f.mu.Unlock()
}

type fixture struct {
	h       *BotHandler
	out     *messenger.Recorder
	queue   *fakeQueue
	files   *fakeFiles
	tracker *session.Tracker
	ops     service.IOperationService
	prefs   service.IPreferenceService
}

func newFixture(t *testing.T, mutate func(cfg *BotConfig), limiter service.IRateLimiter) *fixture {
	t.Helper()
	log := logger.NewNopLogger()
	f := &fixture{
		out:     messenger.NewRecorder(),
		queue:   &fakeQueue{},
		files:   &fakeFiles{},
		tracker: session.NewTracker(nil),
	}
	for _, id := range []string{"a", "b", "c", "img", "big"} {
		f.out.Files[id] = "https://files.example/" + id
	}
	f.ops = service.NewOperationService(f.queue, log)
	f.prefs = service.NewPreferenceService(memory.NewUserPreferenceRepository(), "en", log)
	subs := service.NewSubscriberService(memory.NewSubscriberRepository(), f.out, log)
	stats := service.NewStatsService(memory.NewOperationLogRepository(0), memory.NewUserPreferenceRepository(),
		memory.NewSubscriberRepository(), nil, nil, log)
	if limiter == nil {
		limiter = service.NewRateLimiter(false, 10, nil, log)
	}

	cfg := BotConfig{
		MaxFileSize: 1024 * 1024,
		AdminIDs:    []int64{adminID},
		Disabled:    map[session.Feature]bool{},
		ComingSoon:  []string{"sign", "crop"},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	f.h = NewBotHandler(cfg, f.tracker, f.ops, f.prefs, subs, stats, limiter, f.files, f.out, log)
	return f
}

func (f *fixture) text(uid int64, text string) {
	f.h.Handle(context.Background(), nil, &models.Update{Message: &models.Message{
		ID:   1,
		From: &models.User{ID: uid, Username: "someone"},
		Chat: models.Chat{ID: uid},
		Text: text,
	}})
}

func documentUpdate(uid int64, fileID, name, mime string, size int64) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:       2,
		From:     &models.User{ID: uid},
		Chat:     models.Chat{ID: uid},
		Document: &models.Document{FileID: fileID, FileName: name, MimeType: mime, FileSize: size},
	}}
}

func pressUpdate(uid int64, data string) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb",
		From: models.User{ID: uid},
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{ID: 99, Chat: models.Chat{ID: uid}},
		},
		Data: data,
	}}
}

func (f *fixture) document(uid int64, fileID, name, mime string, size int64) {
	f.h.Handle(context.Background(), nil, documentUpdate(uid, fileID, name, mime, size))
}

func (f *fixture) press(uid int64, data string) {
	f.h.Handle(context.Background(), nil, pressUpdate(uid, data))
}

func (f *fixture) lastText() messenger.Sent {
	sent := f.out.Of("text")
	if len(sent) == 0 {
		return messenger.Sent{}
	}
	return sent[len(sent)-1]
}

func hasButton(kb *models.InlineKeyboardMarkup, data string) bool {
	if kb == nil {
		return false
	}
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData == data {
				return true
			}
		}
	}
	return false
}

func TestMergeFlow(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.press(userID, "merge")
	assert.Equal(t, "merge_awaiting_input", f.tracker.State(userID))
	assert.Contains(t, f.lastText().Text, "20")

	f.document(userID, "a", "a.pdf", "application/pdf", 10)
	assert.False(t, hasButton(f.lastText().Keyboard, dataDoMerge), "one PDF cannot be merged yet")

	f.document(userID, "b", "b.pdf", "application/pdf", 10)
	assert.True(t, hasButton(f.lastText().Keyboard, dataDoMerge))

	f.press(userID, dataDoMerge)
	assert.Equal(t, texts.Get("en", "queued"), f.lastText().Text)
	assert.Equal(t, session.StateIdle, f.tracker.State(userID))
	assert.True(t, f.ops.InFlight(userID))

	job := f.queue.last(t)
	assert.Equal(t, session.FeatureMerge, job.Request.Feature)
	assert.Equal(t, []string{"/ws/a.pdf", "/ws/b.pdf"}, job.Request.Paths())
	assert.Equal(t, userID, job.ChatID)

	f.document(userID, "c", "c.pdf", "application/pdf", 10)
	assert.Equal(t, texts.Get("en", "operation_running"), f.lastText().Text)
}

func TestLoneImageConvertsImmediately(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.h.Handle(context.Background(), nil, &models.Update{Message: &models.Message{
		From: &models.User{ID: userID},
		Chat: models.Chat{ID: userID},
		Photo: []models.PhotoSize{
			{FileID: "small", FileUniqueID: "s", Width: 90, Height: 90},
			{FileID: "img", FileUniqueID: "u1", Width: 1280, Height: 960},
		},
	}})

	job := f.queue.last(t)
	assert.Equal(t, session.FeatureImagesToPDF, job.Request.Feature)
	require.Len(t, job.Request.Inputs, 1)
	assert.Equal(t, session.KindImage, job.Request.Inputs[0].Kind)
	assert.Equal(t, "photo_u1.jpg", job.Request.Inputs[0].Name)
	assert.Equal(t, session.StateIdle, f.tracker.State(userID))
}

func TestLonePDFShowsMenu(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.document(userID, "a", "a.pdf", "application/pdf", 10)

	assert.Equal(t, texts.Get("en", "choose_action"), f.lastText().Text)
	assert.Empty(t, f.queue.jobs)
}

func TestRotateOptionFlow(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.press(userID, "rotate")
	f.document(userID, "a", "a.pdf", "application/pdf", 10)
	assert.Equal(t, "rotate_awaiting_option", f.tracker.State(userID))
	assert.Equal(t, texts.Get("en", "option_angle"), f.lastText().Text)

	f.text(userID, "45")
	assert.Equal(t, texts.Get("en", "invalid_angle"), f.lastText().Text)
	assert.Equal(t, "rotate_awaiting_option", f.tracker.State(userID))

	f.document(userID, "b", "b.pdf", "application/pdf", 10)
	assert.Equal(t, texts.Get("en", "awaiting_option"), f.lastText().Text)

	f.text(userID, "90°")
	job := f.queue.last(t)
	assert.Equal(t, "90", job.Request.Option(session.OptionAngle))
}

func TestWatermarkAsksForImage(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.press(userID, "watermark")
	f.document(userID, "a", "a.pdf", "application/pdf", 10)
	assert.Equal(t, texts.Get("en", "send_watermark_image"), f.lastText().Text)

	f.document(userID, "b", "b.pdf", "application/pdf", 10)
	assert.Contains(t, f.lastText().Text, texts.Get("en", "kind_image"))
	assert.Contains(t, f.files.removed, "/ws/b.pdf")

	f.document(userID, "img", "logo.png", "image/png", 10)
	job := f.queue.last(t)
	assert.Equal(t, session.FeatureWatermark, job.Request.Feature)
	assert.Len(t, job.Request.Inputs, 2)
}

func TestUploadRejections(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.press(userID, "compress")
		f.document(userID, "big", "big.pdf", "application/pdf", 5*1024*1024)
		assert.Contains(t, f.lastText().Text, "1MB")
		assert.Equal(t, "compress_awaiting_input", f.tracker.State(userID))
	})

	t.Run("download exceeds limit", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.files.err = tempfs.ErrTooLarge
		f.press(userID, "compress")
		f.document(userID, "a", "a.pdf", "application/pdf", 10)
		assert.Contains(t, f.lastText().Text, "1MB")
	})

	t.Run("download failed", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.press(userID, "compress")
		f.document(userID, "unknown-id", "a.pdf", "application/pdf", 10)
		assert.Equal(t, texts.Get("en", "download_failed"), f.lastText().Text)
	})

	t.Run("unsupported lone file", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		f.document(userID, "a", "archive.zip", "application/zip", 10)
		assert.Equal(t, texts.Get("en", "unsupported"), f.lastText().Text)
	})
}

func TestCancel(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.text(userID, "/cancel")
	assert.Equal(t, texts.Get("en", "nothing_to_cancel"), f.lastText().Text)

	f.press(userID, "split")
	f.text(userID, "/cancel")
	assert.Equal(t, texts.Get("en", "operation_cancelled"), f.lastText().Text)
	assert.Equal(t, session.StateIdle, f.tracker.State(userID))

	f.press(userID, "split")
	f.press(userID, dataBackToMenu)
	assert.Equal(t, session.StateIdle, f.tracker.State(userID))
	edits := f.out.Of("edit")
	require.NotEmpty(t, edits)
	assert.Equal(t, texts.Get("en", "choose_action"), edits[len(edits)-1].Text)
}

func TestFinalizeTooEarly(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.press(userID, "merge")
	f.press(userID, dataDoMerge)
	assert.Contains(t, f.lastText().Text, "2")
	assert.Equal(t, "merge_awaiting_input", f.tracker.State(userID))
}

func TestRateLimit(t *testing.T) {
	limiter := service.NewRateLimiter(true, 1, nil, logger.NewNopLogger())
	f := newFixture(t, nil, limiter)

	f.press(userID, "repair")
	f.document(userID, "a", "a.pdf", "application/pdf", 10)
	require.Len(t, f.queue.jobs, 1)
	f.ops.Done(userID)

	f.press(userID, "repair")
	f.document(userID, "b", "b.pdf", "application/pdf", 10)
	assert.Len(t, f.queue.jobs, 1)
	assert.Contains(t, f.lastText().Text, "1")
	assert.Contains(t, f.files.removed, "/ws/b.pdf")
	assert.Equal(t, session.StateIdle, f.tracker.State(userID))
}

func TestDisabledFeature(t *testing.T) {
	f := newFixture(t, func(cfg *BotConfig) {
		cfg.Disabled[session.FeatureOCR] = true
	}, nil)

	f.press(userID, "ocr")
	assert.Equal(t, texts.Get("en", "feature_disabled"), f.lastText().Text)
	assert.Equal(t, session.StateIdle, f.tracker.State(userID))
}

func TestComingSoonSubscription(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.press(userID, "sign")
	assert.Equal(t, texts.Get("en", "coming_soon"), f.lastText().Text)
	assert.True(t, hasButton(f.lastText().Keyboard, dataSubscribeComing))

	f.press(userID, dataSubscribeComing)
	assert.Equal(t, texts.Get("en", "subscribed"), f.lastText().Text)

	f.press(userID, "sign")
	assert.True(t, hasButton(f.lastText().Keyboard, dataUnsubscribeComing))

	f.text(userID, "/unsubscribe")
	assert.Equal(t, texts.Get("en", "unsubscribed"), f.lastText().Text)
}

func TestLanguageSwitch(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.text(userID, "/start")
	assert.True(t, hasButton(f.lastText().Keyboard, "lang_fa"))

	f.press(userID, "lang_fa")
	assert.Equal(t, "fa", f.prefs.Language(context.Background(), userID))
	sent := f.out.Of("text")
	assert.Equal(t, texts.Get("fa", "language_changed"), sent[len(sent)-2].Text)
}

func TestAdminCommands(t *testing.T) {
	f := newFixture(t, nil, nil)

	f.text(userID, "/stats")
	assert.Equal(t, texts.Get("en", "admin_only"), f.lastText().Text)

	f.text(adminID, "/stats")
	assert.Contains(t, f.lastText().Text, "Bot Statistics")

	f.text(adminID, "/notify")
	assert.Equal(t, texts.Get("en", "notify_usage"), f.lastText().Text)

	f.text(userID, "/subscribe")
	f.text(adminID, "/notify Crop is here")
	assert.Contains(t, f.lastText().Text, "1 of 1")
	plain := f.out.Of("plain")
	require.Len(t, plain, 1)
	assert.Equal(t, "Crop is here", plain[0].Text)
}

func TestCategoryMenu(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.press(userID, "menu_security")

	edits := f.out.Of("edit")
	require.Len(t, edits, 1)
	kb := edits[0].Keyboard
	assert.True(t, hasButton(kb, "unlock"))
	assert.True(t, hasButton(kb, "protect"))
	assert.True(t, hasButton(kb, "sign"))
	assert.False(t, hasButton(kb, "crop"))
	assert.True(t, hasButton(kb, dataBackToMenu))
	assert.Len(t, f.out.Of("callback"), 1)
}
