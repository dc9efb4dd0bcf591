package handler

import (
	"context"
	"strconv"
	"strings"

	"pdf-toolbox-bot/internal/messenger"
	"pdf-toolbox-bot/internal/pkg/logger"
	"pdf-toolbox-bot/internal/service"
	"pdf-toolbox-bot/internal/texts"
	"pdf-toolbox-bot/pkg/session"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Files stores uploads in the scratch workspace.
type Files interface {
	Download(ctx context.Context, url, name string) (string, int64, error)
	Cleanup(paths ...string)
}

type BotConfig struct {
	MaxFileSize     int64
	AdminIDs        []int64
	SupportUsername string
	// Disabled features answer with a "disabled" text instead of starting.
	Disabled   map[session.Feature]bool
	ComingSoon []string
}

type BotHandler struct {
	cfg         BotConfig
	tracker     *session.Tracker
	ops         service.IOperationService
	prefs       service.IPreferenceService
	subscribers service.ISubscriberService
	stats       service.IStatsService
	limiter     service.IRateLimiter
	files       Files
	out         messenger.Messenger
	logger      logger.ILogger
}

func NewBotHandler(
	cfg BotConfig,
	tracker *session.Tracker,
	ops service.IOperationService,
	prefs service.IPreferenceService,
	subscribers service.ISubscriberService,
	stats service.IStatsService,
	limiter service.IRateLimiter,
	files Files,
	out messenger.Messenger,
	log logger.ILogger,
) *BotHandler {
	return &BotHandler{
		cfg:         cfg,
		tracker:     tracker,
		ops:         ops,
		prefs:       prefs,
		subscribers: subscribers,
		stats:       stats,
		limiter:     limiter,
		files:       files,
		out:         out,
		logger:      log,
	}
}

// Handle is the bot's default update handler.
func (h *BotHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	switch {
	case update == nil:
		return
	case update.CallbackQuery != nil:
		h.onCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		h.onMessage(ctx, update.Message)
	}
}

func (h *BotHandler) onMessage(ctx context.Context, msg *models.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	lang := h.prefs.Language(ctx, userID)

	switch {
	case strings.HasPrefix(msg.Text, "/"):
		h.onCommand(ctx, msg, lang)
	case msg.Document != nil:
		name := msg.Document.FileName
		if name == "" {
			name = "document"
		}
		h.onUpload(ctx, chatID, userID, lang, upload{
			fileID: msg.Document.FileID,
			name:   name,
			mime:   msg.Document.MimeType,
			size:   int64(msg.Document.FileSize),
		})
	case len(msg.Photo) > 0:
		h.onUpload(ctx, chatID, userID, lang, largestPhoto(msg.Photo))
	case msg.Text != "":
		h.onText(ctx, chatID, userID, lang, msg.Text)
	default:
		h.send(ctx, chatID, texts.Get(lang, "unsupported"), nil)
	}
}

func (h *BotHandler) onCommand(ctx context.Context, msg *models.Message, lang string) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	command, args, _ := strings.Cut(msg.Text, " ")
	// "/start@MyBot" in groups
	command, _, _ = strings.Cut(command, "@")

	switch command {
	case "/start":
		if _, err := h.prefs.Touch(ctx, userID); err != nil {
			h.logger.Warn("BotHandler", "Failed to register user", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		h.send(ctx, chatID, texts.Get(lang, "welcome"), LanguageKeyboard())

	case "/help":
		support := "-"
		if h.cfg.SupportUsername != "" {
			support = escapeMarkdown("@" + strings.TrimPrefix(h.cfg.SupportUsername, "@"))
		}
		h.send(ctx, chatID, texts.Format(lang, "help", map[string]string{"support": support}), nil)

	case "/language":
		h.send(ctx, chatID, texts.Get(lang, "choose_language"), LanguageKeyboard())

	case "/cancel":
		if h.tracker.State(userID) == session.StateIdle {
			h.send(ctx, chatID, texts.Get(lang, "nothing_to_cancel"), MainMenu(lang))
			return
		}
		h.tracker.Cancel(userID)
		h.send(ctx, chatID, texts.Get(lang, "operation_cancelled"), MainMenu(lang))

	case "/subscribe":
		h.subscribe(ctx, chatID, userID, msg.From.Username, lang)

	case "/unsubscribe":
		h.unsubscribe(ctx, chatID, userID, lang)

	case "/stats":
		if !h.isAdmin(userID) {
			h.send(ctx, chatID, texts.Get(lang, "admin_only"), nil)
			return
		}
		sum, err := h.stats.Summary(ctx)
		if err != nil {
			h.logger.Error("BotHandler", "Failed to build stats", map[string]interface{}{"error": err.Error()})
			h.send(ctx, chatID, texts.Get(lang, "error"), nil)
			return
		}
		h.send(ctx, chatID, texts.Format(lang, "stats", map[string]string{
			"users":       strconv.FormatInt(sum.Users, 10),
			"subscribers": strconv.FormatInt(sum.Subscribers, 10),
			"today":       strconv.FormatInt(sum.OperationsDay, 10),
			"total":       strconv.FormatInt(sum.OperationsAll, 10),
			"failed":      strconv.FormatInt(sum.Failed, 10),
			"sessions":    strconv.Itoa(sum.ActiveSessions),
		}), nil)

	case "/notify":
		if !h.isAdmin(userID) {
			h.send(ctx, chatID, texts.Get(lang, "admin_only"), nil)
			return
		}
		text := strings.TrimSpace(args)
		if text == "" {
			h.send(ctx, chatID, texts.Get(lang, "notify_usage"), nil)
			return
		}
		sent, total, err := h.subscribers.Notify(ctx, text)
		if err != nil {
			h.logger.Error("BotHandler", "Broadcast failed", map[string]interface{}{"error": err.Error()})
		}
		h.send(ctx, chatID, texts.Format(lang, "notify_done", map[string]string{
			"sent":  strconv.Itoa(sent),
			"total": strconv.Itoa(total),
		}), nil)

	default:
		h.send(ctx, chatID, texts.Get(lang, "choose_action"), MainMenu(lang))
	}
}

func (h *BotHandler) onText(ctx context.Context, chatID, userID int64, lang, text string) {
	p, pending := h.tracker.Progress(userID)
	if !pending || p.AwaitingOption == session.OptionNone {
		h.send(ctx, chatID, texts.Get(lang, "choose_action"), MainMenu(lang))
		return
	}
	if h.ops.InFlight(userID) {
		h.send(ctx, chatID, texts.Get(lang, "operation_running"), nil)
		return
	}

	p, err := h.tracker.SetOption(userID, text)
	if err != nil {
		h.reject(ctx, chatID, lang, err)
		return
	}
	h.advance(ctx, chatID, userID, lang, p)
}

func (h *BotHandler) subscribe(ctx context.Context, chatID, userID int64, username, lang string) {
	added, err := h.subscribers.Subscribe(ctx, userID, username)
	if err != nil {
		h.logger.Error("BotHandler", "Failed to subscribe", map[string]interface{}{"user_id": userID, "error": err.Error()})
		h.send(ctx, chatID, texts.Get(lang, "error"), nil)
		return
	}
	key := "already_subscribed"
	if added {
		key = "subscribed"
	}
	h.send(ctx, chatID, texts.Get(lang, key), nil)
}

func (h *BotHandler) unsubscribe(ctx context.Context, chatID, userID int64, lang string) {
	removed, err := h.subscribers.Unsubscribe(ctx, userID)
	if err != nil {
		h.logger.Error("BotHandler", "Failed to unsubscribe", map[string]interface{}{"user_id": userID, "error": err.Error()})
		h.send(ctx, chatID, texts.Get(lang, "error"), nil)
		return
	}
	key := "not_subscribed"
	if removed {
		key = "unsubscribed"
	}
	h.send(ctx, chatID, texts.Get(lang, key), nil)
}

func (h *BotHandler) isAdmin(userID int64) bool {
	for _, id := range h.cfg.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (h *BotHandler) send(ctx context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	if err := h.out.Send(ctx, chatID, text, kb); err != nil {
		h.logger.Warn("BotHandler", "Failed to send message", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
