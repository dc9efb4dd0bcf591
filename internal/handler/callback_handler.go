package handler

import (
	"context"
	"strconv"

	"pdf-toolbox-bot/internal/texts"
	"pdf-toolbox-bot/pkg/session"

	"github.com/go-telegram/bot/models"
)

func (h *BotHandler) onCallback(ctx context.Context, q *models.CallbackQuery) {
	if err := h.out.AnswerCallback(ctx, q.ID, ""); err != nil {
		h.logger.Debug("BotHandler", "Failed to answer callback", map[string]interface{}{"error": err.Error()})
	}
	if q.Message.Message == nil {
		return
	}
	userID := q.From.ID
	chatID := q.Message.Message.Chat.ID
	messageID := q.Message.Message.ID
	lang := h.prefs.Language(ctx, userID)

	cb := parseCallback(q.Data)
	switch cb.kind {
	case cbLanguage:
		if err := h.prefs.SetLanguage(ctx, userID, cb.language); err != nil {
			h.send(ctx, chatID, texts.Get(lang, "invalid_input"), LanguageKeyboard())
			return
		}
		h.send(ctx, chatID, texts.Get(cb.language, "language_changed"), nil)
		h.send(ctx, chatID, texts.Get(cb.language, "choose_action"), MainMenu(cb.language))

	case cbBackToMenu:
		h.tracker.Cancel(userID)
		h.edit(ctx, chatID, messageID, texts.Get(lang, "choose_action"), MainMenu(lang))

	case cbCategory:
		h.edit(ctx, chatID, messageID, texts.Get(lang, "category_"+string(cb.category)),
			categoryKeyboard(lang, cb.category, h.cfg.ComingSoon))

	case cbFeature:
		h.begin(ctx, chatID, userID, lang, cb.feature)

	case cbFinalize:
		h.finalize(ctx, chatID, userID, lang)

	case cbSubscribe:
		h.subscribe(ctx, chatID, userID, q.From.Username, lang)

	case cbUnsubscribe:
		h.unsubscribe(ctx, chatID, userID, lang)

	case cbComingSoon:
		subscribed, err := h.subscribers.IsSubscribed(ctx, userID)
		if err != nil {
			h.logger.Warn("BotHandler", "Failed to read subscription", map[string]interface{}{"user_id": userID, "error": err.Error()})
		}
		h.send(ctx, chatID, texts.Get(lang, "coming_soon"), comingSoonKeyboard(lang, subscribed))
	}
}

// begin starts f and shows its prompt.
func (h *BotHandler) begin(ctx context.Context, chatID, userID int64, lang string, f session.Feature) {
	if h.cfg.Disabled[f] {
		h.send(ctx, chatID, texts.Get(lang, "feature_disabled"), MainMenu(lang))
		return
	}
	if h.ops.InFlight(userID) {
		h.send(ctx, chatID, texts.Get(lang, "operation_running"), nil)
		return
	}
	p, err := h.tracker.Begin(userID, f)
	if err != nil {
		h.reject(ctx, chatID, lang, err)
		return
	}
	h.logger.Debug("BotHandler", "Operation started", map[string]interface{}{
		"user_id": userID,
		"feature": string(f),
	})
	h.send(ctx, chatID, texts.Format(lang, "prompt_"+string(f), map[string]string{
		"max": strconv.Itoa(p.Max),
	}), cancelKeyboard(lang))
}

func (h *BotHandler) edit(ctx context.Context, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) {
	if err := h.out.Edit(ctx, chatID, messageID, text, kb); err != nil {
		// The original message may be too old to edit.
		h.send(ctx, chatID, text, kb)
	}
}
