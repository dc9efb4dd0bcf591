package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pdf-toolbox-bot/internal/service"
	"pdf-toolbox-bot/internal/texts"
	"pdf-toolbox-bot/pkg/session"
	"pdf-toolbox-bot/pkg/tempfs"

	"github.com/go-telegram/bot/models"
)

type upload struct {
	fileID string
	name   string
	mime   string
	size   int64
}

// largestPhoto picks the biggest rendition Telegram offers.
func largestPhoto(sizes []models.PhotoSize) upload {
	best := sizes[0]
	for _, p := range sizes[1:] {
		if p.Width*p.Height > best.Width*best.Height {
			best = p
		}
	}
	return upload{
		fileID: best.FileID,
		name:   fmt.Sprintf("photo_%s.jpg", best.FileUniqueID),
		mime:   "image/jpeg",
		size:   int64(best.FileSize),
	}
}

// oneShot maps a file sent with no pending operation to the conversion it
// implies.
var oneShot = map[session.InputKind]session.Feature{
	session.KindImage:        session.FeatureImagesToPDF,
	session.KindDocument:     session.FeatureWordToPDF,
	session.KindSpreadsheet:  session.FeatureExcelToPDF,
	session.KindPresentation: session.FeaturePowerPointToPDF,
	session.KindHTML:         session.FeatureHTMLToPDF,
}

func (h *BotHandler) onUpload(ctx context.Context, chatID, userID int64, lang string, up upload) {
	if h.cfg.MaxFileSize > 0 && up.size > h.cfg.MaxFileSize {
		h.send(ctx, chatID, h.tooLarge(lang), nil)
		return
	}
	if h.ops.InFlight(userID) {
		h.send(ctx, chatID, texts.Get(lang, "operation_running"), nil)
		return
	}

	kind := session.DetectKind(up.name, up.mime)
	p, pending := h.tracker.Progress(userID)
	switch {
	case !pending:
		h.convertNow(ctx, chatID, userID, lang, up, kind)
		return
	case p.AwaitingOption != session.OptionNone:
		h.send(ctx, chatID, texts.Get(lang, "awaiting_option"), nil)
		return
	case p.Count >= p.Max:
		h.send(ctx, chatID, texts.Format(lang, "too_many_inputs", map[string]string{"max": strconv.Itoa(p.Max)}), nil)
		return
	}

	input, ok := h.download(ctx, chatID, lang, up, kind)
	if !ok {
		return
	}
	next, err := h.tracker.Accumulate(userID, input)
	if err != nil {
		h.files.Cleanup(input.Path)
		h.rejectWithMax(ctx, chatID, lang, err, p.Max)
		return
	}
	h.advance(ctx, chatID, userID, lang, next)
}

// convertNow runs the conversion a lone file implies, through the tracker
// like any other request.
func (h *BotHandler) convertNow(ctx context.Context, chatID, userID int64, lang string, up upload, kind session.InputKind) {
	f, ok := oneShot[kind]
	if !ok {
		key := "unsupported"
		if kind == session.KindPDF {
			key = "choose_action"
		}
		h.send(ctx, chatID, texts.Get(lang, key), MainMenu(lang))
		return
	}
	if h.cfg.Disabled[f] {
		h.send(ctx, chatID, texts.Get(lang, "feature_disabled"), MainMenu(lang))
		return
	}

	input, ok := h.download(ctx, chatID, lang, up, kind)
	if !ok {
		return
	}
	if _, err := h.tracker.Begin(userID, f); err != nil {
		h.files.Cleanup(input.Path)
		h.reject(ctx, chatID, lang, err)
		return
	}
	if _, err := h.tracker.Accumulate(userID, input); err != nil {
		h.tracker.Cancel(userID)
		h.files.Cleanup(input.Path)
		h.reject(ctx, chatID, lang, err)
		return
	}
	h.finalize(ctx, chatID, userID, lang)
}

func (h *BotHandler) download(ctx context.Context, chatID int64, lang string, up upload, kind session.InputKind) (session.Input, bool) {
	url, err := h.out.FileURL(ctx, up.fileID)
	if err == nil {
		var path string
		var size int64
		path, size, err = h.files.Download(ctx, url, up.name)
		if err == nil {
			return session.Input{Path: path, Name: up.name, Kind: kind, Size: size}, true
		}
	}

	if errors.Is(err, tempfs.ErrTooLarge) {
		h.send(ctx, chatID, h.tooLarge(lang), nil)
		return session.Input{}, false
	}
	h.logger.Warn("BotHandler", "Download failed", map[string]interface{}{
		"chat_id": chatID,
		"name":    up.name,
		"error":   err.Error(),
	})
	h.send(ctx, chatID, texts.Get(lang, "download_failed"), nil)
	return session.Input{}, false
}

// advance tells the user what comes next after a successful tracker call.
func (h *BotHandler) advance(ctx context.Context, chatID, userID int64, lang string, p session.Progress) {
	switch {
	case p.Ready:
		h.finalize(ctx, chatID, userID, lang)

	case p.AwaitingOption != session.OptionNone:
		h.send(ctx, chatID, texts.Format(lang, "option_"+string(p.AwaitingOption), passwordBounds()), cancelKeyboard(lang))

	case p.Max > p.Min:
		args := map[string]string{"count": strconv.Itoa(p.Count)}
		key := "inputs_count"
		switch p.Feature {
		case session.FeatureMerge:
			key = "pdfs_count"
		case session.FeatureImagesToPDF:
			key = "images_count"
		}
		kb := cancelKeyboard(lang)
		if p.CanFinalize {
			kb = finalizeKeyboard(lang, p.Feature, p.Count)
		}
		h.send(ctx, chatID, texts.Format(lang, key, args), kb)

	case p.Feature == session.FeatureWatermark:
		h.send(ctx, chatID, texts.Get(lang, "send_watermark_image"), cancelKeyboard(lang))

	default:
		h.send(ctx, chatID, texts.Format(lang, "send_next", map[string]string{
			"expected": kindList(lang, h.nextKinds(p)),
		}), cancelKeyboard(lang))
	}
}

func (h *BotHandler) nextKinds(p session.Progress) []session.InputKind {
	spec, ok := h.tracker.Spec(p.Feature)
	if !ok || len(spec.Slots) == 0 {
		return nil
	}
	idx := p.Count
	if idx >= len(spec.Slots) {
		idx = len(spec.Slots) - 1
	}
	return spec.Slots[idx]
}

// finalize closes the user's operation and queues it.
func (h *BotHandler) finalize(ctx context.Context, chatID, userID int64, lang string) {
	if h.ops.InFlight(userID) {
		h.send(ctx, chatID, texts.Get(lang, "operation_running"), nil)
		return
	}
	req, err := h.tracker.Finalize(userID)
	if err != nil {
		h.reject(ctx, chatID, lang, err)
		return
	}

	if !h.limiter.Allow(ctx, userID) {
		h.files.Cleanup(req.Paths()...)
		h.send(ctx, chatID, texts.Format(lang, "rate_limited", map[string]string{
			"limit": strconv.Itoa(h.limiter.Limit()),
		}), MainMenu(lang))
		return
	}

	if _, err := h.ops.Submit(ctx, chatID, lang, req); err != nil {
		h.files.Cleanup(req.Paths()...)
		key := "error"
		if errors.Is(err, service.ErrOperationInFlight) {
			key = "operation_running"
		} else {
			h.logger.Error("BotHandler", "Failed to queue operation", map[string]interface{}{
				"user_id": userID,
				"feature": string(req.Feature),
				"error":   err.Error(),
			})
		}
		h.send(ctx, chatID, texts.Get(lang, key), nil)
		return
	}
	h.send(ctx, chatID, texts.Get(lang, "queued"), nil)
}

// reject explains a tracker error to the user.
func (h *BotHandler) reject(ctx context.Context, chatID int64, lang string, err error) {
	h.rejectWithMax(ctx, chatID, lang, err, 0)
}

func (h *BotHandler) rejectWithMax(ctx context.Context, chatID int64, lang string, err error, limit int) {
	text, kb := rejection(lang, err, limit)
	h.send(ctx, chatID, text, kb)
}

// rejection picks the text for err. limit is the input cap of the pending
// feature, when known.
func rejection(lang string, err error, limit int) (string, *models.InlineKeyboardMarkup) {
	var unexpected *session.UnexpectedInputError
	var insufficient *session.InsufficientInputError

	switch {
	case errors.As(err, &unexpected):
		switch unexpected.Reason {
		case session.ReasonNoPendingOperation, session.ReasonNotAwaitingOption:
			return texts.Get(lang, "no_pending_operation"), MainMenu(lang)
		case session.ReasonWrongKind:
			return texts.Format(lang, "wrong_kind", map[string]string{"expected": kindList(lang, unexpected.Expected)}), nil
		case session.ReasonTooManyInputs:
			return texts.Format(lang, "too_many_inputs", map[string]string{"max": strconv.Itoa(limit)}), nil
		case session.ReasonAwaitingOption:
			return texts.Get(lang, "awaiting_option"), nil
		case session.ReasonInvalidOption:
			return texts.Format(lang, "invalid_"+string(unexpected.Option), passwordBounds()), nil
		}
	case errors.As(err, &insufficient):
		if insufficient.MissingOption != session.OptionNone && insufficient.Have >= insufficient.Need {
			return texts.Get(lang, "missing_option"), nil
		}
		if insufficient.Feature == "" {
			return texts.Get(lang, "no_pending_operation"), MainMenu(lang)
		}
		return texts.Format(lang, "insufficient_inputs", map[string]string{
			"need": strconv.Itoa(insufficient.Need),
			"have": strconv.Itoa(insufficient.Have),
		}), nil
	case errors.Is(err, session.ErrUnknownFeature):
		return texts.Get(lang, "coming_soon"), MainMenu(lang)
	}
	return texts.Get(lang, "error"), nil
}

func kindList(lang string, kinds []session.InputKind) string {
	labels := make([]string, 0, len(kinds))
	for _, k := range kinds {
		labels = append(labels, texts.Get(lang, "kind_"+string(k)))
	}
	return strings.Join(labels, texts.Get(lang, "or"))
}

func passwordBounds() map[string]string {
	return map[string]string{
		"min": strconv.Itoa(session.MinPasswordLength),
		"max": strconv.Itoa(session.MaxPasswordLength),
	}
}

func (h *BotHandler) tooLarge(lang string) string {
	return texts.Format(lang, "file_too_large", map[string]string{
		"max_size": strconv.FormatInt(h.cfg.MaxFileSize/(1024*1024), 10),
	})
}
