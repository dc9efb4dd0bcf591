// Package messenger is the bot's outbound side, kept behind an interface so
// handlers and workers can be exercised without Telegram.
package messenger

import (
	"context"
	"fmt"
	"os"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type Messenger interface {
	// Send delivers Markdown text with an optional inline keyboard.
	Send(ctx context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) error
	// SendPlain delivers text without any parse mode.
	SendPlain(ctx context.Context, chatID int64, text string) error
	Edit(ctx context.Context, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	SendDocument(ctx context.Context, chatID int64, path, name, caption string) error
	Typing(ctx context.Context, chatID int64)
	// FileURL resolves a file id to a download URL.
	FileURL(ctx context.Context, fileID string) (string, error)
}

type Telegram struct {
	b *bot.Bot
}

func NewTelegram(b *bot.Bot) *Telegram {
	return &Telegram{b: b}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, text string, kb *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	_, err := t.b.SendMessage(ctx, params)
	return err
}

func (t *Telegram) SendPlain(ctx context.Context, chatID int64, text string) error {
	_, err := t.b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	return err
}

func (t *Telegram) Edit(ctx context.Context, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	_, err := t.b.EditMessageText(ctx, params)
	return err
}

func (t *Telegram) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := t.b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return err
}

func (t *Telegram) SendDocument(ctx context.Context, chatID int64, path, name, caption string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	_, err = t.b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:    chatID,
		Document:  &models.InputFileUpload{Filename: name, Data: f},
		Caption:   caption,
		ParseMode: models.ParseModeMarkdownV1,
	})
	return err
}

func (t *Telegram) Typing(ctx context.Context, chatID int64) {
	_, _ = t.b.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionUploadDocument,
	})
}

func (t *Telegram) FileURL(ctx context.Context, fileID string) (string, error) {
	f, err := t.b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}
	return t.b.FileDownloadLink(f), nil
}
