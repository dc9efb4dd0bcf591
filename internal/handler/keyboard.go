package handler

import (
	"strconv"

	"pdf-toolbox-bot/internal/texts"
	"pdf-toolbox-bot/pkg/session"

	"github.com/go-telegram/bot/models"
)

// comingSoonCategory places announced features in their future menu.
var comingSoonCategory = map[string]session.Category{
	"sign":    session.CategorySecurity,
	"redact":  session.CategorySecurity,
	"compare": session.CategoryOrganize,
	"crop":    session.CategoryEdit,
}

func button(text, data string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: data}
}

func LanguageKeyboard() *models.InlineKeyboardMarkup {
	row := []models.InlineKeyboardButton{}
	for _, lang := range texts.Languages() {
		row = append(row, button(texts.LanguageName(lang), prefixLanguage+lang))
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{row}}
}

// MainMenu lists the tool categories, one per row.
func MainMenu(lang string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(session.Categories()))
	for _, c := range session.Categories() {
		rows = append(rows, []models.InlineKeyboardButton{
			button(texts.Get(lang, "category_"+string(c)), prefixCategory+string(c)),
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// categoryKeyboard lists the features of c two per row, followed by
// announced ones and a back button.
func categoryKeyboard(lang string, c session.Category, comingSoon []string) *models.InlineKeyboardMarkup {
	var buttons []models.InlineKeyboardButton
	for _, f := range session.FeaturesIn(c) {
		buttons = append(buttons, button(texts.Get(lang, "feature_"+string(f)), string(f)))
	}
	for _, name := range comingSoon {
		if comingSoonCategory[name] == c {
			buttons = append(buttons, button(texts.Get(lang, "feature_"+name), name))
		}
	}

	var rows [][]models.InlineKeyboardButton
	for i := 0; i < len(buttons); i += 2 {
		end := i + 2
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	rows = append(rows, []models.InlineKeyboardButton{button(texts.Get(lang, "back"), dataBackToMenu)})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func cancelKeyboard(lang string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{button(texts.Get(lang, "cancel"), dataBackToMenu)},
	}}
}

// finalizeKeyboard offers the "done" button of a multi-input feature.
func finalizeKeyboard(lang string, f session.Feature, count int) *models.InlineKeyboardMarkup {
	args := map[string]string{"count": strconv.Itoa(count)}
	var done models.InlineKeyboardButton
	switch f {
	case session.FeatureImagesToPDF:
		done = button(texts.Format(lang, "create_pdf", args), dataCreatePDF)
	default:
		done = button(texts.Format(lang, "merge_now", args), dataDoMerge)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{done},
		{button(texts.Get(lang, "cancel"), dataBackToMenu)},
	}}
}

func comingSoonKeyboard(lang string, subscribed bool) *models.InlineKeyboardMarkup {
	toggle := button(texts.Get(lang, "notify_me"), dataSubscribeComing)
	if subscribed {
		toggle = button(texts.Get(lang, "no_thanks"), dataUnsubscribeComing)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{toggle},
		{button(texts.Get(lang, "back"), dataBackToMenu)},
	}}
}
