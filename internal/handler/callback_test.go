package handler

import (
	"errors"
	"testing"

	"pdf-toolbox-bot/internal/texts"
	"pdf-toolbox-bot/pkg/session"

	"github.com/stretchr/testify/assert"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want callback
	}{
		{"lang_fa", callback{kind: cbLanguage, language: "fa"}},
		{"back_to_menu", callback{kind: cbBackToMenu}},
		{"menu_convert", callback{kind: cbCategory, category: session.CategoryConvert}},
		{"menu_nowhere", callback{kind: cbComingSoon, name: "menu_nowhere"}},
		{"compress", callback{kind: cbFeature, feature: session.FeatureCompress}},
		{"jpg_to_pdf", callback{kind: cbFeature, feature: session.FeatureImagesToPDF}},
		{"convert", callback{kind: cbFeature, feature: session.FeatureImagesToPDF}},
		{"do_merge", callback{kind: cbFinalize}},
		{"create_pdf_from_images", callback{kind: cbFinalize}},
		{"subscribe_coming", callback{kind: cbSubscribe}},
		{"unsubscribe_coming", callback{kind: cbUnsubscribe}},
		{"sign", callback{kind: cbComingSoon, name: "sign"}},
		{"", callback{kind: cbComingSoon}},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCallback(tt.data))
		})
	}
}

func TestEveryFeatureIsReachableFromAMenu(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range session.Categories() {
		for _, row := range categoryKeyboard("en", c, nil).InlineKeyboard {
			for _, b := range row {
				seen[b.CallbackData] = true
			}
		}
	}
	for _, f := range session.Features() {
		assert.True(t, seen[string(f)], "feature %s missing from menus", f)
		assert.Equal(t, cbFeature, parseCallback(string(f)).kind)
	}
}

func TestRejectionTexts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "idle upload",
			err:  &session.UnexpectedInputError{State: session.StateIdle, Reason: session.ReasonNoPendingOperation},
			want: texts.Get("en", "no_pending_operation"),
		},
		{
			name: "wrong kind",
			err: &session.UnexpectedInputError{
				Reason:   session.ReasonWrongKind,
				Expected: []session.InputKind{session.KindPDF, session.KindImage},
			},
			want: "❌ I need a PDF or image here.",
		},
		{
			name: "too many",
			err:  &session.UnexpectedInputError{Reason: session.ReasonTooManyInputs},
			want: "❌ That's the maximum of 20 files. Press the button to continue.",
		},
		{
			name: "missing option",
			err:  &session.InsufficientInputError{Feature: session.FeatureRotate, Have: 1, Need: 1, MissingOption: session.OptionAngle},
			want: texts.Get("en", "missing_option"),
		},
		{
			name: "bad new password",
			err:  &session.UnexpectedInputError{Reason: session.ReasonInvalidOption, Option: session.OptionNewPassword},
			want: "❌ The password must be 6 to 128 characters long.",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: texts.Get("en", "error"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := rejection("en", tt.err, 20)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `@pdf\_bot\_support`, escapeMarkdown("@pdf_bot_support"))
}
