package handler

import (
	"strings"

	"pdf-toolbox-bot/pkg/session"
)

type callbackKind int

const (
	cbComingSoon callbackKind = iota
	cbLanguage
	cbBackToMenu
	cbCategory
	cbFeature
	cbFinalize
	cbSubscribe
	cbUnsubscribe
)

// Callback data values shared by keyboards and the parser.
const (
	dataBackToMenu        = "back_to_menu"
	dataDoMerge           = "do_merge"
	dataCreatePDF         = "create_pdf_from_images"
	dataSubscribeComing   = "subscribe_coming"
	dataUnsubscribeComing = "unsubscribe_coming"
	prefixLanguage        = "lang_"
	prefixCategory        = "menu_"
)

// imageAliases are older menu entries that all start images_to_pdf.
var imageAliases = map[string]bool{
	"jpg_to_pdf": true,
	"png_to_pdf": true,
	"convert":    true,
}

// callback is the parsed form of an inline button's data.
type callback struct {
	kind     callbackKind
	language string
	category session.Category
	feature  session.Feature
	// name is the raw data of anything not recognized.
	name string
}

func parseCallback(data string) callback {
	data = strings.TrimSpace(data)
	switch {
	case data == dataBackToMenu:
		return callback{kind: cbBackToMenu}
	case data == dataDoMerge, data == dataCreatePDF:
		return callback{kind: cbFinalize}
	case data == dataSubscribeComing:
		return callback{kind: cbSubscribe}
	case data == dataUnsubscribeComing:
		return callback{kind: cbUnsubscribe}
	case strings.HasPrefix(data, prefixLanguage):
		return callback{kind: cbLanguage, language: strings.TrimPrefix(data, prefixLanguage)}
	case strings.HasPrefix(data, prefixCategory):
		c := session.Category(strings.TrimPrefix(data, prefixCategory))
		for _, known := range session.Categories() {
			if c == known {
				return callback{kind: cbCategory, category: c}
			}
		}
	case imageAliases[data]:
		return callback{kind: cbFeature, feature: session.FeatureImagesToPDF}
	}
	if f, ok := session.ParseFeature(data); ok {
		return callback{kind: cbFeature, feature: f}
	}
	return callback{kind: cbComingSoon, name: data}
}
