package session

import (
	"path/filepath"
	"strings"
)

// Feature identifies one PDF operation the bot can run.
type Feature string

const (
	FeatureMerge         Feature = "merge"
	FeatureSplit         Feature = "split"
	FeatureExtractPages  Feature = "extract_pages"
	FeatureRemovePages   Feature = "remove_pages"
	FeatureExtractImages Feature = "extract_images"
	FeatureExtractText   Feature = "extract_text"

	FeatureCompress Feature = "compress"
	FeatureRepair   Feature = "repair"
	FeatureOCR      Feature = "ocr"

	FeatureImagesToPDF     Feature = "images_to_pdf"
	FeatureWordToPDF       Feature = "word_to_pdf"
	FeatureExcelToPDF      Feature = "excel_to_pdf"
	FeaturePowerPointToPDF Feature = "powerpoint_to_pdf"
	FeatureHTMLToPDF       Feature = "html_to_pdf"
	FeaturePDFToJPG        Feature = "pdf_to_jpg"
	FeaturePDFToWord       Feature = "pdf_to_word"

	FeatureRotate         Feature = "rotate"
	FeatureAddPageNumbers Feature = "add_page_numbers"
	FeatureWatermark      Feature = "watermark"

	FeatureUnlock  Feature = "unlock"
	FeatureProtect Feature = "protect"
)

// Category groups features under one menu.
type Category string

const (
	CategoryOrganize Category = "organize"
	CategoryOptimize Category = "optimize"
	CategoryConvert  Category = "convert"
	CategoryEdit     Category = "edit"
	CategorySecurity Category = "security"
)

// Categories returns menu categories in display order.
func Categories() []Category {
	return []Category{CategoryOrganize, CategoryOptimize, CategoryConvert, CategoryEdit, CategorySecurity}
}

// InputKind classifies an uploaded file.
type InputKind string

const (
	KindPDF          InputKind = "pdf"
	KindImage        InputKind = "image"
	KindDocument     InputKind = "document"
	KindSpreadsheet  InputKind = "spreadsheet"
	KindPresentation InputKind = "presentation"
	KindHTML         InputKind = "html"
	KindUnknown      InputKind = "unknown"
)

var kindByExtension = map[string]InputKind{
	"pdf":  KindPDF,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"png":  KindImage,
	"webp": KindImage,
	"bmp":  KindImage,
	"tif":  KindImage,
	"tiff": KindImage,
	"gif":  KindImage,
	"docx": KindDocument,
	"doc":  KindDocument,
	"txt":  KindDocument,
	"rtf":  KindDocument,
	"odt":  KindDocument,
	"xlsx": KindSpreadsheet,
	"xls":  KindSpreadsheet,
	"csv":  KindSpreadsheet,
	"ods":  KindSpreadsheet,
	"pptx": KindPresentation,
	"ppt":  KindPresentation,
	"odp":  KindPresentation,
	"html": KindHTML,
	"htm":  KindHTML,
}

// DetectKind classifies a file by extension, falling back to the MIME type.
func DetectKind(name, mimeType string) InputKind {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if kind, ok := kindByExtension[ext]; ok {
		return kind
	}
	mimeType = strings.ToLower(mimeType)
	switch {
	case mimeType == "application/pdf":
		return KindPDF
	case strings.HasPrefix(mimeType, "image/"):
		return KindImage
	case mimeType == "text/html":
		return KindHTML
	}
	return KindUnknown
}

// OptionKind names the single user-chosen parameter a feature needs
// after its inputs are collected.
type OptionKind string

const (
	OptionNone             OptionKind = ""
	OptionPageSpec         OptionKind = "page_spec"
	OptionSplitMode        OptionKind = "split_mode"
	OptionCompressionLevel OptionKind = "compression_level"
	OptionAngle            OptionKind = "angle"
	OptionPassword         OptionKind = "password"
	OptionNewPassword      OptionKind = "new_password"
)

// FeatureSpec is the static description of how a feature collects input.
//
// Slots lists the accepted kinds per input position; positions past the
// end reuse the last slot, so a single slot describes a repeated input.
type FeatureSpec struct {
	Feature   Feature
	Category  Category
	Slots     [][]InputKind
	MinInputs int
	MaxInputs int
	Option    OptionKind
}

// Accepts reports whether an input of the given kind may fill position index.
func (s FeatureSpec) Accepts(index int, kind InputKind) bool {
	if len(s.Slots) == 0 {
		return false
	}
	if index >= len(s.Slots) {
		index = len(s.Slots) - 1
	}
	for _, k := range s.Slots[index] {
		if k == kind {
			return true
		}
	}
	return false
}

// AutoFinalize reports whether the feature completes without a "done" press.
func (s FeatureSpec) AutoFinalize() bool {
	return s.MinInputs == s.MaxInputs
}

var (
	pdfOnly   = [][]InputKind{{KindPDF}}
	imageOnly = [][]InputKind{{KindImage}}
)

var defaultSpecs = []FeatureSpec{
	{Feature: FeatureMerge, Category: CategoryOrganize, Slots: pdfOnly, MinInputs: 2, MaxInputs: 20},
	{Feature: FeatureSplit, Category: CategoryOrganize, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1, Option: OptionSplitMode},
	{Feature: FeatureExtractPages, Category: CategoryOrganize, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1, Option: OptionPageSpec},
	{Feature: FeatureRemovePages, Category: CategoryOrganize, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1, Option: OptionPageSpec},
	{Feature: FeatureExtractImages, Category: CategoryOrganize, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1},
	{Feature: FeatureExtractText, Category: CategoryOrganize, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1},

	{Feature: FeatureCompress, Category: CategoryOptimize, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1, Option: OptionCompressionLevel},
	{Feature: FeatureRepair, Category: CategoryOptimize, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1},
	{Feature: FeatureOCR, Category: CategoryOptimize, Slots: [][]InputKind{{KindPDF, KindImage}}, MinInputs: 1, MaxInputs: 1},

	{Feature: FeatureImagesToPDF, Category: CategoryConvert, Slots: imageOnly, MinInputs: 1, MaxInputs: 100},
	{Feature: FeaturePDFToJPG, Category: CategoryConvert, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1},
	{Feature: FeatureWordToPDF, Category: CategoryConvert, Slots: [][]InputKind{{KindDocument}}, MinInputs: 1, MaxInputs: 1},
	{Feature: FeaturePDFToWord, Category: CategoryConvert, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1},
	{Feature: FeatureExcelToPDF, Category: CategoryConvert, Slots: [][]InputKind{{KindSpreadsheet}}, MinInputs: 1, MaxInputs: 1},
	{Feature: FeaturePowerPointToPDF, Category: CategoryConvert, Slots: [][]InputKind{{KindPresentation}}, MinInputs: 1, MaxInputs: 1},
	{Feature: FeatureHTMLToPDF, Category: CategoryConvert, Slots: [][]InputKind{{KindHTML}}, MinInputs: 1, MaxInputs: 1},

	{Feature: FeatureRotate, Category: CategoryEdit, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1, Option: OptionAngle},
	{Feature: FeatureAddPageNumbers, Category: CategoryEdit, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1},
	{Feature: FeatureWatermark, Category: CategoryEdit, Slots: [][]InputKind{{KindPDF}, {KindImage}}, MinInputs: 2, MaxInputs: 2},

	{Feature: FeatureUnlock, Category: CategorySecurity, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1, Option: OptionPassword},
	{Feature: FeatureProtect, Category: CategorySecurity, Slots: pdfOnly, MinInputs: 1, MaxInputs: 1, Option: OptionNewPassword},
}

// Features returns every known feature in menu order.
func Features() []Feature {
	out := make([]Feature, 0, len(defaultSpecs))
	for _, s := range defaultSpecs {
		out = append(out, s.Feature)
	}
	return out
}

// DefaultSpecs returns a fresh copy of the built-in feature table.
func DefaultSpecs() map[Feature]FeatureSpec {
	out := make(map[Feature]FeatureSpec, len(defaultSpecs))
	for _, s := range defaultSpecs {
		out[s.Feature] = s
	}
	return out
}

// LookupSpec returns the built-in spec for f.
func LookupSpec(f Feature) (FeatureSpec, bool) {
	for _, s := range defaultSpecs {
		if s.Feature == f {
			return s, true
		}
	}
	return FeatureSpec{}, false
}

// ParseFeature maps a raw identifier to a known feature.
func ParseFeature(raw string) (Feature, bool) {
	f := Feature(strings.TrimSpace(raw))
	_, ok := LookupSpec(f)
	return f, ok
}

// FeaturesIn returns the features of one category in menu order.
func FeaturesIn(c Category) []Feature {
	var out []Feature
	for _, s := range defaultSpecs {
		if s.Category == c {
			out = append(out, s.Feature)
		}
	}
	return out
}
