// Package convert runs finalized operation requests through pdfcpu,
// ledongthuc/pdf, an OCR engine and external binaries.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"pdf-toolbox-bot/pkg/session"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Workspace hands out scratch paths for outputs.
type Workspace interface {
	Path(name string) string
	Mkdir(prefix string) (string, error)
}

// Recognizer extracts text from one image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, languages ...string) (string, error)
}

type Config struct {
	OCRLanguage     string
	OCRTimeout      time.Duration
	ToolTimeout     time.Duration
	SofficePath     string
	WkhtmltopdfPath string
	PdftoppmPath    string
	GhostscriptPath string
	JPGDPI          int
	// InlineTextLimit is the longest extracted text sent as a message
	// instead of a .txt file.
	InlineTextLimit int
}

// Artifact is one produced file. CaptionKey names a localized text whose
// placeholders are filled from CaptionArgs.
type Artifact struct {
	Path        string
	Name        string
	CaptionKey  string
	CaptionArgs map[string]string
}

type Result struct {
	Feature   session.Feature
	Artifacts []Artifact
	// Text is sent as a message when set.
	Text string
	// Scratch lists directories created for the run.
	Scratch []string
}

// Paths returns every path the result owns on disk.
func (r *Result) Paths() []string {
	if r == nil {
		return nil
	}
	out := append([]string(nil), r.Scratch...)
	for _, a := range r.Artifacts {
		out = append(out, a.Path)
	}
	return out
}

type runFunc func(ctx context.Context, req session.OperationRequest) (*Result, error)

type Engine struct {
	cfg    Config
	ws     Workspace
	ocr    Recognizer
	run    commandRunner
	tracer trace.Tracer
}

func NewEngine(cfg Config, ws Workspace, ocr Recognizer) *Engine {
	api.DisableConfigDir()
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = 3 * time.Minute
	}
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 5 * time.Minute
	}
	if cfg.JPGDPI <= 0 {
		cfg.JPGDPI = 150
	}
	if cfg.InlineTextLimit <= 0 {
		cfg.InlineTextLimit = 3500
	}
	if cfg.OCRLanguage == "" {
		cfg.OCRLanguage = "eng"
	}
	for path, name := range map[*string]string{
		&cfg.SofficePath:     "soffice",
		&cfg.WkhtmltopdfPath: "wkhtmltopdf",
		&cfg.PdftoppmPath:    "pdftoppm",
		&cfg.GhostscriptPath: "gs",
	} {
		if *path == "" {
			*path = name
		}
	}
	return &Engine{
		cfg:    cfg,
		ws:     ws,
		ocr:    ocr,
		run:    execCommand,
		tracer: otel.Tracer("convert"),
	}
}

func pdfConf() *model.Configuration {
	return model.NewDefaultConfiguration()
}

// route returns the implementation of f.
func (e *Engine) route(f session.Feature) (runFunc, bool) {
	switch f {
	case session.FeatureMerge:
		return e.merge, true
	case session.FeatureSplit:
		return e.split, true
	case session.FeatureExtractPages:
		return e.extractPages, true
	case session.FeatureRemovePages:
		return e.removePages, true
	case session.FeatureExtractImages:
		return e.extractImages, true
	case session.FeatureExtractText:
		return e.extractText, true
	case session.FeatureCompress:
		return e.compress, true
	case session.FeatureRepair:
		return e.repair, true
	case session.FeatureOCR:
		return e.recognize, true
	case session.FeatureImagesToPDF:
		return e.imagesToPDF, true
	case session.FeatureWordToPDF, session.FeatureExcelToPDF, session.FeaturePowerPointToPDF:
		return e.officeToPDF, true
	case session.FeatureHTMLToPDF:
		return e.htmlToPDF, true
	case session.FeaturePDFToJPG:
		return e.pdfToJPG, true
	case session.FeaturePDFToWord:
		return e.pdfToWord, true
	case session.FeatureRotate:
		return e.rotate, true
	case session.FeatureAddPageNumbers:
		return e.addPageNumbers, true
	case session.FeatureWatermark:
		return e.watermark, true
	case session.FeatureUnlock:
		return e.unlock, true
	case session.FeatureProtect:
		return e.protect, true
	}
	return nil, false
}

// Run executes req. Any failure comes back as *ExternalConversionError;
// partial outputs are removed first.
func (e *Engine) Run(ctx context.Context, req session.OperationRequest) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "convert."+string(req.Feature),
		trace.WithAttributes(
			attribute.String("feature", string(req.Feature)),
			attribute.Int("inputs", len(req.Inputs)),
		))
	defer span.End()

	fn, ok := e.route(req.Feature)
	if !ok {
		return nil, &ExternalConversionError{Feature: req.Feature, Cause: ErrNoRoute}
	}
	if len(req.Inputs) == 0 {
		return nil, &ExternalConversionError{Feature: req.Feature, Cause: ErrMissingInput}
	}

	res, err := fn(ctx, req)
	if err == nil && (res == nil || (len(res.Artifacts) == 0 && res.Text == "")) {
		err = ErrNoOutput
	}
	if err != nil {
		removeAll(res.Paths())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		convErr := &ExternalConversionError{Feature: req.Feature, Cause: err}
		var te *toolError
		if errors.As(err, &te) {
			convErr.Tool = te.tool
		}
		return nil, convErr
	}
	res.Feature = req.Feature
	span.SetAttributes(attribute.Int("artifacts", len(res.Artifacts)))
	return res, nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		if p != "" {
			os.RemoveAll(p)
		}
	}
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// HumanSize formats a byte count like "1.4 MB".
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
