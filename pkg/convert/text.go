package convert

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pdf-toolbox-bot/pkg/session"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

const (
	ocrDPI         = 300
	ocrConcurrency = 2
	pageSeparator  = "\n\n---\n\n"
)

// plainText reads the embedded text layer page by page.
func plainText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", withTool("pdf", fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", withTool("pdf", fmt.Errorf("page %d: %w", i, err))
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, pageSeparator), nil
}

// textResult sends short text inline and longer text as a .txt file.
func (e *Engine) textResult(text, baseName, key string) (*Result, error) {
	res := &Result{}
	if text == "" {
		return res, ErrNoText
	}
	chars := strconv.Itoa(len([]rune(text)))
	if len([]rune(text)) <= e.cfg.InlineTextLimit {
		res.Text = text
		return res, nil
	}
	name := baseName + ".txt"
	out := e.ws.Path(name)
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return res, err
	}
	res.Artifacts = append(res.Artifacts, Artifact{
		Path:        out,
		Name:        name,
		CaptionKey:  key,
		CaptionArgs: map[string]string{"chars": chars},
	})
	return res, nil
}

func (e *Engine) extractText(_ context.Context, req session.OperationRequest) (*Result, error) {
	in := req.Inputs[0]
	text, err := plainText(in.Path)
	if err != nil {
		return nil, err
	}
	return e.textResult(text, stem(in.Name)+"_text", "text_done")
}

func (e *Engine) recognize(ctx context.Context, req session.OperationRequest) (*Result, error) {
	if e.ocr == nil {
		return nil, ErrOCRUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OCRTimeout)
	defer cancel()

	in := req.Inputs[0]
	langs := strings.Split(e.cfg.OCRLanguage, "+")

	var images []string
	var scratch []string
	defer func() { removeAll(scratch) }()

	if in.Kind == session.KindPDF {
		dir, err := e.ws.Mkdir("ocr")
		if err != nil {
			return nil, err
		}
		scratch = append(scratch, dir)
		images, err = e.rasterize(ctx, in.Path, dir, "png", ocrDPI)
		if err != nil {
			return nil, err
		}
	} else {
		img, err := e.prepareImage(in.Path)
		if err != nil {
			return nil, err
		}
		if img != in.Path {
			scratch = append(scratch, img)
		}
		images = []string{img}
	}

	pages := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ocrConcurrency)
	for i, path := range images {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text, err := e.ocr.Recognize(gctx, data, langs...)
			if err != nil {
				return withTool("tesseract", fmt.Errorf("page %d: %w", i+1, err))
			}
			pages[i] = strings.TrimSpace(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var parts []string
	for _, p := range pages {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return e.textResult(strings.Join(parts, pageSeparator), stem(in.Name)+"_ocr", "ocr_done")
}
