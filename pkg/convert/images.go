package convert

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "image/gif"

	"pdf-toolbox-bot/pkg/session"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImageSide bounds the longer edge of images placed into PDFs.
const MaxImageSide = 4000

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// prepareImage returns a JPEG or PNG no larger than MaxImageSide. Files
// already in that shape are returned unchanged.
func (e *Engine) prepareImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	cfg, format, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	fits := cfg.Width <= MaxImageSide && cfg.Height <= MaxImageSide
	if fits && (format == "jpeg" || format == "png") {
		return path, nil
	}

	f, err = os.Open(path)
	if err != nil {
		return "", err
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	img := downscale(src, MaxImageSide)

	lossless := format == "png" || format == "gif"
	ext := ".jpg"
	if lossless {
		ext = ".png"
	}
	out := e.ws.Path(stem(path) + ext)
	w, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if lossless {
		err = png.Encode(w, img)
	} else {
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out)
		return "", err
	}
	return out, nil
}

// downscale shrinks img so its longer side is at most limit.
func downscale(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}
	nw, nh := limit, h*limit/w
	if h > w {
		nw, nh = w*limit/h, limit
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func (e *Engine) imagesToPDF(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	prepared := make([]string, 0, len(req.Inputs))
	for _, in := range req.Inputs {
		p, err := e.prepareImage(in.Path)
		if err != nil {
			return res, err
		}
		if p != in.Path {
			res.Scratch = append(res.Scratch, p)
		}
		prepared = append(prepared, p)
	}

	name := "images.pdf"
	if len(req.Inputs) == 1 {
		name = stem(req.Inputs[0].Name) + ".pdf"
	}
	out := e.ws.Path(name)
	if err := api.ImportImagesFile(prepared, out, pdfcpu.DefaultImportConfig(), pdfConf()); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	pages, err := api.PageCountFile(out)
	if err != nil {
		pages = len(prepared)
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "images_to_pdf_done", map[string]string{
		"images": strconv.Itoa(len(prepared)),
		"pages":  strconv.Itoa(pages),
	}))
	return res, nil
}
