package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"pdf-toolbox-bot/pkg/session"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

func execCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return withTool(filepath.Base(name), ctx.Err())
		}
		return withTool(filepath.Base(name), fmt.Errorf("%w: %s", err, tail(out.String(), 400)))
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

func (e *Engine) tool(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ToolTimeout)
	defer cancel()
	return e.run(ctx, name, args...)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (e *Engine) officeToPDF(ctx context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	dir, err := e.ws.Mkdir("office")
	if err != nil {
		return res, err
	}
	res.Scratch = append(res.Scratch, dir)

	if err := e.tool(ctx, e.cfg.SofficePath, "--headless", "--convert-to", "pdf", "--outdir", dir, in.Path); err != nil {
		return res, err
	}
	out := filepath.Join(dir, stem(in.Path)+".pdf")
	if _, err := os.Stat(out); err != nil {
		return res, withTool("soffice", ErrNoOutput)
	}
	res.Artifacts = append(res.Artifacts, Artifact{
		Path:        out,
		Name:        stem(in.Name) + ".pdf",
		CaptionKey:  "convert_done",
		CaptionArgs: map[string]string{"size": HumanSize(fileSize(out))},
	})
	return res, nil
}

func (e *Engine) pdfToWord(ctx context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	dir, err := e.ws.Mkdir("docx")
	if err != nil {
		return res, err
	}
	res.Scratch = append(res.Scratch, dir)

	err = e.tool(ctx, e.cfg.SofficePath, "--headless", "--infilter=writer_pdf_import",
		"--convert-to", "docx:MS Word 2007 XML", "--outdir", dir, in.Path)
	if err != nil {
		return res, err
	}
	out := filepath.Join(dir, stem(in.Path)+".docx")
	if _, err := os.Stat(out); err != nil {
		return res, withTool("soffice", ErrNoOutput)
	}
	res.Artifacts = append(res.Artifacts, Artifact{
		Path:        out,
		Name:        stem(in.Name) + ".docx",
		CaptionKey:  "convert_done",
		CaptionArgs: map[string]string{"size": HumanSize(fileSize(out))},
	})
	return res, nil
}

func (e *Engine) htmlToPDF(ctx context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	out := e.ws.Path(stem(in.Name) + ".pdf")

	args := []string{"--quiet", "--encoding", "utf-8", "--enable-local-file-access", in.Path, out}
	if err := e.tool(ctx, e.cfg.WkhtmltopdfPath, args...); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, err
	}
	res.Artifacts = append(res.Artifacts, Artifact{
		Path:        out,
		Name:        stem(in.Name) + ".pdf",
		CaptionKey:  "convert_done",
		CaptionArgs: map[string]string{"size": HumanSize(fileSize(out))},
	})
	return res, nil
}

// rasterize renders pages of a PDF into dir and returns the images in
// page order.
func (e *Engine) rasterize(ctx context.Context, in, dir, format string, dpi int) ([]string, error) {
	flag := "-png"
	if format == "jpeg" {
		flag = "-jpeg"
	}
	prefix := filepath.Join(dir, "page")
	if err := e.tool(ctx, e.cfg.PdftoppmPath, flag, "-r", strconv.Itoa(dpi), in, prefix); err != nil {
		return nil, err
	}
	return listFiles(dir)
}

func (e *Engine) pdfToJPG(ctx context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	dir, err := e.ws.Mkdir("jpg")
	if err != nil {
		return res, err
	}
	res.Scratch = append(res.Scratch, dir)

	pages, err := e.rasterize(ctx, in.Path, dir, "jpeg", e.cfg.JPGDPI)
	if err != nil {
		return res, err
	}
	base := stem(in.Name)
	for i, p := range pages {
		res.Artifacts = append(res.Artifacts, Artifact{
			Path:        p,
			Name:        fmt.Sprintf("%s_page_%d.jpg", base, i+1),
			CaptionKey:  "page_caption",
			CaptionArgs: map[string]string{"page": strconv.Itoa(i + 1), "total": strconv.Itoa(len(pages))},
		})
	}
	return res, nil
}

var ghostscriptSettings = map[string]string{
	"low":    "/printer",
	"medium": "/ebook",
	"high":   "/screen",
}

// ghostscript rewrites in to out; an empty preset keeps quality.
func (e *Engine) ghostscript(ctx context.Context, in, out, preset string) error {
	args := []string{"-sDEVICE=pdfwrite", "-dCompatibilityLevel=1.4", "-dNOPAUSE", "-dQUIET", "-dBATCH"}
	if preset != "" {
		args = append(args, "-dPDFSETTINGS="+preset)
	}
	args = append(args, "-sOutputFile="+out, in)
	return e.tool(ctx, e.cfg.GhostscriptPath, args...)
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, en := range entries {
		if !en.IsDir() {
			out = append(out, filepath.Join(dir, en.Name()))
		}
	}
	sort.Slice(out, func(i, j int) bool { return naturalLess(out[i], out[j]) })
	return out, nil
}

// naturalLess orders "page-2" before "page-10".
func naturalLess(a, b string) bool {
	na, nb := trailingNumber(a), trailingNumber(b)
	if na >= 0 && nb >= 0 && na != nb {
		return na < nb
	}
	return a < b
}

func trailingNumber(path string) int {
	s := stem(path)
	end := len(s)
	start := end
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	if start == end {
		return -1
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return -1
	}
	return n
}
