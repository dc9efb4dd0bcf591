package convert

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pdf-toolbox-bot/pkg/pagespec"
	"pdf-toolbox-bot/pkg/session"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	pageNumberText = "%p / %P"
	pageNumberDesc = "font:Helvetica, points:10, pos:bc, offset:0 12, scale:1.0 abs, rot:0, fillc:#333333"
	watermarkDesc  = "pos:c, scale:0.5 rel, rot:0, op:0.3"
	aesKeyLength   = 256
)

func pdfcpuErr(err error) error { return withTool("pdfcpu", err) }

func (e *Engine) pdfArtifact(path, name, key string, args map[string]string) Artifact {
	if args == nil {
		args = map[string]string{}
	}
	if _, ok := args["size"]; !ok {
		args["size"] = HumanSize(fileSize(path))
	}
	return Artifact{Path: path, Name: name, CaptionKey: key, CaptionArgs: args}
}

func (e *Engine) merge(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	out := e.ws.Path("merged.pdf")
	if err := api.MergeCreateFile(req.Paths(), out, false, pdfConf()); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	pages, err := api.PageCountFile(out)
	if err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, "merged.pdf", "merge_done", map[string]string{
		"files": strconv.Itoa(len(req.Inputs)),
		"pages": strconv.Itoa(pages),
	}))
	return res, nil
}

func (e *Engine) split(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	total, err := api.PageCountFile(in.Path)
	if err != nil {
		return res, pdfcpuErr(err)
	}
	groups, err := pagespec.ParseSplit(req.Option(session.OptionSplitMode), total)
	if err != nil {
		return res, err
	}
	base := stem(in.Name)
	for i, g := range groups {
		name := fmt.Sprintf("%s_part_%d.pdf", base, i+1)
		out := e.ws.Path(name)
		if err := api.TrimFile(in.Path, out, pagespec.Selection(g), pdfConf()); err != nil {
			res.Scratch = append(res.Scratch, out)
			return res, pdfcpuErr(err)
		}
		res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "split_part", map[string]string{
			"part":  strconv.Itoa(i + 1),
			"parts": strconv.Itoa(len(groups)),
			"from":  strconv.Itoa(g[0]),
			"to":    strconv.Itoa(g[len(g)-1]),
		}))
	}
	return res, nil
}

func (e *Engine) extractPages(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	total, err := api.PageCountFile(in.Path)
	if err != nil {
		return res, pdfcpuErr(err)
	}
	pages, err := pagespec.Parse(req.Option(session.OptionPageSpec), total)
	if err != nil {
		return res, err
	}
	name := stem(in.Name) + "_extracted.pdf"
	out := e.ws.Path(name)
	if err := api.TrimFile(in.Path, out, pagespec.Selection(pages), pdfConf()); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "extract_pages_done", map[string]string{
		"pages": strconv.Itoa(len(pages)),
	}))
	return res, nil
}

func (e *Engine) removePages(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	total, err := api.PageCountFile(in.Path)
	if err != nil {
		return res, pdfcpuErr(err)
	}
	pages, err := pagespec.Parse(req.Option(session.OptionPageSpec), total)
	if err != nil {
		return res, err
	}
	if len(pages) >= total {
		return res, ErrAllPages
	}
	name := stem(in.Name) + "_edited.pdf"
	out := e.ws.Path(name)
	if err := api.RemovePagesFile(in.Path, out, pagespec.Selection(pages), pdfConf()); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "remove_pages_done", map[string]string{
		"removed":   strconv.Itoa(len(pages)),
		"remaining": strconv.Itoa(total - len(pages)),
	}))
	return res, nil
}

func (e *Engine) extractImages(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	dir, err := e.ws.Mkdir("images")
	if err != nil {
		return res, err
	}
	res.Scratch = append(res.Scratch, dir)
	if err := api.ExtractImagesFile(in.Path, dir, nil, pdfConf()); err != nil {
		return res, pdfcpuErr(err)
	}
	files, err := listFiles(dir)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		return res, ErrNoImages
	}
	for i, f := range files {
		res.Artifacts = append(res.Artifacts, Artifact{
			Path:        f,
			Name:        fmt.Sprintf("%s_image_%d%s", stem(in.Name), i+1, extOf(f)),
			CaptionKey:  "image_caption",
			CaptionArgs: map[string]string{"index": strconv.Itoa(i + 1), "total": strconv.Itoa(len(files))},
		})
	}
	return res, nil
}

// compress prefers ghostscript presets and falls back to pdfcpu's
// optimizer.
func (e *Engine) compress(ctx context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	level := req.Option(session.OptionCompressionLevel)
	preset, ok := ghostscriptSettings[level]
	if !ok {
		preset = ghostscriptSettings["medium"]
	}
	name := stem(in.Name) + "_compressed.pdf"
	out := e.ws.Path(name)
	if err := e.ghostscript(ctx, in.Path, out, preset); err != nil {
		if err := api.OptimizeFile(in.Path, out, pdfConf()); err != nil {
			res.Scratch = append(res.Scratch, out)
			return res, pdfcpuErr(err)
		}
	}

	original := fileSize(in.Path)
	compressed := fileSize(out)
	saved := 0.0
	if original > 0 && compressed < original {
		saved = float64(original-compressed) / float64(original) * 100
	}
	key := "compress_done"
	if compressed >= original {
		key = "compress_no_gain"
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, key, map[string]string{
		"original":   HumanSize(original),
		"compressed": HumanSize(compressed),
		"saved":      fmt.Sprintf("%.1f", saved),
		"level":      level,
	}))
	return res, nil
}

// repair re-parses the file leniently and writes a clean copy, with a
// ghostscript rewrite as the last resort.
func (e *Engine) repair(ctx context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	name := stem(in.Name) + "_repaired.pdf"
	out := e.ws.Path(name)

	conf := pdfConf()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.OptimizeFile(in.Path, out, conf); err != nil {
		if gsErr := e.ghostscript(ctx, in.Path, out, ""); gsErr != nil {
			res.Scratch = append(res.Scratch, out)
			return res, pdfcpuErr(fmt.Errorf("%v; ghostscript: %w", err, gsErr))
		}
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "repair_done", nil))
	return res, nil
}

func (e *Engine) rotate(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	angle, err := strconv.Atoi(req.Option(session.OptionAngle))
	if err != nil {
		return res, fmt.Errorf("%w: %v", session.ErrInvalidOption, err)
	}
	name := stem(in.Name) + "_rotated.pdf"
	out := e.ws.Path(name)
	if err := api.RotateFile(in.Path, out, angle, nil, pdfConf()); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "rotate_done", map[string]string{
		"angle": strconv.Itoa(angle),
	}))
	return res, nil
}

func (e *Engine) addPageNumbers(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	name := stem(in.Name) + "_numbered.pdf"
	out := e.ws.Path(name)
	if err := api.AddTextWatermarksFile(in.Path, out, nil, true, pageNumberText, pageNumberDesc, pdfConf()); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "page_numbers_done", nil))
	return res, nil
}

func (e *Engine) watermark(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	if len(req.Inputs) < 2 {
		return res, ErrMissingInput
	}
	doc, stamp := req.Inputs[0], req.Inputs[1]
	img, err := e.prepareImage(stamp.Path)
	if err != nil {
		return res, err
	}
	if img != stamp.Path {
		res.Scratch = append(res.Scratch, img)
	}
	name := stem(doc.Name) + "_watermarked.pdf"
	out := e.ws.Path(name)
	if err := api.AddImageWatermarksFile(doc.Path, out, nil, false, img, watermarkDesc, pdfConf()); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "watermark_done", nil))
	return res, nil
}

func (e *Engine) unlock(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	pw := req.Option(session.OptionPassword)
	conf := pdfConf()
	conf.UserPW = pw
	conf.OwnerPW = pw
	name := stem(in.Name) + "_unlocked.pdf"
	out := e.ws.Path(name)
	if err := api.DecryptFile(in.Path, out, conf); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(classifyDecrypt(err))
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "unlock_done", nil))
	return res, nil
}

func (e *Engine) protect(_ context.Context, req session.OperationRequest) (*Result, error) {
	res := &Result{}
	in := req.Inputs[0]
	pw := req.Option(session.OptionNewPassword)
	conf := model.NewAESConfiguration(pw, pw, aesKeyLength)
	name := stem(in.Name) + "_protected.pdf"
	out := e.ws.Path(name)
	if err := api.EncryptFile(in.Path, out, conf); err != nil {
		res.Scratch = append(res.Scratch, out)
		return res, pdfcpuErr(err)
	}
	res.Artifacts = append(res.Artifacts, e.pdfArtifact(out, name, "protect_done", nil))
	return res, nil
}

// classifyDecrypt maps pdfcpu's decrypt failures onto sentinel errors.
func classifyDecrypt(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not encrypted"):
		return fmt.Errorf("%w: %v", ErrNotEncrypted, err)
	case strings.Contains(msg, "password"):
		return fmt.Errorf("%w: %v", ErrWrongPassword, err)
	}
	return err
}
