package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invozen/invoice-extractor/constants"
)

// resolveImage preprocesses the image (grayscale + fixed contrast boost) and
// runs OCR once with the configured language. No retry, no adaptive
// thresholding, no skew correction: an unreadable image resolves to empty
// text and the caller flags the document instead.
func (r *Resolver) resolveImage(ctx context.Context, path string) Result {
	res := Result{SourceType: constants.IMAGE, Pages: 1, Method: MethodImageOCR, Language: r.cfg.TesseractLang}

	tmpDir, err := os.MkdirTemp("", "ivx-pre-*")
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		return res
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			r.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	pre := filepath.Join(tmpDir, "input.png")
	if err := PreprocessImage(path, pre, r.cfg.ContrastFactor); err != nil {
		r.logger.Warn("image preprocessing failed", "path", path, "error", err)
		res.Warnings = append(res.Warnings, err.Error())
		return res
	}

	txt, warns, err := r.tesseract(ctx, pre)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		r.logger.Error("image ocr failed", "path", path, "error", err)
		res.Warnings = append(res.Warnings, err.Error())
		return res
	}

	res.Text = Normalize(txt)
	return res
}

// tesseract runs the OCR binary on one raster file and returns its stdout.
func (r *Resolver) tesseract(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", r.cfg.TesseractLang}
	if r.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", r.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// drop obvious line noise before downstream pattern matching
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
