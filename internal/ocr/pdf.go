package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/invozen/invoice-extractor/constants"
)

// resolvePDF tries the native text layer first. A stripped text shorter than
// the configured threshold means the layer is missing, garbled, or just
// metadata/watermarks (typical for scan-and-save PDFs), so the whole document
// is rasterized and OCRed, with the OCR output appended to whatever the text
// layer produced. The decision is per document, never per page: rendering is
// expensive and must stay gated behind the cheap length signal.
func (r *Resolver) resolvePDF(ctx context.Context, path string) Result {
	res := Result{SourceType: constants.PDF, Method: MethodPDFText, Language: r.cfg.TesseractLang}

	layer, pages, err := r.textLayer(path)
	if err != nil {
		r.logger.Warn("pdf text layer unavailable", "path", path, "error", err)
		res.Warnings = append(res.Warnings, err.Error())
		layer = ""
	}
	res.Pages = pages
	text := layer

	if utf8.RuneCountInString(strings.TrimSpace(layer)) < r.cfg.TextLayerThreshold {
		ocrText, ocrPages, warns, err := r.rasterizeAndOCR(ctx, path)
		res.Warnings = append(res.Warnings, warns...)
		if err != nil {
			r.logger.Error("pdf ocr fallback failed", "path", path, "error", err)
			res.Warnings = append(res.Warnings, err.Error())
		} else {
			text += ocrText
			res.Method = MethodPDFOCR
			if ocrPages > 0 {
				res.Pages = ocrPages
			}
		}
	}

	res.Text = Normalize(text)
	return res
}

// pdfTextLayer extracts the embedded text layer, concatenating all pages in
// document order. The reader panics on some malformed cross-reference tables,
// so recover folds that into an ordinary error.
func pdfTextLayer(path string) (text string, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf text layer: %v", rec)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	pages = reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, perr := page.GetPlainText(nil)
		if perr != nil {
			continue
		}
		b.WriteString(txt)
	}
	return b.String(), pages, nil
}

// rasterizeAndOCR renders every page to PNG with pdftoppm and OCRs each page.
func (r *Resolver) rasterizeAndOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "ivx-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			r.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...); pdftoppm
	// zero-pads page numbers, so a lexical sort keeps document order
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w, terr := r.tesseract(ctx, img)
		warns = append(warns, w...)
		if terr != nil {
			warns = append(warns, terr.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
	}
	return b.String(), len(matches), warns, nil
}
