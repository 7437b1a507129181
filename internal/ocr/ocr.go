package ocr

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/invozen/invoice-extractor/constants"
)

// Method names reported on results.
const (
	MethodPDFText  = "pdf-text"
	MethodPDFOCR   = "pdf-ocr"
	MethodImageOCR = "image-ocr"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	TesseractLang string // OCR dictionary, default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit

	// TextLayerThreshold is the minimum stripped-character count below which a
	// PDF's native text layer is considered absent or unreliable and the whole
	// document is rasterized and OCRed. Default 100.
	TextLayerThreshold int

	// ContrastFactor is the multiplicative contrast enhancement applied to
	// images before OCR. Default 2.0.
	ContrastFactor float64
}

// Result is the best-effort plain-text rendering of one document.
type Result struct {
	Text       string
	Pages      int
	SourceType constants.Format
	Method     string // MethodPDFText | MethodPDFOCR | MethodImageOCR
	Language   string
	Duration   time.Duration
	Warnings   []string
}

// Resolver turns raw documents into plain text, choosing between native
// text-layer extraction and OCR per document.
type Resolver struct {
	cfg       Config
	runner    Runner
	textLayer func(path string) (text string, pages int, err error)
	logger    *slog.Logger
}

func NewResolver(cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.TextLayerThreshold <= 0 {
		cfg.TextLayerThreshold = 100
	}
	if cfg.ContrastFactor <= 0 {
		cfg.ContrastFactor = 2.0
	}
	return &Resolver{cfg: cfg, runner: execRunner{}, textLayer: pdfTextLayer, logger: logger}
}

// Resolve picks a strategy based on file extension. It never fails: on total
// failure the result carries an empty Text plus warnings, and the caller
// classifies emptiness downstream.
func (r *Resolver) Resolve(ctx context.Context, path string) Result {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	r.logger.Debug("starting text resolution", "path", path, "ext", ext)

	var res Result
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res = r.resolvePDF(ctx, path)
	case constants.IMAGE:
		res = r.resolveImage(ctx, path)
	default:
		r.logger.Error("unsupported extension", "path", path, "extension", ext)
		res = Result{Warnings: []string{"unsupported extension: " + ext}}
	}
	res.Duration = time.Since(start)
	return res
}
