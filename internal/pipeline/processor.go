package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/invozen/invoice-extractor/constants"
	"github.com/invozen/invoice-extractor/internal/extract"
	"github.com/invozen/invoice-extractor/internal/fields"
)

// Processor coordinates text resolution then field extraction for one
// document at a time. It is fully isolated per document: any failure degrades
// to a status flag on the record, nothing propagates upward to abort a batch.
type Processor struct {
	Resolver  extract.TextResolver
	Extractor extract.FieldExtractor
	Validator *RecordValidator
	Logger    *slog.Logger
}

func NewProcessor(resolver extract.TextResolver, extractor extract.FieldExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Resolver:  resolver,
		Extractor: extractor,
		Validator: NewRecordValidator(logger),
		Logger:    logger,
	}
}

// ProcessFile resolves one document to text, extracts fields from it and
// returns the record. Empty resolved text means OCR failed for this document;
// the record then carries only Filename and Status.
func (p *Processor) ProcessFile(ctx context.Context, path string) Record {
	filename := filepath.Base(path)

	res := p.Resolver.Resolve(ctx, path)
	if strings.TrimSpace(res.Text) == "" {
		p.Logger.Warn("no text resolved",
			"filename", filename,
			"method", res.Method,
			"warnings", strings.Join(res.Warnings, "; "),
		)
		fm := fields.NewMap()
		fm.Set("Filename", filename)
		fm.Set("Status", string(constants.StatusOCRFailed))
		return Record{
			Fields:   fm,
			Status:   constants.StatusOCRFailed,
			Warnings: res.Warnings,
		}
	}

	ext := p.Extractor.Extract(res.Text)
	ext.Fields.Set("Filename", filename)
	ext.Fields.Set("Status", string(constants.StatusSuccess))

	rec := Record{
		Fields:   ext.Fields,
		Status:   constants.StatusSuccess,
		Warnings: append(res.Warnings, ext.Warnings...),
	}

	if p.Validator != nil {
		if violations := p.Validator.Validate(rec); len(violations) > 0 {
			rec.NeedsReview = true
			rec.Warnings = append(rec.Warnings, violations...)
		}
	}

	p.Logger.Info("document processed",
		"filename", filename,
		"method", res.Method,
		"pages", res.Pages,
		"text_bytes", len(res.Text),
		"fields", ext.Fields.Len(),
		"needs_review", rec.NeedsReview,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return rec
}
