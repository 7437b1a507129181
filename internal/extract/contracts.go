package extract

import (
	"context"

	"github.com/invozen/invoice-extractor/internal/fields"
	"github.com/invozen/invoice-extractor/internal/ocr"
)

// TextResolver is stage 1: file -> plain text. Implementations never fail;
// total failure is an empty Text on the result.
type TextResolver interface {
	Resolve(ctx context.Context, path string) ocr.Result
}

// FieldExtractor is stage 2: text -> named fields. Pure function of its input.
type FieldExtractor interface {
	Extract(text string) fields.Result
}
