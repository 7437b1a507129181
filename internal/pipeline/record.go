package pipeline

import (
	"github.com/invozen/invoice-extractor/constants"
	"github.com/invozen/invoice-extractor/internal/fields"
)

// Record is the per-document result: the extracted field map plus the two
// guaranteed keys, "Filename" and "Status". Every processed document yields
// exactly one Record, extraction success or not.
type Record struct {
	Fields      *fields.Map
	Status      constants.RecordStatus
	Warnings    []string
	NeedsReview bool
}

// Filename returns the guaranteed Filename field.
func (r Record) Filename() string {
	if v, ok := r.Fields.Get("Filename"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
