package fields

import "log/slog"

// Result is the outcome of one extraction pass. Fields is never nil.
type Result struct {
	Fields   *Map
	Warnings []string
}

// Extractor applies an ordered list of pattern rules to resolved text.
// Phase 1 (generic line scan) runs first; the targeted rules run after it and
// overwrite any phase-1 entry under the same key. Extraction never fails: text
// with no matches yields an empty map.
type Extractor struct {
	rules  []Rule
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		rules: []Rule{
			genericLineRule{},
			invoiceNumberRule{},
			invoiceDateRule{},
			customerNameRule{},
			totalAmountRule{},
			invoiceTypeRule{},
		},
		logger: logger,
	}
}

// Extract runs every rule in order and folds the matches into one ordered map.
func (e *Extractor) Extract(text string) Result {
	fm := NewMap()
	var warnings []string
	for _, rule := range e.rules {
		for _, m := range rule.Extract(text) {
			fm.Set(m.Key, m.Value)
			if m.Warning != "" {
				e.logger.Warn("field kept in degraded form", "key", m.Key, "warning", m.Warning)
				warnings = append(warnings, m.Warning)
			}
		}
	}
	return Result{Fields: fm, Warnings: warnings}
}
