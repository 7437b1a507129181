package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordSchema returns the JSON-Schema (draft 2020-12 subset) a finished
// record is checked against. Violations never fail a batch; they only mark
// the record for review.
func BuildRecordSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Filename": map[string]any{"type": "string", "minLength": 1},
			"Status":   map[string]any{"enum": []any{"Success", "OCR Failed"}},
			"Invoice Date": map[string]any{
				"type":    "string",
				"pattern": `^\d{1,2}[/-]\d{1,2}[/-]\d{4}$`,
			},
			"Total Amount": map[string]any{"type": "number"},
			"Invoice Type": map[string]any{"type": "string"},
		},
		"required": []any{"Filename", "Status"},
	}
}

// RecordValidator checks finished records against the record schema.
type RecordValidator struct {
	schema *jsonschema.Schema
	logger *slog.Logger
}

func NewRecordValidator(logger *slog.Logger) *RecordValidator {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := json.Marshal(BuildRecordSchema())
	if err != nil {
		// the schema is a compile-time constant; failing to marshal it is a bug
		panic(fmt.Sprintf("marshal record schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.schema.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add record schema: %v", err))
	}
	schema, err := compiler.Compile("record.schema.json")
	if err != nil {
		panic(fmt.Sprintf("compile record schema: %v", err))
	}
	return &RecordValidator{schema: schema, logger: logger}
}

// Validate returns human-readable violations, or nil when the record conforms.
func (rv *RecordValidator) Validate(rec Record) []string {
	data, err := json.Marshal(rec.Fields)
	if err != nil {
		return []string{fmt.Sprintf("marshal record: %v", err)}
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return []string{fmt.Sprintf("unmarshal record: %v", err)}
	}
	if err := rv.schema.Validate(v); err != nil {
		rv.logger.Warn("record failed schema validation", "filename", rec.Filename(), "error", err)
		return []string{fmt.Sprintf("record does not match schema: %v", err)}
	}
	return nil
}
