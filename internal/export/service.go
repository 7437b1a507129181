package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/invozen/invoice-extractor/internal/pipeline"
)

const sheet = "Invoices"

// Service assembles per-document records into one tabular XLSX workbook.
// The table has no predefined schema: its column set is the union of every
// record's field names, in the order the fields were first discovered.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Columns returns "Sr No" followed by the union of all record keys in
// first-appearance order across the batch.
func Columns(records []pipeline.Record) []string {
	cols := []string{"Sr No"}
	seen := map[string]struct{}{"Sr No": {}}
	for _, rec := range records {
		for _, k := range rec.Fields.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// BuildXLSX returns the workbook bytes: one sheet, header row, one row per
// record with a 1-based sequential row number and empty cells for fields a
// record does not carry.
func (s *Service) BuildXLSX(records []pipeline.Record) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("close workbook", "error", cerr)
		}
	}()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	cols := Columns(records)
	for i, h := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, rec := range records {
		row := rowIdx + 2
		write := func(col int, v any) error {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			return f.SetCellValue(sheet, cell, v)
		}

		if err := write(1, rowIdx+1); err != nil {
			return nil, err
		}
		for c, name := range cols[1:] {
			v, ok := rec.Fields.Get(name)
			if !ok {
				v = ""
			}
			if err := write(c+2, v); err != nil {
				return nil, err
			}
		}
	}

	// widen the bookkeeping columns a bit
	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "B", "E", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"columns", len(cols),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// Filename returns the timestamped workbook name for a generation time.
func Filename(now time.Time) string {
	return fmt.Sprintf("invoice_auto_%s.xlsx", now.Format("20060102_150405"))
}
