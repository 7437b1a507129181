package export

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/invozen/invoice-extractor/constants"
	"github.com/invozen/invoice-extractor/internal/fields"
	"github.com/invozen/invoice-extractor/internal/pipeline"
)

func record(status constants.RecordStatus, kv ...any) pipeline.Record {
	fm := fields.NewMap()
	for i := 0; i+1 < len(kv); i += 2 {
		fm.Set(kv[i].(string), kv[i+1])
	}
	fm.Set("Filename", "doc.pdf")
	fm.Set("Status", string(status))
	return pipeline.Record{Fields: fm, Status: status}
}

func TestColumnsUnionFirstAppearanceOrder(t *testing.T) {
	recs := []pipeline.Record{
		record(constants.StatusSuccess, "Invoice No", "A-1", "Total Amount", 10.0),
		record(constants.StatusSuccess, "Invoice Date", "01/02/2024", "Invoice No", "B-2"),
		record(constants.StatusOCRFailed),
	}
	want := []string{"Sr No", "Invoice No", "Total Amount", "Filename", "Status", "Invoice Date"}
	if got := Columns(recs); !reflect.DeepEqual(got, want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
}

func TestColumnsEmptyBatch(t *testing.T) {
	if got := Columns(nil); !reflect.DeepEqual(got, []string{"Sr No"}) {
		t.Fatalf("columns = %v", got)
	}
}

func TestBuildXLSXRoundTrip(t *testing.T) {
	recs := []pipeline.Record{
		record(constants.StatusSuccess, "Invoice No", "A-1", "Total Amount", 1250.5),
		record(constants.StatusOCRFailed),
	}
	data, err := NewService(nil).BuildXLSX(recs)
	if err != nil {
		t.Fatalf("BuildXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Invoices" {
		t.Fatalf("sheets = %v, want [Invoices]", got)
	}

	rows, err := f.GetRows("Invoices")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus 2 records", len(rows))
	}

	wantHeader := []string{"Sr No", "Invoice No", "Total Amount", "Filename", "Status"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header = %v, want %v", rows[0], wantHeader)
	}
	if rows[1][0] != "1" || rows[2][0] != "2" {
		t.Fatalf("row numbers = %q, %q", rows[1][0], rows[2][0])
	}
	if rows[1][1] != "A-1" || rows[1][2] != "1250.5" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	// GetRows trims trailing empty cells, so check the failed record by address
	cell, err := f.GetCellValue("Invoices", "B3")
	if err != nil || cell != "" {
		t.Fatalf("B3 = %q err=%v, want empty", cell, err)
	}
	if got, _ := f.GetCellValue("Invoices", "E3"); got != string(constants.StatusOCRFailed) {
		t.Fatalf("E3 = %q, want %q", got, constants.StatusOCRFailed)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 6, 5, 14, 30, 9, 0, time.UTC)
	if got := Filename(now); got != "invoice_auto_20240605_143009.xlsx" {
		t.Fatalf("filename = %q", got)
	}
}
