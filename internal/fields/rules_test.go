package fields

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func extractMap(t *testing.T, text string) Result {
	t.Helper()
	return NewExtractor(nil).Extract(text)
}

func TestGenericLineScan(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantVal any
		absent  bool
	}{
		{name: "colon separator", text: "Vendor Name: Acme Ltd", wantKey: "Vendor Name", wantVal: "Acme Ltd"},
		{name: "hyphen separator", text: "Payment Mode - Card", wantKey: "Payment Mode", wantVal: "Card"},
		{name: "label is title cased", text: "due DATE: 01/02/2024", wantKey: "Due Date", wantVal: "01/02/2024"},
		{name: "first colon splits, value keeps the rest", text: "Time: 10:30", wantKey: "Time", wantVal: "10:30"},
		{name: "short line discarded", text: "a:", wantKey: "A", absent: true},
		{name: "digit label does not match", text: "123: nope", wantKey: "123", absent: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := extractMap(t, tt.text)
			v, ok := res.Fields.Get(tt.wantKey)
			if tt.absent {
				if ok {
					t.Fatalf("key %q unexpectedly present: %v", tt.wantKey, v)
				}
				return
			}
			if !ok {
				t.Fatalf("key %q missing, keys = %v", tt.wantKey, res.Fields.Keys())
			}
			if v != tt.wantVal {
				t.Fatalf("value = %v, want %v", v, tt.wantVal)
			}
		})
	}
}

func TestGenericLineScanBoundaries(t *testing.T) {
	t.Run("label of 39 chars accepted", func(t *testing.T) {
		label := strings.Repeat("a", 39)
		res := extractMap(t, label+": value")
		if !res.Fields.Has(TitleCase(label)) {
			t.Fatalf("39-char label rejected")
		}
	})
	t.Run("label of 40 chars rejected", func(t *testing.T) {
		label := strings.Repeat("a", 40)
		res := extractMap(t, label+": value")
		if res.Fields.Has(TitleCase(label)) {
			t.Fatalf("40-char label accepted")
		}
	})
	t.Run("value of 119 chars accepted", func(t *testing.T) {
		res := extractMap(t, "Notes: "+strings.Repeat("v", 119))
		if !res.Fields.Has("Notes") {
			t.Fatalf("119-char value rejected")
		}
	})
	t.Run("value of 120 chars rejected", func(t *testing.T) {
		res := extractMap(t, "Notes: "+strings.Repeat("v", 120))
		if res.Fields.Has("Notes") {
			t.Fatalf("120-char value accepted")
		}
	})
}

func TestGenericLastLineWins(t *testing.T) {
	res := extractMap(t, "Reference: first\nReference: second")
	v, _ := res.Fields.Get("Reference")
	if v != "second" {
		t.Fatalf("Reference = %v, want second (last line wins)", v)
	}
}

func TestTargetedRules(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantVal any
	}{
		{name: "invoice number with period", text: "Invoice No. INV/22-01", wantKey: "Invoice No", wantVal: "INV/22-01"},
		{name: "invoice number lowercase", text: "invoice no: abc-9", wantKey: "Invoice No", wantVal: "abc-9"},
		{name: "invoice date slashes", text: "Invoice Date: 05/06/2024", wantKey: "Invoice Date", wantVal: "05/06/2024"},
		{name: "invoice date hyphens", text: "INVOICE DATE 1-2-2024", wantKey: "Invoice Date", wantVal: "1-2-2024"},
		{name: "customer via bill to", text: "Bill To: John Smith\nextra", wantKey: "Customer Name", wantVal: "John Smith"},
		{name: "customer via client name", text: "Client Name: Mary Jane\nother", wantKey: "Customer Name", wantVal: "Mary Jane"},
		{name: "grand total with separators", text: "Grand Total: 12,345.67", wantKey: "Total Amount", wantVal: 12345.67},
		{name: "total amount plain", text: "Total Amount - 99", wantKey: "Total Amount", wantVal: 99.0},
		{name: "tax invoice flag", text: "this is a TAX INVOICE", wantKey: "Invoice Type", wantVal: "Tax Invoice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := extractMap(t, tt.text)
			v, ok := res.Fields.Get(tt.wantKey)
			if !ok {
				t.Fatalf("key %q missing, keys = %v", tt.wantKey, res.Fields.Keys())
			}
			if v != tt.wantVal {
				t.Fatalf("value = %v (%T), want %v (%T)", v, v, tt.wantVal, tt.wantVal)
			}
		})
	}
}

func TestTargetedOverridesGeneric(t *testing.T) {
	// The generic scan keeps the last line (XYZ-9); the targeted rule matches
	// the first occurrence in the whole text (ABC-1) and must win.
	text := "Invoice No: ABC-1\nInvoice No: XYZ-9"
	res := extractMap(t, text)
	v, _ := res.Fields.Get("Invoice No")
	if v != "ABC-1" {
		t.Fatalf("Invoice No = %v, want targeted value ABC-1", v)
	}
}

func TestMalformedTotalKeptAsRawString(t *testing.T) {
	res := extractMap(t, "Grand Total: 1.2.3")
	v, ok := res.Fields.Get("Total Amount")
	if !ok {
		t.Fatalf("Total Amount missing")
	}
	if v != "1.2.3" {
		t.Fatalf("Total Amount = %v (%T), want raw string 1.2.3", v, v)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}
}

func TestNoMatchesYieldsEmptyMap(t *testing.T) {
	res := extractMap(t, "just a paragraph of prose without any labels at all")
	if res.Fields.Len() != 0 {
		t.Fatalf("fields = %v, want empty map", res.Fields.Keys())
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", res.Warnings)
	}
}

func TestEndToEndScenario(t *testing.T) {
	text := "Invoice No: INV-2024-001\nInvoice Date: 05/06/2024\nBill To Name: Acme Corp\nGrand Total: 1,250.00\nThis is a Tax Invoice"
	res := extractMap(t, text)

	wantKeys := []string{"Invoice No", "Invoice Date", "Bill To Name", "Grand Total", "Customer Name", "Total Amount", "Invoice Type"}
	if got := res.Fields.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Fatalf("keys = %v, want %v", got, wantKeys)
	}

	want := map[string]any{
		"Invoice No":    "INV-2024-001",
		"Invoice Date":  "05/06/2024",
		"Customer Name": "Acme Corp",
		"Total Amount":  1250.00,
		"Invoice Type":  "Tax Invoice",
	}
	for k, wv := range want {
		if v, _ := res.Fields.Get(k); v != wv {
			t.Errorf("%s = %v (%T), want %v", k, v, v, wv)
		}
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	text := "Invoice No: A-1\nGrand Total: 100.00\ntax invoice"
	e := NewExtractor(nil)
	a, _ := json.Marshal(e.Extract(text).Fields)
	b, _ := json.Marshal(e.Extract(text).Fields)
	if string(a) != string(b) {
		t.Fatalf("two extractions differ:\n%s\n%s", a, b)
	}
}
