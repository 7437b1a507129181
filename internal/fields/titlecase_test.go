package fields

import "testing"

func TestTitleCase(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase words", in: "invoice no", want: "Invoice No"},
		{name: "uppercase words", in: "GRAND TOTAL", want: "Grand Total"},
		{name: "mixed case", in: "cUsToMeR nAmE", want: "Customer Name"},
		{name: "hyphen is a word boundary", in: "bill-to", want: "Bill-To"},
		{name: "slash and period boundaries", in: "gst/tax no.", want: "Gst/Tax No."},
		{name: "digits are boundaries", in: "line1item", want: "Line1Item"},
		{name: "empty", in: "", want: ""},
		{name: "already titled", in: "Invoice Date", want: "Invoice Date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleCase(tt.in); got != tt.want {
				t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
