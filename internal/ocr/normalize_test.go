package ocr

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "crlf to lf", in: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "tabs collapse to space", in: "a\t\tb", want: "a b"},
		{name: "runs of spaces collapse", in: "a    b", want: "a b"},
		{name: "blank lines capped at one", in: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "trailing spaces trimmed", in: "a   \nb", want: "a\nb"},
		{name: "surrounding whitespace stripped", in: "  \n a \n ", want: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := "Invoice No: A-1\r\n\r\n\r\nTotal:\t100"
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Fatalf("Normalize not idempotent: %q vs %q", once, twice)
	}
}
