package constants

import "testing"

func TestNormalizeExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{".PDF", "pdf"},
		{"pdf", "pdf"},
		{".JpEg", "jpeg"},
		{"", ""},
		{".", ""},
	}
	for _, tt := range tests {
		if got := NormalizeExt(tt.in); got != tt.want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapExtToFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"pdf", PDF},
		{".PDF", PDF},
		{"png", IMAGE},
		{"jpg", IMAGE},
		{".JPEG", IMAGE},
		{"txt", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MapExtToFormat(tt.in); got != tt.want {
			t.Errorf("MapExtToFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllowedExtensionsMatchFormats(t *testing.T) {
	for ext := range AllowedExtensions {
		if MapExtToFormat(ext) == "" {
			t.Errorf("allowed extension %q has no format mapping", ext)
		}
	}
}
