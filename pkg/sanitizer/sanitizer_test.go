package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim spaces", "  Sparkle Car Wash  ", "Sparkle Car Wash"},
		{"collapse inner spaces", "Sparkle    Car", "Sparkle Car"},
		{"tabs and newlines", "Sparkle\t\nCar", "Sparkle Car"},
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"preserve special characters", " Café & Spa™ ", "Café & Spa™"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(TrimAndNormalize(tt.input)); again != tt.want {
				t.Errorf("TrimAndNormalize is not idempotent for %q", tt.input)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		region  string
		want    string
		wantErr bool
	}{
		{name: "E.164 passthrough", input: "+12015550123", want: "+12015550123"},
		{name: "US formatted", input: "+1 (201) 555-0123", want: "+12015550123"},
		{name: "national number in default region", input: "(201) 555-0123", want: "+12015550123"},
		{name: "other region with plus", input: "+972-50-234-5678", want: "+972502345678"},
		{name: "national number in explicit region", input: "050-234-5678", region: "IL", want: "+972502345678"},
		{name: "GB mobile", input: "07400 123456", region: "GB", want: "+447400123456"},
		{name: "invalid Israeli number rejected", input: "+972-50-23", wantErr: true},
		{name: "invalid Israeli national number rejected", input: "050-23", region: "IL", wantErr: true},
		{name: "letters rejected", input: "invalid-phone", wantErr: true},
		{name: "too short rejected", input: "+1", wantErr: true},
		{name: "empty rejected", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input, tt.region)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizePhone(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePhone(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" https://CDN.Example.com/photos/1.jpg/ ", "https://cdn.example.com/photos/1.jpg"},
		{"http://example.com", "http://example.com"},
		{"ftp://example.com/x", "ftp://example.com/x"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeURL(tt.input); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeStringSlice(t *testing.T) {
	got := NormalizeStringSlice([]string{" a ", "b", "a", "", "  "}, TrimAndNormalize)
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeStringSlice() = %v, want %v", got, want)
	}

	if got := NormalizeStringSlice(nil, TrimAndNormalize); got != nil {
		t.Errorf("nil input should stay nil, got %v", got)
	}
}

func TestCanonicalChoice(t *testing.T) {
	choices := []string{"Car Washing", "Pool Cleaning"}

	if got := CanonicalChoice("  car   washing ", choices); got != "Car Washing" {
		t.Errorf("CanonicalChoice() = %q", got)
	}
	if got := CanonicalChoice("Dog Walking", choices); got != "Dog Walking" {
		t.Errorf("unknown choices must pass through, got %q", got)
	}
}
