package codec

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeFormatAliases(t *testing.T) {
	cases := map[string]string{
		"png":  "png",
		"JPG":  "jpeg",
		"jpeg": "jpeg",
		"tif":  "tiff",
		"TIFF": "tiff",
		" bmp": "bmp",
	}
	for input, want := range cases {
		got, err := NormalizeFormat(input)
		if err != nil {
			t.Fatalf("NormalizeFormat(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("NormalizeFormat(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeFormatRejectsUnknown(t *testing.T) {
	_, err := NormalizeFormat("raw")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseFormatsDelimiters(t *testing.T) {
	for _, spec := range []string{"png+jpeg", "png,jpeg", "png+jpg,jpeg"} {
		got, err := ParseFormats(spec)
		if err != nil {
			t.Fatalf("ParseFormats(%q) returned error: %v", spec, err)
		}
		if !reflect.DeepEqual(got, []string{"png", "jpeg"}) {
			t.Fatalf("ParseFormats(%q) = %v", spec, got)
		}
	}
}

func TestParseFormatsEmpty(t *testing.T) {
	if _, err := ParseFormats(""); err == nil {
		t.Fatal("expected error for empty format spec")
	}
}

func TestParseFormatsPropagatesUnknown(t *testing.T) {
	if _, err := ParseFormats("png+heic"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
