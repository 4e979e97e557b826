package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat marks an output format name the codec cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ValidFormats lists the canonical output formats, in display order.
var ValidFormats = []string{"png", "jpeg", "bmp", "gif", "webp", "tiff"}

var formatAliases = map[string]string{
	"jpg": "jpeg",
	"tif": "tiff",
}

// AliasesOf returns the accepted alternate spellings for a canonical format.
func AliasesOf(format string) []string {
	var aliases []string
	for alias, canonical := range formatAliases {
		if canonical == format {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// NormalizeFormat lowercases a format name and resolves the jpg and tif
// aliases. It returns ErrUnsupportedFormat for anything outside ValidFormats.
func NormalizeFormat(name string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := formatAliases[format]; ok {
		format = alias
	}
	for _, valid := range ValidFormats {
		if format == valid {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnsupportedFormat, name, strings.Join(ValidFormats, ", "))
}

// ParseFormats splits a delimiter-joined format request ("png+jpeg" or
// "png,jpeg") into canonical names, preserving order and dropping duplicates.
func ParseFormats(spec string) ([]string, error) {
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == '+' || r == ','
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty format list", ErrUnsupportedFormat)
	}

	seen := make(map[string]struct{}, len(fields))
	formats := make([]string, 0, len(fields))
	for _, field := range fields {
		format, err := NormalizeFormat(field)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[format]; ok {
			continue
		}
		seen[format] = struct{}{}
		formats = append(formats, format)
	}
	return formats, nil
}
