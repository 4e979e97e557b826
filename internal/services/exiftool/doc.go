// Package exiftool wraps the exiftool binary for metadata extraction.
package exiftool
