// Package codec defines the conversion boundary between the batch engine and
// the external image tool that decodes camera raw files and encodes outputs.
//
// The engine treats a Converter as an opaque, possibly slow, possibly failing
// unit of work: one call per requested output, no retries, failure reasons
// surfaced verbatim. The production implementation shells out to ImageMagick.
package codec
