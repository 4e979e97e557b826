package codec

import "context"

// Request describes one conversion: decode the source raw file, resize by the
// area ratio, and encode to the destination path in the given format.
type Request struct {
	SourcePath  string
	DestPath    string
	Format      string
	ResizeRatio float64
	UsePreview  bool
}

// Converter executes a single conversion request. Implementations are
// synchronous, blocking, and fallible; callers must not retry automatically
// and must surface the failure reason verbatim.
type Converter interface {
	Convert(ctx context.Context, req Request) error
}
