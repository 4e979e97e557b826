package batch

// OutputRequest names one encoded output a job must produce.
type OutputRequest struct {
	Format   string
	DestPath string
}

// Job describes one input file and every output it must produce. Jobs are
// immutable once built and owned exclusively by the worker processing them.
type Job struct {
	// Index is the 1-based position in the run's fixed enumeration order.
	Index int
	// Total is the number of jobs in the run.
	Total int

	SourcePath  string
	DisplayName string
	Outputs     []OutputRequest
	ResizeRatio float64
	UsePreview  bool
}
