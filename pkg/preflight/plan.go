package preflight

// Plan selects which checks Validator.Run performs.
type Plan struct {
	RootAccessible  bool
	ProjectWritable bool

	// Global Flags
	DryRun bool
}
