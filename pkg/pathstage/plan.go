package pathstage

// HeaderGroup is a header directory resolved to absolute paths.
type HeaderGroup struct {
	// Name identifies the group in logs and errors, e.g. "libavutil".
	Name      string
	SourceDir string
	TargetDir string
	Pattern   string
}

// CopyItem is one file copy with absolute source and target paths.
type CopyItem struct {
	Source string
	Target string
}

type Plan struct {
	HeaderGroups []HeaderGroup
	Libraries    []CopyItem
	Runtime      []CopyItem

	// StageRuntime is false when runtime files were not requested.
	StageRuntime bool

	// Global Flags
	DryRun bool
}
