package planner

import (
	"fmt"
	"path/filepath"

	"github.com/paulschiretz/pgl-stage/pkg/config"
	"github.com/paulschiretz/pgl-stage/pkg/manifest"
	"github.com/paulschiretz/pgl-stage/pkg/pathstage"
	"github.com/paulschiretz/pgl-stage/pkg/preflight"
	"github.com/paulschiretz/pgl-stage/pkg/util"
)

type StagePlan struct {
	Mode    Mode
	DryRun  bool
	Dynamic bool

	AbsRootPath    string
	AbsProjectPath string

	Preflight *preflight.Plan
	Stage     *pathstage.Plan
}

// GenerateStagePlan resolves every manifest entry against the validated config.
// Sources are joined to the triplet root, destinations to the project directory.
func GenerateStagePlan(cfg config.Config, m *manifest.Manifest) (*StagePlan, error) {
	if !filepath.IsAbs(cfg.Root) || !filepath.IsAbs(cfg.ProjectDir) {
		return nil, fmt.Errorf("config must be validated before planning: root %q and project %q must be absolute", cfg.Root, cfg.ProjectDir)
	}
	if m == nil {
		return nil, fmt.Errorf("no manifest to plan")
	}

	// Global Flags
	dryRun := cfg.Runtime.DryRun
	dynamic := cfg.Runtime.Dynamic

	includeRoot := filepath.Join(cfg.Root, util.DenormalizePath(m.Layout.IncludeDir))
	libRoot := filepath.Join(cfg.Root, util.DenormalizePath(m.Layout.LibDir))
	binRoot := filepath.Join(cfg.Root, util.DenormalizePath(m.Layout.BinDir))
	outputDir := filepath.Join(cfg.ProjectDir, util.DenormalizePath(m.Layout.OutputDir))

	groups := make([]pathstage.HeaderGroup, 0, len(m.HeaderGroups))
	for _, g := range m.HeaderGroups {
		groups = append(groups, pathstage.HeaderGroup{
			Name:      g.Dir,
			SourceDir: filepath.Join(includeRoot, util.DenormalizePath(g.Dir)),
			TargetDir: filepath.Join(cfg.ProjectDir, util.DenormalizePath(g.Dest)),
			Pattern:   g.Pattern,
		})
	}

	libraries := make([]pathstage.CopyItem, 0, len(m.Libraries))
	for _, l := range m.Libraries {
		libraries = append(libraries, pathstage.CopyItem{
			Source: filepath.Join(libRoot, l.Name),
			Target: filepath.Join(cfg.ProjectDir, util.DenormalizePath(l.Dest), l.Name),
		})
	}

	runtimeFiles := make([]pathstage.CopyItem, 0, len(m.RuntimeFiles))
	for _, name := range m.RuntimeFiles {
		runtimeFiles = append(runtimeFiles, pathstage.CopyItem{
			Source: filepath.Join(binRoot, name),
			Target: filepath.Join(outputDir, name),
		})
	}

	return &StagePlan{
		Mode:           modeFromDryRun(dryRun),
		DryRun:         dryRun,
		Dynamic:        dynamic,
		AbsRootPath:    cfg.Root,
		AbsProjectPath: cfg.ProjectDir,
		Preflight: &preflight.Plan{
			RootAccessible:  true,
			ProjectWritable: true,

			// Global Flags
			DryRun: dryRun,
		},
		Stage: &pathstage.Plan{
			HeaderGroups: groups,
			Libraries:    libraries,
			Runtime:      runtimeFiles,
			StageRuntime: dynamic,

			// Global Flags
			DryRun: dryRun,
		},
	}, nil
}
