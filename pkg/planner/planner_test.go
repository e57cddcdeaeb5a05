package planner_test

import (
	"path/filepath"
	"testing"

	"github.com/paulschiretz/pgl-stage/pkg/config"
	"github.com/paulschiretz/pgl-stage/pkg/manifest"
	"github.com/paulschiretz/pgl-stage/pkg/pathstage"
	"github.com/paulschiretz/pgl-stage/pkg/planner"
)

const testManifest = `
layout:
  output: out
header_groups:
  - dir: taglib
    dest: src/cpp/taglib
    pattern: "*.h"
libraries:
  - { name: tag.lib, dest: src/bindings/taglib }
  - { name: avutil.lib, dest: src/bindings/ffmpeg_2 }
  - { name: avutil.lib, dest: lib }
runtime:
  - avutil-59.dll
`

func TestGenerateStagePlan(t *testing.T) {
	m, err := manifest.Parse([]byte(testManifest))
	if err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}

	root := filepath.Join(t.TempDir(), "x64-windows")
	project := t.TempDir()

	tests := []struct {
		name      string
		configMod func(*config.Config)
		validate  func(*testing.T, *planner.StagePlan)
	}{
		{
			name: "Apply Mode - Default",
			validate: func(t *testing.T, p *planner.StagePlan) {
				if p.Mode != planner.Apply || p.DryRun {
					t.Errorf("expected apply mode, got %s (dry run %v)", p.Mode, p.DryRun)
				}
				if p.Stage.StageRuntime {
					t.Error("expected runtime staging to be disabled by default")
				}
				if !p.Preflight.RootAccessible || !p.Preflight.ProjectWritable || p.Preflight.DryRun {
					t.Errorf("unexpected preflight plan: %+v", p.Preflight)
				}
			},
		},
		{
			name:      "Preview Mode",
			configMod: func(c *config.Config) { c.Runtime.DryRun = true },
			validate: func(t *testing.T, p *planner.StagePlan) {
				if p.Mode != planner.Preview {
					t.Errorf("expected preview mode, got %s", p.Mode)
				}
				if !p.Stage.DryRun || !p.Preflight.DryRun {
					t.Error("expected dry run to reach every sub plan")
				}
			},
		},
		{
			name:      "Dynamic",
			configMod: func(c *config.Config) { c.Runtime.Dynamic = true },
			validate: func(t *testing.T, p *planner.StagePlan) {
				if !p.Dynamic || !p.Stage.StageRuntime {
					t.Error("expected runtime staging to be enabled")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewDefault()
			cfg.Root = root
			cfg.ProjectDir = project
			if tc.configMod != nil {
				tc.configMod(&cfg)
			}

			p, err := planner.GenerateStagePlan(cfg, m)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			tc.validate(t, p)
		})
	}
}

func TestGenerateStagePlan_Paths(t *testing.T) {
	m, err := manifest.Parse([]byte(testManifest))
	if err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}

	root := filepath.Join(t.TempDir(), "x64-windows")
	project := t.TempDir()
	cfg := config.NewDefault()
	cfg.Root = root
	cfg.ProjectDir = project

	p, err := planner.GenerateStagePlan(cfg, m)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if p.AbsRootPath != root || p.AbsProjectPath != project {
		t.Errorf("expected root %s and project %s, got %s and %s", root, project, p.AbsRootPath, p.AbsProjectPath)
	}

	wantGroup := pathstage.HeaderGroup{
		Name:      "taglib",
		SourceDir: filepath.Join(root, "include", "taglib"),
		TargetDir: filepath.Join(project, "src", "cpp", "taglib"),
		Pattern:   "*.h",
	}
	if len(p.Stage.HeaderGroups) != 1 || p.Stage.HeaderGroups[0] != wantGroup {
		t.Errorf("expected header groups [%+v], got %+v", wantGroup, p.Stage.HeaderGroups)
	}

	wantLibs := []pathstage.CopyItem{
		{Source: filepath.Join(root, "lib", "tag.lib"), Target: filepath.Join(project, "src", "bindings", "taglib", "tag.lib")},
		{Source: filepath.Join(root, "lib", "avutil.lib"), Target: filepath.Join(project, "src", "bindings", "ffmpeg_2", "avutil.lib")},
		{Source: filepath.Join(root, "lib", "avutil.lib"), Target: filepath.Join(project, "lib", "avutil.lib")},
	}
	if len(p.Stage.Libraries) != len(wantLibs) {
		t.Fatalf("expected %d libraries, got %d", len(wantLibs), len(p.Stage.Libraries))
	}
	for i, want := range wantLibs {
		if p.Stage.Libraries[i] != want {
			t.Errorf("library %d: expected %+v, got %+v", i, want, p.Stage.Libraries[i])
		}
	}

	wantRuntime := pathstage.CopyItem{
		Source: filepath.Join(root, "bin", "avutil-59.dll"),
		Target: filepath.Join(project, "out", "avutil-59.dll"),
	}
	if len(p.Stage.Runtime) != 1 || p.Stage.Runtime[0] != wantRuntime {
		t.Errorf("expected runtime [%+v], got %+v", wantRuntime, p.Stage.Runtime)
	}
}

func TestGenerateStagePlan_RequiresValidatedConfig(t *testing.T) {
	m, err := manifest.Default()
	if err != nil {
		t.Fatalf("failed to load default manifest: %v", err)
	}

	cfg := config.NewDefault()
	cfg.Root = "relative/root"
	if _, err := planner.GenerateStagePlan(cfg, m); err == nil {
		t.Error("expected an error for unresolved paths, got nil")
	}
}

func TestModeString(t *testing.T) {
	if planner.Apply.String() != "apply" || planner.Preview.String() != "preview" {
		t.Errorf("unexpected mode strings: %s, %s", planner.Apply, planner.Preview)
	}
	if got := planner.Mode(9).String(); got != "unknown_stage_mode(9)" {
		t.Errorf("expected unknown_stage_mode(9), got %q", got)
	}
}
