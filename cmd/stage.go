package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/paulschiretz/pgl-stage/pkg/buildinfo"
	"github.com/paulschiretz/pgl-stage/pkg/config"
	"github.com/paulschiretz/pgl-stage/pkg/engine"
	"github.com/paulschiretz/pgl-stage/pkg/flagparse"
	"github.com/paulschiretz/pgl-stage/pkg/manifest"
	"github.com/paulschiretz/pgl-stage/pkg/pathstage"
	"github.com/paulschiretz/pgl-stage/pkg/planner"
	"github.com/paulschiretz/pgl-stage/pkg/plog"
	"github.com/paulschiretz/pgl-stage/pkg/pool"
	"github.com/paulschiretz/pgl-stage/pkg/preflight"
)

// RunStage handles the logic for a staging run. Per-file lines go to stdout.
func RunStage(ctx context.Context, flagMap map[string]interface{}) error {
	return runStage(ctx, flagMap, os.Stdout)
}

func runStage(ctx context.Context, flagMap map[string]interface{}, out io.Writer) error {
	// Merge the flag values over the defaults to get the final run config.
	runConfig := config.MergeConfigWithFlags(flagparse.Stage, config.NewDefault(), flagMap)

	// CRITICAL: Validate the config for the run
	if err := runConfig.Validate(); err != nil {
		return err
	}

	runConfig.LogSummary()

	stageManifest, err := manifest.Default()
	if err != nil {
		return err
	}

	// Create the runner and feed it with our leaf workers
	runner := engine.NewRunner(
		preflight.NewValidator(),
		pathstage.NewPathStager(pool.DefaultCopyBufferSize, out),
	)

	// Get the Plan
	stagePlan, err := planner.GenerateStagePlan(runConfig, stageManifest)
	if err != nil {
		return fmt.Errorf("failed to plan staging run: %w", err)
	}

	// Execute the plan
	startTime := time.Now()
	err = runner.ExecuteStage(ctx, stagePlan)
	duration := time.Since(startTime).Round(time.Millisecond)
	if err != nil {
		return err // The error will be logged with full details by main()
	}
	plog.Info(buildinfo.Name+" finished successfully.", "duration", duration)
	return nil
}
