package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulschiretz/pgl-stage/pkg/hints"
	"github.com/paulschiretz/pgl-stage/pkg/pathstage"
	"github.com/paulschiretz/pgl-stage/pkg/planner"
	"github.com/paulschiretz/pgl-stage/pkg/plog"
	"github.com/paulschiretz/pgl-stage/pkg/preflight"
)

// --- ARCHITECTURAL OVERVIEW ---
//
// A staging run is a fixed sequence of states:
//
//   VALIDATE_ROOT -> STAGE_HEADERS -> STAGE_LIBS -> (STAGE_RUNTIME) -> DONE
//
// 1. VALIDATE_ROOT runs the preflight checks. Nothing is copied if they fail.
// 2. STAGE_HEADERS expands every header group first and only then copies.
//    One empty group ends the run before a single header is written.
// 3. STAGE_LIBS copies the library table. A missing library is reported and
//    tallied, a failed write ends the run.
// 4. STAGE_RUNTIME follows the same contract and only runs on request.
//
// Missing entries do not interrupt the run, but they make it incomplete:
// once DONE is reached the run returns ErrIncomplete.

// ErrIncomplete is returned when at least one source entry was missing.
var ErrIncomplete = errors.New("staging incomplete")

var (
	// ErrRuntimeDisabled is the hint for a run without runtime staging.
	ErrRuntimeDisabled = hints.New("runtime staging not requested")
	// ErrNothingToStage is the hint for an empty table.
	ErrNothingToStage = hints.New("nothing to stage")
)

type validator interface {
	Run(ctx context.Context, absRootPath, absProjectPath string, p *preflight.Plan) error
}

type stager interface {
	Start(dryRun bool) *pathstage.Run
}

// Runner executes staging plans.
type Runner struct {
	validator validator
	stager    stager
}

// NewRunner creates a Runner from its leaf workers.
func NewRunner(v validator, s stager) *Runner {
	return &Runner{
		validator: v,
		stager:    s,
	}
}

// ExecuteStage runs p from VALIDATE_ROOT to DONE and returns the first
// terminal error, or ErrIncomplete if entries were missing.
func (r *Runner) ExecuteStage(ctx context.Context, p *planner.StagePlan) error {
	// Check for cancellation at the very beginning.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := r.validator.Run(ctx, p.AbsRootPath, p.AbsProjectPath, p.Preflight); err != nil {
		return fmt.Errorf("%s failed: %w", StateValidateRoot, err)
	}

	plog.Info("Starting staging", "root", p.AbsRootPath, "project", p.AbsProjectPath, "mode", p.Mode)

	run := r.stager.Start(p.DryRun)
	defer run.Metrics().LogSummary("Staging summary")

	headers, err := pathstage.ExpandHeaderGroups(ctx, p.Stage.HeaderGroups)
	if err != nil {
		return fmt.Errorf("header expansion failed: %w", err)
	}
	if err := r.handleStage(ctx, run, StateStageHeaders, headers); err != nil {
		return err
	}

	if err := r.handleStage(ctx, run, StateStageLibs, p.Stage.Libraries); err != nil {
		return err
	}

	if p.Stage.StageRuntime {
		if err := r.handleStage(ctx, run, StateStageRuntime, p.Stage.Runtime); err != nil {
			return err
		}
	} else {
		plog.Info("Skipping stage", "state", StateStageRuntime, "reason", ErrRuntimeDisabled)
	}

	if missing := run.Metrics().FilesMissing.Load(); missing > 0 {
		plog.Warn("Some entries were missing from the triplet root", "state", StateDone, "missing", missing)
		return fmt.Errorf("%w: %d entries missing", ErrIncomplete, missing)
	}
	return nil
}

// handleStage copies the items of one state. Hints are logged and swallowed.
func (r *Runner) handleStage(ctx context.Context, run *pathstage.Run, state State, items []pathstage.CopyItem) error {
	err := stageItems(ctx, run, items)
	if err == nil {
		return nil
	}
	if hints.IsHint(err) {
		plog.Info("Skipping stage", "state", state, "reason", err)
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s canceled: %w", state, err)
	}
	return fmt.Errorf("%s failed: %w", state, err)
}

func stageItems(ctx context.Context, run *pathstage.Run, items []pathstage.CopyItem) error {
	if len(items) == 0 {
		return ErrNothingToStage
	}
	return run.StageItems(ctx, items)
}
