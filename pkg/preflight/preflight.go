// Package preflight holds the checks that run before any file is staged.
// The checks never modify the filesystem, so they are safe in dry-run mode.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/paulschiretz/pgl-stage/pkg/config"
)

var (
	// ErrRootNotDirectory is returned when the triplet root is a file.
	ErrRootNotDirectory = errors.New("triplet root is not a directory")
	// ErrProjectNotWritable is returned when staged files could not be written.
	ErrProjectNotWritable = errors.New("project directory is not writable")
)

// Validator runs the checks selected by a Plan.
type Validator struct{}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Run performs the checks enabled in p. The writability check is skipped in dry-run
// mode because a preview must work on read-only checkouts too.
func (v *Validator) Run(ctx context.Context, absRootPath, absProjectPath string, p *Plan) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if p.RootAccessible {
		if err := CheckRootAccessible(absRootPath); err != nil {
			return err
		}
	}

	if p.ProjectWritable {
		if p.DryRun {
			return nil
		}
		if err := CheckProjectWritable(absProjectPath); err != nil {
			return err
		}
	}
	return nil
}

// CheckRootAccessible validates that the triplet root exists and is a directory.
// config.Validate checks the same when the run is configured; this repeats it at
// run time, when the root may have been removed or replaced since. Failures
// wrap config.ErrInvalidRoot either way.
func CheckRootAccessible(rootPath string) error {
	info, err := os.Stat(rootPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", config.ErrInvalidRoot, rootPath)
		}
		return fmt.Errorf("%w: cannot stat %s: %v", config.ErrInvalidRoot, rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %w: %s", config.ErrInvalidRoot, ErrRootNotDirectory, rootPath)
	}
	return nil
}

// CheckProjectWritable validates that the project directory exists, is a directory,
// and that the current user may create entries in it. No probe file is written.
func CheckProjectWritable(projectPath string) error {
	info, err := os.Stat(projectPath)
	if err != nil {
		return fmt.Errorf("cannot access project directory %s: %w", projectPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path %s is not a directory", projectPath)
	}
	if err := platformCheckWritable(projectPath); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrProjectNotWritable, projectPath, err)
	}
	return nil
}
