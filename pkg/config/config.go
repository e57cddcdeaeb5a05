package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulschiretz/pgl-stage/pkg/flagparse"
	"github.com/paulschiretz/pgl-stage/pkg/plog"
	"github.com/paulschiretz/pgl-stage/pkg/util"
)

var (
	// ErrMissingRoot is returned when no triplet root was given.
	ErrMissingRoot = errors.New("the triplet root argument is required")
	// ErrInvalidRoot is returned when the triplet root cannot be used.
	ErrInvalidRoot = errors.New("invalid triplet root")
)

// RuntimeConfig holds the per-invocation toggles.
type RuntimeConfig struct {
	// DryRun only reports what would be copied.
	DryRun bool
	// Dynamic additionally stages the runtime shared libraries.
	Dynamic bool
}

// Config is the complete, immutable description of one staging run.
// It is built once from defaults and flags, validated, and then passed by
// value to every stage.
type Config struct {
	// Root is the installed triplet directory holding include/, lib/ and bin/.
	Root string
	// ProjectDir is the directory all manifest destinations are resolved against.
	ProjectDir string
	Runtime    RuntimeConfig
}

// NewDefault returns a config that stages into the working directory.
func NewDefault() Config {
	return Config{
		ProjectDir: ".",
	}
}

// MergeConfigWithFlags overlays the values the user set on the command line onto base.
func MergeConfigWithFlags(command flagparse.Command, base Config, flagMap map[string]interface{}) Config {
	merged := base
	switch command {
	case flagparse.Stage:
		if v, ok := flagMap[flagparse.ArgRoot].(string); ok {
			merged.Root = v
		}
		if v, ok := flagMap[flagparse.FlagDryRun].(bool); ok {
			merged.Runtime.DryRun = v
		}
		if v, ok := flagMap[flagparse.FlagDynamic].(bool); ok {
			merged.Runtime.Dynamic = v
		}
	}
	return merged
}

// Validate checks the configuration and canonicalises its paths.
// A missing root yields ErrMissingRoot, a root that does not exist or is not a
// directory ErrInvalidRoot.
func (c *Config) Validate() error {
	if c.Root == "" {
		return ErrMissingRoot
	}

	var err error
	c.Root, err = util.ExpandPath(c.Root)
	if err != nil {
		return fmt.Errorf("could not expand triplet root: %w", err)
	}
	c.Root, err = filepath.Abs(c.Root)
	if err != nil {
		return fmt.Errorf("could not resolve triplet root: %w", err)
	}

	info, err := os.Stat(c.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: path %s does not exist", ErrInvalidRoot, c.Root)
		}
		return fmt.Errorf("%w: cannot stat %s: %v", ErrInvalidRoot, c.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: path %s is not a directory", ErrInvalidRoot, c.Root)
	}

	if c.ProjectDir == "" {
		return fmt.Errorf("project directory cannot be empty")
	}
	c.ProjectDir, err = filepath.Abs(c.ProjectDir)
	if err != nil {
		return fmt.Errorf("could not resolve project directory: %w", err)
	}
	return nil
}

// LogSummary logs the effective run configuration.
func (c *Config) LogSummary() {
	plog.Info("Run configuration",
		"root", c.Root,
		"project", c.ProjectDir,
		"dry_run", c.Runtime.DryRun,
		"dynamic", c.Runtime.Dynamic,
	)
}
