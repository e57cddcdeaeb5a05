package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulschiretz/pgl-stage/pkg/flagparse"
)

func TestConfig_Validate(t *testing.T) {
	// Helper to get a valid base config for testing
	newValidConfig := func(t *testing.T) Config {
		cfg := NewDefault()
		cfg.Root = t.TempDir()
		cfg.ProjectDir = t.TempDir()
		return cfg
	}

	t.Run("Valid Config", func(t *testing.T) {
		cfg := newValidConfig(t)
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config to pass validation, but got error: %v", err)
		}
		if !filepath.IsAbs(cfg.Root) || !filepath.IsAbs(cfg.ProjectDir) {
			t.Errorf("expected absolute paths after validation, got root=%q project=%q", cfg.Root, cfg.ProjectDir)
		}
	})

	t.Run("Missing Root", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Root = ""
		if err := cfg.Validate(); !errors.Is(err, ErrMissingRoot) {
			t.Errorf("expected ErrMissingRoot, but got %v", err)
		}
	})

	t.Run("Non-Existent Root", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Root = filepath.Join(t.TempDir(), "nonexistent")
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("expected ErrInvalidRoot, but got %v", err)
		}
	})

	t.Run("Root Is A File", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Root = filepath.Join(t.TempDir(), "root.txt")
		if err := os.WriteFile(cfg.Root, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("expected ErrInvalidRoot, but got %v", err)
		}
	})

	t.Run("Empty Project Dir", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.ProjectDir = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty project directory, but got nil")
		}
	})

	t.Run("Relative Root Is Made Absolute", func(t *testing.T) {
		base := t.TempDir()
		if err := os.Mkdir(filepath.Join(base, "x64-windows"), 0755); err != nil {
			t.Fatalf("failed to create root: %v", err)
		}
		testChdir(t, base)

		cfg := NewDefault()
		cfg.Root = "x64-windows"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected relative root to validate, got %v", err)
		}
		if want, _ := filepath.Abs("x64-windows"); cfg.Root != want {
			t.Errorf("expected root %q, got %q", want, cfg.Root)
		}
	})
}

func TestMergeConfigWithFlags(t *testing.T) {
	t.Run("Overrides only used flags", func(t *testing.T) {
		base := NewDefault()
		base.Runtime.Dynamic = true

		merged := MergeConfigWithFlags(flagparse.Stage, base, map[string]interface{}{
			flagparse.ArgRoot:    "/triplet",
			flagparse.FlagDryRun: true,
		})

		if merged.Root != "/triplet" {
			t.Errorf("expected root '/triplet', got %q", merged.Root)
		}
		if !merged.Runtime.DryRun {
			t.Error("expected dry run to be enabled")
		}
		if !merged.Runtime.Dynamic {
			t.Error("expected dynamic from base config to be kept")
		}
		if base.Runtime.DryRun || base.Root != "" {
			t.Error("expected base config to stay untouched")
		}
	})

	t.Run("Ignores flags for other commands", func(t *testing.T) {
		merged := MergeConfigWithFlags(flagparse.None, NewDefault(), map[string]interface{}{
			flagparse.FlagDryRun: true,
		})
		if merged.Runtime.DryRun {
			t.Error("expected flags to be ignored for the None command")
		}
	})
}
