package flagparse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/paulschiretz/pgl-stage/pkg/buildinfo"
)

// ErrUsage marks command lines that cannot be interpreted. Callers print the
// usage text and exit with status 2 for anything wrapping it.
var ErrUsage = errors.New("invalid usage")

// Flag names shared with the config package.
const (
	FlagDryRun  = "dry-run"
	FlagDynamic = "dynamic"
	// ArgRoot is the flag map key of the positional triplet root.
	ArgRoot = "root"
)

// cliFlags holds pointers to all command-line flags.
type cliFlags struct {
	DryRun  *bool
	Dynamic *bool
}

func registerStageFlags(fs *pflag.FlagSet, f *cliFlags) {
	f.DryRun = fs.Bool(FlagDryRun, false, "Show what would be copied without touching the filesystem.")
	f.Dynamic = fs.Bool(FlagDynamic, false, "Also stage the runtime shared libraries from <root>/bin.")
}

func newFlagSet(output io.Writer) (*pflag.FlagSet, *cliFlags) {
	fs := pflag.NewFlagSet(execName(), pflag.ContinueOnError)
	fs.SetOutput(output)
	// Flags may follow the root, e.g. "pgl-stage C:\vcpkg\installed\x64-windows --dry-run".
	fs.SetInterspersed(true)

	f := &cliFlags{}
	registerStageFlags(fs, f)
	fs.Usage = func() { printUsage(fs) }
	return fs, f
}

// Parse parses the provided arguments (usually os.Args[1:]) and returns the command
// and a map holding only the flags the user set plus the positional root.
// Help requests return None with a nil map and a nil error.
func Parse(args []string) (Command, map[string]interface{}, error) {
	return parse(args, os.Stderr)
}

func parse(args []string, output io.Writer) (Command, map[string]interface{}, error) {
	fs, f := newFlagSet(output)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return None, nil, nil
		}
		return None, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	positional := fs.Args()
	if len(positional) > 1 {
		fs.Usage()
		return None, nil, fmt.Errorf("%w: expected a single triplet root, got %d arguments: %q", ErrUsage, len(positional), positional)
	}

	flagMap := flagsToMap(fs, f)
	if len(positional) == 1 {
		flagMap[ArgRoot] = positional[0]
	}
	return Stage, flagMap, nil
}

func flagsToMap(fs *pflag.FlagSet, f *cliFlags) map[string]interface{} {
	// Only flags the user set end up in the map so they can selectively
	// override the defaults.
	usedFlags := make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) { usedFlags[f.Name] = true })

	flagMap := make(map[string]any)
	addIfUsed(flagMap, usedFlags, FlagDryRun, f.DryRun)
	addIfUsed(flagMap, usedFlags, FlagDynamic, f.Dynamic)
	return flagMap
}

// addIfUsed adds the value of ptr to flagMap if ptr is not nil and the flag was set.
func addIfUsed[T any](flagMap map[string]interface{}, usedFlags map[string]bool, name string, ptr *T) {
	if ptr != nil && usedFlags[name] {
		flagMap[name] = *ptr
	}
}

// PrintUsage writes the help text to w.
func PrintUsage(w io.Writer) {
	fs, _ := newFlagSet(w)
	printUsage(fs)
}

func printUsage(fs *pflag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "%s(%s) ", buildinfo.Name, buildinfo.Version)
	fmt.Fprintf(out, "Stage prebuilt third-party headers and libraries into the project tree.\n\n")
	fmt.Fprintf(out, "Usage: %s [--dry-run] [--dynamic] <path-to-triplet-root>\n\n", execName())
	fmt.Fprintf(out, "Destinations are resolved against the current working directory.\n\n")
	fmt.Fprintf(out, "Flags:\n")
	fs.PrintDefaults()
}

func execName() string {
	return filepath.Base(os.Args[0])
}
