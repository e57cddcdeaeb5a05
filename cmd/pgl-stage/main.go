package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/paulschiretz/pgl-stage/cmd"
	"github.com/paulschiretz/pgl-stage/pkg/buildinfo"
	"github.com/paulschiretz/pgl-stage/pkg/config"
	"github.com/paulschiretz/pgl-stage/pkg/flagparse"
	"github.com/paulschiretz/pgl-stage/pkg/plog"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// run encapsulates the main application logic and returns an error if something
// goes wrong, allowing the main function to handle exit codes.
func run(ctx context.Context, args []string) error {
	command, flagMap, err := flagparse.Parse(args)
	if err != nil {
		return err
	}

	switch command {
	case flagparse.None:
		return nil
	case flagparse.Stage:
		plog.Info("Starting "+buildinfo.Name, "version", buildinfo.Version, "pid", os.Getpid())
		return cmd.RunStage(ctx, flagMap)
	default:
		return fmt.Errorf("internal error: unknown command %s", command)
	}
}

// exitCode maps the result of run to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flagparse.ErrUsage), errors.Is(err, config.ErrMissingRoot):
		return exitUsage
	default:
		return exitError
	}
}

func main() {
	// Set up a context that is canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := run(ctx, os.Args[1:])
	stop()

	if err != nil {
		plog.Error(buildinfo.Name+" exited with error", "error", err)
		// Parse errors already printed the usage.
		if errors.Is(err, config.ErrMissingRoot) {
			flagparse.PrintUsage(os.Stderr)
		}
	}
	os.Exit(exitCode(err))
}
