package pathstage

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	statusCopy    = color.New(color.FgGreen).SprintFunc()
	statusMissing = color.New(color.FgRed, color.Bold).SprintFunc()
)

const dryRunPrefix = "[DRY RUN] "

// Reporter writes one line per staged file. These lines are the product of a
// preview run, so they bypass the logger and go straight to out.
type Reporter struct {
	out      io.Writer
	dryRun   bool
	colorize bool
}

// NewReporter creates a Reporter. Status words are only coloured when out is a terminal.
func NewReporter(out io.Writer, dryRun bool) *Reporter {
	return &Reporter{
		out:      out,
		dryRun:   dryRun,
		colorize: isTerminalWriter(out) && !color.NoColor,
	}
}

// Copy reports a copy that was made or, in a dry run, would be made.
func (r *Reporter) Copy(src, dst string) {
	fmt.Fprintf(r.out, "%s%s %s -> %s\n", r.prefix(), r.status("COPY", statusCopy), src, dst)
}

// Missing reports a source file that does not exist.
func (r *Reporter) Missing(src string) {
	fmt.Fprintf(r.out, "%s%s %s\n", r.prefix(), r.status("MISSING", statusMissing), src)
}

func (r *Reporter) prefix() string {
	if r.dryRun {
		return dryRunPrefix
	}
	return ""
}

func (r *Reporter) status(word string, paint func(a ...interface{}) string) string {
	if !r.colorize {
		return word
	}
	return paint(word)
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
