// Package pathstage copies files from a triplet root into the project tree.
//
// A PathStager is long lived and owns the copy buffers. Each staging pass
// starts a Run, which carries the per-pass state: dry-run mode, the reporter,
// the metrics and the cache of directories already ensured.
//
// Every file a Run writes gets the owner-write bit, so a later run can always
// overwrite what an earlier run staged, even when the package manager
// installed its files read-only.
package pathstage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paulschiretz/pgl-stage/pkg/pool"
	"github.com/paulschiretz/pgl-stage/pkg/util"
)

var (
	// ErrEmptyHeaderGroup is returned when a header group matches no files.
	ErrEmptyHeaderGroup = errors.New("header group matched no files")
	// ErrSourceMissing is returned when the source of a copy does not exist.
	// It is tallied and does not stop a batch.
	ErrSourceMissing = errors.New("source file is missing")
	// ErrSameFile is returned when the target resolves to the source itself.
	ErrSameFile = errors.New("source and target are the same file")
)

// PathStager creates staging runs that share one buffer pool.
type PathStager struct {
	ioBufferPool *pool.FixedBufferPool
	out          io.Writer
}

// NewPathStager creates a PathStager writing its per-file lines to out.
// A non-positive bufferSize selects the default buffer size.
func NewPathStager(bufferSize int64, out io.Writer) *PathStager {
	return &PathStager{
		ioBufferPool: pool.NewFixedBuffer(bufferSize),
		out:          out,
	}
}

// Start begins a staging pass.
func (s *PathStager) Start(dryRun bool) *Run {
	return &Run{
		dryRun:       dryRun,
		reporter:     NewReporter(s.out, dryRun),
		metrics:      newStageMetrics(),
		ioBufferPool: s.ioBufferPool,
		ensuredDirs:  make(map[string]struct{}),
	}
}

// Run is a single staging pass. It is not safe for concurrent use.
type Run struct {
	dryRun       bool
	reporter     *Reporter
	metrics      *StageMetrics
	ioBufferPool *pool.FixedBufferPool

	// ensuredDirs memoizes directory creation to avoid redundant os.MkdirAll calls.
	ensuredDirs map[string]struct{}
}

// Metrics returns the counters of this run.
func (r *Run) Metrics() *StageMetrics {
	return r.metrics
}

// StageItems copies the items in order. A missing source is reported and the
// batch continues; any other error ends the batch. The context is checked
// between files.
func (r *Run) StageItems(ctx context.Context, items []CopyItem) error {
	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.CopyFile(item.Source, item.Target); err != nil {
			if errors.Is(err, ErrSourceMissing) {
				continue
			}
			return err
		}
	}
	return nil
}

// CopyFile copies absSrcPath to absTrgPath, creating parent directories and
// overwriting an existing target. A target that is the source itself yields
// ErrSameFile in both modes. In a dry run nothing is touched.
func (r *Run) CopyFile(absSrcPath, absTrgPath string) error {
	if r.dryRun {
		return r.previewFile(absSrcPath, absTrgPath)
	}

	err := r.copyFileDirect(absSrcPath, absTrgPath)
	switch {
	case err == nil:
		r.metrics.AddFilesCopied(1)
		r.reporter.Copy(absSrcPath, absTrgPath)
	case errors.Is(err, ErrSourceMissing):
		r.metrics.AddFilesMissing(1)
		r.reporter.Missing(absSrcPath)
	default:
		r.metrics.AddFilesFailed(1)
	}
	return err
}

func (r *Run) previewFile(absSrcPath, absTrgPath string) error {
	info, err := os.Stat(absSrcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.metrics.AddFilesMissing(1)
			r.reporter.Missing(absSrcPath)
			return fmt.Errorf("%w: %s", ErrSourceMissing, absSrcPath)
		}
		r.metrics.AddFilesFailed(1)
		return fmt.Errorf("failed to stat source file %s: %w", absSrcPath, err)
	}
	if !info.Mode().IsRegular() {
		r.metrics.AddFilesFailed(1)
		return fmt.Errorf("source %s is not a regular file", absSrcPath)
	}
	if err := checkNotSameFile(info, absSrcPath, absTrgPath); err != nil {
		r.metrics.AddFilesFailed(1)
		return err
	}
	r.metrics.AddFilesPlanned(1)
	r.reporter.Copy(absSrcPath, absTrgPath)
	return nil
}

// copyFileDirect writes straight into the target; an interrupted copy leaves
// a truncated file that the next run overwrites.
func (r *Run) copyFileDirect(absSrcPath, absTrgPath string) error {
	in, err := os.Open(absSrcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, absSrcPath)
		}
		return fmt.Errorf("failed to open source file %s: %w", absSrcPath, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", absSrcPath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source %s is not a regular file", absSrcPath)
	}

	// Truncating the target would otherwise destroy the source.
	if err := checkNotSameFile(info, absSrcPath, absTrgPath); err != nil {
		return err
	}

	if err := r.ensureDirExists(filepath.Dir(absTrgPath)); err != nil {
		return err
	}

	// os.O_TRUNC clears the file if it exists.
	perm := util.WithUserWritePermission(info.Mode().Perm())
	out, err := os.OpenFile(absTrgPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to open destination file %s: %w", absTrgPath, err)
	}
	defer out.Close() // Ensure closed on error.

	// OpenFile only applies perm to new files.
	if err := out.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions on destination file %s: %w", absTrgPath, err)
	}

	bufPtr := r.ioBufferPool.Get()
	defer r.ioBufferPool.Put(bufPtr)

	bytesWritten, err := io.CopyBuffer(out, in, *bufPtr)
	if err != nil {
		return fmt.Errorf("failed to copy content from %s to %s: %w", absSrcPath, absTrgPath, err)
	}
	r.metrics.AddBytesWritten(bytesWritten)

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file %s: %w", absTrgPath, err)
	}
	return nil
}

// checkNotSameFile fails when absTrgPath exists and is srcInfo's file, directly
// or through a link.
func checkNotSameFile(srcInfo os.FileInfo, absSrcPath, absTrgPath string) error {
	trgInfo, err := os.Stat(absTrgPath)
	if err != nil {
		// A target that cannot be stat'ed cannot be the source.
		return nil
	}
	if os.SameFile(srcInfo, trgInfo) {
		return fmt.Errorf("%w: %s -> %s", ErrSameFile, absSrcPath, absTrgPath)
	}
	return nil
}

// ensureDirExists creates absDirPath and its parents once per run.
func (r *Run) ensureDirExists(absDirPath string) error {
	if _, ok := r.ensuredDirs[absDirPath]; ok {
		return nil
	}

	info, err := os.Stat(absDirPath)
	switch {
	case err == nil && info.IsDir():
	case err == nil:
		return fmt.Errorf("failed to ensure destination directory %s exists: not a directory", absDirPath)
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(absDirPath, util.UserWritableDirPerms); err != nil {
			return fmt.Errorf("failed to ensure destination directory %s exists: %w", absDirPath, err)
		}
		r.metrics.AddDirsCreated(1)
	default:
		return fmt.Errorf("failed to ensure destination directory %s exists: %w", absDirPath, err)
	}

	r.ensuredDirs[absDirPath] = struct{}{}
	return nil
}
