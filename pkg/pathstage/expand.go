package pathstage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulschiretz/pgl-stage/pkg/plog"
)

// ExpandHeaderGroups lists the files of every group before anything is copied.
// If any group yields no files the result is ErrEmptyHeaderGroup naming all
// such groups, and no items are returned, so a header set is never staged partially.
// Items keep the group order; within a group they are sorted by file name.
func ExpandHeaderGroups(ctx context.Context, groups []HeaderGroup) ([]CopyItem, error) {
	var items []CopyItem
	var empty []string

	for _, g := range groups {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		groupItems, err := expandHeaderGroup(g)
		if err != nil {
			return nil, err
		}
		if len(groupItems) == 0 {
			empty = append(empty, g.Name)
			continue
		}
		plog.Info("Expanded header group", "group", g.Name, "files", len(groupItems))
		items = append(items, groupItems...)
	}

	if len(empty) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyHeaderGroup, strings.Join(empty, ", "))
	}
	return items, nil
}

// expandHeaderGroup returns the regular files directly inside the group's source
// directory that match its pattern. An absent directory is an empty group.
func expandHeaderGroup(g HeaderGroup) ([]CopyItem, error) {
	// os.ReadDir returns entries sorted by file name.
	entries, err := os.ReadDir(g.SourceDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header group %s: %w", g.Name, err)
	}

	var items []CopyItem
	for _, entry := range entries {
		name := entry.Name()
		matched, err := filepath.Match(g.Pattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q for header group %s: %w", g.Pattern, g.Name, err)
		}
		if !matched {
			continue
		}

		// Subdirectories are not staged.
		if entry.IsDir() {
			continue
		}

		// Stat follows symlinks, so a link to a header is staged as the header itself.
		absSrcPath := filepath.Join(g.SourceDir, name)
		info, err := os.Stat(absSrcPath)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		items = append(items, CopyItem{
			Source: absSrcPath,
			Target: filepath.Join(g.TargetDir, name),
		})
	}
	return items, nil
}
