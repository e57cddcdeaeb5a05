package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Permission constants for file and directory modes.
const (
	// PermUserWrite is the user-write permission bit (0200).
	PermUserWrite os.FileMode = 0200

	// UserWritableDirPerms represents the standard permissions for newly created directories (rwxr-xr-x).
	UserWritableDirPerms os.FileMode = 0755
)

// WithUserWritePermission ensures that any directory/file permission has the owner-write
// bit (0200) set. A staged file copied from a read-only package tree must stay
// overwritable so the next run can replace it.
func WithUserWritePermission(basePerm os.FileMode) os.FileMode {
	return basePerm | PermUserWrite
}

// ExpandPath expands the tilde (~) prefix in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil // No tilde, return as-is.
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}

	// Replace the tilde with the home directory.
	return filepath.Join(home, path[1:]), nil
}

// NormalizePath converts a path to the forward-slash form used as a key in
// manifests and log output.
func NormalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// DenormalizePath converts a forward-slash key back into an OS specific path.
func DenormalizePath(key string) string {
	return filepath.FromSlash(key)
}

// IsLocalPath reports whether a forward-slash key stays inside the directory it is
// joined to: it must be relative, non-empty and must not climb out with "..".
func IsLocalPath(key string) bool {
	return key != "" && filepath.IsLocal(DenormalizePath(key))
}

// ByteCountIEC formats a byte count using binary (IEC) units, e.g. "1.5 MiB".
func ByteCountIEC(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
