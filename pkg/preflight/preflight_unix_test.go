//go:build !windows

package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckProjectWritable_Unix(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}

	readOnly := filepath.Join(t.TempDir(), "readonly")
	if err := os.Mkdir(readOnly, 0555); err != nil {
		t.Fatalf("failed to create read-only dir: %v", err)
	}
	t.Cleanup(func() { os.Chmod(readOnly, 0755) })

	if err := CheckProjectWritable(readOnly); !errors.Is(err, ErrProjectNotWritable) {
		t.Errorf("expected ErrProjectNotWritable, got %v", err)
	}
}
