//go:build !windows

package preflight

import "golang.org/x/sys/unix"

// platformCheckWritable asks the kernel whether the effective user may add
// entries to dir (write + search permission).
func platformCheckWritable(dir string) error {
	return unix.Access(dir, unix.W_OK|unix.X_OK)
}
