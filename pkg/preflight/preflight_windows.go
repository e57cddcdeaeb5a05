//go:build windows

package preflight

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// platformCheckWritable verifies the directory is reachable through the Win32 API.
// The read-only attribute has no effect on directories on Windows, so write
// access is left to the first copy to report.
func platformCheckWritable(dir string) error {
	p, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return err
	}
	if attrs&windows.FILE_ATTRIBUTE_DIRECTORY == 0 {
		return fmt.Errorf("not a directory")
	}
	return nil
}
