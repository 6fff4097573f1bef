//go:build linux

package writer

import (
	"os"

	"golang.org/x/sys/unix"
)

// fdatasync flushes file data. The fullsync parameter is ignored on Linux.
func fdatasync(f *os.File, _ bool) error {
	return unix.Fdatasync(int(f.Fd()))
}
