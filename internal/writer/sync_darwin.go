//go:build darwin

package writer

import (
	"os"

	"golang.org/x/sys/unix"
)

// fdatasync flushes file data. macOS has no fdatasync; fullsync selects
// F_FULLFSYNC, which also drains the drive cache.
func fdatasync(f *os.File, fullsync bool) error {
	if fullsync {
		_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(int(f.Fd()))
}
