//go:build !linux && !darwin

package writer

import "os"

func fdatasync(f *os.File, _ bool) error {
	return f.Sync()
}
