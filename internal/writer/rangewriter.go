package writer

import (
	"context"
	"fmt"
	"os"

	"github.com/joshuapare/hardenkit/internal/dirty"
)

// RangeWriter writes dirty ranges of a buffer back into an existing file at
// the same offsets. The file must be the one buf was loaded from; its size
// is checked so a mismatched file is never partially overwritten.
type RangeWriter struct {
	Path string
	// FullSync requests F_FULLFSYNC on macOS. Ignored elsewhere.
	FullSync bool
}

// WriteRanges writes buf[r.Off:r.End()] for every range, then syncs the file.
//
// The context is checked before each range. If cancelled partway, earlier
// ranges have already been written.
func (w *RangeWriter) WriteRanges(ctx context.Context, buf []byte, ranges []dirty.Range) error {
	if len(ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(w.Path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open for write: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if info.Size() != int64(len(buf)) {
		return fmt.Errorf("size mismatch: file has %d bytes, buffer has %d", info.Size(), len(buf))
	}

	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Off < 0 || r.End() > int64(len(buf)) {
			return fmt.Errorf("range [%d,%d) outside buffer of %d bytes", r.Off, r.End(), len(buf))
		}
		if _, err := f.WriteAt(buf[r.Off:r.End()], r.Off); err != nil {
			return fmt.Errorf("write range at %d: %w", r.Off, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fdatasync(f, w.FullSync); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return f.Close()
}
