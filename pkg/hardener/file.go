package hardener

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/joshuapare/hardenkit/internal/dirty"
	"github.com/joshuapare/hardenkit/internal/mmfile"
	"github.com/joshuapare/hardenkit/internal/writer"
)

// File is an App backed by a file on disk.
//
// The file is mapped copy-on-write, so changes stay in memory until Save.
type File struct {
	path    string
	app     *App
	cleanup func() error
}

// OpenFile maps the binary at path and locates its fuse wire.
func OpenFile(path string) (*File, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	app, err := FromBytes(data)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	return &File{path: path, app: app, cleanup: cleanup}, nil
}

// App returns the in-memory application handle.
func (f *File) App() *App { return f.app }

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// SaveOptions controls Save.
type SaveOptions struct {
	// Output writes the full binary to this path instead of patching the
	// opened file in place.
	Output string
	// Backup copies the opened file to <path>.bak before an in-place save.
	Backup bool
	// DryRun reports what would be written without touching disk.
	DryRun bool
	// FullSync requests F_FULLFSYNC on macOS for in-place saves.
	FullSync bool
}

// SaveResult describes a completed Save.
type SaveResult struct {
	Path         string  `json:"path"`
	Backup       string  `json:"backup,omitempty"`
	Ranges       []Range `json:"ranges"`
	BytesChanged int     `json:"bytes_changed"`
	InPlace      bool    `json:"in_place"`
	DryRun       bool    `json:"dry_run,omitempty"`
}

// Save persists the changes made through App.
//
// In place, only the modified ranges are written back and nothing happens if
// there are none. With Output set the whole binary is written atomically to
// that path, even when unchanged.
func (f *File) Save(ctx context.Context, opts *SaveOptions) (*SaveResult, error) {
	if opts == nil {
		opts = &SaveOptions{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &SaveResult{
		Path:         f.path,
		Ranges:       f.app.Changes(),
		BytesChanged: f.app.changedBytes(),
		InPlace:      true,
		DryRun:       opts.DryRun,
	}
	if opts.Output != "" && !samePath(opts.Output, f.path) {
		res.Path = opts.Output
		res.InPlace = false
	}
	if opts.DryRun {
		return res, nil
	}

	if !res.InPlace {
		w := &writer.FileWriter{Path: opts.Output}
		if err := w.Write(f.app.Bytes()); err != nil {
			return nil, fmt.Errorf("write %s: %w", opts.Output, err)
		}
		return res, nil
	}

	if !f.app.Dirty() {
		return res, nil
	}
	if opts.Backup {
		backup, err := writer.Backup(f.path)
		if err != nil {
			return nil, err
		}
		res.Backup = backup
	}
	w := &writer.RangeWriter{Path: f.path, FullSync: opts.FullSync}
	if err := w.WriteRanges(ctx, f.app.Bytes(), f.dirtyRanges()); err != nil {
		return nil, fmt.Errorf("write %s: %w", f.path, err)
	}
	f.app.changes.Reset()
	return res, nil
}

func (f *File) dirtyRanges() []dirty.Range { return f.app.changes.Ranges() }

// Close releases the mapping. The App must not be used afterwards.
func (f *File) Close() error {
	if f.cleanup == nil {
		return nil
	}
	err := f.cleanup()
	f.cleanup = nil
	return err
}

func samePath(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return aa == bb
}
