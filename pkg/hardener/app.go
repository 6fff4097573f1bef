package hardener

import (
	"github.com/joshuapare/hardenkit/internal/dirty"
	"github.com/joshuapare/hardenkit/internal/format"
	"github.com/joshuapare/hardenkit/internal/patch"
	"github.com/joshuapare/hardenkit/pkg/types"
)

// Range is a half-open byte range [Start, End) inside the application binary.
type Range = types.Range

// App is a packaged Electron application binary.
//
// App does not own its bytes. It holds the caller's slice for its whole
// lifetime and mutates it in place; the slice must not be used elsewhere
// while the App is in use. An App is not safe for concurrent use.
type App struct {
	contents []byte
	wire     Range
	changes  *dirty.Tracker
}

// FromBytes locates the fuse wire in contents and returns a handle over it.
//
// It fails if contents has no fuse sentinel, a truncated header, or a fuse
// schema version other than the supported one.
func FromBytes(contents []byte) (*App, error) {
	wire, err := format.FindWire(contents)
	if err != nil {
		return nil, err
	}
	return &App{
		contents: contents,
		wire:     wire,
		changes:  dirty.NewTracker(),
	}, nil
}

// Bytes returns the (possibly modified) binary. It is the slice passed to FromBytes.
func (a *App) Bytes() []byte { return a.contents }

// Wire returns the location of the fuse wire. The range may extend past the
// end of the binary if the header claims more bytes than exist.
func (a *App) Wire() Range { return a.wire }

// wireBytes returns the fuse wire, or a FuseDoesNotExist error for f when
// the wire runs past the end of the binary.
func (a *App) wireBytes(f types.Fuse) ([]byte, error) {
	w, ok := format.Wire(a.contents, a.wire)
	if !ok {
		return nil, types.Wrap(types.FuseDoesNotExist(f))
	}
	return w, nil
}

// FuseStatus returns the current status of f. It never returns Modified.
func (a *App) FuseStatus(f types.Fuse) (types.FuseStatus, error) {
	w, err := a.wireBytes(f)
	if err != nil {
		return types.FuseStatus{}, err
	}
	return format.FuseStatus(w, f)
}

// SetFuseStatus sets f to enabled.
//
// Setting a fuse to the value it already has changes nothing and returns its
// Present status. Otherwise one byte is written and Modified is returned.
// Removed fuses fail with a RemovedFuse error.
func (a *App) SetFuseStatus(f types.Fuse, enabled bool) (types.FuseStatus, error) {
	w, err := a.wireBytes(f)
	if err != nil {
		return types.FuseStatus{}, err
	}
	st, err := format.SetFuse(w, f, enabled)
	if err != nil {
		return st, err
	}
	if st.Kind == types.StatusModified {
		pos, _ := format.SchemaPosition(f)
		a.changes.Add(a.wire.Start+pos, 1)
	}
	return st, nil
}

// PatchOption disables opt anywhere in the binary.
//
// After a successful patch the option's string no longer exists, so patching
// the same option again fails with its not-present error.
func (a *App) PatchOption(opt types.Option) error {
	r, err := patch.Apply(a.contents, opt)
	if err != nil {
		return err
	}
	a.changes.Add(r.Start, r.Len())
	return nil
}

// Locate reports where opt would be patched, without patching it.
func (a *App) Locate(opt types.Option) (Range, bool) {
	return patch.Find(a.contents, opt)
}

// FuseReport is the status of one fuse as seen by Fuses.
type FuseReport struct {
	Fuse     types.Fuse       `json:"fuse"`
	Electron string           `json:"electron_name"`
	Offset   int              `json:"offset"`
	Status   types.FuseStatus `json:"status"`
	Err      error            `json:"-"`
	Error    string           `json:"error,omitempty"`
}

// Fuses returns the status of every known fuse. A fuse that cannot be read
// carries its error instead of aborting the listing.
func (a *App) Fuses() []FuseReport {
	fuses := types.AllFuses()
	out := make([]FuseReport, 0, len(fuses))
	for _, f := range fuses {
		pos, _ := format.SchemaPosition(f)
		rep := FuseReport{Fuse: f, Electron: f.ElectronName(), Offset: a.wire.Start + pos}
		rep.Status, rep.Err = a.FuseStatus(f)
		if rep.Err != nil {
			rep.Error = rep.Err.Error()
		}
		out = append(out, rep)
	}
	return out
}

// Changes returns the byte ranges modified through this App, sorted and
// merged.
func (a *App) Changes() []Range {
	ranges := a.changes.Ranges()
	out := make([]Range, len(ranges))
	for i, r := range ranges {
		out[i] = r.Span()
	}
	return out
}

// Dirty reports whether any byte has been modified.
func (a *App) Dirty() bool { return !a.changes.Empty() }
