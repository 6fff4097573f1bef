// Package patch neutralizes known debugging strings inside an application
// binary. Every replacement is written byte for byte over the matched range,
// so the binary never changes length and no other offset moves.
package patch

import (
	"github.com/joshuapare/hardenkit/internal/buf"
	"github.com/joshuapare/hardenkit/pkg/types"
)

// replacer rewrites a matched region in place. Implementations must not
// change len(region); they only ever see the exact match.
type replacer interface {
	replace(region []byte)
}

// target is the compile-time description of one patchable option.
type target struct {
	search   []byte
	fallback []byte // optional alternate layout, tried once when search misses
	replacer replacer
}

// Apply disables opt in binary and returns the rewritten range.
//
// The first byte-exact match of the option's pattern is used. If there is
// none, the option's fallback pattern is tried once. If neither matches the
// option's not-present error is returned and binary is untouched; this is
// also what a second Apply of the same option reports.
func Apply(binary []byte, opt types.Option) (types.Range, error) {
	t, ok := lookup(opt)
	if !ok {
		return types.Range{}, types.Wrap(types.OptionNotPresent(opt))
	}

	start, end, found := buf.Index(binary, t.search)
	if !found {
		start, end, found = buf.Index(binary, t.fallback)
	}
	if !found {
		return types.Range{}, types.Wrap(types.OptionNotPresent(opt))
	}

	t.replacer.replace(binary[start:end])
	return types.Range{Start: start, End: end}, nil
}

// Disable is Apply without the range.
func Disable(binary []byte, opt types.Option) error {
	_, err := Apply(binary, opt)
	return err
}

// Find reports where opt would be patched without modifying binary.
func Find(binary []byte, opt types.Option) (types.Range, bool) {
	t, ok := lookup(opt)
	if !ok {
		return types.Range{}, false
	}
	start, end, found := buf.Index(binary, t.search)
	if !found {
		start, end, found = buf.Index(binary, t.fallback)
	}
	return types.Range{Start: start, End: end}, found
}

// Pattern returns the primary and fallback search patterns of opt. The
// fallback is nil for every option but Inspect.
func Pattern(opt types.Option) (search, fallback []byte, ok bool) {
	t, ok := lookup(opt)
	if !ok {
		return nil, nil, false
	}
	return t.search, t.fallback, true
}

func lookup(opt types.Option) (target, bool) {
	var (
		t  target
		ok bool
	)
	switch o := opt.(type) {
	case types.NodeFlag:
		t, ok = nodeFlags[o]
	case types.ElectronOption:
		t, ok = electronOptions[o]
	case types.DevToolsMessage:
		t, ok = devToolsMessages[o]
	}
	return t, ok
}
