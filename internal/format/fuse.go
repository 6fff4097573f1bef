package format

import (
	"github.com/joshuapare/hardenkit/internal/buf"
	"github.com/joshuapare/hardenkit/pkg/types"
)

// FuseStatus decodes the status of f from wire. It never writes.
func FuseStatus(wire []byte, f types.Fuse) (types.FuseStatus, error) {
	pos, ok := SchemaPosition(f)
	if !ok {
		return types.FuseStatus{}, types.Wrap(types.FuseDoesNotExist(f))
	}
	b, ok := buf.Byte(wire, pos)
	if !ok {
		return types.FuseStatus{}, types.Wrap(types.FuseDoesNotExist(f))
	}

	switch b {
	case FuseEnabled:
		return types.Present(true), nil
	case FuseDisabled:
		return types.Present(false), nil
	case FuseRemoved:
		return types.Removed(), nil
	default:
		return types.FuseStatus{}, types.Wrap(types.UnknownFuse(f, b))
	}
}

// EnableFuse sets f to enabled. See SetFuse.
func EnableFuse(wire []byte, f types.Fuse) (types.FuseStatus, error) {
	return SetFuse(wire, f, true)
}

// DisableFuse sets f to disabled. See SetFuse.
func DisableFuse(wire []byte, f types.Fuse) (types.FuseStatus, error) {
	return SetFuse(wire, f, false)
}

// SetFuse flips f to enabled in place.
//
// A fuse already in the requested state is left untouched and its Present
// status is returned. Otherwise exactly one byte is written and the result is
// Modified. Removed fuses are never written.
func SetFuse(wire []byte, f types.Fuse, enabled bool) (types.FuseStatus, error) {
	status, err := FuseStatus(wire, f)
	if err != nil {
		return types.FuseStatus{}, err
	}

	switch status.Kind {
	case types.StatusRemoved:
		return types.FuseStatus{}, types.RemovedFuse(f)
	case types.StatusPresent:
		if status.Enabled == enabled {
			return status, nil
		}
	}

	pos, _ := SchemaPosition(f)
	if enabled {
		wire[pos] = FuseEnabled
	} else {
		wire[pos] = FuseDisabled
	}
	return types.Modified(), nil
}
