package format

import (
	"github.com/joshuapare/hardenkit/internal/buf"
	"github.com/joshuapare/hardenkit/pkg/types"
)

// FindWire locates the fuse wire in binary.
//
// The returned range is not validated against len(binary). A wire that claims
// more bytes than the binary holds is only rejected when a fuse inside it is
// accessed, which then fails with FuseDoesNotExist.
func FindWire(binary []byte) (types.Range, error) {
	_, sentinelEnd, ok := buf.Index(binary, Sentinel)
	if !ok {
		return types.Range{}, types.Wrap(types.NoSentinel())
	}

	versionOff := sentinelEnd + VersionOffset
	version, ok := buf.Byte(binary, versionOff)
	if !ok {
		return types.Range{}, types.Wrap(types.NoFuseVersion())
	}
	if version != SupportedVersion {
		return types.Range{}, types.FuseVersionMismatch(SupportedVersion, version)
	}

	wireLen, ok := buf.Byte(binary, sentinelEnd+LengthOffset)
	if !ok {
		return types.Range{}, types.Wrap(types.NoFuseLength())
	}

	start := versionOff + HeaderSize
	return types.Range{Start: start, End: start + int(wireLen)}, nil
}

// Wire returns the wire bytes of binary described by r, aliasing binary.
// It reports false when any part of r lies outside binary.
func Wire(binary []byte, r types.Range) ([]byte, bool) {
	return buf.Window(binary, r.Start, r.End)
}
