// Package format houses the low-level decoder for the Electron fuse wire.
// It locates the wire inside a binary and reads or flips single fuse bytes,
// always in place and always bounds-checked.
package format

import "github.com/joshuapare/hardenkit/pkg/types"

// Sentinel marks where the fuse wire header starts inside an application
// binary. It is searched for byte-exact; the first match wins.
//
// Header layout following the sentinel:
//
//	Offset  Size  Description
//	------  ----  ---------------------------------------------
//	 +0x00   1    Schema version (only SupportedVersion is understood)
//	 +0x01   1    Wire length N
//	 +0x02   N    Wire bytes, one per fuse at its schema position
var Sentinel = []byte("dL7pKGdnNz796PbbjQWNKmHXBZaB9tsX")

const (
	// SentinelSize is the length of Sentinel in bytes.
	SentinelSize = 32

	// SupportedVersion is the only fuse schema version this package decodes.
	SupportedVersion = 1

	// VersionOffset and LengthOffset are relative to the end of the sentinel.
	VersionOffset = 0
	LengthOffset  = 1

	// HeaderSize is the number of bytes between the sentinel and the wire.
	HeaderSize = 2
)

// Fuse byte encodings.
const (
	FuseDisabled byte = '0'
	FuseEnabled  byte = '1'
	FuseRemoved  byte = 'r'
)

// schemaPositions maps every fuse to its byte within the version 1 wire.
// Positions are disjoint, so writing one fuse can never touch another.
var schemaPositions = map[types.Fuse]int{
	types.RunAsNode:                            0,
	types.EncryptedCookies:                     1,
	types.NodeOptions:                          2,
	types.NodeCliInspect:                       3,
	types.EmbeddedAsarIntegrityValidation:      4,
	types.OnlyLoadAppFromAsar:                  5,
	types.LoadBrowserProcessSpecificV8Snapshot: 6,
	types.GrantFileProtocolExtraPrivileges:     7,
}

// SchemaPosition returns the wire offset of f.
func SchemaPosition(f types.Fuse) (int, bool) {
	pos, ok := schemaPositions[f]
	return pos, ok
}
