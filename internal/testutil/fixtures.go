// Package testutil builds synthetic application binaries for tests. No real
// Electron binary is checked in, so fixtures assemble the fuse wire and the
// patchable strings the way Electron lays them out, surrounded by filler.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// Sentinel duplicates the fuse sentinel so fixtures do not depend on the
// package under test.
const Sentinel = "dL7pKGdnNz796PbbjQWNKmHXBZaB9tsX"

// DefaultWire holds Electron's stock fuse values in schema order: RunAsNode,
// NodeOptions, NodeCliInspect and GrantFileProtocolExtraPrivileges on, the
// rest off.
var DefaultWire = []byte("10110001")

// filler is deterministic junk placed around fixture sections.
func filler(n int, seed byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = seed + byte(i%7)
	}
	return out
}

// WireSection returns sentinel + version + length + wire.
func WireSection(version byte, wire []byte) []byte {
	var b bytes.Buffer
	b.WriteString(Sentinel)
	b.WriteByte(version)
	b.WriteByte(byte(len(wire)))
	b.Write(wire)
	return b.Bytes()
}

// FuseBinary returns a binary with a version 1 wire holding wire, preceded
// and followed by filler.
func FuseBinary(wire []byte) []byte {
	var b bytes.Buffer
	b.Write(filler(64, 'A'))
	b.Write(WireSection(1, wire))
	b.Write(filler(64, 'a'))
	return b.Bytes()
}

// NodeFlagStrings are the Node.js debugging flags as they appear in the
// option table of a Node.js build, NUL separated.
var NodeFlagStrings = []string{
	"\x00--inspect\x00",
	"\x00--inspect-brk\x00",
	"\x00--inspect-port\x00",
	"\x00--debug\x00",
	"\x00--debug-brk\x00",
	"\x00--debug-port\x00",
	"\x00--inspect-brk-node\x00",
	"\x00--inspect-publish-uid\x00",
}

// InspectWindowsLayout is how Electron 13 Windows binaries store --inspect.
const InspectWindowsLayout = "\xAA--inspect\x00"

// ElectronOptionStrings are the Electron switches, NUL separated.
var ElectronOptionStrings = []string{
	"\x00js-flags\x00",
	"\x00remote-debugging-pipe\x00",
	"\x00remote-debugging-port\x00",
	"\x00wait-for-debugger-children\x00",
}

// DevToolsMessageStrings are the DevTools stdout templates.
var DevToolsMessageStrings = []string{
	"\x00Debugger listening on %s\n\x00",
	"\x00\nDevTools listening on ws://%s%s\n\x00",
}

// FlagsBinary returns a blob containing every patchable string once, with
// filler between each so matches never overlap.
func FlagsBinary() []byte {
	var b bytes.Buffer
	seed := byte('K')
	for _, group := range [][]string{NodeFlagStrings, ElectronOptionStrings, DevToolsMessageStrings} {
		for _, s := range group {
			b.Write(filler(16, seed))
			b.WriteString(s)
			seed++
		}
	}
	b.Write(filler(16, seed))
	return b.Bytes()
}

// WindowsFlagsBinary returns a blob where --inspect only exists in the
// Electron 13 Windows layout.
func WindowsFlagsBinary() []byte {
	var b bytes.Buffer
	b.Write(filler(16, 'W'))
	b.WriteString(InspectWindowsLayout)
	b.Write(filler(16, 'w'))
	return b.Bytes()
}

// AppBinary returns a full fixture: the default wire followed by every
// patchable string.
func AppBinary() []byte {
	out := FuseBinary(DefaultWire)
	return append(out, FlagsBinary()...)
}

// WriteTemp writes data to a file in a fresh temp directory and returns its path.
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o755); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// Diff returns the offsets at which a and b differ. Lengths must match.
func Diff(t *testing.T, a, b []byte) []int {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("length changed: %d != %d", len(a), len(b))
	}
	var out []int
	for i := range a {
		if a[i] != b[i] {
			out = append(out, i)
		}
	}
	return out
}
