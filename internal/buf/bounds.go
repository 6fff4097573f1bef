// Package buf contains bounds-checked helpers for reading and locating data
// inside untrusted binary buffers. None of the helpers panic on bad offsets.
package buf

import "bytes"

// Window returns the half-open sub-slice b[start:end] if it is within bounds.
func Window(b []byte, start, end int) ([]byte, bool) {
	if start < 0 || end < start || end > len(b) {
		return nil, false
	}
	return b[start:end], true
}

// Byte returns b[off] if off is within bounds.
func Byte(b []byte, off int) (byte, bool) {
	if off < 0 || off >= len(b) {
		return 0, false
	}
	return b[off], true
}

// Index locates the first byte-exact occurrence of pattern in b and returns
// its half-open range. An empty pattern never matches.
func Index(b, pattern []byte) (int, int, bool) {
	if len(pattern) == 0 {
		return 0, 0, false
	}
	start := bytes.Index(b, pattern)
	if start < 0 {
		return 0, 0, false
	}
	return start, start + len(pattern), true
}
