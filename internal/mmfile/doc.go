// Package mmfile loads application binaries into a mutable buffer that is
// independent of the file on disk until it is explicitly saved.
//
// On unix the buffer is a MAP_PRIVATE mapping, so large binaries are paged in
// lazily and patches only copy the pages they touch.
package mmfile
