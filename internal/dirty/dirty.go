// Package dirty tracks which byte ranges of a binary have been modified, so
// a patched file can be saved by rewriting only the bytes that changed.
//
// Trackers are not thread-safe. One tracker belongs to one buffer.
package dirty

import (
	"sort"

	"github.com/joshuapare/hardenkit/pkg/types"
)

// defaultRangeCapacity covers a full hardening pass (8 fuses and 14 options)
// without growing.
const defaultRangeCapacity = 32

// Range is a dirty byte range (absolute offsets into the binary).
type Range struct {
	Off int64
	Len int64
}

// End returns the offset one past the range.
func (r Range) End() int64 { return r.Off + r.Len }

// Span returns r as a half-open range.
func (r Range) Span() types.Range {
	return types.Range{Start: int(r.Off), End: int(r.End())}
}

// Tracker accumulates dirty ranges.
type Tracker struct {
	ranges []Range
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ranges: make([]Range, 0, defaultRangeCapacity)}
}

// Add records length bytes at off as modified. Empty ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 || off < 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Empty reports whether nothing has been recorded.
func (t *Tracker) Empty() bool { return len(t.ranges) == 0 }

// Reset clears all tracked ranges.
func (t *Tracker) Reset() { t.ranges = t.ranges[:0] }

// Raw returns a copy of the uncoalesced ranges in the order they were added.
func (t *Tracker) Raw() []Range {
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// Ranges returns the tracked ranges sorted by offset with overlapping and
// adjacent ranges merged.
func (t *Tracker) Ranges() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	sorted := t.Raw()
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Off < sorted[j].Off
	})

	merged := make([]Range, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Off <= current.End() {
			if next.End() > current.End() {
				current.Len = next.End() - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// Bytes returns the number of distinct dirty bytes.
func (t *Tracker) Bytes() int64 {
	var n int64
	for _, r := range t.Ranges() {
		n += r.Len
	}
	return n
}
