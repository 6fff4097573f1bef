package types

// Range is a half-open byte range [Start, End) inside an application binary.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes in the range.
func (r Range) Len() int { return r.End - r.Start }
