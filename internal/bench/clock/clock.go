// Package clock supplies the millisecond time sources used to time batches.
//
// A Now function returns milliseconds as float64. Readings are only
// meaningful relative to other readings from the same Now; they are not
// comparable across processes or runs.
package clock

import (
	"fmt"
	"time"
)

// Now returns the current time in milliseconds.
type Now func() float64

// Method selects the time source.
type Method string

const (
	// Auto picks the best source available, currently Monotonic.
	Auto Method = "auto"
	// Monotonic reads the runtime's monotonic clock with nanosecond resolution.
	Monotonic Method = "monotonic"
	// Wall derives time from the wall clock and clamps it so it never goes backwards.
	Wall Method = "wall"
)

var validMethods = map[Method]bool{
	Auto:      true,
	Monotonic: true,
	Wall:      true,
}

// ParseMethod converts a user supplied name into a Method. Empty means Auto.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return Auto, nil
	}
	m := Method(s)
	if !validMethods[m] {
		return "", fmt.Errorf("unknown clock method %q", s)
	}
	return m, nil
}

// New returns a Now for the given method.
func New(method Method) (Now, error) {
	switch method {
	case Auto, Monotonic, "":
		return NewMonotonic(), nil
	case Wall:
		return NewWall(), nil
	default:
		return nil, fmt.Errorf("unknown clock method %q", method)
	}
}

// NewMonotonic returns a Now backed by time.Since, which uses the monotonic
// reading embedded in time.Time.
func NewMonotonic() Now {
	base := time.Now()
	return func() float64 {
		return float64(time.Since(base).Nanoseconds()) / 1e6
	}
}

// NewWall returns a Now built from Unix wall time. The wall clock can step
// backwards, so each reading is clamped to the previous one. Not safe for
// concurrent use.
func NewWall() Now {
	base := time.Now().Round(0).UnixNano()
	var last float64
	return func() float64 {
		ms := float64(time.Now().Round(0).UnixNano()-base) / 1e6
		if ms < last {
			return last
		}
		last = ms
		return ms
	}
}
