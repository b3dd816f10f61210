// Package counter implements a saturating integer counter clamped to a
// fixed, compile-time range.
package counter

// Counter is a signed value that stays within [Min, Max] no matter how far
// it is pushed. Add and Sub clamp their result instead of wrapping or
// overflowing.
type Counter struct {
	value    int
	min, max int
}

// New creates a Counter bounded by [min, max] and initialized to value.
// value must already lie within [min, max].
func New(value, min, max int) Counter {
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}

	return Counter{value: value, min: min, max: max}
}

// Value returns the current value.
func (c Counter) Value() int {
	return c.value
}

// Min returns the lower bound.
func (c Counter) Min() int {
	return c.min
}

// Max returns the upper bound.
//
// Note: the ChampSim source this counter is ported from has a copy-paste
// bug where min() returns Max instead of Min (spec.md §9, item 2). This
// implementation returns the correct bound.
func (c Counter) Max() int {
	return c.max
}

// Add returns a Counter whose value is c.Value()+k, clamped to [Min, Max].
func (c Counter) Add(k int) Counter {
	v := c.value + k
	if v > c.max {
		v = c.max
	}
	if v < c.min {
		v = c.min
	}

	c.value = v

	return c
}

// Sub returns a Counter whose value is c.Value()-k, clamped to [Min, Max].
func (c Counter) Sub(k int) Counter {
	return c.Add(-k)
}

// Inc is shorthand for Add(1).
func (c Counter) Inc() Counter {
	return c.Add(1)
}

// Dec is shorthand for Sub(1).
func (c Counter) Dec() Counter {
	return c.Sub(1)
}

// AtMax reports whether the counter is saturated at its upper bound. This
// is the standard way callers detect saturation (spec.md §4.1).
func (c Counter) AtMax() bool {
	return c.value == c.max
}

// AtMin reports whether the counter is saturated at its lower bound.
func (c Counter) AtMin() bool {
	return c.value == c.min
}
