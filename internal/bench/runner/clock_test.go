package runner

// fakeClock is advanced explicitly by task bodies so timings are exact.
type fakeClock struct {
	ms float64
}

func (c *fakeClock) now() float64 { return c.ms }

func (c *fakeClock) advance(ms float64) { c.ms += ms }

// costly returns a body that advances c by ms per call and counts its calls.
func (c *fakeClock) costly(ms float64, calls *int) func() {
	return func() {
		*calls++
		c.advance(ms)
	}
}
