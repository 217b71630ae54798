package report

import (
	"fmt"
	"math"
)

// FormatTime renders milliseconds with the largest unit that keeps the
// value at or above one, from ns up to s.
func FormatTime(ms float64) string {
	ns := ms * 1e6
	switch {
	case ns < 1_000:
		return fmt.Sprintf("%.2fns", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.2fµs", ns/1_000)
	case ms < 1_000:
		return fmt.Sprintf("%.2fms", ms)
	default:
		return fmt.Sprintf("%.2fs", ms/1_000)
	}
}

func FormatOps(ops float64) string {
	return fmt.Sprintf("%.0f", math.Round(ops))
}

func FormatMargin(margin float64) string {
	return fmt.Sprintf("±%.2f%%", margin)
}

func FormatChange(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}
