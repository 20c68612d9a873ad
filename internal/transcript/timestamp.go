package transcript

import (
	"fmt"
	"math"
)

// millis converts seconds to whole milliseconds, rounding half to even.
func millis(seconds float64) int64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int64(math.RoundToEven(seconds * 1000))
}

// formatTimestamp renders HH:MM:SS<sep>mmm.
func formatTimestamp(seconds float64, sep byte) string {
	ms := millis(seconds)
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	secs := ms / 1000
	ms -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, ms)
}
