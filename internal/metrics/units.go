package metrics

import "math"

const (
	bytesPerKB = 1024
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BytesToGB converts bytes to GB rounded to two decimals.
func BytesToGB(b uint64) float64 {
	return Round2(float64(b) / bytesPerGB)
}

// BytesToMB converts bytes to MB rounded to two decimals.
func BytesToMB(b uint64) float64 {
	return Round2(float64(b) / bytesPerMB)
}

// RateToKB converts a bytes/sec rate to KB/sec rounded to two decimals.
func RateToKB(bytesPerSec float64) float64 {
	return Round2(bytesPerSec / bytesPerKB)
}

// Percent returns used/total*100 rounded to two decimals and clamped to
// [0,100]. A zero total yields 0.
func Percent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return ClampPercent(Round2(float64(used) / float64(total) * 100))
}

// ClampPercent bounds v to [0,100].
func ClampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
