package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// findMax returns a 0..max range for non-negative series such as rates,
// so that a flat line of zeros stays at the bottom.
func findMax(data []float64) (minVal, maxVal float64) {
	for _, v := range data {
		if v > maxVal {
			maxVal = v
		}
	}
	return 0, maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderSparkline renders a single-row percentage sparkline. The color
// follows the most recent value.
func RenderSparkline(data []float64, width int, t Thresholds) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	line := sparkline(data, width, 0, 100)
	return t.Style(data[len(data)-1]).Render(line)
}

// RenderRateSparkline renders a single-row sparkline for unbounded values,
// scaled to the series maximum.
func RenderRateSparkline(data []float64, width int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	minVal, maxVal := findMax(data)
	return lipgloss.NewStyle().Foreground(color).Render(sparkline(data, width, minVal, maxVal))
}

func sparkline(data []float64, width int, minVal, maxVal float64) string {
	resampled := data
	if len(data) > width {
		resampled = resampleData(data, width)
	}

	var b strings.Builder
	// Right-align short series so the newest value is always at the edge.
	if pad := width - len(resampled); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	for _, val := range resampled {
		normalized := normalizeValue(val, minVal, maxVal)
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		b.WriteRune(sparklineBlocks[idx])
	}
	return b.String()
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	// Downsampling: use max within each bucket to preserve peaks
	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	// Upsampling: linear interpolation
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
