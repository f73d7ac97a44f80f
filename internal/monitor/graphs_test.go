package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		min, max float64
		want     float64
	}{
		{name: "lower bound", val: 0, min: 0, max: 100, want: 0},
		{name: "upper bound", val: 100, min: 0, max: 100, want: 1},
		{name: "midpoint", val: 50, min: 0, max: 100, want: 0.5},
		{name: "flat range", val: 7, min: 7, max: 7, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalizeValue(tt.val, tt.min, tt.max), 0.0001)
		})
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		name string
		val  int
		max  int
		want int
	}{
		{name: "within range", val: 5, max: 10, want: 5},
		{name: "at max", val: 10, max: 10, want: 10},
		{name: "over max", val: 15, max: 10, want: 10},
		{name: "negative clamped to zero", val: -5, max: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampInt(tt.val, tt.max))
		})
	}
}

func TestResampleData(t *testing.T) {
	tests := []struct {
		name       string
		data       []float64
		targetSize int
		wantLen    int
		wantNil    bool
	}{
		{name: "empty data returns nil", data: []float64{}, targetSize: 10, wantNil: true},
		{name: "zero target returns nil", data: []float64{1, 2, 3}, targetSize: 0, wantNil: true},
		{name: "same size returns original", data: []float64{1, 2, 3}, targetSize: 3, wantLen: 3},
		{name: "single value fills target", data: []float64{42}, targetSize: 5, wantLen: 5},
		{name: "downsampling reduces size", data: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, targetSize: 5, wantLen: 5},
		{name: "upsampling increases size", data: []float64{0, 100}, targetSize: 5, wantLen: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resampleData(tt.data, tt.targetSize)
			if tt.wantNil {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Len(t, result, tt.wantLen)
		})
	}
}

func TestResampleData_DownsamplingPreservesPeaks(t *testing.T) {
	data := []float64{10, 10, 10, 100, 10, 10, 10, 10, 10, 10}

	result := resampleData(data, 5)

	require.Len(t, result, 5)
	assert.Contains(t, result, 100.0, "downsampling should preserve peak values")
}

func TestResampleData_UpsamplingInterpolates(t *testing.T) {
	result := resampleData([]float64{0, 100}, 5)

	require.Len(t, result, 5)
	for i, want := range []float64{0, 25, 50, 75, 100} {
		assert.InDelta(t, want, result[i], 0.1)
	}
}

func TestSparkline_Levels(t *testing.T) {
	line := sparkline([]float64{0, 50, 100}, 3, 0, 100)
	assert.Equal(t, "▁▄█", line)
}

func TestSparkline_RightAlignsShortSeries(t *testing.T) {
	line := sparkline([]float64{100, 100}, 5, 0, 100)
	assert.Equal(t, "   ██", line)
}

func TestSparkline_DownsamplesLongSeries(t *testing.T) {
	data := make([]float64, 40)
	data[17] = 100

	line := sparkline(data, 10, 0, 100)

	assert.Equal(t, 10, len([]rune(line)))
	assert.Contains(t, line, "█", "peak should survive downsampling")
}

func TestRenderSparkline(t *testing.T) {
	th := DefaultThresholds()

	t.Run("empty data", func(t *testing.T) {
		assert.Empty(t, RenderSparkline(nil, 10, th))
	})

	t.Run("zero width", func(t *testing.T) {
		assert.Empty(t, RenderSparkline([]float64{1}, 0, th))
	})

	t.Run("colored by newest value", func(t *testing.T) {
		out := RenderSparkline([]float64{10, 95}, 2, th)
		want := lipgloss.NewStyle().Foreground(ColorCritical).Render("▁▇")
		assert.Equal(t, want, out)
	})
}

func TestRenderRateSparkline_ScalesToMax(t *testing.T) {
	out := RenderRateSparkline([]float64{0, 2048, 4096}, 3, ColorGraph)
	assert.Contains(t, out, "▁")
	assert.Contains(t, out, "█")
}

func TestRenderRateSparkline_FlatZerosStayLow(t *testing.T) {
	out := RenderRateSparkline([]float64{0, 0, 0}, 3, ColorGraph)
	assert.Contains(t, out, "▁▁▁")
	assert.False(t, strings.Contains(out, "█"))
}
