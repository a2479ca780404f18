package aggregation

import (
	"uc-timelapse/internal/domain"
)

// SimpleMovingAverage applies a trailing moving average of the given window.
//
// The first window-1 outputs repeat the input unchanged (not enough history);
// output[i] for i >= window-1 is the mean of values[i-window+1 .. i].
// The window never looks ahead. window <= 1 returns a copy of values.
func SimpleMovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	if window <= 1 {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(window)
	}

	return out
}

// Smooth returns a copy of matrix with every ranked column replaced by its
// moving average. Each column is computed only from its own raw values.
func Smooth(matrix []domain.DataPoint, ranked []domain.SeriesKey, window int) []domain.DataPoint {
	out := make([]domain.DataPoint, len(matrix))
	for i, p := range matrix {
		out[i] = domain.DataPoint{
			Date:   p.Date,
			Values: make(map[domain.SeriesKey]float64, len(ranked)),
		}
	}

	for _, key := range ranked {
		raw := make([]float64, len(matrix))
		for i, p := range matrix {
			raw[i] = p.Values[key]
		}

		smoothed := SimpleMovingAverage(raw, window)
		for i := range out {
			out[i].Values[key] = smoothed[i]
		}
	}

	return out
}
