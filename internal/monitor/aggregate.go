package monitor

import (
	"math"

	"github.com/paywatch/paywatch-backend/internal/models"
)

// ComputeWindowMetrics derives per-status counts, rate-of-total, and
// per-period dispersion from a set of observations. Pure function; safe to
// call with zero observations, returning an empty snapshot.
func ComputeWindowMetrics(observations []models.Observation, windowMinutes int) models.WindowMetrics {
	metrics := models.WindowMetrics{
		Statuses:      make(map[string]models.StatusMetrics),
		WindowMinutes: windowMinutes,
	}
	if len(observations) == 0 {
		return metrics
	}

	total := 0
	counts := make(map[string][]float64)
	for _, obs := range observations {
		total += obs.Count
		counts[obs.Status] = append(counts[obs.Status], float64(obs.Count))
	}
	metrics.Total = total

	for status, values := range counts {
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		rate := 0.0
		if total > 0 {
			rate = sum / float64(total) * 100
		}
		metrics.Statuses[status] = models.StatusMetrics{
			Count:        int(sum),
			Rate:         rate,
			AvgPerPeriod: sum / float64(len(values)),
			StdPerPeriod: sampleStd(values),
		}
	}
	return metrics
}

// sampleStd is the sample standard deviation (n-1 denominator). A single
// sample has no dispersion and yields 0, not NaN.
func sampleStd(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n - 1)
	return math.Sqrt(variance)
}
