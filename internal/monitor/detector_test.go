package monitor

import (
	"testing"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectorStatisticalOnlyCritical(t *testing.T) {
	// denied at 9.0% is below the 10% rule warning but z = 4.0 vs the baseline.
	d := NewDetector(testConfig())
	metrics := models.WindowMetrics{
		Statuses: map[string]models.StatusMetrics{
			"denied":   {Count: 9, Rate: 9.0},
			"approved": {Count: 91, Rate: 91.0},
		},
		Total: 100,
	}
	baseline := map[string]models.StatusBaseline{
		"denied": {Status: "denied", MeanRate: 5.0, StdRate: 1.0},
	}

	alerts := d.Evaluate(metrics, baseline, time.Now())
	require.Len(t, alerts, 1)

	alert := alerts[0]
	assert.Equal(t, models.SeverityCritical, alert.Severity)
	assert.Equal(t, 40.0, alert.AnomalyScore)
	assert.Equal(t, "denied_anomaly", alert.AlertType)
	assert.Equal(t, 9.0, alert.MetricValue)
	// Threshold reported is the rule critical value even for a purely
	// statistical trigger.
	assert.Equal(t, 15.0, alert.ThresholdValue)
}

func TestDetectorRuleOnlyCriticalWithoutBaseline(t *testing.T) {
	d := NewDetector(testConfig())
	metrics := models.WindowMetrics{
		Statuses: map[string]models.StatusMetrics{
			"failed":   {Count: 25, Rate: 2.5},
			"approved": {Count: 975, Rate: 97.5},
		},
		Total: 1000,
	}

	alerts := d.Evaluate(metrics, map[string]models.StatusBaseline{}, time.Now())
	require.Len(t, alerts, 1)

	alert := alerts[0]
	assert.Equal(t, models.SeverityCritical, alert.Severity)
	assert.Equal(t, 50.0, alert.AnomalyScore)
	assert.Equal(t, 2.0, alert.ThresholdValue)
}

func TestDetectorBelowAllThresholds(t *testing.T) {
	d := NewDetector(testConfig())
	metrics := models.WindowMetrics{
		Statuses: map[string]models.StatusMetrics{
			"reversed": {Count: 1, Rate: 1.0},
			"approved": {Count: 99, Rate: 99.0},
		},
		Total: 100,
	}
	baseline := map[string]models.StatusBaseline{
		"reversed": {Status: "reversed", MeanRate: 1.0, StdRate: 1.0},
	}

	alerts := d.Evaluate(metrics, baseline, time.Now())
	assert.Empty(t, alerts)
}

func TestDetectorCombinedScoreClamped(t *testing.T) {
	// Both checks critical: 50 + 40 = 90, which must stay within [0, 100].
	d := NewDetector(testConfig())
	metrics := models.WindowMetrics{
		Statuses: map[string]models.StatusMetrics{
			"failed":   {Count: 50, Rate: 50.0},
			"approved": {Count: 50, Rate: 50.0},
		},
		Total: 100,
	}
	baseline := map[string]models.StatusBaseline{
		"failed": {Status: "failed", MeanRate: 1.0, StdRate: 1.0},
	}

	alerts := d.Evaluate(metrics, baseline, time.Now())
	require.Len(t, alerts, 1)

	alert := alerts[0]
	assert.Equal(t, models.SeverityCritical, alert.Severity)
	assert.Equal(t, 90.0, alert.AnomalyScore)
	assert.LessOrEqual(t, alert.AnomalyScore, 100.0)
	assert.GreaterOrEqual(t, alert.AnomalyScore, 0.0)
}

func TestDetectorWarningCombination(t *testing.T) {
	// Rule warning (30) + statistical warning (25) = 55, severity WARNING.
	d := NewDetector(testConfig())
	metrics := models.WindowMetrics{
		Statuses: map[string]models.StatusMetrics{
			"reversed": {Count: 3, Rate: 3.0},
			"approved": {Count: 97, Rate: 97.0},
		},
		Total: 100,
	}
	baseline := map[string]models.StatusBaseline{
		// z = |3.0 - 0.5| / max(1.0, 1.0) = 2.5: warning, not critical.
		"reversed": {Status: "reversed", MeanRate: 0.5, StdRate: 0.4},
	}

	alerts := d.Evaluate(metrics, baseline, time.Now())
	require.Len(t, alerts, 1)

	alert := alerts[0]
	assert.Equal(t, models.SeverityWarning, alert.Severity)
	assert.Equal(t, 55.0, alert.AnomalyScore)
	assert.Equal(t, 2.0, alert.ThresholdValue)
}

func TestDetectorZeroStdFloor(t *testing.T) {
	// A flat baseline (std 0) must not blow up into an infinite z-score; the
	// divisor is floored at 1.0.
	d := NewDetector(testConfig())
	metrics := models.WindowMetrics{
		Statuses: map[string]models.StatusMetrics{
			"denied":   {Count: 6, Rate: 6.0},
			"approved": {Count: 94, Rate: 94.0},
		},
		Total: 100,
	}
	baseline := map[string]models.StatusBaseline{
		"denied": {Status: "denied", MeanRate: 5.0, StdRate: 0.0},
	}

	// z = |6 - 5| / 1.0 = 1.0: below the 2.0 warning sigma, no alert.
	alerts := d.Evaluate(metrics, baseline, time.Now())
	assert.Empty(t, alerts)
}

func TestDetectorIgnoresUnmonitoredStatuses(t *testing.T) {
	d := NewDetector(testConfig())
	metrics := models.WindowMetrics{
		Statuses: map[string]models.StatusMetrics{
			// refunded spikes contribute to totals but never alert
			"refunded": {Count: 50, Rate: 50.0},
			"approved": {Count: 50, Rate: 50.0},
		},
		Total: 100,
	}

	alerts := d.Evaluate(metrics, map[string]models.StatusBaseline{}, time.Now())
	assert.Empty(t, alerts)
}
