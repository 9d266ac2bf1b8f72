package monitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paywatch/paywatch-backend/internal/config"
	"github.com/paywatch/paywatch-backend/internal/models"
)

// Score contributions per check. Rule and statistical checks both run on every
// evaluation so the combined score reflects the strongest available evidence;
// the sum is clamped to 100.
const (
	ruleCriticalScore = 50
	ruleWarningScore  = 30
	statCriticalScore = 40
	statWarningScore  = 25
)

// Detector combines fixed-threshold rules with z-score deviation checks into a
// single severity and score per monitored status. Stateless; every evaluation
// is a pure function of the metrics snapshot and the baseline table.
type Detector struct {
	thresholds    map[string]config.Thresholds
	sigmaWarning  float64
	sigmaCritical float64
	minSamples    int
}

// NewDetector creates a detector from validated configuration.
func NewDetector(cfg *config.Config) *Detector {
	return &Detector{
		thresholds:    cfg.RuleThresholds(),
		sigmaWarning:  cfg.SigmaWarning,
		sigmaCritical: cfg.SigmaCritical,
		minSamples:    cfg.MinSamples,
	}
}

// MinSamples returns the admission threshold below which evaluation is skipped.
func (d *Detector) MinSamples() int {
	return d.minSamples
}

// Evaluate runs both checks for every monitored status present in the
// snapshot and returns zero or more alert candidates. Statuses without a rule
// threshold pair contribute to totals but never alert.
func (d *Detector) Evaluate(metrics models.WindowMetrics, baseline map[string]models.StatusBaseline, now time.Time) []models.Alert {
	var alerts []models.Alert
	for _, status := range models.MonitoredStatuses {
		sm, ok := metrics.Statuses[status]
		if !ok {
			continue
		}
		if alert := d.checkStatus(status, sm, baseline, now); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}

type checkHit struct {
	severity string
	score    float64
}

// checkStatus evaluates one status against its rule thresholds and baseline.
// Returns nil when neither check fires.
func (d *Detector) checkStatus(status string, sm models.StatusMetrics, baseline map[string]models.StatusBaseline, now time.Time) *models.Alert {
	ruleHit := d.ruleCheck(status, sm.Rate)

	var statHit *checkHit
	if b, ok := baseline[status]; ok {
		statHit = d.statisticalCheck(sm.Rate, b)
	}

	if ruleHit == nil && statHit == nil {
		return nil
	}

	score := 0.0
	severity := models.SeverityInfo
	if ruleHit != nil {
		score += ruleHit.score
		severity = ruleHit.severity
	}
	if statHit != nil {
		score += statHit.score
		if statHit.severity == models.SeverityCritical {
			severity = models.SeverityCritical
		} else if statHit.severity == models.SeverityWarning && severity != models.SeverityCritical {
			severity = models.SeverityWarning
		}
	}
	score = math.Min(100, score)

	return &models.Alert{
		ID:             uuid.New().String(),
		Timestamp:      now,
		AlertType:      status + "_anomaly",
		Severity:       severity,
		Status:         status,
		MetricValue:    sm.Rate,
		ThresholdValue: d.thresholdFor(status, severity),
		AnomalyScore:   score,
		Message:        fmt.Sprintf("%s transactions at %.2f%% (count: %d)", strings.ToUpper(status), sm.Rate, sm.Count),
		CreatedAt:      now,
	}
}

// ruleCheck compares the window rate against the status's fixed thresholds.
func (d *Detector) ruleCheck(status string, rate float64) *checkHit {
	t, ok := d.thresholds[status]
	if !ok {
		return nil
	}
	if rate >= t.Critical {
		return &checkHit{severity: models.SeverityCritical, score: ruleCriticalScore}
	}
	if rate >= t.Warning {
		return &checkHit{severity: models.SeverityWarning, score: ruleWarningScore}
	}
	return nil
}

// statisticalCheck measures how far the rate deviates from the baseline mean.
// A zero or near-zero std is floored at 1.0 so noise around a flat baseline
// cannot amplify into infinite z-scores; threshold tuning assumes this floor.
func (d *Detector) statisticalCheck(rate float64, b models.StatusBaseline) *checkHit {
	std := math.Max(b.StdRate, 1.0)
	z := math.Abs(rate-b.MeanRate) / std

	if z >= d.sigmaCritical {
		return &checkHit{severity: models.SeverityCritical, score: statCriticalScore}
	}
	if z >= d.sigmaWarning {
		return &checkHit{severity: models.SeverityWarning, score: statWarningScore}
	}
	return nil
}

// thresholdFor reports the rule threshold matching the final severity. This is
// the single "what you crossed" figure on the alert, even when the trigger was
// purely statistical.
func (d *Detector) thresholdFor(status, severity string) float64 {
	t, ok := d.thresholds[status]
	if !ok {
		return 0
	}
	if severity == models.SeverityCritical {
		return t.Critical
	}
	return t.Warning
}
