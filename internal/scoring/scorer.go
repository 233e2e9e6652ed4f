package scoring

import (
	"fmt"

	"github.com/devpulse/devpulse/internal/types"
)

// FactorWeight is one itemized entry of a score breakdown, kept for
// explainability and audit of triage decisions.
type FactorWeight struct {
	Factor string `json:"factor"`
	Value  string `json:"value"`
	Weight int    `json:"weight"`
	Reason string `json:"reason"`
}

// ScoreDefect computes the priority score for a defect as the unweighted sum
// of its four factor weights. Unmapped attribute values use table defaults,
// so scoring has no failure mode. The returned breakdown itemizes every
// factor that contributed to the total.
func ScoreDefect(d types.Defect) (int, []FactorWeight) {
	factors := []struct {
		table FactorWeightTable
		value string
	}{
		{severityWeights, string(d.Severity)},
		{categoryWeights, string(d.Category)},
		{reporterWeights, string(d.ReporterRole)},
		{areaWeights, string(d.Area)},
	}

	total := 0
	breakdown := make([]FactorWeight, 0, len(factors))
	for _, f := range factors {
		w := f.table.Weight(f.value)
		total += w
		breakdown = append(breakdown, FactorWeight{
			Factor: f.table.Factor,
			Value:  f.value,
			Weight: w,
			Reason: fmt.Sprintf("%s %q contributes %d points", f.table.Factor, f.value, w),
		})
	}

	return total, breakdown
}

// RiskScore passes an upstream burnout-assessment score through unchanged,
// clamped to the documented 0-100 range.
func RiskScore(assessed float64) float64 {
	if assessed < 0 {
		return 0
	}
	if assessed > 100 {
		return 100
	}
	return assessed
}
