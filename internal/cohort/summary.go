package cohort

import (
	"fmt"
	"math"

	"github.com/devpulse/devpulse/internal/scoring"
	"github.com/devpulse/devpulse/internal/types"
)

// neutralAverageCapacity is reported for an empty cohort so dashboards render
// a stable midpoint instead of NaN or zero.
const neutralAverageCapacity = 50

// CapacityBucket is one fixed rung of the capacity distribution.
type CapacityBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

// capacityBuckets is the fixed bucket configuration: boundaries and labels are
// declared here, never derived from the data. The top bucket includes its
// upper bound.
var capacityBuckets = []CapacityBucket{
	{Label: "Underutilized", Min: 0, Max: 60},
	{Label: "Optimal", Min: 60, Max: 80},
	{Label: "High", Min: 80, Max: 90},
	{Label: "Critical", Min: 90, Max: 100},
}

// TeamSummary is the derived capacity/risk profile of one team. It is
// recomputed from the roster on each request and lives only in the cache.
type TeamSummary struct {
	TeamID            string                       `json:"team_id"`
	MemberCount       int                          `json:"member_count"`
	AverageCapacity   int                          `json:"average_capacity"`
	HighRiskCount     int                          `json:"high_risk_count"`
	OptimalLoadCount  int                          `json:"optimal_load_count"`
	NeedsSupportCount int                          `json:"needs_support_count"`
	TotalVelocity     float64                      `json:"total_velocity"`
	AverageWellness   int                          `json:"average_wellness"`
	Distribution      []CapacityBucket             `json:"distribution"`
	RiskLevels        map[scoring.RiskLevel]int    `json:"risk_levels"`
	MemberRisk        map[string]scoring.RiskLevel `json:"member_risk"`
	Recommendation    string                       `json:"recommendation"`
}

// Summarize computes a team's capacity and risk profile from its members.
// An empty roster yields zeroed counts and totals with the neutral midpoint
// capacity average, never an error or NaN.
func Summarize(teamID string, members []types.TeamMember) TeamSummary {
	summary := TeamSummary{
		TeamID:       teamID,
		MemberCount:  len(members),
		Distribution: distributionBuckets(),
		RiskLevels:   make(map[scoring.RiskLevel]int, len(scoring.RiskLevels())),
		MemberRisk:   make(map[string]scoring.RiskLevel, len(members)),
	}
	for _, level := range scoring.RiskLevels() {
		summary.RiskLevels[level] = 0
	}

	if len(members) == 0 {
		summary.AverageCapacity = neutralAverageCapacity
		summary.Recommendation = "No roster data available for this team."
		return summary
	}

	var capacitySum, wellnessSum float64
	for _, m := range members {
		capacitySum += m.Capacity
		wellnessSum += m.WellnessFactor
		summary.TotalVelocity += m.Velocity

		level := scoring.ClassifyRisk(scoring.RiskScore(m.RiskScore))
		summary.RiskLevels[level]++
		summary.MemberRisk[m.ID] = level

		bucketFor(summary.Distribution, m.Capacity).Count++

		if level == scoring.RiskHigh {
			summary.HighRiskCount++
		}
		if m.Capacity >= 60 && m.Capacity < 80 {
			summary.OptimalLoadCount++
		}
		if level == scoring.RiskHigh || m.Capacity > 90 {
			summary.NeedsSupportCount++
		}
	}

	summary.AverageCapacity = int(math.Round(capacitySum / float64(len(members))))
	summary.AverageWellness = int(math.Round(wellnessSum / float64(len(members)) * 100))
	summary.Recommendation = recommendation(summary)

	return summary
}

// distributionBuckets returns a fresh zero-count copy of the fixed buckets.
func distributionBuckets() []CapacityBucket {
	buckets := make([]CapacityBucket, len(capacityBuckets))
	copy(buckets, capacityBuckets)
	return buckets
}

// bucketFor picks the single bucket a capacity value falls into. Lower bounds
// are inclusive, upper bounds exclusive, except the Critical bucket which
// absorbs its top bound and anything above the practical range.
func bucketFor(buckets []CapacityBucket, capacity float64) *CapacityBucket {
	for i := range buckets[:len(buckets)-1] {
		if capacity < float64(buckets[i].Max) {
			return &buckets[i]
		}
	}
	return &buckets[len(buckets)-1]
}

func recommendation(s TeamSummary) string {
	switch {
	case s.NeedsSupportCount > 0:
		return fmt.Sprintf("%d of %d members need support; redistribute workload before the next sprint.", s.NeedsSupportCount, s.MemberCount)
	case s.OptimalLoadCount == s.MemberCount:
		return "Team is operating in the optimal load band."
	default:
		return "Team capacity is healthy; monitor utilization trends."
	}
}
