package scoring

// Priority is the triage tier assigned to a defect. P0 is the most severe.
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

// RiskLevel is the burnout-risk tier assigned to a team member.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Threshold is one rung of a ThresholdTable: scores at or above Min map to
// Tier, unless a higher rung matched first.
type Threshold struct {
	Min  int
	Tier string
}

// ThresholdTable maps a score to a tier by walking rungs in descending-Min
// order. The last rung is the catch-all and must have the lowest Min.
type ThresholdTable []Threshold

// Classify returns the tier of the first rung whose Min is at or below the
// score, falling back to the final catch-all rung. Exactly one tier applies
// to any score.
func (t ThresholdTable) Classify(score int) string {
	for _, rung := range t {
		if score >= rung.Min {
			return rung.Tier
		}
	}
	return t[len(t)-1].Tier
}

var priorityThresholds = ThresholdTable{
	{Min: 90, Tier: string(PriorityP0)},
	{Min: 70, Tier: string(PriorityP1)},
	{Min: 50, Tier: string(PriorityP2)},
	{Min: 30, Tier: string(PriorityP3)},
	{Min: 0, Tier: string(PriorityP4)},
}

var riskThresholds = ThresholdTable{
	{Min: 70, Tier: string(RiskHigh)},
	{Min: 30, Tier: string(RiskModerate)},
	{Min: 0, Tier: string(RiskLow)},
}

// ClassifyPriority maps a defect priority score to its tier.
func ClassifyPriority(score int) Priority {
	return Priority(priorityThresholds.Classify(score))
}

// ClassifyRisk maps a 0-100 burnout score to a risk level: below 30 is low,
// below 70 is moderate, everything else is high.
func ClassifyRisk(score float64) RiskLevel {
	return RiskLevel(riskThresholds.Classify(int(score)))
}

// Rank tables give the total order used for sorting and comparisons. They are
// declared once here; tiers are never ordered by string comparison.
var priorityRank = map[Priority]int{
	PriorityP0: 0,
	PriorityP1: 1,
	PriorityP2: 2,
	PriorityP3: 3,
	PriorityP4: 4,
}

var riskRank = map[RiskLevel]int{
	RiskHigh:     0,
	RiskModerate: 1,
	RiskLow:      2,
}

// PriorityRank returns the sort rank of a priority tier, ascending from most
// severe. Unknown tiers sort last.
func PriorityRank(p Priority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// RiskRank returns the sort rank of a risk level, ascending from most severe.
func RiskRank(l RiskLevel) int {
	if r, ok := riskRank[l]; ok {
		return r
	}
	return len(riskRank)
}

// Priorities lists every priority tier in rank order; aggregations use it to
// build dense per-tier maps that always contain every key.
func Priorities() []Priority {
	return []Priority{PriorityP0, PriorityP1, PriorityP2, PriorityP3, PriorityP4}
}

// RiskLevels lists every risk level in rank order.
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskHigh, RiskModerate, RiskLow}
}
