package scoring

import "github.com/devpulse/devpulse/internal/types"

// Impact is the user-impact tier of a defect. Unlike Priority it is derived
// from the raw severity/category combination, not from the aggregate score;
// the two formulas are independent and may disagree for the same defect.
type Impact string

const (
	ImpactBlocker  Impact = "blocker"
	ImpactCritical Impact = "critical"
	ImpactMajor    Impact = "major"
	ImpactMinor    Impact = "minor"
	ImpactTrivial  Impact = "trivial"
)

var impactRank = map[Impact]int{
	ImpactBlocker:  0,
	ImpactCritical: 1,
	ImpactMajor:    2,
	ImpactMinor:    3,
	ImpactTrivial:  4,
}

// ImpactRank returns the sort rank of an impact tier, ascending from most
// severe. Unknown tiers sort last.
func ImpactRank(i Impact) int {
	if r, ok := impactRank[i]; ok {
		return r
	}
	return len(impactRank)
}

// affectedUsersPct is the estimated share of users affected per impact tier.
var affectedUsersPct = map[Impact]int{
	ImpactBlocker:  100,
	ImpactCritical: 75,
	ImpactMajor:    50,
	ImpactMinor:    25,
	ImpactTrivial:  10,
}

// ClassifyImpact derives the impact tier and affected-users estimate from a
// defect's severity and category. Rules are evaluated most severe first:
// critical runtime failures block everyone; any other critical defect, or a
// high-severity network defect, is critical; high severity or any runtime
// defect is major; medium severity is minor; the rest are trivial.
func ClassifyImpact(severity types.Severity, category types.Category) (Impact, int) {
	var impact Impact
	switch {
	case severity == types.SeverityCritical && category == types.CategoryRuntime:
		impact = ImpactBlocker
	case severity == types.SeverityCritical,
		severity == types.SeverityHigh && category == types.CategoryNetwork:
		impact = ImpactCritical
	case severity == types.SeverityHigh, category == types.CategoryRuntime:
		impact = ImpactMajor
	case severity == types.SeverityMedium:
		impact = ImpactMinor
	default:
		impact = ImpactTrivial
	}
	return impact, affectedUsersPct[impact]
}
