package cohort

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/devpulse/devpulse/internal/scoring"
	"github.com/devpulse/devpulse/internal/types"
)

// TriagedDefect is a defect enriched with its score, breakdown, and both
// tier classifications.
type TriagedDefect struct {
	Defect           types.Defect           `json:"defect"`
	Score            int                    `json:"score"`
	Breakdown        []scoring.FactorWeight `json:"breakdown"`
	Priority         scoring.Priority       `json:"priority"`
	Impact           scoring.Impact         `json:"impact"`
	AffectedUsersPct int                    `json:"affected_users_pct"`
}

// PrioritizedBacklog is the triage result for one project's defect backlog.
type PrioritizedBacklog struct {
	ProjectKey     string                   `json:"project_key"`
	ScanID         string                   `json:"scan_id"`
	GeneratedAt    time.Time                `json:"generated_at"`
	Defects        []TriagedDefect          `json:"defects"`
	Distribution   map[scoring.Priority]int `json:"distribution"`
	Recommendation string                   `json:"recommendation"`
}

// Prioritize scores and classifies every defect in a backlog and orders it
// for triage: priority rank first, impact rank as the tie-breaker. The sort
// is stable so equal defects keep their reported order. The distribution map
// is dense: every priority tier is present even at zero.
func Prioritize(projectKey string, defects []types.Defect) PrioritizedBacklog {
	backlog := PrioritizedBacklog{
		ProjectKey:   projectKey,
		ScanID:       uuid.New().String(),
		GeneratedAt:  time.Now().UTC(),
		Defects:      make([]TriagedDefect, 0, len(defects)),
		Distribution: make(map[scoring.Priority]int, len(scoring.Priorities())),
	}
	for _, p := range scoring.Priorities() {
		backlog.Distribution[p] = 0
	}

	for _, d := range defects {
		score, breakdown := scoring.ScoreDefect(d)
		impact, pct := scoring.ClassifyImpact(d.Severity, d.Category)
		triaged := TriagedDefect{
			Defect:           d,
			Score:            score,
			Breakdown:        breakdown,
			Priority:         scoring.ClassifyPriority(score),
			Impact:           impact,
			AffectedUsersPct: pct,
		}
		backlog.Defects = append(backlog.Defects, triaged)
		backlog.Distribution[triaged.Priority]++
	}

	sort.SliceStable(backlog.Defects, func(i, j int) bool {
		a, b := backlog.Defects[i], backlog.Defects[j]
		if a.Priority != b.Priority {
			return scoring.PriorityRank(a.Priority) < scoring.PriorityRank(b.Priority)
		}
		return scoring.ImpactRank(a.Impact) < scoring.ImpactRank(b.Impact)
	})

	backlog.Recommendation = backlogRecommendation(backlog.Distribution, len(defects))

	return backlog
}

func backlogRecommendation(distribution map[scoring.Priority]int, total int) string {
	switch {
	case total == 0:
		return "Backlog is empty; nothing to triage."
	case distribution[scoring.PriorityP0] > 0:
		return fmt.Sprintf("%d critical blocker(s) need immediate attention.", distribution[scoring.PriorityP0])
	case distribution[scoring.PriorityP1] > 0:
		return fmt.Sprintf("%d high-priority defect(s) should be scheduled this sprint.", distribution[scoring.PriorityP1])
	default:
		return "No urgent defects; triage during normal planning."
	}
}
