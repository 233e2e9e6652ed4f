package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFallbackIsDeterministic(t *testing.T) {
	fb := NewStaticFallback()

	assert.Equal(t, fb.DefaultRoster("platform"), fb.DefaultRoster("platform"))
	assert.Equal(t, fb.DefaultAssessments("platform"), fb.DefaultAssessments("platform"))
	assert.Equal(t, fb.DefaultBacklog("web"), fb.DefaultBacklog("web"))
}

func TestStaticFallbackRosterAndAssessmentsAlign(t *testing.T) {
	fb := NewStaticFallback()

	roster := fb.DefaultRoster("platform")
	assessments := fb.DefaultAssessments("platform")

	require.Equal(t, len(roster), len(assessments))

	byMember := make(map[string]bool, len(assessments))
	for _, a := range assessments {
		byMember[a.MemberID] = true
		assert.GreaterOrEqual(t, a.Score, 0.0)
		assert.LessOrEqual(t, a.Score, 100.0)
	}
	for _, m := range roster {
		assert.True(t, byMember[m.ID], "assessment missing for %s", m.ID)
		assert.GreaterOrEqual(t, m.Capacity, 0.0)
		assert.LessOrEqual(t, m.Capacity, 100.0)
	}
}

func TestStaticFallbackBacklogIsScoreable(t *testing.T) {
	fb := NewStaticFallback()

	backlog := fb.DefaultBacklog("web")
	require.NotEmpty(t, backlog)
	for _, d := range backlog {
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Severity)
		assert.NotEmpty(t, d.Category)
	}
}
