package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/internal/types"
)

func TestScoreDefect(t *testing.T) {
	tests := []struct {
		name     string
		defect   types.Defect
		expected int
	}{
		{
			name: "critical runtime defect from manager on dashboard",
			defect: types.Defect{
				Severity:     types.SeverityCritical,
				Category:     types.CategoryRuntime,
				ReporterRole: types.RoleManager,
				Area:         types.AreaDashboard,
			},
			expected: 120, // 40 + 30 + 25 + 25
		},
		{
			name: "low navigation defect from developer in api area",
			defect: types.Defect{
				Severity:     types.SeverityLow,
				Category:     types.CategoryNavigation,
				ReporterRole: types.RoleDeveloper,
				Area:         types.AreaAPI,
			},
			expected: 55, // 10 + 10 + 15 + 20
		},
		{
			name: "high network defect from team lead in auth area",
			defect: types.Defect{
				Severity:     types.SeverityHigh,
				Category:     types.CategoryNetwork,
				ReporterRole: types.RoleTeamLead,
				Area:         types.AreaAuth,
			},
			expected: 105, // 30 + 25 + 20 + 30
		},
		{
			name: "unmapped values fall back to table defaults",
			defect: types.Defect{
				Severity:     "unheard-of",
				Category:     "telemetry",
				ReporterRole: "intern",
				Area:         "settings",
			},
			expected: 40, // 10 + 10 + 10 + 10
		},
		{
			name:     "zero-value defect uses all defaults",
			defect:   types.Defect{},
			expected: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, breakdown := ScoreDefect(tt.defect)
			assert.Equal(t, tt.expected, total)
			assert.Len(t, breakdown, 4)

			// Breakdown always sums to the total
			sum := 0
			for _, fw := range breakdown {
				sum += fw.Weight
				assert.NotEmpty(t, fw.Factor)
				assert.NotEmpty(t, fw.Reason)
			}
			assert.Equal(t, total, sum)
		})
	}
}

func TestScoreDefectDeterministic(t *testing.T) {
	defect := types.Defect{
		Severity:     types.SeverityHigh,
		Category:     types.CategoryRendering,
		ReporterRole: types.RoleDeveloper,
		Area:         types.AreaDashboard,
	}

	first, firstBreakdown := ScoreDefect(defect)
	second, secondBreakdown := ScoreDefect(defect)

	assert.Equal(t, first, second)
	assert.Equal(t, firstBreakdown, secondBreakdown)
	assert.Equal(t, ClassifyPriority(first), ClassifyPriority(second))
}

func TestRiskScore(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "mid-range score passes through", input: 55.5, expected: 55.5},
		{name: "zero passes through", input: 0, expected: 0},
		{name: "hundred passes through", input: 100, expected: 100},
		{name: "negative clamps to zero", input: -3, expected: 0},
		{name: "above range clamps to hundred", input: 140, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskScore(tt.input))
		})
	}
}

func TestFactorWeightTableDefault(t *testing.T) {
	table := FactorWeightTable{
		Factor:  "severity",
		Weights: map[string]int{"critical": 40},
		Default: 10,
	}

	assert.Equal(t, 40, table.Weight("critical"))
	assert.Equal(t, 10, table.Weight("unknown"))
	assert.Equal(t, 10, table.Weight(""))
}
