package scoring

// FactorWeightTable maps the values of one categorical factor to integer
// weights. Tables are static configuration declared at package level and are
// never mutated at runtime; values missing from Weights resolve to Default.
type FactorWeightTable struct {
	Factor  string
	Weights map[string]int
	Default int
}

// Weight looks up the weight for a factor value, falling back to the table
// default for unmapped values. Lookups never fail.
func (t FactorWeightTable) Weight(value string) int {
	if w, ok := t.Weights[value]; ok {
		return w
	}
	return t.Default
}

var (
	severityWeights = FactorWeightTable{
		Factor: "severity",
		Weights: map[string]int{
			"critical": 40,
			"high":     30,
			"medium":   20,
			"low":      10,
		},
		Default: 10,
	}

	categoryWeights = FactorWeightTable{
		Factor: "category",
		Weights: map[string]int{
			"runtime":    30,
			"network":    25,
			"rendering":  15,
			"navigation": 10,
		},
		Default: 10,
	}

	reporterWeights = FactorWeightTable{
		Factor: "reporter_role",
		Weights: map[string]int{
			"manager":   25,
			"team-lead": 20,
			"developer": 15,
		},
		Default: 10,
	}

	areaWeights = FactorWeightTable{
		Factor: "area",
		Weights: map[string]int{
			"dashboard": 25,
			"auth":      30,
			"api":       20,
		},
		Default: 10,
	}
)
