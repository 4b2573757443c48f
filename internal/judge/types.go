package judge

// Dimension is one named scoring criterion applied identically to both
// languages' final code.
type Dimension string

// The fixed evaluation panel, in reduction order.
const (
	Readability         Dimension = "Readability"
	Maintainability     Dimension = "Maintainability"
	LatestTools         Dimension = "Latest Tools & Practices"
	DocsEnjoyability    Dimension = "Documentation Enjoyability"
	SecurityPerformance Dimension = "Security & Performance"
)

// Panel returns the fixed dimension panel in stable order.
func Panel() []Dimension {
	return []Dimension{Readability, Maintainability, LatestTools, DocsEnjoyability, SecurityPerformance}
}

// DimensionScore is one judge's verdict on one implementation. Everything
// except Score is advisory free text.
type DimensionScore struct {
	Dimension   Dimension `json:"dimension"`
	Score       float64   `json:"score"`
	Reasoning   string    `json:"reasoning"`
	Strengths   []string  `json:"strengths"`
	Weaknesses  []string  `json:"weaknesses"`
	Suggestions []string  `json:"suggestions"`
}

// Winner identifies the outcome of a competitive evaluation.
type Winner string

const (
	WinnerPython     Winner = "python"
	WinnerTypeScript Winner = "typescript"
	WinnerTie        Winner = "tie"
)

// CompetitiveEvaluation is the outcome of comparing the two languages' final
// implementations. Commentary never affects Winner.
type CompetitiveEvaluation struct {
	PythonScores     []DimensionScore `json:"python_scores"`
	TypeScriptScores []DimensionScore `json:"typescript_scores"`
	PythonTotal      float64          `json:"python_total"`
	TypeScriptTotal  float64          `json:"typescript_total"`
	Winner           Winner           `json:"winner"`
	PythonSnark      string           `json:"python_snark"`
	TypeScriptSnark  string           `json:"typescript_snark"`
	Summary          string           `json:"summary"`
}

// DecideWinner is a pure function of the two totals: strictly greater wins,
// exact float equality is a tie. No epsilon tolerance is applied; totals are
// means of the same panel size, so equal inputs produce bit-equal means.
func DecideWinner(pythonTotal, typescriptTotal float64) Winner {
	switch {
	case pythonTotal > typescriptTotal:
		return WinnerPython
	case typescriptTotal > pythonTotal:
		return WinnerTypeScript
	default:
		return WinnerTie
	}
}

// Mean returns the unweighted arithmetic mean of the scores. Zero on empty.
func Mean(scores []DimensionScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.Score
	}
	return sum / float64(len(scores))
}
