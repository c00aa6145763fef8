package models

// Criterion is one of the five fixed scoring axes of a strategy.
type Criterion string

const (
	Cost       Criterion = "Cost"
	Risk       Criterion = "Risk"
	Time       Criterion = "Time"
	Effect     Criterion = "Effect"
	Optimality Criterion = "Optimality"
)

// Criteria returns the criteria in presentation order.
func Criteria() []Criterion {
	return []Criterion{Cost, Risk, Time, Effect, Optimality}
}

// Strategy is one parsed strategy subsection. EmissionIndex is the stable
// 1-based index from the generated text; Rank and Tier are assigned later
// by ranking and never replace it.
type Strategy struct {
	EmissionIndex int               `json:"emissionIndex"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Scores        map[Criterion]int `json:"scores"`
	Rank          int               `json:"rank,omitempty"`
	Tier          int               `json:"tier,omitempty"`
}

// Optimality returns the ranking key, treating a missing score as 0.
func (s Strategy) OptimalityOrZero() int {
	return s.Scores[Optimality]
}

// SWOTEntry holds up to five bullets per category for one strategy, keyed
// by the strategy's emission index, never by rank.
type SWOTEntry struct {
	StrategyIndex int      `json:"strategyIndex"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Analysis is the structured form of one final-strategy text blob.
type Analysis struct {
	Preamble   string            `json:"preamble"`
	Strategies []Strategy        `json:"strategies"`
	SWOT       map[int]SWOTEntry `json:"swot"`
}

// Empty reports the "nothing extractable" condition: the parser degraded
// all the way down and the caller should render a fallback notice.
func (a Analysis) Empty() bool {
	return a.Preamble == "" && len(a.Strategies) == 0 && len(a.SWOT) == 0
}
