package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/pkg/models"
)

const sampleBlob = `Below are three options for the stated situation.

### Strategy 1: Expand regional coverage
Open two satellite offices in the northern region and staff them from the
existing pool.
Scores (0-10): Cost=4; Risk=3; Time=5; Effect=6; Optimality=7

### Strategy 2: Digitize intake
Replace the paper intake flow with a self-service portal.
Scores (0-10): Cost=6; Risk=2; Time=4; Effect=8; Optimality=9

### Strategy 3: Outsource processing
Contract a third party for overflow processing during peak periods.
Scores (0-10): Cost=3; Risk=6; Time=2; Effect=5; Optimality=9

Ranking: 2, 3, 1
1️⃣ Digitize intake
2️⃣ Outsource processing
3️⃣ Expand regional coverage

<!--SWOT_START-->
### Strategy 1: Expand regional coverage
S:
- Physical presence near clients
- Local hiring
W:
- High fixed cost
O:
- Regional grants
T:
- Slow uptake

### Strategy 2: Digitize intake
S: - Scales without headcount
W:
- Upfront build cost
O:
- Analytics on intake data
T:
- Accessibility gaps
<!--SWOT_END-->`

func Test_Parse_fullBlob(t *testing.T) {
	a := Parse(sampleBlob)

	require.Len(t, a.Strategies, 3)
	assert.Equal(t, "Below are three options for the stated situation.", a.Preamble)

	first := a.Strategies[0]
	assert.Equal(t, 1, first.EmissionIndex)
	assert.Equal(t, "Expand regional coverage", first.Title)
	assert.Equal(t, map[models.Criterion]int{
		models.Cost: 4, models.Risk: 3, models.Time: 5,
		models.Effect: 6, models.Optimality: 7,
	}, first.Scores)
	assert.Contains(t, first.Description, "satellite offices")
	assert.NotContains(t, first.Description, "Scores")

	require.Contains(t, a.SWOT, 1)
	require.Contains(t, a.SWOT, 2)
	assert.Equal(t, []string{"Physical presence near clients", "Local hiring"}, a.SWOT[1].Strengths)
	assert.Equal(t, []string{"High fixed cost"}, a.SWOT[1].Weaknesses)
	// inline bullet on the label line
	assert.Equal(t, []string{"Scales without headcount"}, a.SWOT[2].Strengths)
}

func Test_Parse_dropsRankingSummary(t *testing.T) {
	a := Parse(sampleBlob)
	last := a.Strategies[2]
	assert.NotContains(t, last.Description, "Ranking")
	assert.NotContains(t, last.Description, "1️⃣")
}

func Test_Parse_colonDelimiterScores(t *testing.T) {
	a := Parse(`### Strategy 1: Alpha
Something.
Scores (0-10): Cost: 3; Risk: 4; Time: 5; Effect: 6; Optimality: 8`)

	require.Len(t, a.Strategies, 1)
	assert.Equal(t, map[models.Criterion]int{
		models.Cost: 3, models.Risk: 4, models.Time: 5,
		models.Effect: 6, models.Optimality: 8,
	}, a.Strategies[0].Scores)
}

func Test_Parse_missingScoresOmitted(t *testing.T) {
	a := Parse(`### Strategy 1: Alpha
Scores (0-10): Cost=3; Risk=4`)

	require.Len(t, a.Strategies, 1)
	got := a.Strategies[0].Scores
	assert.Equal(t, 3, got[models.Cost])
	_, ok := got[models.Optimality]
	assert.False(t, ok)
	assert.Equal(t, 0, a.Strategies[0].OptimalityOrZero())
}

func Test_Parse_missingEndMarker(t *testing.T) {
	a := Parse(`Intro.

### Strategy 1: Alpha
Text.
Scores (0-10): Cost=1; Risk=1; Time=1; Effect=1; Optimality=1

<!--SWOT_START-->
### Strategy 1: Alpha
S:
- Dangling`)

	// unterminated SWOT block folds into the main block
	assert.Empty(t, a.SWOT)
	assert.Len(t, a.Strategies, 2)
}

func Test_Parse_bulletCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<!--SWOT_START-->\n### Strategy 1: Alpha\nS:\n")
	for i := 0; i < 8; i++ {
		b.WriteString("- bullet\n")
	}
	b.WriteString("<!--SWOT_END-->")

	a := Parse(b.String())
	require.Contains(t, a.SWOT, 1)
	assert.Len(t, a.SWOT[1].Strengths, 5)
}

func Test_Parse_degradesNeverPanics(t *testing.T) {
	blobs := []string{
		"",
		"plain prose with no structure at all",
		"### Strategy : no index",
		"### Strategy 2",
		"<!--SWOT_START--><!--SWOT_END-->",
		"Scores (0-10): 3; 4; 5; 6; 7",
		strings.Repeat("#", 500),
	}
	for _, blob := range blobs {
		a := Parse(blob)
		assert.NotNil(t, a.SWOT)
	}

	a := Parse("free text only")
	assert.Equal(t, "free text only", a.Preamble)
	assert.False(t, a.Empty())
}

func Test_Parse_emptyIsEmpty(t *testing.T) {
	a := Parse("")
	assert.True(t, a.Empty())
}

func Test_headerLine(t *testing.T) {
	tests := []struct {
		line  string
		index int
		title string
		ok    bool
	}{
		{"### Strategy 1: Alpha", 1, "Alpha", true},
		{"###Strategy 2: Beta", 2, "Beta", true},
		{"  ### strategy 10 : Gamma", 10, "Gamma", true},
		{"#### Strategy 3: Deep", 3, "Deep", true},
		{"## Heading", 0, "", false},
		{"### Plan 1: Nope", 0, "", false},
		{"### Strategy : Index missing", 0, "", false},
	}
	for _, tt := range tests {
		idx, title, ok := headerLine(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		if tt.ok {
			assert.Equal(t, tt.index, idx, tt.line)
			assert.Equal(t, tt.title, title, tt.line)
		}
	}
}
