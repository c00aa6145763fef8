package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/pkg/models"
)

func strategyWithOptimality(index, optimality int) models.Strategy {
	return models.Strategy{
		EmissionIndex: index,
		Scores:        map[models.Criterion]int{models.Optimality: optimality},
	}
}

func Test_Rank(t *testing.T) {
	items := []models.Strategy{
		strategyWithOptimality(1, 7),
		strategyWithOptimality(2, 9),
		strategyWithOptimality(3, 9),
	}

	ranked := Rank(items)

	require.Len(t, ranked, 3)
	// tie on optimality 9 resolves by emission index
	assert.Equal(t, []int{2, 3, 1}, []int{
		ranked[0].EmissionIndex, ranked[1].EmissionIndex, ranked[2].EmissionIndex,
	})
	for i, s := range ranked {
		assert.Equal(t, i+1, s.Rank)
		assert.Equal(t, i+1, s.Tier)
	}
}

func Test_Rank_inputOrderPreserved(t *testing.T) {
	items := []models.Strategy{
		strategyWithOptimality(1, 2),
		strategyWithOptimality(2, 8),
	}

	Rank(items)

	assert.Equal(t, 1, items[0].EmissionIndex)
	assert.Equal(t, 0, items[0].Rank)
}

func Test_Rank_missingOptimalityRanksLast(t *testing.T) {
	items := []models.Strategy{
		{EmissionIndex: 1, Scores: map[models.Criterion]int{}},
		strategyWithOptimality(2, 1),
	}

	ranked := Rank(items)

	assert.Equal(t, 2, ranked[0].EmissionIndex)
	assert.Equal(t, 1, ranked[1].EmissionIndex)
}

func Test_Rank_tiersStopAtThree(t *testing.T) {
	items := []models.Strategy{
		strategyWithOptimality(1, 9),
		strategyWithOptimality(2, 8),
		strategyWithOptimality(3, 7),
		strategyWithOptimality(4, 6),
		strategyWithOptimality(5, 5),
	}

	ranked := Rank(items)

	assert.Equal(t, 3, ranked[2].Tier)
	assert.Equal(t, 0, ranked[3].Tier)
	assert.Equal(t, 0, ranked[4].Tier)
	assert.Equal(t, 5, ranked[4].Rank)
}

func Test_Rank_empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
