package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumerank/pkg/scoring"
)

func rec(name string, final, skill, exp float64) scoring.Record {
	return scoring.Record{Name: name, FinalScore: final, SkillScore: skill, ExpScore: exp}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestRankOrdersByScoreChain(t *testing.T) {
	records := []scoring.Record{
		rec("Alice", 85.5, 90, 80),
		rec("Bob", 85.5, 88, 82),
		rec("Carol", 92, 95, 85),
	}

	ranked := Rank(records)

	assert.Equal(t, []string{"Carol", "Alice", "Bob"}, names(ranked))
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
}

// Ничья делит место, следующий кандидат получает номер своей позиции.
func TestRankCompetitionTies(t *testing.T) {
	records := []scoring.Record{
		rec("Bob", 80, 80, 80),
		rec("Alice", 80, 80, 80),
		rec("Carol", 60, 50, 70),
	}

	ranked := Rank(records)

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(ranked))
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 1, ranked[1].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankExperienceTieBreak(t *testing.T) {
	records := []scoring.Record{
		rec("Less", 70, 70, 60),
		rec("More", 70, 70, 80),
	}

	ranked := Rank(records)

	assert.Equal(t, []string{"More", "Less"}, names(ranked))
}

func TestRankNameTieBreakIsCaseInsensitive(t *testing.T) {
	records := []scoring.Record{
		rec("bob martin", 70, 70, 70),
		rec("Alice Chen", 70, 70, 70),
	}

	ranked := Rank(records)

	assert.Equal(t, []string{"Alice Chen", "bob martin"}, names(ranked))
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 1, ranked[1].Rank)
}

// Полные двойники различаются порядком подачи файлов.
func TestRankSubmissionOrderTieBreak(t *testing.T) {
	first := rec("John Smith", 70, 70, 70)
	first.Position = 0
	second := rec("John Smith", 70, 70, 70)
	second.Position = 1
	second.Email = "second@example.com"

	ranked := Rank([]scoring.Record{second, first})

	require.Len(t, ranked, 2)
	assert.Empty(t, ranked[0].Email)
	assert.Equal(t, "second@example.com", ranked[1].Email)
}

func TestRankPermutationInvariance(t *testing.T) {
	a := rec("Alice", 90, 95, 80)
	b := rec("Bob", 75, 70, 85)
	c := rec("Carol", 60, 65, 50)
	d := rec("Dave", 45, 40, 55)

	want := []string{"Alice", "Bob", "Carol", "Dave"}
	permutations := [][]scoring.Record{
		{a, b, c, d},
		{d, c, b, a},
		{b, d, a, c},
		{c, a, d, b},
	}

	for _, perm := range permutations {
		assert.Equal(t, want, names(Rank(perm)))
	}
}

func TestRankEmptyInput(t *testing.T) {
	ranked := Rank(nil)
	require.NotNil(t, ranked)
	assert.Len(t, ranked, 0)
}

func TestTopLimits(t *testing.T) {
	ranked := Rank([]scoring.Record{
		rec("A", 90, 90, 90),
		rec("B", 80, 80, 80),
		rec("C", 70, 70, 70),
		rec("D", 60, 60, 60),
		rec("E", 50, 50, 50),
	})

	assert.Len(t, Top(ranked, 3), 3)
	assert.Equal(t, []string{"A", "B", "C"}, names(Top(ranked, 3)))
	assert.Len(t, Top(ranked, 10), 5)
	assert.Empty(t, Top(ranked, 0))
	assert.Empty(t, Top(ranked, -1))
}

func TestSummarize(t *testing.T) {
	ranked := Rank([]scoring.Record{
		rec("Alice", 92.5, 95, 85),
		rec("Bob", 75, 70, 85),
		rec("Carol", 68.5, 65, 75),
	})

	sum := Summarize(ranked)

	assert.Equal(t, 3, sum.TotalCandidates)
	assert.Equal(t, "Alice", sum.TopScorer)
	assert.InDelta(t, 78.67, sum.AverageScore, 1e-9)
	assert.Equal(t, Distribution{Excellent: 1, Good: 2}, sum.Distribution)
}

func TestSummarizeDistributionBands(t *testing.T) {
	ranked := Rank([]scoring.Record{
		rec("A", 80, 80, 80),
		rec("B", 79.99, 79, 80),
		rec("C", 60, 60, 60),
		rec("D", 59.5, 59, 60),
		rec("E", 40, 40, 40),
		rec("F", 39.9, 39, 40),
	})

	sum := Summarize(ranked)

	assert.Equal(t, Distribution{Excellent: 1, Good: 2, Average: 2, Weak: 1}, sum.Distribution)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)

	assert.Zero(t, sum.TotalCandidates)
	assert.Empty(t, sum.TopScorer)
	assert.Zero(t, sum.AverageScore)
	assert.Equal(t, Distribution{}, sum.Distribution)
}
