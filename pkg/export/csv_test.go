package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumerank/pkg/ranking"
	"github.com/artem13815/resumerank/pkg/scoring"
)

func sampleEntries() []ranking.Entry {
	return ranking.Rank([]scoring.Record{
		{
			Name:       "Alice Chen",
			Email:      "alice@example.com",
			FinalScore: 92.5,
			SkillScore: 95,
			ExpScore:   88,
			Years:      4.5,
			Matched:    []string{"python", "react"},
			Missing:    []string{"docker"},
			Narrative:  "Strong match narrative.",
		},
		{
			Name:       "Bob Martin",
			FinalScore: 61,
			SkillScore: 60,
			ExpScore:   64,
			Years:      2,
			Matched:    []string{"sql"},
			Missing:    []string{"python", "react"},
			Narrative:  "Moderate match narrative.",
		},
	})
}

func TestCSVHeaderAndRows(t *testing.T) {
	out := CSV(sampleEntries())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t,
		"Rank,Candidate Name,Email,Final Score,Skill Score,Experience Score,Years Experience,Matched Skills,Missing Skills,Recommendation",
		lines[0])
	assert.Equal(t,
		"1,Alice Chen,alice@example.com,92.5,95,88,4.5,python; react,docker,Strong match narrative.",
		lines[1])
	assert.Equal(t,
		"2,Bob Martin,,61,60,64,2,sql,python; react,Moderate match narrative.",
		lines[2])
}

func TestCSVEmpty(t *testing.T) {
	assert.Empty(t, CSV(nil))
}

func TestCSVTruncatesRecommendation(t *testing.T) {
	entries := ranking.Rank([]scoring.Record{{
		Name:       "Long Talker",
		FinalScore: 50,
		Narrative:  strings.Repeat("x", 450),
	}})

	out := CSV(entries)
	assert.Contains(t, out, strings.Repeat("x", 200))
	assert.NotContains(t, out, strings.Repeat("x", 201))
}

func TestCSVQuotesCommasInNames(t *testing.T) {
	entries := ranking.Rank([]scoring.Record{{
		Name:       "Smith, John",
		FinalScore: 70,
	}})

	out := CSV(entries)
	assert.Contains(t, out, `"Smith, John"`)
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, time.February, 27, 14, 30, 45, 0, time.UTC)
	assert.Equal(t, "resumrank_results_2026-02-27_143045.csv", Filename(ts))
}

func TestSummaryCSV(t *testing.T) {
	sum := ranking.Summary{
		TotalCandidates: 5,
		TopScorer:       "Alice Chen",
		AverageScore:    78.5,
		Distribution:    ranking.Distribution{Excellent: 2, Good: 2, Average: 1},
	}
	ts := time.Date(2026, time.February, 27, 14, 30, 45, 0, time.UTC)

	out := SummaryCSV(sum, ts)

	assert.Contains(t, out, "Metric,Value\n")
	assert.Contains(t, out, "Total Candidates,5\n")
	assert.Contains(t, out, "Top Scorer,Alice Chen\n")
	assert.Contains(t, out, "Average Score,78.5\n")
	assert.Contains(t, out, "Excellent (80+),2\n")
	assert.Contains(t, out, "Weak (<40),0\n")
	assert.Contains(t, out, "Export Date,2026-02-27 14:30:45\n")
}

func TestSummaryCSVEmptyTopScorer(t *testing.T) {
	out := SummaryCSV(ranking.Summary{}, time.Unix(0, 0).UTC())
	assert.Contains(t, out, "Top Scorer,N/A\n")
}
