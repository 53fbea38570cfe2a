package export

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/artem13815/resumerank/pkg/ranking"
)

// Порядок колонок отчёта зафиксирован, его читают чужие таблицы.
var columns = []string{
	"Rank",
	"Candidate Name",
	"Email",
	"Final Score",
	"Skill Score",
	"Experience Score",
	"Years Experience",
	"Matched Skills",
	"Missing Skills",
	"Recommendation",
}

// Разбор в колонке Recommendation обрезается, чтобы ячейка не раздувала
// файл; полный текст остаётся в JSON-выдаче.
const maxRecommendationChars = 200

// CSV отдаёт отранжированный список как CSV-строку для скачивания.
// Навыки склеиваются через "; ": внутри названий навыков встречаются
// запятые. Пустой список даёт пустую строку.
func CSV(entries []ranking.Entry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	w := csv.NewWriter(&b)

	_ = w.Write(columns)
	for _, e := range entries {
		_ = w.Write([]string{
			strconv.Itoa(e.Rank),
			e.Name,
			e.Email,
			formatScore(e.FinalScore),
			formatScore(e.SkillScore),
			formatScore(e.ExpScore),
			formatScore(e.Years),
			strings.Join(e.Matched, "; "),
			strings.Join(e.Missing, "; "),
			truncate(e.Narrative, maxRecommendationChars),
		})
	}
	w.Flush()
	return b.String()
}

// SummaryCSV — сводка батча в две колонки Metric/Value.
func SummaryCSV(sum ranking.Summary, now time.Time) string {
	topScorer := sum.TopScorer
	if topScorer == "" {
		topScorer = "N/A"
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.WriteAll([][]string{
		{"Metric", "Value"},
		{"Total Candidates", strconv.Itoa(sum.TotalCandidates)},
		{"Top Scorer", topScorer},
		{"Average Score", formatScore(sum.AverageScore)},
		{"Excellent (80+)", strconv.Itoa(sum.Distribution.Excellent)},
		{"Good (60-79)", strconv.Itoa(sum.Distribution.Good)},
		{"Average (40-59)", strconv.Itoa(sum.Distribution.Average)},
		{"Weak (<40)", strconv.Itoa(sum.Distribution.Weak)},
		{"Export Date", now.Format("2006-01-02 15:04:05")},
	})
	return b.String()
}

// Filename — имя файла выгрузки с меткой времени.
func Filename(now time.Time) string {
	return "resumrank_results_" + now.Format("2006-01-02_150405") + ".csv"
}

func formatScore(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
