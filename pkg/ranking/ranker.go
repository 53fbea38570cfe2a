package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/artem13815/resumerank/pkg/scoring"
)

// Entry — запись кандидата с присвоенным местом. Места соревновательные:
// кандидаты с одинаковой тройкой баллов делят место, следующее место
// равно позиции в отсортированном списке, поэтому после ничьей номера
// пропускаются (1, 1, 3).
type Entry struct {
	Rank int `json:"rank"`
	scoring.Record
}

// Rank сортирует записи детерминированно: итоговый балл по убыванию,
// затем балл навыков, затем балл стажа, затем имя по алфавиту без учёта
// регистра, затем порядок подачи в батче. Ничьих, разрешаемых случайно,
// нет — выдача воспроизводима при любой перестановке входа.
func Rank(records []scoring.Record) []Entry {
	entries := make([]Entry, len(records))
	for i, rec := range records {
		entries[i] = Entry{Record: rec}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Record, entries[j].Record
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.SkillScore != b.SkillScore {
			return a.SkillScore > b.SkillScore
		}
		if a.ExpScore != b.ExpScore {
			return a.ExpScore > b.ExpScore
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.Position < b.Position
	})

	for i := range entries {
		if i > 0 && sameScores(entries[i].Record, entries[i-1].Record) {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}

func sameScores(a, b scoring.Record) bool {
	return a.FinalScore == b.FinalScore &&
		a.SkillScore == b.SkillScore &&
		a.ExpScore == b.ExpScore
}

// Top возвращает первые n записей уже отсортированного списка.
func Top(entries []Entry, n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}

// Distribution — раскладка батча по диапазонам итогового балла.
// Ключи повторяют формат отчёта, менять их нельзя.
type Distribution struct {
	Excellent int `json:"excellent(80+)"`
	Good      int `json:"good(60-79)"`
	Average   int `json:"average(40-59)"`
	Weak      int `json:"weak(<40)"`
}

// Summary — сводка по батчу для шапки отчёта.
type Summary struct {
	TotalCandidates int          `json:"total_candidates"`
	TopScorer       string       `json:"top_scorer"`
	AverageScore    float64      `json:"average_score"`
	Distribution    Distribution `json:"score_distribution"`
}

// Summarize считает сводку по отранжированному списку.
func Summarize(entries []Entry) Summary {
	if len(entries) == 0 {
		return Summary{}
	}

	var sum float64
	var dist Distribution
	for _, e := range entries {
		sum += e.FinalScore
		switch {
		case e.FinalScore >= 80:
			dist.Excellent++
		case e.FinalScore >= 60:
			dist.Good++
		case e.FinalScore >= 40:
			dist.Average++
		default:
			dist.Weak++
		}
	}

	return Summary{
		TotalCandidates: len(entries),
		TopScorer:       entries[0].Name,
		AverageScore:    math.Round(sum/float64(len(entries))*100) / 100,
		Distribution:    dist,
	}
}
