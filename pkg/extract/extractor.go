package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/artem13815/resumerank/pkg/skills"
)

// Result — итог разбора одного резюме. Создаётся один раз и дальше
// не мутируется; все поля заполняются цепочками fallback-стратегий,
// поэтому Name не бывает пустым.
type Result struct {
	Name      string   `json:"candidate_name"`
	Email     string   `json:"email,omitempty"`
	Education string   `json:"education,omitempty"`
	Skills    []string `json:"skills_found"`
	Years     float64  `json:"years_of_experience"`
	Success   bool     `json:"extraction_success"`
}

var (
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Первая строка с упоминанием степени, до запятой или конца строки.
	eduPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:B\.?S\.?|Bachelor)[^,\n]*`),
		regexp.MustCompile(`(?i)\b(?:M\.?S\.?|Master)[^,\n]*`),
		regexp.MustCompile(`(?i)\b(?:Ph\.?D\.?|PhD)[^,\n]*`),
		regexp.MustCompile(`(?i)\b(?:M\.?B\.?A\.?|MBA)[^,\n]*`),
		regexp.MustCompile(`(?i)\b(?:B\.?E\.?|B\.?Tech\.?)[^,\n]*`),
		regexp.MustCompile(`(?i)\b(?:B\.?C\.?S\.?|BSCS)[^,\n]*`),
	}
)

// Extractor достаёт из сырого текста резюме имя кандидата, навыки и
// стаж. Все регулярные выражения компилируются при создании; экземпляр
// безопасен для конкурентного использования.
type Extractor struct {
	registry *skills.Registry
	now      func() time.Time
}

func New(registry *skills.Registry) *Extractor {
	return &Extractor{registry: registry, now: time.Now}
}

// Extract разбирает текст резюме. fallbackFilename используется как
// последнее звено цепочки определения имени. Ошибки отдельных
// фрагментов (нераспознанная дата, мусорная строка) не прерывают
// разбор — они просто пропускаются.
func (e *Extractor) Extract(text, fallbackFilename string) Result {
	if strings.TrimSpace(text) == "" {
		return e.Fallback(fallbackFilename)
	}

	name := e.extractName(text)
	res := Result{
		Name:      name,
		Email:     e.extractEmail(text),
		Education: e.extractEducation(text),
		Skills:    e.registry.Resolve(text),
		Years:     e.experienceYears(text),
	}
	// Разбор считается успешным, если нашлись либо имя, либо навыки.
	res.Success = name != "" || len(res.Skills) > 0
	if res.Name == "" {
		res.Name = NameFromFilename(fallbackFilename)
	}
	return res
}

// Fallback — нулевая запись для кандидата, чей текст разобрать не
// удалось (скан, пустой файл, паника при разборе). Кандидат остаётся
// в выдаче с нулевыми баллами, а не выпадает из батча.
func (e *Extractor) Fallback(filename string) Result {
	return Result{
		Name:    NameFromFilename(filename),
		Skills:  []string{},
		Years:   0,
		Success: false,
	}
}

func (e *Extractor) extractEmail(text string) string {
	return reEmail.FindString(text)
}

func (e *Extractor) extractEducation(text string) string {
	for _, p := range eduPatterns {
		if m := p.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
