package extract

import (
	"regexp"
	"strings"
	"unicode"
)

const headerRegion = 300 // имя почти всегда в первых строках резюме

// Явная упорядоченная цепочка стратегий: первая давшая правдоподобное
// имя выигрывает. Имя из файла — последнее звено, его добавляет Extract.
var nameStrategies = []func(text string) string{
	nameFromHeader,
	nameFromCapitalizedWords,
}

var (
	reUUIDPrefix = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}_`)

	// Термины, которые парсер любит принимать за имя.
	nonNameTerms = map[string]struct{}{
		"asp.net core": {}, "asp.net": {}, "docker": {}, "javascript": {},
		"python": {}, "java": {}, "react": {}, "sql": {}, "aws": {},
		"azure": {}, "apache": {}, "skills": {}, "experience": {},
		"education": {}, "resume": {}, "cv": {}, "full stack": {},
		"backend": {}, "frontend": {}, "developer": {}, "engineer": {},
	}

	techLikeParts = map[string]struct{}{
		"asp": {}, "net": {}, "core": {}, "docker": {}, "javascript": {},
		"python": {}, "java": {}, "sql": {}, "aws": {}, "azure": {},
		"apache": {}, "react": {}, "node": {},
	}

	skipHeaders = map[string]struct{}{
		"resume": {}, "cv": {}, "curriculum vitae": {}, "education": {},
		"experience": {}, "summary": {}, "profile": {}, "objective": {},
		"contact": {},
	}

	// Суффиксы в именах файлов, не относящиеся к имени кандидата.
	filenameNoise = []string{
		"_Resume", "_CV", "_Email", "_Biodata", "_Application",
		"_Updated", "_Final", "_New", "_2024", "_2025", "_2026",
		"-Resume", "-CV", "-Email",
		" Resume", " CV", " Email",
	}
)

func (e *Extractor) extractName(text string) string {
	for _, strategy := range nameStrategies {
		if name := strategy(text); name != "" {
			return name
		}
	}
	return ""
}

// nameFromHeader ищет имя в шапке резюме: первая строка из верхних 300
// символов, целиком состоящая из 2–4 слов с заглавной буквы.
func nameFromHeader(text string) string {
	head := text
	if len(head) > headerRegion {
		head = head[:headerRegion]
	}
	for _, line := range strings.Split(head, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, skip := skipHeaders[strings.ToLower(line)]; skip {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		allCapitalized := true
		for _, w := range words {
			if !startsUpper(w) {
				allCapitalized = false
				break
			}
		}
		if !allCapitalized {
			continue
		}
		if name := strings.Join(words, " "); plausibleName(name) {
			return name
		}
	}
	return ""
}

// nameFromCapitalizedWords — регулярная эвристика по всему тексту:
// с каждой строки берётся первая серия подряд идущих слов с заглавной
// буквы; 2–4 правдоподобных слова считаются именем.
func nameFromCapitalizedWords(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, skip := skipHeaders[strings.ToLower(line)]; skip {
			continue
		}
		var capWords []string
		for _, w := range strings.Fields(stripLinePunct(line)) {
			if startsUpper(w) {
				capWords = append(capWords, w)
				continue
			}
			if len(capWords) > 0 {
				break
			}
		}
		if len(capWords) < 2 || len(capWords) > 4 {
			continue
		}
		if name := strings.Join(capWords, " "); plausibleName(name) {
			return name
		}
	}
	return ""
}

// NameFromFilename превращает имя загруженного файла в отображаемое имя
// кандидата: срезает расширение и UUID-префикс сессии, выкидывает
// служебные суффиксы, разделители меняет на пробелы и капитализирует.
func NameFromFilename(filename string) string {
	name := filename
	for _, ext := range []string{".pdf", ".PDF", ".Pdf"} {
		name = strings.ReplaceAll(name, ext, "")
	}
	name = reUUIDPrefix.ReplaceAllString(name, "")

	for _, word := range filenameNoise {
		name = strings.ReplaceAll(name, word, "")
		name = strings.ReplaceAll(name, strings.ToLower(word), "")
		name = strings.ReplaceAll(name, strings.ToUpper(word), "")
	}

	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	name = strings.TrimSpace(strings.Join(words, " "))
	if name == "" {
		return "Unknown Candidate"
	}
	return name
}

// plausibleName отфильтровывает навыки и заголовки, принятые за имя:
// 2–4 алфавитных слова, без контактных маркеров и техтерминов.
func plausibleName(name string) bool {
	cleaned := strings.Join(strings.Fields(name), " ")
	if cleaned == "" {
		return false
	}
	lowered := strings.ToLower(cleaned)

	for _, marker := range []string{"@", "http", "www", "linkedin", "github", "portfolio", "phone", "email"} {
		if strings.Contains(lowered, marker) {
			return false
		}
	}
	if _, bad := nonNameTerms[lowered]; bad {
		return false
	}

	parts := strings.Fields(cleaned)
	if len(parts) < 2 || len(parts) > 4 {
		return false
	}
	for _, part := range parts {
		stripped := strings.NewReplacer(".", "", "-", "", "'", "").Replace(part)
		if stripped == "" || !isAlpha(stripped) {
			return false
		}
		key := strings.ToLower(strings.ReplaceAll(part, ".", ""))
		if _, tech := techLikeParts[key]; tech {
			return false
		}
	}
	return true
}

func startsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func capitalize(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return w
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

var reLinePunct = regexp.MustCompile(`[^\w\s\-.]`)

func stripLinePunct(line string) string {
	return reLinePunct.ReplaceAllString(line, "")
}
