package nlp

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Normalize приводит текст к виду для матчинга навыков:
// нижний регистр, схлопнутые пробелы, обрезанные края.
// Пунктуация сохраняется — она задаёт границы токенов
// ("c++", ".net", "ci/cd" должны матчиться целиком).
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
