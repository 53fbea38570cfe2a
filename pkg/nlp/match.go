package nlp

import "regexp"

// TokenPattern компилирует фразу в шаблон поиска по границам токенов.
// Граница — начало/конец текста или любой не буквенно-цифровой символ:
// "r" не совпадёт внутри "react", "go" — внутри "good". Обычный \b здесь
// не годится: для навыков с пунктуацией ("c++", ".net") он даёт ложные
// несовпадения на краях.
// Шаблон применяется к тексту, уже пропущенному через Normalize.
func TokenPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^a-z0-9])` + regexp.QuoteMeta(Normalize(phrase)) + `(?:$|[^a-z0-9])`)
}
