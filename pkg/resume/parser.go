package resume

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

// minTextChars — порог сканированного PDF: если после чистки в тексте
// меньше ста символов, перед нами скорее всего картинка без текстового
// слоя. Это не ошибка, кандидат остаётся в батче с нулевой записью.
const minTextChars = 100

// Parsed — результат извлечения текста из одного загруженного PDF.
type Parsed struct {
	Text    string
	Pages   int
	Scanned bool
	OK      bool
}

// Parse извлекает и чистит текст из PDF. Повреждённый файл возвращает
// ошибку, а не роняет процесс: библиотека разбора паникует на битых
// xref-таблицах, паника перехватывается здесь.
func Parse(data []byte) (p Parsed, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Parsed{}, fmt.Errorf("parse pdf: %w", err)
	}

	rs, err := r.GetPlainText()
	if err != nil {
		return Parsed{}, fmt.Errorf("parse pdf: %w", err)
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return Parsed{}, fmt.Errorf("parse pdf: %w", err)
	}

	p = Parsed{
		Text:  CleanText(buf.String()),
		Pages: r.NumPage(),
	}
	if utf8.RuneCountInString(p.Text) < minTextChars {
		p.Scanned = true
		return p, nil
	}
	p.OK = true
	return p, nil
}

var (
	reBlankRuns   = regexp.MustCompile(`\n\s*\n`)
	reSpaceRuns   = regexp.MustCompile(`[ \t]+`)
	reBullets     = regexp.MustCompile(`[•◦▪▸→]`)
	rePageNumber  = regexp.MustCompile(`(?m)^Page \d+\s*$`)
	rePageOfTotal = regexp.MustCompile(`(?m)^Page \d+ of \d+\s*$`)
	reBlankLines  = regexp.MustCompile(`\n\n+`)
)

// CleanText нормализует сырой текст PDF: переводы строк, пробельные
// прогоны, маркеры списков и колонтитулы с номерами страниц.
func CleanText(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = reBlankRuns.ReplaceAllString(text, "\n")
	text = reSpaceRuns.ReplaceAllString(text, " ")
	text = reBullets.ReplaceAllString(text, "-")
	text = rePageNumber.ReplaceAllString(text, "")
	text = rePageOfTotal.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = reBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
