package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Стаж считается по диапазонам дат в тексте. Четыре семейства шаблонов:
// полное имя месяца, сокращённое, MM/YYYY и голый год. Правая граница
// может быть маркером "present"/"current"/"now"/"today" — тогда берётся
// текущая дата. Диапазоны в образовательном контексте отбрасываются, а
// из выживших берётся максимальный охват: самый ранний старт и самый
// поздний финиш, чтобы параллельные места работы не считались дважды.

const (
	educationWindow = 500 // символов контекста с каждой стороны от даты
	maxYears        = 40.0
	minYear         = 1900
)

var educationKeywords = []string{
	"bachelor", "master", "phd", "degree", "university", "college",
	"b.s.", "b.e.", "m.s.", "gpa", "graduation", "graduate",
	"diploma", "institute", "school", "coursework",
}

const (
	monthFull  = `(?:january|february|march|april|may|june|july|august|september|october|november|december)`
	monthAbbr  = `(?:jan|feb|mar|apr|may|jun|jul|aug|sept|sep|oct|nov|dec)`
	rangeSep   = `\s*(?:–|-|to)\s*`
	presentTok = `(?:present|current|now|today)`
)

var (
	reRangeFullMonth = regexp.MustCompile(`(` + monthFull + `)\s+(\d{4})` + rangeSep + `(?:(` + monthFull + `)\s+(\d{4})|(` + presentTok + `))`)
	reRangeAbbrMonth = regexp.MustCompile(`(` + monthAbbr + `)\.?\s+(\d{4})` + rangeSep + `(?:(` + monthAbbr + `)\.?\s+(\d{4})|(` + presentTok + `))`)
	reRangeNumeric   = regexp.MustCompile(`(\d{1,2})/(\d{4})` + rangeSep + `(?:(\d{1,2})/(\d{4})|(` + presentTok + `))`)
	reRangeBareYear  = regexp.MustCompile(`\b(\d{4})` + rangeSep + `(?:(\d{4})|(` + presentTok + `))\b`)
)

var monthIndex = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July,
	"aug": time.August, "sep": time.September, "sept": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

type dateSpan struct {
	start time.Time
	end   time.Time
}

// experienceYears возвращает стаж в годах с одним знаком после запятой,
// не больше maxYears. Нераспознанные компоненты дат пропускаются
// по одному и не прерывают разбор всего резюме.
func (e *Extractor) experienceYears(text string) float64 {
	lower := strings.ToLower(text)
	now := e.now()

	var spans []dateSpan
	collect := func(s dateSpan, ok bool) {
		if ok {
			spans = append(spans, s)
		}
	}

	for _, m := range reRangeFullMonth.FindAllStringSubmatchIndex(lower, -1) {
		collect(monthRange(lower, m, now))
	}
	for _, m := range reRangeAbbrMonth.FindAllStringSubmatchIndex(lower, -1) {
		collect(monthRange(lower, m, now))
	}
	for _, m := range reRangeNumeric.FindAllStringSubmatchIndex(lower, -1) {
		collect(numericRange(lower, m, now))
	}
	for _, m := range reRangeBareYear.FindAllStringSubmatchIndex(lower, -1) {
		collect(bareYearRange(lower, m, now))
	}

	if len(spans) == 0 {
		return 0
	}

	earliest, latest := spans[0].start, spans[0].end
	for _, s := range spans[1:] {
		if s.start.Before(earliest) {
			earliest = s.start
		}
		if s.end.After(latest) {
			latest = s.end
		}
	}

	months := (latest.Year()-earliest.Year())*12 + int(latest.Month()-earliest.Month())
	years := math.Round(float64(months)/12.0*10) / 10
	if years > maxYears {
		return maxYears
	}
	return math.Max(0, years)
}

// monthRange разбирает совпадение месячных семейств. Группы:
// 1 месяц старта, 2 год старта, 3-4 месяц/год финиша, 5 маркер present.
func monthRange(lower string, m []int, now time.Time) (dateSpan, bool) {
	start, ok := parseMonthYear(group(lower, m, 1), group(lower, m, 2))
	if !ok {
		return dateSpan{}, false
	}
	if inEducationContext(lower, m[0], m[1]) {
		return dateSpan{}, false
	}

	var end time.Time
	switch {
	case group(lower, m, 5) != "":
		end = now
	case group(lower, m, 3) != "" && group(lower, m, 4) != "":
		var endOK bool
		end, endOK = parseMonthYear(group(lower, m, 3), group(lower, m, 4))
		if !endOK {
			return dateSpan{}, false
		}
	default:
		return dateSpan{}, false
	}

	if end.Before(start) {
		return dateSpan{}, false
	}
	return dateSpan{start: start, end: end}, true
}

// numericRange — семейство MM/YYYY. Группы как у monthRange.
func numericRange(lower string, m []int, now time.Time) (dateSpan, bool) {
	start, ok := parseNumericMonthYear(group(lower, m, 1), group(lower, m, 2))
	if !ok {
		return dateSpan{}, false
	}
	if inEducationContext(lower, m[0], m[1]) {
		return dateSpan{}, false
	}

	var end time.Time
	switch {
	case group(lower, m, 5) != "":
		end = now
	case group(lower, m, 3) != "" && group(lower, m, 4) != "":
		var endOK bool
		end, endOK = parseNumericMonthYear(group(lower, m, 3), group(lower, m, 4))
		if !endOK {
			return dateSpan{}, false
		}
	default:
		return dateSpan{}, false
	}

	if end.Before(start) {
		return dateSpan{}, false
	}
	return dateSpan{start: start, end: end}, true
}

// bareYearRange — семейство "2019 – 2022". Год без месяца трактуется
// как январь; будущие годы считаются опечаткой и отбрасываются.
func bareYearRange(lower string, m []int, now time.Time) (dateSpan, bool) {
	startYear, err := strconv.Atoi(group(lower, m, 1))
	if err != nil || startYear < minYear || startYear > now.Year() {
		return dateSpan{}, false
	}
	if inEducationContext(lower, m[0], m[1]) {
		return dateSpan{}, false
	}

	var end time.Time
	switch {
	case group(lower, m, 3) != "":
		end = now
	case group(lower, m, 2) != "":
		endYear, err := strconv.Atoi(group(lower, m, 2))
		if err != nil || endYear < minYear || endYear > now.Year() {
			return dateSpan{}, false
		}
		end = time.Date(endYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return dateSpan{}, false
	}

	start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return dateSpan{}, false
	}
	return dateSpan{start: start, end: end}, true
}

// inEducationContext смотрит окно вокруг совпадения: если рядом
// упоминается учёба, диапазон относится к образованию, не к работе.
func inEducationContext(lower string, matchStart, matchEnd int) bool {
	from := matchStart - educationWindow
	if from < 0 {
		from = 0
	}
	to := matchEnd + educationWindow
	if to > len(lower) {
		to = len(lower)
	}
	window := lower[from:to]
	for _, kw := range educationKeywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

func parseMonthYear(monthStr, yearStr string) (time.Time, bool) {
	month, ok := monthIndex[strings.TrimSuffix(monthStr, ".")]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < minYear {
		return time.Time{}, false
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

func parseNumericMonthYear(monthStr, yearStr string) (time.Time, bool) {
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < minYear {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

// group достаёт текст подгруппы из результата FindAllStringSubmatchIndex.
func group(s string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}
