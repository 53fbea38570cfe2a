package scoring

import (
	"strconv"
	"strings"
)

// Ярусы рекомендации по итоговому баллу.
const (
	TierStrong         = "Strong Match"
	TierModerate       = "Moderate Match"
	TierWeak           = "Weak Match"
	TierNotRecommended = "Not Recommended"
)

const (
	maxMatchedListed = 5
	maxMissingListed = 4
)

func tierFor(finalScore float64) string {
	switch {
	case finalScore >= 80:
		return TierStrong
	case finalScore >= 60:
		return TierModerate
	case finalScore >= 40:
		return TierWeak
	default:
		return TierNotRecommended
	}
}

// narrative собирает текст разбора из четырёх предложений: вступление,
// сильные стороны, пробелы и рекомендация. Шаблонный текст, без внешних
// генераторов: результат объясним и воспроизводим.
func narrative(rec Record) string {
	name := rec.Name
	if name == "" {
		name = "This candidate"
	}
	expStr := experiencePhrase(rec.Years)
	matchedStr := matchedPhrase(rec.Matched)
	missingStr := missingPhrase(rec.Missing)

	var opening, skills, gap, closing string
	switch rec.Tier {
	case TierStrong:
		opening = name + " is an excellent fit for this role with " + expStr + "."
		skills = "They demonstrate strong proficiency in " + matchedStr + "."
		if missingStr != "" {
			gap = "The skill gap is minimal — only " + missingStr + " would need attention."
		} else {
			gap = "No significant skill gaps were identified."
		}
		closing = "Recommended for immediate interview. STRONG MATCH."

	case TierModerate:
		opening = name + " shows a reasonable fit for this role with " + expStr + "."
		skills = "Their key strengths include " + matchedStr + "."
		if missingStr != "" {
			gap = "However, they are missing " + missingStr + ", which may require upskilling."
		} else {
			gap = "Their skill coverage meets most requirements."
		}
		closing = "Worth considering with a skills assessment. MODERATE MATCH."

	case TierWeak:
		opening = name + " has " + expStr + " but limited overlap with this role's requirements."
		if len(rec.Matched) > 0 {
			skills = "They have some relevant skills: " + matchedStr + "."
		} else {
			skills = "Their skills do not closely align with the job requirements."
		}
		if missingStr != "" {
			gap = "Significant gaps exist in " + missingStr + "."
		} else {
			gap = "Multiple required skills are absent from their profile."
		}
		closing = "Would require substantial training investment. WEAK MATCH."

	default:
		opening = name + " does not closely match this role's requirements."
		if len(rec.Matched) > 0 {
			skills = "Limited relevant skills were detected: " + matchedStr + "."
		} else {
			skills = "No matching skills were identified in the resume."
		}
		if missingStr != "" {
			gap = "Key missing areas include " + missingStr + "."
		} else {
			gap = "Most required skills are absent."
		}
		closing = "Not recommended for this position without significant reskilling. NOT RECOMMENDED."
	}

	return opening + " " + skills + " " + gap + " " + closing
}

func experiencePhrase(years float64) string {
	if years <= 0 {
		return "experience details not specified"
	}
	unit := " years of experience"
	if years == 1 {
		unit = " year of experience"
	}
	return strconv.FormatFloat(years, 'f', -1, 64) + unit
}

func matchedPhrase(matched []string) string {
	if len(matched) == 0 {
		return "none of the required skills"
	}
	phrase := strings.Join(matched[:min(len(matched), maxMatchedListed)], ", ")
	if extra := len(matched) - maxMatchedListed; extra > 0 {
		phrase += " and " + strconv.Itoa(extra) + " more"
	}
	return phrase
}

func missingPhrase(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	phrase := strings.Join(missing[:min(len(missing), maxMissingListed)], ", ")
	if extra := len(missing) - maxMissingListed; extra > 0 {
		phrase += " and " + strconv.Itoa(extra) + " others"
	}
	return phrase
}
