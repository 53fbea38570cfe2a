package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSteps разбирает шкалу опыта из строки вида "1:20,2:40,4:60,6:80"
// (годы:балл через запятую). Согласованность шкалы проверяет Config.Validate.
func ParseSteps(raw string) ([]Step, error) {
	parts := strings.Split(raw, ",")
	steps := make([]Step, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pair := strings.SplitN(part, ":", 2)
		if len(pair) != 2 {
			return nil, fmt.Errorf("bad step %q, want years:score", part)
		}
		upTo, err := strconv.ParseFloat(strings.TrimSpace(pair[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad step years %q", pair[0])
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(pair[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad step score %q", pair[1])
		}
		steps = append(steps, Step{UpTo: upTo, Score: score})
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps in %q", raw)
	}
	return steps, nil
}
