package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/artem13815/resumerank/pkg/extract"
)

// ErrInvalidConfig возвращается при противоречивой конфигурации скоринга.
// Ошибка фатальна: с кривыми весами запускаться нельзя.
var ErrInvalidConfig = errors.New("invalid scoring config")

// Step — одна ступень шкалы опыта: стаж строго меньше UpTo лет даёт Score
// баллов. Ступени сортируются по UpTo, стаж за последней ступенью получает
// Config.MaxScore.
type Step struct {
	UpTo  float64
	Score float64
}

// Config задаёт веса итоговой формулы и шкалу опыта. Новая ступень
// шкалы добавляется конфигурацией, без правки алгоритма.
type Config struct {
	SkillWeight      float64
	ExperienceWeight float64
	Steps            []Step
	MaxScore         float64
}

// DefaultConfig — веса 0.7/0.3 и шкала 20/40/60/80 с потолком 100
// на шести годах стажа.
func DefaultConfig() Config {
	return Config{
		SkillWeight:      0.7,
		ExperienceWeight: 0.3,
		Steps: []Step{
			{UpTo: 1, Score: 20},
			{UpTo: 2, Score: 40},
			{UpTo: 4, Score: 60},
			{UpTo: 6, Score: 80},
		},
		MaxScore: 100,
	}
}

// Validate проверяет веса и монотонность шкалы.
func (c Config) Validate() error {
	if c.SkillWeight < 0 || c.ExperienceWeight < 0 {
		return fmt.Errorf("%w: negative weight", ErrInvalidConfig)
	}
	if sum := c.SkillWeight + c.ExperienceWeight; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidConfig, sum)
	}
	if c.MaxScore < 0 || c.MaxScore > 100 {
		return fmt.Errorf("%w: max score %v out of [0,100]", ErrInvalidConfig, c.MaxScore)
	}
	prev := Step{UpTo: math.Inf(-1), Score: math.Inf(-1)}
	for i, s := range c.Steps {
		if s.UpTo <= prev.UpTo {
			return fmt.Errorf("%w: step %d threshold %v not above previous %v", ErrInvalidConfig, i, s.UpTo, prev.UpTo)
		}
		if s.Score < 0 || s.Score > 100 {
			return fmt.Errorf("%w: step %d score %v out of [0,100]", ErrInvalidConfig, i, s.Score)
		}
		if s.Score < prev.Score {
			return fmt.Errorf("%w: step %d score %v below previous %v", ErrInvalidConfig, i, s.Score, prev.Score)
		}
		prev = s
	}
	if len(c.Steps) > 0 && c.MaxScore < c.Steps[len(c.Steps)-1].Score {
		return fmt.Errorf("%w: max score %v below last step", ErrInvalidConfig, c.MaxScore)
	}
	return nil
}

// Record — полный разбор оценки одного кандидата. Создаётся скорером один
// раз и дальше не мутируется. Position — порядковый номер в батче, нужен
// ранкеру как последний детерминированный tie-break и наружу не отдаётся.
type Record struct {
	Name       string   `json:"candidate_name"`
	Email      string   `json:"email,omitempty"`
	Education  string   `json:"education,omitempty"`
	Skills     []string `json:"skills_found"`
	Years      float64  `json:"years_of_experience"`
	Parsed     bool     `json:"extraction_success"`
	Matched    []string `json:"matched_skills"`
	Missing    []string `json:"missing_skills"`
	SkillScore float64  `json:"skill_score"`
	ExpScore   float64  `json:"experience_score"`
	FinalScore float64  `json:"final_score"`
	Tier       string   `json:"tier"`
	Narrative  string   `json:"gap_analysis"`
	Position   int      `json:"-"`
}

// Scorer считает баллы кандидата по формуле
//
//	final = SkillWeight*skill + ExperienceWeight*experience
//
// где skill — процент покрытия требуемых навыков, а experience — ступень
// шкалы стажа. Экземпляр без состояния, безопасен для конкурентного
// использования.
type Scorer struct {
	cfg Config
}

func New(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	steps := make([]Step, len(cfg.Steps))
	copy(steps, cfg.Steps)
	sort.Slice(steps, func(i, j int) bool { return steps[i].UpTo < steps[j].UpTo })
	cfg.Steps = steps
	return &Scorer{cfg: cfg}, nil
}

// Score сопоставляет навыки кандидата с требуемыми и собирает запись
// с баллами, ярусом и текстом разбора. required — канонические навыки
// вакансии; порядок matched и missing повторяет порядок required.
func (s *Scorer) Score(ext extract.Result, required []string) Record {
	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))

	have := make(map[string]struct{}, len(ext.Skills))
	for _, skill := range ext.Skills {
		have[skill] = struct{}{}
	}
	for _, skill := range required {
		if _, ok := have[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	skillScore := s.skillScore(len(matched), len(required))
	expScore := s.experienceScore(ext.Years)
	final := round2(s.cfg.SkillWeight*skillScore + s.cfg.ExperienceWeight*expScore)
	final = math.Min(100, math.Max(0, final))

	rec := Record{
		Name:       ext.Name,
		Email:      ext.Email,
		Education:  ext.Education,
		Skills:     ext.Skills,
		Years:      ext.Years,
		Parsed:     ext.Success,
		Matched:    matched,
		Missing:    missing,
		SkillScore: skillScore,
		ExpScore:   expScore,
		FinalScore: final,
		Tier:       tierFor(final),
	}
	rec.Narrative = narrative(rec)
	return rec
}

// Пустой список требований не означает идеального совпадения: вакансия
// без распознанных навыков даёт ноль, а не сто.
func (s *Scorer) skillScore(matched, required int) float64 {
	if required == 0 {
		return 0
	}
	pct := float64(matched) / float64(required) * 100
	return round2(math.Min(pct, 100))
}

func (s *Scorer) experienceScore(years float64) float64 {
	if years <= 0 {
		return 0
	}
	for _, step := range s.cfg.Steps {
		if years < step.UpTo {
			return step.Score
		}
	}
	return s.cfg.MaxScore
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
