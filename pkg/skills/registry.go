package skills

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/artem13815/resumerank/pkg/nlp"
)

// Registry — неизменяемый реестр канонических навыков и их алиасов.
// Собирается один раз при старте из статического каталога; после
// Validate() безопасно разделяется между горутинами без блокировок.
type Registry struct {
	canonicals map[string]struct{}
	aliases    map[string]string // alias → canonical
	matchers   []matcher         // скомпилированные шаблоны всех поверхностных форм
}

type matcher struct {
	pattern   *regexp.Regexp
	canonical string
}

// New собирает реестр из встроенного каталога. Шаблоны компилируются
// здесь один раз и переиспользуются на каждом Resolve.
func New() *Registry {
	r := &Registry{
		canonicals: make(map[string]struct{}),
		aliases:    make(map[string]string, len(aliasTable)),
	}
	for _, skills := range catalog {
		for _, s := range skills {
			r.canonicals[s] = struct{}{}
		}
	}
	for alias, canonical := range aliasTable {
		r.aliases[alias] = canonical
	}

	// Каждое каноническое имя — тривиальный алиас самого себя.
	surfaces := make([]string, 0, len(r.canonicals)+len(r.aliases))
	for c := range r.canonicals {
		surfaces = append(surfaces, c)
	}
	for a := range r.aliases {
		surfaces = append(surfaces, a)
	}
	sort.Strings(surfaces)

	r.matchers = make([]matcher, 0, len(surfaces))
	for _, s := range surfaces {
		r.matchers = append(r.matchers, matcher{
			pattern:   nlp.TokenPattern(s),
			canonical: r.Canonical(s),
		})
	}
	return r
}

// Validate проверяет согласованность реестра и возвращает список
// нарушений (пустой список — реестр валиден). Непустой результат —
// фатальная ошибка старта: реестром пользоваться нельзя.
func (r *Registry) Validate() []string {
	var violations []string
	for alias, canonical := range r.aliases {
		if _, ok := r.canonicals[canonical]; !ok {
			violations = append(violations, fmt.Sprintf("alias %q maps to unknown canonical %q", alias, canonical))
		}
		if _, ok := r.canonicals[alias]; ok {
			violations = append(violations, fmt.Sprintf("alias %q is also a canonical skill", alias))
		}
		if alias == canonical {
			violations = append(violations, fmt.Sprintf("canonical %q listed as its own alias", canonical))
		}
	}
	sort.Strings(violations)
	return violations
}

// Canonical приводит навык к канонической форме: нормализация плюс
// подстановка алиаса, если он известен.
func (r *Registry) Canonical(skill string) string {
	s := nlp.Normalize(skill)
	if c, ok := r.aliases[s]; ok {
		return c
	}
	return s
}

// Resolve сканирует текст всеми известными поверхностными формами и
// возвращает отсортированный набор найденных канонических навыков.
// Совпадение засчитывается только по целому токену/фразе: "r" не
// найдётся внутри "react", "go" — внутри "good". Несколько алиасов
// одного навыка дают одну запись.
func (r *Registry) Resolve(text string) []string {
	norm := nlp.Normalize(text)
	if norm == "" {
		return nil
	}
	found := make(map[string]struct{})
	for _, m := range r.matchers {
		if _, ok := found[m.canonical]; ok {
			continue
		}
		if m.pattern.MatchString(norm) {
			found[m.canonical] = struct{}{}
		}
	}
	out := make([]string, 0, len(found))
	for c := range found {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Variations возвращает каноническую форму навыка и все её алиасы.
func (r *Registry) Variations(skill string) []string {
	canonical := r.Canonical(skill)
	if canonical == "" {
		return nil
	}
	out := []string{canonical}
	var extra []string
	for alias, c := range r.aliases {
		if c == canonical && alias != canonical {
			extra = append(extra, alias)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Contains сообщает, известен ли навык реестру (как каноникал или алиас).
func (r *Registry) Contains(skill string) bool {
	s := nlp.Normalize(skill)
	if _, ok := r.canonicals[s]; ok {
		return true
	}
	_, ok := r.aliases[s]
	return ok
}

// Size — число канонических навыков в реестре.
func (r *Registry) Size() int {
	return len(r.canonicals)
}
