package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "React AND Python", "react and python"},
		{"collapses whitespace", "spring   boot\n\tdeveloper", "spring boot developer"},
		{"trims edges", "  docker  ", "docker"},
		{"keeps punctuation", "C++, .NET and CI/CD", "c++, .net and ci/cd"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTokenPattern(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		text   string
		want   bool
	}{
		{"whole token matches", "go", "go developer", true},
		{"no match inside longer token", "go", "good communication", false},
		{"single letter not inside word", "r", "react and redux", false},
		{"single letter as token", "r", "python, r, matlab", true},
		{"punctuated skill", "c++", "knows c++ well", true},
		{"punctuated skill at end", "c++", "java and c++", true},
		{"dotted skill", ".net", "worked with .net daily", true},
		{"dotted skill not inside host name", ".net", "see limit.network docs", false},
		{"slash skill", "ci/cd", "built ci/cd pipelines", true},
		{"phrase", "spring boot", "java spring boot services", true},
		{"phrase not split", "spring boot", "spring bootstrap", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := TokenPattern(tt.phrase)
			assert.Equal(t, tt.want, p.MatchString(Normalize(tt.text)))
		})
	}
}
