package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsValid(t *testing.T) {
	r := New()
	require.Empty(t, r.Validate())
	assert.Greater(t, r.Size(), 100)
}

func TestAliasRoundTrip(t *testing.T) {
	r := New()
	// Каждый алиас, поданный как текст, должен давать ровно его каноникал.
	for alias, canonical := range aliasTable {
		got := r.Resolve(alias)
		require.Contains(t, got, canonical, "alias %q", alias)
	}
}

func TestResolveWordBoundaries(t *testing.T) {
	r := New()
	tests := []struct {
		name    string
		text    string
		include []string
		exclude []string
	}{
		{
			name:    "r does not match inside react",
			text:    "Senior React developer",
			include: []string{"react"},
			exclude: []string{"r"},
		},
		{
			name:    "go does not match inside good",
			text:    "good communication skills",
			exclude: []string{"go"},
		},
		{
			name:    "go as a standalone token",
			text:    "Backend: Go, Rust, PostgreSQL",
			include: []string{"go", "rust", "postgresql"},
		},
		{
			name:    "punctuated skills",
			text:    "C++ and C# experience, .NET platform, CI/CD pipelines",
			include: []string{"c++", "c#", "dotnet", "ci/cd"},
		},
		{
			name:    "alias and canonical dedupe to one entry",
			text:    "I use React.js and React daily",
			include: []string{"react"},
		},
		{
			name:    "multi word skills",
			text:    "machine learning with scikit-learn and spring boot services",
			include: []string{"machine learning", "scikit-learn", "spring boot"},
		},
		{
			name:    "k8s resolves to kubernetes",
			text:    "deploying to k8s clusters",
			include: []string{"kubernetes"},
			exclude: []string{"k8s"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.text)
			for _, s := range tt.include {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.exclude {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestResolveDedupeCount(t *testing.T) {
	r := New()
	got := r.Resolve("I use React.js and React")
	count := 0
	for _, s := range got {
		if s == "react" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestResolveSorted(t *testing.T) {
	r := New()
	got := r.Resolve("docker, aws, python and react")
	require.Equal(t, []string{"aws", "docker", "python", "react"}, got)
}

func TestResolveEmptyText(t *testing.T) {
	r := New()
	assert.Empty(t, r.Resolve(""))
	assert.Empty(t, r.Resolve("   "))
}

func TestVariations(t *testing.T) {
	r := New()
	assert.Equal(t, []string{"react", "react.js", "reactjs"}, r.Variations("react"))
	assert.Equal(t, []string{"nodejs", "node.js"}, r.Variations("Node.js"))
	assert.Equal(t, []string{"python"}, r.Variations("python"))
}

func TestCanonical(t *testing.T) {
	r := New()
	assert.Equal(t, "react", r.Canonical("React.js"))
	assert.Equal(t, "kubernetes", r.Canonical("K8s"))
	assert.Equal(t, "dotnet", r.Canonical("ASP.NET"))
	assert.Equal(t, "python", r.Canonical("  Python "))
}

func TestContains(t *testing.T) {
	r := New()
	assert.True(t, r.Contains("postgresql"))
	assert.True(t, r.Contains("postgres"))
	assert.False(t, r.Contains("cobol"))
}
