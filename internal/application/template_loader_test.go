package application

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podiumhq/podium/internal/domain"
)

const validTemplate = `
version: "1.0.0"
metadata:
  name: "Regional Tournament"
tournament:
  id: regional-2026
  ranking_method: raw
  area_weights:
    ROBOT_GAME: 2.0
  tie_break: ["ROBOT_GAME", "total_score"]
  multi_judge_aggregation: median
  allow_reevaluation: true
areas:
  - id: area-project
    name: "Research Project"
    code: PROJECT
    scoring_type: rubric
    weight: 1.0
    rubric:
      criteria:
        - id: innovation
          max_score: 10
          weight: 1
          options: [0, 5, 10]
  - id: area-game
    name: "Robot Game"
    code: ROBOT_GAME
    scoring_type: performance
    weight: 2.0
    time_limit_seconds: 150
    time_action: block
    performance:
      missions:
        - id: m01
          points: 10
          quantity: 3
        - id: m02
          points: 20
          quantity: 1
          dependencies: [m01]
`

func TestTemplateLoader_LoadFromBytes(t *testing.T) {
	loader, err := NewTemplateLoader()
	require.NoError(t, err)

	tpl, err := loader.LoadFromBytes(context.Background(), []byte(validTemplate))
	require.NoError(t, err)
	assert.Equal(t, "Regional Tournament", tpl.Metadata.Name)
	assert.Len(t, tpl.Areas, 2)

	config, areas, err := tpl.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, domain.RankRaw, config.RankingMethod)
	assert.Equal(t, domain.AggregateMedian, config.MultiJudgeAggregation)
	assert.True(t, config.AllowReevaluation)
	assert.Equal(t, domain.ConflictLastWriteWins, config.ConflictPolicy,
		"conflict policy defaults to last_write_wins")

	require.Len(t, areas, 2)
	assert.True(t, areas[0].Active, "areas default to active")
	assert.InDelta(t, 10.0, areas[0].MaxPossibleScore(), 0.0001)
	assert.Equal(t, domain.TimeActionBlock, areas[1].TimeAction)
	assert.InDelta(t, 50.0, areas[1].MaxPossibleScore(), 0.0001)
}

func TestTemplateLoader_CachesByContent(t *testing.T) {
	loader, err := NewTemplateLoader()
	require.NoError(t, err)
	ctx := context.Background()

	first, err := loader.LoadFromBytes(ctx, []byte(validTemplate))
	require.NoError(t, err)
	second, err := loader.LoadFromBytes(ctx, []byte(validTemplate))
	require.NoError(t, err)
	assert.Same(t, first, second, "identical content returns the cached template")

	loader.ClearCache()
	third, err := loader.LoadFromBytes(ctx, []byte(validTemplate))
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestTemplateLoader_ConcurrentLoads(t *testing.T) {
	loader, err := NewTemplateLoader()
	require.NoError(t, err)

	const loaders = 8
	results := make([]*TournamentTemplate, loaders)
	errs := make([]error, loaders)
	var wg sync.WaitGroup
	for i := 0; i < loaders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = loader.LoadFromBytes(context.Background(), []byte(validTemplate))
		}()
	}
	wg.Wait()

	for i, tpl := range results {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], tpl)
	}
}

func TestTemplateLoader_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validTemplate), 0600))

	loader, err := NewTemplateLoader()
	require.NoError(t, err)

	tpl, err := loader.LoadFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "regional-2026", tpl.Tournament.ID)

	_, err = loader.LoadFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTemplateLoader_LoadFromReader(t *testing.T) {
	loader, err := NewTemplateLoader()
	require.NoError(t, err)

	tpl, err := loader.LoadFromReader(context.Background(), strings.NewReader(validTemplate))
	require.NoError(t, err)
	assert.Equal(t, "regional-2026", tpl.Tournament.ID)
}

func TestTemplateLoader_InvalidTemplates(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(string) string
		wantText string
	}{
		{
			name:     "malformed yaml",
			mutate:   func(s string) string { return s + "\n\t: bad" },
			wantText: "failed to parse",
		},
		{
			name:     "bad version",
			mutate:   func(s string) string { return strings.Replace(s, `version: "1.0.0"`, `version: "one"`, 1) },
			wantText: "validation failed",
		},
		{
			name:     "lowercase area code",
			mutate:   func(s string) string { return strings.Replace(s, "code: PROJECT", "code: project", 1) },
			wantText: "validation failed",
		},
		{
			name:     "unknown ranking method",
			mutate:   func(s string) string { return strings.Replace(s, "ranking_method: raw", "ranking_method: zscore", 1) },
			wantText: "validation failed",
		},
		{
			name:     "no areas",
			mutate:   func(s string) string { return s[:strings.Index(s, "areas:")] + "areas: []\n" },
			wantText: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := NewTemplateLoader()
			require.NoError(t, err)

			_, err = loader.LoadFromBytes(context.Background(), []byte(tt.mutate(validTemplate)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestTemplateLoader_SemanticValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(string) string
		wantText string
	}{
		{
			name: "duplicate area code",
			mutate: func(s string) string {
				return strings.Replace(s, "code: ROBOT_GAME", "code: PROJECT", 1)
			},
			wantText: `duplicate area code "PROJECT"`,
		},
		{
			name: "weight references unknown code with suggestion",
			mutate: func(s string) string {
				return strings.Replace(s, "ROBOT_GAME: 2.0", "ROBOT_GAM: 2.0", 1)
			},
			wantText: `did you mean "ROBOT_GAME"?`,
		},
		{
			name: "tie-break key neither area nor built-in",
			mutate: func(s string) string {
				return strings.Replace(s, `tie_break: ["ROBOT_GAME", "total_score"]`,
					`tie_break: ["total_scor"]`, 1)
			},
			wantText: `did you mean "total_score"?`,
		},
		{
			name: "rubric area with performance section",
			mutate: func(s string) string {
				return strings.Replace(s, "scoring_type: performance", "scoring_type: rubric", 1)
			},
			wantText: "has no rubric section",
		},
		{
			name: "option above criterion ceiling",
			mutate: func(s string) string {
				return strings.Replace(s, "options: [0, 5, 10]", "options: [0, 5, 11]", 1)
			},
			wantText: "outside [0, 10]",
		},
		{
			name: "unknown mission dependency with suggestion",
			mutate: func(s string) string {
				return strings.Replace(s, "dependencies: [m01]", "dependencies: [m0]", 1)
			},
			wantText: "depends on unknown mission",
		},
		{
			name: "self dependency",
			mutate: func(s string) string {
				return strings.Replace(s, "dependencies: [m01]", "dependencies: [m02]", 1)
			},
			wantText: "depends on itself",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := NewTemplateLoader()
			require.NoError(t, err)

			_, err = loader.LoadFromBytes(context.Background(), []byte(tt.mutate(validTemplate)))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestFindDependencyCycle(t *testing.T) {
	tests := []struct {
		name      string
		deps      map[string][]string
		wantCycle bool
	}{
		{
			name:      "acyclic chain",
			deps:      map[string][]string{"a": {"b"}, "b": {"c"}, "c": nil},
			wantCycle: false,
		},
		{
			name:      "two-node cycle",
			deps:      map[string][]string{"a": {"b"}, "b": {"a"}},
			wantCycle: true,
		},
		{
			name:      "cycle behind a chain",
			deps:      map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"b"}},
			wantCycle: true,
		},
		{
			name:      "diamond is not a cycle",
			deps:      map[string][]string{"a": {"b", "c"}, "b": {"d"}, "c": {"d"}, "d": nil},
			wantCycle: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycle := findDependencyCycle(tt.deps)
			if tt.wantCycle {
				assert.NotEmpty(t, cycle)
			} else {
				assert.Empty(t, cycle)
			}
		})
	}
}
