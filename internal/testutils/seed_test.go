package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podiumhq/podium/infrastructure/scoring"
	"github.com/podiumhq/podium/internal/application"
)

// Generated templates must pass the real loader, and every generated
// evaluation must score without validation errors.
func TestGeneratedDataIsValid(t *testing.T) {
	loader, err := application.NewTemplateLoader()
	require.NoError(t, err)

	tpl, err := loader.LoadFromBytes(context.Background(), SampleTemplateYAML("sample-regional"))
	require.NoError(t, err)

	_, areas, err := tpl.ToDomain()
	require.NoError(t, err)
	require.Len(t, areas, 3)

	teams := GenerateTeams(5, 42)
	require.Len(t, teams, 5)
	for _, team := range teams {
		assert.NotEmpty(t, team.ID)
		assert.NotEmpty(t, team.Shift)
		assert.NotEmpty(t, team.Grade)
	}

	judges := []string{"judge-01", "judge-02"}
	batch := GenerateEvaluationBatch("sample-regional", teams, areas, judges, 42)
	require.Len(t, batch, len(teams)*len(areas)*len(judges))

	byID := make(map[string]int, len(areas))
	for i, area := range areas {
		byID[area.ID] = i
	}
	scorer, err := scoring.NewModel(scoring.DefaultConfig())
	require.NoError(t, err)
	for _, p := range batch {
		area := areas[byID[p.Key.AreaID]]
		_, err := scorer.ComputeEvaluationScore(context.Background(), area, p.Input)
		assert.NoError(t, err, "key %s", p.Key)
	}
}

// The same seed yields the same batch.
func TestGenerationIsDeterministic(t *testing.T) {
	loader, err := application.NewTemplateLoader()
	require.NoError(t, err)
	tpl, err := loader.LoadFromBytes(context.Background(), SampleTemplateYAML("sample-regional"))
	require.NoError(t, err)
	_, areas, err := tpl.ToDomain()
	require.NoError(t, err)

	teams := GenerateTeams(3, 7)
	assert.Equal(t, teams, GenerateTeams(3, 7))

	judges := []string{"judge-01"}
	first := GenerateEvaluationBatch("t", teams, areas, judges, 7)
	second := GenerateEvaluationBatch("t", teams, areas, judges, 7)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
		assert.Equal(t, first[i].Input.RubricSelections, second[i].Input.RubricSelections)
		assert.Equal(t, first[i].Input.MissionCounts, second[i].Input.MissionCounts)
	}
}
