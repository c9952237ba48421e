package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionError(t *testing.T) {
	key := EvaluationKey{TeamID: "team-1", AreaID: "area-1", JudgeID: "judge-1"}
	err := NewSubmissionError(key, "judge is not assigned to this area", ErrJudgeNotAssigned)

	assert.ErrorIs(t, err, ErrJudgeNotAssigned)
	assert.Contains(t, err.Error(), "team=team-1")
	assert.Contains(t, err.Error(), "judge is not assigned")

	// Wrapping preserves sentinel matching and key extraction.
	wrapped := fmt.Errorf("submit failed: %w", err)
	assert.ErrorIs(t, wrapped, ErrJudgeNotAssigned)

	var subErr *SubmissionError
	require.ErrorAs(t, wrapped, &subErr)
	assert.Equal(t, key, subErr.Key)
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError("Regional Template")
	assert.False(t, verr.HasErrors())

	verr.AddError("duplicate area id \"area-1\"")
	verr.Addf("mission %q depends on itself", "m1")
	require.True(t, verr.HasErrors())
	assert.Len(t, verr.Errors, 2)

	assert.ErrorIs(t, verr, ErrInvalidConfiguration)
	assert.Contains(t, verr.Error(), "Regional Template")
	assert.Contains(t, verr.Error(), "depends on itself")
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidInput, ErrTimeExceeded, ErrReevaluationNotAllowed,
		ErrDuplicateSubmission, ErrJudgeNotAssigned, ErrUnknownArea,
		ErrNoCurrentEvaluation, ErrInvalidConfiguration,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v matches %v", a, b)
		}
	}
}
