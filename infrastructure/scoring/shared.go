// Package scoring implements the score model: the computation that
// turns a single judge's raw input for one team in one area into a
// numeric score, given the Area configuration.
package scoring

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by the score model beyond the domain taxonomy.
var (
	// ErrMissingRubricConfig is returned when an area requiring a rubric
	// payload carries none.
	ErrMissingRubricConfig = errors.New("area has no rubric configuration")

	// ErrMissingPerformanceConfig is returned when an area requiring a
	// mission payload carries none.
	ErrMissingPerformanceConfig = errors.New("area has no performance configuration")

	// ErrUnknownScoringType is returned when an area's scoring type is
	// not one of rubric, performance, or mixed.
	ErrUnknownScoringType = errors.New("unknown scoring type")

	// ErrUnknownMixedAggregation is returned when a mixed area's
	// aggregation formula is not one of sum, weighted_average, or
	// percentage.
	ErrUnknownMixedAggregation = errors.New("unknown mixed aggregation")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
