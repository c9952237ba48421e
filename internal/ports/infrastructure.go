package ports

import (
	"context"
	"time"

	"github.com/podiumhq/podium/internal/domain"
)

// ScoreModel computes a single judge's numeric score for one team in
// one area from raw input, dispatching on the Area's scoring type.
// Implementations must be stateless and safe for concurrent use.
type ScoreModel interface {
	// ComputeEvaluationScore validates the input against the Area
	// configuration and returns the achieved score and ceiling.
	// Invalid selections, counts over quantity, and references to
	// unconfigured ids fail with ErrInvalidInput; exceeding a blocking
	// time limit fails with ErrTimeExceeded. Under the alert action the
	// result carries a warning flag instead.
	ComputeEvaluationScore(ctx context.Context, area domain.Area, input domain.EvaluationInput) (domain.ScoreResult, error)
}

// AreaCatalog resolves area ids against the configuration snapshot a
// computation was given. Configuration is owned by the template-editing
// collaborator and read-only here.
type AreaCatalog interface {
	// AreaByID returns the area with the given id, if configured.
	AreaByID(id string) (domain.Area, bool)
}

// AssignmentChecker is the injected authorization lookup deciding which
// judge may score which area. Assignment state lives outside the engine.
type AssignmentChecker interface {
	// IsJudgeAssigned reports whether the judge may submit for the area.
	IsJudgeAssigned(ctx context.Context, judgeID, areaID string) bool
}

// ConflictResolver decides which submission becomes current when
// offline clients and the store disagree about a key. Isolating the
// policy behind this interface lets server_wins, client_wins, or manual
// resolution be added without touching store internals.
type ConflictResolver interface {
	// Name returns the policy identifier for logging and configuration.
	Name() string

	// Resolve picks the winner among the existing current evaluation
	// (nil when the key has none) and the pending submissions for the
	// same key. It returns the index of the winning pending submission,
	// or -1 when the existing evaluation remains current.
	Resolve(existing *domain.Evaluation, pending []domain.PendingEvaluation) (int, error)
}

// Notifier delivers change events to collaborators that cache ranking
// or report output. Delivery is best-effort; the engine itself holds no
// cache and is always correct on demand.
type Notifier interface {
	// Publish emits one change event.
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations should integrate with observability
// platforms like Prometheus, OpenTelemetry, or custom monitoring
// solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like accepted or rejected
	// submissions, reconcile outcomes, errors, etc.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like stored evaluation counts.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like ranking latency or
	// score spreads.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
