// Package store provides the in-memory evaluation ledger: one
// append-only, versioned history per (team, area, judge) key.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/podiumhq/podium/internal/domain"
	"github.com/podiumhq/podium/internal/ports"
)

var _ ports.EvaluationStore = (*MemoryStore)(nil)

// entry is the versioned history for one key.
//
// history is ordered by version. current indexes the record surfaced as
// current; normal submissions keep it at the newest version, while
// reconciliation may pin an earlier arrival that carries a later client
// timestamp. retracted withdraws the key entirely until the next
// promoting write.
type entry struct {
	history   []domain.Evaluation
	current   int
	retracted bool
}

// MemoryStore implements ports.EvaluationStore with RWMutex-guarded
// maps. The single writer lock serializes submissions per key, so two
// concurrent resubmissions cannot both be accepted as current.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[domain.EvaluationKey]*entry

	// byTeamArea indexes keys by (team, area) for CurrentFor reads.
	byTeamArea map[teamArea][]domain.EvaluationKey

	keyCount atomic.Int64

	allowReevaluation bool
	now               func() time.Time
	newID             func() string
}

type teamArea struct {
	teamID string
	areaID string
}

// NewMemoryStore creates an empty store. Reevaluation is disallowed
// unless enabled via WithReevaluation, matching the conservative
// tournament default.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries:    make(map[domain.EvaluationKey]*entry),
		byTeamArea: make(map[teamArea][]domain.EvaluationKey),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records input as the next version for the key and makes it
// current. A resubmission for a key with a current version fails with
// ErrReevaluationNotAllowed unless reevaluation is enabled.
func (s *MemoryStore) Submit(ctx context.Context, key domain.EvaluationKey, input domain.EvaluationInput, score domain.ScoreResult) (domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Evaluation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && !e.retracted && !s.allowReevaluation {
		return domain.Evaluation{}, domain.NewSubmissionError(
			key, "a current evaluation exists and the tournament forbids reevaluation",
			domain.ErrReevaluationNotAllowed)
	}
	return s.append(key, input, score, s.now(), true), nil
}

// Append records input at the next version with an explicit evaluation
// time, promoting it to current only when requested. It bypasses the
// reevaluation gate; reconciliation owns that policy decision.
func (s *MemoryStore) Append(ctx context.Context, key domain.EvaluationKey, input domain.EvaluationInput, score domain.ScoreResult, evaluatedAt time.Time, promote bool) (domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Evaluation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(key, input, score, evaluatedAt, promote), nil
}

// append writes the next version under the held write lock.
func (s *MemoryStore) append(key domain.EvaluationKey, input domain.EvaluationInput, score domain.ScoreResult, evaluatedAt time.Time, promote bool) domain.Evaluation {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{current: -1}
		s.entries[key] = e
		ta := teamArea{teamID: key.TeamID, areaID: key.AreaID}
		s.byTeamArea[ta] = append(s.byTeamArea[ta], key)
		s.keyCount.Add(1)
	}

	eval := domain.Evaluation{
		ID:          s.newID(),
		Key:         key,
		Input:       input,
		Score:       score,
		EvaluatedAt: evaluatedAt,
		Version:     len(e.history) + 1,
	}
	e.history = append(e.history, eval)
	if promote || e.current < 0 {
		e.current = len(e.history) - 1
		e.retracted = false
	}
	return eval
}

// CurrentFor returns the current evaluation of every judge for the team
// and area, excluding retracted keys. Results are ordered by judge id
// for determinism. An empty slice means the area is unscored for the
// team.
func (s *MemoryStore) CurrentFor(ctx context.Context, teamID, areaID string) ([]domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.byTeamArea[teamArea{teamID: teamID, areaID: areaID}]
	current := make([]domain.Evaluation, 0, len(keys))
	for _, key := range keys {
		e := s.entries[key]
		if e == nil || e.retracted || e.current < 0 {
			continue
		}
		current = append(current, e.history[e.current])
	}
	sortByJudge(current)
	return current, nil
}

// CurrentByJudge returns the current evaluation for one key.
func (s *MemoryStore) CurrentByJudge(ctx context.Context, key domain.EvaluationKey) (domain.Evaluation, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Evaluation{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.retracted || e.current < 0 {
		return domain.Evaluation{}, false, nil
	}
	return e.history[e.current], true, nil
}

// HistoryFor returns every retained version for the key in increasing
// version order. The returned slice is a copy; mutating it does not
// affect the store.
func (s *MemoryStore) HistoryFor(ctx context.Context, key domain.EvaluationKey) ([]domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	history := make([]domain.Evaluation, len(e.history))
	copy(history, e.history)
	return history, nil
}

// Retract withdraws the key's current evaluation. History stays
// retrievable for audit; the key reads as unscored until a promoting
// write lands.
func (s *MemoryStore) Retract(ctx context.Context, key domain.EvaluationKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.retracted || e.current < 0 {
		return domain.NewSubmissionError(key, "nothing to retract", domain.ErrNoCurrentEvaluation)
	}
	retracted := e.history[e.current]
	retracted.Retracted = true
	e.history[e.current] = retracted
	e.retracted = true
	return nil
}

// Len reports the number of keys with at least one version.
func (s *MemoryStore) Len(ctx context.Context) int {
	return int(s.keyCount.Load())
}

// sortByJudge orders evaluations by judge id ascending. Insertion sort
// keeps it allocation-free for the small per-area judge counts.
func sortByJudge(evals []domain.Evaluation) {
	for i := 1; i < len(evals); i++ {
		for j := i; j > 0 && evals[j].Key.JudgeID < evals[j-1].Key.JudgeID; j-- {
			evals[j], evals[j-1] = evals[j-1], evals[j]
		}
	}
}
